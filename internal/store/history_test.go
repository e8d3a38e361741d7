package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, NewHistoryStore(db).Record(&QueryRecord{Query: "fox", Mode: "tfidf"}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	version, err := db.getSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)

	records, err := NewHistoryStore(db).Recent(0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestHistoryStore_RecordAndGet(t *testing.T) {
	db := openTestDB(t)
	hs := NewHistoryStore(db)

	rec := &QueryRecord{
		Query:       "quick fox",
		Mode:        "tfidf",
		CorpusRoot:  "/tmp/books",
		ChunkSize:   500,
		ChunkCount:  12,
		ResultCount: 3,
		TopSource:   "books/a.txt",
		TopScore:    0.42,
		DurationMS:  7,
	}
	require.NoError(t, hs.Record(rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := hs.Get(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.Query, got.Query)
	assert.Equal(t, rec.TopSource, got.TopSource)
	assert.InDelta(t, rec.TopScore, got.TopScore, 1e-9)
	assert.Equal(t, 12, got.ChunkCount)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Millisecond)

	missing, err := hs.Get("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, hs.Record(nil))
}

func TestHistoryStore_EmptyTopSource(t *testing.T) {
	hs := NewHistoryStore(openTestDB(t))
	rec := &QueryRecord{Query: "nothing", Mode: "bleve"}
	require.NoError(t, hs.Record(rec))

	got, err := hs.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.TopSource)
	assert.Zero(t, got.TopScore)
}

func TestHistoryStore_RecentOrder(t *testing.T) {
	hs := NewHistoryStore(openTestDB(t))
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, q := range []string{"first", "second", "third"} {
		require.NoError(t, hs.Record(&QueryRecord{
			Query:     q,
			Mode:      "tfidf",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	records, err := hs.Recent(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "third", records[0].Query)
	assert.Equal(t, "second", records[1].Query)

	all, err := hs.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHistoryStore_Frequent(t *testing.T) {
	hs := NewHistoryStore(openTestDB(t))
	for _, q := range []string{"fox", "dog", "fox", "cat", "fox", "dog"} {
		require.NoError(t, hs.Record(&QueryRecord{Query: q, Mode: "tfidf"}))
	}

	counts, err := hs.Frequent(2)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "fox", counts[0].Query)
	assert.Equal(t, 3, counts[0].Count)
	assert.Equal(t, "dog", counts[1].Query)
	assert.False(t, counts[0].LastUsed.IsZero())
}

func TestDB_StatsAndClear(t *testing.T) {
	db := openTestDB(t)
	hs := NewHistoryStore(db)
	for _, q := range []string{"a", "b", "a"} {
		require.NoError(t, hs.Record(&QueryRecord{Query: q, Mode: "tfidf"}))
	}

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.QueryCount)
	assert.Equal(t, int64(2), stats.DistinctQueries)
	assert.Greater(t, stats.SizeBytes, int64(0))

	require.NoError(t, db.Clear())
	stats, err = db.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.QueryCount)
}

func TestParseTimeValue(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)

	got, err := parseTimeValue(formatTime(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	got, err = parseTimeValue([]byte("2024-01-02T03:04:05Z"))
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())

	got, err = parseTimeValue(nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseTimeValue("yesterday")
	assert.Error(t, err)
	_, err = parseTimeValue(42)
	assert.Error(t, err)
}
