package retrieval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveindex "github.com/blevesearch/bleve_index_api"

	"github.com/DreamCats/docrank/internal/chunker"
)

type bleveChunk struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Index   int    `json:"index"`
}

// BleveRank ranks chunks with bleve's BM25 scoring. The index is
// held in memory for the duration of the call only. k <= 0 returns every hit.
func BleveRank(query string, chunks []chunker.Chunk, k int) ([]ScoredChunk, error) {
	if strings.TrimSpace(query) == "" || len(chunks) == 0 {
		return nil, nil
	}

	index, err := bleve.NewMemOnly(buildChunkMapping())
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}
	defer index.Close()

	batch := index.NewBatch()
	for i, c := range chunks {
		doc := bleveChunk{Content: c.Text, Source: c.Source, Index: c.Index}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			return nil, fmt.Errorf("index chunk %s#%d: %w", c.Source, c.Index, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("flush bleve batch: %w", err)
	}

	size := k
	if size <= 0 || size > len(chunks) {
		size = len(chunks)
	}
	match := bleve.NewMatchQuery(query)
	match.SetField("content")
	req := bleve.NewSearchRequestOptions(match, size, 0, false)
	res, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	results := make([]ScoredChunk, 0, len(res.Hits))
	for _, hit := range res.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil || pos < 0 || pos >= len(chunks) {
			continue
		}
		if hit.Score <= 0 {
			continue
		}
		results = append(results, ScoredChunk{Chunk: chunks[pos], Score: hit.Score})
	}
	return results, nil
}

func buildChunkMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "standard"
	indexMapping.DefaultField = "content"
	indexMapping.ScoringModel = bleveindex.BM25Scoring

	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.Index = true
	docMapping.AddFieldMappingsAt("content", contentField)

	sourceField := bleve.NewTextFieldMapping()
	sourceField.Store = true
	sourceField.Index = true
	sourceField.Analyzer = "keyword"
	docMapping.AddFieldMappingsAt("source", sourceField)

	indexField := bleve.NewNumericFieldMapping()
	indexField.Store = true
	indexField.Index = false
	docMapping.AddFieldMappingsAt("index", indexField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
