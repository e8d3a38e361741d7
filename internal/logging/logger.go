package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged.
type Options struct {
	Dir        string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	Command    string
}

var (
	loggerMu     sync.Mutex
	globalLogger = newDiscardLogger()
	globalSink   io.Closer
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Setup routes the package logger to a rotated file under opts.Dir and
// returns the file path. Until Setup is called, entries are discarded.
func Setup(opts Options) (string, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return "", fmt.Errorf("parse log level: %w", err)
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	name := "docrank.log"
	if opts.Command != "" {
		name = fmt.Sprintf("docrank-%s.log", opts.Command)
	}
	path := filepath.Join(opts.Dir, name)
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	l := logrus.New()
	l.SetOutput(sink)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	loggerMu.Lock()
	prev := globalSink
	globalLogger = l
	globalSink = sink
	loggerMu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}

	LogInfo("logger initialized", map[string]interface{}{
		"log_file": path,
		"level":    level.String(),
	})
	return path, nil
}

// SetOutput replaces the package logger with one writing to w.
func SetOutput(w io.Writer, level logrus.Level) {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	loggerMu.Lock()
	globalLogger = l
	loggerMu.Unlock()
}

// Close flushes and closes the log file, if any.
func Close() error {
	loggerMu.Lock()
	sink := globalSink
	globalSink = nil
	globalLogger = newDiscardLogger()
	loggerMu.Unlock()
	if sink == nil {
		return nil
	}
	return sink.Close()
}

func current() *logrus.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return globalLogger
}

func LogInfo(message string, details map[string]interface{}) {
	current().WithFields(details).Info(message)
}

func LogWarn(message string, details map[string]interface{}) {
	current().WithFields(details).Warn(message)
}

func LogError(message string, details map[string]interface{}) {
	current().WithFields(details).Error(message)
}

func LogDebug(message string, details map[string]interface{}) {
	current().WithFields(details).Debug(message)
}
