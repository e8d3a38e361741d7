package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus"`
	Search  SearchConfig  `yaml:"search"`
	Log     LogConfig     `yaml:"log,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
}

// CorpusConfig controls which files are loaded
type CorpusConfig struct {
	Root         string   `yaml:"root"`                    // Directory to search
	Extensions   []string `yaml:"extensions,omitempty"`    // File extensions to load
	ExcludeDirs  []string `yaml:"exclude_dirs,omitempty"`  // Directory names to skip
	Exclude      []string `yaml:"exclude,omitempty"`       // Glob patterns to skip
	UseGitignore bool     `yaml:"use_gitignore,omitempty"` // Honour <root>/.gitignore
}

// SearchConfig holds search-specific configuration
type SearchConfig struct {
	ChunkSize int    `yaml:"chunk_size,omitempty"` // Chunk size in bytes
	TopK      int    `yaml:"top_k,omitempty"`      // Default number of results
	Mode      string `yaml:"mode,omitempty"`       // "tfidf" | "bleve"
}

// LogConfig holds log file configuration
type LogConfig struct {
	Dir        string `yaml:"dir,omitempty"`
	Level      string `yaml:"level,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
}

// HistoryConfig holds query history configuration
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"` // SQLite database file
}

// HistoryEnabled reports whether queries are recorded. Defaults to true.
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// DefaultPath returns ~/.docrank/config/docrank.yaml
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".docrank", "config", "docrank.yaml")
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	_ = cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFromFile(DefaultPath())
}

// LoadOptional loads path (or the default path when empty) and falls back to
// defaults when the file does not exist. Environment overrides are applied.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		if !IsConfigNotFound(err) {
			return nil, err
		}
		cfg = Default()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{
				RequestedPath: path,
				DefaultPath:   DefaultPath(),
			}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ConfigNotFoundError is returned when config file is not found
type ConfigNotFoundError struct {
	RequestedPath string
	DefaultPath   string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found at: %s (default location: %s)", e.RequestedPath, e.DefaultPath)
}

// IsConfigNotFound checks if error is config not found
func IsConfigNotFound(err error) bool {
	_, ok := err.(*ConfigNotFoundError)
	return ok
}

// LoadDotEnv loads a .env file from the working directory when present.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// ApplyEnv overrides configuration values from DOCRANK_* environment variables
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv("DOCRANK_ROOT")); v != "" {
		c.Corpus.Root = expandPath(v)
	}
	if v := strings.TrimSpace(os.Getenv("DOCRANK_CHUNK_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DOCRANK_CHUNK_SIZE %q: %w", v, err)
		}
		c.Search.ChunkSize = n
	}
	if v := strings.TrimSpace(os.Getenv("DOCRANK_TOP_K")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DOCRANK_TOP_K %q: %w", v, err)
		}
		c.Search.TopK = n
	}
	if v := strings.TrimSpace(os.Getenv("DOCRANK_MODE")); v != "" {
		c.Search.Mode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("DOCRANK_LOG_LEVEL")); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}

// expandPath expands ~ and $HOME to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "$HOME/") || path == "$HOME" {
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			var err error
			homeDir, err = os.UserHomeDir()
			if err != nil {
				return path
			}
		}
		if path == "$HOME" {
			return homeDir
		}
		return filepath.Join(homeDir, path[6:])
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return homeDir
		}
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() error {
	if c.Corpus.Root == "" {
		c.Corpus.Root = "."
	}
	c.Corpus.Root = expandPath(c.Corpus.Root)
	if len(c.Corpus.Extensions) == 0 {
		c.Corpus.Extensions = []string{".txt"}
	}
	if len(c.Corpus.ExcludeDirs) == 0 {
		c.Corpus.ExcludeDirs = []string{".git", "node_modules", "vendor"}
	}

	if c.Search.ChunkSize == 0 {
		c.Search.ChunkSize = 500
	}
	if c.Search.TopK == 0 {
		c.Search.TopK = 10
	}
	if c.Search.Mode == "" {
		c.Search.Mode = "tfidf"
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	if c.Log.Dir == "" {
		c.Log.Dir = filepath.Join(homeDir, ".docrank", "logs")
	}
	c.Log.Dir = expandPath(c.Log.Dir)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}

	if c.History.Path == "" {
		c.History.Path = filepath.Join(homeDir, ".docrank", "data", "history.db")
	}
	c.History.Path = expandPath(c.History.Path)

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Search.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got: %d", c.Search.ChunkSize)
	}
	if c.Search.TopK < 0 {
		return fmt.Errorf("top_k must not be negative, got: %d", c.Search.TopK)
	}
	switch c.Search.Mode {
	case "tfidf", "bleve":
	default:
		return fmt.Errorf("unsupported search mode: %s", c.Search.Mode)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// SaveToFile saves the configuration to a specific file
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

const defaultConfigTemplate = `# docrank configuration
#
# Default location: $HOME/.docrank/config/docrank.yaml

corpus:
  root: .
  extensions: [".txt"]
  exclude_dirs: [".git", "node_modules", "vendor"]
  # exclude: ["drafts/**", "*.tmp.txt"]
  use_gitignore: false

search:
  chunk_size: 500   # bytes per chunk
  top_k: 10
  mode: tfidf       # "tfidf" or "bleve"

log:
  level: info
  # dir: ~/.docrank/logs

history:
  enabled: true
  # path: ~/.docrank/data/history.db
`

// WriteDefaultTemplate creates a default configuration file if it does not exist.
// It returns true if a file was created, false if it already existed.
func WriteDefaultTemplate(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return false, fmt.Errorf("failed to write config template: %w", err)
	}
	return true, nil
}
