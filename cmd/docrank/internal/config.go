package internal

import (
	"fmt"
	"os"

	"github.com/DreamCats/docrank/internal/config"
)

// LoadConfig 加载 .env 与 YAML 配置文件。
// 显式指定的路径必须存在；未指定时缺失默认配置文件则使用内置默认值。
func LoadConfig(configPath string) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.LoadOptional("")
}

// PrintConfigExample 向 stderr 打印一份 YAML 配置示例。
func PrintConfigExample() {
	fmt.Fprintf(os.Stderr, `Create a configuration file at %s, or run "docrank init":

corpus:
  root: ~/notes
  extensions: [".txt", ".md"]
  exclude: ["drafts/**"]
  use_gitignore: true

search:
  chunk_size: 500
  top_k: 10
  mode: tfidf        # or "bleve"

history:
  enabled: true

Environment overrides:
  DOCRANK_ROOT, DOCRANK_CHUNK_SIZE, DOCRANK_TOP_K, DOCRANK_MODE, DOCRANK_LOG_LEVEL
`, config.DefaultPath())
}
