package internal

import (
	"github.com/DreamCats/docrank/internal/config"
	"github.com/DreamCats/docrank/internal/logging"
)

// SetupLogging 根据子命令初始化日志文件，返回日志文件路径。
func SetupLogging(subcommand string, cfg *config.Config) (string, error) {
	return logging.Setup(logging.Options{
		Dir:        cfg.Log.Dir,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Command:    subcommand,
	})
}
