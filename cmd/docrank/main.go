package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/DreamCats/docrank/cmd/docrank/internal"
	"github.com/DreamCats/docrank/internal/config"
	"github.com/DreamCats/docrank/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		internal.PrintUsage()
		os.Exit(1)
	}

	configPath := ""
	rootPath := ""
	args := os.Args[1:]

	validSubcommands := map[string]bool{
		"search":  true,
		"grep":    true,
		"stats":   true,
		"history": true,
		"browse":  true,
		"init":    true,
	}

	subcommandIndex := -1
	for i, arg := range args {
		if !strings.HasPrefix(arg, "-") && validSubcommands[arg] {
			subcommandIndex = i
			break
		}
	}

	globalFlags := args
	if subcommandIndex >= 0 {
		globalFlags = args[:subcommandIndex]
	}
	for i := 0; i < len(globalFlags); i++ {
		flag := globalFlags[i]
		switch flag {
		case "-config", "--config":
			if i+1 < len(globalFlags) {
				configPath = globalFlags[i+1]
				i++
			}
		case "-root", "--root":
			if i+1 < len(globalFlags) {
				rootPath = globalFlags[i+1]
				i++
			}
		case "-h", "-help", "--help":
			internal.PrintUsage()
			os.Exit(0)
		case "-v", "-version", "--version":
			fmt.Printf("docrank version %s\n", internal.Version)
			os.Exit(0)
		default:
			if strings.HasPrefix(flag, "-") {
				fmt.Fprintf(os.Stderr, "Error: Unknown global flag: %s\n\n", flag)
				internal.PrintUsage()
				os.Exit(1)
			}
		}
	}

	if subcommandIndex == -1 {
		fmt.Fprintf(os.Stderr, "Error: No subcommand specified\n\n")
		internal.PrintUsage()
		os.Exit(1)
	}

	subcommand := args[subcommandIndex]
	subcommandArgs := args[subcommandIndex+1:]

	if subcommand == "init" {
		handleInit(configPath, subcommandArgs)
		return
	}

	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		if config.IsConfigNotFound(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			internal.PrintConfigExample()
			os.Exit(1)
		}
		log.Fatalf("Failed to load config: %v\n", err)
	}

	if rootPath != "" {
		cfg.Corpus.Root = rootPath
	}
	corpusRoot, err := internal.ResolveCorpusRoot(cfg.Corpus.Root)
	if err != nil {
		log.Fatalf("Failed to resolve corpus root: %v\n", err)
	}
	cfg.Corpus.Root = corpusRoot

	if _, err := internal.SetupLogging(subcommand, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize log file: %v\n", err)
	}
	defer logging.Close()

	switch subcommand {
	case "search":
		handleSearch(cfg, subcommandArgs)
	case "grep":
		handleGrep(cfg, subcommandArgs)
	case "stats":
		handleStats(cfg, subcommandArgs)
	case "history":
		handleHistory(cfg, subcommandArgs)
	case "browse":
		handleBrowse(cfg, subcommandArgs)
	}
}
