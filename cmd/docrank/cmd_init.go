package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/DreamCats/docrank/internal/config"
)

// handleInit implements the init subcommand
func handleInit(configPath string, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docrank [-config <path>] init

DESCRIPTION:
    Write a default config file (default: %s).
    An existing file is left untouched.
`, config.DefaultPath())
	}
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	if configPath == "" {
		configPath = config.DefaultPath()
	}
	created, err := config.WriteDefaultTemplate(configPath)
	if err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}
	if created {
		fmt.Printf("Created default config at %s\n", configPath)
	} else {
		fmt.Printf("Config already exists at %s\n", configPath)
	}
}
