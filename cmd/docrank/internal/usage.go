package internal

import (
	"fmt"
	"os"
	"strings"
)

const Version = "0.3.0"

// PrintUsage 向 stderr 输出 docrank 的用法与可用子命令列表。
func PrintUsage() {
	fmt.Fprintf(os.Stderr, `docrank - TF-IDF search over a directory of text files

Version: %s

USAGE:
    docrank [global options] <command> [command options]

GLOBAL OPTIONS:
    -config <path>
        Path to config file (default: ~/.docrank/config/docrank.yaml)

    -root <path>
        Override corpus root directory

    -v, -version
        Show version information

    -h, -help
        Show this help message

COMMANDS:
    search
        Rank chunks by TF-IDF relevance to a query

    grep
        List matching chunks or lines containing a literal query

    stats
        Show corpus statistics

    history
        Show recent and frequent queries

    browse
        Interactive search in the terminal

    init
        Write a default config file

EXAMPLES:
    # Rank chunks under the current directory
    docrank search "quick fox"

    # Search another directory with smaller chunks
    docrank -root ~/books search -size 200 "whale"

    # Compare with the bleve baseline
    docrank search -mode bleve "whale"

    # Case-insensitive line search
    docrank grep -lines "captain"

For detailed help on each command, use:
    docrank <command> -help
`, Version)
}

// StringList is a flag.Value that collects multiple strings
type StringList []string

func (s *StringList) String() string {
	return strings.Join(*s, ",")
}

// Set 将单个字符串追加到 StringList，允许多次传入同一 flag。
func (s *StringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}
