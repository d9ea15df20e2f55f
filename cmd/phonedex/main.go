package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/HerbHall/phonedex/internal/config"
	"github.com/HerbHall/phonedex/internal/version"
	pkgcatalog "github.com/HerbHall/phonedex/pkg/catalog"
)

const usage = `Usage: phonedex [command] [flags]

Commands:
  serve     run the HTTP API (default)
  mcp       serve catalog tools over stdio for MCP clients
  backup    archive the database and config file
  restore   restore a backup archive
  version   print version information
`

func main() {
	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		runServe(args)
	case "mcp":
		runMCP(args)
	case "backup":
		runBackup(args)
	case "restore":
		runRestore(args)
	case "version":
		fmt.Println(version.Info())
	case "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}

// newLogger builds the process logger. The MCP server writes its protocol
// to stdout, so logs always go to stderr.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.GetBool("log.development") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openCatalog returns the embedded dataset unless catalog.path names a YAML
// file.
func openCatalog(cfg *config.Config) *pkgcatalog.Catalog {
	if path := cfg.GetString("catalog.path"); path != "" {
		return pkgcatalog.NewFileCatalog(path)
	}
	return pkgcatalog.NewCatalog()
}
