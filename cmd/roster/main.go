package main

import (
	"fmt"
	"os"

	"github.com/HerbHall/roster/internal/version"
)

const usage = `Usage: roster <command> [flags]

Commands:
  serve     run the HTTP server (default)
  import    fetch the character data and store a snapshot
  backup    export the latest snapshot as gzip-compressed JSON
  mcp       serve the MCP tools over stdio
  version   print build information

Run "roster <command> -h" for command flags.
`

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		runServe(nil)
		return
	}

	switch args[0] {
	case "serve":
		runServe(args[1:])
	case "import":
		runImport(args[1:])
	case "backup":
		runBackup(args[1:])
	case "mcp":
		runMCP(args[1:])
	case "version":
		fmt.Println(version.Info())
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		os.Exit(2)
	}
}
