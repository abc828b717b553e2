package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/modectl/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "modes":
		os.Exit(runModes(os.Args[2:]))
	case "set":
		os.Exit(runSet(os.Args[2:]))
	case "restore":
		os.Exit(runRestore(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: modectl <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list                List video outputs")
	fmt.Fprintln(w, "  modes <output>      List supported modes of an output")
	fmt.Fprintln(w, "  set <output> [mode] Switch an output to a mode (e.g. 1920x1080@60);")
	fmt.Fprintln(w, "                      uses the configured preferred mode when omitted")
	fmt.Fprintln(w, "  restore [output]    Restore an output (or all outputs) to its desktop mode")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  help                Show this help")
}

// loadConfigAndLogger loads the configuration and builds the process logger.
func loadConfigAndLogger() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	return cfg, logger, nil
}
