package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/supergeri/workout-content-transformation-sub001/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "Planmap server URL (e.g. https://planmap.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("PLANMAP_AUTH_API_KEY"), "API key for the Planmap server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("planmap-mcp", Version)
		return
	}

	// MCP speaks JSON-RPC on stdout; logs must go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: planmap-mcp -server <URL> [-api-key KEY]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	client := mcp.NewHTTPClient(*serverURL, *apiKey)
	s := mcp.New(client, Version, log)

	log.Info("planmap-mcp serving on stdio", "server", *serverURL)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
