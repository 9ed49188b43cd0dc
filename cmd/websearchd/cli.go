package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/websearch"
	"github.com/fwojciec/websearch/config"
	"github.com/fwojciec/websearch/index"
	"github.com/fwojciec/websearch/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Config   *config.Config
	Service  *pipeline.Service
	Answerer websearch.Answerer
	Index    *index.Index
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `help:"Configuration file path" type:"path"`

	Serve   ServeCmd   `cmd:"" help:"Start the HTTP API server"`
	Ask     AskCmd     `cmd:"" help:"Answer a question from web search results"`
	Context ContextCmd `cmd:"" help:"Print retrieved context snippets without synthesis"`
	Stats   StatsCmd   `cmd:"" help:"Show vector store statistics"`
	Cleanup CleanupCmd `cmd:"" help:"Remove indexed points older than a cutoff"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides configuration)"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Query     string `arg:"" help:"Question to answer"`
	K         int    `short:"k" help:"Maximum number of search results"`
	Lang      string `help:"Preferred language for results and the answer"`
	Freshness int    `help:"Restrict results to the last N days"`
}

// ContextCmd is the "context" subcommand.
type ContextCmd struct {
	Query   string `arg:"" help:"Question to retrieve context for"`
	K       int    `short:"k" help:"Maximum number of search results"`
	Lang    string `help:"Preferred language for results"`
	Lexical bool   `help:"Rank chunks lexically instead of querying the vector store"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// CleanupCmd is the "cleanup" subcommand.
type CleanupCmd struct {
	MaxAgeHours float64 `default:"24" help:"Delete points older than this many hours"`
}
