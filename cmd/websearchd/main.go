package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	goopenai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/fwojciec/websearch"
	"github.com/fwojciec/websearch/chromem"
	"github.com/fwojciec/websearch/config"
	"github.com/fwojciec/websearch/crawl"
	"github.com/fwojciec/websearch/crawl4ai"
	"github.com/fwojciec/websearch/gemini"
	"github.com/fwojciec/websearch/htmltomarkdown"
	"github.com/fwojciec/websearch/index"
	"github.com/fwojciec/websearch/openai"
	"github.com/fwojciec/websearch/pipeline"
	"github.com/fwojciec/websearch/searxng"
	wslog "github.com/fwojciec/websearch/slog"
	"github.com/fwojciec/websearch/sqlite"
	"github.com/fwojciec/websearch/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration file path. Set before calling Run().
	ConfigPath string

	// Loaded configuration.
	Config *config.Config

	// SQLite database, when the sqlite store backend is selected.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Service *pipeline.Service
	Index   *index.Index
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: os.Getenv("WEBSEARCH_CONFIG"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Service != nil {
		m.Service.Wait()
	}
	if m.Index != nil {
		m.Index.Wait()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("websearchd"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'websearchd --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd, _, _ = strings.Cut(kongCtx.Command(), " ")

	if m.ConfigPath == "" {
		m.ConfigPath = cli.Config
	}
	m.Config, err = config.Load(m.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := m.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	deps.Logger = logger
	deps.Config = m.Config

	if err := m.wireServices(ctx, deps, cmd); err != nil {
		return err
	}
	defer m.Close()

	return kongCtx.Run(deps)
}

// wireServices builds the pipeline from the loaded configuration. The
// stats and cleanup commands only need the store half.
func (m *Main) wireServices(ctx context.Context, deps *Dependencies, cmd string) error {
	cfg := m.Config

	store, history, err := m.openStore()
	if err != nil {
		return err
	}
	store = wslog.NewLoggingVectorStore(store, deps.Logger)

	m.Index = &index.Index{
		Store:           store,
		Logger:          deps.Logger,
		Workers:         cfg.EmbedWorkers,
		HighWaterPoints: cfg.HighWaterPoints,
		MaxPointAge:     time.Duration(cfg.MaxPointAgeHours) * time.Hour,
	}
	deps.Index = m.Index

	// The maintenance commands never embed anything, so they work
	// without provider credentials.
	if cmd == "stats" || cmd == "cleanup" {
		return nil
	}

	embedder, summarizer, err := buildProvider(ctx, cfg, deps.Stderr)
	if err != nil {
		return err
	}
	m.Index.Embedder = embedder

	// Without an embedder the vector path cannot run; leaving the
	// pipeline's indexer unset switches it to lexical selection.
	var indexer pipeline.Indexer
	if embedder != nil {
		indexer = m.Index
	}

	fetcher := crawl4ai.NewClient(cfg.Crawl4AIURL,
		crawl4ai.WithTimeout(time.Duration(cfg.CrawlTimeoutSeconds)*time.Second),
		crawl4ai.WithConnectTimeout(time.Duration(cfg.ConnectTimeoutSeconds)*time.Second),
		crawl4ai.WithConverter(htmltomarkdown.NewConverter()),
		crawl4ai.WithExtractor(trafilatura.NewExtractor()),
	)

	m.Service = &pipeline.Service{
		Searcher: searxng.NewClient(cfg.SearxNGURL),
		Crawler: &crawl.Pool{
			Fetcher:          wslog.NewLoggingPageFetcher(fetcher, deps.Logger),
			Limiter:          crawl.NewDomainLimiter(cfg.CrawlRequestsPerSec),
			Concurrency:      cfg.CrawlConcurrency,
			MinDocumentChars: cfg.MinDocumentChars,
		},
		Indexer:    indexer,
		Summarizer: summarizer,
		History:    history,
		Relevance:  &websearch.RelevanceRetriever{},
		Splitter: websearch.Splitter{
			MaxTokens:     cfg.MaxChunkTokens,
			MinTokens:     cfg.MinChunkTokens,
			OverlapTokens: cfg.OverlapChunkTokens,
		},
		Logger:        deps.Logger,
		TopK:          cfg.TopK,
		MinChunkChars: cfg.MinChunkChars,
	}
	deps.Service = m.Service
	deps.Answerer = wslog.NewLoggingAnswerer(m.Service, deps.Logger)

	return nil
}

// openStore returns the configured vector store backend. History is only
// available with the sqlite backend.
func (m *Main) openStore() (websearch.VectorStore, websearch.HistoryService, error) {
	switch m.Config.Store {
	case config.StoreMemory:
		return chromem.NewVectorStore(), nil, nil
	case config.StoreSQLite:
		m.DB = sqlite.NewDB(m.Config.DBPath)
		if err := m.DB.Open(); err != nil {
			return nil, nil, fmt.Errorf("failed to open database at %q: %w", m.Config.DBPath, err)
		}
		return sqlite.NewVectorStore(m.DB), sqlite.NewHistoryService(m.DB), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", m.Config.Store)
	}
}

// buildProvider returns the embedder and summarizer for the configured
// LLM provider. A missing API key is not fatal: it returns a nil embedder
// and the raw-context summarizer, and the pipeline answers from lexical
// selection over the crawled chunks.
func buildProvider(ctx context.Context, cfg *config.Config, stderr io.Writer) (websearch.Embedder, websearch.Summarizer, error) {
	envVar := config.APIKeyEnvVar(cfg.Provider)
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		fmt.Fprintf(stderr, "%s not set; answers degrade to raw retrieved context\n", envVar)
		return nil, &websearch.RawContextSummarizer{}, nil
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewEmbedder(client, gemini.DefaultDimensions), gemini.NewSummarizer(client), nil
	case config.ProviderOpenAI:
		clientCfg := goopenai.DefaultConfig(apiKey)
		if cfg.OpenAIBaseURL != "" {
			clientCfg.BaseURL = cfg.OpenAIBaseURL
		}
		client := goopenai.NewClientWithConfig(clientCfg)
		return openai.NewEmbedder(client, openai.ModelTextEmbedding3Small), openai.NewSummarizer(client, openai.DefaultModel), nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
