// Package main provides the entry point for the sms-ledger service: it
// ingests bank notification messages, extracts and categorizes transactions,
// and appends them to a Google Sheets ledger.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"smsledger/internal/classifier"
	"smsledger/internal/config"
	"smsledger/internal/extractor"
	"smsledger/internal/logging"
	"smsledger/internal/pipeline"
	"smsledger/internal/resolver"
	"smsledger/internal/rulecache"
	"smsledger/internal/rulefile"
	"smsledger/internal/server"
	"smsledger/internal/sheets"
	"smsledger/internal/store"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "sms-ledger",
	Short: "Turn bank notification messages into categorized ledger entries.",
	Long: `sms-ledger parses free-text bank notification messages, extracts the
transaction fields, resolves the merchant against a rule table (with an
optional AI fallback) and appends the result to a Google Sheets ledger.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP ingestion server",
	Long:  `Start the HTTP server that accepts messages on POST /v1/messages and appends processed transactions to the ledger.`,
	RunE:  serveFunc,
}

var processCmd = &cobra.Command{
	Use:   "process [message]",
	Short: "Process a single message and print the resulting record",
	Long:  `Run one message through the pipeline and print the transaction record as JSON without touching the ledger.`,
	Args:  cobra.ExactArgs(1),
	RunE:  processFunc,
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Load and print the merchant rule table",
	Long:  `Load the merchant rules from the configured source and print them, to verify the source is reachable and well-formed.`,
	RunE:  rulesFunc,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(rulesCmd)
}

// app holds the assembled collaborators shared by the commands.
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	pipeline *pipeline.Pipeline
	cache    *rulecache.Cache
	appender *sheets.Appender
	gemini   *classifier.GeminiClient
}

func (a *app) close() {
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close AI client")
		}
	}
}

// timeoutClient bounds every classifier call with the configured timeout.
type timeoutClient struct {
	client  classifier.AIClient
	timeout time.Duration
}

func (c *timeoutClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Generate(ctx, prompt)
}

// buildApp loads configuration and wires the pipeline. needLedger makes a
// missing sheets configuration fatal; one-off commands pass false so they
// work with a CSV rule file alone.
func buildApp(ctx context.Context, needLedger bool) (*app, error) {
	config.LoadEnv(log)

	cfg, err := config.InitializeConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	a := &app{cfg: cfg, logger: logger}

	sheetsCfg := sheets.Config{
		SpreadsheetID:      cfg.Sheets.SpreadsheetID,
		RulesRange:         cfg.Sheets.RulesRange,
		LedgerRange:        cfg.Sheets.LedgerRange,
		ServiceAccountFile: cfg.Sheets.ServiceAccountFile,
	}

	var loader rulecache.Loader
	switch cfg.Rules.Source {
	case "csv":
		loader = rulefile.NewSource(cfg.Rules.File, logger)
	default:
		service, err := sheets.NewService(ctx, sheetsCfg, logger)
		if err != nil {
			return nil, err
		}
		loader = sheets.NewRuleSource(service, sheetsCfg, logger)
		a.appender = sheets.NewAppender(service, sheetsCfg, logger)
	}

	if needLedger && a.appender == nil {
		service, err := sheets.NewService(ctx, sheetsCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("ledger requires a sheets configuration: %w", err)
		}
		a.appender = sheets.NewAppender(service, sheetsCfg, logger)
	}

	ttl := time.Duration(cfg.Rules.TTLMinutes) * time.Minute
	a.cache = rulecache.New(loader, nil, ttl, logger)

	categories, err := store.NewCategoryStore(cfg.Categories.File, logger).LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	var aiClient classifier.AIClient
	if cfg.AI.Enabled {
		gemini, err := classifier.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
		a.gemini = gemini
		aiClient = &timeoutClient{
			client:  gemini,
			timeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		}
	}

	a.pipeline = pipeline.New(
		extractor.New(nil, logger),
		a.cache,
		resolver.New(logger),
		classifier.NewAdapter(aiClient, categories, logger),
		pipeline.Options{Strict: cfg.Pipeline.Strict},
		logger,
	)

	return a, nil
}

func serveFunc(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           server.NewServer(a.pipeline, a.appender, a.logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("addr", a.cfg.Server.Addr).Info("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		a.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}

func processFunc(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.close()

	record, err := a.pipeline.Process(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func rulesFunc(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.close()

	rules := a.cache.Rules(cmd.Context())
	fmt.Printf("%d rules loaded\n", len(rules))
	for _, rule := range rules {
		fmt.Printf("%-30s -> %-25s %-20s priority %d\n",
			rule.Pattern, rule.Merchant, rule.Category, rule.Priority)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
