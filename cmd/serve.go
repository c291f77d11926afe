package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/events"
	"github.com/abhisek/mathdrill/internal/hints"
	"github.com/abhisek/mathdrill/internal/llm"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/practice"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the practice API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// runServe loads config, builds the engine, and runs the HTTP server
// until SIGINT or SIGTERM.
func runServe(cmd *cobra.Command) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath, _ = cmd.Flags().GetString("db")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo events.Repo = events.Nop{}
	if cfg.DBPath != "" {
		sqlRepo, err := events.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer sqlRepo.Close()
		repo = sqlRepo
	}

	llmCfg := cfg.LLMConfig()
	provider, err := llm.NewProvider(ctx, llmCfg, repo, logger)
	if err != nil {
		return fmt.Errorf("build LLM provider: %w", err)
	}
	logger.Info("llm provider ready", "provider", llmCfg.Provider, "model", provider.ModelID())

	hintGen := hints.NewLLMGenerator(provider, cfg.HintTimeout)

	var estimator mastery.Estimator
	switch cfg.Estimator {
	case "bkt":
		estimator = mastery.NewBKTEstimator(mastery.DefaultBKTParams())
	case "ema":
		estimator = &mastery.EMAEstimator{Alpha: 0.5}
	default:
		return fmt.Errorf("unknown estimator: %q", cfg.Estimator)
	}

	engine := practice.NewEngine(
		practice.NewStore(),
		problemgen.NewTemplateGenerator(),
		estimator,
		hintGen,
		repo,
		logger,
	)
	engine.SetEstimatorTimeout(cfg.EstimatorTimeout)

	srv, err := server.New(engine, logger)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
