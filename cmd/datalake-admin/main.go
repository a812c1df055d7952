package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/willahq/datalake-admin/internal/agent"
	"github.com/willahq/datalake-admin/internal/api"
	"github.com/willahq/datalake-admin/internal/config"
	"github.com/willahq/datalake-admin/internal/datalake"
	"github.com/willahq/datalake-admin/internal/directory"
	"github.com/willahq/datalake-admin/internal/engine"
	"github.com/willahq/datalake-admin/internal/engine/local"
	"github.com/willahq/datalake-admin/internal/messaging"
	"github.com/willahq/datalake-admin/internal/observability"
	miniostore "github.com/willahq/datalake-admin/internal/storage/minio"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv("datalake-admin")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engineAPI, err := buildEngineAPI(cfg)
	if err != nil {
		return err
	}

	workgroup := engine.ResolveWorkgroup(ctx, engineAPI,
		cfg.Engine.Workgroup, cfg.Engine.OutputLocation, cfg.Engine.FallbackWorkgroup)
	logger.InfoContext(ctx, "engine ready",
		slog.String("kind", string(cfg.Engine.Kind)),
		slog.String("database", cfg.Engine.Database),
		slog.String("workgroup", workgroup))

	executor := &engine.Executor{
		API:            engineAPI,
		Database:       cfg.Engine.Database,
		Workgroup:      workgroup,
		OutputLocation: cfg.Engine.OutputLocation,
		PollInterval:   cfg.Engine.PollInterval,
		MaxWait:        cfg.Engine.MaxWait,
		Logger:         logger,
	}
	counter := &engine.Counter{Executor: executor, Logger: logger}

	deps := api.Dependencies{
		Logger:      logger,
		Saves:       datalake.NewSavesLister(executor, counter),
		Boards:      datalake.NewBoardsLister(executor, counter),
		Metrics:     &datalake.Metrics{Runner: executor, Logger: logger},
		Runner:      &messaging.Runner{Logger: logger},
		ChatTimeout: cfg.Chat.TaskTimeout,
	}

	// Built even without a pool id: the directory reports its own
	// ConfigurationError, which the agent tools relay to the model
	// instead of crashing on a nil dependency.
	deps.Directory = &directory.Directory{
		API:        directory.NewCognitoAPI(cfg.Engine.Region),
		UserPoolID: cfg.Directory.UserPoolID,
	}

	if cfg.Agent.Enabled {
		client, err := agent.NewOpenAIClient(agent.OpenAIConfig{
			BaseURL:     cfg.Agent.BaseURL,
			APIKey:      cfg.Agent.APIKey,
			Model:       cfg.Agent.Model,
			Temperature: cfg.Agent.Temperature,
			Timeout:     cfg.Agent.Timeout,
		})
		if err != nil {
			return fmt.Errorf("configure analyst: %w", err)
		}
		toolset := agent.Toolset{
			Runner:    executor,
			Database:  cfg.Engine.Database,
			Directory: deps.Directory,
		}
		deps.Analyst = agent.New(client, toolset.Tools(), cfg.Agent.MaxSteps, logger)
	}

	queue := messaging.NewInProcessQueue(ctx)
	deps.Queue = queue
	if cfg.Chat.CallbackEndpoint != "" {
		channel, err := messaging.NewGatewayChannel(cfg.Engine.Region, cfg.Chat.CallbackEndpoint)
		if err != nil {
			return fmt.Errorf("configure callback channel: %w", err)
		}
		deps.Channel = channel
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      api.NewHandler(cfg, deps),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "http server listening", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", slog.Any("error", err))
	}
	queue.Wait()
	return nil
}

func buildEngineAPI(cfg config.Config) (engine.API, error) {
	switch cfg.Engine.Kind {
	case config.EngineLocal:
		store, err := miniostore.New(miniostore.Config{
			Endpoint:        cfg.LocalStore.Endpoint,
			Bucket:          cfg.LocalStore.Bucket,
			AccessKeyID:     cfg.LocalStore.AccessKeyID,
			SecretAccessKey: cfg.LocalStore.SecretAccessKey,
			UseSSL:          cfg.LocalStore.UseSSL,
			Prefix:          cfg.LocalStore.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("configure local object store: %w", err)
		}
		return local.NewEngine(store), nil
	default:
		return engine.NewAthenaAPI(cfg.Engine.Region), nil
	}
}
