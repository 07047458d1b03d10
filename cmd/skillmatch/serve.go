package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/skill-matcher/internal/db"
	"github.com/jonathan/skill-matcher/internal/metrics"
	"github.com/jonathan/skill-matcher/internal/server"
	"github.com/jonathan/skill-matcher/internal/server/ratelimit"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: "Start an HTTP server exposing text extraction, skill extraction, matching and recommendation. " +
			"When a database URL is configured, analyses are stored and the history endpoints are enabled.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			return a.runServe(cmd)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides config and PORT)")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()

	vocab, err := a.vocabulary()
	if err != nil {
		return err
	}

	var store server.AnalysisStore
	if a.cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		store = database
	} else {
		a.logger.Info("DATABASE_URL not set, analysis history disabled")
	}

	srv, err := server.New(server.Config{
		Port:            a.cfg.Port,
		MaxUploadBytes:  a.cfg.MaxUploadBytes,
		AllowedOrigin:   a.cfg.AllowedOrigin,
		ShutdownTimeout: a.cfg.ShutdownDuration(),
		Vocabulary:      vocab,
		Store:           store,
		Logger:          a.logger,
		Metrics:         metrics.NewMetrics(),
		RateLimit:       ratelimit.LoadConfig(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	a.logger.Debug("server configured", zap.String("addr", a.cfg.Address()))
	return srv.Start(ctx)
}
