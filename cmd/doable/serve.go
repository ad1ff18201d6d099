package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doable/dashboard/internal/api"
	"github.com/doable/dashboard/internal/infrastructure/config"
	"github.com/doable/dashboard/internal/infrastructure/telemetry"
	"github.com/doable/dashboard/internal/web"
	"github.com/doable/dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "doable"})

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Env,
	})
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := a.start(ctx); err != nil {
		_ = a.close(context.Background())
		return err
	}

	pages := web.NewHandler(web.Deps{
		Log:          log,
		Sessions:     a.sessions,
		Auth:         a.authSvc,
		Tasks:        a.taskSvc,
		Projects:     a.projectSvc,
		Profiles:     a.profileSvc,
		Dashboard:    a.dashboardSvc,
		Hub:          a.hub,
		CookieSecure: cfg.Session.CookieSecure,
	})
	e := api.NewRouter(api.Deps{
		Log:          log,
		Sessions:     a.sessions,
		Auth:         a.authSvc,
		Tasks:        a.taskSvc,
		Projects:     a.projectSvc,
		Profiles:     a.profileSvc,
		Dashboard:    a.dashboardSvc,
		Hub:          a.hub,
		Checks:       a.checks,
		CookieSecure: cfg.Session.CookieSecure,
		ErrorPage:    pages.ErrorPage,
	})
	pages.Register(e)
	// Shutdown waits for handlers; ending the SSE streams lets it finish.
	e.Server.RegisterOnShutdown(a.hub.Close)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if serr := e.Shutdown(shutdownCtx); serr != nil {
		log.Error().Err(serr).Msg("http shutdown")
	}
	if cerr := a.close(shutdownCtx); cerr != nil {
		log.Error().Err(cerr).Msg("closing stores")
	}
	if terr := shutdownTracing(shutdownCtx); terr != nil {
		log.Error().Err(terr).Msg("flushing traces")
	}
	return err
}
