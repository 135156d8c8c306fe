package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aquadash.wasreb.org/internal/app"
	"aquadash.wasreb.org/internal/appconf"
	"aquadash.wasreb.org/internal/auth"
	"aquadash.wasreb.org/internal/dataset"
	"aquadash.wasreb.org/internal/kpi"
	"aquadash.wasreb.org/internal/logging"
	"aquadash.wasreb.org/internal/restapi"
)

func main() {
	var cfg appconf.Config
	var envFlag string

	flag.IntVar(&cfg.Port, "port", 4000, "API server port")
	flag.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&cfg.DataDir, "data-dir", "data", "Directory holding the dataset CSV files")
	flag.StringVar(&cfg.UsersDBPath, "users-db", "users.db", "Path to the SQLite user database (:memory: allowed)")
	flag.StringVar(&cfg.CredentialsPath, "credentials", "credentials.yaml", "YAML file seeding the user store when empty")
	flag.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second per client (negative disables)")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", auth.DefaultSessionTTL, "Session lifetime")
	flag.StringVar(&cfg.CORSOrigin, "cors-origin", "", "Frontend origin allowed to make credentialed cross-origin requests (empty disables CORS)")
	flag.Parse()

	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)

	var logger *slog.Logger
	if cfg.Env == appconf.Production {
		logger = logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg appconf.Config, logger *slog.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := dataset.LoadManager(ctx, cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}

	users, err := auth.OpenStore(cfg.UsersDBPath, logger)
	if err != nil {
		return err
	}
	defer logging.HandleDeferredError(&err, users.Close, logger, "close user store")

	if cfg.CredentialsPath != "" {
		if err := users.SeedFromYAML(ctx, cfg.CredentialsPath); err != nil {
			return fmt.Errorf("seed user store: %w", err)
		}
	}

	application := &app.Application{
		Config: cfg,
		Logger: logger,
		Data:   data,
		Engine: kpi.NewEngine(data),
		Users:  users,
	}
	api := restapi.NewRestAPI(application)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
