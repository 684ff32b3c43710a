package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/Borislavv/go-ash-cachemgr"
	"github.com/Borislavv/go-ash-cachemgr/config"
	"github.com/Borislavv/go-ash-cachemgr/internal/admin"
	"github.com/Borislavv/go-ash-cachemgr/internal/logger"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", "", "path to a .yaml or .toml config file")
	envFile := flag.String("env", "", "path to a .env file (defaults to ./.env)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, envFile string) error {
	cfg, err := loadConfig(configPath, envFile)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log, os.Stdout)

	reg := cachemgr.New(ctx, cfg, log)
	defer func() {
		if err := reg.Close(); err != nil {
			log.Error("close registry", "err", err)
		}
	}()

	for _, c := range cfg.Caches {
		reg.CreateCache(c.Name, cachemgr.WithOptions(c.Options))
	}
	log.Info("cache manager is running", "caches", len(cfg.Caches), "policy", reg.EvictionPolicy())

	if !cfg.Admin.Enabled() {
		<-ctx.Done()
		log.Info("cache manager is stopped")
		return nil
	}
	return serve(ctx, cfg.Admin, reg, log)
}

func loadConfig(path, envFile string) (*config.Manager, error) {
	if envFile != "" {
		config.LoadDotEnv(envFile)
	} else {
		config.LoadDotEnv()
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.LoadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.AdminCfg, reg *cachemgr.Registry, log *slog.Logger) error {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: admin.NewRouter(reg, log),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("admin server is running", "addr", cfg.ListenAddr)

	var runErr error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("admin server shutdown", "err", err)
		}
		runErr = <-errCh
	case runErr = <-errCh:
	}
	log.Info("admin server is stopped")

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return fmt.Errorf("admin server: %w", runErr)
	}
	return nil
}
