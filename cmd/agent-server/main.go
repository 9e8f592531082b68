package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/SohamAjmera/Agent-Pipeline/internal/app"
	"github.com/SohamAjmera/Agent-Pipeline/internal/config"
	"github.com/SohamAjmera/Agent-Pipeline/internal/kb"
	"github.com/SohamAjmera/Agent-Pipeline/internal/server"
	"github.com/SohamAjmera/Agent-Pipeline/internal/watcher"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := app.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctrl, err := app.Build(cfg, logger)
	if err != nil {
		logger.Fatal("pipeline assembly failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Watch {
		w := watcher.New(cfg.Paths.KBDir, func() error {
			docs, err := kb.Load(cfg.Paths.KBDir)
			if err != nil {
				return err
			}
			return ctrl.Reindex(docs)
		}, logger)
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := server.New(ctrl, cfg.Server, logger)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}
