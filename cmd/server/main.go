package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bughouse-gg/backend/internal/config"
	"github.com/bughouse-gg/backend/internal/history"
	"github.com/bughouse-gg/backend/internal/httpapi"
	"github.com/bughouse-gg/backend/internal/hub"
	"github.com/bughouse-gg/backend/internal/obslog"
	"github.com/bughouse-gg/backend/internal/room"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	cfg := config.Load()
	obslog.Init(cfg.LogLevel)
	log := obslog.L()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var onResult func(room.Result)
	if cfg.DatabaseURL != "" {
		repo, err := history.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open match history database", zap.Error(err))
		}
		onResult = func(res room.Result) {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := repo.Save(sctx, res); err != nil {
				log.Warn("persist match record", zap.Error(err))
			}
		}
		log.Info("match history enabled")
	}

	h := hub.NewHub(ctx, cfg, onResult)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(h),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
