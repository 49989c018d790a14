// Command engramview serves the graph-view API for the memory dashboard.
// It sits between the dashboard frontend and the memory backend, turning
// traversal results into renderable graph views.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/engramhq/engramview/client"
	"github.com/engramhq/engramview/graphview"
	"github.com/engramhq/engramview/internal/config"
	"github.com/engramhq/engramview/internal/server"
	"github.com/engramhq/engramview/internal/view"
	"github.com/engramhq/engramview/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	if level != logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := client.New(cfg.BackendURL, client.WithAPIKey(cfg.BackendAPIKey.Value()))
	source := client.NewViewSource(backend)
	resolver := graphview.NewResolver(source, log, graphview.WithConcurrency(cfg.ResolverConcurrency))
	engine := graphview.NewExpander(source, resolver, log)

	views := view.NewStore()

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	router := server.NewRouter(ctx, &server.RouterDeps{
		Log:          log,
		Hub:          hub,
		Views:        views,
		Engine:       engine,
		Backend:      backend,
		CORSOrigins:  cfg.CORSOrigins,
		Version:      config.Version,
		DefaultDepth: cfg.DefaultDepth,
		MaxDepth:     cfg.MaxDepth,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"backend": cfg.BackendURL,
			"version": config.Version,
		}).Info("engramview listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Shutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}

	log.Info("shutdown complete")
}
