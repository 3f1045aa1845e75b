package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mangascout/internal/app"
	"mangascout/internal/web"
	"mangascout/pkg/logging"
	"mangascout/pkg/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "optional yaml config file")
	flag.Parse()

	cfg := utils.MustLoadConfig(configPath)
	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.MAL.ClientID == "" {
		log.Warn().Msg("MAL_CID is empty, MyAnimeList filters will drop every result")
	}

	// Tags are loaded once before any route exists; without them nothing can be served.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := app.New(loadCtx, cfg, log)
	cancelLoad()
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	gin.SetMode(gin.ReleaseMode)
	var cache web.Pinger
	if a.DB != nil {
		cache = a.DB
	}
	handler := web.NewHandler(a.Search, a.Tags, a.Catalog, cache, log)
	router := web.NewRouter(handler, log)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	log.Info().Msg("server stopped")
}
