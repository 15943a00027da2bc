package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"mpfm/config"
	"mpfm/core/analyzer"
	"mpfm/core/library"
	"mpfm/core/midifile"
	"mpfm/core/watcher"
	"mpfm/logger"
	"mpfm/repository"
)

// Start wires the playlist, store backend and directory watcher together and
// serves the HTTP API until interrupted.
func Start(cfg *config.Config) {
	store, cleanup, err := repository.NewStoreFromConfig(cfg)
	if err != nil {
		logger.Fatal("failed to initialize sidecar store", logger.ErrorField(err))
	}
	defer cleanup()

	deps := library.Deps{
		Store:    store,
		Analyzer: analyzer.NewMetamidi(cfg.MetamidiPath),
		Prober:   midifile.FileProber{},
	}

	playlist, err := library.NewPlaylist(cfg.PlaylistDir, cfg.TrackExts, deps, cfg.AutoWrite)
	if err != nil {
		logger.Fatal("failed to build playlist", logger.ErrorField(err))
	}

	dirWatcher, err := watcher.New(cfg.PlaylistDir, cfg.TrackExts, playlist)
	if err != nil {
		logger.Fatal("failed to start directory watcher", logger.ErrorField(err))
	}
	dirWatcher.Start()
	defer dirWatcher.Stop()

	apiHandler := NewAPIHandler(playlist)

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(requestIDMiddleware)

	router.HandleFunc("/api/playlist", apiHandler.GetPlaylist).Methods(http.MethodGet)
	router.HandleFunc("/api/playlist/list", apiHandler.GetPlaylistLists).Methods(http.MethodGet)
	router.HandleFunc("/api/playlist/refresh", apiHandler.RefreshPlaylist).Methods(http.MethodPost)
	router.HandleFunc("/api/playlist/current", apiHandler.GetCurrent).Methods(http.MethodGet)
	router.HandleFunc("/api/playlist/current", apiHandler.SetCurrent).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{title}/stars", apiHandler.SetStars).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{title}/bpm", apiHandler.SetUserBPM).Methods(http.MethodPut)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", logger.ErrorField(err))
	}
}

// corsMiddleware allows the web UI to call the API from another origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an id for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		logger.Debug("request",
			logger.String("id", id),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}
