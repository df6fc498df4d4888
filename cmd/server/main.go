package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/chartlines/internal/annotation"
	"github.com/inamate/chartlines/internal/auth"
	"github.com/inamate/chartlines/internal/charts"
	"github.com/inamate/chartlines/internal/config"
	"github.com/inamate/chartlines/internal/export"
	mw "github.com/inamate/chartlines/internal/middleware"
	"github.com/inamate/chartlines/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	chartService := charts.NewService(charts.Options{
		Width:  cfg.ChartWidth,
		Height: cfg.ChartHeight,
		Layout: annotation.Layout{FontSize: cfg.FontSize, FontFamily: cfg.FontFamily},
	})
	chartHandler := charts.NewHandler(chartService)

	hub := session.NewHub(chartService)
	chartService.SetNotifier(hub)
	go hub.Run()

	if cfg.SampleChart != "" {
		chartService.LoadSample(cfg.SampleChart)
	}

	authService := auth.NewService(cfg.JWTSecret, cfg.APIKeyHash)
	authHandler := auth.NewHandler(authService)
	if !authService.Enabled() {
		slog.Warn("JWT_SECRET is not set, chart writes are not authenticated")
	}

	exportHandler := export.NewHandler(chartService)
	wsHandler := session.NewHandler(hub, authService, cfg.Origins())

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS preflight for every route
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.HandleFunc("/auth/token", authHandler.Token).Methods("POST")

	// Read-only routes
	r.HandleFunc("/api/charts", chartHandler.List).Methods("GET")
	r.HandleFunc("/api/charts/{chartId}", chartHandler.Get).Methods("GET")
	r.HandleFunc("/api/charts/{chartId}/frame", chartHandler.Frame).Methods("GET")
	r.HandleFunc("/api/charts/{chartId}/hit", chartHandler.HitTest).Methods("GET")
	r.HandleFunc("/export/charts/{chartId}.png", exportHandler.ExportPNG).Methods("GET")

	// Writes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.Middleware)

	api.HandleFunc("/charts/{chartId}", chartHandler.Put).Methods("PUT")
	api.HandleFunc("/charts/{chartId}", chartHandler.Delete).Methods("DELETE")
	api.HandleFunc("/charts/{chartId}/lines", chartHandler.SetLines).Methods("PUT")
	api.HandleFunc("/charts/{chartId}/range", chartHandler.SetRange).Methods("POST")
	api.HandleFunc("/charts/{chartId}/size", chartHandler.SetSize).Methods("POST")
	api.HandleFunc("/charts/{chartId}/visibility", chartHandler.SetVisibility).Methods("POST")

	r.Handle("/ws/charts/{chartId}", wsHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "auth", authService.Enabled())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
