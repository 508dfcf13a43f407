// Package server exposes the dashboard over HTTP: an HTML page, the box plot
// image and a JSON view. Each request recomputes the view from its query.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/KaramelBytes/solardash/internal/chart"
	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/KaramelBytes/solardash/internal/loader"
	"github.com/KaramelBytes/solardash/internal/log"
	"github.com/gorilla/mux"
)

//go:embed templates/*.html
var templates embed.FS

// CacheStats reports loader cache activity for the health endpoint.
type CacheStats interface {
	Stats() loader.Stats
}

// Config holds the HTTP listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Chart        chart.Options
}

// Server serves one Dashboard.
type Server struct {
	cfg   Config
	dash  *dashboard.Dashboard
	cache CacheStats
	page  *template.Template
	http  *http.Server
}

// New wires the router. cache may be nil.
func New(cfg Config, dash *dashboard.Dashboard, cache CacheStats) (*Server, error) {
	page, err := template.New("index.html").Funcs(funcs).ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		def := chart.DefaultOptions()
		cfg.Chart.Width, cfg.Chart.Height = def.Width, def.Height
	}
	s := &Server{cfg: cfg, dash: dash, cache: cache, page: page}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Router returns the request multiplexer.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/chart.{format:png|svg}", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/api/dashboard", s.handleAPI).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		log.Infow("dashboard listening", "addr", s.cfg.Addr)
		errc <- s.http.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Infow("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
