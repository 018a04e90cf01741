package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	snapshotTimeout   = 10 * time.Second
)

// Server is the dashboard HTTP surface. It shares the stats service with
// the bot process and never exposes mutation endpoints.
type Server struct {
	addr      string
	stats     *StatsService
	templates *template.Template
	http      *http.Server
}

func NewServer(addr string, stats *StatsService) (*Server, error) {
	templates, err := template.New("").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		addr:      addr,
		stats:     stats,
		templates: templates,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/stats", s.handleStats)
	r.Get("/api/stats", s.handleAPIStats)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s, nil
}

// Run serves until ctx is cancelled, then drains with a short grace period.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Dashboard listening",
			slog.String("type", "web"),
			slog.String("addr", s.addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html")
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "stats.html")
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string) {
	ctx, cancel := context.WithTimeout(r.Context(), snapshotTimeout)
	defer cancel()

	data := s.stats.Snapshot(ctx)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Failed to render template",
			slog.String("type", "web"),
			slog.String("template", name),
			slog.Any("error", err))
	}
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), snapshotTimeout)
	defer cancel()

	stats := s.stats.Snapshot(ctx)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		slog.Error("Failed to encode stats",
			slog.String("type", "web"),
			slog.Any("error", err))
	}
}
