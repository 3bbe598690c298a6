// Package server serves generated reports over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/html"

	"webtest-agent/internal/application/port/output"
)

const (
	DefaultAddr     = ":8089"
	shutdownTimeout = 5 * time.Second
)

var reportName = regexp.MustCompile(`^test_report_\d{8}_\d{6}\.html$`)

type Config struct {
	Addr string
	Dir  string
	// AccessLogJSON switches request logs from the pretty console format to JSON.
	AccessLogJSON bool
}

type Server struct {
	cfg    Config
	logger output.LoggerPort
	http   *http.Server

	served   *prometheus.CounterVec
	registry *prometheus.Registry
}

func New(cfg Config, logger output.LoggerPort) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		served: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "webtest_report_requests_total",
			Help: "Report page requests by outcome.",
		}, []string{"outcome"}),
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Router() http.Handler {
	accessLog := httplog.NewLogger("webtest-reports", httplog.Options{
		JSON:    s.cfg.AccessLogJSON,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(accessLog))
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Get("/latest", s.latest)
	r.Get("/reports/{name}", s.report)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving reports", "addr", s.cfg.Addr, "dir", s.cfg.Dir)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve reports: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Reports lists report file names, newest first. File names embed the
// timestamp, so name order is time order.
func (s *Server) Reports() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && reportName.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	names, err := s.Reports()
	if err != nil {
		s.logger.Error("List reports", "error", err, "dir", s.cfg.Dir)
		http.Error(w, "cannot list reports", http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"UTF-8\"><title>Test reports</title></head><body>\n<h1>Test reports</h1>\n")
	if len(names) == 0 {
		b.WriteString("<p>No reports yet.</p>\n")
	} else {
		b.WriteString("<ul>\n")
		for _, n := range names {
			escaped := html.EscapeString(n)
			fmt.Fprintf(&b, "<li><a href=\"/reports/%s\">%s</a></li>\n", escaped, escaped)
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</body></html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

func (s *Server) latest(w http.ResponseWriter, r *http.Request) {
	names, err := s.Reports()
	if err != nil || len(names) == 0 {
		s.served.WithLabelValues("missing").Inc()
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/reports/"+names[0], http.StatusFound)
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !reportName.MatchString(name) {
		s.served.WithLabelValues("rejected").Inc()
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.cfg.Dir, name)
	if _, err := os.Stat(path); err != nil {
		s.served.WithLabelValues("missing").Inc()
		http.NotFound(w, r)
		return
	}

	s.served.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, path)
}
