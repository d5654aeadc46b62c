package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pfrederiksen/court-calendar/internal/calendar"
	"github.com/pfrederiksen/court-calendar/internal/hearing"
	"github.com/pfrederiksen/court-calendar/internal/logger"
	"github.com/pfrederiksen/court-calendar/internal/scraper"
)

// ServiceName is reported by the root and health endpoints.
const ServiceName = "Utah Court Calendar API"

// Searcher runs a calendar search. *scraper.Scraper satisfies it.
type Searcher interface {
	Search(ctx context.Context, params scraper.SearchParams) ([]hearing.Case, error)
}

// App stores the router and its collaborators so it can be reused
type App struct {
	Router      *mux.Router
	Searcher    Searcher
	Encoder     *calendar.Encoder
	Annotations calendar.Annotations
	Now         func() time.Time
}

// New creates an App with all routes registered.
func New(s Searcher, enc *calendar.Encoder, ann calendar.Annotations) *App {
	if enc == nil {
		enc = calendar.NewEncoder(nil)
	}
	a := &App{
		Searcher:    s,
		Encoder:     enc,
		Annotations: ann,
		Now:         time.Now,
	}
	a.Router = a.routes()
	return a
}

func (a *App) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/", rootHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)
	r.HandleFunc("/metrics", metricsHandler).Methods(http.MethodGet)

	r.HandleFunc("/search/attorney", a.SearchHandler).Methods(http.MethodGet)
	r.HandleFunc("/search/attorney/calendar", a.CalendarHandler).Methods(http.MethodGet)
	r.HandleFunc("/search/attorney/csv", a.CSVHandler).Methods(http.MethodGet)

	return r
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.Router.ServeHTTP(w, r)
}

// ListenAndServe serves the app on addr until ctx is cancelled, then shuts down
// gracefully.
func (a *App) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("API listening", logger.Fields{"addr": addr})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("API shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": ServiceName,
		"endpoints": map[string]string{
			"/search/attorney":          "Search court cases by attorney name",
			"/search/attorney/calendar": "Download matching hearings as an iCalendar file",
			"/search/attorney/csv":      "Download matching hearings as CSV",
		},
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, logger.GetMetricsSnapshot())
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", nil, err)
	}
}

// errorStatus logs err and writes a JSON error body.
func errorStatus(w http.ResponseWriter, status int, detail string, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error(detail, logger.Fields{"status": status}, err)
	} else {
		logger.Warn(detail, logger.Fields{"status": status})
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.IncrCounter("api.requests")
		logger.RecordTiming("api.request.duration", time.Since(start))
		logger.Debug("Handled request", logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}
