// Package httpserver exposes the scheduling assistant and calendar over HTTP.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/squeegee/internal/model"
	"github.com/Veraticus/squeegee/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CalendarSource lists booked jobs between two dates as calendar events.
type CalendarSource interface {
	Calendar(ctx context.Context, start, end string) ([]model.CalendarEvent, error)
}

// ScheduleRange is the part of the record store the calendar needs.
type ScheduleRange interface {
	CalendarRange(ctx context.Context, start, end string) ([]model.Schedule, error)
}

// StoreCalendar serves calendar events straight from the record store.
type StoreCalendar struct {
	Store ScheduleRange
}

// Calendar implements CalendarSource.
func (c StoreCalendar) Calendar(ctx context.Context, start, end string) ([]model.CalendarEvent, error) {
	schedules, err := c.Store.CalendarRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	events := make([]model.CalendarEvent, 0, len(schedules))
	for _, s := range schedules {
		events = append(events, model.NewCalendarEvent(s))
	}
	return events, nil
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options wires the router's collaborators. Any of Agent, Calendar and
// Database may be nil; the matching endpoints then report the gap.
type Options struct {
	Agent          service.ChatAgent
	Calendar       CalendarSource
	Database       Pinger
	Logger         *slog.Logger
	Registry       *prometheus.Registry
	StaticDir      string
	AllowedOrigins []string
}

type server struct {
	agent    service.ChatAgent
	calendar CalendarSource
	database Pinger
	logger   *slog.Logger
	metrics  *metrics
}

// NewRouter builds the HTTP handler.
func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(collectors.NewGoCollector())
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &server{
		agent:    opts.Agent,
		calendar: opts.Calendar,
		database: opts.Database,
		logger:   opts.Logger,
		metrics:  newMetrics(opts.Registry),
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(requestLogger(opts.Logger))
	mux.Use(s.metrics.instrument)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/health", s.handleHealth)
		r.Get("/calendar", s.handleCalendar)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	if opts.StaticDir != "" {
		mux.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return mux
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		s.metrics.chats.WithLabelValues("unavailable").Inc()
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "assistant is not initialized"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No JSON data received"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No message provided"})
		return
	}

	reply, err := s.agent.Chat(r.Context(), req.Message)
	if err != nil {
		s.metrics.chats.WithLabelValues("error").Inc()
		s.logger.Error("Chat failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("Error processing message: %v", err)})
		return
	}
	s.metrics.chats.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

type healthResponse struct {
	Checks           map[string]string `json:"checks"`
	Status           string            `json:"status"`
	AgentInitialized bool              `json:"agent_initialized"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:           "ok",
		AgentInitialized: s.agent != nil,
		Checks:           map[string]string{},
	}

	if s.agent != nil {
		resp.Checks["assistant"] = "ok"
	} else {
		resp.Checks["assistant"] = "not initialized"
	}

	switch {
	case s.database == nil:
		resp.Checks["database"] = "not configured"
	default:
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.database.Ping(ctx); err != nil {
			s.logger.Warn("Health check: database unreachable", "error", err)
			resp.Checks["database"] = "unreachable"
		} else {
			resp.Checks["database"] = "ok"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if err := validateRange(start, end); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if s.calendar == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "calendar is not configured"})
		return
	}

	events, err := s.calendar.Calendar(r.Context(), start, end)
	if err != nil {
		s.logger.Error("Calendar lookup failed", "start", start, "end", end, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error getting calendar data"})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

var errBadRange = errors.New("start and end must be YYYY-MM-DD with start not after end")

func validateRange(start, end string) error {
	s, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return errBadRange
	}
	e, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return errBadRange
	}
	if s.After(e) {
		return errBadRange
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
