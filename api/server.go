package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"bazi-fengshui/advisor"
	"bazi-fengshui/bazi"
	"bazi-fengshui/database"
	"bazi-fengshui/realtime"

	"go.uber.org/zap"
)

// ReadingStore persists analyses. *database.ReadingRepository implements it.
type ReadingStore interface {
	Save(ctx context.Context, req bazi.Request, a *bazi.Analysis) (*database.Reading, error)
	Get(ctx context.Context, id string) (*database.Reading, error)
	ListRecent(ctx context.Context, limit int) ([]database.Reading, error)
}

// ReadingNotifier is told about every stored reading.
// *notifications.WebhookManager implements it.
type ReadingNotifier interface {
	SendReading(reading *database.Reading)
}

// Server handles HTTP API requests
type Server struct {
	engine   *bazi.Engine
	advisor  *advisor.Advisor
	readings ReadingStore
	broker   *realtime.Broker
	notifier ReadingNotifier
	live     http.Handler
	logger   *zap.Logger
	now      func() time.Time

	httpServer *http.Server
}

// NewServer creates a new API server instance
func NewServer(engine *bazi.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine: engine,
		logger: logger,
		now:    time.Now,
	}
}

// SetAdvisor enables the AI routes
func (s *Server) SetAdvisor(a *advisor.Advisor) {
	s.advisor = a
}

// SetReadingStore enables reading history
func (s *Server) SetReadingStore(store ReadingStore) {
	s.readings = store
}

// SetBroker enables the SSE event stream
func (s *Server) SetBroker(b *realtime.Broker) {
	s.broker = b
}

// SetNotifier enables reading notifications
func (s *Server) SetNotifier(n ReadingNotifier) {
	s.notifier = n
}

// SetLiveHandler enables the live analysis websocket
func (s *Server) SetLiveHandler(h http.Handler) {
	s.live = h
}

// Handler builds the routed and wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// BaZi Routes
	mux.HandleFunc("POST /api/bazi", s.handleAnalyze)
	mux.HandleFunc("POST /api/bazi/daily", s.handleDaily)

	// AI Advisor Routes
	mux.HandleFunc("POST /api/outfit/analyze", s.handleOutfitAnalyze)
	mux.HandleFunc("POST /api/outfit/report", s.handleOutfitReport)
	mux.HandleFunc("POST /api/workspace/analyze", s.handleWorkspaceAnalyze)
	mux.HandleFunc("POST /api/workspace/stream", s.handleWorkspaceStream)
	mux.HandleFunc("POST /api/workspace/report", s.handleWorkspaceReport)
	mux.HandleFunc("POST /api/workspace/360", s.handleWorkspace360)
	mux.HandleFunc("POST /api/speech-script", s.handleSpeechScript)

	// Reading History Routes
	mux.HandleFunc("GET /api/readings", s.handleListReadings)
	mux.HandleFunc("GET /api/readings/{id}", s.handleGetReading)

	if s.live != nil {
		mux.Handle("GET /api/live", s.live)
	}
	if s.broker != nil {
		mux.Handle("GET /api/events", s.broker) // SSE Endpoint
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// Start starts the HTTP server on the specified port. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// statusRecorder captures the status code while keeping streaming and
// websocket upgrades working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Handlers are distributed across multiple files:
// - handlers_bazi.go: chart analysis and daily colors
// - handlers_advisor.go: AI outfit, workspace and speech routes
// - handlers_readings.go: stored reading history
// - handlers_config.go: health check
