package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"billbook/internal/assistant"
	"billbook/internal/cache"
	"billbook/internal/chat"
	"billbook/internal/middleware/ratelimit"
	"billbook/internal/middleware/trace"
	"billbook/internal/services"
)

// Server is the JSON API over the bill store, the statistics engine and
// the assistant transcript.
type Server struct {
	http.Server
	bills      *services.BillService
	transcript *chat.MessageStore
	assist     *assistant.Assistant

	// Derived statistics keyed by request shape, purged on every mutation.
	statsCache *cache.LRU[any]

	chatLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once

	now func() time.Time
}

// Deps carries the collaborators the server routes to. Assistant may be
// nil when no completion backend is configured; the chat endpoint then
// answers 503.
type Deps struct {
	Bills      *services.BillService
	Transcript *chat.MessageStore
	Assistant  *assistant.Assistant

	StatsCacheTTL         time.Duration
	ChatRequestsPerMinute int
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	ttl := deps.StatsCacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	s := &Server{
		bills:       deps.Bills,
		transcript:  deps.Transcript,
		assist:      deps.Assistant,
		statsCache:  cache.NewLRU[any](100, ttl),
		chatLimiter: ratelimit.NewLimiter(deps.ChatRequestsPerMinute),
		now:         time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/bills", s.handleBills)
	mux.HandleFunc("/api/bills/", s.handleBillByID)
	mux.HandleFunc("/api/bills/grouped", s.handleGroupedBills)

	mux.HandleFunc("/api/stats/monthly", s.handleMonthlyStats)
	mux.HandleFunc("/api/stats/categories", s.handleCategoryStats)
	mux.HandleFunc("/api/stats/daily", s.handleDailyStats)

	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/chat/export", s.handleChatExport)
	mux.HandleFunc("/api/chat/edit", s.handleChatEdit)

	tracer := trace.NewMiddleware()
	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.chatLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// invalidateStats drops every cached statistics payload. Called after any
// bill mutation, including ones made through the assistant.
func (s *Server) invalidateStats() {
	s.statsCache.Purge()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
