// Package admin serves the read-only operations endpoints next to a game:
// Prometheus metrics, a health probe and the most recent narrated turns.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"venueops-sim/internal/journal"
)

const defaultRecent = 50

// RecentTurns keeps the last turns in memory. It is a journal.Writer and is
// safe for concurrent use.
type RecentTurns struct {
	mu   sync.Mutex
	size int
	rows []journal.TurnRow
}

// NewRecentTurns keeps up to size turns. size <= 0 keeps 50.
func NewRecentTurns(size int) *RecentTurns {
	if size <= 0 {
		size = defaultRecent
	}
	return &RecentTurns{size: size}
}

// WriteTurn implements journal.Writer.
func (r *RecentTurns) WriteTurn(row journal.TurnRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
	if len(r.rows) > r.size {
		r.rows = r.rows[len(r.rows)-r.size:]
	}
	return nil
}

// Last returns up to n turns, newest last. n <= 0 returns all kept turns.
func (r *RecentTurns) Last(n int) []journal.TurnRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 || n > len(r.rows) {
		n = len(r.rows)
	}
	out := make([]journal.TurnRow, n)
	copy(out, r.rows[len(r.rows)-n:])
	return out
}

type Server struct {
	gatherer prometheus.Gatherer
	turns    *RecentTurns
	started  time.Time
}

func NewServer(g prometheus.Gatherer, turns *RecentTurns) *Server {
	return &Server{gatherer: g, turns: turns, started: time.Now()}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/turns", s.handleTurns)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleTurns(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows := []journal.TurnRow{}
	if s.turns != nil {
		rows = s.turns.Last(n)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}
