// Package api provides the read-only HTTP API for stored battle reports.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexclash/internal/battle"
	"github.com/talgya/hexclash/internal/persistence"
)

// Store is the report storage the API reads from.
type Store interface {
	RecentBattles(limit int) ([]persistence.BattleRecord, error)
	Battle(id string) (persistence.BattleRecord, error)
	BattleEvents(id string) ([]battle.Entry, error)
	CountBattles() (int, error)
}

// Server serves battle reports over HTTP.
type Server struct {
	DB   Store
	Port int

	// Requests per minute per client; 0 uses the default.
	RateLimit int

	started time.Time
}

// Handler returns the API routes wrapped in rate limiting.
func (s *Server) Handler() http.Handler {
	if s.started.IsZero() {
		s.started = time.Now()
	}
	limit := s.RateLimit
	if limit <= 0 {
		limit = 120
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/battles", s.handleBattles)
	mux.HandleFunc("GET /api/v1/battle/{id}", s.handleBattleDetail)

	return RateLimitMiddleware(NewRateLimiter(limit, time.Minute), mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	n, err := s.DB.CountBattles()
	if err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"name":    "hexclash",
		"battles": n,
		"uptime":  humanize.RelTime(s.started, time.Now(), "", ""),
	})
}

func (s *Server) handleBattles(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	records, err := s.DB.RecentBattles(limit)
	if err != nil {
		serverError(w, err)
		return
	}
	if winner := r.URL.Query().Get("winner"); winner != "" {
		filtered := records[:0]
		for _, rec := range records {
			if strings.EqualFold(rec.Winner, winner) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	if records == nil {
		records = []persistence.BattleRecord{}
	}
	writeJSON(w, records)
}

func (s *Server) handleBattleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.DB.Battle(id)
	if errors.Is(err, persistence.ErrBattleNotFound) {
		http.Error(w, "battle not found", http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, err)
		return
	}
	events, err := s.DB.BattleEvents(id)
	if err != nil {
		serverError(w, err)
		return
	}
	if events == nil {
		events = []battle.Entry{}
	}
	writeJSON(w, struct {
		persistence.BattleRecord
		Events []battle.Entry `json:"events"`
	}{rec, events})
}

func serverError(w http.ResponseWriter, err error) {
	slog.Error("API request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
