// Package web exposes the portfolio over HTTP: on-demand aggregation,
// persisted history and an SSE stream of freshly recorded snapshots.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vadiminshakov/walletrack/internal/domain"
	"github.com/vadiminshakov/walletrack/internal/events"
)

// PortfolioService is the tracker surface the server exposes.
type PortfolioService interface {
	AggregatePortfolio(ctx context.Context) (*domain.PortfolioSnapshot, error)
	History(ctx context.Context, since time.Time) ([]domain.PortfolioSnapshot, error)
}

// Server serves the portfolio JSON API.
type Server struct {
	addr        string
	service     PortfolioService
	broadcaster *events.PortfolioBroadcaster
	logger      *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, service PortfolioService, broadcaster *events.PortfolioBroadcaster, logger *zap.Logger) *Server {
	return &Server{addr: addr, service: service, broadcaster: broadcaster, logger: logger}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/portfolio", s.handlePortfolio)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/portfolio/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.AggregatePortfolio(r.Context())
	if err != nil {
		// only a pricing outage reaches here, partial credential failures
		// are reported inside the snapshot
		s.logger.Error("portfolio aggregation failed", zap.Error(err))
		http.Error(w, "portfolio aggregation failed", http.StatusBadGateway)
		return
	}
	s.writeJSON(w, snapshot)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "since must be RFC3339", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	rows, err := s.service.History(r.Context(), since)
	if err != nil {
		s.logger.Error("history query failed", zap.Error(err))
		http.Error(w, "history query failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, rows)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(sub)

	// comment heartbeat so proxies keep the connection open
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case snapshot := <-sub:
			payload, err := json.Marshal(snapshot)
			if err != nil {
				s.logger.Error("encode snapshot for stream", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: portfolio\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}
