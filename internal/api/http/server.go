// Package http exposes the read projections and the advance write path over
// JSON, plus a server-sent events stream of the log.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
	"github.com/sgb-io/back-of-the-neural-net/internal/orchestrator"
	"github.com/sgb-io/back-of-the-neural-net/internal/platform/id"
)

// Server is the HTTP boundary around the orchestrator.
type Server struct {
	orch   *orchestrator.Orchestrator
	router http.Handler
}

// New wires the routes.
func New(orch *orchestrator.Orchestrator) *Server {
	s := &Server{orch: orch}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/world", s.handleWorld).Methods(http.MethodGet)
	r.HandleFunc("/leagues/{id}/table", s.handleLeagueTable).Methods(http.MethodGet)
	r.HandleFunc("/leagues/{id}/top-scorers", s.handleTopScorers).Methods(http.MethodGet)
	r.HandleFunc("/leagues/{id}/best-defense", s.handleBestDefense).Methods(http.MethodGet)
	r.HandleFunc("/teams/{id}", s.handleTeam).Methods(http.MethodGet)
	r.HandleFunc("/teams/{id}/head-to-head", s.handleHeadToHead).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}/events", s.handleMatchEvents).Methods(http.MethodGet)
	r.HandleFunc("/players/{id}/season-stats", s.handlePlayerSeasonStats).Methods(http.MethodGet)
	r.HandleFunc("/advance", s.handleAdvance).Methods(http.MethodPost)
	r.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
	r.HandleFunc("/events/stream", s.handleEventStream).Methods(http.MethodGet)

	s.router = cors.AllowAll().Handler(requestID(r))
	return s
}

// requestID tags every response with a correlation id, minting one when the
// client did not send its own.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			if generated, err := id.NewID(); err == nil {
				rid = generated
			}
		}
		if rid != "" {
			w.Header().Set("X-Request-ID", rid)
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.Printf("listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// writeJSON renders a success body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

// errorBody is the fixed error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError renders a coded error with its mapped status.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = err.Error()
	writeJSON(w, apperrors.HTTPStatus(code), body)
}
