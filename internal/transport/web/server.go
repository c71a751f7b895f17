// Package web exposes the companion over HTTP: a small JSON API plus static
// file serving for a browser front end.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jdondlinger/groqee/internal/config"
	"github.com/jdondlinger/groqee/internal/core"
	"github.com/jdondlinger/groqee/internal/service/companion"
	"github.com/jdondlinger/groqee/internal/storage/sqlite"
	"github.com/jdondlinger/groqee/pkg/log"
)

type Server struct {
	srv        *http.Server
	companion  *companion.Companion
	transcript *sqlite.Transcript
}

// NewServer builds the HTTP transport. transcript may be nil; the archive
// endpoint then reports itself unavailable.
func NewServer(ctx context.Context, cfg *config.WebConfig, comp *companion.Companion, transcript *sqlite.Transcript) *Server {
	s := &Server{companion: comp, transcript: transcript}

	r := chi.NewRouter()
	r.Use(requestLogger(ctx))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/evolve", s.handleEvolve)
		r.Get("/history", s.handleHistory)
		r.Get("/profile", s.handleProfile)
		r.Get("/archive", s.handleArchive)
	})

	if _, err := os.Stat(cfg.StaticDir); err == nil {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.srv.Addr).Msg("starting web server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// requestLogger stamps each request with an ID and hands handlers the base
// context's logger.
func requestLogger(base context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			logger := log.FromCtx(base).With().Str("request_id", reqID).Logger()

			start := time.Now()
			ctx := logger.WithContext(base)
			next.ServeHTTP(w, r.WithContext(ctx))

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply    string `json:"reply"`
	Degraded bool   `json:"degraded"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.companion.Converse(r.Context(), req.Message)
	if errors.Is(err, core.ErrMissingCredential) {
		// Still a displayable reply, but the client should know setup is
		// incomplete.
		writeJSON(w, http.StatusServiceUnavailable, chatResponse{Reply: reply, Degraded: true})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, Degraded: err != nil})
}

type evolveResponse struct {
	EvolvedPrompt string `json:"evolvedPrompt"`
}

func (s *Server) handleEvolve(w http.ResponseWriter, r *http.Request) {
	evolved, err := s.companion.EvolvePrompt(r.Context())
	if err != nil {
		log.FromCtx(r.Context()).Warn().Err(err).Msg("prompt evolution failed")
		writeError(w, http.StatusBadGateway, "prompt evolution failed")
		return
	}
	writeJSON(w, http.StatusOK, evolveResponse{EvolvedPrompt: evolved})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"history":          s.companion.History(),
		"interactionCount": s.companion.InteractionCount(),
	})
}

const (
	defaultArchiveLimit = 50
	maxArchiveLimit     = 500
)

// handleArchive reads the sqlite exchange archive back: recent exchanges with
// their token counts, plus per-kind event totals.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.transcript == nil {
		writeError(w, http.StatusNotFound, "archive not configured")
		return
	}

	limit := defaultArchiveLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxArchiveLimit {
			n = maxArchiveLimit
		}
		limit = n
	}

	exchanges, err := s.transcript.RecentExchanges(r.Context(), limit)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to read exchange archive")
		writeError(w, http.StatusInternalServerError, "archive read failed")
		return
	}

	events := map[string]int{}
	for _, kind := range []string{"extraction", "evolution"} {
		count, cerr := s.transcript.CountEvents(r.Context(), kind)
		if cerr != nil {
			log.FromCtx(r.Context()).Error().Err(cerr).Str("kind", kind).Msg("failed to count events")
			writeError(w, http.StatusInternalServerError, "archive read failed")
			return
		}
		events[kind] = count
	}

	if exchanges == nil {
		exchanges = []sqlite.Exchange{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"exchanges": exchanges,
		"events":    events,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":  s.companion.Profile(),
		"emotions": s.companion.Emotions(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": core.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
