// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/poiesic/recommendit/core"
	"github.com/poiesic/recommendit/index"
	"github.com/poiesic/recommendit/jdfetch"
	"github.com/poiesic/recommendit/recommend"
	"github.com/poiesic/recommendit/retrieval"
)

// defaultTopK is used when a request leaves top_k unset.
const defaultTopK = 10

// Server exposes the recommendation pipeline over HTTP.
type Server struct {
	cfg      *Config
	engine   *recommend.Engine
	index    *index.CatalogIndex
	logger   *slog.Logger
	validate *validator.Validate
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a Server over an assembled engine. The index handle is
// kept separately so the health endpoint can report its size.
func New(cfg *Config, engine *recommend.Engine, catalogIndex *index.CatalogIndex, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if catalogIndex == nil {
		return nil, ErrIndexRequired
	}

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		index:    catalogIndex,
		logger:   slog.Default(),
		validate: validator.New(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/recommend", s.handleRecommend)

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Indexed int    `json:"indexed"`
}

// recommendRequest uses pointer fields so an absent key and an
// explicitly empty query stay distinguishable after decoding.
type recommendRequest struct {
	Query *string `json:"query"`
	JDURL *string `json:"jd_url"`
	TopK  *int    `json:"top_k" validate:"omitempty,gte=0,lte=50"`
}

type recommendResponse struct {
	Results []core.Recommendation `json:"results"`
	Count   int                   `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	size, err := s.index.Size()
	if err != nil {
		s.logger.Error("health check failed", "err", err)
		s.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Indexed: size})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.validate.Struct(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	topK := defaultTopK
	if req.TopK != nil && *req.TopK > 0 {
		topK = *req.TopK
	}

	recs, err := s.engine.Recommend(r.Context(), req.Query, req.JDURL, topK)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, retrieval.ErrNoInput):
			status = http.StatusBadRequest
		case errors.Is(err, jdfetch.ErrFetch):
			status = http.StatusBadGateway
		}
		s.logger.Error("recommendation failed", "status", status, "err", err)
		s.writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, recommendResponse{Results: recs, Count: len(recs)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}
