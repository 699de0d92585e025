// Package server exposes the query pipeline over HTTP: POST /query,
// GET /health and GET /metrics.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	stderrors "github.com/aymanbm/rag-app-consommation/internal/common/errors"
	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
	"github.com/aymanbm/rag-app-consommation/internal/query/entity"
)

// Inbound payloads are tiny; anything bigger is abuse.
const maxBodyBytes = 1 << 20

// Answerer runs one question through the interpretation pipeline.
type Answerer interface {
	Answer(ctx context.Context, q models.Question) (*models.AnswerEnvelope, error)
}

type Server struct {
	answerer  Answerer
	catalog   *entity.Catalog
	responder *stderrors.Responder
	log       logger.Logger
}

func New(answerer Answerer, catalog *entity.Catalog, log logger.Logger) *Server {
	return &Server{
		answerer:  answerer,
		catalog:   catalog,
		responder: stderrors.NewResponder(log),
		log:       log,
	}
}

// Handler builds the full route set wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return s.withRequestLog(mux)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.responder.Write(w, r, stderrors.NewValidationError("only POST is supported"))
		return
	}

	var q models.Question
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.responder.Write(w, r, stderrors.NewValidationError("invalid JSON payload"))
		return
	}
	if strings.TrimSpace(q.Question) == "" {
		s.responder.Write(w, r, stderrors.NewValidationError("question is required"))
		return
	}

	envelope, err := s.answerer.Answer(r.Context(), q)
	if err != nil {
		s.responder.Write(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"vocabulary": map[string]int{
			"families": len(s.catalog.Family().Labels),
			"products": len(s.catalog.Product().Labels),
			"silos":    len(s.catalog.Silo().Labels),
		},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("response encoding failed", map[string]interface{}{"error": err.Error()})
	}
}

// statusRecorder captures the status code a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log.Info("http request", map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}
