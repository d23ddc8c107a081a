// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tabscope/domain/analysis"
	"tabscope/internal/container"
)

const maxUploadBytes = 64 << 20

// Server serves analyze and ask endpoints. Runs are serialized: the pipeline
// is single-threaded by design and the latest record is the only session
// state.
type Server struct {
	router *chi.Mux
	deps   *container.Container

	mu     sync.Mutex
	latest *analysis.Record
}

// NewServer wires routes over a container.
func NewServer(deps *container.Container) *Server {
	s := &Server{
		router: chi.NewRouter(),
		deps:   deps,
	}
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/analyze", s.handleAnalyze)
	s.router.Get("/api/analysis", s.handleAnalysis)
	s.router.Post("/api/ask", s.handleAsk)
	return s
}

// Router exposes the HTTP handler for serving and tests.
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe blocks serving on the configured port.
func (s *Server) ListenAndServe() error {
	addr := ":" + s.deps.Config.Server.Port
	s.deps.Log.Info("http server listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze accepts a multipart upload under "file", runs the pipeline
// and returns the findings record.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart upload: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field: "+err.Error())
		return
	}
	defer file.Close()

	uploadDir := filepath.Join(s.deps.Config.Paths.WorkDir, "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "prepare upload directory: "+err.Error())
		return
	}
	path := filepath.Join(uploadDir, filepath.Base(header.Filename))
	out, err := os.Create(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "save upload: "+err.Error())
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		writeError(w, http.StatusInternalServerError, "save upload: "+err.Error())
		return
	}
	out.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.deps.Orchestrator.Run(r.Context(), path)
	s.latest = rec

	status := http.StatusOK
	if rec.Status == analysis.StatusFailed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, rec)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rec := s.latest
	s.mu.Unlock()
	if rec == nil {
		writeError(w, http.StatusNotFound, "no analysis has been run yet")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty question")
		return
	}

	s.mu.Lock()
	rec := s.latest
	s.mu.Unlock()
	if rec == nil {
		writeError(w, http.StatusConflict, "run an analysis before asking questions")
		return
	}

	answer := s.deps.Resolver(rec).Answer(r.Context(), rec, req.Question)
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode response: %v\n", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
