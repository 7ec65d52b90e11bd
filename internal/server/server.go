// Package server is the HTTP API used by the ADJ editor front-end. Every
// handler delegates to the workspace; the server itself holds no
// configuration state.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/internal/logging"
	"github.com/mesh-intelligence/adjvalet/internal/workspace"
	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// maxBodyBytes bounds request bodies. A full configuration for a large
// vehicle is a few megabytes.
const maxBodyBytes = 32 << 20

// Server routes HTTP requests to a workspace.
type Server struct {
	ws  *workspace.Workspace
	log *zap.Logger
	mux *http.ServeMux
}

// New builds the server and registers its routes.
func New(ws *workspace.Workspace, log *zap.Logger) *Server {
	log = logging.OrNop(log)
	s := &Server{ws: ws, log: log, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /path", s.handleSetPath)
	s.mux.HandleFunc("GET /assemble", s.handleGetConfig)
	s.mux.HandleFunc("GET /config", s.handleGetConfig)
	s.mux.HandleFunc("POST /update", s.handleUpdate)
	s.mux.HandleFunc("PUT /config", s.handleUpdate)
	s.mux.HandleFunc("POST /boards/{name}/rename", s.handleRename)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return chain(s.mux, cors, requestID, s.observe)
}

// Routes lists the registered routes for the startup banner.
func Routes() []string {
	return []string{
		"GET  /health - Health check",
		"POST /path - Set ADJ directory path",
		"GET  /assemble - Get current configuration (frontend compatible)",
		"POST /update - Update configuration (frontend compatible)",
		"GET  /config - Get current configuration",
		"PUT  /config - Update configuration",
		"POST /boards/{name}/rename - Rename a board",
		"GET  /metrics - Prometheus metrics",
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type setPathRequest struct {
	Path    string `json:"path"`
	ADJPath string `json:"adjPath"`
}

func (s *Server) handleSetPath(w http.ResponseWriter, r *http.Request) {
	var req setPathRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	path := req.Path
	if path == "" {
		path = req.ADJPath
	}
	if path == "" {
		s.writeError(w, r, fmt.Errorf("%w: path is required", types.ErrBadRequest))
		return
	}

	cfg, rep, err := s.ws.Open(r.Context(), path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("ADJ path set",
		zap.String("path", path),
		zap.Int("boards", len(cfg.Boards)),
		zap.Int("warnings", rep.Len()),
	)
	writeJSON(w, http.StatusOK, "Path set successfully")
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.ws.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var cfg types.Configuration
	if err := decode(w, r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("updating configuration",
		zap.Int("boards", len(cfg.Boards)),
		zap.Int("ports", len(cfg.GeneralInfo.Ports)),
	)
	saved, err := s.ws.Update(r.Context(), &cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

type renameRequest struct {
	NewName string `json:"new_name"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	cfg, err := s.ws.Rename(r.Context(), r.PathValue("name"), req.NewName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %w", types.ErrBadRequest, err)
	}
	return nil
}

// StatusFor maps an engine error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrBadRequest), errors.Is(err, types.ErrNoWorkspace):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", r.URL.Path),
		zap.String("request_id", w.Header().Get(requestIDHeader)),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", fields...)
	} else {
		s.log.Warn("request rejected", fields...)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
