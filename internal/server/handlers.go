package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SohamAjmera/Agent-Pipeline/internal/trace"
)

const requestIDHeader = "X-Request-Id"

type queryRequest struct {
	Query   string `json:"query"`
	Persist bool   `json:"persist"`
}

type queryResponse struct {
	Answer    string       `json:"answer"`
	Trace     *trace.Trace `json:"trace"`
	TracePath string       `json:"trace_path,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query must not be empty")
		return
	}
	s.logger.Debug("query request",
		zap.String("request_id", w.Header().Get(requestIDHeader)),
		zap.String("query", req.Query))

	answer, tr, path, err := s.ctrl.Run(r.Context(), req.Query, req.Persist)
	if err != nil {
		s.logger.Error("pipeline run failed", zap.String("query", req.Query), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, queryResponse{Answer: answer, Trace: tr, TracePath: path})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

// requestID tags every response with a request id for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
