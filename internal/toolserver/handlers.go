package toolserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/reagent-dev/reagent/internal/agent"
	"github.com/reagent-dev/reagent/internal/transcript"
)

// writeJSON serialises data as JSON and writes it to the response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// writeError writes a JSON error envelope to the response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListTools advertises the registry's tool descriptors. The terminal
// tool is local to every agent and never served remotely.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	all := s.registry.DescribeAll()
	descriptors := make([]agent.Descriptor, 0, len(all))
	for _, d := range all {
		if d.Name == agent.TerminalToolName {
			continue
		}
		descriptors = append(descriptors, d)
	}
	s.writeJSON(w, http.StatusOK, descriptors)
}

// handleExecuteTool runs one tool and returns its result. Tool failures are
// still HTTP 200: the result body carries success=false and the agent decides
// what to do with it. Only an unknown tool name or an unreadable request is
// an HTTP-level error.
func (s *Server) handleExecuteTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	handler, ok := s.registry.Resolve(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown tool: "+name)
		return
	}

	params := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := safeInvoke(handler, params)
	s.logger.Info("tool executed",
		zap.String("tool", name),
		zap.Bool("success", result.Success()),
	)
	s.writeJSON(w, http.StatusOK, result)
}

// safeInvoke shields the server from a panicking handler.
func safeInvoke(handler agent.Handler, params map[string]any) (result agent.ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			result = agent.Fail("tool execution panicked")
		}
	}()
	return handler(params)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*transcript.Record{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := s.store.Get(id)
	if err != nil {
		if err == transcript.ErrNotFound {
			s.writeError(w, http.StatusNotFound, "run not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}
