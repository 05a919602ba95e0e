package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
	"github.com/supergeri/workout-content-transformation-sub001/internal/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.sessions.Sessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var doc models.WorkoutStructure
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	sess := s.sessions.Create(&doc)
	writeJSON(w, http.StatusCreated, sess.Get())
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Get())
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	s.sessions.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Get().Document)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var cmd session.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	snap, err := sess.Apply(cmd)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleLoadValidation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var resp models.ValidationResponse
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	snap, err := sess.Apply(session.Command{Op: session.OpLoadValidation, Validation: &resp})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleApplyMapping(w http.ResponseWriter, r *http.Request) {
	s.handleMapping(w, r, session.OpApplyMapping)
}

func (s *Server) handleAcceptMapping(w http.ResponseWriter, r *http.Request) {
	s.handleMapping(w, r, session.OpAcceptMapping)
}

func (s *Server) handleMapping(w http.ResponseWriter, r *http.Request, op session.Op) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var body struct {
		Name     string `json:"name"`
		MappedTo string `json:"mapped_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	snap, err := sess.Apply(session.Command{Op: op, Name: body.Name, MappedTo: body.MappedTo})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleConfirmAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	snap, err := sess.Apply(session.Command{Op: session.OpConfirmAll})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	snap := sess.Get()
	writeJSON(w, http.StatusOK, map[string]bool{
		"can_proceed":      snap.CanProceed,
		"final_can_export": snap.FinalCanExport,
	})
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	device := models.Device(r.URL.Query().Get("device"))
	if device == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "device parameter required"})
		return
	}
	if !device.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown device: " + string(device)})
		return
	}

	writeJSON(w, http.StatusOK, sess.Project(device))
}

func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return nil, false
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return sess, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
