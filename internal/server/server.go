package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/peterkuimelis/cuttle/internal/history"
	"github.com/peterkuimelis/cuttle/internal/session"
)

// Server exposes the session store over HTTP. Player 0 is the caller's
// seat; in solo games the store plays seat 1 and the API keeps that hand
// face down.
type Server struct {
	store *session.Store
	mux   *http.ServeMux
}

// NewServer creates an API server over the given store.
func NewServer(store *session.Store) *Server {
	s := &Server{store: store, mux: http.NewServeMux()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	s.mux.HandleFunc("GET /api/sessions/{id}/actions", s.handleGetActions)
	s.mux.HandleFunc("POST /api/sessions/{id}/actions", s.handleSubmitAction)
	s.mux.HandleFunc("GET /api/sessions/{id}/history", s.handleHistory)
	s.mux.HandleFunc("GET /api/sessions/{id}/watch", s.handleWatch)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

type createSessionRequest struct {
	UseAI           bool   `json:"use_ai"`
	ManualSelection bool   `json:"manual_selection"`
	AIType          string `json:"ai_type"`
	Seed            int64  `json:"seed"`
}

type actionRequest struct {
	StateVersion int `json:"state_version"`
	ActionID     int `json:"action_id"`
}

type sessionResponse struct {
	SessionID    string       `json:"session_id"`
	State        StateView    `json:"state"`
	LegalActions []ActionView `json:"legal_actions"`
	StateVersion int          `json:"state_version"`
	AIThinking   bool         `json:"ai_thinking"`
}

type actionsResponse struct {
	StateVersion int          `json:"state_version"`
	LegalActions []ActionView `json:"legal_actions"`
}

type submitResponse struct {
	State        StateView    `json:"state"`
	LegalActions []ActionView `json:"legal_actions"`
	StateVersion int          `json:"state_version"`
	LastActions  []ActionView `json:"last_actions"`
}

type historyResponse struct {
	Entries []history.Entry `json:"entries"`
	Count   int             `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ManualSelection {
		writeError(w, http.StatusBadRequest, "Manual selection is not supported over the API")
		return
	}

	sess, err := s.store.Create(session.CreateOptions{UseAI: req.UseAI, Seed: req.Seed})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderSession(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderSession(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleGetActions(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}

	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, actionsResponse{
		StateVersion: sess.StateVersion,
		LegalActions: NewActionViews(sess.LegalActions()),
	})
}

func (s *Server) handleSubmitAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.store.Submit(r.Context(), r.PathValue("id"), req.StateVersion, req.ActionID)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}

	sess := res.Session
	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, submitResponse{
		State:        NewStateView(sess.Game.State, sess.UseAI, hiddenHand(sess)),
		LegalActions: NewActionViews(sess.LegalActions()),
		StateVersion: sess.StateVersion,
		LastActions:  AppliedActionViews(res.Applied),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}

	sess.Lock()
	defer sess.Unlock()
	entries := sess.Game.History.Entries()
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: entries, Count: len(entries)})
}

// handleWatch upgrades to a websocket and streams the session view: one
// frame on connect, one after every applied action, then a normal close
// when the session is deleted.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	updates, cancel, err := s.store.Watch(id)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	defer cancel()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("watch accept: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	send := func() error {
		sess, err := s.store.Get(id)
		if err != nil {
			return err
		}
		frame, err := json.Marshal(renderSession(sess))
		if err != nil {
			return err
		}
		return conn.Write(ctx, websocket.MessageText, frame)
	}

	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok || u.Deleted {
				conn.Close(websocket.StatusNormalClosure, "session deleted")
				return
			}
			if err := send(); err != nil {
				return
			}
		}
	}
}

// renderSession builds the standard session envelope under the session lock.
func renderSession(sess *session.Session) sessionResponse {
	sess.Lock()
	defer sess.Unlock()
	return sessionResponse{
		SessionID:    sess.ID,
		State:        NewStateView(sess.Game.State, sess.UseAI, hiddenHand(sess)),
		LegalActions: NewActionViews(sess.LegalActions()),
		StateVersion: sess.StateVersion,
	}
}

func hiddenHand(sess *session.Session) int {
	if sess.UseAI {
		return 1
	}
	return HideNone
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, session.ErrVersionConflict):
		writeError(w, http.StatusConflict, "State version mismatch")
	case errors.Is(err, session.ErrNoActions):
		writeError(w, http.StatusBadRequest, "No legal actions available")
	case errors.Is(err, session.ErrInvalidAction):
		writeError(w, http.StatusBadRequest, "Invalid action id")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}
