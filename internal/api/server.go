// Package api is the presentation boundary: a small JSON surface that
// renders session snapshots and feeds the four user actions into the
// state machine. It never interprets model output itself.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/stillwater-labs/navigator/internal/parse"
	"github.com/stillwater-labs/navigator/internal/session"
)

type Server struct {
	router   *chi.Mux
	port     int
	sessions *session.Manager
}

func NewServer(port int, apiToken string, sessions *session.Manager) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		sessions: sessions,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/navigator/status", s.status)

	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/", s.createSession)
		r.Get("/{id}", s.getSession)
		r.Delete("/{id}", s.deleteSession)
		r.Post("/{id}/topic", s.submitTopic)
		r.Post("/{id}/lineage", s.selectLineage)
		r.Post("/{id}/reflection", s.submitReflection)
		r.Post("/{id}/restart", s.restart)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":  "navigator",
		"sessions": s.sessions.Count(),
	})
}

// sessionView is what the presentation layer sees: the Session record
// minus anything the seeker should not be shown.
type sessionView struct {
	ID          string             `json:"id"`
	Stage       string             `json:"stage"`
	Topic       string             `json:"topic,omitempty"`
	Temperament string             `json:"temperament,omitempty"`
	Lineages    []parse.Lineage    `json:"lineages,omitempty"`
	RawResponse string             `json:"raw_response,omitempty"`
	Chosen      string             `json:"chosen_lineage,omitempty"`
	Guide       string             `json:"guide,omitempty"`
	Messages    []session.Message  `json:"messages,omitempty"`
	Reflection  string             `json:"reflection,omitempty"`
	Discover    *parse.Discoveries `json:"discover_more,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func viewOf(snap session.Session) sessionView {
	v := sessionView{
		ID:          snap.ID.String(),
		Stage:       snap.Stage.String(),
		Topic:       snap.Topic,
		Temperament: snap.Temperament,
		Lineages:    snap.Lineages,
		Chosen:      snap.ChosenLineage,
		Guide:       snap.Guide,
		Messages:    snap.Messages,
		Reflection:  snap.Reflection,
		CreatedAt:   snap.CreatedAt,
		UpdatedAt:   snap.UpdatedAt,
	}
	// The raw discovery response is a debugging aid, shown only in the
	// no-paths-found state.
	if snap.Stage == session.StageChooseLineage && len(snap.Lineages) == 0 {
		v.RawResponse = snap.LineagesRaw
	}
	if snap.Stage == session.StageFinalSummary && snap.Discoveries != (parse.Discoveries{}) {
		d := snap.Discoveries
		v.Discover = &d
	}
	return v
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	m := s.sessions.Create()
	writeJSON(w, http.StatusCreated, viewOf(m.Snapshot()))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	m, err := s.machineFrom(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(m.Snapshot()))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, session.ErrNotFound)
		return
	}
	if err := s.sessions.Remove(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type topicRequest struct {
	Topic       string `json:"topic"`
	Temperament string `json:"temperament,omitempty"`
}

func (s *Server) submitTopic(w http.ResponseWriter, r *http.Request) {
	m, err := s.machineFrom(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}

	if err := m.SubmitTopic(r.Context(), req.Topic, req.Temperament); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(m.Snapshot()))
}

type lineageRequest struct {
	Name string `json:"name"`
}

func (s *Server) selectLineage(w http.ResponseWriter, r *http.Request) {
	m, err := s.machineFrom(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req lineageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}

	if err := m.SelectLineage(r.Context(), req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(m.Snapshot()))
}

type reflectionRequest struct {
	Text string `json:"text"`
}

func (s *Server) submitReflection(w http.ResponseWriter, r *http.Request) {
	m, err := s.machineFrom(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req reflectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}

	if err := m.SubmitReflection(r.Context(), req.Text); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(m.Snapshot()))
}

func (s *Server) restart(w http.ResponseWriter, r *http.Request) {
	m, err := s.machineFrom(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	m.Restart()
	writeJSON(w, http.StatusOK, viewOf(m.Snapshot()))
}

func (s *Server) machineFrom(r *http.Request) (*session.Machine, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, session.ErrNotFound
	}
	return s.sessions.Get(id)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var svcErr *session.ServiceError
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrEmptyTopic),
		errors.Is(err, session.ErrEmptyReflection),
		errors.Is(err, session.ErrUnknownLineage):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrWrongStage):
		status = http.StatusConflict
	case errors.As(err, &svcErr):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
