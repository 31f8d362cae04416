package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"nearwave/internal/common"
	"nearwave/internal/logging"
)

// Server exposes the directory and follow-graph endpoints over HTTP.
type Server struct {
	store *Store
	log   logging.Logger
}

func New(store *Store, log logging.Logger) *Server {
	return &Server{store: store, log: log}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/follows", s.listFollows).Methods(http.MethodGet)
	r.HandleFunc("/follows", s.createFollow).Methods(http.MethodPost)
	r.HandleFunc("/follows/{id}", s.deleteFollow).Methods(http.MethodDelete)
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Users())
}

func (s *Server) listFollows(w http.ResponseWriter, r *http.Request) {
	follower := r.URL.Query().Get("followerId")
	s.writeJSON(w, http.StatusOK, s.store.Follows(follower))
}

func (s *Server) createFollow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FollowerID string `json:"followerId"`
		FollowedID string `json:"followedId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	edge, err := s.store.CreateFollow(req.FollowerID, req.FollowedID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrNotFound):
			s.writeError(w, http.StatusNotFound, err.Error())
		default:
			s.log.Error(r.Context(), "create follow", "err", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.log.Info(r.Context(), "follow created", "edge", edge.ID, "follower", edge.FollowerID, "followed", edge.FollowedID)
	s.writeJSON(w, http.StatusCreated, edge)
}

func (s *Server) deleteFollow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteFollow(id); err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Info(r.Context(), "follow deleted", "edge", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(context.Background(), "encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
