package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/pkg/models"
)

const (
	msgInvalidCredentials = "invalid username or password"
	msgUserExists         = "username or email already exists"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.users.Authenticate(r.Context(), req.Username, req.Password, req.Role)
	if errors.Is(err, database.ErrInvalidCredentials) {
		s.logger.Info("login rejected", zap.String("username", req.Username))
		writeJSON(w, http.StatusOK, models.AuthResponse{Success: false, Message: msgInvalidCredentials})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, User: user})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusOK, models.AuthResponse{Success: false, Message: "username and password are required"})
		return
	}
	if req.Role != "" && !req.Role.Valid() {
		writeJSON(w, http.StatusOK, models.AuthResponse{Success: false, Message: "unknown role"})
		return
	}
	user, err := s.users.Create(r.Context(), req)
	if errors.Is(err, database.ErrConflict) {
		writeJSON(w, http.StatusOK, models.AuthResponse{Success: false, Message: msgUserExists})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, User: user})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetAll(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		s.fail(w, r, badRequest("username and password are required"))
		return
	}
	if req.Role != "" && !req.Role.Valid() {
		s.fail(w, r, badRequest("unknown role %q", req.Role))
		return
	}
	user, err := s.users.Create(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var update models.UserUpdate
	if err := decode(r, &update); err != nil {
		s.fail(w, r, err)
		return
	}
	if update.Role != "" && !update.Role.Valid() {
		s.fail(w, r, badRequest("unknown role %q", update.Role))
		return
	}
	user, err := s.users.Update(r.Context(), id, update)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Success: true})
}
