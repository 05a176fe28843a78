package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/aiportalapp/aiportal-server/internal/http/response"
	"github.com/aiportalapp/aiportal-server/internal/service"
)

// handleHealthCheck reports service liveness.
// GET /health
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, s.logger)
}

// handleStatus is the API reachability probe used by clients and the
// keep-alive pinger.
// GET /api/auth/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "API is working"}, s.logger)
}

// handleRegister creates a new user account.
// POST /api/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, resp, s.logger)
}

// handleLogin authenticates a user and returns a token.
// POST /api/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}
