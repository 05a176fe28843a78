package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/aiportalapp/aiportal-server/internal/http/response"
	"github.com/aiportalapp/aiportal-server/internal/service"
)

// handleAsk forwards a prompt to the catalog-grounded assistant.
// POST /api/ai/ask
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req service.AskRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.assistantService.Ask(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}
