package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aiportalapp/aiportal-server/internal/http/response"
	"github.com/aiportalapp/aiportal-server/internal/service"
)

// handleFetchAll returns one page of the catalog for a category.
// "All" means no filter.
// GET /api/tools/fetchall/{category}?page=1&limit=10
func (s *Server) handleFetchAll(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	// Unparseable page and limit fall back to defaults in the service.
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := s.catalogService.FetchPage(r.Context(), category, page, limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleSearch returns tools whose title matches the query.
// GET /api/tools/search/{title}
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")

	tools, err := s.catalogService.SearchByTitle(r.Context(), title)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"tools": tools}, s.logger)
}

// handleListLiked returns the caller's liked tools, optionally filtered
// by category.
// GET /api/tools/liked?category=Writing
func (s *Server) handleListLiked(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := r.URL.Query().Get("category")

	tools, err := s.catalogService.ListLiked(ctx, getUserID(ctx), category)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"likedTools": tools}, s.logger)
}

// handleToggleLike flips the like state of a tool for the caller.
// POST /api/tools/like/{toolId}
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	toolID := chi.URLParam(r, "toolId")

	result, err := s.catalogService.ToggleLike(ctx, getUserID(ctx), toolID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, result.Message, result, s.logger)
}

// handleAddComment appends a comment to a tool.
// POST /api/tools/{toolId}/comments
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	toolID := chi.URLParam(r, "toolId")

	var req service.CommentRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	tool, err := s.catalogService.AddComment(ctx, getUserID(ctx), toolID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, tool, s.logger)
}
