package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aiportalapp/aiportal-server/internal/domain"
	domainerrors "github.com/aiportalapp/aiportal-server/internal/errors"
	"github.com/aiportalapp/aiportal-server/internal/id"
	"github.com/aiportalapp/aiportal-server/internal/store"
)

// Pagination defaults for the catalog feed.
const (
	defaultPage  = 1
	defaultLimit = 10
)

// TitleSearcher resolves a title query to matching tool IDs, best first.
type TitleSearcher interface {
	SearchTitles(ctx context.Context, query string) ([]string, error)
}

// CatalogService handles the tools catalog: paging, search, likes, comments.
type CatalogService struct {
	store    *store.Store
	searcher TitleSearcher
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store *store.Store, searcher TitleSearcher, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:    store,
		searcher: searcher,
		logger:   logger,
	}
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	Message    string   `json:"message"`
	Liked      bool     `json:"liked"`
	LikedTools []string `json:"likedTools"`
	LikesCount int      `json:"likesCount"`
}

// CreateToolRequest contains a new catalog entry.
type CreateToolRequest struct {
	Title    string              `json:"title" validate:"required"`
	Caption  string              `json:"caption" validate:"required"`
	Image    string              `json:"image"`
	Link     string              `json:"link" validate:"required,url"`
	Category domain.CategoryList `json:"category" validate:"required,min=1"`
}

// CommentRequest contains a new comment on a tool.
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// FetchPage returns one page of the catalog, optionally filtered to an
// exact category label. Non-positive page and limit fall back to defaults.
func (s *CatalogService) FetchPage(ctx context.Context, category string, page, limit int) (*store.ToolPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	result, err := s.store.ListTools(ctx, category, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	return result, nil
}

// SearchByTitle returns tools whose title matches the query, best match
// first. An empty result is a not-found error, matching the catalog UI's
// expectation of a 404 for no hits.
func (s *CatalogService) SearchByTitle(ctx context.Context, title string) ([]domain.Tool, error) {
	ids, err := s.searcher.SearchTitles(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("search titles: %w", err)
	}

	tools, err := s.store.GetToolsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load tools: %w", err)
	}

	if len(tools) == 0 {
		return nil, domainerrors.NotFound("No matching tools found")
	}
	return tools, nil
}

// ToggleLike flips the like state of a tool for a user. Liking again
// undoes the like, so two calls always return to the starting state.
// The denormalized counter on the tool moves with the toggle.
func (s *CatalogService) ToggleLike(ctx context.Context, userID, toolID string) (*LikeResult, error) {
	if !id.Valid("tool", toolID) {
		return nil, domainerrors.Validation("invalid tool id")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if _, err := s.store.GetTool(ctx, toolID); err != nil {
		if errors.Is(err, store.ErrToolNotFound) {
			return nil, domainerrors.NotFound("Tool not found")
		}
		return nil, fmt.Errorf("lookup tool: %w", err)
	}

	alreadyLiked := user.HasLiked(toolID)
	delta := 1
	if alreadyLiked {
		user.Unlike(toolID)
		delta = -1
	} else {
		user.Like(toolID)
	}
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	// The counter update rides in its own transaction. A crash between the
	// two writes can skew the count by one; it is display-only and floored
	// at zero, so we accept that over cross-entity transactions.
	count, err := s.store.AdjustLikes(ctx, toolID, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust likes: %w", err)
	}

	message := "Tool liked"
	if alreadyLiked {
		message = "Tool unliked"
	}

	return &LikeResult{
		Message:    message,
		Liked:      !alreadyLiked,
		LikedTools: user.LikedTools,
		LikesCount: count,
	}, nil
}

// ListLiked returns the user's liked tools, optionally filtered to a
// category. The filter is case-insensitive and matches any of a tool's
// labels; "All" or empty means no filter. Tools that were deleted since
// being liked are skipped.
func (s *CatalogService) ListLiked(ctx context.Context, userID, category string) ([]domain.Tool, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	tools, err := s.store.GetToolsByIDs(ctx, user.LikedTools)
	if err != nil {
		return nil, fmt.Errorf("load liked tools: %w", err)
	}

	if category == "" || strings.EqualFold(category, store.CategoryAll) {
		return tools, nil
	}

	filtered := make([]domain.Tool, 0, len(tools))
	for _, tool := range tools {
		if tool.Category.Contains(category) {
			filtered = append(filtered, tool)
		}
	}
	return filtered, nil
}

// CreateTool adds a new entry to the catalog.
func (s *CatalogService) CreateTool(ctx context.Context, req CreateToolRequest) (*domain.Tool, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	toolID, err := id.Generate("tool")
	if err != nil {
		return nil, fmt.Errorf("generate tool ID: %w", err)
	}

	tool := &domain.Tool{
		ID:       toolID,
		Title:    req.Title,
		Caption:  req.Caption,
		Image:    req.Image,
		Link:     req.Link,
		Category: req.Category,
	}
	tool.InitTimestamps()

	if err := s.store.CreateTool(ctx, tool); err != nil {
		return nil, fmt.Errorf("create tool: %w", err)
	}

	s.logger.Info("Tool created", "tool_id", tool.ID, "title", tool.Title)
	return tool, nil
}

// AddComment appends a comment to a tool and returns the updated tool.
func (s *CatalogService) AddComment(ctx context.Context, userID, toolID string, req CommentRequest) (*domain.Tool, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if !id.Valid("tool", toolID) {
		return nil, domainerrors.Validation("invalid tool id")
	}

	tool, err := s.store.AppendComment(ctx, toolID, domain.Comment{
		UserID:    userID,
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, store.ErrToolNotFound) {
			return nil, domainerrors.NotFound("Tool not found")
		}
		return nil, fmt.Errorf("append comment: %w", err)
	}
	return tool, nil
}
