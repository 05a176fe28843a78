package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aiportalapp/aiportal-server/internal/assistant"
	domainerrors "github.com/aiportalapp/aiportal-server/internal/errors"
	"github.com/aiportalapp/aiportal-server/internal/store"
)

// Completer produces a chat reply for a system message and user prompt.
type Completer interface {
	Complete(ctx context.Context, systemMessage, prompt string) (string, error)
}

// AssistantService answers catalog questions by proxying prompts to the
// chat upstream with the full tool catalog embedded in the system message.
type AssistantService struct {
	store     *store.Store
	completer Completer
	logger    *slog.Logger
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(store *store.Store, completer Completer, logger *slog.Logger) *AssistantService {
	return &AssistantService{
		store:     store,
		completer: completer,
		logger:    logger,
	}
}

// AskRequest contains the user's prompt.
type AskRequest struct {
	Prompt string `json:"prompt"`
}

// AskResponse contains the assistant's reply.
type AskResponse struct {
	Reply string `json:"reply"`
}

// Ask builds the catalog-grounded system message and forwards the prompt.
// Upstream failures surface as a generic error so provider details never
// reach the client.
func (s *AssistantService) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, domainerrors.Validation("Prompt is required")
	}

	tools, err := s.store.AllTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	systemMessage := assistant.BuildSystemMessage(tools)

	reply, err := s.completer.Complete(ctx, systemMessage, req.Prompt)
	if err != nil {
		s.logger.Error("Chat completion failed", "error", err)
		return nil, domainerrors.Upstream("Failed to fetch AI response")
	}

	return &AskResponse{Reply: reply}, nil
}
