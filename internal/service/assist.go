package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/labworks/tracker/internal/assist"
	"github.com/labworks/tracker/internal/validation"
)

const defaultPolishIntent = "progress, blockers, and next steps"

// Assistant is the completion backend used for polishing drafts.
type Assistant interface {
	Complete(ctx context.Context, req assist.Request) (string, error)
	Polish(ctx context.Context, text, intent string) (string, error)
	Available() bool
}

// AssistResult carries either the polished text or the original text plus a
// warning explaining why polishing did not happen.
type AssistResult struct {
	Text     string `json:"text"`
	Polished bool   `json:"polished"`
	Warning  string `json:"warning,omitempty"`
}

type AssistService struct {
	client Assistant
}

func NewAssistService(client Assistant) *AssistService {
	return &AssistService{client: client}
}

// Available reports whether an API key is configured.
func (s *AssistService) Available() bool {
	return s.client.Available()
}

func (s *AssistService) PolishGoalDescription(ctx context.Context, description string) (AssistResult, error) {
	if strings.TrimSpace(description) == "" {
		return AssistResult{}, validation.Field("text", "Add a draft description first.")
	}

	text, err := s.client.Complete(ctx, assist.Request{
		Prompt:      "Improve this goal description for lab tracking.\n\n" + description,
		Temperature: assist.Temperature(0.2),
	})
	return s.result(description, text, err), nil
}

func (s *AssistService) PolishActivity(ctx context.Context, goalTitle, update string) (AssistResult, error) {
	if strings.TrimSpace(update) == "" {
		return AssistResult{}, validation.Field("text", "Add a quick note first.")
	}

	text, err := s.client.Complete(ctx, assist.Request{
		Prompt: "Rewrite this lab update so it is specific about data, blockers, and next steps.\n\n" +
			"Goal: " + goalTitle + "\nUpdate: " + update,
		Temperature: assist.Temperature(0.25),
	})
	return s.result(update, text, err), nil
}

// Polish rewrites free text for the given intent.
func (s *AssistService) Polish(ctx context.Context, draft, intent string) (AssistResult, error) {
	if strings.TrimSpace(draft) == "" {
		return AssistResult{}, validation.Field("text", "Add a draft first.")
	}
	if strings.TrimSpace(intent) == "" {
		intent = defaultPolishIntent
	}

	text, err := s.client.Polish(ctx, draft, intent)
	return s.result(draft, text, err), nil
}

func (s *AssistService) result(original, polished string, err error) AssistResult {
	if err == nil && polished != "" {
		return AssistResult{Text: polished, Polished: true}
	}
	if err == nil {
		err = assist.ErrUnexpectedResponse
	}

	slog.Warn("ai polish failed", "error", err, "missing_key", errors.Is(err, assist.ErrMissingCredential))
	return AssistResult{Text: original, Warning: warningMessage(err)}
}

func warningMessage(err error) string {
	var apiErr *assist.APIError
	switch {
	case errors.Is(err, assist.ErrMissingCredential):
		return "Set GROQ_API_KEY in the secrets file or as an environment variable."
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, assist.ErrUnexpectedResponse):
		return "Unexpected response from Groq API."
	default:
		return err.Error()
	}
}
