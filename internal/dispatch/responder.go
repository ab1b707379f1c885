package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voicecare/relay/internal/config"
	"github.com/voicecare/relay/internal/domain"
	"google.golang.org/genai"
)

// Responder produces the assistant's reply to an ai_response task.
type Responder interface {
	Respond(ctx context.Context, task domain.Task) (string, error)
}

// EchoResponder waits for a fixed delay and answers with the task text in
// upper case.
type EchoResponder struct {
	delay  time.Duration
	logger *slog.Logger
}

// NewEchoResponder creates an EchoResponder. A zero delay answers immediately.
func NewEchoResponder(delay time.Duration, logger *slog.Logger) *EchoResponder {
	if logger == nil {
		logger = slog.Default()
	}
	return &EchoResponder{delay: delay, logger: logger.With("component", "responder")}
}

// Respond returns the reply, or ctx's error if it is cancelled during the delay.
func (r *EchoResponder) Respond(ctx context.Context, task domain.Task) (string, error) {
	r.logger.InfoContext(ctx, "generating response",
		"room", task.Room,
		"user_id", task.UserID)

	if r.delay > 0 {
		timer := time.NewTimer(r.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	reply := strings.ToUpper(task.Text)
	r.logger.InfoContext(ctx, "responded", "room", task.Room, "reply", reply)
	return reply, nil
}

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned no text")

type generateFunc func(ctx context.Context, prompt string) (string, error)

// GeminiResponder answers with text generated by a Gemini model.
type GeminiResponder struct {
	model    string
	generate generateFunc
	logger   *slog.Logger
}

// NewGeminiResponder creates a responder for cfg.Model using cfg.GeminiAPIKey.
func NewGeminiResponder(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*GeminiResponder, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini responder: api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini responder: model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	generate := func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, cfg.Model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return responseText(resp)
	}

	return newGeminiResponder(cfg.Model, generate, logger), nil
}

func newGeminiResponder(model string, generate generateFunc, logger *slog.Logger) *GeminiResponder {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiResponder{
		model:    model,
		generate: generate,
		logger:   logger.With("component", "responder", "model", model),
	}
}

// Respond asks the model to answer the user's text.
func (r *GeminiResponder) Respond(ctx context.Context, task domain.Task) (string, error) {
	r.logger.InfoContext(ctx, "generating response",
		"room", task.Room,
		"user_id", task.UserID)

	reply, err := r.generate(ctx, buildPrompt(task))
	if err != nil {
		return "", domain.NewDependencyError("Gemini generate", err)
	}

	r.logger.InfoContext(ctx, "responded", "room", task.Room, "reply_length", len(reply))
	return reply, nil
}

func buildPrompt(task domain.Task) string {
	var b strings.Builder
	b.WriteString("You are a voice care assistant speaking in a live call. ")
	b.WriteString("Reply briefly and in plain sentences suitable for speech.\n\n")
	b.WriteString("User: ")
	b.WriteString(task.Text)
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: blocked by safety filters", ErrEmptyResponse)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
