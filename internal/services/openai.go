package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/opensocial-lk/opensocial-web-ui/internal/chat"
)

// OpenAI implements the chat.Gateway interface using OpenAI's chat completion API.
type OpenAI struct {
	model        string
	systemPrompt string

	client *goopenai.Client

	logger *slog.Logger
}

// NewOpenAI creates a new OpenAI instance with the specified API key, model name, and
// system prompt.
func NewOpenAI(apiKey, model, systemPrompt string, logger *slog.Logger) OpenAI {
	return OpenAI{
		model:        model,
		systemPrompt: systemPrompt,
		client:       goopenai.NewClient(apiKey),
		logger:       logger.With(slog.String("module", "openai")),
	}
}

// Ask sends a single chat completion request and returns the first choice's text.
// API errors carrying an HTTP status are mapped onto the chat package's failure
// taxonomy.
func (o OpenAI) Ask(ctx context.Context, message string) (string, error) {
	res, err := o.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: o.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: o.systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			o.logger.Warn("API error from completion endpoint",
				slog.Int("status", apiErr.HTTPStatusCode))
			return "", chat.StatusError(apiErr.HTTPStatusCode)
		}
		return "", fmt.Errorf("error sending request: %w", err)
	}

	if len(res.Choices) == 0 || res.Choices[0].Message.Content == "" {
		return "", chat.ErrMalformedResponse
	}
	return res.Choices[0].Message.Content, nil
}
