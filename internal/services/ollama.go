package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/opensocial-lk/opensocial-web-ui/internal/chat"
)

// Ollama implements the chat.Gateway interface against a local Ollama server. It is
// meant for development setups where no hosted generation endpoint is configured.
type Ollama struct {
	host         string
	model        string
	systemPrompt string

	client *api.Client
}

// NewOllama creates a new Ollama instance with the specified host URL and model name.
// The host parameter should be a valid URL pointing to an Ollama server. If the
// provided host URL is invalid, the function will panic.
func NewOllama(host, model, systemPrompt string) Ollama {
	u, err := url.Parse(host)
	if err != nil {
		panic(err)
	}

	return Ollama{
		host:         host,
		model:        model,
		systemPrompt: systemPrompt,
		client:       api.NewClient(u, &http.Client{}),
	}
}

// Ask sends a single non-streaming chat request and returns the model's answer.
// Upstream HTTP failures are mapped onto the chat package's failure taxonomy.
func (o Ollama) Ask(ctx context.Context, message string) (string, error) {
	f := false
	req := api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{Role: "system", Content: o.systemPrompt},
			{Role: "user", Content: message},
		},
		Stream: &f,
	}

	var answer string
	err := o.client.Chat(ctx, &req, func(res api.ChatResponse) error {
		answer = res.Message.Content
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return "", chat.StatusError(statusErr.StatusCode)
		}
		return "", fmt.Errorf("error sending request: %w", err)
	}

	if answer == "" {
		return "", chat.ErrMalformedResponse
	}
	return answer, nil
}
