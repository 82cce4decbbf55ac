package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/opensocial-lk/opensocial-web-ui/internal/chat"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// GenerationParams carries the sampling parameters sent with every generation request.
type GenerationParams struct {
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"maxOutputTokens"`
	TopK            int     `yaml:"topK"`
	TopP            float64 `yaml:"topP"`
}

// Gemini implements the chat.Gateway interface against Google's generative language
// endpoint. It sends a single non-streaming request embedding the system prompt and
// the user question, and extracts the first candidate's text. Authentication is a
// static API key passed as a query parameter.
type Gemini struct {
	endpoint     string
	apiKey       string
	systemPrompt string
	params       GenerationParams

	client *http.Client

	logger *slog.Logger
}

// NewGemini creates a Gemini gateway. An empty endpoint selects the default
// generateContent endpoint.
func NewGemini(endpoint, apiKey, systemPrompt string, params GenerationParams, logger *slog.Logger) Gemini {
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	return Gemini{
		endpoint:     endpoint,
		apiKey:       apiKey,
		systemPrompt: systemPrompt,
		params:       params,
		client:       &http.Client{},
		logger:       logger.With(slog.String("module", "gemini")),
	}
}

type geminiRequest struct {
	Contents         []geminiContent       `json:"contents"`
	GenerationConfig geminiGenConfig       `json:"generationConfig"`
	SafetySettings   []geminiSafetySetting `json:"safetySettings"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var geminiSafetySettings = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// Ask sends message to the generation endpoint and returns the first candidate's
// text. Any non-success status or unusable payload shape is reported through the
// chat package's failure taxonomy; there are no retries and no default strings.
func (g Gemini) Ask(ctx context.Context, message string) (string, error) {
	prompt := g.systemPrompt + "\n\nQuestion: " + message

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     g.params.Temperature,
			MaxOutputTokens: g.params.MaxOutputTokens,
			TopK:            g.params.TopK,
			TopP:            g.params.TopP,
		},
		SafetySettings: geminiSafetySettings,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.endpoint+"?key="+g.apiKey, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("Unexpected status from generation endpoint",
			slog.Int("status", resp.StatusCode))
		return "", chat.StatusError(resp.StatusCode)
	}

	var res geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("%w: %s", chat.ErrMalformedResponse, err)
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", chat.ErrMalformedResponse
	}
	text := res.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", chat.ErrMalformedResponse
	}

	return text, nil
}
