package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/opensocial-lk/opensocial-web-ui/internal/chat"
	"github.com/opensocial-lk/opensocial-web-ui/internal/services"
)

type gatewayConfig interface {
	gateway(systemPrompt string, logger *slog.Logger) (chat.Gateway, error)
}

// BaseGatewayConfig contains the common fields for all gateway configurations.
type BaseGatewayConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

type config struct {
	Port         string          `yaml:"port"`
	SystemPrompt string          `yaml:"systemPrompt"`
	LogFile      string          `yaml:"logFile"`
	LogLevel     string          `yaml:"logLevel"`
	ChatRate     rateLimitConfig `yaml:"chatRate"`
	Gateway      gatewayConfig   `yaml:"gateway"`
}

type rateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type geminiConfig struct {
	BaseGatewayConfig `yaml:",inline"`
	Endpoint          string                    `yaml:"endpoint"`
	APIKey            string                    `yaml:"apiKey"`
	Generation        services.GenerationParams `yaml:"generation"`
}

type ollamaConfig struct {
	BaseGatewayConfig `yaml:",inline"`
	Host              string `yaml:"host"`
}

type openAIConfig struct {
	BaseGatewayConfig `yaml:",inline"`
	APIKey            string `yaml:"apiKey"`
}

func (c *config) UnmarshalYAML(value *yaml.Node) error {
	var rawConfig struct {
		Port         string          `yaml:"port"`
		SystemPrompt string          `yaml:"systemPrompt"`
		LogFile      string          `yaml:"logFile"`
		LogLevel     string          `yaml:"logLevel"`
		ChatRate     rateLimitConfig `yaml:"chatRate"`
		Gateway      map[string]any  `yaml:"gateway"`
	}

	if err := value.Decode(&rawConfig); err != nil {
		return err
	}

	c.Port = rawConfig.Port
	c.SystemPrompt = rawConfig.SystemPrompt
	c.LogFile = rawConfig.LogFile
	c.LogLevel = rawConfig.LogLevel
	c.ChatRate = rawConfig.ChatRate

	provider, ok := rawConfig.Gateway["provider"].(string)
	if !ok {
		return fmt.Errorf("gateway provider is required")
	}

	gatewayRawYAML, err := yaml.Marshal(rawConfig.Gateway)
	if err != nil {
		return err
	}

	var gw gatewayConfig
	switch provider {
	case "gemini":
		gw = &geminiConfig{}
	case "ollama":
		gw = &ollamaConfig{}
	case "openai":
		gw = &openAIConfig{}
	default:
		return fmt.Errorf("unknown gateway provider: %s", provider)
	}

	if err := yaml.Unmarshal(gatewayRawYAML, gw); err != nil {
		return err
	}

	c.Gateway = gw

	return nil
}

func (g geminiConfig) gateway(systemPrompt string, logger *slog.Logger) (chat.Gateway, error) {
	apiKey := g.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	return services.NewGemini(g.Endpoint, apiKey, systemPrompt, g.Generation, logger), nil
}

func (o ollamaConfig) gateway(systemPrompt string, _ *slog.Logger) (chat.Gateway, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	host := o.Host
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	return services.NewOllama(host, o.Model, systemPrompt), nil
}

func (o openAIConfig) gateway(systemPrompt string, logger *slog.Logger) (chat.Gateway, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	apiKey := o.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	return services.NewOpenAI(apiKey, o.Model, systemPrompt, logger), nil
}

func (c config) logLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
