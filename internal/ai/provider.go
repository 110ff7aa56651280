// Package ai talks to the text-generation providers a user can configure.
// Providers differ only in endpoint, auth header and response shape; the
// Provider interface captures exactly that difference.
package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Provider names as stored in user settings.
const (
	Gemini = "gemini"
	OpenAI = "openai"
	Claude = "claude"
	Custom = "custom"
)

var (
	ErrUnknownProvider   = errors.New("unknown AI provider")
	ErrMissingAPIKey     = errors.New("API key is required")
	ErrMissingEndpoint   = errors.New("custom provider requires an endpoint")
	ErrMalformedResponse = errors.New("provider response has no text")
)

// Request is a fully prepared outbound call.
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
}

// Provider builds provider-specific requests and extracts the generated
// text from provider-specific responses.
type Provider interface {
	Name() string
	BuildRequest(prompt string) (Request, error)
	ExtractText(raw []byte) (string, error)
}

// Config selects credentials and, optionally, model and endpoint.
// BaseURL overrides the public API host and is used by tests.
type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	BaseURL  string
}

// New returns the Provider registered under name.
func New(name string, cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	switch name {
	case Gemini:
		return newGemini(cfg), nil
	case OpenAI:
		return newOpenAI(cfg), nil
	case Claude:
		return newClaude(cfg), nil
	case Custom:
		if strings.TrimSpace(cfg.Endpoint) == "" {
			return nil, ErrMissingEndpoint
		}
		return newCustom(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return strings.TrimRight(value, "/")
}
