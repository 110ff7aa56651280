package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a provider reply is read.
const maxResponseBytes = 4 << 20

// ErrTransport marks failures to reach the provider at all.
var ErrTransport = errors.New("AI provider unreachable")

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
}

// Message is the user-facing classification of the status code.
func (e *StatusError) Message() string {
	return ClassifyStatus(e.StatusCode)
}

// ClassifyStatus maps a provider status code to a user-facing message.
func ClassifyStatus(code int) string {
	switch code {
	case http.StatusNotFound:
		return "AI model or endpoint not found. Check the provider settings."
	case http.StatusUnauthorized:
		return "Invalid API key. Check your AI provider key."
	case http.StatusForbidden:
		return "Access forbidden. The API key lacks permission for this model."
	case http.StatusTooManyRequests:
		return "Rate limit exceeded. Try again later."
	default:
		return "AI provider request failed."
	}
}

// Client executes provider requests over HTTP.
type Client struct {
	http *http.Client
}

// NewClient creates a Client whose calls time out after timeout.
// A zero timeout disables the client-side deadline.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Complete sends prompt to p and returns the generated text.
//
// Errors are one of: ErrTransport (wrapped), *StatusError, or
// ErrMalformedResponse (wrapped) when a 2xx body has no text in it.
func (c *Client) Complete(ctx context.Context, p Provider, prompt string) (string, error) {
	prepared, err := p.BuildRequest(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to build %s request: %w", p.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, prepared.URL, bytes.NewReader(prepared.Body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	for key, value := range prepared.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{
			Provider:   p.Name(),
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	return p.ExtractText(raw)
}

// ParseJSON strips an optional markdown code fence around text and decodes
// the remaining JSON document.
func ParseJSON(text string) (interface{}, error) {
	var out interface{}
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StripCodeFence removes a surrounding ``` or ```json fence.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		// drop the info string, e.g. "json"
		trimmed = trimmed[newline+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "json")
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
