package ai

import (
	"encoding/json"
	"fmt"
)

const (
	claudeBaseURL      = "https://api.anthropic.com/v1"
	claudeDefaultModel = "claude-3-haiku-20240307"
	claudeAPIVersion   = "2023-06-01"
	claudeMaxTokens    = 1024
)

type claude struct {
	apiKey  string
	model   string
	baseURL string
}

func newClaude(cfg Config) *claude {
	return &claude{
		apiKey:  cfg.APIKey,
		model:   orDefault(cfg.Model, claudeDefaultModel),
		baseURL: orDefault(cfg.BaseURL, claudeBaseURL),
	}
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *claude) Name() string { return Claude }

func (c *claude) BuildRequest(prompt string) (Request, error) {
	body, err := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: claudeMaxTokens,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Request{}, err
	}

	return Request{
		URL: c.baseURL + "/messages",
		Headers: map[string]string{
			"Content-Type":      "application/json",
			"x-api-key":         c.apiKey,
			"anthropic-version": claudeAPIVersion,
		},
		Body: body,
	}, nil
}

func (c *claude) ExtractText(raw []byte) (string, error) {
	var resp claudeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Content) == 0 {
		return "", ErrMalformedResponse
	}
	return resp.Content[0].Text, nil
}
