package ai

import (
	"encoding/json"
	"fmt"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel = "gemini-1.5-flash"
)

type gemini struct {
	apiKey  string
	model   string
	baseURL string
}

func newGemini(cfg Config) *gemini {
	return &gemini{
		apiKey:  cfg.APIKey,
		model:   orDefault(cfg.Model, geminiDefaultModel),
		baseURL: orDefault(cfg.BaseURL, geminiBaseURL),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *gemini) Name() string { return Gemini }

func (g *gemini) BuildRequest(prompt string) (Request, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return Request{}, err
	}

	return Request{
		URL: fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model),
		Headers: map[string]string{
			"Content-Type":   "application/json",
			"x-goog-api-key": g.apiKey,
		},
		Body: body,
	}, nil
}

func (g *gemini) ExtractText(raw []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrMalformedResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
