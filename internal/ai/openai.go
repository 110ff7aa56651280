package ai

import (
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const (
	openAIBaseURL       = "https://api.openai.com/v1"
	openAIDefaultModel  = openai.GPT4oMini
	customDefaultModel  = openai.GPT3Dot5Turbo
	chatCompletionsPath = "/chat/completions"
)

// chatCompletions speaks the OpenAI chat completions wire format. It backs
// both the openai provider and user-supplied compatible endpoints.
type chatCompletions struct {
	name   string
	apiKey string
	model  string
	url    string
}

func newOpenAI(cfg Config) *chatCompletions {
	return &chatCompletions{
		name:   OpenAI,
		apiKey: cfg.APIKey,
		model:  orDefault(cfg.Model, openAIDefaultModel),
		url:    orDefault(cfg.BaseURL, openAIBaseURL) + chatCompletionsPath,
	}
}

// newCustom uses cfg.Endpoint verbatim as the request URL.
func newCustom(cfg Config) *chatCompletions {
	return &chatCompletions{
		name:   Custom,
		apiKey: cfg.APIKey,
		model:  orDefault(cfg.Model, customDefaultModel),
		url:    cfg.Endpoint,
	}
}

func (p *chatCompletions) Name() string { return p.name }

func (p *chatCompletions) BuildRequest(prompt string) (Request, error) {
	body, err := json.Marshal(openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return Request{}, err
	}

	return Request{
		URL: p.url,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + p.apiKey,
		},
		Body: body,
	}, nil
}

func (p *chatCompletions) ExtractText(raw []byte) (string, error) {
	var resp openai.ChatCompletionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrMalformedResponse
	}
	return resp.Choices[0].Message.Content, nil
}
