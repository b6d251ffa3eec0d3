package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type IChatCompleter interface {
	// Complete sends one system and one user message and returns the reply text.
	Complete(ctx context.Context, system string, prompt string) (string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type OpenAIClient struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
}

func NewOpenAIClient(url string, apiKey string, model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{url: url, apiKey: apiKey, model: model, http: newHTTPClient(timeout)}
}

func (c *OpenAIClient) Complete(ctx context.Context, system string, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "encode chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var resp chatResponse
	if err := doJSON(c.http, req, &resp); err != nil {
		return "", errors.Wrap(err, "openai")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
