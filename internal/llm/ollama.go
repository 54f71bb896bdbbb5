package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

const defaultOllamaHost = "http://localhost:11434"

// OllamaClient talks to a locally hosted model. No credential required.
type OllamaClient struct {
	client *ollama.Client
	model  string
}

func NewOllama(host, model string) (*OllamaClient, error) {
	if host == "" {
		host = defaultOllamaHost
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ollama host %q: %v", ErrUnavailable, host, err)
	}
	httpClient := &http.Client{Timeout: 120 * time.Second}
	return &OllamaClient{
		client: ollama.NewClient(u, httpClient),
		model:  model,
	}, nil
}

func (c *OllamaClient) Invoke(ctx context.Context, prompt string) (Response, error) {
	var text strings.Builder
	req := &ollama.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
	}
	err := c.client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		text.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if strings.TrimSpace(text.String()) == "" {
		return Response{}, ErrEmptyResponse
	}
	return Response{Content: text.String(), Model: c.model}, nil
}
