package llm

import (
	"context"
	"errors"
)

// Roles a conversation turn can carry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content string
	Model   string
}

var (
	// ErrUnavailable means the backend is unreachable or misconfigured.
	ErrUnavailable = errors.New("model backend unavailable")
	// ErrEmptyResponse means the backend answered without usable content.
	ErrEmptyResponse = errors.New("model returned no usable content")
)

// Client is the single entry point into a language model backend.
type Client interface {
	Invoke(ctx context.Context, prompt string) (Response, error)
}
