package openai

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config holds client configuration
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("openai: APIKey is required")
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return nil
}

// Request is a chat completion request. Model is optional and falls back
// to the client's configured model.
type Request struct {
	Model    string
	Messages []ChatMessage
}

// ChatMessage is one role-tagged message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is delivered by Dispatch: either Text or Err is set.
type Result struct {
	Text string
	Err  error
}

// wire types
type completionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []completionChoice `json:"choices"`
}

type completionChoice struct {
	Message *completionMessage `json:"message"`
}

type completionMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}
