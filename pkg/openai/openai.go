package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxErrorBody caps how much of a rejected response body is kept.
const maxErrorBody = 4 << 10

type openAIImpl struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	tracer     trace.Tracer
}

func newOpenAIImpl(cfg Config) *openAIImpl {
	return &openAIImpl{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
		tracer:     otel.Tracer(tracerName),
	}
}

// Complete sends a chat completion request
func (c *openAIImpl) Complete(ctx context.Context, req *Request) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openai.complete")
	defer span.End()

	text, err := c.complete(ctx, req, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Kind(err))
	}
	return text, err
}

func (c *openAIImpl) complete(ctx context.Context, req *Request, span trace.Span) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	span.SetAttributes(attribute.String("openai.model", model), attribute.Int("openai.messages", len(req.Messages)))

	body, err := json.Marshal(completionRequest{Model: model, Messages: req.Messages})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrUnreachable, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrUnreachable, err)
	}

	return parseContent(raw)
}

// parseContent extracts choices[0].message.content from a response body.
func parseContent(raw []byte) (string, error) {
	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	msg := parsed.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return "", fmt.Errorf("%w: first choice has no message content", ErrMalformedResponse)
	}
	text := strings.TrimSpace(*msg.Content)
	if text == "" {
		return "", fmt.Errorf("%w: first choice content is blank", ErrMalformedResponse)
	}
	return text, nil
}

// Model returns the model being used
func (c *openAIImpl) Model() string {
	return c.model
}
