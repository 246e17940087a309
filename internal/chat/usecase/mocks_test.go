package usecase

import (
	"context"
	"sync"

	"jared-gpt/internal/model"
	"jared-gpt/pkg/openai"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

type sentMessage struct {
	Text string
	To   model.Destination
}

// mockMessenger records every outbound message.
type mockMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *mockMessenger) Send(ctx context.Context, text string, to model.Destination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{Text: text, To: to})
	return m.err
}

func (m *mockMessenger) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, s := range m.sent {
		out[i] = s.Text
	}
	return out
}

// mockLLM answers through a caller-supplied function and records requests.
type mockLLM struct {
	mu       sync.Mutex
	requests []*openai.Request
	complete func(ctx context.Context, req *openai.Request) (string, error)
}

func (m *mockLLM) Complete(ctx context.Context, req *openai.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.complete(ctx, req)
}

func (m *mockLLM) Model() string {
	return "gpt-test"
}

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockLLM) lastRequest() *openai.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

func textMessage(id string, sender model.Sender, text string) model.Message {
	return model.Message{
		ID:          id,
		Text:        &text,
		Sender:      sender,
		Destination: model.Destination{ChatID: 99},
	}
}
