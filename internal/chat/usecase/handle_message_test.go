package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jared-gpt/internal/chat"
	"jared-gpt/internal/chat/repository"
	"jared-gpt/internal/chat/repository/memory"
	"jared-gpt/internal/model"
	"jared-gpt/internal/observability/metrics"
	"jared-gpt/pkg/openai"
)

const alice = model.UserID("telegram_1")

type testEnv struct {
	uc        *implUseCase
	repo      repository.HistoryStore
	llm       *mockLLM
	messenger *mockMessenger
}

func newTestEnv(t *testing.T, cfg Config, complete func(ctx context.Context, req *openai.Request) (string, error)) *testEnv {
	t.Helper()
	repo := memory.New(repository.DefaultMaxHistory)
	llm := &mockLLM{complete: complete}
	messenger := &mockMessenger{}
	m := metrics.NewChatMetrics(prometheus.NewRegistry())
	return &testEnv{
		uc:        New(&mockLogger{}, repo, llm, messenger, m, cfg),
		repo:      repo,
		llm:       llm,
		messenger: messenger,
	}
}

func echo(ctx context.Context, req *openai.Request) (string, error) {
	return "reply to " + req.Messages[len(req.Messages)-1].Content, nil
}

func failWith(err error) func(context.Context, *openai.Request) (string, error) {
	return func(context.Context, *openai.Request) (string, error) { return "", err }
}

func TestBuildRequest(t *testing.T) {
	history := []model.Turn{
		{Role: model.RoleUser, Content: "/ask first"},
		{Role: model.RoleAssistant, Content: "answer"},
		{Role: model.RoleUser, Content: "/ask second"},
	}

	req := buildRequest("gpt-x", "be Misaka", history, "third")

	assert.Equal(t, "gpt-x", req.Model)
	assert.Equal(t, []openai.ChatMessage{
		{Role: "system", Content: "be Misaka"},
		{Role: "user", Content: "/ask first"},
		{Role: "assistant", Content: "answer"},
		{Role: "user", Content: "/ask second"},
		{Role: "user", Content: "third"},
	}, req.Messages)

	empty := buildRequest("", "p", nil, "q")
	assert.Equal(t, []openai.ChatMessage{{Role: "system", Content: "p"}, {Role: "user", Content: "q"}}, empty.Messages)
}

func TestReplyForError(t *testing.T) {
	assert.Equal(t, chat.ReplyUnreachable, replyForError(fmt.Errorf("%w: dial tcp", openai.ErrUnreachable)))
	assert.Equal(t, "Error from OpenAI API: 429", replyForError(&openai.StatusError{StatusCode: 429}))
	assert.Equal(t, chat.ReplyMalformedResponse, replyForError(fmt.Errorf("%w: no choices", openai.ErrMalformedResponse)))
	assert.Equal(t, chat.ReplyUnparsable, replyForError(fmt.Errorf("%w: invalid character '<'", openai.ErrUnparsableResponse)))
	assert.Equal(t, chat.ReplySerialization, replyForError(openai.ErrSerialization))
	assert.Equal(t, chat.ReplyUnreachable, replyForError(errors.New("anything else")))
}

func TestHandleMessage_TerminalReplies(t *testing.T) {
	tests := []struct {
		name    string
		msg     model.Message
		outcome chat.Outcome
		reply   string
	}{
		{
			name:    "no text body",
			msg:     model.Message{ID: "1", Sender: model.KnownSender(alice), Destination: model.Destination{ChatID: 99}},
			outcome: chat.OutcomeInvalid,
			reply:   chat.ReplyInvalid,
		},
		{
			name:    "unrecognized",
			msg:     textMessage("2", model.KnownSender(alice), "hello"),
			outcome: chat.OutcomeUnrecognized,
			reply:   chat.ReplyUnknownCommand,
		},
		{
			name:    "empty question",
			msg:     textMessage("3", model.KnownSender(alice), "/ask   "),
			outcome: chat.OutcomeEmptyQuestion,
			reply:   chat.ReplyEmptyQuestion,
		},
		{
			name:    "ask from unknown sender",
			msg:     textMessage("4", model.UnknownSender(), "/ask hi"),
			outcome: chat.OutcomeUnidentifiable,
			reply:   chat.ReplyUnidentifiable,
		},
		{
			name:    "clear from unknown sender",
			msg:     textMessage("5", model.UnknownSender(), "/clear"),
			outcome: chat.OutcomeUnidentifiable,
			reply:   chat.ReplyUnidentifiable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, Config{}, echo)

			outcome := env.uc.HandleMessage(context.Background(), tt.msg)

			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, []string{tt.reply}, env.messenger.texts())
			assert.Equal(t, 0, env.llm.calls(), "no completion call on a terminal error path")
			assert.Empty(t, env.repo.Get(context.Background(), alice))
		})
	}
}

func TestHandleMessage_AskSuccess(t *testing.T) {
	env := newTestEnv(t, Config{Preamble: "be Misaka", Model: "gpt-4o"}, echo)
	ctx := context.Background()

	outcome := env.uc.HandleMessage(ctx, textMessage("m1", model.KnownSender(alice), "  /ask hi  "))
	require.Equal(t, chat.OutcomeReplied, outcome)
	assert.Equal(t, []string{"reply to hi"}, env.messenger.texts())
	assert.Equal(t, model.Destination{ChatID: 99}, env.messenger.sent[0].To)

	// Only the original inbound message is recorded.
	history := env.repo.Get(ctx, alice)
	require.Len(t, history, 1)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, "/ask hi", history[0].Content)
	assert.Equal(t, "m1", history[0].MessageID)

	// The next request replays it before the new question.
	env.uc.HandleMessage(ctx, textMessage("m2", model.KnownSender(alice), "/ask again"))
	req := env.llm.lastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, []openai.ChatMessage{
		{Role: "system", Content: "be Misaka"},
		{Role: "user", Content: "/ask hi"},
		{Role: "user", Content: "again"},
	}, req.Messages)
	assert.Len(t, env.repo.Get(ctx, alice), 2)
}

func TestHandleMessage_DefaultPreamble(t *testing.T) {
	env := newTestEnv(t, Config{}, echo)
	env.uc.HandleMessage(context.Background(), textMessage("m1", model.KnownSender(alice), "/ask hi"))

	req := env.llm.lastRequest()
	require.NotNil(t, req)
	assert.Equal(t, DefaultPreamble, req.Messages[0].Content)
}

func TestHandleMessage_RecordReplies(t *testing.T) {
	env := newTestEnv(t, Config{RecordReplies: true}, echo)
	ctx := context.Background()

	env.uc.HandleMessage(ctx, textMessage("m1", model.KnownSender(alice), "/ask hi"))

	history := env.repo.Get(ctx, alice)
	require.Len(t, history, 2)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, model.RoleAssistant, history[1].Role)
	assert.Equal(t, "reply to hi", history[1].Content)
}

func TestHandleMessage_CompletionErrorsLeaveHistoryUntouched(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		reply string
	}{
		{name: "rate limited", err: &openai.StatusError{StatusCode: http.StatusTooManyRequests}, reply: "Error from OpenAI API: 429"},
		{name: "unreachable", err: fmt.Errorf("%w: connection refused", openai.ErrUnreachable), reply: chat.ReplyUnreachable},
		{name: "malformed", err: fmt.Errorf("%w: no choices", openai.ErrMalformedResponse), reply: chat.ReplyMalformedResponse},
		{name: "serialization", err: fmt.Errorf("%w: bad", openai.ErrSerialization), reply: chat.ReplySerialization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, Config{}, echo)
			ctx := context.Background()

			env.uc.HandleMessage(ctx, textMessage("m1", model.KnownSender(alice), "/ask hi"))
			before := env.repo.Get(ctx, alice)
			require.Len(t, before, 1)

			env.llm.complete = failWith(tt.err)
			outcome := env.uc.HandleMessage(ctx, textMessage("m2", model.KnownSender(alice), "/ask boom"))

			assert.Equal(t, chat.OutcomeFailed, outcome)
			assert.Equal(t, []string{"reply to hi", tt.reply}, env.messenger.texts())
			assert.Equal(t, before, env.repo.Get(ctx, alice))
		})
	}
}

func TestHandleMessage_Clear(t *testing.T) {
	env := newTestEnv(t, Config{}, echo)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		env.uc.HandleMessage(ctx, textMessage(fmt.Sprint(i), model.KnownSender(alice), fmt.Sprintf("/ask q%d", i)))
	}
	require.Equal(t, repository.DefaultMaxHistory, env.repo.Len(ctx, alice))

	outcome := env.uc.HandleMessage(ctx, textMessage("c", model.KnownSender(alice), "/clear"))

	assert.Equal(t, chat.OutcomeCleared, outcome)
	assert.Empty(t, env.repo.Get(ctx, alice))
	texts := env.messenger.texts()
	assert.Equal(t, chat.ReplyCleared, texts[len(texts)-1])
}

func TestHandleMessage_HistoryBound(t *testing.T) {
	for _, n := range []int{1, 50, 51, 75} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			env := newTestEnv(t, Config{}, echo)
			ctx := context.Background()

			for i := 0; i < n; i++ {
				env.uc.HandleMessage(ctx, textMessage(fmt.Sprint(i), model.KnownSender(alice), fmt.Sprintf("/ask q%d", i)))
			}

			history := env.repo.Get(ctx, alice)
			want := min(n, repository.DefaultMaxHistory)
			require.Len(t, history, want)
			for i, turn := range history {
				assert.Equal(t, fmt.Sprintf("/ask q%d", n-want+i), turn.Content)
			}
		})
	}
}

func TestHandleMessage_ConcurrentAsksSameUser(t *testing.T) {
	// Both requests are in flight before either completes.
	var started sync.WaitGroup
	started.Add(2)
	gate := make(chan struct{})
	complete := func(ctx context.Context, req *openai.Request) (string, error) {
		started.Done()
		<-gate
		return echo(ctx, req)
	}

	env := newTestEnv(t, Config{}, complete)
	ctx := context.Background()

	for i := 0; i < repository.DefaultMaxHistory-1; i++ {
		env.repo.Append(ctx, alice, model.Turn{Role: model.RoleUser, Content: fmt.Sprintf("/ask old%d", i)})
	}

	var wg sync.WaitGroup
	for _, q := range []string{"one", "two"} {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			env.uc.HandleMessage(ctx, textMessage(q, model.KnownSender(alice), "/ask "+q))
		}(q)
	}
	started.Wait()
	close(gate)
	wg.Wait()

	assert.ElementsMatch(t, []string{"reply to one", "reply to two"}, env.messenger.texts())
	assert.Equal(t, repository.DefaultMaxHistory, env.repo.Len(ctx, alice))
}

func TestHandleMessage_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	env := newTestEnv(t, Config{}, func(ctx context.Context, req *openai.Request) (string, error) {
		<-release
		return "too late", nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	outcome := env.uc.HandleMessage(ctx, textMessage("m1", model.KnownSender(alice), "/ask slow"))

	assert.Equal(t, chat.OutcomeCancelled, outcome)
	assert.Equal(t, []string{chat.ReplyUnreachable}, env.messenger.texts())
	assert.Empty(t, env.repo.Get(context.Background(), alice))
}

func TestHandleMessage_SendFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t, Config{}, echo)
	env.messenger.err = errors.New("telegram down")
	ctx := context.Background()

	outcome := env.uc.HandleMessage(ctx, textMessage("m1", model.KnownSender(alice), "/ask hi"))

	assert.Equal(t, chat.OutcomeReplied, outcome)
	assert.Len(t, env.repo.Get(ctx, alice), 1)
}

func TestHandleMessage_WithHTTPCompletionService(t *testing.T) {
	var mode string
	var mu sync.Mutex
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		m := mode
		mu.Unlock()
		switch m {
		case "429":
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"slow down"}}`))
		case "no_choices":
			w.Write([]byte(`{"id":"chatcmpl-1"}`))
		case "blank":
			w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
		case "html":
			w.Write([]byte(`<html>bad gateway</html>`))
		default:
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" Misaka says hi "}}]}`))
		}
	}))
	defer ts.Close()

	client, err := openai.New(openai.Config{APIKey: "k", BaseURL: ts.URL, Timeout: time.Second})
	require.NoError(t, err)

	repo := memory.New(repository.DefaultMaxHistory)
	messenger := &mockMessenger{}
	uc := New(&mockLogger{}, repo, client, messenger, nil, Config{})
	ctx := context.Background()
	setMode := func(m string) {
		mu.Lock()
		mode = m
		mu.Unlock()
	}

	assert.Equal(t, chat.OutcomeReplied, uc.HandleMessage(ctx, textMessage("1", model.KnownSender(alice), "/ask hi")))
	require.Len(t, repo.Get(ctx, alice), 1)

	setMode("429")
	assert.Equal(t, chat.OutcomeFailed, uc.HandleMessage(ctx, textMessage("2", model.KnownSender(alice), "/ask hi")))
	assert.Len(t, repo.Get(ctx, alice), 1)

	setMode("no_choices")
	assert.Equal(t, chat.OutcomeFailed, uc.HandleMessage(ctx, textMessage("3", model.KnownSender(alice), "/ask hi")))
	assert.Len(t, repo.Get(ctx, alice), 1)

	setMode("blank")
	assert.Equal(t, chat.OutcomeFailed, uc.HandleMessage(ctx, textMessage("4", model.KnownSender(alice), "/ask hi")))
	assert.Len(t, repo.Get(ctx, alice), 1)

	setMode("html")
	assert.Equal(t, chat.OutcomeFailed, uc.HandleMessage(ctx, textMessage("5", model.KnownSender(alice), "/ask hi")))
	assert.Len(t, repo.Get(ctx, alice), 1)

	assert.Equal(t, []string{
		"Misaka says hi",
		"Error from OpenAI API: 429",
		chat.ReplyMalformedResponse,
		chat.ReplyMalformedResponse,
		chat.ReplyUnparsable,
	}, messenger.texts())
}
