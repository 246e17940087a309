package usecase

import (
	"jared-gpt/internal/chat"
	"jared-gpt/internal/chat/repository"
	"jared-gpt/internal/observability/metrics"
	pkgLog "jared-gpt/pkg/log"
	"jared-gpt/pkg/openai"
)

// Config carries the externally supplied conversation settings.
type Config struct {
	Model    string // empty means the client's configured model
	Preamble string

	// RecordReplies also stores the assistant's reply as a history turn.
	// Off by default: only the inbound user message is recorded.
	RecordReplies bool
}

type implUseCase struct {
	l         pkgLog.Logger
	repo      repository.HistoryStore
	llm       openai.IOpenAI
	messenger chat.Messenger
	metrics   *metrics.ChatMetrics

	model         string
	preamble      string
	recordReplies bool
}

var _ chat.UseCase = (*implUseCase)(nil)

// New creates a new chat UseCase instance. metrics may be nil.
func New(
	l pkgLog.Logger,
	repo repository.HistoryStore,
	llm openai.IOpenAI,
	messenger chat.Messenger,
	m *metrics.ChatMetrics,
	cfg Config,
) *implUseCase {
	preamble := cfg.Preamble
	if preamble == "" {
		preamble = DefaultPreamble
	}
	return &implUseCase{
		l:             l,
		repo:          repo,
		llm:           llm,
		messenger:     messenger,
		metrics:       m,
		model:         cfg.Model,
		preamble:      preamble,
		recordReplies: cfg.RecordReplies,
	}
}
