package memory

import (
	"sync"

	"jared-gpt/internal/chat/repository"
	"jared-gpt/internal/model"
)

// userHistory is owned by exactly one user key; mu serializes its mutations.
type userHistory struct {
	mu    sync.Mutex
	turns []model.Turn
}

type implRepository struct {
	capacity int

	mu    sync.RWMutex
	users map[model.UserID]*userHistory
}

var _ repository.HistoryStore = (*implRepository)(nil)

// New creates an in-process HistoryStore keeping at most capacity turns per
// user. A non-positive capacity falls back to repository.DefaultMaxHistory.
func New(capacity int) *implRepository {
	if capacity <= 0 {
		capacity = repository.DefaultMaxHistory
	}
	return &implRepository{
		capacity: capacity,
		users:    make(map[model.UserID]*userHistory),
	}
}
