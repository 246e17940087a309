package memory

import (
	"context"

	"jared-gpt/internal/model"
)

// Get returns a copy of the user's turns.
func (r *implRepository) Get(ctx context.Context, user model.UserID) []model.Turn {
	h := r.lookup(user)
	if h == nil {
		return []model.Turn{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]model.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Append adds turns and evicts the oldest ones beyond capacity.
func (r *implRepository) Append(ctx context.Context, user model.UserID, turns ...model.Turn) {
	if len(turns) == 0 {
		return
	}

	h := r.lookupOrCreate(user)
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, turns...)
	if over := len(h.turns) - r.capacity; over > 0 {
		// Copy into a fresh slice so evicted turns are not pinned by the
		// backing array.
		kept := make([]model.Turn, r.capacity)
		copy(kept, h.turns[over:])
		h.turns = kept
	}
}

// Clear empties the user's history.
func (r *implRepository) Clear(ctx context.Context, user model.UserID) {
	h := r.lookup(user)
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}

// Len returns the number of stored turns.
func (r *implRepository) Len(ctx context.Context, user model.UserID) int {
	h := r.lookup(user)
	if h == nil {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

func (r *implRepository) lookup(user model.UserID) *userHistory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[user]
}

func (r *implRepository) lookupOrCreate(user model.UserID) *userHistory {
	if h := r.lookup(user); h != nil {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.users[user]; ok {
		return h
	}
	h := &userHistory{}
	r.users[user] = h
	return h
}
