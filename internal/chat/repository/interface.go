package repository

import (
	"context"

	"jared-gpt/internal/model"
)

// DefaultMaxHistory is the number of turns kept per user.
const DefaultMaxHistory = 50

// HistoryStore keeps a bounded, ordered conversation history per user.
// Operations on the same user are serialized; different users never
// contend on the same lock. None of the operations fail.
type HistoryStore interface {
	// Get returns a copy of the user's turns, oldest first. It does not
	// create an entry for an unknown user.
	Get(ctx context.Context, user model.UserID) []model.Turn

	// Append adds turns to the end of the user's history, then evicts from
	// the front until the bound holds.
	Append(ctx context.Context, user model.UserID, turns ...model.Turn)

	// Clear empties the user's history.
	Clear(ctx context.Context, user model.UserID)

	// Len returns the number of stored turns for the user.
	Len(ctx context.Context, user model.UserID) int
}
