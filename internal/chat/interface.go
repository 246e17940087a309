package chat

import (
	"context"

	"jared-gpt/internal/model"
)

// UseCase defines the business logic interface for the chat domain.
type UseCase interface {
	// HandleMessage runs one inbound message through the command pipeline
	// and sends exactly one reply to its destination. It blocks until the
	// reply has been handed to the Messenger.
	HandleMessage(ctx context.Context, msg model.Message) Outcome
}

// Messenger is the host's outbound send primitive. Delivery is
// fire-and-forget: callers log a returned error and move on.
type Messenger interface {
	Send(ctx context.Context, text string, to model.Destination) error
}
