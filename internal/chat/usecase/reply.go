package usecase

import (
	"context"
	"errors"
	"fmt"

	"jared-gpt/internal/chat"
	"jared-gpt/internal/model"
	"jared-gpt/pkg/openai"
)

// replyForError maps a completion failure to its user-facing message.
func replyForError(err error) string {
	switch {
	case errors.Is(err, openai.ErrSerialization):
		return chat.ReplySerialization
	case errors.Is(err, openai.ErrServiceRejected):
		return fmt.Sprintf(chat.ReplyServiceRejected, openai.StatusCode(err))
	case errors.Is(err, openai.ErrUnparsableResponse):
		return chat.ReplyUnparsable
	case errors.Is(err, openai.ErrMalformedResponse):
		return chat.ReplyMalformedResponse
	default:
		return chat.ReplyUnreachable
	}
}

// send hands text to the messenger. Failures are logged only.
func (uc *implUseCase) send(ctx context.Context, to model.Destination, text string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if err := uc.messenger.Send(ctx, text, to); err != nil {
		uc.l.Errorf(ctx, "%s: failed to send reply to chat %d: %v", LogPrefixSend, to.ChatID, err)
	}
}

// finish sends the terminal reply and records the outcome.
func (uc *implUseCase) finish(ctx context.Context, msg model.Message, cmd string, outcome chat.Outcome, text string) chat.Outcome {
	uc.send(ctx, msg.Destination, text)
	uc.metrics.ObserveOutcome(cmd, string(outcome))
	return outcome
}
