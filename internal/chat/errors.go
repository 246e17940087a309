package chat

import (
	"errors"

	"jared-gpt/internal/command"
)

// Domain-specific errors for the chat package. Completion failures are the
// sentinels of pkg/openai.
var (
	ErrEmptyQuestion        = command.ErrEmptyQuestion
	ErrUnidentifiableSender = errors.New("sender cannot be identified")
	ErrNoTextBody           = errors.New("message has no text body")
)
