package command

import "errors"

// Kind classifies a chat message.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindAsk
	KindClear
)

func (k Kind) String() string {
	switch k {
	case KindAsk:
		return "ask"
	case KindClear:
		return "clear"
	default:
		return "unrecognized"
	}
}

// ErrEmptyQuestion marks an /ask with nothing after the prefix.
var ErrEmptyQuestion = errors.New("question is empty")

// Command is the result of Parse.
type Command struct {
	Kind     Kind
	Question string // set for a well-formed KindAsk
	Err      error  // ErrEmptyQuestion for a malformed KindAsk
}
