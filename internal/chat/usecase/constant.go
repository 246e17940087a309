package usecase

import "time"

// Log prefixes
const (
	LogPrefixHandleMessage = "internal.chat.usecase.HandleMessage"
	LogPrefixAsk           = "internal.chat.usecase.ask"
	LogPrefixClear         = "internal.chat.usecase.clear"
	LogPrefixSend          = "internal.chat.usecase.send"
)

// DefaultPreamble is the persona sent as the system message.
const DefaultPreamble = "You are Misaka. Always reply to me as Misaka."

// sendTimeout bounds a single outbound send. Sends run on a context detached
// from the request so a reply still goes out after the request deadline.
const sendTimeout = 15 * time.Second
