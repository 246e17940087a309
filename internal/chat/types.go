package chat

// Outcome is the terminal state reached for one message.
type Outcome string

const (
	OutcomeInvalid        Outcome = "invalid"
	OutcomeUnrecognized   Outcome = "unrecognized"
	OutcomeEmptyQuestion  Outcome = "empty_question"
	OutcomeUnidentifiable Outcome = "unidentifiable_sender"
	OutcomeCleared        Outcome = "cleared"
	OutcomeReplied        Outcome = "replied"
	OutcomeFailed         Outcome = "failed"
	OutcomeCancelled      Outcome = "cancelled"
)

// User-facing replies.
const (
	ReplyInvalid           = "Invalid command."
	ReplyUnknownCommand    = "Unknown command. Use /ask <question> or /clear."
	ReplyEmptyQuestion     = "Your question cannot be empty."
	ReplyUnidentifiable    = "Unable to identify user."
	ReplyCleared           = "Your chat history has been cleared."
	ReplyUnreachable       = "Failed to contact OpenAI API."
	ReplyServiceRejected   = "Error from OpenAI API: %d"
	ReplyMalformedResponse = "Unexpected response format from OpenAI API."
	ReplyUnparsable        = "Failed to parse OpenAI API response."
	ReplySerialization     = "Failed to serialize request body."
)
