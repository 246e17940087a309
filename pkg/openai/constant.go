package openai

import "time"

const (
	// DefaultModel is the model used when none is configured
	DefaultModel = "gpt-4o"

	// DefaultBaseURL is the default OpenAI API endpoint
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 60 * time.Second

	completionsPath = "/chat/completions"
	tracerName      = "jared-gpt/pkg/openai"
)

// Chat roles understood by the completion service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
