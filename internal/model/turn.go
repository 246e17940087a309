package model

import "time"

// Role tags a turn with its author in the completion protocol.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of a user's conversation history.
type Turn struct {
	Role      Role
	Content   string
	MessageID string
	CreatedAt time.Time
}
