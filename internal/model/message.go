package model

import "time"

// UserID is the stable identifier of a conversation participant.
// It is never a display name.
type UserID string

// SenderKind tags the Sender union.
type SenderKind int

const (
	SenderUnknown SenderKind = iota
	SenderKnown
)

// Sender is the identity of a message author: either Known(UserID) or Unknown.
type Sender struct {
	Kind SenderKind
	ID   UserID
}

// KnownSender builds a Sender for an identified participant.
func KnownSender(id UserID) Sender {
	return Sender{Kind: SenderKnown, ID: id}
}

// UnknownSender builds a Sender for a participant that cannot be identified.
func UnknownSender() Sender {
	return Sender{Kind: SenderUnknown}
}

// UserID returns the participant id and whether the sender is known.
func (s Sender) UserID() (UserID, bool) {
	if s.Kind != SenderKnown || s.ID == "" {
		return "", false
	}
	return s.ID, true
}

// Destination is where replies to a message are sent.
type Destination struct {
	ChatID int64
}

// Message is an inbound chat message handed over by the host transport.
type Message struct {
	ID          string
	Text        *string // nil when the message has no text body
	Sender      Sender
	Destination Destination
	ReceivedAt  time.Time
}

// TextBody returns the text body and whether one is present.
func (m Message) TextBody() (string, bool) {
	if m.Text == nil {
		return "", false
	}
	return *m.Text, true
}
