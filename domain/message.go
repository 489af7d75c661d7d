package domain

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTextLength bounds the text of a message, in runes.
const MaxTextLength = 2000

// Body is what a user submits when sending.
// Image carries the raw upload (data URL) before it is stored.
type Body struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

func (b Body) Normalized() Body {
	return Body{Text: strings.TrimSpace(b.Text), Image: strings.TrimSpace(b.Image)}
}

func (b Body) Empty() bool {
	n := b.Normalized()
	return n.Text == "" && n.Image == ""
}

func (b Body) TooLong() bool {
	return utf8.RuneCountInString(strings.TrimSpace(b.Text)) > MaxTextLength
}

// Message is immutable once created, except for ReadBy which only grows.
// Exactly one of ReceiverID and GroupID is set.
type Message struct {
	ID         string    `json:"_id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId,omitempty"`
	GroupID    string    `json:"groupId,omitempty"`
	Text       string    `json:"text,omitempty"`
	Image      string    `json:"image,omitempty"`
	ReadBy     []string  `json:"readBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewMessage builds a message sent by senderID to target, already read by its sender.
func NewMessage(senderID string, target Target, text, image string, at time.Time) Message {
	m := Message{
		ID:        uuid.NewString(),
		SenderID:  CanonicalID(senderID),
		Text:      text,
		Image:     image,
		ReadBy:    []string{CanonicalID(senderID)},
		CreatedAt: at,
	}
	switch target.Kind {
	case TargetGroup:
		m.GroupID = target.ID
	default:
		m.ReceiverID = target.ID
	}
	return m
}

func (m Message) IsGroup() bool { return m.GroupID != "" }

// Valid reports whether the message has exactly one destination.
func (m Message) Valid() bool {
	return (m.ReceiverID == "") != (m.GroupID == "")
}

// ConversationFor returns the conversation this message belongs to, seen by userID.
func (m Message) ConversationFor(userID string) Target {
	if m.IsGroup() {
		return GroupTarget(m.GroupID)
	}
	if SameID(m.SenderID, userID) {
		return DirectTarget(m.ReceiverID)
	}
	return DirectTarget(m.SenderID)
}

func (m Message) HasRead(userID string) bool {
	return slices.ContainsFunc(m.ReadBy, func(r string) bool { return SameID(r, userID) })
}

// MarkReadBy adds userID to ReadBy with set semantics.
// It returns false when the reader was already present.
func (m *Message) MarkReadBy(userID string) bool {
	if m.HasRead(userID) {
		return false
	}
	m.ReadBy = append(m.ReadBy, CanonicalID(userID))
	return true
}

// Clone returns a copy that does not share ReadBy with m.
func (m Message) Clone() Message {
	m.ReadBy = slices.Clone(m.ReadBy)
	return m
}
