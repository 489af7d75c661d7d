package domain

import (
	"slices"
	"time"
)

// Conversation is the summary of a chat with a peer or a group,
// as shown in a chat list.
type Conversation struct {
	Target      Target   `json:"target"`
	Name        string   `json:"name"`
	Avatar      string   `json:"avatar,omitempty"`
	Email       string   `json:"email,omitempty"`
	Online      bool     `json:"online"`
	Admin       string   `json:"admin,omitempty"`
	Members     []string `json:"members,omitempty"`
	LastMessage *Message `json:"lastMessage"`
}

// Unread reports whether the last message was not read by userID.
func (c Conversation) Unread(userID string) bool {
	return c.LastMessage != nil && !c.LastMessage.HasRead(userID)
}

func (c Conversation) lastAt() time.Time {
	if c.LastMessage == nil {
		return time.Time{}
	}
	return c.LastMessage.CreatedAt
}

// SortConversations orders conversations by last message, most recent first.
// Equal timestamps keep their relative order.
func SortConversations(conversations []Conversation) {
	slices.SortStableFunc(conversations, func(a, b Conversation) int {
		return b.lastAt().Compare(a.lastAt())
	})
}
