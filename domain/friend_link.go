package domain

import "time"

type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
)

// FriendLink is a friend request between two users.
// A rejected request is simply absent.
type FriendLink struct {
	ID         string       `json:"_id"`
	SenderID   string       `json:"senderId"`
	ReceiverID string       `json:"receiverId"`
	Status     FriendStatus `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Involves reports whether the user is one of both parties.
func (f FriendLink) Involves(userID string) bool {
	return SameID(f.SenderID, userID) || SameID(f.ReceiverID, userID)
}

// Other returns the party of the link that is not userID.
func (f FriendLink) Other(userID string) string {
	if SameID(f.SenderID, userID) {
		return f.ReceiverID
	}
	return f.SenderID
}

// IncomingRequest is a pending request enriched with its sender profile.
type IncomingRequest struct {
	FriendLink
	Sender Identity `json:"sender"`
}
