// Package domain contains core concepts of the chat system.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Identity is the public profile of a user.
// Online is derived from presence at read time and never stored.
type Identity struct {
	ID         string    `json:"_id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email,omitempty"`
	ProfilePic string    `json:"profilePic,omitempty"`
	Online     bool      `json:"online"`
	CreatedAt  time.Time `json:"createdAt"`
}
