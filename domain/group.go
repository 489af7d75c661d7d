package domain

import (
	"slices"
	"time"
)

// Group is a chat room created by an admin.
// Members is an unordered set.
type Group struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Admin     string    `json:"admin"`
	Members   []string  `json:"members"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (g Group) HasMember(userID string) bool {
	return slices.ContainsFunc(g.Members, func(m string) bool { return SameID(m, userID) })
}
