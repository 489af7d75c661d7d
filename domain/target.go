package domain

import "fmt"

type TargetKind string

const (
	TargetUser  TargetKind = "user"
	TargetGroup TargetKind = "group"
)

// Target designates the other side of a conversation.
// The kind is carried end-to-end instead of being guessed from storage.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

func DirectTarget(userID string) Target {
	return Target{Kind: TargetUser, ID: CanonicalID(userID)}
}

func GroupTarget(groupID string) Target {
	return Target{Kind: TargetGroup, ID: CanonicalID(groupID)}
}

func (t Target) IsGroup() bool { return t.Kind == TargetGroup }

func (t Target) Equal(other Target) bool {
	return t.Kind == other.Kind && SameID(t.ID, other.ID)
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%s", t.Kind, t.ID)
}
