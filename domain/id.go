package domain

import (
	"strings"

	"github.com/google/uuid"
)

// CanonicalID returns the canonical string form of an identifier so that ids
// coming from different sources (path params, JSON, storage) compare equal.
func CanonicalID(id string) string {
	trimmed := strings.TrimSpace(id)
	if parsed, err := uuid.Parse(trimmed); err == nil {
		return parsed.String()
	}
	return trimmed
}

// SameID reports whether two identifiers designate the same entity.
func SameID(a, b string) bool {
	return CanonicalID(a) == CanonicalID(b)
}
