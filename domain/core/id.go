package core

import (
	"strings"

	"github.com/google/uuid"

	"datahealth/internal/errors"
)

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return id
}

// ParseID parses an identifier taken from a request. A malformed value can
// never match a stored row, so it is reported as resource not found.
func ParseID(s, resource string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, errors.NotFound(resource)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.NotFound(resource)
	}
	return id, nil
}
