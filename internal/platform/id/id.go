package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID issues random (version 4) UUIDs.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Valid reports whether s is a well-formed UUID. Client supplied request
// ids that fail this check are replaced.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
