package timeline

import "github.com/google/uuid"

// IDGenerator produces entity IDs. Injected so tests can substitute a
// deterministic generator.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates UUIDv7 IDs. UUIDv7 is time-ordered, so
// entity IDs sort roughly by creation time.
//
// Thread-safety: stateless, safe for concurrent use.
type UUIDGenerator struct{}

// NewID generates a new UUIDv7 string.
func (UUIDGenerator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
