package ids

import (
	"strings"

	"github.com/google/uuid"
)

// Generator produces collision-resistant identifiers for threads and
// notifications. Injectable so tests can supply deterministic values.
type Generator interface {
	NewThreadID() string
	NewNotificationID() string
}

type uuidGenerator struct{}

// NewGenerator returns the uuid-backed generator.
func NewGenerator() Generator {
	return uuidGenerator{}
}

// NewThreadID builds a short human-readable thread key, e.g. FB-3F9A217C.
func (uuidGenerator) NewThreadID() string {
	return "FB-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (uuidGenerator) NewNotificationID() string {
	return uuid.NewString()
}
