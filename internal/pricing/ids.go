package pricing

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces quote identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDv4 identifiers.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceIDs issues prefixed, monotonically increasing identifiers.
type SequenceIDs struct {
	prefix string
	next   atomic.Uint64
}

// NewSequenceIDs returns a generator whose first id is "<prefix>-000001".
func NewSequenceIDs(prefix string) *SequenceIDs {
	return &SequenceIDs{prefix: prefix}
}

// NewID implements IDGenerator.
func (s *SequenceIDs) NewID() string {
	return fmt.Sprintf("%s-%06d", s.prefix, s.next.Add(1))
}
