// Package idgen provides ID generation implementations.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/artpar/themekit/ports"
	"github.com/google/uuid"
)

// UUID generates random UUIDs, used for load cycle and snapshot ids.
type UUID struct{}

// New generates a new UUID v4.
func (UUID) New() string {
	return uuid.NewString()
}

// Sequential generates predictable ids (for testing).
type Sequential struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential ID generator.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New returns prefix followed by the next counter value, starting at 1.
func (s *Sequential) New() string {
	return s.prefix + strconv.FormatUint(s.counter.Add(1), 10)
}

var (
	_ ports.IDGenerator = UUID{}
	_ ports.IDGenerator = (*Sequential)(nil)
)
