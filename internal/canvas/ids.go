package canvas

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator mints identifiers for new components and frames.
type IDGenerator interface {
	Next() string
}

// GeneratorFunc adapts a plain function to IDGenerator.
type GeneratorFunc func() string

func (f GeneratorFunc) Next() string { return f() }

// UUIDGenerator produces time-sortable UUIDv7 strings, optionally prefixed.
type UUIDGenerator struct {
	Prefix string
}

func (g UUIDGenerator) Next() string {
	return g.Prefix + uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator yields prefix1, prefix2, ... and is safe for concurrent
// use. Tests use it for predictable ids.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.prefix + strconv.Itoa(g.n)
}
