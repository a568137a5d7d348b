// Package id hands out ULIDs for orders and backtest runs.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces lexicographically increasing ULIDs. Timestamps come
// from Clock, so a backtest can stamp ids with simulated time.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	Clock   func() time.Time
}

// NewGenerator seeds a monotonic entropy source from crypto/rand.
func NewGenerator() *Generator {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
		Clock:   time.Now,
	}
}

// NewSeeded is deterministic for a fixed seed and clock; tests use it.
func NewSeeded(seed int64, clock func() time.Time) *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
		Clock:   clock,
	}
}

func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.Clock().UTC()
	if ts.Before(time.UnixMilli(0)) {
		ts = time.UnixMilli(0)
	}
	id, err := ulid.New(ulid.Timestamp(ts), g.entropy)
	if err != nil {
		// only on entropy exhaustion within a single millisecond
		panic(err)
	}
	return id.String()
}

var std = NewGenerator()

// New returns a ULID stamped with wall-clock time.
func New() string {
	return std.New()
}
