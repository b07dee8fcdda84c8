package rng

import (
	"context"
	"hash/fnv"
	"math/rand"

	"github.com/melina-leite/rptR/ports"
)

// SeededRNG implements the RNGPort with streams derived from an FNV hash of
// the operation name mixed with the base seed. The same (name, seed) pair
// always produces the same stream regardless of worker scheduling.
type SeededRNG struct{}

// NewSeededRNG creates a deterministic RNG adapter
func NewSeededRNG() *SeededRNG {
	return &SeededRNG{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (s *SeededRNG) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	h := fnv.New64a()
	// fnv.Write never returns an error
	_, _ = h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64()))), nil
}

var _ ports.RNGPort = (*SeededRNG)(nil)
