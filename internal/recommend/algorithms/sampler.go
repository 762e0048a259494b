// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package algorithms

import (
	"math/rand/v2"
	"sync"

	"github.com/tomtom215/tastebud/internal/recommend"
)

// Sampler draws uniform samples without replacement.
type Sampler struct {
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewSampler creates a sampler with a deterministic seed.
func NewSampler(seed int64) *Sampler {
	s := uint64(seed) //nolint:gosec // seed reinterpretation, sign is irrelevant
	return &Sampler{
		rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)),
	}
}

// Sample returns min(k, len(items)) distinct items chosen uniformly at
// random. items is not modified.
func (s *Sampler) Sample(items []recommend.Item, k int) []recommend.Item {
	n := len(items)
	if k > n {
		k = n
	}
	if k <= 0 {
		return []recommend.Item{}
	}

	pool := make([]recommend.Item, n)
	copy(pool, items)

	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	// Partial Fisher-Yates: the first k slots end up holding the sample.
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
