// Package rng owns pseudorandom seeding for the simulator. The
// generator is an explicit instance passed to whoever needs randomness,
// never hidden package state, so tests can run independent instances
// side by side.
package rng

import "math/rand"

// ArraySeeder is the multi-key seeding entry point of a generator. The
// production MT19937-class generator used by the measurement backend
// implements it; Source below is the in-repo implementation.
type ArraySeeder interface {
	SeedWithKeys(keys []uint64)
}

// Generator is a seedable pseudorandom stream.
type Generator interface {
	ArraySeeder
	Float64() float64
	Uint64() uint64
}

// Source adapts math/rand to the multi-key seeding contract by folding
// the key array into one 64-bit state with the same DJB2-style mixing
// used for host names. Identical key arrays therefore yield identical
// draw sequences, which is the whole determinism contract.
type Source struct {
	rng *rand.Rand
}

// NewSource returns an unseeded source. Callers are expected to seed it
// through the Seeder before drawing.
func NewSource() *Source {
	return &Source{rng: rand.New(rand.NewSource(1))}
}

// SeedWithKeys reseeds the stream from the key array.
func (s *Source) SeedWithKeys(keys []uint64) {
	s.rng = rand.New(rand.NewSource(int64(foldKeys(keys))))
}

// Float64 draws a uniform value in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Uint64 draws a uniform 64-bit value.
func (s *Source) Uint64() uint64 {
	return s.rng.Uint64()
}

func foldKeys(keys []uint64) uint64 {
	var hash uint64 = 5381
	for _, k := range keys {
		for shift := uint(0); shift < 64; shift += 8 {
			hash = hash*33 + (k>>shift)&0xff
		}
	}
	return hash
}
