package util

import "math/rand"

// New returns a deterministic generator for the given seed. Seed zero is
// remapped so an unset flag still produces a usable stream.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// DeriveSeed spreads a base seed across batch workers and run indices so
// parallel runs draw from distinct but reproducible streams.
func DeriveSeed(base int64, worker, run int) int64 {
	return base + int64(worker)*7919 + int64(run)
}
