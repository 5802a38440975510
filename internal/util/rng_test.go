package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedSameStream(t *testing.T) {
	a, b := New(99), New(99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}

func TestZeroSeedIsUsable(t *testing.T) {
	a, b := New(0), New(1)
	assert.Equal(t, a.Int63(), b.Int63())
}

func TestDeriveSeedSpreadsRuns(t *testing.T) {
	seen := map[int64]bool{}
	for w := 0; w < 8; w++ {
		for i := 0; i < 100; i++ {
			seen[DeriveSeed(12345, w, i)] = true
		}
	}
	assert.Greater(t, len(seen), 700)
}
