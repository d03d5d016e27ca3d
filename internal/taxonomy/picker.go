package taxonomy

import (
	"math/rand"
	"time"
)

// Picker selects one index among n near-equal candidates. It exists so the
// matcher's randomized tie-break can be forced deterministic in tests.
type Picker interface {
	Pick(n int) int
}

// RandomPicker picks uniformly at random.
type RandomPicker struct {
	rng *rand.Rand
}

// NewRandomPicker returns a time-seeded RandomPicker.
func NewRandomPicker() *RandomPicker {
	return &RandomPicker{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededPicker returns a RandomPicker with a fixed seed.
func NewSeededPicker(seed int64) *RandomPicker {
	return &RandomPicker{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return p.rng.Intn(n)
}

// FixedPicker always picks the same index, clamped to the candidate count.
type FixedPicker int

func (p FixedPicker) Pick(n int) int {
	i := int(p)
	if n <= 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
