package scatter

// Rand is a xorshift32 generator. The same seed always yields the same
// sequence, which keeps layouts stable across renders and processes.
type Rand struct {
	s uint32
}

// NewRand returns a generator for seed. A zero seed would make xorshift
// emit zeros forever, so it is bumped to one.
func NewRand(seed uint32) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{s: seed}
}

// Next advances the generator and returns the raw 32-bit state.
func (r *Rand) Next() uint32 {
	r.s ^= r.s << 13
	r.s ^= r.s >> 17
	r.s ^= r.s << 5
	return r.s
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.Next()) / 4294967296
}

// Seed derives the layout seed from an item count.
// Only the count matters: two item sets of equal length share a layout.
func Seed(count int) uint32 {
	return uint32(count*999 + 17)
}
