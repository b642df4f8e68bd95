// Package noise provides the seeded pseudo-random source behind the letter grid.
//
// Source is a linear congruential generator with the classic
// (9301, 49297, 233280) constants. A given seed yields the same sequence of
// draws wherever the same recurrence is used:
//
//	state = (state*9301 + 49297) mod 233280
//	draw  = state / 233280
//
// A Source is plain value state. Several grids can each own one without
// interfering, and Reset rewinds a Source to its original seed.
package noise

const (
	multiplier = 9301
	increment  = 49297
	modulus    = 233280
)

// Source produces reproducible values in [0, 1).
// It is not safe for concurrent use.
type Source struct {
	seed  int64
	state uint64
}

// New creates a Source for seed. A zero seed is remapped to 1.
func New(seed int64) *Source {
	if seed == 0 {
		seed = 1
	}
	s := &Source{seed: seed}
	s.Reset()
	return s
}

// Seed returns the seed the Source was created with (after zero remapping).
func (s *Source) Seed() int64 { return s.seed }

// Reset rewinds the Source to its original seed.
func (s *Source) Reset() {
	// Reducing modulo M up front keeps state*A within uint64 and does not
	// change any value the recurrence produces.
	m := s.seed % modulus
	if m < 0 {
		m += modulus
	}
	s.state = uint64(m)
}

// Next advances the state and returns the next value in [0, 1).
func (s *Source) Next() float64 {
	s.state = (s.state*multiplier + increment) % modulus
	return float64(s.state) / modulus
}

// Intn returns floor(Next()*n). It returns 0 without drawing when n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Next() * float64(n))
}
