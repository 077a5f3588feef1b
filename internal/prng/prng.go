// Package prng implements the seedable 64-bit generator nanofuzz's VM draws
// from: xoshiro256+, four 64-bit state words mutated by a rotate-xor-shift
// step. The state is stretched from a single caller-supplied seed word with
// a SplitMix64 round, the standard way to turn one seed word into several
// well-dispersed state words so adjacent seeds don't produce correlated
// streams.
package prng

// Source is a xoshiro256+ state. The zero value is not valid; construct one
// with New or NewFromOS.
type Source struct {
	s [4]uint64
}

// New seeds a Source deterministically from a single 64-bit value. Two
// sources built from the same seed produce byte-identical streams.
func New(seed uint64) *Source {
	var mix splitMix64
	mix.state = seed

	src := &Source{}
	for i := range src.s {
		src.s[i] = mix.next()
	}
	// Prime the state once and discard the draw, so low-quality
	// seed-derived state doesn't leak into the first caller-visible value.
	src.step()
	return src
}

// splitMix64 stretches one seed word into many well-dispersed ones.
type splitMix64 struct{ state uint64 }

func (m *splitMix64) next() uint64 {
	m.state += 0x9E3779B97F4A7C15
	z := m.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func rotl(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}

// step advances the xoshiro256+ state by one iteration and returns the next
// 64-bit output word.
func (src *Source) step() uint64 {
	s0, s1, s2, s3 := src.s[0], src.s[1], src.s[2], src.s[3]
	result := s0 + s3

	t := s1 << 17

	s2 ^= s0
	s3 ^= s1
	s1 ^= s2
	s0 ^= s3

	s2 ^= t
	s3 = rotl(s3, 45)

	src.s[0], src.s[1], src.s[2], src.s[3] = s0, s1, s2, s3
	return result
}

// Next returns the next raw 64-bit word in the stream.
func (src *Source) Next() uint64 {
	return src.step()
}

// Bounded returns a value in [lo, hi] inclusive. It always consumes exactly
// one word from the stream, even when hi <= lo, so that attaching a
// repetition or range-set draw to a block never changes how many words
// later blocks consume. When hi <= lo the draw is discarded and lo is
// returned.
func (src *Source) Bounded(lo, hi uint64) uint64 {
	draw := src.step()
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	if span == 0 {
		// hi-lo+1 overflowed uint64 (hi == math.MaxUint64, lo == 0): the
		// entire uint64 range is in play, so any draw is already in range.
		return draw
	}
	return lo + draw%span
}

// BoundedInt is a convenience wrapper over Bounded for the small int ranges
// the VM actually needs (repetition counts up to 65535, byte values 0-255).
func (src *Source) BoundedInt(lo, hi int) int {
	return int(src.Bounded(uint64(lo), uint64(hi)))
}
