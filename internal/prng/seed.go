package prng

import (
	"crypto/rand"
	"encoding/binary"
)

// NewFromOS seeds a Source from the OS's entropy source rather than a
// caller-supplied value, for callers that want a fresh, non-time-based seed
// with no extra bookkeeping. crypto/rand reads from the kernel CSPRNG; only
// the seed draw uses it; the generated output stream itself makes no
// cryptographic-strength claim.
func NewFromOS() (*Source, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, err
	}
	return New(binary.LittleEndian.Uint64(buf[:])), nil
}
