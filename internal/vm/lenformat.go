package vm

import (
	"encoding/binary"
	"math/big"

	"github.com/nanofuzz/nanofuzz/internal/pattern"
)

// formatLength encodes value (a sub-generator's cached length plus the
// reference's "+add" offset) under opts, as produced by a
// "<#fmt[width][+add]:NAME>" reference. Raw and binary formats wrap value to
// exactly width bytes/bits by truncating its two's-complement bit pattern;
// the decimal/hex/octal text formats wrap to width digits by reducing
// modulo the format's base raised to width when width is nonzero, or print
// the value unpadded and unwrapped when width is zero.
func formatLength(value int64, opts pattern.LenOpts) []byte {
	switch opts.Format {
	case pattern.LenBigEndian:
		return rawBytes(value, opts.Width, binary.BigEndian)
	case pattern.LenLittleEndian:
		return rawBytes(value, opts.Width, binary.LittleEndian)
	case pattern.LenBinary:
		return binaryText(value, opts.Width)
	case pattern.LenDecimal:
		return baseText(value, opts.Width, 10, false)
	case pattern.LenHexLower:
		return baseText(value, opts.Width, 16, false)
	case pattern.LenHexUpper:
		return baseText(value, opts.Width, 16, true)
	case pattern.LenOctal:
		return baseText(value, opts.Width, 8, false)
	default:
		return nil
	}
}

// rawBytes masks value to exactly width*8 bits and lays the result out in
// the given byte order. width is always 1..=8 by the time the parser hands
// this a LenOpts, so the mask never needs more than a uint64's worth of
// bits.
func rawBytes(value int64, width int, order binary.ByteOrder) []byte {
	u := uint64(value)
	if width < 8 {
		u &= uint64(1)<<uint(width*8) - 1
	}
	var buf [8]byte
	order.PutUint64(buf[:], u)
	if order == binary.BigEndian {
		return append([]byte(nil), buf[8-width:]...)
	}
	return append([]byte(nil), buf[:width]...)
}

// binaryText masks value to exactly width bits and renders it as an ASCII
// '0'/'1' string of that exact length, most significant bit first.
func binaryText(value int64, width int) []byte {
	u := uint64(value)
	if width < 64 {
		u &= uint64(1)<<uint(width) - 1
	}
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		bit := (u >> uint(width-1-i)) & 1
		out[i] = '0' + byte(bit)
	}
	return out
}

// baseText renders value in the given base as ASCII text. A zero width
// means "no padding": the value is printed signed and unwrapped. A nonzero
// width wraps value modulo base^width — using big.Int's Euclidean Mod, so a
// negative value (a large negative "+add") wraps into the positive range
// too rather than printing a sign — and zero-pads left to exactly width
// digits.
func baseText(value int64, width, base int, upper bool) []byte {
	v := big.NewInt(value)
	if width > 0 {
		modulus := new(big.Int).Exp(big.NewInt(int64(base)), big.NewInt(int64(width)), nil)
		v.Mod(v, modulus)
	}
	s := v.Text(base)
	if upper {
		s = toUpperASCII(s)
	}
	if width > 0 && len(s) < width {
		pad := make([]byte, width-len(s))
		for i := range pad {
			pad[i] = '0'
		}
		s = string(pad) + s
	}
	return []byte(s)
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
