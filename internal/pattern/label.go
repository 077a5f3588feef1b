package pattern

import (
	"fmt"

	"github.com/nanofuzz/nanofuzz/limits"
)

// ValidLabel reports whether s is a legal reference label: 1 to
// limits.MaxLabelLength characters, each an uppercase ASCII letter or digit.
func ValidLabel(s string) bool {
	if len(s) == 0 || len(s) > limits.MaxLabelLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// HashLabel computes the djb2 hash of a label's bytes, stored on every
// Reference. The reference table keys its entries by the label string
// itself and does not consult this hash.
func HashLabel(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = (h*33 + uint32(s[i]))
	}
	return h
}

// LabelError reports a structurally invalid label. The parser does not
// construct it: it records its own "invalid label" InvalidSyntax fragment.
type LabelError struct {
	Label string
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("invalid label %q: must be 1-%d uppercase letters/digits", e.Label, limits.MaxLabelLength)
}
