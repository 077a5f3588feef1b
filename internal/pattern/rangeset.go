package pattern

import "sort"

// SubRange is a single inclusive [Lo,Hi] byte interval, 0..=255.
type SubRange struct {
	Lo byte
	Hi byte
}

// Contains reports whether b falls within the interval.
func (r SubRange) Contains(b byte) bool {
	return b >= r.Lo && b <= r.Hi
}

// RangeSet is a union of non-overlapping SubRanges built from up to
// limits.MaxRangeSubRanges parsed items, optionally negated against the full
// 0..=255 domain. Negation is resolved into concrete gap sub-ranges at
// construction time so the VM never has to special-case Negated at draw
// time; the gaps can number one more than the parsed items, and negating
// the whole 0..=255 domain leaves no sub-range at all (width 0).
type RangeSet struct {
	ranges []SubRange
	width  int // total number of distinct byte values covered
}

// NewRangeSet builds a RangeSet from already-validated, non-overlapping
// sub-ranges. If negate is true, the result covers the complement of ranges
// within 0..=255 instead.
func NewRangeSet(ranges []SubRange, negate bool) RangeSet {
	sorted := append([]SubRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lo < sorted[j].Lo })

	if negate {
		sorted = complement(sorted)
	}

	rs := RangeSet{ranges: sorted}
	for _, r := range sorted {
		rs.width += int(r.Hi) - int(r.Lo) + 1
	}
	return rs
}

// complement computes the gaps in 0..=255 left uncovered by sorted,
// non-overlapping ranges.
func complement(sorted []SubRange) []SubRange {
	var out []SubRange
	next := 0
	for _, r := range sorted {
		if int(r.Lo) > next {
			out = append(out, SubRange{Lo: byte(next), Hi: r.Lo - 1})
		}
		if int(r.Hi)+1 > next {
			next = int(r.Hi) + 1
		}
	}
	if next <= 255 {
		out = append(out, SubRange{Lo: byte(next), Hi: 255})
	}
	return out
}

// Ranges returns the concrete (post-negation) sub-ranges making up the set.
func (rs RangeSet) Ranges() []SubRange { return rs.ranges }

// Width is the total count of distinct byte values the set covers.
func (rs RangeSet) Width() int { return rs.width }

// Contains reports whether b belongs to the set.
func (rs RangeSet) Contains(b byte) bool {
	for _, r := range rs.ranges {
		if r.Contains(b) {
			return true
		}
	}
	return false
}

// At returns the index-th byte value in the set, treating the set's
// sub-ranges as one flattened, ordered domain of Width() values. The VM does
// not use it: it picks a sub-range first, then a byte within it.
func (rs RangeSet) At(index int) byte {
	for _, r := range rs.ranges {
		w := int(r.Hi) - int(r.Lo) + 1
		if index < w {
			return byte(int(r.Lo) + index)
		}
		index -= w
	}
	return 0
}

// Overlaps reports whether any two sub-ranges in candidate overlap — used by
// the parser to reject "[a-c,b-d]" before negation is ever applied.
func Overlaps(ranges []SubRange) bool {
	sorted := append([]SubRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lo < sorted[j].Lo })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Lo <= sorted[i-1].Hi {
			return true
		}
	}
	return false
}
