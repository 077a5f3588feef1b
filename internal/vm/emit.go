package vm

import "github.com/nanofuzz/nanofuzz/internal/pattern"

// emitRange writes iters independently-drawn bytes from set, each chosen by
// the spec's two-stage procedure: first a uniform pick among set's
// sub-ranges, then a uniform pick of a byte within the chosen sub-range.
// This gives every sub-range equal weight regardless of its width, rather
// than weighting by how many byte values it covers.
func (c *Context) emitRange(set pattern.RangeSet, iters int) error {
	ranges := set.Ranges()
	if len(ranges) == 0 {
		return nil
	}
	var one [1]byte
	for i := 0; i < iters; i++ {
		r := ranges[c.source.BoundedInt(0, len(ranges)-1)]
		one[0] = byte(c.source.BoundedInt(int(r.Lo), int(r.Hi)))
		if err := c.emit(one[:]); err != nil {
			return err
		}
	}
	return nil
}

// emitReference resolves and realizes a named cross-reference per spec
// §4.5: paste writes the sub-generator's cached bytes, length writes a
// formatted encoding of their size, and shuffle regenerates the cache
// without writing anything at its own position.
func (c *Context) emitReference(ref pattern.Reference, iters int) error {
	switch ref.Kind {
	case pattern.RefPaste:
		data, err := c.table.Get(ref.Name)
		if err != nil {
			return err
		}
		for i := 0; i < iters; i++ {
			if err := c.emit(data); err != nil {
				return err
			}
		}
		return nil

	case pattern.RefLength:
		data, err := c.table.Get(ref.Name)
		if err != nil {
			return err
		}
		value := int64(len(data)) + ref.LenOpts.Add
		encoded := formatLength(value, ref.LenOpts)
		for i := 0; i < iters; i++ {
			if err := c.emit(encoded); err != nil {
				return err
			}
		}
		return nil

	case pattern.RefShuffle:
		c.table.Invalidate(ref.Name)
		_, err := c.table.Get(ref.Name)
		return err

	default:
		return nil
	}
}
