package linker

import "github.com/nanofuzz/nanofuzz/internal/pattern"

// subEnds computes, for every Sub block's index, the index of its matching
// Ret, stored on the Factory as SubEnd. The VM does not consult this map.
func subEnds(blocks []pattern.Block) map[int]int {
	ends := make(map[int]int)
	var stack []int
	for i, b := range blocks {
		switch b.Kind {
		case pattern.KindSub:
			stack = append(stack, i)
		case pattern.KindRet:
			if len(stack) == 0 {
				continue
			}
			subIdx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			ends[subIdx] = i
		}
	}
	return ends
}
