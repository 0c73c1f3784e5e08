// Package ordinal converts signed 1-based ordinals into zero-based offsets and computes the offset
// windows selected by strided slices.
package ordinal

import (
	"golang.org/x/exp/constraints"
)

// Resolve converts an ordinal into an offset for a sequence of the given length.
// Positive ordinals count from the front (1 is the first element), negative ordinals count from the back
// (-1 is the last element). 0 is never valid. The upper bound of the offset is not checked.
func Resolve[I constraints.Signed](ordinal I, length int) (offset int, ok bool) {
	switch {
	case ordinal == 0:
		return 0, false
	case ordinal > 0:
		return int(ordinal) - 1, true
	default:
		offset = length + int(ordinal)
		if offset < 0 {
			return 0, false
		}
		return offset, true
	}
}

// ResolveOffset is like Resolve but also reports an offset that is not lower than length as absent.
func ResolveOffset[I constraints.Signed](ordinal I, length int) (int, bool) {
	offset, ok := Resolve(ordinal, length)
	if !ok || offset >= length {
		return 0, false
	}
	return offset, true
}
