package ordinal

import (
	"errors"

	"github.com/inoxlang/recordkit/internal/utils"
	"golang.org/x/exp/constraints"
)

var (
	ErrInvalidStride = errors.New("invalid stride: the stride of a slice should not be zero")
)

// A Window is the set of offsets selected by a strided slice, the selection is always computed front-to-back
// and Reversed only changes the emission order.
type Window struct {
	Start    int //offset of the first selected element (forward order)
	Step     int
	Count    int
	Reversed bool
}

// NewWindow computes the window selected by slicing a sequence of the given length from the head ordinal
// to the tail ordinal (both included) with a non-zero stride.
//
// An invalid head selects nothing, an invalid tail behaves as the first element. A negative stride selects
// the same elements as its absolute value but emits them back-to-front.
func NewWindow[I constraints.Signed](head, tail, stride I, length int) (Window, error) {
	if stride == 0 {
		return Window{}, ErrInvalidStride
	}

	start, ok := Resolve(head, length)
	if !ok {
		start = length + 1
	}

	stop, ok := Resolve(tail, length)
	if !ok {
		stop = 0
	}
	stop++ //half-open upper bound

	if stop > length {
		stop = length
	}

	step := utils.Abs(int(stride))
	if step < 0 || step > length {
		//any step >= length only selects the first element, Abs(math.MinInt) is negative.
		step = max(length, 1)
	}

	window := Window{
		Start:    start,
		Step:     step,
		Reversed: stride < 0,
	}

	if start < stop {
		window.Count = (stop-start-1)/step + 1
	}
	return window, nil
}

func (w Window) Empty() bool {
	return w.Count == 0
}

// Offset returns the offset of the i-th element of the selection in forward order, i should be in [0, Count).
func (w Window) Offset(i int) int {
	return w.Start + i*w.Step
}

// At returns the offset of the i-th emitted element.
func (w Window) At(i int) int {
	if w.Reversed {
		return w.Offset(w.Count - 1 - i)
	}
	return w.Offset(i)
}

// Offsets returns the selected offsets in emission order.
func (w Window) Offsets() []int {
	offsets := make([]int, w.Count)
	for i := range offsets {
		offsets[i] = w.At(i)
	}
	return offsets
}
