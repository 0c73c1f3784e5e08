package record

import (
	"fmt"
	"iter"

	"github.com/inoxlang/recordkit/internal/ordinal"
	"github.com/inoxlang/recordkit/internal/slotseq"
)

// borrowState tracks the views open on a record: any number of read views or a single edit view.
type borrowState struct {
	readers int
	editing bool
}

// Slice returns a read view over the values selected from the head ordinal to the tail ordinal (both
// included), taking every |stride|-th value. A negative stride emits the same selection back-to-front.
//
// The view reads a snapshot of the record, later modifications are not visible through it. ErrInvalidStride
// is returned if stride is zero, ErrViewConflict if an edit view is open on the record.
// A view selecting no values is released as soon as it is created.
func (r *Record[T]) Slice(head, tail, stride int) (*View[T], error) {
	window, err := ordinal.NewWindow(head, tail, stride, r.Len())
	if err != nil {
		return nil, err
	}

	if r.borrows.editing {
		return nil, fmt.Errorf("%w: an edit view is open on the record", ErrViewConflict)
	}

	view := &View[T]{
		values: r.seq().Clone(),
		window: window,
		hi:     window.Count,
	}

	if !window.Empty() {
		r.borrows.readers++
		view.release = func() {
			r.borrows.readers--
		}
	}
	return view, nil
}

// SliceMut is the editing equivalent of Slice, it requires exclusive access: ErrViewConflict is returned if
// any view is open on the record. Like read views, an edit view is released when it is exhausted or closed.
func (r *Record[T]) SliceMut(head, tail, stride int) (*EditView[T], error) {
	window, err := ordinal.NewWindow(head, tail, stride, r.Len())
	if err != nil {
		return nil, err
	}

	switch {
	case r.borrows.editing:
		return nil, fmt.Errorf("%w: an edit view is already open on the record", ErrViewConflict)
	case r.borrows.readers > 0:
		return nil, fmt.Errorf("%w: %d read view(s) open on the record", ErrViewConflict, r.borrows.readers)
	}

	view := &EditView[T]{
		record: r,
		window: window,
		base:   r.front(),
		hi:     window.Count,
	}

	if !window.Empty() {
		r.borrows.editing = true
		view.release = func() {
			r.borrows.editing = false
		}
	}
	return view, nil
}

// A View is a lazy, finite, double-ended sequence of values. It cannot be rewinded, slice the record again
// to iterate a second time. The view is released when it is exhausted or closed.
type View[T any] struct {
	values  slotseq.Sequence[T]
	window  ordinal.Window
	lo, hi  int //remaining emission indexes: [lo, hi)
	release func()
}

// Next returns the next value in emission order.
func (v *View[T]) Next() (value T, ok bool) {
	if v.lo >= v.hi {
		v.Close()
		return
	}
	value, _ = v.values.Get(v.window.At(v.lo))
	v.lo++
	if v.lo >= v.hi {
		v.Close()
	}
	return value, true
}

// NextBack returns the last remaining value in emission order.
func (v *View[T]) NextBack() (value T, ok bool) {
	if v.lo >= v.hi {
		v.Close()
		return
	}
	v.hi--
	value, _ = v.values.Get(v.window.At(v.hi))
	if v.lo >= v.hi {
		v.Close()
	}
	return value, true
}

// Len returns the number of remaining values.
func (v *View[T]) Len() int {
	return v.hi - v.lo
}

// Reversed returns true if the values are emitted back-to-front.
func (v *View[T]) Reversed() bool {
	return v.window.Reversed
}

// All iterates over the remaining values, the view is closed when the iteration stops.
func (v *View[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer v.Close()

		for v.Len() > 0 {
			value, _ := v.Next()
			if !yield(value) {
				return
			}
		}
	}
}

// Collect consumes the remaining values, the result is never nil.
func (v *View[T]) Collect() []T {
	values := make([]T, 0, v.Len())
	for value := range v.All() {
		values = append(values, value)
	}
	v.Close()
	return values
}

// Close releases the view, calling Close several times is allowed.
func (v *View[T]) Close() {
	if v.release != nil {
		v.release()
		v.release = nil
	}
}

// An EditView is the editing equivalent of View, it yields references to slots instead of values.
type EditView[T any] struct {
	record  *Record[T]
	window  ordinal.Window
	base    int //front insertion count when the view was created
	lo, hi  int
	release func()
}

func (v *EditView[T]) Next() (ref SlotRef[T], ok bool) {
	if v.lo >= v.hi {
		v.Close()
		return
	}
	ref = v.ref(v.window.At(v.lo))
	v.lo++
	if v.lo >= v.hi {
		v.Close()
	}
	return ref, true
}

func (v *EditView[T]) NextBack() (ref SlotRef[T], ok bool) {
	if v.lo >= v.hi {
		v.Close()
		return
	}
	v.hi--
	ref = v.ref(v.window.At(v.hi))
	if v.lo >= v.hi {
		v.Close()
	}
	return ref, true
}

func (v *EditView[T]) Len() int {
	return v.hi - v.lo
}

func (v *EditView[T]) Reversed() bool {
	return v.window.Reversed
}

// All iterates over the references to the remaining slots, the view is closed when the iteration stops.
func (v *EditView[T]) All() iter.Seq[SlotRef[T]] {
	return func(yield func(SlotRef[T]) bool) {
		defer v.Close()

		for v.Len() > 0 {
			ref, _ := v.Next()
			if !yield(ref) {
				return
			}
		}
	}
}

// Apply replaces each remaining value by fn(value) in emission order and closes the view.
func (v *EditView[T]) Apply(fn func(T) T) {
	for ref := range v.All() {
		ref.Set(fn(ref.Get()))
	}
	v.Close()
}

// Close releases the view, the record can then be sliced again. Calling Close several times is allowed.
func (v *EditView[T]) Close() {
	if v.release != nil {
		v.release()
		v.release = nil
	}
}

func (v *EditView[T]) ref(offset int) SlotRef[T] {
	return SlotRef[T]{record: v.record, pos: offset - v.base}
}

// A SlotRef references a slot of a record, it keeps designating the same slot if values are inserted
// at the front of the record. Exclusive access is only guaranteed while the edit view is open.
type SlotRef[T any] struct {
	record *Record[T]
	pos    int //offset - front insertion count
}

// Offset returns the current offset of the slot.
func (ref SlotRef[T]) Offset() int {
	return ref.pos + ref.record.front()
}

func (ref SlotRef[T]) Get() T {
	value, _ := ref.record.GetOffset(ref.Offset())
	return value
}

func (ref SlotRef[T]) Set(value T) {
	ref.record.SetOffset(ref.Offset(), value)
}
