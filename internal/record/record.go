// Package record implements Record, an ordered sequence of slots addressable by ordinal (1-based, negative
// ordinals count from the back) or by an optional unique name.
//
// Names are a lookup convenience: equality, hashing, formatting and serialization only consider the values.
// Records are backed by a persistent sequence, cloning is cheap and clones never affect each other.
package record

import (
	"errors"
	"fmt"
	"iter"

	"github.com/inoxlang/recordkit/internal/nameindex"
	"github.com/inoxlang/recordkit/internal/ordinal"
	"github.com/inoxlang/recordkit/internal/slotseq"
)

var (
	ErrDuplicateName = nameindex.ErrDuplicateName
	ErrInvalidName   = nameindex.ErrInvalidName
	ErrInvalidStride = ordinal.ErrInvalidStride
	ErrViewConflict  = errors.New("view conflict")
)

// A Record is an ordered sequence of values, some of them named. Records only grow: values are inserted at the
// front or at the back. The zero value is an empty record.
//
// A Record should not be copied by value, use Clone.
type Record[T any] struct {
	slots   slotseq.Sequence[T]
	names   *nameindex.Index
	borrows borrowState
}

func New[T any]() *Record[T] {
	return &Record[T]{}
}

// From creates a record containing the passed values, no slot is named.
func From[T any](values ...T) *Record[T] {
	return &Record[T]{slots: slotseq.New(values...)}
}

// FromSeq creates a record containing the values yielded by seq, no slot is named.
func FromSeq[T any](seq iter.Seq[T]) *Record[T] {
	return &Record[T]{slots: slotseq.FromSeq(seq)}
}

// FromConverted creates a record containing the converted values yielded by seq, no slot is named.
func FromConverted[U, T any](seq iter.Seq[U], convert func(U) T) *Record[T] {
	return FromSeq(func(yield func(T) bool) {
		for u := range seq {
			if !yield(convert(u)) {
				return
			}
		}
	})
}

func (r *Record[T]) Len() int {
	if r == nil || r.slots == nil {
		return 0
	}
	return r.slots.Len()
}

// Clone returns a record with the same values and names. The storage is shared until one of the records is
// modified.
func (r *Record[T]) Clone() *Record[T] {
	clone := &Record[T]{}
	if r.slots != nil {
		clone.slots = r.slots.Clone()
	}
	if r.names != nil {
		clone.names = r.names.Copy()
	}
	return clone
}

// GetOffset returns the value at the zero-based offset.
func (r *Record[T]) GetOffset(offset int) (value T, found bool) {
	if r.Len() == 0 {
		return
	}
	return r.slots.Get(offset)
}

// SetOffset replaces the value at the zero-based offset, it returns false if there is no such slot.
func (r *Record[T]) SetOffset(offset int, value T) bool {
	if r.Len() == 0 {
		return false
	}
	return r.slots.Set(offset, value)
}

// GetOrdinal returns the value at the 1-based ordinal, -1 designates the last value.
func (r *Record[T]) GetOrdinal(ord int) (value T, found bool) {
	offset, ok := ordinal.Resolve(ord, r.Len())
	if !ok {
		return
	}
	return r.GetOffset(offset)
}

func (r *Record[T]) SetOrdinal(ord int, value T) bool {
	offset, ok := ordinal.Resolve(ord, r.Len())
	if !ok {
		return false
	}
	return r.SetOffset(offset, value)
}

// GetNamed returns the value of the slot named name.
func (r *Record[T]) GetNamed(name string) (value T, found bool) {
	if r.names == nil {
		return
	}
	offset, ok := r.names.Lookup(name)
	if !ok {
		return
	}
	return r.GetOffset(offset)
}

func (r *Record[T]) SetNamed(name string, value T) bool {
	if r.names == nil {
		return false
	}
	offset, ok := r.names.Lookup(name)
	if !ok {
		return false
	}
	return r.SetOffset(offset, value)
}

// NameOf returns the name of the slot at offset, if the slot is named.
func (r *Record[T]) NameOf(offset int) (string, bool) {
	if r.names == nil {
		return "", false
	}
	return r.names.NameAt(offset)
}

// Names iterates over the (name, offset) pairs in name order.
func (r *Record[T]) Names() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		if r.names == nil {
			return
		}
		for name, offset := range r.names.Names() {
			if !yield(name, offset) {
				return
			}
		}
	}
}

func (r *Record[T]) NameCount() int {
	if r.names == nil {
		return 0
	}
	return r.names.Len()
}

func (r *Record[T]) AppendOne(value T) {
	r.seq().PushBack(value)
}

func (r *Record[T]) PrependOne(value T) {
	r.seq().PushFront(value)
	r.index().ShiftFront()
}

// AppendMany appends the values in order.
func (r *Record[T]) AppendMany(values ...T) {
	for _, v := range values {
		r.AppendOne(v)
	}
}

// PrependMany prepends the values one after the other: each value is inserted in front of the previous one,
// PrependMany(a, b, c) results in c, b, a, ...
func (r *Record[T]) PrependMany(values ...T) {
	for _, v := range values {
		r.PrependOne(v)
	}
}

func (r *Record[T]) AppendSeq(seq iter.Seq[T]) {
	for v := range seq {
		r.AppendOne(v)
	}
}

func (r *Record[T]) PrependSeq(seq iter.Seq[T]) {
	for v := range seq {
		r.PrependOne(v)
	}
}

// AppendNamed appends a value and names its slot. If the name is already present ErrDuplicateName is returned
// and the record is not modified.
func (r *Record[T]) AppendNamed(name string, value T) error {
	names := r.index()
	if err := names.CheckBindable(name); err != nil {
		return err
	}

	offset := r.Len()
	r.seq().PushBack(value)
	return names.Bind(name, offset)
}

// PrependNamed prepends a value and names its slot. If the name is already present ErrDuplicateName is
// returned and the record is not modified.
func (r *Record[T]) PrependNamed(name string, value T) error {
	names := r.index()
	if err := names.CheckBindable(name); err != nil {
		return err
	}

	r.seq().PushFront(value)
	names.ShiftFront()
	return names.Bind(name, 0)
}

// All iterates over the (offset, value) pairs from front to back.
func (r *Record[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if r.Len() == 0 {
			return
		}
		for i, v := range slotseq.All(r.slots) {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns the values from front to back, the result is never nil.
func (r *Record[T]) Values() []T {
	values := make([]T, 0, r.Len())
	for _, v := range r.All() {
		values = append(values, v)
	}
	return values
}

// Check verifies the consistency between the slots and the names.
func (r *Record[T]) Check() error {
	if r.names == nil {
		return nil
	}
	if r.names.Len() > r.Len() {
		return fmt.Errorf("more names (%d) than slots (%d)", r.names.Len(), r.Len())
	}
	return r.names.Check(r.Len())
}

// reset replaces the content of the record by unnamed values.
func (r *Record[T]) reset(values []T) error {
	if r.borrows.editing {
		return fmt.Errorf("%w: cannot replace the content of a record while it is edited", ErrViewConflict)
	}
	r.slots = slotseq.New(values...)
	r.names = nil
	return nil
}

func (r *Record[T]) seq() slotseq.Sequence[T] {
	if r.slots == nil {
		r.slots = slotseq.New[T]()
	}
	return r.slots
}

func (r *Record[T]) index() *nameindex.Index {
	if r.names == nil {
		r.names = &nameindex.Index{}
	}
	return r.names
}

// front returns the number of front insertions, offset - front is stable for a given slot.
func (r *Record[T]) front() int {
	if r.names == nil {
		return 0
	}
	return r.names.Front()
}
