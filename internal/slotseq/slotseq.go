// Package slotseq provides the ordered storage behind records: a persistent vector whose clones share all
// unmodified nodes.
package slotseq

import (
	"iter"

	"github.com/benbjohnson/immutable"
)

var (
	_ = Sequence[int]((*Persistent[int])(nil))
)

// A Sequence is an ordered, growable storage of values. Clone should be cheap and the clone should evolve
// independently from the original.
type Sequence[T any] interface {
	Len() int

	// Get returns the value at offset, ok is false if offset is out of range.
	Get(offset int) (value T, ok bool)

	// Set replaces the value at offset, it returns false if offset is out of range.
	Set(offset int, value T) bool

	PushFront(value T)
	PushBack(value T)
	Clone() Sequence[T]
}

// Persistent is a Sequence backed by an immutable list (bit-partitioned trie): push front/back, get and set
// are O(log n), cloning is O(1). The zero value is an empty sequence.
type Persistent[T any] struct {
	list *immutable.List[T]
}

func New[T any](values ...T) *Persistent[T] {
	builder := immutable.NewListBuilder[T]()
	for _, v := range values {
		builder.Append(v)
	}
	return &Persistent[T]{list: builder.List()}
}

func FromSeq[T any](seq iter.Seq[T]) *Persistent[T] {
	builder := immutable.NewListBuilder[T]()
	for v := range seq {
		builder.Append(v)
	}
	return &Persistent[T]{list: builder.List()}
}

func (s *Persistent[T]) Len() int {
	if s.list == nil {
		return 0
	}
	return s.list.Len()
}

func (s *Persistent[T]) Get(offset int) (value T, ok bool) {
	if offset < 0 || offset >= s.Len() {
		return
	}
	return s.list.Get(offset), true
}

func (s *Persistent[T]) Set(offset int, value T) bool {
	if offset < 0 || offset >= s.Len() {
		return false
	}
	s.list = s.list.Set(offset, value)
	return true
}

func (s *Persistent[T]) PushFront(value T) {
	s.init()
	s.list = s.list.Prepend(value)
}

func (s *Persistent[T]) PushBack(value T) {
	s.init()
	s.list = s.list.Append(value)
}

func (s *Persistent[T]) Clone() Sequence[T] {
	//the list is never mutated in place, sharing it is enough.
	return &Persistent[T]{list: s.list}
}

// All iterates over the values from front to back.
func (s *Persistent[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if s.list == nil {
			return
		}
		it := s.list.Iterator()
		for !it.Done() {
			i, v := it.Next()
			if !yield(i, v) {
				return
			}
		}
	}
}

func (s *Persistent[T]) init() {
	if s.list == nil {
		s.list = immutable.NewList[T]()
	}
}

// All iterates over the values of any sequence from front to back.
func All[T any](s Sequence[T]) iter.Seq2[int, T] {
	if p, ok := s.(*Persistent[T]); ok {
		return p.All()
	}
	return func(yield func(int, T) bool) {
		for i := 0; i < s.Len(); i++ {
			v, _ := s.Get(i)
			if !yield(i, v) {
				return
			}
		}
	}
}
