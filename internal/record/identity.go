package record

import (
	"fmt"
	"hash/maphash"
	"strings"
)

// EqualFunc reports whether both records contain equal values in the same order, names are ignored.
func (r *Record[T]) EqualFunc(other *Record[T], eq func(a, b T) bool) bool {
	if r.Len() != other.Len() {
		return false
	}

	for offset, value := range r.All() {
		otherValue, _ := other.GetOffset(offset)
		if !eq(value, otherValue) {
			return false
		}
	}
	return true
}

// Equal reports whether both records contain equal values in the same order, names are ignored.
func Equal[T comparable](a, b *Record[T]) bool {
	return a.EqualFunc(b, func(x, y T) bool {
		return x == y
	})
}

// WriteHash writes the length and the values of the record to h, names are ignored.
// Two records equal according to EqualFunc should produce the same writes.
func (r *Record[T]) WriteHash(h *maphash.Hash, write func(h *maphash.Hash, value T)) {
	maphash.WriteComparable(h, r.Len())
	for _, value := range r.All() {
		write(h, value)
	}
}

// Hash returns a hash of the values of the record, records equal according to Equal have the same hash.
func Hash[T comparable](seed maphash.Seed, r *Record[T]) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	r.WriteHash(&h, maphash.WriteComparable[T])
	return h.Sum64()
}

// String formats the values as a list: [a, b, c]. Names are not shown.
func (r *Record[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for offset, value := range r.All() {
		if offset > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", value)
	}
	b.WriteByte(']')
	return b.String()
}

// A Visitor is invoked once per value by Record.Trace, this is the hook used by tracing collectors.
type Visitor[T any] interface {
	Visit(value T)
}

type VisitorFunc[T any] func(value T)

func (f VisitorFunc[T]) Visit(value T) {
	f(value)
}

// Trace invokes the visitor on each value in order. Names are not traced.
func (r *Record[T]) Trace(visitor Visitor[T]) {
	for _, value := range r.All() {
		visitor.Visit(value)
	}
}
