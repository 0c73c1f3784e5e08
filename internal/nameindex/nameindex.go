// Package nameindex maps unique names to the offsets of the slots they designate.
package nameindex

import (
	"errors"
	"fmt"
	"iter"

	"github.com/tidwall/btree"
)

var (
	ErrDuplicateName = errors.New("duplicate name")
	ErrInvalidName   = errors.New("invalid name: a name should not be empty")
)

// Index is an ordered name -> offset mapping.
//
// Offsets are not stored directly: each name is associated with a logical position that does not change
// when a slot is inserted at the front of the owning sequence, offset = position + front. An insertion at
// the front is therefore O(1) instead of O(names). The zero value is an empty index.
type Index struct {
	byName *btree.Map[string, int] //name -> logical position
	byPos  *btree.Map[int, string] //logical position -> name
	front  int                     //number of front insertions performed so far
}

func (idx *Index) Len() int {
	if idx.byName == nil {
		return 0
	}
	return idx.byName.Len()
}

// Lookup returns the offset of the slot designated by name.
func (idx *Index) Lookup(name string) (offset int, found bool) {
	if idx.byName == nil {
		return 0, false
	}
	pos, ok := idx.byName.Get(name)
	if !ok {
		return 0, false
	}
	return pos + idx.front, true
}

// NameAt returns the name of the slot at offset, if the slot is named.
func (idx *Index) NameAt(offset int) (string, bool) {
	if idx.byPos == nil {
		return "", false
	}
	return idx.byPos.Get(offset - idx.front)
}

// CheckBindable returns an error if name cannot be bound: ErrInvalidName if it is empty, ErrDuplicateName
// if it is already present.
func (idx *Index) CheckBindable(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	if _, ok := idx.Lookup(name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return nil
}

// Bind associates name with the slot at offset. The slot should already be present in the sequence and
// should not be named.
func (idx *Index) Bind(name string, offset int) error {
	if err := idx.CheckBindable(name); err != nil {
		return err
	}

	if idx.byName == nil {
		idx.byName = &btree.Map[string, int]{}
		idx.byPos = &btree.Map[int, string]{}
	}

	pos := offset - idx.front
	if prev, ok := idx.byPos.Get(pos); ok {
		return fmt.Errorf("slot at offset %d is already named %q", offset, prev)
	}

	idx.byName.Set(name, pos)
	idx.byPos.Set(pos, name)
	return nil
}

// ShiftFront should be called each time a slot is inserted at the front of the owning sequence, named or not:
// every bound offset is incremented by one.
func (idx *Index) ShiftFront() {
	idx.front++
}

// Front returns the number of front insertions performed so far, offset - Front() is stable for a given slot.
func (idx *Index) Front() int {
	return idx.front
}

// Copy returns an independent index sharing its nodes with idx until one of them is modified.
func (idx *Index) Copy() *Index {
	clone := &Index{front: idx.front}
	if idx.byName != nil {
		clone.byName = idx.byName.Copy()
		clone.byPos = idx.byPos.Copy()
	}
	return clone
}

// Names iterates over (name, offset) pairs in name order.
func (idx *Index) Names() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		if idx.byName == nil {
			return
		}
		idx.byName.Scan(func(name string, pos int) bool {
			return yield(name, pos+idx.front)
		})
	}
}

// ByOffset iterates over (offset, name) pairs in offset order.
func (idx *Index) ByOffset() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		if idx.byPos == nil {
			return
		}
		idx.byPos.Scan(func(pos int, name string) bool {
			return yield(pos+idx.front, name)
		})
	}
}

// Check verifies that every bound offset is lower than length.
func (idx *Index) Check(length int) error {
	for offset, name := range idx.ByOffset() {
		if offset < 0 || offset >= length {
			return fmt.Errorf("name %q designates offset %d which is out of range (length %d)", name, offset, length)
		}
	}
	return nil
}
