package record

import (
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeroToNine() *Record[int] {
	return From(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
}

func TestRecordConstruction(t *testing.T) {
	t.Parallel()

	t.Run("zero value", func(t *testing.T) {
		var r Record[int]
		assert.Equal(t, 0, r.Len())
		assert.Equal(t, []int{}, r.Values())

		_, ok := r.GetOrdinal(1)
		assert.False(t, ok)

		r.AppendOne(1)
		assert.Equal(t, []int{1}, r.Values())
	})

	t.Run("From", func(t *testing.T) {
		r := From("a", "b")
		assert.Equal(t, []string{"a", "b"}, r.Values())
		assert.Equal(t, 0, r.NameCount())
	})

	t.Run("FromSeq", func(t *testing.T) {
		r := FromSeq(slices.Values([]int{1, 2, 3}))
		assert.Equal(t, []int{1, 2, 3}, r.Values())
	})

	t.Run("FromConverted", func(t *testing.T) {
		r := FromConverted(slices.Values([]int{1, 2}), strconv.Itoa)
		assert.Equal(t, []string{"1", "2"}, r.Values())
	})
}

func TestRecordAccess(t *testing.T) {
	t.Parallel()

	t.Run("GetOffset", func(t *testing.T) {
		r := zeroToNine()

		v, ok := r.GetOffset(3)
		assert.True(t, ok)
		assert.Equal(t, 3, v)

		_, ok = r.GetOffset(10)
		assert.False(t, ok)

		_, ok = r.GetOffset(-1)
		assert.False(t, ok)
	})

	t.Run("GetOrdinal", func(t *testing.T) {
		r := zeroToNine()

		v, ok := r.GetOrdinal(1)
		assert.True(t, ok)
		assert.Equal(t, 0, v)

		v, ok = r.GetOrdinal(-1)
		assert.True(t, ok)
		assert.Equal(t, 9, v)

		v, ok = r.GetOrdinal(-10)
		assert.True(t, ok)
		assert.Equal(t, 0, v)

		for _, ord := range []int{0, 11, -11} {
			_, ok = r.GetOrdinal(ord)
			assert.False(t, ok, "ordinal %d", ord)
		}
	})

	t.Run("AppendOne then GetOrdinal(-1)", func(t *testing.T) {
		r := zeroToNine()
		r.AppendOne(42)

		v, ok := r.GetOrdinal(-1)
		assert.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("setters", func(t *testing.T) {
		r := From(1, 2, 3)
		require.NoError(t, r.AppendNamed("x", 4))

		assert.True(t, r.SetOffset(0, 10))
		assert.True(t, r.SetOrdinal(-2, 30))
		assert.True(t, r.SetNamed("x", 40))
		assert.Equal(t, []int{10, 2, 30, 40}, r.Values())

		assert.False(t, r.SetOffset(4, 0))
		assert.False(t, r.SetOrdinal(0, 0))
		assert.False(t, r.SetNamed("y", 0))
		assert.Equal(t, []int{10, 2, 30, 40}, r.Values())
	})
}

func TestRecordMutation(t *testing.T) {
	t.Parallel()

	t.Run("PrependOne", func(t *testing.T) {
		r := From(1)
		r.PrependOne(0)
		assert.Equal(t, []int{0, 1}, r.Values())
	})

	t.Run("AppendMany", func(t *testing.T) {
		r := From(0)
		r.AppendMany(1, 2, 3)
		assert.Equal(t, []int{0, 1, 2, 3}, r.Values())
	})

	t.Run("PrependMany inserts each value in front of the previous one", func(t *testing.T) {
		r := New[string]()
		r.PrependMany("a", "b", "c")

		for i, expected := range []string{"c", "b", "a"} {
			v, ok := r.GetOrdinal(i + 1)
			assert.True(t, ok)
			assert.Equal(t, expected, v)
		}
	})

	t.Run("AppendSeq and PrependSeq", func(t *testing.T) {
		r := From(0)
		r.AppendSeq(slices.Values([]int{1, 2}))
		r.PrependSeq(slices.Values([]int{-1, -2}))
		assert.Equal(t, []int{-2, -1, 0, 1, 2}, r.Values())
	})
}

func TestRecordNames(t *testing.T) {
	t.Parallel()

	t.Run("AppendNamed", func(t *testing.T) {
		r := From(0)
		require.NoError(t, r.AppendNamed("x", 1))

		v, ok := r.GetNamed("x")
		assert.True(t, ok)
		assert.Equal(t, 1, v)

		name, ok := r.NameOf(1)
		assert.True(t, ok)
		assert.Equal(t, "x", name)

		_, ok = r.NameOf(0)
		assert.False(t, ok)
	})

	t.Run("unknown name", func(t *testing.T) {
		r := From(0)
		_, ok := r.GetNamed("x")
		assert.False(t, ok)
	})

	t.Run("duplicate name", func(t *testing.T) {
		r := New[int]()
		require.NoError(t, r.AppendNamed("x", 1))

		err := r.AppendNamed("x", 2)
		assert.ErrorIs(t, err, ErrDuplicateName)
		assert.Equal(t, 1, r.Len())

		err = r.PrependNamed("x", 3)
		assert.ErrorIs(t, err, ErrDuplicateName)
		assert.Equal(t, []int{1}, r.Values())

		v, _ := r.GetNamed("x")
		assert.Equal(t, 1, v)
	})

	t.Run("empty name", func(t *testing.T) {
		r := New[int]()
		assert.ErrorIs(t, r.AppendNamed("", 1), ErrInvalidName)
		assert.ErrorIs(t, r.PrependNamed("", 1), ErrInvalidName)
		assert.Equal(t, 0, r.Len())
	})

	t.Run("front insertions keep names consistent", func(t *testing.T) {
		r := New[string]()
		require.NoError(t, r.AppendNamed("b", "B"))
		require.NoError(t, r.PrependNamed("a", "A"))
		r.PrependOne("_")
		r.AppendOne("c")
		r.PrependMany("-", "=")

		assert.Equal(t, []string{"=", "-", "_", "A", "B", "c"}, r.Values())

		v, _ := r.GetNamed("a")
		assert.Equal(t, "A", v)
		v, _ = r.GetNamed("b")
		assert.Equal(t, "B", v)

		var names []string
		var offsets []int
		for name, offset := range r.Names() {
			names = append(names, name)
			offsets = append(offsets, offset)
		}
		assert.Equal(t, []string{"a", "b"}, names)
		assert.Equal(t, []int{3, 4}, offsets)
		assert.NoError(t, r.Check())
	})

	t.Run("clones do not share names", func(t *testing.T) {
		r := New[int]()
		require.NoError(t, r.AppendNamed("x", 1))

		clone := r.Clone()
		require.NoError(t, clone.AppendNamed("y", 2))
		require.NoError(t, r.PrependNamed("y", 0))

		v, _ := clone.GetNamed("y")
		assert.Equal(t, 2, v)
		v, _ = r.GetNamed("y")
		assert.Equal(t, 0, v)

		v, _ = r.GetNamed("x")
		assert.Equal(t, 1, v)
		v, _ = clone.GetNamed("x")
		assert.Equal(t, 1, v)
	})
}

func TestRecordClone(t *testing.T) {
	t.Parallel()

	r := From(1, 2, 3)
	clone := r.Clone()

	r.AppendOne(4)
	r.SetOffset(0, 10)
	clone.PrependOne(0)

	assert.Equal(t, []int{10, 2, 3, 4}, r.Values())
	assert.Equal(t, []int{0, 1, 2, 3}, clone.Values())
}
