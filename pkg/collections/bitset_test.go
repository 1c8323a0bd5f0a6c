package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitsetSetTestClear(t *testing.T) {
	b := NewBitset(128)
	assert.False(t, b.Test(5))

	b.Set(5)
	b.Set(64)
	b.Set(127)
	assert.True(t, b.Test(5))
	assert.True(t, b.Test(64))
	assert.True(t, b.Test(127))
	assert.Equal(t, 3, b.Count())

	b.Clear(64)
	assert.False(t, b.Test(64))
	assert.Equal(t, 2, b.Count())

	// Out-of-range queries are safe.
	assert.False(t, b.Test(-1))
	assert.False(t, b.Test(100000))
	b.Clear(-1)
}

func TestBitsetGrow(t *testing.T) {
	b := NewBitset(8)
	b.Set(500)
	assert.True(t, b.Test(500))
	assert.Equal(t, 501, b.Size())
}

func TestBitsetSetAllClearAll(t *testing.T) {
	b := NewBitset(70)
	b.SetAll()
	assert.True(t, b.Test(0))
	assert.True(t, b.Test(69))
	b.ClearAll()
	assert.Equal(t, 0, b.Count())
}

func TestBitsetAndNot(t *testing.T) {
	undecided := NewBitset(10)
	for i := 0; i < 10; i++ {
		undecided.Set(i)
	}
	decided := NewBitset(10)
	decided.Set(3)
	decided.Set(7)

	undecided.AndNot(decided)
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6, 8, 9}, undecided.ToSlice())
}

func TestBitsetOrClone(t *testing.T) {
	a := NewBitset(10)
	a.Set(1)
	b := NewBitset(10)
	b.Set(8)

	c := a.Clone()
	c.Or(b)
	assert.Equal(t, []int{1, 8}, c.ToSlice())
	assert.Equal(t, []int{1}, a.ToSlice())
}

func TestBitsetIterateEarlyStop(t *testing.T) {
	b := NewBitset(100)
	b.Set(2)
	b.Set(40)
	b.Set(90)

	var seen []int
	b.Iterate(func(i int) bool {
		seen = append(seen, i)
		return len(seen) < 2
	})
	assert.Equal(t, []int{2, 40}, seen)
}

func BenchmarkBitsetSetTest(b *testing.B) {
	bs := NewBitset(1 << 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := i & ((1 << 20) - 1)
		bs.Set(idx)
		_ = bs.Test(idx)
	}
}
