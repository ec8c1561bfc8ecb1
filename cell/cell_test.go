package cell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kolkov/refcell/cell"
)

// TestCell_SetGet covers the set-then-get sequence 0 -> 7 -> 9.
func TestCell_SetGet(t *testing.T) {
	c := cell.New(0)
	assert.Equal(t, 0, c.Get())

	c.Set(7)
	assert.Equal(t, 7, c.Get())

	c.Set(9)
	assert.Equal(t, 9, c.Get())
}

// TestCell_RoundTrip checks that Get returns exactly what Set stored.
func TestCell_RoundTrip(t *testing.T) {
	type point struct{ X, Y int }

	t.Run("int", func(t *testing.T) {
		c := cell.New(0)
		for _, v := range []int{0, 1, -1, 1 << 62, -(1 << 62)} {
			c.Set(v)
			assert.Equal(t, v, c.Get())
		}
	})
	t.Run("string", func(t *testing.T) {
		c := cell.New("")
		for _, v := range []string{"", "a", "héllo", "line\nbreak"} {
			c.Set(v)
			assert.Equal(t, v, c.Get())
		}
	})
	t.Run("struct", func(t *testing.T) {
		c := cell.New(point{})
		for _, v := range []point{{1, 2}, {-3, 4}, {}} {
			c.Set(v)
			assert.Equal(t, v, c.Get())
		}
	})
}

// TestCell_GetCopies checks that Get hands out a copy, not a view.
func TestCell_GetCopies(t *testing.T) {
	c := cell.New([2]int{1, 2})
	v := c.Get()
	v[0] = 100
	assert.Equal(t, [2]int{1, 2}, c.Get())
}

func TestCell_Zero(t *testing.T) {
	var c cell.Cell[string]
	assert.Equal(t, "", c.Get())
	c.Set("set")
	assert.Equal(t, "set", c.Get())
}

func TestCell_Replace(t *testing.T) {
	c := cell.New("a")
	assert.Equal(t, "a", c.Replace("b"))
	assert.Equal(t, "b", c.Get())
}

func TestCell_Take(t *testing.T) {
	c := cell.New(5)
	assert.Equal(t, 5, c.Take())
	assert.Equal(t, 0, c.Get())
}

func TestCell_Update(t *testing.T) {
	c := cell.New(2)
	assert.Equal(t, 6, c.Update(func(v int) int { return v * 3 }))
	assert.Equal(t, 6, c.Get())
}

func TestCell_Swap(t *testing.T) {
	a, b := cell.New(1), cell.New(2)
	a.Swap(b)
	assert.Equal(t, 2, a.Get())
	assert.Equal(t, 1, b.Get())

	a.Swap(a)
	assert.Equal(t, 2, a.Get())
}
