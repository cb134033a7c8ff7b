package dim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/dim"
)

func shapeOf(vals ...int64) dim.Shape {
	ds := make([]dim.Dim, len(vals))
	for i, v := range vals {
		ds[i] = dim.Const(v)
	}

	return dim.NewShape(ds...)
}

func TestBroadcastCompatibleSameRank(t *testing.T) {
	a := shapeOf(2, 1, 4)
	b := shapeOf(2, 5, 4)
	assert.True(t, dim.BroadcastCompatible(a, b))

	out, err := dim.Broadcast(a, b)
	require.NoError(t, err)
	got, err := out.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 4}, got)
}

func TestBroadcastIncompatible(t *testing.T) {
	a := shapeOf(2, 3)
	b := shapeOf(2, 5)
	assert.False(t, dim.BroadcastCompatible(a, b))
	_, err := dim.Broadcast(a, b)
	assert.ErrorIs(t, err, dim.ErrNotBroadcastCompatible)
}

func TestBroadcastRankMismatch(t *testing.T) {
	a := shapeOf(5, 1, 3, 1)
	b := shapeOf(1, 6)
	out, err := dim.Broadcast(a, b)
	require.NoError(t, err)
	got, err := out.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 1, 3, 6}, got)
}

func TestPrependOnes(t *testing.T) {
	s := shapeOf(4, 5)
	out := dim.PrependOnes(s, 2)
	got, err := out.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1, 4, 5}, got)
}

func TestInsertRemoveAt(t *testing.T) {
	s := shapeOf(4, 5)
	withAxis := dim.InsertAt(s, 1, dim.Const(1))
	got, err := withAxis.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 1, 5}, got)

	back := dim.RemoveAt(withAxis, 1)
	assert.True(t, back.Equal(s))
}

func TestShapeEqual(t *testing.T) {
	a := shapeOf(1, 2, 3)
	b := shapeOf(1, 2, 3)
	c := shapeOf(1, 2, 4)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
