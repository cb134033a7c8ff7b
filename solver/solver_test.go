package solver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/solver"
)

func eqInt(a, b int) bool { return a == b }

func TestBindAndValue(t *testing.T) {
	v := solver.NewVar(eqInt)
	assert.False(t, v.Known())
	require.NoError(t, v.Bind(3))
	val, ok := v.Value()
	assert.True(t, ok)
	assert.Equal(t, 3, val)
}

func TestBindContradiction(t *testing.T) {
	v := solver.KnownVar(3, eqInt)
	err := v.Bind(4)
	assert.ErrorIs(t, err, solver.ErrContradiction)
}

func TestEqualsPropagatesKnownToUnknown(t *testing.T) {
	a := solver.KnownVar(5, eqInt)
	b := solver.NewVar(eqInt)
	require.NoError(t, solver.Equals(a, b))
	val, ok := b.Value()
	assert.True(t, ok)
	assert.Equal(t, 5, val)

	// Binding a further now also affects b since they share a cell.
	require.NoError(t, a.Bind(5))
	require.NoError(t, b.Bind(5))
}

func TestEqualsContradiction(t *testing.T) {
	a := solver.KnownVar(5, eqInt)
	b := solver.KnownVar(6, eqInt)
	err := solver.Equals(a, b)
	assert.ErrorIs(t, err, solver.ErrContradiction)
}

func TestGivenFiresWhenKnown(t *testing.T) {
	s := solver.New()
	v := solver.NewVar(eqInt)
	fired := false
	solver.Given(s, v, func(val int) error {
		fired = true
		assert.Equal(t, 7, val)

		return nil
	})
	require.NoError(t, v.Bind(7))
	require.NoError(t, s.Run())
	assert.True(t, fired)
}

func TestRunStallsOnUnboundClause(t *testing.T) {
	s := solver.New()
	v := solver.NewVar(eqInt)
	solver.Given(s, v, func(int) error { return nil })
	err := s.Run()
	assert.ErrorIs(t, err, solver.ErrStalled)
}

func TestChainedGivensFireInOnePass(t *testing.T) {
	s := solver.New()
	a := solver.NewVar(eqInt)
	b := solver.NewVar(eqInt)
	solver.Given(s, a, func(val int) error {
		return b.Bind(val + 1)
	})
	order := 0
	solver.Given(s, b, func(val int) error {
		order++
		assert.Equal(t, 8, val)

		return nil
	})
	require.NoError(t, a.Bind(7))
	require.NoError(t, s.Run())
	assert.Equal(t, 1, order)
}
