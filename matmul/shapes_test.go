package matmul_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/matmul"
)

func TestInferShapesPlainMatrices(t *testing.T) {
	a := dim.NewShape(dim.Const(2), dim.Const(3))
	b := dim.NewShape(dim.Const(3), dim.Const(1))
	sr, err := matmul.InferShapes(a, b, matmul.Flags{})
	require.NoError(t, err)
	assert.True(t, sr.FinalC.Equal(dim.NewShape(dim.Const(2), dim.Const(1))))
	assert.Equal(t, int64(2), mustConst(t, sr.M))
	assert.Equal(t, int64(3), mustConst(t, sr.K))
	assert.Equal(t, int64(1), mustConst(t, sr.N))
}

func TestInferShapesAllTransposedSwappedOperands(t *testing.T) {
	// B'=[[0],[1],[2]] (3,1), A'=[[0,1,2],[3,4,5]] (2,3), all transposed.
	aPrime := dim.NewShape(dim.Const(3), dim.Const(1))
	bPrime := dim.NewShape(dim.Const(2), dim.Const(3))
	sr, err := matmul.InferShapes(aPrime, bPrime, matmul.Flags{ATranspose: true, BTranspose: true, CTranspose: true})
	require.NoError(t, err)
	assert.True(t, sr.FinalC.Equal(dim.NewShape(dim.Const(2), dim.Const(1))))
}

func TestInferShapesBroadcastPrefix(t *testing.T) {
	a := dim.NewShape(dim.Const(2), dim.Const(1), dim.Const(3), dim.Const(4))
	b := dim.NewShape(dim.Const(1), dim.Const(5), dim.Const(4), dim.Const(6))
	sr, err := matmul.InferShapes(a, b, matmul.Flags{})
	require.NoError(t, err)
	want := dim.NewShape(dim.Const(2), dim.Const(5), dim.Const(3), dim.Const(6))
	assert.True(t, sr.FinalC.Equal(want), "got %s want %s", sr.FinalC, want)
}

func TestInferShapesContractionMismatch(t *testing.T) {
	a := dim.NewShape(dim.Const(2), dim.Const(3))
	b := dim.NewShape(dim.Const(4), dim.Const(1))
	_, err := matmul.InferShapes(a, b, matmul.Flags{})
	assert.ErrorIs(t, err, matmul.ErrContractionMismatch)
}

func TestInferShapesRankZeroRejected(t *testing.T) {
	_, err := matmul.InferShapes(dim.NewShape(), dim.NewShape(dim.Const(1), dim.Const(1)), matmul.Flags{})
	assert.ErrorIs(t, err, matmul.ErrRankMismatch)
}

func TestInferShapesImplicitVectorAxis(t *testing.T) {
	a := dim.NewShape(dim.Const(3))
	b := dim.NewShape(dim.Const(3), dim.Const(4))
	sr, err := matmul.InferShapes(a, b, matmul.Flags{})
	require.NoError(t, err)
	assert.True(t, sr.ImplicitM)
	assert.True(t, sr.FinalC.Equal(dim.NewShape(dim.Const(4))))
}

func mustConst(t *testing.T, d dim.Dim) int64 {
	t.Helper()
	v, ok := d.IsConst()
	require.True(t, ok)

	return v
}
