package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/matmul/kernel"
)

func TestFloatKernelMatMul(t *testing.T) {
	k := kernel.Float[float64]{}
	a := k.APack([]float64{0, 1, 2, 3, 4, 5}, 2, 3, 3)
	b := k.BPack([]float64{0, 1, 2}, 3, 1, 1)
	c := make([]float64, 2)
	err := k.CFromDataAndStrides(a, b, c, 2, 1, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 14}, c)
}

func TestFloatKernelVectorPath(t *testing.T) {
	k := kernel.Float[float64]{}
	a := []float64{0, 1, 2, 3, 4, 5}
	b := []float64{0, 1, 2}
	c := make([]float64, 2)
	err := k.CVecFromDataAndStride(a, b, c, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 14}, c)
}

func TestFloatKernelRejectsBadDims(t *testing.T) {
	k := kernel.Float[float64]{}
	err := k.CFromDataAndStrides(nil, nil, nil, 0, 1, 1, 1)
	assert.ErrorIs(t, err, kernel.ErrBadDims)
}
