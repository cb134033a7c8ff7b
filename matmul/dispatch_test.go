package matmul_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/matmul"
	"github.com/katalvlaran/tengraph/matmul/quantparams"
	"github.com/katalvlaran/tengraph/tensor"
)

func TestDispatchPlainFloat(t *testing.T) {
	name, err := matmul.Dispatch(tensor.F32, tensor.F32, tensor.F32)
	require.NoError(t, err)
	assert.Equal(t, "Smmm", name)
}

func TestDispatchQuantizedFamilies(t *testing.T) {
	name, err := matmul.Dispatch(tensor.I8, tensor.I8, tensor.I8)
	require.NoError(t, err)
	assert.Equal(t, "QmmmI8I8", name)

	name, err = matmul.Dispatch(tensor.U8, tensor.U8, tensor.U8)
	require.NoError(t, err)
	assert.Equal(t, "QmmmU8U8", name)
}

func TestDispatchQuantizedI32AccumulatorTriples(t *testing.T) {
	name, err := matmul.Dispatch(tensor.I8, tensor.I8, tensor.I32)
	require.NoError(t, err)
	assert.Equal(t, "QmmmI8I32", name)

	name, err = matmul.Dispatch(tensor.U8, tensor.U8, tensor.I32)
	require.NoError(t, err)
	assert.Equal(t, "QmmmU8I32", name)

	name, err = matmul.Dispatch(tensor.U8, tensor.U8, tensor.I8)
	require.NoError(t, err)
	assert.Equal(t, "QmmmU8I32", name)
}

func TestDispatchNoKernel(t *testing.T) {
	_, err := matmul.Dispatch(tensor.I8, tensor.F32, tensor.F32)
	assert.ErrorIs(t, err, matmul.ErrNoKernel)
}

func TestQmmmI8I32RoundTrip(t *testing.T) {
	k := matmul.QmmmI8I32()
	k.SetQuantParams(quantparams.Params{ClampMin: -128, ClampMax: 127, PerChannelMultiplier: []float64{1}})
	a := []int8{1, 2}
	b := []int8{3, 4}
	c := make([]int8, 1)
	err := k.CFromDataAndStrides(a, b, c, 1, 1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int8(11), c[0])
}
