package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/tensor"
)

func shapeOf(vals ...int64) dim.Shape {
	ds := make([]dim.Dim, len(vals))
	for i, v := range vals {
		ds[i] = dim.Const(v)
	}

	return dim.NewShape(ds...)
}

func TestNewTensorShapeMismatch(t *testing.T) {
	_, err := tensor.New(tensor.F32, shapeOf(2, 2), []float64{1, 2, 3})
	assert.ErrorIs(t, err, tensor.ErrShapeSizeMismatch)
}

func TestNewTensorOK(t *testing.T) {
	ts, err := tensor.New(tensor.F32, shapeOf(2, 2), []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, tensor.F32, ts.DatumType())
	assert.Equal(t, []float64{1, 2, 3, 4}, ts.Data())
}

func TestTensorDataCopiedNotAliased(t *testing.T) {
	src := []float64{1, 2, 3, 4}
	ts, err := tensor.New(tensor.F32, shapeOf(2, 2), src)
	require.NoError(t, err)
	src[0] = 99
	assert.Equal(t, float64(1), ts.Data()[0])
}

func TestTensorRefCounting(t *testing.T) {
	ts, err := tensor.New(tensor.F32, shapeOf(1), []float64{1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ts.RefCount())

	ts.Retain()
	assert.Equal(t, int64(2), ts.RefCount())

	assert.False(t, ts.Release())
	assert.True(t, ts.Release())
}

func TestDatumTypeByteWidth(t *testing.T) {
	w, err := tensor.F64.ByteWidth()
	require.NoError(t, err)
	assert.Equal(t, 8, w)

	_, err = tensor.DatumType(255).ByteWidth()
	assert.ErrorIs(t, err, tensor.ErrUnknownDatumType)
}
