package tensor

import (
	"fmt"
	"sync/atomic"

	"github.com/katalvlaran/tengraph/dim"
)

// Tensor is an immutable (DatumType, Shape, contiguous data buffer) value
// (spec.md §3). Once built, a Tensor's data is never mutated in place —
// operators that need a changed tensor always allocate a new one, the same
// write-once discipline the teacher's matrix.Dense applies per-cell via
// Set before data escapes to a consumer.
//
// Constant tensors shared across a Model (e.g. a folded weight matrix reused
// by several MatMulUnary nodes after declutter) carry a reference count
// managed through Retain/Release. Nothing in the graph package calls them:
// a Patch's garbage collection drops nodes without releasing their tensors.
type Tensor struct {
	dtype DatumType
	shape dim.Shape   // concrete dims only: a Tensor never carries symbolic dims
	data  []float64   // flat, row-major; every DatumType is stored widened to float64
	refs  *atomic.Int64
}

// New builds a Tensor of the given type and shape from data, which must
// already be row-major and exactly shape.Rank()-dimensional in length
// (product of the evaluated shape). Every dim must be a known constant.
func New(dtype DatumType, shape dim.Shape, data []float64) (*Tensor, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("tensor.New: %w: %v", ErrUnknownDatumType, dtype)
	}
	dims, err := shape.Eval(nil)
	if err != nil {
		return nil, fmt.Errorf("tensor.New: shape has unresolved dims: %w", err)
	}
	want := int64(1)
	for _, d := range dims {
		want *= d
	}
	if want != int64(len(data)) {
		return nil, fmt.Errorf("tensor.New: %w: want %d got %d", ErrShapeSizeMismatch, want, len(data))
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	refs := &atomic.Int64{}
	refs.Store(1)

	return &Tensor{dtype: dtype, shape: shape, data: cp, refs: refs}, nil
}

// DatumType returns the tensor's element type.
func (t *Tensor) DatumType() DatumType { return t.dtype }

// Shape returns the tensor's concrete shape.
func (t *Tensor) Shape() dim.Shape { return t.shape }

// Data returns the flat row-major backing buffer. Callers must not mutate
// the returned slice — Tensor is shared by reference once constructed.
func (t *Tensor) Data() []float64 { return t.data }

// Retain increments the shared reference count and returns t, so call sites
// can write `kept := src.Retain()` when stashing a constant into a new node.
func (t *Tensor) Retain() *Tensor {
	t.refs.Add(1)

	return t
}

// Release decrements the shared reference count and reports whether this
// was the last reference (in which case the caller's copy was the only
// owner and the backing buffer may be dropped).
func (t *Tensor) Release() bool {
	return t.refs.Add(-1) == 0
}

// RefCount reports the current reference count, for tests and diagnostics.
func (t *Tensor) RefCount() int64 { return t.refs.Load() }

// AtFlat returns the value at the given row-major flat offset, widened to
// float64 regardless of DatumType (the abstract graph model treats all
// element types as evaluable in float64 precision; real kernels in
// matmul/kernel work in their native width — see DESIGN.md).
func (t *Tensor) AtFlat(i int) float64 { return t.data[i] }
