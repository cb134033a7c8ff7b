package matmul

import (
	"fmt"

	"github.com/katalvlaran/tengraph/dim"
)

// Flags bundles the three transposition flags the shape and kernel
// contracts share (spec.md §4.4).
type Flags struct {
	ATranspose bool
	BTranspose bool
	CTranspose bool
}

// ShapeResult is the outcome of InferShapes: the broadcast-prefix-derived C
// shape actually produced by evaluation (before implicit-axis squeeze), the
// final (possibly squeezed) C shape, the (m, k, n) dims, and which implicit
// axis, if any, was inserted on each operand.
type ShapeResult struct {
	BroadcastC  dim.Shape
	FinalC      dim.Shape
	M, K, N     dim.Dim
	ImplicitM   bool
	ImplicitN   bool
}

// InferShapes implements the shape contract of spec.md §4.4: given operand
// shapes A and B and the transposition flags, it inserts implicit axes for
// rank<2 operands, left-pads to equal rank, broadcasts the leading
// prefixes, and derives (m, k, n) and the output shape.
func InferShapes(a, b dim.Shape, f Flags) (ShapeResult, error) {
	// Step 1: rank < 2 operands get an implicit length-1 axis so the
	// trailing-two-dims logic below always has something to work with.
	implicitM := false
	if a.Rank() < 2 {
		if a.Rank() == 0 {
			return ShapeResult{}, fmt.Errorf("A: %w", ErrRankMismatch)
		}
		pos := 0
		if f.ATranspose {
			pos = 1
		}
		a = dim.InsertAt(a, pos, dim.Const(1))
		implicitM = true
	}
	implicitN := false
	if b.Rank() < 2 {
		if b.Rank() == 0 {
			return ShapeResult{}, fmt.Errorf("B: %w", ErrRankMismatch)
		}
		pos := 0
		if !f.BTranspose {
			pos = 1
		}
		b = dim.InsertAt(b, pos, dim.Const(1))
		implicitN = true
	}

	// Step 2: left-pad the shorter operand with length-1 axes until ranks match.
	if a.Rank() < b.Rank() {
		a = dim.PrependOnes(a, b.Rank()-a.Rank())
	} else if b.Rank() < a.Rank() {
		b = dim.PrependOnes(b, a.Rank()-b.Rank())
	}

	// Step 3: broadcast the leading prefixes (everything but the trailing two axes).
	rank := a.Rank()
	prefixA := dim.NewShape(a.Dims()[:rank-2]...)
	prefixB := dim.NewShape(b.Dims()[:rank-2]...)
	prefix, err := dim.Broadcast(prefixA, prefixB)
	if err != nil {
		return ShapeResult{}, fmt.Errorf("%w: %w", ErrBroadcastPrefix, err)
	}

	// Step 4: trailing two dims, swapped per transpose flag; contraction
	// dims must agree.
	aTrail := a.Dims()[rank-2:]
	bTrail := b.Dims()[rank-2:]
	m, kA := aTrail[0], aTrail[1]
	if f.ATranspose {
		m, kA = aTrail[1], aTrail[0]
	}
	kB, n := bTrail[0], bTrail[1]
	if f.BTranspose {
		kB, n = bTrail[1], bTrail[0]
	}
	if !kA.Equal(kB) {
		return ShapeResult{}, fmt.Errorf("%w: %s vs %s", ErrContractionMismatch, kA, kB)
	}

	// Step 5: the broadcast C shape is prefix++[n,m] if c_t else prefix++[m,n].
	var broadcastC dim.Shape
	if f.CTranspose {
		broadcastC = appendDims(prefix, n, m)
	} else {
		broadcastC = appendDims(prefix, m, n)
	}

	finalC := broadcastC
	// The final C shape additionally drops the m or n axis if the
	// corresponding implicit flag was set. The dropped axis sits at the
	// same trailing position it was inserted at on the operand side.
	if implicitM {
		finalC = dropTrailingDim(finalC, f.CTranspose, true)
	}
	if implicitN {
		finalC = dropTrailingDim(finalC, f.CTranspose, false)
	}

	return ShapeResult{
		BroadcastC: broadcastC,
		FinalC:     finalC,
		M:          m,
		K:          kA,
		N:          n,
		ImplicitM:  implicitM,
		ImplicitN:  implicitN,
	}, nil
}

func appendDims(prefix dim.Shape, last ...dim.Dim) dim.Shape {
	all := append(prefix.Dims(), last...)

	return dim.NewShape(all...)
}

// dropTrailingDim removes the m-axis or n-axis from shape's trailing two
// dims, honoring whether C is transposed (so m and n may be in either
// trailing position).
func dropTrailingDim(shape dim.Shape, cTranspose, dropM bool) dim.Shape {
	rank := shape.Rank()
	// Non-transposed C: [..., m, n]; transposed: [..., n, m].
	mAxis, nAxis := rank-2, rank-1
	if cTranspose {
		mAxis, nAxis = rank-1, rank-2
	}
	axis := nAxis
	if dropM {
		axis = mAxis
	}

	return dim.RemoveAt(shape, axis)
}
