package dim

import "strings"

// Shape is an ordered sequence of Dims. Rank is its length.
type Shape struct {
	dims []Dim
}

// NewShape builds a Shape from the given dims, in order.
func NewShape(dims ...Dim) Shape {
	cp := make([]Dim, len(dims))
	copy(cp, dims)

	return Shape{dims: cp}
}

// Rank returns the number of axes.
func (s Shape) Rank() int { return len(s.dims) }

// Dim returns the axis-th dim. Panics if axis is out of range — callers are
// expected to check Rank first, mirroring the teacher's indexOf contract
// applied at the public At()/Set() boundary rather than internally.
func (s Shape) Dim(axis int) Dim { return s.dims[axis] }

// Dims returns a defensive copy of the underlying dim slice.
func (s Shape) Dims() []Dim {
	cp := make([]Dim, len(s.dims))
	copy(cp, s.dims)

	return cp
}

// Eval resolves every dim to a concrete integer under binding.
func (s Shape) Eval(binding map[string]int64) ([]int64, error) {
	out := make([]int64, len(s.dims))
	for i, d := range s.dims {
		v, err := d.Eval(binding)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// Equal reports structural equality, axis by axis.
func (s Shape) Equal(o Shape) bool {
	if len(s.dims) != len(o.dims) {
		return false
	}
	for i := range s.dims {
		if !s.dims[i].Equal(o.dims[i]) {
			return false
		}
	}

	return true
}

// String renders the shape as "[d0,d1,...]".
func (s Shape) String() string {
	parts := make([]string, len(s.dims))
	for i, d := range s.dims {
		parts[i] = d.String()
	}

	return "[" + strings.Join(parts, ",") + "]"
}

// BroadcastCompatible reports whether a and b are broadcast-compatible:
// right-aligned, every pair of dims is either equal or one side is 1
// (spec.md §3). Symbolic dims that are neither equal nor decidably 1 make
// that axis pair undecided, which this function treats as incompatible —
// callers needing a permissive mode should check IsOne explicitly before
// calling.
func BroadcastCompatible(a, b Shape) bool {
	_, err := Broadcast(a, b)

	return err == nil
}

// Broadcast computes the right-aligned broadcast of a and b, and returns
// ErrNotBroadcastCompatible if any aligned pair disagrees (and neither side
// is the constant 1).
func Broadcast(a, b Shape) (Shape, error) {
	ra, rb := a.Rank(), b.Rank()
	rank := ra
	if rb > rank {
		rank = rb
	}
	out := make([]Dim, rank)
	for i := 0; i < rank; i++ {
		// Right-align: axis i (from the left of `out`) corresponds to
		// a.dims[ia] and b.dims[ib], where indices count from the end.
		ia := ra - rank + i
		ib := rb - rank + i

		var da, db Dim
		haveA, haveB := ia >= 0, ib >= 0
		if haveA {
			da = a.dims[ia]
		}
		if haveB {
			db = b.dims[ib]
		}

		switch {
		case haveA && haveB:
			d, err := broadcastPair(da, db)
			if err != nil {
				return Shape{}, err
			}
			out[i] = d
		case haveA:
			out[i] = da
		case haveB:
			out[i] = db
		}
	}

	return NewShape(out...), nil
}

func broadcastPair(a, b Dim) (Dim, error) {
	if a.Equal(b) {
		return a, nil
	}
	if a.IsOne() {
		return b, nil
	}
	if b.IsOne() {
		return a, nil
	}

	return Dim{}, ErrNotBroadcastCompatible
}

// PrependOnes returns a copy of s with n length-1 axes inserted at the front
// — the left-padding step used by MatMul's shape contract (spec.md §4.4
// step 2).
func PrependOnes(s Shape, n int) Shape {
	if n <= 0 {
		return s
	}
	out := make([]Dim, 0, n+s.Rank())
	for i := 0; i < n; i++ {
		out = append(out, Const(1))
	}
	out = append(out, s.dims...)

	return NewShape(out...)
}

// InsertAt returns a copy of s with d inserted at position axis.
func InsertAt(s Shape, axis int, d Dim) Shape {
	out := make([]Dim, 0, s.Rank()+1)
	out = append(out, s.dims[:axis]...)
	out = append(out, d)
	out = append(out, s.dims[axis:]...)

	return NewShape(out...)
}

// RemoveAt returns a copy of s with the axis-th dim removed.
func RemoveAt(s Shape, axis int) Shape {
	out := make([]Dim, 0, s.Rank()-1)
	out = append(out, s.dims[:axis]...)
	out = append(out, s.dims[axis+1:]...)

	return NewShape(out...)
}
