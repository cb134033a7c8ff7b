package dim

import (
	"fmt"
	"sort"
	"strings"

	"modernc.org/mathutil"
)

// kind discriminates the node types of a Dim expression tree.
type kind int

const (
	kConst kind = iota
	kSym
	kAdd
	kMul
	kMin
	kMax
	kDiv
	kMod
)

// Dim is a symbolic non-negative integer expression: a constant, a named
// streaming variable, or an arithmetic combination of other Dims. Dim values
// are immutable once constructed; every constructor returns a normalized
// form so that structurally equal expressions compare equal via Equal.
type Dim struct {
	kind kind
	val  int64  // kConst
	sym  string // kSym
	args []Dim  // kAdd, kMul, kMin, kMax (commutative, normalized, sorted)
	a, b *Dim   // kDiv, kMod (non-commutative)
}

// Const returns a Dim holding the fixed non-negative integer v.
func Const(v int64) Dim {
	return Dim{kind: kConst, val: v}
}

// Sym returns a Dim referencing a named streaming variable, bound later via
// Eval.
func Sym(name string) Dim {
	return Dim{kind: kSym, sym: name}
}

// IsConst reports whether d is a fully-known constant and returns its value.
func (d Dim) IsConst() (int64, bool) {
	if d.kind == kConst {
		return d.val, true
	}

	return 0, false
}

// IsOne reports whether d is the constant 1 (used pervasively by broadcast
// and by AxisInfo's "disposable" check).
func (d Dim) IsOne() bool {
	v, ok := d.IsConst()

	return ok && v == 1
}

// Add returns the normalized sum of the given dims: nested Adds are
// flattened, constant terms are folded into one, and the remaining symbolic
// terms are sorted by their canonical string so that a+b and b+a normalize
// to the same tree.
func Add(ds ...Dim) Dim {
	return foldCommutative(kAdd, ds, func(a, b int64) int64 { return a + b }, 0)
}

// Mul returns the normalized product of the given dims.
func Mul(ds ...Dim) Dim {
	return foldCommutative(kMul, ds, func(a, b int64) int64 { return a * b }, 1)
}

// Min returns the normalized minimum of the given dims.
func Min(ds ...Dim) Dim {
	return foldCommutative(kMin, ds, minInt64, 0)
}

// Max returns the normalized maximum of the given dims.
func Max(ds ...Dim) Dim {
	return foldCommutative(kMax, ds, maxInt64, 0)
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}

	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}

	return b
}

// foldCommutative flattens nested nodes of the same kind, combines constant
// operands with combine, and sorts the remaining symbolic operands
// canonically. identity is the fold's identity element (0 for Add/Min/Max
// acting as "no constant seen yet" sentinel is handled separately; for Mul it
// lets an all-constant fold start from 1).
func foldCommutative(k kind, ds []Dim, combine func(a, b int64) int64, identity int64) Dim {
	var terms []Dim
	haveConst := false
	constAcc := identity

	var flatten func(d Dim)
	flatten = func(d Dim) {
		if d.kind == k {
			for _, sub := range d.args {
				flatten(sub)
			}

			return
		}
		if v, ok := d.IsConst(); ok {
			if !haveConst {
				constAcc = v
				haveConst = true
			} else {
				constAcc = combine(constAcc, v)
			}

			return
		}
		terms = append(terms, d)
	}
	for _, d := range ds {
		flatten(d)
	}

	if haveConst {
		// Skip appending the identity constant when there are symbolic terms,
		// e.g. Add(x, 0) normalizes to x, Mul(x, 1) normalizes to x.
		skip := len(terms) > 0 && constAcc == identity && (k == kAdd || k == kMul)
		if !skip {
			terms = append(terms, Const(constAcc))
		}
	}
	if len(terms) == 0 {
		return Const(identity)
	}
	if len(terms) == 1 {
		return terms[0]
	}

	sort.Slice(terms, func(i, j int) bool { return terms[i].String() < terms[j].String() })

	return Dim{kind: k, args: terms}
}

// Div returns the floor-division quotient a÷b as a Dim. When both operands
// are constant, the quotient is folded immediately; a zero constant divisor
// is rejected at evaluation time via ErrDivisionByZero, not here, since b may
// be symbolic.
func Div(a, b Dim) Dim {
	if av, ok := a.IsConst(); ok {
		if bv, ok2 := b.IsConst(); ok2 && bv != 0 {
			return Const(av / bv)
		}
	}

	return Dim{kind: kDiv, a: &a, b: &b}
}

// Mod returns the remainder of a÷b as a Dim, folding when both sides are
// constant.
func Mod(a, b Dim) Dim {
	if av, ok := a.IsConst(); ok {
		if bv, ok2 := b.IsConst(); ok2 && bv != 0 {
			return Const(av % bv)
		}
	}

	return Dim{kind: kMod, a: &a, b: &b}
}

// Gcd returns the greatest common divisor of two constant dims, used by
// MatMulUnary.Invariants to compute a broadcast-prefix axis's AxisInfo period.
// Returns 0 and false if either operand is not a known constant.
func Gcd(a, b Dim) (int64, bool) {
	av, ok := a.IsConst()
	if !ok {
		return 0, false
	}
	bv, ok := b.IsConst()
	if !ok {
		return 0, false
	}

	return int64(mathutil.GCD(uint64(av), uint64(bv))), true
}

// Eval resolves d to a concrete non-negative integer under binding, which
// maps streaming-variable names to their current values. Returns
// ErrUnboundVariable if a referenced Sym has no entry, ErrDivisionByZero if a
// Div/Mod divisor evaluates to zero, and ErrNegativeDim if the result would
// be negative.
func (d Dim) Eval(binding map[string]int64) (int64, error) {
	switch d.kind {
	case kConst:
		return checkNonNegative(d.val)
	case kSym:
		v, ok := binding[d.sym]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnboundVariable, d.sym)
		}

		return checkNonNegative(v)
	case kAdd:
		acc := int64(0)
		for _, t := range d.args {
			v, err := t.Eval(binding)
			if err != nil {
				return 0, err
			}
			acc += v
		}

		return checkNonNegative(acc)
	case kMul:
		acc := int64(1)
		for _, t := range d.args {
			v, err := t.Eval(binding)
			if err != nil {
				return 0, err
			}
			acc *= v
		}

		return checkNonNegative(acc)
	case kMin, kMax:
		acc, err := d.args[0].Eval(binding)
		if err != nil {
			return 0, err
		}
		for _, t := range d.args[1:] {
			v, err := t.Eval(binding)
			if err != nil {
				return 0, err
			}
			if d.kind == kMin {
				acc = minInt64(acc, v)
			} else {
				acc = maxInt64(acc, v)
			}
		}

		return checkNonNegative(acc)
	case kDiv, kMod:
		av, err := d.a.Eval(binding)
		if err != nil {
			return 0, err
		}
		bv, err := d.b.Eval(binding)
		if err != nil {
			return 0, err
		}
		if bv == 0 {
			return 0, ErrDivisionByZero
		}
		if d.kind == kDiv {
			return checkNonNegative(av / bv)
		}

		return checkNonNegative(av % bv)
	default:
		return 0, fmt.Errorf("dim: unknown kind %d", d.kind)
	}
}

func checkNonNegative(v int64) (int64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeDim, v)
	}

	return v, nil
}

// Equal reports whether a and b are structurally identical after
// normalization (constructors already normalize, so this is a recursive
// field comparison).
func (d Dim) Equal(o Dim) bool {
	if d.kind != o.kind {
		return false
	}
	switch d.kind {
	case kConst:
		return d.val == o.val
	case kSym:
		return d.sym == o.sym
	case kAdd, kMul, kMin, kMax:
		if len(d.args) != len(o.args) {
			return false
		}
		for i := range d.args {
			if !d.args[i].Equal(o.args[i]) {
				return false
			}
		}

		return true
	case kDiv, kMod:
		return d.a.Equal(*o.a) && d.b.Equal(*o.b)
	default:
		return false
	}
}

// Compare returns -1, 0, or 1 if d and o are decidably ordered (both
// constant, or structurally equal), and ErrIncomparable otherwise —
// symbolic dims are only partially ordered.
func (d Dim) Compare(o Dim) (int, error) {
	if d.Equal(o) {
		return 0, nil
	}
	dv, dok := d.IsConst()
	ov, ook := o.IsConst()
	if dok && ook {
		switch {
		case dv < ov:
			return -1, nil
		case dv > ov:
			return 1, nil
		default:
			return 0, nil
		}
	}

	return 0, ErrIncomparable
}

// String renders d in a canonical textual form, used both for debugging and
// as the sort key that gives commutative folds a deterministic order.
func (d Dim) String() string {
	switch d.kind {
	case kConst:
		return fmt.Sprintf("%d", d.val)
	case kSym:
		return d.sym
	case kAdd:
		return joinArgs(d.args, "+")
	case kMul:
		return joinArgs(d.args, "*")
	case kMin:
		return "min(" + joinArgs(d.args, ",") + ")"
	case kMax:
		return "max(" + joinArgs(d.args, ",") + ")"
	case kDiv:
		return fmt.Sprintf("(%s/%s)", d.a, d.b)
	case kMod:
		return fmt.Sprintf("(%s%%%s)", d.a, d.b)
	default:
		return "?"
	}
}

func joinArgs(args []Dim, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}

	return strings.Join(parts, sep)
}
