package graph

import (
	"strconv"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/tensor"
)

// Fact is the static description of a wire's contents: element type, shape,
// and optional constant value, in one of three states of completeness
// (spec.md §3). A zero-value nil Fact is never valid; every outlet carries
// one of the three concrete variants below.
type Fact interface {
	isFact()

	// String renders a short human-readable form, used in error context
	// (spec.md §7: "full context — operator name, node id, operand facts").
	String() string
}

// OptionalType is a DatumType that may or may not be known yet.
type OptionalType struct {
	Type  tensor.DatumType
	Known bool
}

// OptionalRank is a rank that may or may not be known yet.
type OptionalRank struct {
	Rank  int
	Known bool
}

// OptionalDim is a single axis dim that may or may not be known yet. An
// InferenceFact's shape is a slice of these once rank is known; before rank
// is known the slice is nil.
type OptionalDim struct {
	Dim   dim.Dim
	Known bool
}

// InferenceFact is a partially-known Fact: type, rank, and each dim are
// independently known-or-not, as an importer incrementally discovers them
// (spec.md §3).
type InferenceFact struct {
	Type  OptionalType
	Rank  OptionalRank
	Dims  []OptionalDim // len == Rank.Rank once Rank.Known, else nil
	Value *tensor.Tensor
}

func (InferenceFact) isFact() {}

// String implements Fact.
func (f InferenceFact) String() string {
	t := "?"
	if f.Type.Known {
		t = f.Type.Type.String()
	}
	if !f.Rank.Known {
		return t + "[rank?]"
	}
	s := t + "["
	for i, d := range f.Dims {
		if i > 0 {
			s += ","
		}
		if d.Known {
			s += d.Dim.String()
		} else {
			s += "?"
		}
	}

	return s + "]"
}

// TypedFact is a fully-known Fact: concrete type and rank, each dim
// symbolic (possibly an unresolved streaming Sym), and an optional constant
// value (spec.md §3).
type TypedFact struct {
	Type  tensor.DatumType
	Shape dim.Shape
	Value *tensor.Tensor
}

func (TypedFact) isFact() {}

// String implements Fact.
func (f TypedFact) String() string {
	s := f.Type.String() + f.Shape.String()
	if f.Value != nil {
		s += "=const"
	}

	return s
}

// IsConst reports whether f carries a known constant value.
func (f TypedFact) IsConst() bool { return f.Value != nil }

// PulsedFact is a TypedFact annotated with a designated streaming axis, a
// fixed pulse width, and a non-negative delay (spec.md §3, §4.5).
type PulsedFact struct {
	TypedFact
	Axis  int
	Pulse int64
	Delay int64
}

func (PulsedFact) isFact() {}

// String implements Fact.
func (f PulsedFact) String() string {
	return f.TypedFact.String() + pulseSuffix(f.Axis, f.Pulse, f.Delay)
}

func pulseSuffix(axis int, pulse, delay int64) string {
	return "@axis" + strconv.Itoa(axis) + "/pulse" + strconv.FormatInt(pulse, 10) + "/delay" + strconv.FormatInt(delay, 10)
}
