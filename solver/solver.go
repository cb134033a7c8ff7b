package solver

// varCell is the shared mutable cell behind a Var. Two Vars that have been
// unified via Equals point at the same cell, so binding either one binds
// both — a minimal union-find without ranking, sufficient for the small,
// short-lived constraint sets a single operator's Declare call builds.
type varCell[T any] struct {
	known bool
	val   T
	equal func(a, b T) bool
}

// Var is a solver variable over values of type T: a datum type, a rank, a
// single Dim, or a whole Shape, depending on what the calling operator is
// constraining.
type Var[T any] struct {
	cell *varCell[T]
}

// NewVar returns a fresh, unknown Var using equal to decide whether two
// bound values agree.
func NewVar[T any](equal func(a, b T) bool) *Var[T] {
	return &Var[T]{cell: &varCell[T]{equal: equal}}
}

// KnownVar returns a Var already bound to val.
func KnownVar[T any](val T, equal func(a, b T) bool) *Var[T] {
	return &Var[T]{cell: &varCell[T]{known: true, val: val, equal: equal}}
}

// Known reports whether v currently holds a value.
func (v *Var[T]) Known() bool { return v.cell.known }

// Value returns v's bound value and whether it is known.
func (v *Var[T]) Value() (T, bool) { return v.cell.val, v.cell.known }

// Bind assigns val to v. If v is already known, the new value must agree
// with the existing one (per equal) or ErrContradiction is returned.
func (v *Var[T]) Bind(val T) error {
	if v.cell.known {
		if !v.cell.equal(v.cell.val, val) {
			return ErrContradiction
		}

		return nil
	}
	v.cell.known = true
	v.cell.val = val

	return nil
}

// Equals unifies a and b: from this call onward they share one cell, so
// binding either binds both. If both are already known to different values,
// ErrContradiction is returned and neither is modified.
func Equals[T any](a, b *Var[T]) error {
	if a.cell == b.cell {
		return nil
	}
	aKnown, bKnown := a.cell.known, b.cell.known
	switch {
	case aKnown && bKnown:
		if !a.cell.equal(a.cell.val, b.cell.val) {
			return ErrContradiction
		}
		b.cell = a.cell
	case aKnown:
		b.cell = a.cell
	default:
		// Covers bKnown-only and neither-known: a adopts b's cell, which is
		// already known in the bKnown case and unknown-but-shared otherwise.
		a.cell = b.cell
	}

	return nil
}

// pendingGiven is one registered given(x, closure) clause.
type pendingGiven struct {
	ready func() bool
	fire  func() error
	fired bool
}

// Solver accumulates given() clauses declared by one operator's Declare
// call and drives them to a fixed point: repeated passes applying
// newly-satisfiable clauses until a full pass makes no further progress.
// Termination is guaranteed because each clause fires at most once, so every
// pass that continues the loop has fired at least one new clause.
type Solver struct {
	pending []*pendingGiven
}

// New returns an empty Solver.
func New() *Solver {
	return &Solver{}
}

// Given registers fn to run exactly once, as soon as v becomes known.
func Given[T any](s *Solver, v *Var[T], fn func(T) error) {
	s.pending = append(s.pending, &pendingGiven{
		ready: func() bool { return v.Known() },
		fire: func() error {
			val, _ := v.Value()

			return fn(val)
		},
	})
}

// Run drives all registered given() clauses to a fixed point. Returns
// ErrStalled if clauses remain whose variable never became known (the
// operator's required outputs stay unbound); returns the clause's own error
// immediately if one fires and fails.
func (s *Solver) Run() error {
	for {
		progress := false
		for _, p := range s.pending {
			if p.fired || !p.ready() {
				continue
			}
			if err := p.fire(); err != nil {
				return err
			}
			p.fired = true
			progress = true
		}
		if !progress {
			break
		}
	}
	for _, p := range s.pending {
		if !p.fired {
			return ErrStalled
		}
	}

	return nil
}
