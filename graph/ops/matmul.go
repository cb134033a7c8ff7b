package ops

import (
	"fmt"

	"github.com/katalvlaran/tengraph/dim"
	"github.com/katalvlaran/tengraph/graph"
	"github.com/katalvlaran/tengraph/matmul"
	"github.com/katalvlaran/tengraph/solver"
	"github.com/katalvlaran/tengraph/tensor"
)

// MatMul is the batched, broadcasting, transpose-aware generalized matrix
// multiplication operator (spec.md §4.4). It delegates shape inference and
// evaluation to the matmul package's reference batched engine.
type MatMul struct {
	Flags matmul.Flags
}

func (MatMul) Name() string { return "MatMul" }
func (MatMul) Info() string { return "batched, broadcasting, transpose-aware matrix multiplication" }

func (m MatMul) Declare(s *solver.Solver, inputs, outputs []*graph.FactVars) error {
	if len(inputs) != 2 || len(outputs) != 1 {
		return ErrWrongInputCount
	}

	return solver.Equals(inputs[0].Type, outputs[0].Type)
}

func (m MatMul) InferTyped(inputs []graph.TypedFact) ([]graph.TypedFact, error) {
	if len(inputs) != 2 {
		return nil, ErrWrongInputCount
	}
	sr, err := matmul.InferShapes(inputs[0].Shape, inputs[1].Shape, m.Flags)
	if err != nil {
		return nil, err
	}

	return []graph.TypedFact{{Type: inputs[0].Type, Shape: sr.FinalC}}, nil
}

func (m MatMul) Eval(_ *graph.OpState, inputs []graph.EvalValue) ([]graph.EvalValue, error) {
	if len(inputs) != 2 {
		return nil, ErrWrongInputCount
	}
	out, err := matmul.EvalBatched(inputs[0].Tensor, inputs[1].Tensor, m.Flags)
	if err != nil {
		return nil, err
	}

	return []graph.EvalValue{{Tensor: out}}, nil
}

// Cost estimates the node's multiply-accumulate count via the matmul
// package's FMA cost model (spec.md §4.4, "Cost model").
func (m MatMul) Cost(inputs []graph.TypedFact) (int64, error) {
	if len(inputs) != 2 {
		return 0, ErrWrongInputCount
	}
	sr, err := matmul.InferShapes(inputs[0].Shape, inputs[1].Shape, m.Flags)
	if err != nil {
		return 0, err
	}

	return matmul.FMACost(sr)
}

// MatMulUnary is MatMul specialized to a constant second operand, produced
// by the codegen lowering pass. It carries the constant B together with a
// pre-packed copy in Packed; Eval reads B itself and does not use Packed.
type MatMulUnary struct {
	Flags  matmul.Flags
	B      *tensor.Tensor
	Packed matmul.Packed
}

func (MatMulUnary) Name() string { return "MatMulUnary" }
func (MatMulUnary) Info() string { return "matrix multiplication against a pre-packed constant" }

func (m MatMulUnary) Declare(s *solver.Solver, inputs, outputs []*graph.FactVars) error {
	if len(inputs) != 1 || len(outputs) != 1 {
		return ErrWrongInputCount
	}

	return solver.Equals(inputs[0].Type, outputs[0].Type)
}

func (m MatMulUnary) InferTyped(inputs []graph.TypedFact) ([]graph.TypedFact, error) {
	if len(inputs) != 1 {
		return nil, ErrWrongInputCount
	}
	sr, err := matmul.InferShapes(inputs[0].Shape, m.B.Shape(), m.Flags)
	if err != nil {
		return nil, err
	}

	return []graph.TypedFact{{Type: inputs[0].Type, Shape: sr.FinalC}}, nil
}

func (m MatMulUnary) Eval(_ *graph.OpState, inputs []graph.EvalValue) ([]graph.EvalValue, error) {
	if len(inputs) != 1 {
		return nil, ErrWrongInputCount
	}
	sr, err := matmul.InferShapes(inputs[0].Tensor.Shape(), m.B.Shape(), m.Flags)
	if err != nil {
		return nil, err
	}

	var out *tensor.Tensor
	if sr.VectorEligible() {
		out, err = matmul.EvalUnaryVector(inputs[0].Tensor, m.B, m.Flags)
	} else {
		out, err = matmul.EvalBatched(inputs[0].Tensor, m.B, m.Flags)
	}
	if err != nil {
		return nil, err
	}

	return []graph.EvalValue{{Tensor: out}}, nil
}

func (m MatMulUnary) Cost(inputs []graph.TypedFact) (int64, error) {
	if len(inputs) != 1 {
		return 0, ErrWrongInputCount
	}
	sr, err := matmul.InferShapes(inputs[0].Shape, m.B.Shape(), m.Flags)
	if err != nil {
		return 0, err
	}

	return matmul.FMACost(sr)
}

// Invariants reports each of A's broadcast-prefix axes (every axis strictly
// before A's trailing m/k pair) as transparent to the matching output axis.
// Disposable holds only when B's corresponding left-padded dim is 1 —
// otherwise removing the axis from A would change the broadcast result.
// Period is the GCD of A's and B's dims at that axis, the divisibility
// check spec.md §4.3 requires of a period claim (dim.Gcd resolves it).
func (m MatMulUnary) Invariants(inputs, _ []graph.TypedFact) []graph.AxisInfo {
	if len(inputs) != 1 {
		return nil
	}
	rA := inputs[0].Shape.Rank()
	rB := m.B.Shape().Rank()
	rank := rA
	if rB > rank {
		rank = rB
	}
	padA := rank - rA
	padB := rank - rB

	var infos []graph.AxisInfo
	for axis := 0; axis < rank-2; axis++ {
		if axis < padA {
			continue // this prefix axis belongs only to B; A has no matching input axis
		}
		aAxis := axis - padA
		aDim := inputs[0].Shape.Dim(aAxis)
		bDim := dim.Const(1)
		if axis >= padB {
			bDim = m.B.Shape().Dim(axis - padB)
		}
		period := int64(1)
		if g, ok := dim.Gcd(aDim, bDim); ok {
			period = g
		}
		infos = append(infos, graph.AxisInfo{
			InputIndex: 0, InputAxis: aAxis,
			OutputSlot: 0, OutputAxis: axis,
			Period: period, Disposable: bDim.IsOne(),
		})
	}

	return infos
}

// ChangeAxes pushes a Rm arriving at one of A's broadcast-prefix axes
// through to the matching output axis (spec.md §4.3's generalization of the
// AddDims/RmDims worked examples to MatMulUnary): the m and k axes are
// load-bearing and always refuse. When the axis also exists in B's own
// (unpadded) shape it must be length 1 there for the removal to be valid
// broadcasting, in which case B is sliced down to match; when the axis is
// purely a prefix contributed by A, B is left untouched.
func (m MatMulUnary) ChangeAxes(mdl *graph.Model, id graph.NodeID, io graph.AxisIO, op graph.AxisOp) (graph.AxisResponse, error) {
	if io.Side != graph.AxisInput || io.Index != 0 || op.Kind != graph.AxisOpRm {
		return graph.AxisResponse{Kind: graph.AxisRefuse}, nil
	}
	node := mdl.Node(id)
	aFact, err := mdl.Fact(node.Inputs[0])
	if err != nil {
		return graph.AxisResponse{}, err
	}
	aTyped, ok := aFact.(graph.TypedFact)
	if !ok {
		return graph.AxisResponse{Kind: graph.AxisRefuse}, nil
	}
	rA := aTyped.Shape.Rank()
	rB := m.B.Shape().Rank()
	axis := op.Axis
	if rA < rB || axis >= rA-2 {
		return graph.AxisResponse{Kind: graph.AxisRefuse}, nil
	}

	b, packed := m.B, m.Packed
	padB := rA - rB
	if axis >= padB {
		bAxis := axis - padB
		if !b.Shape().Dim(bAxis).IsOne() {
			return graph.AxisResponse{Kind: graph.AxisRefuse}, nil
		}
		b, err = removeTensorAxis(b, bAxis)
		if err != nil {
			return graph.AxisResponse{}, err
		}
		packed, err = matmul.PackConstant(b)
		if err != nil {
			return graph.AxisResponse{}, err
		}
	}

	return graph.AxisResponse{
		Kind:        graph.AxisPropagate,
		Replacement: MatMulUnary{Flags: m.Flags, B: b, Packed: packed},
		Requests: []graph.AxisRequest{{
			IO: graph.AxisIO{Side: graph.AxisOutput, Index: 0, Axis: axis},
			Op: graph.Rm(axis),
		}},
	}, nil
}

// Codegen lowers a plain MatMul node whose second input is a known constant
// into a MatMulUnary node with that constant pre-packed (spec.md §4.4, §9,
// §8 scenario 6).
func (m MatMul) Codegen(mdl *graph.Model, id graph.NodeID) (*graph.Patch, error) {
	node := mdl.Node(id)
	bFact, err := mdl.Fact(node.Inputs[1])
	if err != nil {
		return nil, err
	}
	typed, ok := bFact.(graph.TypedFact)
	if !ok || !typed.IsConst() {
		return nil, matmul.ErrNotConstant
	}
	packed, err := matmul.PackConstant(typed.Value)
	if err != nil {
		return nil, err
	}

	p := graph.NewPatch()
	p.AddNode("matmul_unary", MatMulUnary{Flags: m.Flags, B: typed.Value, Packed: packed},
		[]graph.PatchOutlet{graph.ExternalOutlet(node.Inputs[0])}, 1)
	p.Replace(graph.Outlet{Node: id, Slot: 0}, graph.LocalOutlet(0, 0))

	return p, nil
}

// Declutter implements spec.md §4.2's second MatMulUnary rule: when the
// variable operand is the output of a Concat along the contracted k-axis,
// replace this node with a sum of per-slice unary matmuls, one per concat
// input, each against the matching slice of the constant sliced out of B
// along its own k-axis. Per spec.md §9's Open Question, the sum is built
// left to right (no balanced-tree rebalancing), matching the order the
// concat inputs were wired in — reimplementers changing that order change
// observable floating-point rounding.
func (m MatMulUnary) Declutter(mdl *graph.Model, id graph.NodeID) (*graph.Patch, error) {
	node := mdl.Node(id)
	producer := mdl.Node(node.Inputs[0].Node)
	if producer == nil {
		return nil, nil
	}
	concat, ok := producer.Op.(Concat)
	if !ok || len(producer.Inputs) < 2 {
		return nil, nil
	}

	aFact, err := mdl.Fact(node.Inputs[0])
	if err != nil {
		return nil, err
	}
	aTyped, ok := aFact.(graph.TypedFact)
	if !ok {
		return nil, nil
	}
	kAxisA := aTyped.Shape.Rank() - 1
	if m.Flags.ATranspose {
		kAxisA = aTyped.Shape.Rank() - 2
	}
	if concat.Axis != kAxisA {
		return nil, nil
	}

	bRank := m.B.Shape().Rank()
	kAxisB := bRank - 2
	if m.Flags.BTranspose {
		kAxisB = bRank - 1
	}

	terms := make([]graph.PatchOutlet, 0, len(producer.Inputs))
	p := graph.NewPatch()
	bStart := 0
	for i, in := range producer.Inputs {
		inFact, err := mdl.Fact(in)
		if err != nil {
			return nil, err
		}
		inTyped, ok := inFact.(graph.TypedFact)
		if !ok {
			return nil, nil
		}
		kLen, err := inTyped.Shape.Dim(concat.Axis).Eval(nil)
		if err != nil {
			return nil, nil // dim not statically known: rule cannot fire yet
		}

		bSlice, err := sliceAlongAxis(m.B, kAxisB, bStart, int(kLen))
		if err != nil {
			return nil, err
		}
		bStart += int(kLen)
		packed, err := matmul.PackConstant(bSlice)
		if err != nil {
			return nil, err
		}

		unaryIdx := p.AddNode(fmt.Sprintf("%s_k%d", node.Name, i),
			MatMulUnary{Flags: m.Flags, B: bSlice, Packed: packed},
			[]graph.PatchOutlet{graph.ExternalOutlet(in)}, 1)
		terms = append(terms, graph.LocalOutlet(unaryIdx, 0))
	}

	sum := terms[0]
	for i := 1; i < len(terms); i++ {
		sumIdx := p.AddNode(fmt.Sprintf("%s_sum%d", node.Name, i), Add{}, []graph.PatchOutlet{sum, terms[i]}, 1)
		sum = graph.LocalOutlet(sumIdx, 0)
	}
	p.Replace(graph.Outlet{Node: id, Slot: 0}, sum)

	return p, nil
}

// Pulsify refuses when the designated time axis falls on the accumulated k
// dimension, since the accumulation window would then be unbounded (spec.md
// §4.5, "MatMulUnary refuses pulsification when the time axis falls on its
// k dimension"). Otherwise it re-adds itself against the already-pulsified
// A input, recomputing the output shape against the constant B.
func (m MatMulUnary) Pulsify(pctx graph.PulseContext, mapping map[graph.Outlet]graph.Outlet, node *graph.Node) ([]graph.Outlet, error) {
	srcFact, err := pctx.Source.Fact(node.Inputs[0])
	if err != nil {
		return nil, err
	}
	aTyped, ok := srcFact.(graph.TypedFact)
	if !ok {
		return nil, fmt.Errorf("%w: input of %q is not yet typed", graph.ErrFactNotTyped, node.Name)
	}
	kAxis := aTyped.Shape.Rank() - 1
	if m.Flags.ATranspose {
		kAxis = aTyped.Shape.Rank() - 2
	}
	if pctx.TimeAxis == kAxis {
		return nil, graph.ErrPulsificationRefused
	}

	in, ok := mapping[node.Inputs[0]]
	if !ok {
		return nil, fmt.Errorf("%w: input of %q not yet pulsified", graph.ErrOutletNotFound, node.Name)
	}
	pf, err := pulsedInputFact(pctx.Target, in)
	if err != nil {
		return nil, err
	}
	sr, err := matmul.InferShapes(aTyped.Shape, m.B.Shape(), m.Flags)
	if err != nil {
		return nil, err
	}

	id, err := pctx.Target.AddNode(node.Name, m, []graph.Outlet{in}, 1)
	if err != nil {
		return nil, err
	}
	out := graph.Outlet{Node: id, Slot: 0}
	outFact := graph.PulsedFact{
		TypedFact: graph.TypedFact{Type: aTyped.Type, Shape: sr.FinalC},
		Axis:      pf.Axis,
		Pulse:     pf.Pulse,
		Delay:     pf.Delay,
	}
	if err := pctx.Target.SetFact(out, outFact); err != nil {
		return nil, err
	}

	return []graph.Outlet{out}, nil
}
