// Package tengraph is a typed tensor computation-graph engine: shape
// algebra with deferred dimension variables (dim), reference-counted
// tensors (tensor), a union-find constraint solver for shape inference
// (solver), a typed computation graph with a capability-set operator
// contract (graph, graph/ops), a generic matrix-multiply engine with
// pluggable packed kernels (matmul), and graph-rewrite drivers built on
// top of it (optimize): declutter, codegen lowering, axis-change
// propagation, and pulsification for streaming evaluation.
//
// A model is built node by node against graph.Model; each node's
// Operator advertises whichever of ShapeInferrer, Evaluator,
// CostModeler, Declutterer, Codegenner, AxisChanger, or Pulsifier
// capabilities it supports. A missing capability is a runtime decision,
// not a compile-time requirement on every operator: the declutter, codegen
// and axis-change drivers skip such nodes, while InferTypes, Pulsify and
// graph.Evaluate report ErrCapabilityNotSupported.
package tengraph
