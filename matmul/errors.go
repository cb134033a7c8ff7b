// Package matmul implements the batched, broadcasting, packed generalized
// matrix-multiplication engine (spec.md §4.4): the shape contract, the
// abstract kernel contract, a dispatch table of named kernel families, a
// reference batched evaluator, pre-packing of constant operands, and the
// FMA cost model.
package matmul

import "errors"

var (
	// ErrRankMismatch indicates an operand's rank is too low for the
	// operation: rank 0 for InferShapes, rank < 2 for EvalBatched and
	// PackConstant.
	ErrRankMismatch = errors.New("matmul: operand rank too low")

	// ErrContractionMismatch indicates A's contraction dim (after applying
	// a_t) disagrees with B's contraction dim (after applying b_t).
	ErrContractionMismatch = errors.New("matmul: contraction dimension mismatch")

	// ErrBroadcastPrefix indicates the leading (batch) axes of A and B are
	// not broadcast-compatible.
	ErrBroadcastPrefix = errors.New("matmul: broadcast prefix mismatch")

	// ErrNoKernel indicates the dispatch table has no kernel for the
	// requested (family, type, m, k, n) combination (spec.md §7 kind 2).
	ErrNoKernel = errors.New("matmul: no kernel for requested operand types")

	// ErrBadTileSize indicates m, k, or n was not a positive integer.
	ErrBadTileSize = errors.New("matmul: m, k, n must be positive")

	// ErrVectorModeRequiresN1 indicates CVecFromDataAndStride / the
	// matrix-vector fast path was requested with n != 1.
	ErrVectorModeRequiresN1 = errors.New("matmul: vector-mode kernel requires n == 1")

	// ErrNotConstant indicates unary pre-packing was requested on an operand
	// whose value is not a known constant.
	ErrNotConstant = errors.New("matmul: operand is not a constant")

	// ErrPulsificationK indicates a MatMulUnary pulsification was attempted
	// with the streaming time axis on the k (contraction) dimension — the
	// accumulation window would be unbounded (spec.md §4.5).
	ErrPulsificationK = errors.New("matmul: cannot pulsify: time axis falls on contraction dimension")
)
