// Package tensor defines DatumType (the element-type enumeration) and
// Tensor, the immutable contiguous-buffer value that flows through a typed
// graph as a Fact's optional constant.
package tensor

import "errors"

var (
	// ErrUnknownDatumType indicates a DatumType value outside the enumerated set.
	ErrUnknownDatumType = errors.New("tensor: unknown datum type")

	// ErrShapeSizeMismatch indicates a buffer's element count does not match
	// the product of the declared shape's dims.
	ErrShapeSizeMismatch = errors.New("tensor: buffer size does not match shape")

	// ErrTypeMismatch indicates an operation received operands of differing
	// DatumType where the same type was required.
	ErrTypeMismatch = errors.New("tensor: datum type mismatch")
)
