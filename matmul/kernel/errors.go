package kernel

import "errors"

// ErrBadDims indicates a kernel was invoked with a non-positive m, k, or n.
var ErrBadDims = errors.New("kernel: m, k, n must be positive")
