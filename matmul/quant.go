package matmul

import "github.com/katalvlaran/tengraph/matmul/quantparams"

// QuantParams is the requantization parameter set installed on a quantized
// Kernel via SetQuantParams (spec.md §4.4). It is an alias of
// quantparams.Params so kernel families can implement the Kernel contract
// without importing this package.
type QuantParams = quantparams.Params
