package matmul

import "github.com/katalvlaran/tengraph/dim"

// FMACost estimates the multiply-accumulate count a MatMul/MatMulUnary node
// will perform: batch-count * m * k * n, reported through the CostModeler
// capability of MatMul and MatMulUnary.
// It returns an error if any of the broadcast-prefix, m, k, or n dims
// remain symbolic, since cost estimation needs concrete counts.
func FMACost(sr ShapeResult) (int64, error) {
	prefixDims, err := sr.BroadcastC.Eval(nil)
	if err != nil {
		return 0, err
	}
	batches := int64(1)
	for _, d := range prefixDims[:len(prefixDims)-2] {
		batches *= d
	}

	m, err := evalConstDim(sr.M)
	if err != nil {
		return 0, err
	}
	k, err := evalConstDim(sr.K)
	if err != nil {
		return 0, err
	}
	n, err := evalConstDim(sr.N)
	if err != nil {
		return 0, err
	}

	return batches * m * k * n, nil
}

func evalConstDim(d dim.Dim) (int64, error) {
	if v, ok := d.IsConst(); ok {
		return v, nil
	}

	return d.Eval(map[string]int64(nil))
}
