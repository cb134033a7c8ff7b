package tensor

import "fmt"

// DatumType enumerates the element types a Tensor can hold (spec.md §3).
type DatumType uint8

// The enumerated element types.
const (
	Bool DatumType = iota
	I8
	U8
	I16
	U16
	I32
	I64
	F16
	F32
	F64
)

var datumNames = map[DatumType]string{
	Bool: "bool",
	I8:   "i8",
	U8:   "u8",
	I16:  "i16",
	U16:  "u16",
	I32:  "i32",
	I64:  "i64",
	F16:  "f16",
	F32:  "f32",
	F64:  "f64",
}

var datumWidths = map[DatumType]int{
	Bool: 1,
	I8:   1,
	U8:   1,
	I16:  2,
	U16:  2,
	I32:  4,
	I64:  8,
	F16:  2,
	F32:  4,
	F64:  8,
}

// String renders the canonical short name of dt.
func (dt DatumType) String() string {
	if n, ok := datumNames[dt]; ok {
		return n
	}

	return fmt.Sprintf("DatumType(%d)", dt)
}

// ByteWidth returns the per-element storage width in bytes.
func (dt DatumType) ByteWidth() (int, error) {
	w, ok := datumWidths[dt]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownDatumType, dt)
	}

	return w, nil
}

// Valid reports whether dt is one of the enumerated types.
func (dt DatumType) Valid() bool {
	_, ok := datumNames[dt]

	return ok
}

// IsFloat reports whether dt is one of the floating-point types.
func (dt DatumType) IsFloat() bool {
	return dt == F16 || dt == F32 || dt == F64
}

// IsQuantized reports whether dt is an integer type typically used as a
// quantized representation (i8/u8; i16/u16/i32/i64 serve as wider
// accumulators rather than quantized storage, per the matmul kernel
// contract's TI accumulator type).
func (dt DatumType) IsQuantized() bool {
	return dt == I8 || dt == U8
}

// ZeroValue returns the canonical zero for dt as an any boxing the native Go
// type (bool for Bool, the matching int/float width otherwise).
func (dt DatumType) ZeroValue() (any, error) {
	switch dt {
	case Bool:
		return false, nil
	case I8:
		return int8(0), nil
	case U8:
		return uint8(0), nil
	case I16:
		return int16(0), nil
	case U16:
		return uint16(0), nil
	case I32:
		return int32(0), nil
	case I64:
		return int64(0), nil
	case F16:
		return float32(0), nil // Go has no native f16; its zero is reported as float32.
	case F32:
		return float32(0), nil
	case F64:
		return float64(0), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownDatumType, dt)
	}
}
