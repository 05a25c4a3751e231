// Package tensor provides the core tensor data model for the Fathom framework:
// shapes, device-tagged element buffers, and the structural operations
// (views, reshape, transpose, slice, concat) that sit below the compute layers.
package tensor

// DataType represents runtime type information for tensor elements.
type DataType int

// Supported element types. Float32 is the conventional default.
const (
	Float32 DataType = iota
	Float64
	Float16
	Int32
	Int64
	Uint8
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Float16:
		return 2
	case Uint8:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float16:
		return "float16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	default:
		return "unknown"
	}
}
