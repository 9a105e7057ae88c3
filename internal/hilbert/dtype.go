// Package hilbert implements labeled tensor algebra over finite-dimensional
// Hilbert spaces: named ket/bra factor spaces, their products, and dense
// arrays whose axes are bound to factors by label rather than by position.
package hilbert

// DataType identifies the element type of an array buffer.
// It is determined by the base field and never mixed within a session.
type DataType int

// Supported element types.
const (
	Complex128 DataType = iota
	Float64
)

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	switch dt {
	case Complex128:
		return 16
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Complex128:
		return "complex128"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}
