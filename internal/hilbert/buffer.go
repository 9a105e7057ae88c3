package hilbert

import (
	"bytes"
	"fmt"
	"unsafe"
)

// Buffer is the low-level dense storage for array data.
//
// Unlike view-based tensor libraries, buffers are never shared between
// arrays: every public operation that produces an array allocates a fresh
// buffer (copy-on-create), so no synchronization or copy-on-write tracking
// is needed.
type Buffer struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
}

// NewBuffer creates a zero-filled buffer with the given shape and type.
func NewBuffer(shape Shape, dtype DataType) (*Buffer, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	byteSize := shape.NumElements() * dtype.Size()

	return &Buffer{
		data:   make([]byte, byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// Shape returns the buffer's shape.
func (b *Buffer) Shape() Shape {
	return b.shape
}

// Strides returns the buffer's memory strides.
func (b *Buffer) Strides() []int {
	return b.stride
}

// DType returns the buffer's data type.
func (b *Buffer) DType() DataType {
	return b.dtype
}

// NumElements returns the total number of elements.
func (b *Buffer) NumElements() int {
	return b.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (b *Buffer) ByteSize() int {
	return b.NumElements() * b.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (b *Buffer) Data() []byte {
	return b.data
}

// AsComplex128 interprets the data as []complex128.
// Panics if the buffer's dtype is not Complex128.
func (b *Buffer) AsComplex128() []complex128 {
	if b.dtype != Complex128 {
		panic(fmt.Sprintf("buffer dtype is %s, not complex128", b.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*complex128)(unsafe.Pointer(&b.data[0])), b.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the buffer's dtype is not Float64.
func (b *Buffer) AsFloat64() []float64 {
	if b.dtype != Float64 {
		panic(fmt.Sprintf("buffer dtype is %s, not float64", b.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&b.data[0])), b.NumElements())
}

// GetScalar reads the element at flat index i, widened to complex128.
func (b *Buffer) GetScalar(i int) complex128 {
	switch b.dtype {
	case Complex128:
		return b.AsComplex128()[i]
	case Float64:
		return complex(b.AsFloat64()[i], 0)
	default:
		panic("unknown data type")
	}
}

// SetScalar writes v at flat index i, narrowing per the buffer's dtype.
// For Float64 buffers the imaginary part is discarded; callers are
// expected to have validated v against the base field beforehand.
func (b *Buffer) SetScalar(i int, v complex128) {
	switch b.dtype {
	case Complex128:
		b.AsComplex128()[i] = v
	case Float64:
		b.AsFloat64()[i] = real(v)
	default:
		panic("unknown data type")
	}
}

// Clone creates a deep copy with an independent data slice.
func (b *Buffer) Clone() *Buffer {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Buffer{
		data:   data,
		shape:  b.shape.Clone(),
		stride: append([]int(nil), b.stride...),
		dtype:  b.dtype,
	}
}

// Reshape returns a copy of the buffer with a new shape of the same total
// size. Panics if the element counts differ; shape agreement is the
// caller's invariant.
func (b *Buffer) Reshape(shape Shape) *Buffer {
	if shape.NumElements() != b.NumElements() {
		panic(fmt.Sprintf("reshape from %v to %v changes element count", b.shape, shape))
	}
	out := b.Clone()
	out.shape = shape.Clone()
	out.stride = shape.ComputeStrides()
	return out
}

// reshapeInPlace re-tags a buffer with a new shape of equal element
// count. Only for buffers no one else has seen yet; public callers use
// Reshape.
func (b *Buffer) reshapeInPlace(shape Shape) {
	if shape.NumElements() != b.NumElements() {
		panic(fmt.Sprintf("reshape from %v to %v changes element count", b.shape, shape))
	}
	b.shape = shape.Clone()
	b.stride = shape.ComputeStrides()
}

// EqualData reports whether two buffers hold byte-identical data of the
// same dtype and shape.
func (b *Buffer) EqualData(other *Buffer) bool {
	return b.dtype == other.dtype &&
		b.shape.Equal(other.shape) &&
		bytes.Equal(b.data, other.data)
}
