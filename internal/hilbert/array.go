package hilbert

import (
	"fmt"
	"strings"
)

// Array is a dense tensor bound to a Space. Axis i of the buffer is
// bound to the i-th atom of the space's canonical axis list (sorted kets
// then sorted bras), and the buffer's dtype is the base field's element
// type.
//
// Arrays never share buffers: every operation that returns an Array
// allocates fresh storage, and the methods that mutate the receiver say
// so in their names (AddInPlace, ScaleInPlace, NormalizeInPlace, SetAt,
// SetSlice).
type Array struct {
	space *Space
	buf   *Buffer
}

// newArray allocates a zero-filled array bound to the space. The space's
// shape is valid by construction, so allocation cannot fail.
func newArray(sp *Space) *Array {
	buf, err := NewBuffer(sp.Shape(), sp.session.field.DType())
	if err != nil {
		panic(fmt.Sprintf("array: %v", err))
	}
	return &Array{space: sp, buf: buf}
}

// Space returns the space the array is bound to.
func (x *Array) Space() *Space {
	return x.space
}

// Buffer returns the underlying buffer.
// WARNING: the buffer is the array's own storage; mutating it bypasses
// field validation.
func (x *Array) Buffer() *Buffer {
	return x.buf
}

// Field returns the base field of the owning session.
func (x *Array) Field() BaseField {
	return x.space.session.field
}

// Rank returns the number of axes.
func (x *Array) Rank() int {
	return x.space.Rank()
}

// Clone returns a deep copy with an independent buffer.
func (x *Array) Clone() *Array {
	return &Array{space: x.space, buf: x.buf.Clone()}
}

// Fill sets every element to v in place.
func (x *Array) Fill(v complex128) error {
	f := x.Field()
	if err := f.CheckScalar(v); err != nil {
		return fmt.Errorf("%w: fill value: %v", ErrIncompatibleField, err)
	}
	n := x.buf.NumElements()
	for i := 0; i < n; i++ {
		x.buf.SetScalar(i, v)
	}
	return nil
}

// Item extracts the value of a single-element array. It is how rank-0
// results of full contractions and full slices become plain scalars.
func (x *Array) Item() (complex128, error) {
	if x.buf.NumElements() != 1 {
		return 0, fmt.Errorf("%w: Item on array of %d elements over %s",
			ErrShape, x.buf.NumElements(), x.space)
	}
	return x.buf.GetScalar(0), nil
}

// Equal reports exact equality: same space and byte-identical data.
func (x *Array) Equal(other *Array) bool {
	return x.space.Equal(other.space) && x.buf.EqualData(other.buf)
}

// AllClose reports element-wise equality within absolute tolerance tol,
// over the same space.
func (x *Array) AllClose(other *Array, tol float64) bool {
	return x.space.Equal(other.space) && x.Field().AllClose(x.buf, other.buf, tol)
}

// sameSpace validates that the operand lives in the receiver's space.
func (x *Array) sameSpace(other *Array, op string) error {
	if x.space.session != other.space.session {
		return fmt.Errorf("%w: %s across sessions", ErrIncompatibleField, op)
	}
	if !x.space.Equal(other.space) {
		return fmt.Errorf("%w: %s between %s and %s", ErrSpaceMismatch, op, x.space, other.space)
	}
	return nil
}

const stringLimit = 16

// String renders the space and up to stringLimit elements.
func (x *Array) String() string {
	var sb strings.Builder
	sb.WriteString(x.space.String())
	sb.WriteString(" [")
	n := x.buf.NumElements()
	shown := n
	if shown > stringLimit {
		shown = stringLimit
	}
	for i := 0; i < shown; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v", x.buf.GetScalar(i))
	}
	if shown < n {
		fmt.Fprintf(&sb, " ... (%d more)", n-shown)
	}
	sb.WriteByte(']')
	return sb.String()
}
