package hilbert

import "fmt"

// Add returns x + y over the shared space.
func (x *Array) Add(y *Array) (*Array, error) {
	if err := x.sameSpace(y, "add"); err != nil {
		return nil, err
	}
	return &Array{space: x.space, buf: x.Field().Add(x.buf, y.buf)}, nil
}

// Sub returns x - y over the shared space.
func (x *Array) Sub(y *Array) (*Array, error) {
	if err := x.sameSpace(y, "sub"); err != nil {
		return nil, err
	}
	return &Array{space: x.space, buf: x.Field().Sub(x.buf, y.buf)}, nil
}

// AddInPlace accumulates y into x.
func (x *Array) AddInPlace(y *Array) error {
	if err := x.sameSpace(y, "add"); err != nil {
		return err
	}
	x.Field().AddInPlace(x.buf, y.buf)
	return nil
}

// SubInPlace subtracts y from x in place.
func (x *Array) SubInPlace(y *Array) error {
	if err := x.sameSpace(y, "sub"); err != nil {
		return err
	}
	x.Field().SubInPlace(x.buf, y.buf)
	return nil
}

// Neg returns -x.
func (x *Array) Neg() *Array {
	return &Array{space: x.space, buf: x.Field().Neg(x.buf)}
}

// MulScalar returns x scaled by s. Multiplying an array by a non-array
// is always this scalar broadcast, never a contraction.
func (x *Array) MulScalar(s complex128) (*Array, error) {
	if err := x.Field().CheckScalar(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleField, err)
	}
	return &Array{space: x.space, buf: x.Field().Scale(x.buf, s)}, nil
}

// DivScalar returns x scaled by 1/s.
func (x *Array) DivScalar(s complex128) (*Array, error) {
	if s == 0 {
		return nil, fmt.Errorf("%w: division by zero", ErrSingular)
	}
	return x.MulScalar(1 / s)
}

// ScaleInPlace scales x by s in place.
func (x *Array) ScaleInPlace(s complex128) error {
	if err := x.Field().CheckScalar(s); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleField, err)
	}
	x.Field().ScaleInPlace(x.buf, s)
	return nil
}

// Conj returns the element-wise conjugate over the same space. For the
// adjoint (conjugate plus ket/bra swap) see H.
func (x *Array) Conj() *Array {
	return &Array{space: x.space, buf: x.Field().Conj(x.buf)}
}
