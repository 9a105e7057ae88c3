// Package rfield implements the real base field over float64 storage.
package rfield

import (
	"fmt"
	"math"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// RealField is the field of real numbers. Scalars cross the API as
// complex128 like every field; values with a nonzero imaginary part are
// rejected at the boundary by CheckScalar.
type RealField struct{}

// New creates the real field.
func New() *RealField {
	return &RealField{}
}

// Name returns the field name.
func (f *RealField) Name() string {
	return "float64"
}

// DType returns the element type arrays over this field store.
func (f *RealField) DType() hilbert.DataType {
	return hilbert.Float64
}

// Zero returns the additive identity.
func (f *RealField) Zero() complex128 {
	return 0
}

// One returns the multiplicative identity.
func (f *RealField) One() complex128 {
	return 1
}

// ComplexUnit fails: the real field has no imaginary unit.
func (f *RealField) ComplexUnit() (complex128, error) {
	return 0, fmt.Errorf("%w: float64 field has no imaginary unit",
		hilbert.ErrIncompatibleField)
}

// FractionalPhase returns exp(2*pi*i*k/n) when that phase is real,
// which happens exactly when n divides 2k: the result is then 1 or -1.
func (f *RealField) FractionalPhase(k, n int) (complex128, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: fractional phase with zero denominator", hilbert.ErrShape)
	}
	if (2*k)%n != 0 {
		return 0, fmt.Errorf("%w: phase exp(2*pi*i*%d/%d) is not real",
			hilbert.ErrIncompatibleField, k, n)
	}
	half := 2 * k / n
	if half%2 == 0 {
		return 1, nil
	}
	return -1, nil
}

// Sqrt returns the real square root; a negative argument yields NaN.
func (f *RealField) Sqrt(x complex128) complex128 {
	return complex(math.Sqrt(real(x)), 0)
}

// CheckScalar rejects values outside the field.
func (f *RealField) CheckScalar(v complex128) error {
	if imag(v) != 0 {
		return fmt.Errorf("value %v has a nonzero imaginary part", v)
	}
	return nil
}
