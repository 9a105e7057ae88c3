// Package cfield implements the complex base field over complex128
// storage.
package cfield

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// ComplexField is the field of complex numbers, the default for quantum
// mechanics. Every complex128 value is a member, so CheckScalar never
// fails.
type ComplexField struct{}

// New creates the complex field.
func New() *ComplexField {
	return &ComplexField{}
}

// Name returns the field name.
func (f *ComplexField) Name() string {
	return "complex128"
}

// DType returns the element type arrays over this field store.
func (f *ComplexField) DType() hilbert.DataType {
	return hilbert.Complex128
}

// Zero returns the additive identity.
func (f *ComplexField) Zero() complex128 {
	return 0
}

// One returns the multiplicative identity.
func (f *ComplexField) One() complex128 {
	return 1
}

// ComplexUnit returns the imaginary unit.
func (f *ComplexField) ComplexUnit() (complex128, error) {
	return complex(0, 1), nil
}

// FractionalPhase returns exp(2*pi*i*k/n).
func (f *ComplexField) FractionalPhase(k, n int) (complex128, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: fractional phase with zero denominator", hilbert.ErrShape)
	}
	return cmplx.Exp(complex(0, 2*math.Pi*float64(k)/float64(n))), nil
}

// Sqrt returns the principal square root.
func (f *ComplexField) Sqrt(x complex128) complex128 {
	return cmplx.Sqrt(x)
}

// CheckScalar accepts every complex128 value.
func (f *ComplexField) CheckScalar(v complex128) error {
	return nil
}
