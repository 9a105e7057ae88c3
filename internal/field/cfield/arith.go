package cfield

import (
	"fmt"
	"math/cmplx"

	"github.com/dirac-go/dirac/internal/hilbert"
	"github.com/dirac-go/dirac/internal/parallel"
)

// newBuf allocates a complex128 buffer, panicking on an invalid shape.
// Kernel-level allocation failures are programming errors.
func newBuf(dims ...int) *hilbert.Buffer {
	buf, err := hilbert.NewBuffer(hilbert.Shape(dims), hilbert.Complex128)
	if err != nil {
		panic(fmt.Sprintf("cfield: %v", err))
	}
	return buf
}

// pair returns the two buffers' element views, panicking on a length
// mismatch.
func pair(op string, a, b *hilbert.Buffer) ([]complex128, []complex128) {
	av, bv := a.AsComplex128(), b.AsComplex128()
	if len(av) != len(bv) {
		panic(fmt.Sprintf("%s: length mismatch %d vs %d", op, len(av), len(bv)))
	}
	return av, bv
}

// Add returns the element-wise sum in a fresh buffer.
func (f *ComplexField) Add(a, b *hilbert.Buffer) *hilbert.Buffer {
	out := a.Clone()
	f.AddInPlace(out, b)
	return out
}

// Sub returns the element-wise difference in a fresh buffer.
func (f *ComplexField) Sub(a, b *hilbert.Buffer) *hilbert.Buffer {
	out := a.Clone()
	f.SubInPlace(out, b)
	return out
}

// Neg returns the element-wise negation in a fresh buffer.
func (f *ComplexField) Neg(x *hilbert.Buffer) *hilbert.Buffer {
	out := x.Clone()
	data := out.AsComplex128()
	for i := range data {
		data[i] = -data[i]
	}
	return out
}

// Scale returns x scaled by s in a fresh buffer.
func (f *ComplexField) Scale(x *hilbert.Buffer, s complex128) *hilbert.Buffer {
	out := x.Clone()
	f.ScaleInPlace(out, s)
	return out
}

// Conj returns the element-wise complex conjugate in a fresh buffer.
func (f *ComplexField) Conj(x *hilbert.Buffer) *hilbert.Buffer {
	out := x.Clone()
	data := out.AsComplex128()
	for i := range data {
		data[i] = cmplx.Conj(data[i])
	}
	return out
}

// AddInPlace accumulates src into dst.
func (f *ComplexField) AddInPlace(dst, src *hilbert.Buffer) {
	d, s := pair("add", dst, src)
	for i := range d {
		d[i] += s[i]
	}
}

// SubInPlace subtracts src from dst.
func (f *ComplexField) SubInPlace(dst, src *hilbert.Buffer) {
	d, s := pair("sub", dst, src)
	for i := range d {
		d[i] -= s[i]
	}
}

// ScaleInPlace multiplies x by s.
func (f *ComplexField) ScaleInPlace(x *hilbert.Buffer, s complex128) {
	data := x.AsComplex128()
	for i := range data {
		data[i] *= s
	}
}

// AllClose reports whether a and b agree element-wise within absolute
// tolerance tol. NaN entries never compare close.
func (f *ComplexField) AllClose(a, b *hilbert.Buffer, tol float64) bool {
	av, bv := pair("allclose", a, b)
	for i := range av {
		if !(cmplx.Abs(av[i]-bv[i]) <= tol) {
			return false
		}
	}
	return true
}

// Adjoint returns the conjugate transpose of the rows x cols matrix.
func (f *ComplexField) Adjoint(a *hilbert.Buffer, rows, cols int) *hilbert.Buffer {
	src := a.AsComplex128()
	if len(src) != rows*cols {
		panic(fmt.Sprintf("adjoint: %d elements for %d x %d", len(src), rows, cols))
	}
	out := newBuf(cols, rows)
	dst := out.AsComplex128()
	parallel.ForRows(rows, cols, func(i, j int) {
		dst[j*rows+i] = cmplx.Conj(src[i*cols+j])
	}, parallel.DefaultConfig())
	return out
}
