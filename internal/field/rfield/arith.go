package rfield

import (
	"fmt"
	"math"

	"github.com/dirac-go/dirac/internal/hilbert"
	"github.com/dirac-go/dirac/internal/parallel"
)

// newBuf allocates a float64 buffer, panicking on an invalid shape.
// Kernel-level allocation failures are programming errors.
func newBuf(dims ...int) *hilbert.Buffer {
	buf, err := hilbert.NewBuffer(hilbert.Shape(dims), hilbert.Float64)
	if err != nil {
		panic(fmt.Sprintf("rfield: %v", err))
	}
	return buf
}

// pair returns the two buffers' element views, panicking on a length
// mismatch.
func pair(op string, a, b *hilbert.Buffer) ([]float64, []float64) {
	av, bv := a.AsFloat64(), b.AsFloat64()
	if len(av) != len(bv) {
		panic(fmt.Sprintf("%s: length mismatch %d vs %d", op, len(av), len(bv)))
	}
	return av, bv
}

// realScalar narrows a scalar to the field, panicking on a nonzero
// imaginary part. Callers validate user-supplied scalars with
// CheckScalar before reaching the kernels.
func realScalar(op string, s complex128) float64 {
	if imag(s) != 0 {
		panic(fmt.Sprintf("%s: scalar %v is not real", op, s))
	}
	return real(s)
}

// Add returns the element-wise sum in a fresh buffer.
func (f *RealField) Add(a, b *hilbert.Buffer) *hilbert.Buffer {
	out := a.Clone()
	f.AddInPlace(out, b)
	return out
}

// Sub returns the element-wise difference in a fresh buffer.
func (f *RealField) Sub(a, b *hilbert.Buffer) *hilbert.Buffer {
	out := a.Clone()
	f.SubInPlace(out, b)
	return out
}

// Neg returns the element-wise negation in a fresh buffer.
func (f *RealField) Neg(x *hilbert.Buffer) *hilbert.Buffer {
	out := x.Clone()
	data := out.AsFloat64()
	for i := range data {
		data[i] = -data[i]
	}
	return out
}

// Scale returns x scaled by s in a fresh buffer.
func (f *RealField) Scale(x *hilbert.Buffer, s complex128) *hilbert.Buffer {
	out := x.Clone()
	f.ScaleInPlace(out, s)
	return out
}

// Conj returns the complex conjugate, which for real data is a plain
// copy.
func (f *RealField) Conj(x *hilbert.Buffer) *hilbert.Buffer {
	return x.Clone()
}

// AddInPlace accumulates src into dst.
func (f *RealField) AddInPlace(dst, src *hilbert.Buffer) {
	d, s := pair("add", dst, src)
	for i := range d {
		d[i] += s[i]
	}
}

// SubInPlace subtracts src from dst.
func (f *RealField) SubInPlace(dst, src *hilbert.Buffer) {
	d, s := pair("sub", dst, src)
	for i := range d {
		d[i] -= s[i]
	}
}

// ScaleInPlace multiplies x by s.
func (f *RealField) ScaleInPlace(x *hilbert.Buffer, s complex128) {
	r := realScalar("scale", s)
	data := x.AsFloat64()
	for i := range data {
		data[i] *= r
	}
}

// AllClose reports whether a and b agree element-wise within absolute
// tolerance tol. NaN entries never compare close.
func (f *RealField) AllClose(a, b *hilbert.Buffer, tol float64) bool {
	av, bv := pair("allclose", a, b)
	for i := range av {
		if !(math.Abs(av[i]-bv[i]) <= tol) {
			return false
		}
	}
	return true
}

// Adjoint returns the conjugate transpose of the rows x cols matrix,
// which for real data is the plain transpose.
func (f *RealField) Adjoint(a *hilbert.Buffer, rows, cols int) *hilbert.Buffer {
	src := a.AsFloat64()
	if len(src) != rows*cols {
		panic(fmt.Sprintf("adjoint: %d elements for %d x %d", len(src), rows, cols))
	}
	out := newBuf(cols, rows)
	dst := out.AsFloat64()
	parallel.ForRows(rows, cols, func(i, j int) {
		dst[j*rows+i] = src[i*cols+j]
	}, parallel.DefaultConfig())
	return out
}
