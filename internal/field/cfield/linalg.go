package cfield

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// eyeBuf allocates the n x n identity.
func eyeBuf(n int) *hilbert.Buffer {
	out := newBuf(n, n)
	data := out.AsComplex128()
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}
	return out
}

// MatMul multiplies the row-major m x k and k x n matrices through
// ZGEMM.
func (f *ComplexField) MatMul(a, b *hilbert.Buffer, m, k, n int) *hilbert.Buffer {
	out := newBuf(m, n)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1,
		cblas128.General{Rows: m, Cols: k, Stride: k, Data: a.AsComplex128()},
		cblas128.General{Rows: k, Cols: n, Stride: n, Data: b.AsComplex128()},
		0,
		cblas128.General{Rows: m, Cols: n, Stride: n, Data: out.AsComplex128()})
	return out
}

// Det returns the determinant of the n x n matrix by LU elimination
// with partial pivoting.
func (f *ComplexField) Det(a *hilbert.Buffer, n int) complex128 {
	if n == 0 {
		return 1
	}
	m := make([]complex128, n*n)
	copy(m, a.AsComplex128())

	det := complex128(1)
	for col := 0; col < n; col++ {
		p, best := col, cmplx.Abs(m[col*n+col])
		for r := col + 1; r < n; r++ {
			if ab := cmplx.Abs(m[r*n+col]); ab > best {
				p, best = r, ab
			}
		}
		if best == 0 {
			return 0
		}
		if p != col {
			for j := col; j < n; j++ {
				m[col*n+j], m[p*n+j] = m[p*n+j], m[col*n+j]
			}
			det = -det
		}
		piv := m[col*n+col]
		det *= piv
		for r := col + 1; r < n; r++ {
			factor := m[r*n+col] / piv
			if factor == 0 {
				continue
			}
			for j := col; j < n; j++ {
				m[r*n+j] -= factor * m[col*n+j]
			}
		}
	}
	return det
}

// Inverse returns the inverse of the n x n matrix by Gauss-Jordan
// elimination with partial pivoting.
func (f *ComplexField) Inverse(a *hilbert.Buffer, n int) (*hilbert.Buffer, error) {
	m := make([]complex128, n*n)
	copy(m, a.AsComplex128())
	out := eyeBuf(n)
	inv := out.AsComplex128()

	for col := 0; col < n; col++ {
		p, best := col, cmplx.Abs(m[col*n+col])
		for r := col + 1; r < n; r++ {
			if ab := cmplx.Abs(m[r*n+col]); ab > best {
				p, best = r, ab
			}
		}
		if best == 0 {
			return nil, fmt.Errorf("%w: matrix is not invertible", hilbert.ErrSingular)
		}
		if p != col {
			for j := 0; j < n; j++ {
				m[col*n+j], m[p*n+j] = m[p*n+j], m[col*n+j]
				inv[col*n+j], inv[p*n+j] = inv[p*n+j], inv[col*n+j]
			}
		}
		piv := m[col*n+col]
		for j := 0; j < n; j++ {
			m[col*n+j] /= piv
			inv[col*n+j] /= piv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := m[r*n+col]
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				m[r*n+j] -= factor * m[col*n+j]
				inv[r*n+j] -= factor * inv[col*n+j]
			}
		}
	}
	return out, nil
}

// PInverse returns the Moore-Penrose pseudo-inverse of the rows x cols
// matrix. Singular values at or below rcond times the largest are
// treated as zero.
func (f *ComplexField) PInverse(a *hilbert.Buffer, rows, cols int, rcond float64) (*hilbert.Buffer, error) {
	u, s, vh, err := f.SVD(a, rows, cols, false)
	if err != nil {
		return nil, err
	}
	sv := s.AsFloat64()
	minDim := len(sv)

	cutoff := 0.0
	if minDim > 0 {
		cutoff = rcond * sv[0]
	}

	// V with its columns scaled by the inverted singular values, then
	// times U.H.
	v := f.Adjoint(vh, minDim, cols)
	vdata := v.AsComplex128()
	for j := 0; j < minDim; j++ {
		c := complex128(0)
		if sv[j] > cutoff {
			c = complex(1/sv[j], 0)
		}
		for i := 0; i < cols; i++ {
			vdata[i*minDim+j] *= c
		}
	}
	return f.MatMul(v, f.Adjoint(u, rows, minDim), cols, minDim, rows), nil
}

// Expm returns the matrix exponential of the n x n matrix, computed by
// scaling and squaring around a truncated series of the given order.
//
//nolint:dupl // Intentional duplication for complex128/float64 kernels.
func (f *ComplexField) Expm(a *hilbert.Buffer, n, order int) (*hilbert.Buffer, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: series order %d", hilbert.ErrShape, order)
	}

	// Halve until the scaled matrix is small enough for the series to
	// converge quickly, then square back up.
	maxAbs := 0.0
	for _, v := range a.AsComplex128() {
		if ab := cmplx.Abs(v); ab > maxAbs {
			maxAbs = ab
		}
	}
	s := 0
	for norm := maxAbs * float64(n); norm > 0.5 && s < 64; s++ {
		norm /= 2
	}
	scaled := f.Scale(a, complex(math.Ldexp(1, -s), 0))

	sum := eyeBuf(n)
	term := eyeBuf(n)
	for j := 1; j <= order; j++ {
		term = f.MatMul(term, scaled, n, n, n)
		f.ScaleInPlace(term, complex(1/float64(j), 0))
		f.AddInPlace(sum, term)
	}
	for i := 0; i < s; i++ {
		sum = f.MatMul(sum, sum, n, n, n)
	}
	return sum, nil
}

// Norm returns the vector norm of the flattened buffer: 2 for
// Euclidean, +Inf for max-absolute, any other positive order for the
// general p-norm.
func (f *ComplexField) Norm(x *hilbert.Buffer, ord float64) float64 {
	data := x.AsComplex128()
	switch {
	case math.IsInf(ord, 1):
		maxAbs := 0.0
		for _, v := range data {
			if ab := cmplx.Abs(v); ab > maxAbs {
				maxAbs = ab
			}
		}
		return maxAbs
	case ord == 2:
		sum := 0.0
		for _, v := range data {
			sum += real(v)*real(v) + imag(v)*imag(v)
		}
		return math.Sqrt(sum)
	case ord > 0:
		sum := 0.0
		for _, v := range data {
			sum += math.Pow(cmplx.Abs(v), ord)
		}
		return math.Pow(sum, 1/ord)
	default:
		panic(fmt.Sprintf("norm: unsupported order %v", ord))
	}
}
