package rfield

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// eyeBuf allocates the n x n identity.
func eyeBuf(n int) *hilbert.Buffer {
	out := newBuf(n, n)
	data := out.AsFloat64()
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}
	return out
}

// MatMul multiplies the row-major m x k and k x n matrices through
// DGEMM.
func (f *RealField) MatMul(a, b *hilbert.Buffer, m, k, n int) *hilbert.Buffer {
	out := newBuf(m, n)
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas64.General{Rows: m, Cols: k, Stride: k, Data: a.AsFloat64()},
		blas64.General{Rows: k, Cols: n, Stride: n, Data: b.AsFloat64()},
		0,
		blas64.General{Rows: m, Cols: n, Stride: n, Data: out.AsFloat64()})
	return out
}

// Det returns the determinant of the n x n matrix via LU factorization.
func (f *RealField) Det(a *hilbert.Buffer, n int) complex128 {
	if n == 0 {
		return 1
	}
	var lu mat.LU
	lu.Factorize(mat.NewDense(n, n, a.AsFloat64()))
	return complex(lu.Det(), 0)
}

// Inverse returns the inverse of the n x n matrix. An ill-conditioned
// matrix still inverts; only exact singularity fails.
func (f *RealField) Inverse(a *hilbert.Buffer, n int) (*hilbert.Buffer, error) {
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(n, n, a.AsFloat64())); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %v", hilbert.ErrSingular, err)
		}
	}
	out := newBuf(n, n)
	copy(out.AsFloat64(), inv.RawMatrix().Data)
	return out, nil
}

// PInverse returns the Moore-Penrose pseudo-inverse of the rows x cols
// matrix. Singular values at or below rcond times the largest are
// treated as zero.
func (f *RealField) PInverse(a *hilbert.Buffer, rows, cols int, rcond float64) (*hilbert.Buffer, error) {
	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(rows, cols, a.AsFloat64()), mat.SVDThin) {
		return nil, fmt.Errorf("%w: svd did not converge for pseudo-inverse", hilbert.ErrSingular)
	}
	sv := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	cutoff := 0.0
	if len(sv) > 0 {
		cutoff = rcond * sv[0]
	}
	d := make([]float64, len(sv))
	for i, s := range sv {
		if s > cutoff {
			d[i] = 1 / s
		}
	}

	var vs, pm mat.Dense
	vs.Mul(&v, mat.NewDiagDense(len(sv), d))
	pm.Mul(&vs, u.T())

	out := newBuf(cols, rows)
	copy(out.AsFloat64(), pm.RawMatrix().Data)
	return out, nil
}

// Expm returns the matrix exponential of the n x n matrix, computed by
// scaling and squaring around a truncated series of the given order.
//
//nolint:dupl // Intentional duplication for complex128/float64 kernels.
func (f *RealField) Expm(a *hilbert.Buffer, n, order int) (*hilbert.Buffer, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: series order %d", hilbert.ErrShape, order)
	}

	// Halve until the scaled matrix is small enough for the series to
	// converge quickly, then square back up.
	maxAbs := 0.0
	for _, v := range a.AsFloat64() {
		if ab := math.Abs(v); ab > maxAbs {
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

// Eig returns the eigenvalues and right eigenvectors of the n x n
// matrix. The hermitian path takes the symmetric eigendecomposition;
// the general path fails if any eigenvalue leaves the real line, since
// the result would not be representable in this field.
func (f *RealField) Eig(a *hilbert.Buffer, n int, hermitian bool) (vals, vecs *hilbert.Buffer, err error) {
	if hermitian {
		var es mat.EigenSym
		if !es.Factorize(mat.NewSymDense(n, a.AsFloat64()), true) {
			return nil, nil, fmt.Errorf("%w: symmetric eigendecomposition did not converge",
				hilbert.ErrSingular)
		}
		ev := es.Values(nil)
		var vd mat.Dense
		es.VectorsTo(&vd)

		vals = newBuf(n)
		copy(vals.AsFloat64(), ev)
		vecs = newBuf(n, n)
		copy(vecs.AsFloat64(), vd.RawMatrix().Data)
		return vals, vecs, nil
	}

	var eig mat.Eigen
	if !eig.Factorize(mat.NewDense(n, n, a.AsFloat64()), mat.EigenRight) {
		return nil, nil, fmt.Errorf("%w: eigendecomposition did not converge", hilbert.ErrSingular)
	}
	cv := eig.Values(nil)
	var cvec mat.CDense
	eig.VectorsTo(&cvec)

	vals = newBuf(n)
	vdata := vals.AsFloat64()
	for i, v := range cv {
		if imag(v) != 0 {
			return nil, nil, fmt.Errorf("%w: eigenvalue %v is not real",
				hilbert.ErrIncompatibleField, v)
		}
		vdata[i] = real(v)
	}
	vecs = newBuf(n, n)
	vecdata := vecs.AsFloat64()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			vecdata[i*n+j] = real(cvec.At(i, j))
		}
	}
	return vals, vecs, nil
}

// SVD returns U, the singular values, and V.H of the rows x cols
// matrix. With full set, U and V.H are square; otherwise both are cut
// to min(rows, cols).
func (f *RealField) SVD(a *hilbert.Buffer, rows, cols int, full bool) (u, s, vh *hilbert.Buffer, err error) {
	kind := mat.SVDThin
	if full {
		kind = mat.SVDFull
	}
	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(rows, cols, a.AsFloat64()), kind) {
		return nil, nil, nil, fmt.Errorf("%w: svd did not converge", hilbert.ErrSingular)
	}
	sv := svd.Values(nil)
	var ud, vd mat.Dense
	svd.UTo(&ud)
	svd.VTo(&vd)

	ur, uc := ud.Dims()
	u = newBuf(ur, uc)
	copy(u.AsFloat64(), ud.RawMatrix().Data)

	s = newBuf(len(sv))
	copy(s.AsFloat64(), sv)

	vr, vc := vd.Dims()
	vh = newBuf(vc, vr)
	vdata := vh.AsFloat64()
	for i := 0; i < vc; i++ {
		for j := 0; j < vr; j++ {
			vdata[i*vr+j] = vd.At(j, i)
		}
	}
	return u, s, vh, nil
}

// Norm returns the vector norm of the flattened buffer: 2 for
// Euclidean, +Inf for max-absolute, any other positive order for the
// general p-norm.
func (f *RealField) Norm(x *hilbert.Buffer, ord float64) float64 {
	data := x.AsFloat64()
	switch {
	case math.IsInf(ord, 1):
		maxAbs := 0.0
		for _, v := range data {
			if ab := math.Abs(v); ab > maxAbs {
				maxAbs = ab
			}
		}
		return maxAbs
	case ord == 2:
		sum := 0.0
		for _, v := range data {
			sum += v * v
		}
		return math.Sqrt(sum)
	case ord > 0:
		sum := 0.0
		for _, v := range data {
			sum += math.Pow(math.Abs(v), ord)
		}
		return math.Pow(sum, 1/ord)
	default:
		panic(fmt.Sprintf("norm: unsupported order %v", ord))
	}
}
