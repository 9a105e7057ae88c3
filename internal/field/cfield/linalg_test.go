package cfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// diagBuf builds the square complex diagonal matrix of a Float64
// singular-value buffer.
func diagBuf(s *hilbert.Buffer) *hilbert.Buffer {
	sv := s.AsFloat64()
	n := len(sv)
	out := newBuf(n, n)
	data := out.AsComplex128()
	for i, v := range sv {
		data[i*n+i] = complex(v, 0)
	}
	return out
}

// TestMatMul checks a rectangular product against hand values.
func TestMatMul(t *testing.T) {
	f := New()
	a := bufOf(t, hilbert.Shape{2, 3},
		1, 2, 3,
		4, 5, 6)
	b := bufOf(t, hilbert.Shape{3, 2},
		7, 8,
		9, 10,
		11, 12)

	c := f.MatMul(a, b, 2, 3, 2)
	assert.Equal(t, complex128(58), c.GetScalar(0))
	assert.Equal(t, complex128(64), c.GetScalar(1))
	assert.Equal(t, complex128(139), c.GetScalar(2))
	assert.Equal(t, complex128(154), c.GetScalar(3))
}

// TestDet checks the LU determinant, including the pivot-swap sign.
func TestDet(t *testing.T) {
	f := New()

	a := bufOf(t, hilbert.Shape{2, 2}, 1, 2, 3, 4)
	assert.InDelta(t, -2, real(f.Det(a, 2)), tol)

	// Row exchange flips the sign: a permutation matrix has det -1.
	p := bufOf(t, hilbert.Shape{2, 2}, 0, 1, 1, 0)
	assert.InDelta(t, -1, real(f.Det(p, 2)), tol)

	sing := bufOf(t, hilbert.Shape{2, 2}, 1, 2, 2, 4)
	assert.Equal(t, complex128(0), f.Det(sing, 2))

	assert.Equal(t, complex128(1), f.Det(bufOf(t, hilbert.Shape{}, 0), 0))

	ci := bufOf(t, hilbert.Shape{2, 2}, 1i, 0, 0, 1i)
	assert.InDelta(t, -1, real(f.Det(ci, 2)), tol)
	assert.InDelta(t, 0, imag(f.Det(ci, 2)), tol)
}

// TestInverse checks Gauss-Jordan inversion.
func TestInverse(t *testing.T) {
	f := New()
	a := bufOf(t, hilbert.Shape{2, 2}, 1, 2, 3, 4)

	inv, err := f.Inverse(a, 2)
	require.NoError(t, err)
	prod := f.MatMul(a, inv, 2, 2, 2)
	assert.True(t, f.AllClose(prod, eyeBuf(2), tol))

	sing := bufOf(t, hilbert.Shape{2, 2}, 1, 2, 2, 4)
	_, err = f.Inverse(sing, 2)
	assert.ErrorIs(t, err, hilbert.ErrSingular)
}

// TestPInverse checks the pseudo-inverse of rectangular and degenerate
// input.
func TestPInverse(t *testing.T) {
	f := New()
	a := bufOf(t, hilbert.Shape{3, 2},
		1, 0,
		1i, 1,
		0, 2)

	pinv, err := f.PInverse(a, 3, 2, 1e-15)
	require.NoError(t, err)
	assert.True(t, pinv.Shape().Equal(hilbert.Shape{2, 3}))

	// For full column rank the pseudo-inverse is a left inverse.
	prod := f.MatMul(pinv, a, 2, 3, 2)
	assert.True(t, f.AllClose(prod, eyeBuf(2), 1e-10))

	// The pseudo-inverse of zero is zero, not a division error.
	z := bufOf(t, hilbert.Shape{2, 2}, 0, 0, 0, 0)
	zp, err := f.PInverse(z, 2, 2, 1e-15)
	require.NoError(t, err)
	assert.True(t, f.AllClose(zp, z, tol))
}

// TestExpm checks the scaled series exponential.
func TestExpm(t *testing.T) {
	f := New()

	z := bufOf(t, hilbert.Shape{2, 2}, 0, 0, 0, 0)
	ez, err := f.Expm(z, 2, hilbert.DefaultExpmOrder)
	require.NoError(t, err)
	assert.True(t, f.AllClose(ez, eyeBuf(2), tol))

	// A nilpotent matrix terminates the series exactly: exp(N) = I + N.
	nil2 := bufOf(t, hilbert.Shape{2, 2}, 0, 1, 0, 0)
	en, err := f.Expm(nil2, 2, hilbert.DefaultExpmOrder)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(en.GetScalar(0)), tol)
	assert.InDelta(t, 1, real(en.GetScalar(1)), tol)
	assert.InDelta(t, 0, real(en.GetScalar(2)), tol)
	assert.InDelta(t, 1, real(en.GetScalar(3)), tol)

	// Diagonal input exponentiates entry-wise.
	d := bufOf(t, hilbert.Shape{2, 2}, 1, 0, 0, 2)
	ed, err := f.Expm(d, 2, hilbert.DefaultExpmOrder)
	require.NoError(t, err)
	assert.InDelta(t, 2.718281828459045, real(ed.GetScalar(0)), 1e-10)
	assert.InDelta(t, 7.38905609893065, real(ed.GetScalar(3)), 1e-10)

	_, err = f.Expm(d, 2, 0)
	assert.ErrorIs(t, err, hilbert.ErrShape)
}

// TestEigHermitian checks the Jacobi eigensolver on a symmetric
// matrix.
func TestEigHermitian(t *testing.T) {
	f := New()
	a := bufOf(t, hilbert.Shape{2, 2}, 2, 1, 1, 2)

	vals, vecs, err := f.Eig(a, 2, true)
	require.NoError(t, err)

	// Eigenvalues 1 and 3, ascending, real.
	assert.InDelta(t, 1, real(vals.GetScalar(0)), 1e-10)
	assert.InDelta(t, 3, real(vals.GetScalar(1)), 1e-10)
	assert.InDelta(t, 0, imag(vals.GetScalar(0)), 1e-10)

	// Columns are orthonormal eigenvectors: A V = V D and V.H V = I.
	av := f.MatMul(a, vecs, 2, 2, 2)
	vd := f.MatMul(vecs, diagOf(vals), 2, 2, 2)
	assert.True(t, f.AllClose(av, vd, 1e-10))

	vhv := f.MatMul(f.Adjoint(vecs, 2, 2), vecs, 2, 2, 2)
	assert.True(t, f.AllClose(vhv, eyeBuf(2), 1e-10))

	// A complex hermitian matrix exercises the phase handling.
	h := bufOf(t, hilbert.Shape{2, 2}, 1, 2i, -2i, 1)
	vals, vecs, err = f.Eig(h, 2, true)
	require.NoError(t, err)
	assert.InDelta(t, -1, real(vals.GetScalar(0)), 1e-10)
	assert.InDelta(t, 3, real(vals.GetScalar(1)), 1e-10)
	av = f.MatMul(h, vecs, 2, 2, 2)
	vd = f.MatMul(vecs, diagOf(vals), 2, 2, 2)
	assert.True(t, f.AllClose(av, vd, 1e-10))
}

// diagOf builds the diagonal matrix of a complex eigenvalue buffer.
func diagOf(vals *hilbert.Buffer) *hilbert.Buffer {
	data := vals.AsComplex128()
	n := len(data)
	out := newBuf(n, n)
	od := out.AsComplex128()
	for i, v := range data {
		od[i*n+i] = v
	}
	return out
}

// TestEigGeneral checks the non-hermitian path on a rotation, whose
// eigenvalues are imaginary.
func TestEigGeneral(t *testing.T) {
	f := New()
	rot := bufOf(t, hilbert.Shape{2, 2}, 0, -1, 1, 0)

	vals, vecs, err := f.Eig(rot, 2, false)
	require.NoError(t, err)

	// Sorted by (real, imag): -i before +i.
	assert.InDelta(t, -1, imag(vals.GetScalar(0)), 1e-8)
	assert.InDelta(t, 1, imag(vals.GetScalar(1)), 1e-8)
	assert.InDelta(t, 0, real(vals.GetScalar(0)), 1e-8)

	av := f.MatMul(rot, vecs, 2, 2, 2)
	vd := f.MatMul(vecs, diagOf(vals), 2, 2, 2)
	assert.True(t, f.AllClose(av, vd, 1e-8))

	// A real diagonalizable matrix sorts by real part.
	d := bufOf(t, hilbert.Shape{2, 2}, 3, 0, 0, 1)
	vals, _, err = f.Eig(d, 2, false)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(vals.GetScalar(0)), 1e-8)
	assert.InDelta(t, 3, real(vals.GetScalar(1)), 1e-8)
}

// TestSVDTall checks the Jacobi SVD on a tall matrix, thin and full.
func TestSVDTall(t *testing.T) {
	f := New()
	a := bufOf(t, hilbert.Shape{3, 2},
		1, 0,
		1i, 1,
		0, 2)

	u, s, vh, err := f.SVD(a, 3, 2, false)
	require.NoError(t, err)
	assert.True(t, u.Shape().Equal(hilbert.Shape{3, 2}))
	assert.True(t, vh.Shape().Equal(hilbert.Shape{2, 2}))

	sv := s.AsFloat64()
	require.Len(t, sv, 2)
	assert.GreaterOrEqual(t, sv[0], sv[1])
	assert.GreaterOrEqual(t, sv[1], 0.0)

	recon := f.MatMul(f.MatMul(u, diagBuf(s), 3, 2, 2), vh, 3, 2, 2)
	assert.True(t, f.AllClose(recon, a, 1e-10))

	uhu := f.MatMul(f.Adjoint(u, 3, 2), u, 2, 3, 2)
	assert.True(t, f.AllClose(uhu, eyeBuf(2), 1e-10))

	// Full form: U square, padded with an orthonormal completion.
	uf, sf, vhf, err := f.SVD(a, 3, 2, true)
	require.NoError(t, err)
	assert.True(t, uf.Shape().Equal(hilbert.Shape{3, 3}))
	ufh := f.MatMul(f.Adjoint(uf, 3, 3), uf, 3, 3, 3)
	assert.True(t, f.AllClose(ufh, eyeBuf(3), 1e-10))

	rect := newBuf(3, 2)
	rd := rect.AsComplex128()
	for i, v := range sf.AsFloat64() {
		rd[i*2+i] = complex(v, 0)
	}
	recon = f.MatMul(f.MatMul(uf, rect, 3, 3, 2), vhf, 3, 2, 2)
	assert.True(t, f.AllClose(recon, a, 1e-10))
}

// TestSVDWide checks the adjoint detour for wide input.
func TestSVDWide(t *testing.T) {
	f := New()
	a := bufOf(t, hilbert.Shape{2, 3},
		1, 2, 0,
		0, 1i, 1)

	u, s, vh, err := f.SVD(a, 2, 3, false)
	require.NoError(t, err)
	assert.True(t, u.Shape().Equal(hilbert.Shape{2, 2}))
	assert.True(t, vh.Shape().Equal(hilbert.Shape{2, 3}))

	recon := f.MatMul(f.MatMul(u, diagBuf(s), 2, 2, 2), vh, 2, 2, 3)
	assert.True(t, f.AllClose(recon, a, 1e-10))

	// V.H has orthonormal rows.
	vvh := f.MatMul(vh, f.Adjoint(vh, 2, 3), 2, 3, 2)
	assert.True(t, f.AllClose(vvh, eyeBuf(2), 1e-10))
}

// TestSVDRankDeficient checks the orthonormal completion over a null
// space.
func TestSVDRankDeficient(t *testing.T) {
	f := New()
	a := bufOf(t, hilbert.Shape{2, 2}, 1, 1, 1, 1)

	u, s, vh, err := f.SVD(a, 2, 2, false)
	require.NoError(t, err)

	sv := s.AsFloat64()
	assert.InDelta(t, 2, sv[0], 1e-10)
	assert.InDelta(t, 0, sv[1], 1e-10)

	// The zero-value column is still orthonormal to the rest.
	uhu := f.MatMul(f.Adjoint(u, 2, 2), u, 2, 2, 2)
	assert.True(t, f.AllClose(uhu, eyeBuf(2), 1e-10))

	recon := f.MatMul(f.MatMul(u, diagBuf(s), 2, 2, 2), vh, 2, 2, 2)
	assert.True(t, f.AllClose(recon, a, 1e-10))
}
