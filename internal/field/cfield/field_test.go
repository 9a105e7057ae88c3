package cfield

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirac-go/dirac/internal/hilbert"
)

const tol = 1e-12

// bufOf builds a complex128 buffer holding the given values.
func bufOf(t *testing.T, shape hilbert.Shape, vals ...complex128) *hilbert.Buffer {
	t.Helper()
	b, err := hilbert.NewBuffer(shape, hilbert.Complex128)
	require.NoError(t, err)
	data := b.AsComplex128()
	require.Len(t, vals, len(data))
	copy(data, vals)
	return b
}

// TestScalarHelpers checks the field constants and scalar functions.
func TestScalarHelpers(t *testing.T) {
	f := New()

	assert.Equal(t, "complex128", f.Name())
	assert.Equal(t, hilbert.Complex128, f.DType())
	assert.Equal(t, complex128(0), f.Zero())
	assert.Equal(t, complex128(1), f.One())

	j, err := f.ComplexUnit()
	require.NoError(t, err)
	assert.Equal(t, 1i, j)

	ph, err := f.FractionalPhase(1, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0, real(ph), tol)
	assert.InDelta(t, 1, imag(ph), tol)

	ph, err = f.FractionalPhase(2, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(ph), tol)

	_, err = f.FractionalPhase(1, 0)
	assert.ErrorIs(t, err, hilbert.ErrShape)

	r := f.Sqrt(-1)
	assert.InDelta(t, 0, real(r), tol)
	assert.InDelta(t, 1, imag(r), tol)

	assert.NoError(t, f.CheckScalar(3-4i))
	assert.NoError(t, f.CheckScalar(cmplx.Inf()))
}

// TestElementwiseOps checks the buffer arithmetic and that the
// non-in-place forms leave their operands alone.
func TestElementwiseOps(t *testing.T) {
	f := New()
	a := bufOf(t, hilbert.Shape{3}, 1, 2i, 3)
	b := bufOf(t, hilbert.Shape{3}, 4, -1, 1i)

	sum := f.Add(a, b)
	assert.Equal(t, complex128(5), sum.GetScalar(0))
	assert.Equal(t, -1+2i, sum.GetScalar(1))
	assert.Equal(t, 3+1i, sum.GetScalar(2))
	assert.Equal(t, complex128(1), a.GetScalar(0))

	diff := f.Sub(a, b)
	assert.Equal(t, complex128(-3), diff.GetScalar(0))
	assert.Equal(t, 1+2i, diff.GetScalar(1))

	neg := f.Neg(a)
	assert.Equal(t, complex128(-1), neg.GetScalar(0))
	assert.Equal(t, -2i, neg.GetScalar(1))

	scaled := f.Scale(a, 2i)
	assert.Equal(t, 2i, scaled.GetScalar(0))
	assert.Equal(t, complex128(-4), scaled.GetScalar(1))

	conj := f.Conj(a)
	assert.Equal(t, -2i, conj.GetScalar(1))
	assert.Equal(t, 2i, a.GetScalar(1))

	f.AddInPlace(a, b)
	assert.Equal(t, complex128(5), a.GetScalar(0))
	f.SubInPlace(a, b)
	assert.Equal(t, complex128(1), a.GetScalar(0))
	f.ScaleInPlace(a, -1)
	assert.Equal(t, complex128(-1), a.GetScalar(0))

	short := bufOf(t, hilbert.Shape{2}, 1, 2)
	assert.Panics(t, func() { f.Add(a, short) })
}

// TestAllClose checks the tolerance comparison, including NaN.
func TestAllClose(t *testing.T) {
	f := New()
	a := bufOf(t, hilbert.Shape{2}, 1, 2i)
	b := bufOf(t, hilbert.Shape{2}, 1+1e-12, 2i)

	assert.True(t, f.AllClose(a, b, 1e-9))
	assert.False(t, f.AllClose(a, b, 1e-15))

	n := bufOf(t, hilbert.Shape{1}, cmplx.NaN())
	assert.False(t, f.AllClose(n, n, 1))
}

// TestNorm checks the supported vector norm orders.
func TestNorm(t *testing.T) {
	f := New()
	x := bufOf(t, hilbert.Shape{2}, 3, 4i)

	assert.InDelta(t, 5, f.Norm(x, 2), tol)
	assert.InDelta(t, 7, f.Norm(x, 1), tol)
	assert.InDelta(t, 4, f.Norm(x, math.Inf(1)), tol)
	assert.InDelta(t, math.Pow(27+64, 1.0/3), f.Norm(x, 3), tol)

	assert.Panics(t, func() { f.Norm(x, 0) })
	assert.Panics(t, func() { f.Norm(x, -1) })
}

// TestAdjoint checks the conjugate transpose of a rectangular matrix.
func TestAdjoint(t *testing.T) {
	f := New()
	a := bufOf(t, hilbert.Shape{2, 3},
		1, 2i, 3,
		4, 5, 6i)

	h := f.Adjoint(a, 2, 3)
	assert.True(t, h.Shape().Equal(hilbert.Shape{3, 2}))
	assert.Equal(t, complex128(1), h.GetScalar(0))
	assert.Equal(t, complex128(4), h.GetScalar(1))
	assert.Equal(t, -2i, h.GetScalar(2))
	assert.Equal(t, -6i, h.GetScalar(5))

	assert.Panics(t, func() { f.Adjoint(a, 3, 3) })
}
