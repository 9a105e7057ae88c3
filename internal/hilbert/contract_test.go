package hilbert_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// seqArray fills the space with distinct deterministic values.
func seqArray(t *testing.T, sp *hilbert.Space) *hilbert.Array {
	t.Helper()
	n := sp.Shape().NumElements()
	data := make([]complex128, n)
	for i := range data {
		data[i] = complex(float64(i+1), float64(i%3)-1)
	}
	x, err := sp.FromSlice(data)
	require.NoError(t, err)
	return x
}

// TestMulMatchedContraction checks the default contraction set: bras of
// the left operand against dagger-matched kets of the right, here
// |a><b,c| times |c><a| contracting only c.
func TestMulMatchedContraction(t *testing.T) {
	s := newTestSession()
	a, err := s.Qubit("a")
	require.NoError(t, err)
	b, err := s.Qubit("b")
	require.NoError(t, err)
	c, err := s.Qudit("c", 3)
	require.NoError(t, err)

	xsp, err := hilbert.Product(a, b.H(), c.H())
	require.NoError(t, err)
	ysp, err := hilbert.Product(c, a.H())
	require.NoError(t, err)
	x := seqArray(t, xsp)
	y := seqArray(t, ysp)

	z, err := x.Mul(y)
	require.NoError(t, err)
	assert.Equal(t, "|a><a,b|", z.Space().String())

	for i := 0; i < 2; i++ {
		for n := 0; n < 2; n++ {
			for j := 0; j < 2; j++ {
				var want complex128
				for k := 0; k < 3; k++ {
					xv, err := x.At(i, j, k)
					require.NoError(t, err)
					yv, err := y.At(k, n)
					require.NoError(t, err)
					want += xv * yv
				}
				got, err := z.At(i, n, j)
				require.NoError(t, err)
				assert.InDelta(t, 0, cmplx.Abs(got-want), tol)
			}
		}
	}
}

// TestOuterProduct checks that disjoint operands multiply into their
// tensor product, and that colliding free factors are refused.
func TestOuterProduct(t *testing.T) {
	s := newTestSession()
	a, err := s.Qubit("a")
	require.NoError(t, err)
	b, err := s.Qubit("b")
	require.NoError(t, err)

	x, err := a.Space().FromSlice([]complex128{1, 2i})
	require.NoError(t, err)
	y, err := b.Space().FromSlice([]complex128{3, 5})
	require.NoError(t, err)

	z, err := x.Mul(y)
	require.NoError(t, err)
	assert.Equal(t, "|a,b>", z.Space().String())
	v, err := z.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 6i, v)

	// A ket cannot meet itself without a contraction.
	_, err = x.Mul(x)
	assert.ErrorIs(t, err, hilbert.ErrDuplicateSpace)
}

// TestInnerProduct checks rank-0 results and the norm relation.
func TestInnerProduct(t *testing.T) {
	s := newTestSession()
	a, err := s.Qudit("a", 3)
	require.NoError(t, err)

	psi, err := a.Space().FromSlice([]complex128{1, 2i, -1})
	require.NoError(t, err)

	ip, err := psi.H().Mul(psi)
	require.NoError(t, err)
	assert.True(t, ip.Space().IsScalar())
	v, err := ip.Item()
	require.NoError(t, err)
	n := psi.Norm(2)
	assert.InDelta(t, n*n, real(v), tol)
	assert.InDelta(t, 0, imag(v), tol)

	bra, err := a.Bra(1)
	require.NoError(t, err)
	amp, err := bra.Mul(psi)
	require.NoError(t, err)
	v, err = amp.Item()
	require.NoError(t, err)
	assert.Equal(t, 2i, v)
}

// TestOperatorProducts checks operator algebra through contraction:
// identity action, anticommuting Paulis, and associativity.
func TestOperatorProducts(t *testing.T) {
	s := newTestSession()
	a, err := s.Qubit("a")
	require.NoError(t, err)

	psi, err := a.Space().FromSlice([]complex128{3, 4i})
	require.NoError(t, err)
	eye, err := a.Space().Eye()
	require.NoError(t, err)
	same, err := eye.Mul(psi)
	require.NoError(t, err)
	assert.True(t, same.Equal(psi))

	x, err := a.PauliX()
	require.NoError(t, err)
	z, err := a.PauliZ()
	require.NoError(t, err)
	xz, err := x.Mul(z)
	require.NoError(t, err)
	zx, err := z.Mul(x)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, xz, zx.Neg()), tol)

	opA := eye.Space().RandomArray()
	opB := eye.Space().RandomArray()
	opC := eye.Space().RandomArray()
	ab, err := opA.Mul(opB)
	require.NoError(t, err)
	left, err := ab.Mul(opC)
	require.NoError(t, err)
	bc, err := opB.Mul(opC)
	require.NoError(t, err)
	right, err := opA.Mul(bc)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, left, right), tol)
}

// TestPartialApplication checks that an operator on a larger space
// contracts only the factors the operand provides.
func TestPartialApplication(t *testing.T) {
	s := newTestSession()
	a, err := s.Qubit("a")
	require.NoError(t, err)
	b, err := s.Qudit("b", 3)
	require.NoError(t, err)

	ab, err := hilbert.Product(a, b)
	require.NoError(t, err)
	abO, err := ab.O()
	require.NoError(t, err)
	op := seqArray(t, abO)
	psi := seqArray(t, a.Space())

	z, err := op.Mul(psi)
	require.NoError(t, err)
	assert.Equal(t, "|a,b><b|", z.Space().String())

	// Sandwiching with the dual ket closes the remaining legs.
	phi := seqArray(t, ab)
	full, err := op.Mul(phi)
	require.NoError(t, err)
	assert.True(t, full.Space().Equal(ab))
}

// TestTensordotSelectors checks the explicit contraction-set forms
// against the default.
func TestTensordotSelectors(t *testing.T) {
	s := newTestSession()
	a, err := s.Qubit("a")
	require.NoError(t, err)
	b, err := s.Qudit("b", 3)
	require.NoError(t, err)
	c, err := s.Qubit("c")
	require.NoError(t, err)

	xsp, err := hilbert.Product(a, b.H())
	require.NoError(t, err)
	ysp, err := hilbert.Product(b, c.H())
	require.NoError(t, err)
	x := seqArray(t, xsp)
	y := seqArray(t, ysp)

	viaDefault, err := x.Mul(y)
	require.NoError(t, err)
	assert.Equal(t, "|a><c|", viaDefault.Space().String())

	viaAtoms, err := x.Tensordot(y, hilbert.ContractAtoms(b))
	require.NoError(t, err)
	assert.True(t, viaAtoms.Equal(viaDefault))

	viaSpace, err := x.Tensordot(y, hilbert.ContractSpace(b.Space()))
	require.NoError(t, err)
	assert.True(t, viaSpace.Equal(viaDefault))

	// The empty set forces an outer product.
	outer, err := x.Tensordot(y, hilbert.ContractAtoms())
	require.NoError(t, err)
	assert.Equal(t, "|a,b><b,c|", outer.Space().String())
	xv, err := x.At(1, 2)
	require.NoError(t, err)
	yv, err := y.At(0, 1)
	require.NoError(t, err)
	ov, err := outer.At(1, 0, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, xv*yv, ov)

	_, err = x.Tensordot(y, hilbert.ContractAtoms(b.Dual()))
	assert.ErrorIs(t, err, hilbert.ErrNotKetSpace)
	_, err = x.Tensordot(y, hilbert.ContractSpace(b.H()))
	assert.ErrorIs(t, err, hilbert.ErrNotKetSpace)
	_, err = x.Tensordot(y, hilbert.ContractAtoms(c))
	assert.ErrorIs(t, err, hilbert.ErrSpaceMismatch)
	_, err = x.Tensordot(y, hilbert.ContractAtoms(b, b))
	assert.ErrorIs(t, err, hilbert.ErrDuplicateSpace)
}

// TestMulAcrossSessions checks the session guard.
func TestMulAcrossSessions(t *testing.T) {
	s1 := newTestSession()
	s2 := newTestSession()
	a1, err := s1.Qubit("a")
	require.NoError(t, err)
	a2, err := s2.Qubit("a")
	require.NoError(t, err)

	x := a1.Space().Zeros()
	y := a2.Space().Zeros()
	_, err = x.Mul(y)
	assert.ErrorIs(t, err, hilbert.ErrIncompatibleField)
}
