package channel

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirac-go/dirac/internal/field/rfield"
	"github.com/dirac-go/dirac/internal/hilbert"
)

// sandwich computes J rho J.H.
func sandwich(t *testing.T, j, rho *hilbert.Array) *hilbert.Array {
	t.Helper()
	jr, err := j.Mul(rho)
	require.NoError(t, err)
	out, err := jr.Mul(j.H())
	require.NoError(t, err)
	return out
}

// TestRandomCPMapIsCPTP checks that random channels are trace
// preserving and their Kraus operators close to the identity.
func TestRandomCPMapIsCPTP(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 2)
	require.NoError(t, err)
	hb, err := s.Qudit("b", 2)
	require.NoError(t, err)

	e, err := RandomCPMap(ha, hb, 0)
	require.NoError(t, err)
	ok, err := e.IsCPTP(0)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, e.AssertCPTP(0))

	krauses, err := e.Krauses()
	require.NoError(t, err)
	assert.Len(t, krauses, 4)

	var sum *hilbert.Array
	for i, op := range krauses {
		term, err := op.H().Mul(op)
		require.NoError(t, err)
		if i == 0 {
			sum = term
			continue
		}
		sum, err = sum.Add(term)
		require.NoError(t, err)
	}
	eye, err := ha.Space().Eye()
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, sum, eye), tol)
}

// TestIsometryRealizesMap checks E(rho) = Tr_env(J rho J.H) with a
// ride-along factor, and the complementary channel as the environment
// trace of the same sandwich.
func TestIsometryRealizesMap(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 3)
	require.NoError(t, err)
	hb, err := s.Qudit("b", 4)
	require.NoError(t, err)
	hd, err := s.Qudit("d", 3)
	require.NoError(t, err)

	e, err := RandomCPMap(ha, hb, 0)
	require.NoError(t, err)

	ad, err := hilbert.Product(ha, hd)
	require.NoError(t, err)
	rho, err := ad.RandomDensity()
	require.NoError(t, err)

	full := sandwich(t, e.J(), rho)

	direct, err := full.PartialTrace(e.EnvSpace())
	require.NoError(t, err)
	applied, err := e.Apply(rho)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, direct, applied), tol)

	comp, err := e.Complementary()
	require.NoError(t, err)
	compDirect, err := full.PartialTrace(hb)
	require.NoError(t, err)
	compApplied, err := comp.Apply(rho)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, compDirect, compApplied), tol)
}

// TestCPMapAdjoint checks the Hilbert-Schmidt pairing through the
// isometry-level adjoint.
func TestCPMapAdjoint(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 2)
	require.NoError(t, err)
	hb, err := s.Qudit("b", 3)
	require.NoError(t, err)

	e, err := RandomCPMap(ha, hb, 0)
	require.NoError(t, err)
	eh, err := e.Adjoint()
	require.NoError(t, err)
	require.True(t, eh.InSpace().Equal(hb.Space()))
	require.True(t, eh.OutSpace().Equal(ha.Space()))

	haO, err := ha.O()
	require.NoError(t, err)
	hbO, err := hb.O()
	require.NoError(t, err)
	x := haO.RandomArray()
	y := hbO.RandomArray()

	ex, err := e.Apply(x)
	require.NoError(t, err)
	lhsOp, err := ex.H().Mul(y)
	require.NoError(t, err)
	lhs, err := lhsOp.Trace()
	require.NoError(t, err)

	fy, err := eh.Apply(y)
	require.NoError(t, err)
	rhsOp, err := x.H().Mul(fy)
	require.NoError(t, err)
	rhs, err := rhsOp.Trace()
	require.NoError(t, err)

	assert.InDelta(t, real(lhs), real(rhs), tol)
	assert.InDelta(t, imag(lhs), imag(rhs), tol)
}

// TestUnitaryAndIdentity checks the unitary conjugation channel and the
// identity channel on a composite state.
func TestUnitaryAndIdentity(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 2)
	require.NoError(t, err)
	hb, err := s.Qudit("b", 2)
	require.NoError(t, err)

	u, err := ha.Space().RandomUnitary()
	require.NoError(t, err)
	e, err := Unitary(u)
	require.NoError(t, err)

	ab, err := hilbert.Product(ha, hb)
	require.NoError(t, err)
	rho, err := ab.RandomDensity()
	require.NoError(t, err)

	got, err := e.Apply(rho)
	require.NoError(t, err)
	want := sandwich(t, u, rho)
	assert.InDelta(t, 0, diffNorm(t, got, want), tol)

	ident, err := Identity(ha)
	require.NoError(t, err)
	same, err := ident.Apply(rho)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, same, rho), tol)
}

// TestTotallyNoisyAndNoisy checks the fully depolarizing channel and
// its partial mixture.
func TestTotallyNoisyAndNoisy(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 5)
	require.NoError(t, err)
	rho, err := ha.Space().RandomDensity()
	require.NoError(t, err)
	mixed, err := ha.Space().FullyMixed()
	require.NoError(t, err)

	noisy, err := TotallyNoisy(ha)
	require.NoError(t, err)
	require.NoError(t, noisy.AssertCPTP(0))
	got, err := noisy.Apply(rho)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, got, mixed), tol)

	part, err := Noisy(ha, 0.2)
	require.NoError(t, err)
	require.NoError(t, part.AssertCPTP(0))
	got, err = part.Apply(rho)
	require.NoError(t, err)
	keep, err := rho.MulScalar(0.8)
	require.NoError(t, err)
	mix, err := mixed.MulScalar(0.2)
	require.NoError(t, err)
	want, err := keep.Add(mix)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, got, want), tol)

	_, err = Noisy(ha, 1.5)
	assert.ErrorIs(t, err, ErrProbability)
	_, err = Noisy(ha, -0.1)
	assert.ErrorIs(t, err, ErrProbability)
}

// TestDecohere checks that decoherence keeps exactly the diagonal.
func TestDecohere(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 4)
	require.NoError(t, err)
	rho, err := ha.Space().RandomDensity()
	require.NoError(t, err)

	e, err := Decohere(ha)
	require.NoError(t, err)
	require.NoError(t, e.AssertCPTP(0))

	got, err := e.Apply(rho)
	require.NoError(t, err)
	diag, err := rho.Diag()
	require.NoError(t, err)
	want, err := ha.Space().Diag(diag)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, got, want), tol)
}

// TestErasure checks the erasure channel: the flag state carries the
// erasure probability and the surviving block is scaled by 1-p.
func TestErasure(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 2)
	require.NoError(t, err)
	rho, err := ha.Space().RandomDensity()
	require.NoError(t, err)

	const p = 0.3
	e, err := Erasure(ha, p)
	require.NoError(t, err)
	require.NoError(t, e.AssertCPTP(0))

	out := e.OutSpace()
	require.Equal(t, 3, out.Dim())

	got, err := e.Apply(rho)
	require.NoError(t, err)

	flag, err := got.At(2, 2)
	require.NoError(t, err)
	assert.InDelta(t, p, real(flag), tol)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v, err := got.At(i, j)
			require.NoError(t, err)
			w, err := rho.At(i, j)
			require.NoError(t, err)
			assert.InDelta(t, (1-p)*real(w), real(v), tol)
			assert.InDelta(t, (1-p)*imag(w), imag(v), tol)
		}
		cross, err := got.At(i, 2)
		require.NoError(t, err)
		assert.InDelta(t, 0, real(cross), tol)
	}

	_, err = Erasure(ha, 2)
	assert.ErrorIs(t, err, ErrProbability)
}

// TestFromKraus checks a bit-flip channel assembled from explicit Kraus
// operators.
func TestFromKraus(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qubit("a")
	require.NoError(t, err)

	const p = 0.25
	eye, err := ha.Space().Eye()
	require.NoError(t, err)
	flip, err := ha.PauliX()
	require.NoError(t, err)
	k0, err := eye.MulScalar(complex(math.Sqrt(1-p), 0))
	require.NoError(t, err)
	k1, err := flip.MulScalar(complex(math.Sqrt(p), 0))
	require.NoError(t, err)

	e, err := FromKraus(k0, k1)
	require.NoError(t, err)
	require.NoError(t, e.AssertCPTP(0))
	assert.Equal(t, 2, e.EnvSpace().Dim())

	rho, err := ha.Space().RandomDensity()
	require.NoError(t, err)
	got, err := e.Apply(rho)
	require.NoError(t, err)

	keep, err := rho.MulScalar(1 - p)
	require.NoError(t, err)
	flipped := sandwich(t, flip, rho)
	flipped, err = flipped.MulScalar(p)
	require.NoError(t, err)
	want, err := keep.Add(flipped)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, got, want), tol)
}

// TestFromMatrixRoundTrip checks that a channel rebuilt from its basis
// matrix has the same action, with a compact environment.
func TestFromMatrixRoundTrip(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 2)
	require.NoError(t, err)
	hb, err := s.Qudit("b", 3)
	require.NoError(t, err)

	e, err := RandomCPMap(ha, hb, 2)
	require.NoError(t, err)
	rebuilt, err := FromMatrix(e.Matrix(), ha, hb)
	require.NoError(t, err)
	assert.LessOrEqual(t, rebuilt.EnvSpace().Dim(), 2)

	rho, err := ha.Space().RandomDensity()
	require.NoError(t, err)
	got, err := rebuilt.Apply(rho)
	require.NoError(t, err)
	want, err := e.Apply(rho)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, got, want), tol)
}

// TestUpgradeRejectsNonCP checks that the transposition map, positive
// but not completely positive, has no Kraus form.
func TestUpgradeRejectsNonCP(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 2)
	require.NoError(t, err)

	tr, err := Transposer(ha)
	require.NoError(t, err)
	_, err = tr.UpgradeToCPMap()
	assert.ErrorIs(t, err, ErrNotCompletelyPositive)
}

// TestUpgradeFromUnitaryFunction checks the function-to-CP-map path for
// a conjugation, which must come out with a one-dimensional
// environment.
func TestUpgradeFromUnitaryFunction(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 3)
	require.NoError(t, err)
	u, err := ha.Space().RandomUnitary()
	require.NoError(t, err)

	sup, err := FromFunction(ha, func(x *hilbert.Array) (*hilbert.Array, error) {
		return sandwichRaw(u, x)
	})
	require.NoError(t, err)
	e, err := sup.UpgradeToCPMap()
	require.NoError(t, err)
	assert.Equal(t, 1, e.EnvSpace().Dim())
	require.NoError(t, e.AssertCPTP(0))

	rho, err := ha.Space().RandomDensity()
	require.NoError(t, err)
	got, err := e.Apply(rho)
	require.NoError(t, err)
	want := sandwich(t, u, rho)
	assert.InDelta(t, 0, diffNorm(t, got, want), tol)
}

func sandwichRaw(u, x *hilbert.Array) (*hilbert.Array, error) {
	ux, err := u.Mul(x)
	if err != nil {
		return nil, err
	}
	return ux.Mul(u.H())
}

// TestComposeCPMaps checks both composition paths: disjoint
// environments keep the product environment, a shared environment
// forces a rebuild.
func TestComposeCPMaps(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 2)
	require.NoError(t, err)
	hb, err := s.Qudit("b", 3)
	require.NoError(t, err)
	hc, err := s.Qudit("c", 2)
	require.NoError(t, err)
	hd, err := s.Qudit("d", 2)
	require.NoError(t, err)
	he, err := s.Qudit("e", 3)
	require.NoError(t, err)

	bc, err := hilbert.Product(hb, hc)
	require.NoError(t, err)
	cd, err := hilbert.Product(hc, hd)
	require.NoError(t, err)

	e1, err := RandomCPMap(ha, bc, 0)
	require.NoError(t, err)
	e2, err := RandomCPMap(cd, he, 0)
	require.NoError(t, err)

	e3, err := e2.Compose(e1)
	require.NoError(t, err)
	assert.Equal(t, 2, e3.EnvSpace().Rank())
	require.NoError(t, e3.AssertCPTP(0))

	ad, err := hilbert.Product(ha, hd)
	require.NoError(t, err)
	rho, err := ad.RandomDensity()
	require.NoError(t, err)
	inner, err := e1.Apply(rho)
	require.NoError(t, err)
	want, err := e2.Apply(inner)
	require.NoError(t, err)
	got, err := e3.Apply(rho)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, got, want), tol)

	// Self-composition shares the environment and rebuilds.
	e, err := RandomCPMap(ha, ha, 0)
	require.NoError(t, err)
	ee, err := e.Compose(e)
	require.NoError(t, err)
	require.NoError(t, ee.AssertCPTP(0))
	r2, err := ha.Space().RandomDensity()
	require.NoError(t, err)
	once, err := e.Apply(r2)
	require.NoError(t, err)
	twice, err := e.Apply(once)
	require.NoError(t, err)
	composed, err := ee.Apply(r2)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, composed, twice), tol)
}

// TestCPMapAdd checks that the sum of channels acts pointwise and
// stays completely positive.
func TestCPMapAdd(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 2)
	require.NoError(t, err)
	hb, err := s.Qudit("b", 3)
	require.NoError(t, err)

	e1, err := RandomCPMap(ha, hb, 0)
	require.NoError(t, err)
	e2, err := RandomCPMap(ha, hb, 0)
	require.NoError(t, err)
	sum, err := e1.Add(e2)
	require.NoError(t, err)

	rho, err := ha.Space().RandomDensity()
	require.NoError(t, err)
	r1, err := e1.Apply(rho)
	require.NoError(t, err)
	r2, err := e2.Apply(rho)
	require.NoError(t, err)
	want, err := r1.Add(r2)
	require.NoError(t, err)
	got, err := sum.Apply(rho)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, got, want), tol)
}

// TestChannelKet checks the channel ket and its disjointness
// requirement.
func TestChannelKet(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qudit("a", 2)
	require.NoError(t, err)
	hb, err := s.Qudit("b", 2)
	require.NoError(t, err)

	e, err := RandomCPMap(ha, hb, 2)
	require.NoError(t, err)
	ket, err := e.Ket()
	require.NoError(t, err)
	assert.True(t, ket.Space().IsKetSpace())
	assert.Equal(t, 3, ket.Space().Rank())

	loop, err := RandomCPMap(ha, ha, 2)
	require.NoError(t, err)
	_, err = loop.Ket()
	assert.ErrorIs(t, err, hilbert.ErrSpaceMismatch)
}

// TestEnvLabelsFresh checks that every construction draws a distinct
// uuid-suffixed environment label.
func TestEnvLabelsFresh(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qubit("a")
	require.NoError(t, err)

	e1, err := Identity(ha)
	require.NoError(t, err)
	e2, err := Identity(ha)
	require.NoError(t, err)

	l1 := e1.EnvSpace().Kets()[0].Label()
	l2 := e2.EnvSpace().Kets()[0].Label()
	assert.True(t, strings.HasPrefix(l1, "env_"))
	assert.True(t, strings.HasPrefix(l2, "env_"))
	assert.NotEqual(t, l1, l2)
}

// TestScaleNegative checks that negative scaling is refused at the CP
// level.
func TestScaleNegative(t *testing.T) {
	s := newTestSession()
	ha, err := s.Qubit("a")
	require.NoError(t, err)
	e, err := Identity(ha)
	require.NoError(t, err)
	_, err = e.Scale(-1)
	assert.ErrorIs(t, err, ErrNotCompletelyPositive)
}

// TestRealFieldChannel checks the dtype-generic paths over the real
// base field.
func TestRealFieldChannel(t *testing.T) {
	s := hilbert.NewSession(rfield.New())
	hx, err := s.Qudit("x", 3)
	require.NoError(t, err)

	e, err := RandomCPMap(hx, hx, 0)
	require.NoError(t, err)
	require.NoError(t, e.AssertCPTP(0))

	rho, err := hx.Space().RandomDensity()
	require.NoError(t, err)
	full := sandwich(t, e.J(), rho)
	direct, err := full.PartialTrace(e.EnvSpace())
	require.NoError(t, err)
	applied, err := e.Apply(rho)
	require.NoError(t, err)
	assert.InDelta(t, 0, diffNorm(t, direct, applied), tol)
}
