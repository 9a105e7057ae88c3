package hilbert_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirac-go/dirac/channel"
	"github.com/dirac-go/dirac/field"
	"github.com/dirac-go/dirac/hilbert"
	"github.com/dirac-go/dirac/serialization"
)

const tol = 1e-10

// ok unwraps protocol steps whose shapes are fixed up front; a failure
// in one of them is a library bug, not a test-input problem.
func ok[T any](v T, err error) func(t *testing.T) T {
	return func(t *testing.T) T {
		t.Helper()
		require.NoError(t, err)
		return v
	}
}

// bellPair returns (|00> + |11>)/sqrt(2) on the two given qubits.
func bellPair(t *testing.T, x, y *hilbert.Atom) *hilbert.Array {
	t.Helper()
	sp := ok(hilbert.Product(x, y))(t)
	inv := complex(1/math.Sqrt2, 0)
	return ok(sp.FromSlice([]complex128{inv, 0, 0, inv}))(t)
}

// TestSessionOverNamedFields drives the gate set through the field
// accessors: the complex field supports every gate, the real field
// rejects the ones that need an imaginary unit.
func TestSessionOverNamedFields(t *testing.T) {
	var f field.BaseField = field.Complex()
	s := hilbert.NewSession(f)
	q := ok(s.Qubit("q"))(t)

	sg := ok(q.GateS())(t)
	z := ok(q.PauliZ())(t)
	s2 := ok(sg.Mul(sg))(t)
	assert.True(t, s2.AllClose(z, tol))

	r := hilbert.NewSession(field.Real())
	rq := ok(r.Qubit("q"))(t)
	_, err := rq.Hadamard()
	require.NoError(t, err)
	_, err = rq.GateS()
	assert.ErrorIs(t, err, hilbert.ErrIncompatibleField)
	_, err = rq.PauliY()
	assert.ErrorIs(t, err, hilbert.ErrIncompatibleField)
}

// TestFacadeSentinels checks that the re-exported sentinels match what
// the operations actually return.
func TestFacadeSentinels(t *testing.T) {
	s := hilbert.NewComplexSession()

	_, err := s.Qudit("bad", 0)
	assert.ErrorIs(t, err, hilbert.ErrShape)

	q := ok(s.Qubit("q"))(t)
	_, err = q.Ket(5)
	assert.ErrorIs(t, err, hilbert.ErrIndexValue)

	// An outer product of two arrays over the same ket factor would
	// put that factor into the result twice.
	psi := ok(q.Ket(0))(t)
	_, err = psi.Tensordot(psi, hilbert.ContractAtoms())
	assert.ErrorIs(t, err, hilbert.ErrDuplicateSpace)
}

// teleport runs the protocol in density form: the shared pair is
// depolarized with probability p, Alice measures (q, a) in the Bell
// basis, Bob applies the matching Pauli correction. Returns the
// average fidelity over the four outcomes.
func teleport(t *testing.T, psi *hilbert.Array, q, a, b *hilbert.Atom, p float64) float64 {
	t.Helper()

	pair := bellPair(t, a, b)
	rhoPair := ok(pair.Mul(pair.H()))(t)
	if p > 0 {
		spAB := ok(hilbert.Product(a, b))(t)
		noisy := ok(channel.Noisy(spAB, p))(t)
		rhoPair = ok(noisy.Apply(rhoPair))(t)
	}

	rho := ok(ok(psi.Mul(psi.H()))(t).Mul(rhoPair))(t)

	bellQA := bellPair(t, q, a)
	xq := ok(q.PauliX())(t)
	zq := ok(q.PauliZ())(t)
	xb := ok(b.PauliX())(t)
	zb := ok(b.PauliZ())(t)
	eyeB := ok(ok(b.O())(t).Eye())(t)

	psiB := ok(psi.Relabel(q, b))(t)
	avg := 0.0
	for px := 0; px < 2; px++ {
		for pz := 0; pz < 2; pz++ {
			// Bell basis state |B_xz> = (X^x Z^z x I)|B_00>.
			proj := bellQA
			if pz == 1 {
				proj = ok(zq.Mul(proj))(t)
			}
			if px == 1 {
				proj = ok(xq.Mul(proj))(t)
			}

			cond := ok(ok(proj.H().Mul(rho))(t).Mul(proj))(t)
			prob := real(ok(cond.Trace())(t))
			require.Greater(t, prob, 0.0)
			cond = ok(cond.DivScalar(complex(prob, 0)))(t)

			// Bob undoes Z^z X^x by applying X^x Z^z.
			u := eyeB
			if pz == 1 {
				u = ok(u.Mul(zb))(t)
			}
			if px == 1 {
				u = ok(xb.Mul(u))(t)
			}
			out := ok(ok(u.Mul(cond))(t).Mul(u.H()))(t)

			fid := real(ok(ok(ok(psiB.H().Mul(out))(t).Mul(psiB))(t).Item())(t))
			avg += prob * fid
		}
	}
	return avg
}

// TestTeleportationEndToEnd teleports a random state through a clean
// and a depolarized pair. A pair depolarized with probability p leaves
// the average fidelity at exactly 1 - p/2.
func TestTeleportationEndToEnd(t *testing.T) {
	s := hilbert.NewComplexSession()
	q := ok(s.Qubit("q"))(t)
	a := ok(s.Qubit("a"))(t)
	b := ok(s.Qubit("b"))(t)
	psi := ok(q.Space().RandomArray().Normalized())(t)

	assert.InDelta(t, 1, teleport(t, psi, q, a, b, 0), 1e-9)
	assert.InDelta(t, 0.8, teleport(t, psi, q, a, b, 0.4), 1e-9)
}

// TestSaveLoadAtomIdentity round-trips a state through the file format
// and checks that loading into the same session hands back the very
// same atoms, dual links intact.
func TestSaveLoadAtomIdentity(t *testing.T) {
	s := hilbert.NewComplexSession()
	a := ok(s.Qubit("a"))(t)
	b := ok(s.Qubit("b"))(t)
	pair := bellPair(t, a, b)

	path := filepath.Join(t.TempDir(), "pair.dirac")
	require.NoError(t, serialization.Save(path, map[string]*hilbert.Array{"pair": pair}, nil))

	loaded := ok(serialization.Load(path, s))(t)
	got := loaded["pair"]
	require.NotNil(t, got)
	assert.True(t, pair.Equal(got))

	kets := got.Space().Kets()
	require.Len(t, kets, 2)
	assert.Same(t, a, kets[0])
	assert.Same(t, b, kets[1])
	assert.Same(t, a, kets[0].Dual().Dual())
}
