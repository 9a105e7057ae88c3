package channel

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/google/uuid"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// CPMap is a completely positive map carried by its Stinespring
// isometry J: in -> out x env. Tracing the environment out of
// J rho J.H applies the map, so Kraus operators, the complementary
// channel and the CPTP condition all come straight from J. The
// embedded Superoperator holds the basis matrix computed from J.
type CPMap struct {
	Superoperator
	j   *hilbert.Array
	env *hilbert.Space
}

// newEnvAtom interns a fresh environment atom of the given dimension.
// The label carries a uuid suffix, so independently built channels
// never share an environment factor and composition cannot collide.
func newEnvAtom(s *hilbert.Session, dim int) (*hilbert.Atom, error) {
	return s.Qudit("env_"+uuid.NewString()[:8], dim)
}

// envSelector maps each axis of the environment to its index value.
func envSelector(env *hilbert.Space, tuple []hilbert.Index) map[hilbert.Factor]any {
	sel := make(map[hilbert.Factor]any, len(tuple))
	for i, a := range env.Axes() {
		sel[a] = tuple[i]
	}
	return sel
}

// NewCPMap builds the map realized by an isometry J whose bras name the
// input space and whose kets split into environment and output. The
// environment may be any ket factor (or bra, or self-adjoint pair) of
// J's ket set; everything else J outputs is the channel output.
func NewCPMap(J *hilbert.Array, env hilbert.Factor) (*CPMap, error) {
	envs, err := toKetSpace(env)
	if err != nil {
		return nil, err
	}
	if J.Space().Session() != envs.Session() {
		return nil, fmt.Errorf("%w: isometry and environment from different sessions",
			hilbert.ErrIncompatibleField)
	}
	for _, a := range envs.Kets() {
		if !J.Space().Contains(a) {
			return nil, fmt.Errorf("%w: isometry %s does not output environment %s",
				hilbert.ErrSpaceMismatch, J.Space(), envs)
		}
	}

	ins := J.Space().BraSpace().Dagger()
	outs := J.Space().KetSpace().Difference(envs)
	da, db := ins.Dim(), outs.Dim()

	m, err := hilbert.NewBuffer(
		hilbert.Shape{db * db, da * da}, J.Space().Session().Field().DType())
	if err != nil {
		return nil, err
	}

	// m[(i,j),(k,l)] = sum over Kraus operators of op[i,k] * conj(op[j,l]).
	for _, tuple := range envs.IndexIter() {
		op, err := J.Slice(envSelector(envs, tuple))
		if err != nil {
			return nil, err
		}
		opm := op.AsMatrix()
		for i := 0; i < db; i++ {
			for j := 0; j < db; j++ {
				rowBase := (i*db + j) * da * da
				for k := 0; k < da; k++ {
					v1 := opm.GetScalar(i*da + k)
					if v1 == 0 {
						continue
					}
					for l := 0; l < da; l++ {
						pos := rowBase + k*da + l
						m.SetScalar(pos, m.GetScalar(pos)+v1*cmplx.Conj(opm.GetScalar(j*da+l)))
					}
				}
			}
		}
	}

	sup, err := New(ins, outs, m)
	if err != nil {
		return nil, err
	}
	return &CPMap{Superoperator: *sup, j: J.Clone(), env: envs}, nil
}

// J returns the Stinespring isometry. The array is shared with the map
// and must not be mutated.
func (c *CPMap) J() *hilbert.Array {
	return c.j
}

// EnvSpace returns the environment ket space.
func (c *CPMap) EnvSpace() *hilbert.Space {
	return c.env
}

func (c *CPMap) String() string {
	return fmt.Sprintf("CPMap( %s to %s )", c.inO, c.outO)
}

// Krauses returns the Kraus operators of the map, one per environment
// basis index. They satisfy E(rho) = sum of op rho op.H, and for a CPTP
// map the closure condition sum of op.H op = I.
func (c *CPMap) Krauses() ([]*hilbert.Array, error) {
	tuples := c.env.IndexIter()
	ops := make([]*hilbert.Array, 0, len(tuples))
	for _, tuple := range tuples {
		op, err := c.j.Slice(envSelector(c.env, tuple))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Complementary returns the channel into the environment: the same
// isometry with the roles of output and environment exchanged.
func (c *CPMap) Complementary() (*CPMap, error) {
	return NewCPMap(c.j, c.out)
}

// Adjoint returns the Hilbert-Schmidt adjoint as a CP map: the isometry
// is conjugated and its environment bra flipped back to a ket.
func (c *CPMap) Adjoint() (*CPMap, error) {
	jh, err := c.j.H().Transpose(c.env)
	if err != nil {
		return nil, err
	}
	return NewCPMap(jh, c.env)
}

// Ket returns the channel ket, the pure state J with its input bras
// transposed to kets. It exists only when the input space is distinct
// from both output and environment.
func (c *CPMap) Ket() (*hilbert.Array, error) {
	for _, a := range c.in.Kets() {
		if c.j.Space().Contains(a) {
			return nil, fmt.Errorf(
				"%w: channel ket needs an input space distinct from output and environment, have %s",
				hilbert.ErrSpaceMismatch, c.j.Space())
		}
	}
	return c.j.Transpose(c.in)
}

// IsCPTP reports whether the map is trace preserving, i.e. whether J is
// an isometry: J.H J = I within tol. A non-positive tol selects
// DefaultTolerance.
func (c *CPMap) IsCPTP(tol float64) (bool, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	jj, err := c.j.H().Mul(c.j)
	if err != nil {
		return false, err
	}
	eye, err := c.in.Eye()
	if err != nil {
		return false, err
	}
	diff, err := jj.Sub(eye)
	if err != nil {
		return false, err
	}
	return diff.Norm(2) <= tol, nil
}

// AssertCPTP returns ErrNotTracePreserving unless IsCPTP holds.
func (c *CPMap) AssertCPTP(tol float64) error {
	ok, err := c.IsCPTP(tol)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotTracePreserving
	}
	return nil
}

// Scale scales the map by a nonnegative factor, staying completely
// positive by scaling the isometry with its square root. Negative
// factors leave CP territory; scale the embedded Superoperator instead.
func (c *CPMap) Scale(s float64) (*CPMap, error) {
	if s < 0 {
		return nil, fmt.Errorf("%w: scaling by %v", ErrNotCompletelyPositive, s)
	}
	j, err := c.j.MulScalar(complex(math.Sqrt(s), 0))
	if err != nil {
		return nil, err
	}
	return NewCPMap(j, c.env)
}

// Add returns the sum of two CP maps with identical endpoints. The sum
// is rebuilt from its matrix, so the result carries a fresh compact
// environment.
func (c *CPMap) Add(other *CPMap) (*CPMap, error) {
	sup, err := c.Superoperator.Add(&other.Superoperator)
	if err != nil {
		return nil, err
	}
	return sup.UpgradeToCPMap()
}

// Compose returns the map rho -> c(other(rho)). When the environments
// are disjoint the composite keeps the product environment and the
// composed isometry J1 J2; otherwise the composite is rebuilt from its
// matrix with a fresh environment.
func (c *CPMap) Compose(other *CPMap) (*CPMap, error) {
	if c.session() != other.session() {
		return nil, fmt.Errorf("%w: composing channels from different sessions",
			hilbert.ErrIncompatibleField)
	}

	disjoint := true
	for _, a := range c.env.Kets() {
		if other.env.Contains(a) {
			disjoint = false
			break
		}
	}
	if disjoint {
		j, err := c.j.Mul(other.j)
		if err != nil {
			return nil, err
		}
		env, err := hilbert.Product(c.env, other.env)
		if err != nil {
			return nil, err
		}
		return NewCPMap(j, env)
	}

	sup, err := c.Superoperator.Compose(&other.Superoperator)
	if err != nil {
		return nil, err
	}
	return sup.UpgradeToCPMap()
}

// UpgradeToCPMap decomposes the superoperator into Kraus form. The
// cross operator t[(i,k),(j,l)] = m[(i,j),(k,l)] must be self-adjoint
// and positive semidefinite; its scaled eigenvectors become the Kraus
// operators, with eigenvalues below DefaultTolerance dropped so the
// environment stays compact.
func (e *Superoperator) UpgradeToCPMap() (*CPMap, error) {
	f := e.field()
	da, db := e.in.Dim(), e.out.Dim()
	n := db * da

	t, err := hilbert.NewBuffer(hilbert.Shape{n, n}, e.m.DType())
	if err != nil {
		return nil, err
	}
	for i := 0; i < db; i++ {
		for j := 0; j < db; j++ {
			for k := 0; k < da; k++ {
				for l := 0; l < da; l++ {
					t.SetScalar((i*da+k)*n+(j*da+l), e.m.GetScalar((i*db+j)*da*da+(k*da+l)))
				}
			}
		}
	}

	if f.Norm(f.Sub(f.Adjoint(t, n, n), t), 2) > DefaultTolerance {
		return nil, fmt.Errorf("%w: cross operator not self-adjoint", ErrNotCompletelyPositive)
	}

	vals, vecs, err := f.Eig(t, n, true)
	if err != nil {
		return nil, err
	}
	ew := make([]float64, n)
	minEw := 0.0
	var keep []int
	for i := range ew {
		ew[i] = real(vals.GetScalar(i))
		if ew[i] < minEw {
			minEw = ew[i]
		}
		if ew[i] > DefaultTolerance {
			keep = append(keep, i)
		}
	}
	if minEw < -DefaultTolerance {
		return nil, fmt.Errorf("%w: min eigenvalue %g", ErrNotCompletelyPositive, minEw)
	}

	// The zero map keeps a single zero Kraus operator.
	dc := len(keep)
	if dc == 0 {
		dc = 1
	}
	envAtom, err := newEnvAtom(e.session(), dc)
	if err != nil {
		return nil, err
	}
	opSp, err := hilbert.Product(e.out, e.in.Dagger())
	if err != nil {
		return nil, err
	}
	js, err := hilbert.Product(e.out, envAtom, e.in.Dagger())
	if err != nil {
		return nil, err
	}
	J := js.Zeros()
	for i, idx := range keep {
		w := f.Sqrt(complex(ew[idx], 0))
		col, err := hilbert.NewBuffer(hilbert.Shape{db, da}, e.m.DType())
		if err != nil {
			return nil, err
		}
		for r := 0; r < n; r++ {
			col.SetScalar(r, vecs.GetScalar(r*n+idx)*w)
		}
		arr, err := opSp.FromMatrix(col)
		if err != nil {
			return nil, err
		}
		if err := J.SetSlice(map[hilbert.Factor]any{envAtom: i}, arr); err != nil {
			return nil, err
		}
	}
	return NewCPMap(J, envAtom)
}

// FromMatrix builds a CP map from a superoperator basis matrix, which
// must admit a Kraus decomposition between the given endpoints.
func FromMatrix(m *hilbert.Buffer, in, out hilbert.Factor) (*CPMap, error) {
	sup, err := New(in, out, m)
	if err != nil {
		return nil, err
	}
	return sup.UpgradeToCPMap()
}

// FromKraus builds the CP map with the given Kraus operators, all over
// one operator space. The environment dimension is the operator count.
func FromKraus(ops ...*hilbert.Array) (*CPMap, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: no Kraus operators", hilbert.ErrShape)
	}
	spc := ops[0].Space()
	envAtom, err := newEnvAtom(spc.Session(), len(ops))
	if err != nil {
		return nil, err
	}
	js, err := hilbert.Product(spc, envAtom)
	if err != nil {
		return nil, err
	}
	J := js.Zeros()
	for i, op := range ops {
		if err := J.SetSlice(map[hilbert.Factor]any{envAtom: i}, op); err != nil {
			return nil, err
		}
	}
	return NewCPMap(J, envAtom)
}

// RandomCPMap returns a random CPTP map whose isometry is Haar
// distributed. A non-positive envDim selects the full environment
// dimension in.Dim() * out.Dim().
func RandomCPMap(in, out hilbert.Factor, envDim int) (*CPMap, error) {
	ins, outs, _, _, err := endpoints(in, out)
	if err != nil {
		return nil, err
	}
	if envDim <= 0 {
		envDim = ins.Dim() * outs.Dim()
	}
	envAtom, err := newEnvAtom(ins.Session(), envDim)
	if err != nil {
		return nil, err
	}
	js, err := hilbert.Product(outs, envAtom, ins.Dagger())
	if err != nil {
		return nil, err
	}
	J, err := js.RandomIsometry()
	if err != nil {
		return nil, err
	}
	return NewCPMap(J, envAtom)
}

// Unitary returns the channel rho -> U rho U.H. The argument need not
// be square: any isometry gives a valid channel.
func Unitary(u *hilbert.Array) (*CPMap, error) {
	envAtom, err := newEnvAtom(u.Space().Session(), 1)
	if err != nil {
		return nil, err
	}
	k, err := envAtom.Ket(0)
	if err != nil {
		return nil, err
	}
	J, err := u.Mul(k)
	if err != nil {
		return nil, err
	}
	return NewCPMap(J, envAtom)
}

// Identity returns the identity channel on the space.
func Identity(spc hilbert.Factor) (*CPMap, error) {
	ins, err := toKetSpace(spc)
	if err != nil {
		return nil, err
	}
	eye, err := ins.Eye()
	if err != nil {
		return nil, err
	}
	return Unitary(eye)
}

// TotallyNoisy returns the channel sending every state to the fully
// mixed state.
func TotallyNoisy(spc hilbert.Factor) (*CPMap, error) {
	ins, err := toKetSpace(spc)
	if err != nil {
		return nil, err
	}
	d := ins.Dim()
	envAtom, err := newEnvAtom(ins.Session(), d*d)
	if err != nil {
		return nil, err
	}
	inO, err := ins.O()
	if err != nil {
		return nil, err
	}
	js, err := hilbert.Product(inO, envAtom)
	if err != nil {
		return nil, err
	}
	J := js.Zeros()

	i := 0
	for _, braTuple := range ins.IndexIter() {
		for _, ketTuple := range ins.IndexIter() {
			sel := map[hilbert.Factor]any{envAtom: i}
			for ax, a := range ins.Kets() {
				sel[a] = ketTuple[ax]
				sel[a.Dual()] = braTuple[ax]
			}
			if err := J.SetSlice(sel, 1); err != nil {
				return nil, err
			}
			i++
		}
	}
	if err := J.ScaleInPlace(complex(1/math.Sqrt(float64(d)), 0)); err != nil {
		return nil, err
	}
	return NewCPMap(J, envAtom)
}

// Noisy returns the channel that replaces the state by the fully mixed
// state with probability p and transmits it otherwise.
func Noisy(spc hilbert.Factor, p float64) (*CPMap, error) {
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: %v", ErrProbability, p)
	}
	noisy, err := TotallyNoisy(spc)
	if err != nil {
		return nil, err
	}
	ident, err := Identity(spc)
	if err != nil {
		return nil, err
	}
	e0, err := noisy.Scale(p)
	if err != nil {
		return nil, err
	}
	e1, err := ident.Scale(1 - p)
	if err != nil {
		return nil, err
	}
	return e0.Add(e1)
}

// Decohere returns the channel that kills all off-diagonal matrix
// elements in the computational basis.
func Decohere(spc hilbert.Factor) (*CPMap, error) {
	ins, err := toKetSpace(spc)
	if err != nil {
		return nil, err
	}
	d := ins.Dim()
	envAtom, err := newEnvAtom(ins.Session(), d)
	if err != nil {
		return nil, err
	}
	inO, err := ins.O()
	if err != nil {
		return nil, err
	}
	js, err := hilbert.Product(inO, envAtom)
	if err != nil {
		return nil, err
	}
	J := js.Zeros()
	for i, tuple := range ins.IndexIter() {
		sel := map[hilbert.Factor]any{envAtom: i}
		for ax, a := range ins.Kets() {
			sel[a] = tuple[ax]
			sel[a.Dual()] = tuple[ax]
		}
		if err := J.SetSlice(sel, 1); err != nil {
			return nil, err
		}
	}
	return NewCPMap(J, envAtom)
}

// Erasure returns the channel that erases the input with probability p,
// flagging erasure through an extra basis state of the output. The
// output space is one dimension larger than the input; at p = 0.5 the
// channel equals its complement.
func Erasure(spc hilbert.Factor, p float64) (*CPMap, error) {
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: %v", ErrProbability, p)
	}
	ins, err := toKetSpace(spc)
	if err != nil {
		return nil, err
	}
	d := ins.Dim()
	outAtom, err := newEnvAtom(ins.Session(), d+1)
	if err != nil {
		return nil, err
	}
	envAtom, err := newEnvAtom(ins.Session(), d+1)
	if err != nil {
		return nil, err
	}

	// The rectangular identity pairs flag-free indices with the input.
	rect, err := hilbert.NewBuffer(hilbert.Shape{d + 1, d}, ins.Session().Field().DType())
	if err != nil {
		return nil, err
	}
	one := ins.Session().Field().One()
	for i := 0; i < d; i++ {
		rect.SetScalar(i*d+i, one)
	}

	branch := func(flag *hilbert.Atom, carrier *hilbert.Atom, amp float64) (*hilbert.Array, error) {
		sp, err := hilbert.Product(carrier, ins.Dagger())
		if err != nil {
			return nil, err
		}
		arr, err := sp.FromMatrix(rect)
		if err != nil {
			return nil, err
		}
		flagKet, err := flag.Ket(d)
		if err != nil {
			return nil, err
		}
		term, err := flagKet.Mul(arr)
		if err != nil {
			return nil, err
		}
		return term.MulScalar(complex(math.Sqrt(amp), 0))
	}

	erased, err := branch(outAtom, envAtom, p)
	if err != nil {
		return nil, err
	}
	sent, err := branch(envAtom, outAtom, 1-p)
	if err != nil {
		return nil, err
	}
	J, err := erased.Add(sent)
	if err != nil {
		return nil, err
	}
	return NewCPMap(J, envAtom)
}
