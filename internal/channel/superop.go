package channel

import (
	"fmt"
	"math/rand"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// DefaultTolerance bounds the numeric slack accepted by the linearity,
// positivity and trace-preservation checks.
const DefaultTolerance = 1e-12

// Superoperator is a linear map between operator spaces, held as its
// matrix in the |k><l| basis: column (k,l) is the flattened image of
// |k><l|. Arbitrary linear maps are representable, including ones that
// are not completely positive (transposition, differences of channels).
type Superoperator struct {
	in, out   *hilbert.Space
	inO, outO *hilbert.Space
	m         *hilbert.Buffer
}

// toKetSpace normalizes a space-like argument to the pure ket space a
// channel endpoint is defined over: a bra space is conjugated, and a
// self-adjoint operator space is reduced to its ket half.
func toKetSpace(f hilbert.Factor) (*hilbert.Space, error) {
	spc, err := hilbert.Product(f)
	if err != nil {
		return nil, err
	}
	switch {
	case spc.IsKetSpace():
		return spc, nil
	case spc.IsBraSpace():
		return spc.Dagger(), nil
	case !spc.IsScalar() && spc.Equal(spc.Dagger()):
		return spc.KetSpace(), nil
	}
	return nil, fmt.Errorf("%w: need a bra, ket, or self-adjoint space, not %s",
		hilbert.ErrNotKetSpace, spc)
}

// endpoints resolves and cross-checks a channel's input and output
// spaces, returning them with their operator spaces.
func endpoints(in, out hilbert.Factor) (ins, outs, inO, outO *hilbert.Space, err error) {
	if ins, err = toKetSpace(in); err != nil {
		return nil, nil, nil, nil, err
	}
	if outs, err = toKetSpace(out); err != nil {
		return nil, nil, nil, nil, err
	}
	if ins.Session() != outs.Session() {
		return nil, nil, nil, nil, fmt.Errorf("%w: channel endpoints from different sessions",
			hilbert.ErrIncompatibleField)
	}
	if inO, err = ins.O(); err != nil {
		return nil, nil, nil, nil, err
	}
	if outO, err = outs.O(); err != nil {
		return nil, nil, nil, nil, err
	}
	return ins, outs, inO, outO, nil
}

// New builds a superoperator from its basis matrix, which must hold
// out.O().Dim() x in.O().Dim() elements of the session's dtype. The
// matrix is copied. In and out may be given as kets, bras, atoms or
// self-adjoint operator spaces.
func New(in, out hilbert.Factor, m *hilbert.Buffer) (*Superoperator, error) {
	ins, outs, inO, outO, err := endpoints(in, out)
	if err != nil {
		return nil, err
	}
	if m.DType() != ins.Session().Field().DType() {
		return nil, fmt.Errorf("%w: matrix dtype %s for %s field",
			hilbert.ErrIncompatibleField, m.DType(), ins.Session().Field().Name())
	}
	rows, cols := outO.Dim(), inO.Dim()
	if m.NumElements() != rows*cols {
		return nil, fmt.Errorf("%w: %d matrix elements mapping %s to %s (need %d x %d)",
			hilbert.ErrShape, m.NumElements(), inO, outO, rows, cols)
	}
	return &Superoperator{
		in:   ins,
		out:  outs,
		inO:  inO,
		outO: outO,
		m:    m.Reshape(hilbert.Shape{rows, cols}),
	}, nil
}

// InSpace returns the input ket space.
func (e *Superoperator) InSpace() *hilbert.Space {
	return e.in
}

// OutSpace returns the output ket space.
func (e *Superoperator) OutSpace() *hilbert.Space {
	return e.out
}

// Matrix returns the underlying basis matrix. The buffer is shared with
// the superoperator and must not be mutated.
func (e *Superoperator) Matrix() *hilbert.Buffer {
	return e.m
}

func (e *Superoperator) session() *hilbert.Session {
	return e.in.Session()
}

func (e *Superoperator) field() hilbert.BaseField {
	return e.in.Session().Field()
}

func (e *Superoperator) String() string {
	return fmt.Sprintf("Superoperator( %s to %s )", e.inO, e.outO)
}

// Apply maps an operator through the superoperator. The argument must
// contain the input operator space; any remaining factors ride along
// unchanged, so a channel on one subsystem applies directly to a state
// of a larger composite.
func (e *Superoperator) Apply(rho *hilbert.Array) (*hilbert.Array, error) {
	if rho.Space().Session() != e.session() {
		return nil, fmt.Errorf("%w: argument from another session", hilbert.ErrIncompatibleField)
	}
	for _, a := range e.inO.Axes() {
		if !rho.Space().Contains(a) {
			return nil, fmt.Errorf("%w: argument space %s does not contain channel domain %s",
				hilbert.ErrSpaceMismatch, rho.Space(), e.inO)
		}
	}

	rest := rho.Space().Difference(e.inO)
	rm, err := rho.AsMatrixBy(e.inO, rest)
	if err != nil {
		return nil, err
	}

	f := e.field()
	ret := f.MatMul(e.m, rm, e.outO.Dim(), e.inO.Dim(), rest.Dim())

	outSpace, err := hilbert.Product(e.outO, rest)
	if err != nil {
		return nil, err
	}
	return outSpace.FromMatrixBy(ret, e.outO, rest)
}

// MulScalar scales the map by s.
func (e *Superoperator) MulScalar(s complex128) (*Superoperator, error) {
	if err := e.field().CheckScalar(s); err != nil {
		return nil, fmt.Errorf("%w: %v", hilbert.ErrIncompatibleField, err)
	}
	return e.withMatrix(e.field().Scale(e.m, s)), nil
}

// Neg returns the negated map.
func (e *Superoperator) Neg() *Superoperator {
	return e.withMatrix(e.field().Neg(e.m))
}

// Add returns the pointwise sum of two maps with identical endpoints.
func (e *Superoperator) Add(other *Superoperator) (*Superoperator, error) {
	if err := e.sameEndpoints(other); err != nil {
		return nil, err
	}
	return e.withMatrix(e.field().Add(e.m, other.m)), nil
}

// Sub returns the pointwise difference of two maps with identical
// endpoints.
func (e *Superoperator) Sub(other *Superoperator) (*Superoperator, error) {
	if err := e.sameEndpoints(other); err != nil {
		return nil, err
	}
	return e.withMatrix(e.field().Sub(e.m, other.m)), nil
}

// Adjoint returns the Hilbert-Schmidt adjoint: the map F with
// Tr(E(X).H Y) = Tr(X.H F(Y)) for all X, Y. In the |k><l| basis this is
// the conjugate transpose of the matrix, with input and output swapped.
func (e *Superoperator) Adjoint() *Superoperator {
	adj := e.field().Adjoint(e.m, e.outO.Dim(), e.inO.Dim())
	return &Superoperator{in: e.out, out: e.in, inO: e.outO, outO: e.inO, m: adj}
}

// Compose returns the map rho -> e(other(rho)). Input factors of e not
// produced by other join the composite input and ride through other's
// application unchanged.
func (e *Superoperator) Compose(other *Superoperator) (*Superoperator, error) {
	if e.session() != other.session() {
		return nil, fmt.Errorf("%w: composing channels from different sessions",
			hilbert.ErrIncompatibleField)
	}
	in, err := hilbert.Product(e.in.Difference(other.out), other.in)
	if err != nil {
		return nil, err
	}
	return FromFunction(in, func(x *hilbert.Array) (*hilbert.Array, error) {
		y, err := other.Apply(x)
		if err != nil {
			return nil, err
		}
		return e.Apply(y)
	})
}

// withMatrix builds a sibling superoperator with the same endpoints.
func (e *Superoperator) withMatrix(m *hilbert.Buffer) *Superoperator {
	return &Superoperator{in: e.in, out: e.out, inO: e.inO, outO: e.outO, m: m}
}

func (e *Superoperator) sameEndpoints(other *Superoperator) error {
	if !e.in.Equal(other.in) || !e.out.Equal(other.out) {
		return fmt.Errorf("%w: %s vs. %s", hilbert.ErrSpaceMismatch, e, other)
	}
	return nil
}

// FromFunction samples an operator-valued function on the |k><l| basis
// of the input space and returns the superoperator with that action.
// The function must be linear and must map every basis operator into
// one fixed self-adjoint operator space; linearity is validated against
// a random density probe and ErrNonLinear reported on disagreement.
func FromFunction(in hilbert.Factor, f func(*hilbert.Array) (*hilbert.Array, error)) (*Superoperator, error) {
	ins, err := toKetSpace(in)
	if err != nil {
		return nil, err
	}
	inO, err := ins.O()
	if err != nil {
		return nil, err
	}

	// The image of the identity fixes the output space.
	eye, err := ins.Eye()
	if err != nil {
		return nil, err
	}
	img, err := f(eye)
	if err != nil {
		return nil, err
	}
	imgSpace := img.Space()
	if !imgSpace.Equal(imgSpace.Dagger()) {
		return nil, fmt.Errorf("%w: function image space %s is not self-adjoint",
			hilbert.ErrSpaceMismatch, imgSpace)
	}
	outs := imgSpace.KetSpace()
	outO, err := outs.O()
	if err != nil {
		return nil, err
	}

	rows, cols := outO.Dim(), inO.Dim()
	m, err := hilbert.NewBuffer(hilbert.Shape{rows, cols}, ins.Session().Field().DType())
	if err != nil {
		return nil, err
	}

	axes := inO.Axes()
	for i, tuple := range inO.IndexIter() {
		sel := make(map[hilbert.Factor]any, len(axes))
		for j, a := range axes {
			sel[a] = tuple[j]
		}
		basis, err := inO.BasisVec(sel)
		if err != nil {
			return nil, err
		}
		col, err := f(basis)
		if err != nil {
			return nil, err
		}
		if !col.Space().Equal(imgSpace) {
			return nil, fmt.Errorf("%w: function image moved from %s to %s",
				hilbert.ErrSpaceMismatch, imgSpace, col.Space())
		}
		for r := 0; r < rows; r++ {
			m.SetScalar(r*cols+i, col.Buffer().GetScalar(r))
		}
	}

	e := &Superoperator{in: ins, out: outs, inO: inO, outO: outO, m: m}

	// A sampled basis reproduces f exactly only if f is linear; probe
	// with a random density operator.
	rho, err := ins.RandomDensity()
	if err != nil {
		return nil, err
	}
	want, err := f(rho)
	if err != nil {
		return nil, err
	}
	got, err := e.Apply(rho)
	if err != nil {
		return nil, err
	}
	diff, err := got.Sub(want)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonLinear, err)
	}
	if diff.Norm(2) > DefaultTolerance {
		return nil, ErrNonLinear
	}
	return e, nil
}

// Transposer returns the superoperator that transposes operators over
// the given space. It is the standard example of a positive but not
// completely positive map.
func Transposer(spc hilbert.Factor) (*Superoperator, error) {
	return FromFunction(spc, func(x *hilbert.Array) (*hilbert.Array, error) {
		return x.T(), nil
	})
}

// RandomSuperoperator returns a superoperator with standard normal
// matrix entries. It is generally neither positive nor trace
// preserving; use RandomCPMap for a random channel.
func RandomSuperoperator(in, out hilbert.Factor) (*Superoperator, error) {
	ins, outs, inO, outO, err := endpoints(in, out)
	if err != nil {
		return nil, err
	}
	dtype := ins.Session().Field().DType()
	m, err := hilbert.NewBuffer(hilbert.Shape{outO.Dim(), inO.Dim()}, dtype)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case hilbert.Complex128:
		data := m.AsComplex128()
		for i := range data {
			//nolint:gosec // G404: math/rand is appropriate for state sampling, not security-critical
			data[i] = complex(rand.NormFloat64(), rand.NormFloat64())
		}
	case hilbert.Float64:
		data := m.AsFloat64()
		for i := range data {
			data[i] = rand.NormFloat64() //nolint:gosec // G404: math/rand is appropriate for state sampling
		}
	}
	return &Superoperator{in: ins, out: outs, inO: inO, outO: outO, m: m}, nil
}
