package hilbert

import (
	"fmt"
	"math/rand"
)

// RandomArray returns an array with entries drawn from the standard
// normal distribution. Over a complex field the real and imaginary
// parts are sampled independently.
func (s *Space) RandomArray() *Array {
	arr := s.Zeros()
	switch s.session.field.DType() {
	case Complex128:
		data := arr.buf.AsComplex128()
		for i := range data {
			//nolint:gosec // G404: math/rand is appropriate for state sampling, not security-critical
			data[i] = complex(rand.NormFloat64(), rand.NormFloat64())
		}
	case Float64:
		data := arr.buf.AsFloat64()
		for i := range data {
			data[i] = rand.NormFloat64() //nolint:gosec // G404: math/rand is appropriate for state sampling
		}
	}
	return arr
}

// unitarySpace resolves the operator space a unitary over s acts on,
// mirroring the conventions of Eye.
func (s *Space) unitarySpace() (*Space, error) {
	switch {
	case len(s.bras) == 0 && len(s.kets) > 0:
		return Product(s, s.Dagger())
	case len(s.kets) == 0 && len(s.bras) > 0:
		return Product(s.Dagger(), s)
	default:
		if s.KetDim() != s.BraDim() {
			return nil, fmt.Errorf("%w: unitary over %s", ErrNonSquare, s)
		}
		return s, nil
	}
}

// RandomUnitary returns a Haar-distributed random unitary. A bra-free
// or ket-free space is paired with its dagger; a mixed space must
// already be square. The unitary is the polar factor of a Ginibre
// sample, which carries the Haar measure.
func (s *Space) RandomUnitary() (*Array, error) {
	target, err := s.unitarySpace()
	if err != nil {
		return nil, err
	}
	f := s.session.field
	n := target.KetDim()
	u, _, vh, err := f.SVD(target.RandomArray().AsMatrix(), n, n, false)
	if err != nil {
		return nil, err
	}
	return target.FromMatrix(f.MatMul(u, vh, n, n, n))
}

// RandomIsometry returns a random isometry on the space itself:
// V.H * V is the identity on the bra side. The ket dimension must be
// at least the bra dimension. On a bra-free space this degenerates to
// a random normalized ket.
func (s *Space) RandomIsometry() (*Array, error) {
	kd, bd := s.KetDim(), s.BraDim()
	if kd < bd {
		return nil, fmt.Errorf(
			"%w: isometry needs ket dimension >= bra dimension, space %s is %dx%d",
			ErrShape, s, kd, bd)
	}
	f := s.session.field
	u, _, vh, err := f.SVD(s.RandomArray().AsMatrix(), kd, bd, false)
	if err != nil {
		return nil, err
	}
	return s.FromMatrix(f.MatMul(u, vh, kd, bd, bd))
}

// RandomDensity returns a random density operator over |s><s|:
// positive semidefinite with unit trace.
func (s *Space) RandomDensity() (*Array, error) {
	if !s.IsKetSpace() {
		return nil, fmt.Errorf("%w: density operator over %s", ErrNotKetSpace, s)
	}
	op, err := s.O()
	if err != nil {
		return nil, err
	}
	a := op.RandomArray()
	rho, err := a.Mul(a.H())
	if err != nil {
		return nil, err
	}
	tr, err := rho.Trace()
	if err != nil {
		return nil, err
	}
	return rho.DivScalar(tr)
}
