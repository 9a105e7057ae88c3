package hilbert

import "fmt"

// Zeros allocates a zero-filled array bound to the space.
func (s *Space) Zeros() *Array {
	return newArray(s)
}

// FromSlice creates an array from data laid out in canonical axis order
// (row-major, sorted kets then sorted bras). The data length must equal
// the space's element count, and every value must be representable in
// the base field.
func (s *Space) FromSlice(data []complex128) (*Array, error) {
	n := s.shape.NumElements()
	if len(data) != n {
		return nil, fmt.Errorf("%w: %d values for space %s of %d elements",
			ErrShape, len(data), s, n)
	}
	f := s.session.field
	arr := newArray(s)
	for i, v := range data {
		if err := f.CheckScalar(v); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrIncompatibleField, i, err)
		}
		arr.buf.SetScalar(i, v)
	}
	return arr, nil
}

// BasisVec returns the basis array with a single 1 at the given index
// assignment. The selector must fix every factor of the space.
func (s *Space) BasisVec(sel map[Factor]any) (*Array, error) {
	fixed, err := s.resolveSelector(sel)
	if err != nil {
		return nil, err
	}
	if len(fixed) != s.Rank() {
		return nil, fmt.Errorf("%w: basis vector needs all %d factors fixed, got %d",
			ErrIndexCount, s.Rank(), len(fixed))
	}

	flat := 0
	strides := s.shape.ComputeStrides()
	for axis, pos := range fixed {
		flat += pos * strides[axis]
	}

	arr := newArray(s)
	arr.buf.SetScalar(flat, s.session.field.One())
	return arr, nil
}

// Eye returns the identity map associated with the space:
//
//   - a pure ket space S gives the identity operator on S x S.H;
//   - a pure bra space B gives the identity operator on B.H x B;
//   - a mixed space with equal ket and bra dimension gives the identity
//     matrix in that space (for distinct labels this is the permutation
//     operator that relabeling multiplies by);
//   - the scalar space gives the scalar 1.
//
// Any other space fails with ErrNonSquare.
func (s *Space) Eye() (*Array, error) {
	target := s
	switch {
	case s.IsKetSpace():
		t, err := Product(s, s.Dagger())
		if err != nil {
			return nil, err
		}
		target = t
	case s.IsBraSpace():
		t, err := Product(s.Dagger(), s)
		if err != nil {
			return nil, err
		}
		target = t
	}

	kd, bd := target.KetDim(), target.BraDim()
	if kd != bd {
		return nil, fmt.Errorf("%w: eye of %s (%d x %d)", ErrNonSquare, target, kd, bd)
	}

	arr := newArray(target)
	one := s.session.field.One()
	for i := 0; i < kd; i++ {
		// Canonical order makes flat index i*bd+j the (i, j) matrix entry.
		arr.buf.SetScalar(i*bd+i, one)
	}
	return arr, nil
}

// Diag returns the operator over |s><s| with the given values on the
// diagonal and zero elsewhere. The receiver must be bra-free and the
// values aligned with IndexIter order.
func (s *Space) Diag(vals []complex128) (*Array, error) {
	if !s.IsKetSpace() {
		return nil, fmt.Errorf("%w: diag over %s", ErrNotKetSpace, s)
	}
	d := s.Dim()
	if len(vals) != d {
		return nil, fmt.Errorf("%w: %d diagonal values for space %s of dimension %d",
			ErrShape, len(vals), s, d)
	}
	op, err := s.O()
	if err != nil {
		return nil, err
	}
	f := s.session.field
	arr := newArray(op)
	for i, v := range vals {
		if err := f.CheckScalar(v); err != nil {
			return nil, fmt.Errorf("%w: diagonal value %d: %v", ErrIncompatibleField, i, err)
		}
		arr.buf.SetScalar(i*d+i, v)
	}
	return arr, nil
}

// FullyMixed returns the maximally mixed state over |s><s|, the
// identity divided by the dimension.
func (s *Space) FullyMixed() (*Array, error) {
	if !s.IsKetSpace() {
		return nil, fmt.Errorf("%w: fully mixed state over %s", ErrNotKetSpace, s)
	}
	eye, err := s.Eye()
	if err != nil {
		return nil, err
	}
	return eye.DivScalar(complex(float64(s.Dim()), 0))
}

// IndexIter enumerates all index assignments of the space in canonical
// row-major order (last axis fastest). Each row is aligned with Axes().
// The full cartesian product is materialized, so this is meant for the
// small spaces typical of labeled tensors.
func (s *Space) IndexIter() [][]Index {
	rank := s.Rank()
	n := s.shape.NumElements()
	strides := s.shape.ComputeStrides()

	out := make([][]Index, n)
	for i := 0; i < n; i++ {
		row := make([]Index, rank)
		idx := i
		for d := 0; d < rank; d++ {
			row[d] = s.axisList[d].indices[idx/strides[d]]
			idx %= strides[d]
		}
		out[i] = row
	}
	return out
}
