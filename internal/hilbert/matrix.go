package hilbert

import "fmt"

// AsMatrix returns the array's ketDim x braDim matrix view. Because the
// canonical axis order groups kets before bras, the view is a pure
// reshape of the row-major buffer; the returned buffer is a fresh copy.
func (x *Array) AsMatrix() *Buffer {
	m := x.buf.Clone()
	m.reshapeInPlace(Shape{x.space.KetDim(), x.space.BraDim()})
	return m
}

// FromMatrix creates an array from its ketDim x braDim matrix form.
func (s *Space) FromMatrix(m *Buffer) (*Array, error) {
	if m.DType() != s.session.field.DType() {
		return nil, fmt.Errorf("%w: matrix dtype %s for %s field",
			ErrIncompatibleField, m.DType(), s.session.field.Name())
	}
	if m.NumElements() != s.shape.NumElements() {
		return nil, fmt.Errorf("%w: %d matrix elements for space %s of %d",
			ErrShape, m.NumElements(), s, s.shape.NumElements())
	}
	buf := m.Clone()
	buf.reshapeInPlace(s.shape)
	return &Array{space: s, buf: buf}, nil
}

// AsMatrixBy returns the matrix view whose rows enumerate the factors of
// rows and whose columns enumerate the factors of cols, each side in its
// own canonical axis order. The two spaces must together cover the
// array's factors exactly once; AsMatrix is the KetSpace/BraSpace
// special case. The returned buffer is a fresh copy.
func (x *Array) AsMatrixBy(rows, cols *Space) (*Buffer, error) {
	perm, err := x.space.splitAxes(rows, cols)
	if err != nil {
		return nil, err
	}
	m := x.buf
	if identityPermutation(perm) {
		m = m.Clone()
	} else {
		m = permuteAxes(m, perm)
	}
	m.reshapeInPlace(Shape{rows.shape.NumElements(), cols.shape.NumElements()})
	return m, nil
}

// FromMatrixBy creates an array over s from a matrix whose rows and
// columns enumerate the given spaces, inverting AsMatrixBy.
func (s *Space) FromMatrixBy(m *Buffer, rows, cols *Space) (*Array, error) {
	if m.DType() != s.session.field.DType() {
		return nil, fmt.Errorf("%w: matrix dtype %s for %s field",
			ErrIncompatibleField, m.DType(), s.session.field.Name())
	}
	perm, err := s.splitAxes(rows, cols)
	if err != nil {
		return nil, err
	}
	if m.NumElements() != s.shape.NumElements() {
		return nil, fmt.Errorf("%w: %d matrix elements for space %s of %d",
			ErrShape, m.NumElements(), s, s.shape.NumElements())
	}

	// The matrix axes run rows-then-cols; scatter them back into the
	// space's canonical order.
	shape := make(Shape, len(perm))
	for i, ax := range perm {
		shape[i] = s.shape[ax]
	}
	buf := m.Clone()
	buf.reshapeInPlace(shape)

	inv := make([]int, len(perm))
	for i, ax := range perm {
		inv[ax] = i
	}
	if !identityPermutation(inv) {
		buf = permuteAxes(buf, inv)
	}
	buf.reshapeInPlace(s.shape)
	return &Array{space: s, buf: buf}, nil
}

// splitAxes maps the concatenation of rows' and cols' canonical axes
// onto s's axis positions, requiring an exact two-part cover of s.
func (s *Space) splitAxes(rows, cols *Space) ([]int, error) {
	if rows.session != s.session || cols.session != s.session {
		return nil, fmt.Errorf("%w: axis split from another session", ErrIncompatibleField)
	}
	if rows.Rank()+cols.Rank() != s.Rank() {
		return nil, fmt.Errorf("%w: %s and %s do not cover %s",
			ErrSpaceMismatch, rows, cols, s)
	}

	perm := make([]int, 0, s.Rank())
	seen := make([]bool, s.Rank())
	take := func(a *Atom) error {
		ax := s.axisOf(a)
		if ax < 0 {
			return fmt.Errorf("%w: %s is not a factor of %s", ErrSpaceMismatch, a, s)
		}
		if seen[ax] {
			return fmt.Errorf("%w: %s named twice in axis split", ErrDuplicateSpace, a)
		}
		seen[ax] = true
		perm = append(perm, ax)
		return nil
	}
	for _, a := range rows.axisList {
		if err := take(a); err != nil {
			return nil, err
		}
	}
	for _, a := range cols.axisList {
		if err := take(a); err != nil {
			return nil, err
		}
	}
	return perm, nil
}

// MatrixTransform reshapes the array to its matrix view, applies f, and
// wraps the result back up, in the same space or in its dagger for
// transforms that swap ket and bra roles (adjoint, inverse, transpose).
// Every delegated linear-algebra operation goes through here.
func (x *Array) MatrixTransform(f func(m *Buffer, rows, cols int) (*Buffer, error), daggerSpace bool) (*Array, error) {
	m, err := f(x.AsMatrix(), x.space.KetDim(), x.space.BraDim())
	if err != nil {
		return nil, err
	}
	out := x.space
	if daggerSpace {
		out = x.space.Dagger()
	}
	return out.FromMatrix(m)
}

// H returns the adjoint: conjugate transpose, living in the dagger
// space.
func (x *Array) H() *Array {
	f := x.Field()
	out, err := x.MatrixTransform(func(m *Buffer, r, c int) (*Buffer, error) {
		return f.Adjoint(m, r, c), nil
	}, true)
	if err != nil {
		panic(fmt.Sprintf("adjoint: %v", err))
	}
	return out
}

// T returns the matrix transpose without conjugation, living in the
// dagger space.
func (x *Array) T() *Array {
	f := x.Field()
	out, err := x.MatrixTransform(func(m *Buffer, r, c int) (*Buffer, error) {
		return f.Adjoint(f.Conj(m), r, c), nil
	}, true)
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}
	return out
}

// I returns the matrix inverse, living in the dagger space.
func (x *Array) I() (*Array, error) {
	if err := x.requireSquare("inverse"); err != nil {
		return nil, err
	}
	f := x.Field()
	return x.MatrixTransform(func(m *Buffer, r, _ int) (*Buffer, error) {
		return f.Inverse(m, r)
	}, true)
}

// Det returns the determinant of the matrix view.
func (x *Array) Det() (complex128, error) {
	if err := x.requireSquare("determinant"); err != nil {
		return 0, err
	}
	return x.Field().Det(x.AsMatrix(), x.space.KetDim()), nil
}

// Pinv returns the Moore-Penrose pseudo-inverse, living in the dagger
// space. Singular values below rcond times the largest are treated as
// zero; DefaultRcond is the usual choice.
func (x *Array) Pinv(rcond float64) (*Array, error) {
	f := x.Field()
	return x.MatrixTransform(func(m *Buffer, r, c int) (*Buffer, error) {
		return f.PInverse(m, r, c, rcond)
	}, true)
}

// Expm returns the matrix exponential computed with a series of the
// given order; DefaultExpmOrder is the usual choice.
func (x *Array) Expm(order int) (*Array, error) {
	if err := x.requireSquare("exponential"); err != nil {
		return nil, err
	}
	f := x.Field()
	return x.MatrixTransform(func(m *Buffer, r, _ int) (*Buffer, error) {
		return f.Expm(m, r, order)
	}, false)
}

// Norm returns the norm of the flattened array with the given order;
// 2 is the Euclidean (Frobenius) norm.
func (x *Array) Norm(ord float64) float64 {
	return x.Field().Norm(x.buf, ord)
}

// NormalizeInPlace scales the array to unit 2-norm, in place.
func (x *Array) NormalizeInPlace() error {
	n := x.Norm(2)
	if n == 0 {
		return fmt.Errorf("%w: cannot normalize zero array over %s", ErrSingular, x.space)
	}
	x.Field().ScaleInPlace(x.buf, complex(1/n, 0))
	return nil
}

// Normalized returns a unit-2-norm copy.
func (x *Array) Normalized() (*Array, error) {
	out := x.Clone()
	if err := out.NormalizeInPlace(); err != nil {
		return nil, err
	}
	return out, nil
}

// requireSquare validates equal ket and bra dimension.
func (x *Array) requireSquare(op string) error {
	kd, bd := x.space.KetDim(), x.space.BraDim()
	if kd != bd {
		return fmt.Errorf("%w: %s of %s (%d x %d)", ErrNonSquare, op, x.space, kd, bd)
	}
	return nil
}

// requirePaired validates that the bra factors are exactly the duals of
// the ket factors, i.e. the array is an operator on its ket space.
func (x *Array) requirePaired(op string) error {
	if len(x.space.kets) != len(x.space.bras) {
		return fmt.Errorf("%w: %s of %s", ErrSpaceMismatch, op, x.space)
	}
	for i, k := range x.space.kets {
		if x.space.bras[i] != k.dual {
			return fmt.Errorf("%w: %s of %s (bras are not duals of kets)",
				ErrSpaceMismatch, op, x.space)
		}
	}
	return nil
}

// Trace returns the trace of an operator whose bra factors are the
// duals of its ket factors.
func (x *Array) Trace() (complex128, error) {
	if err := x.requirePaired("trace"); err != nil {
		return 0, err
	}
	kd := x.space.KetDim()
	m := x.buf
	var sum complex128
	for i := 0; i < kd; i++ {
		sum += m.GetScalar(i*kd + i)
	}
	return sum, nil
}

// Diag extracts the diagonal of an operator whose bra factors are the
// duals of its ket factors, in IndexIter order of the ket space. The
// inverse of Space.Diag for diagonal operators.
func (x *Array) Diag() ([]complex128, error) {
	if err := x.requirePaired("diag"); err != nil {
		return nil, err
	}
	kd := x.space.KetDim()
	out := make([]complex128, kd)
	for i := 0; i < kd; i++ {
		out[i] = x.buf.GetScalar(i*kd + i)
	}
	return out, nil
}

// PartialTrace traces out the named factors: for each selected atom both
// its ket and its bra must be present, their axes are summed along the
// diagonal, and the result lives in the space with both removed.
// Tracing out every factor leaves a rank-0 array equal to Trace.
func (x *Array) PartialTrace(over ...Factor) (*Array, error) {
	traced := make(map[*Atom]bool)
	for _, f := range over {
		v := f.spaceView()
		if v.session != x.space.session {
			return nil, fmt.Errorf("%w: partial trace selector from another session", ErrIncompatibleField)
		}
		for _, a := range v.axisList {
			traced[a.ketAtom()] = true
		}
	}

	ketAxes := make([]int, 0, len(traced))
	braAxes := make([]int, 0, len(traced))
	for _, a := range x.space.axisList {
		if a.bra || !traced[a] {
			continue
		}
		ka, ba := x.space.axisOf(a), x.space.axisOf(a.dual)
		if ba < 0 {
			return nil, fmt.Errorf("%w: partial trace over %s needs both %s and %s in %s",
				ErrSpaceMismatch, a, a, a.dual, x.space)
		}
		ketAxes = append(ketAxes, ka)
		braAxes = append(braAxes, ba)
		delete(traced, a)
	}
	for a := range traced {
		return nil, fmt.Errorf("%w: partial trace over %s absent from %s",
			ErrSpaceMismatch, a, x.space)
	}

	isTraced := make(map[int]bool, 2*len(ketAxes))
	for i := range ketAxes {
		isTraced[ketAxes[i]] = true
		isTraced[braAxes[i]] = true
	}
	free, freeAtoms := freeAxes(x.space, func(a *Atom) bool {
		return isTraced[x.space.axisOf(a)]
	})

	var kets, bras []*Atom
	for _, a := range freeAtoms {
		if a.bra {
			bras = append(bras, a)
		} else {
			kets = append(kets, a)
		}
	}
	outSpace, err := newSpace(x.space.session, kets, bras)
	if err != nil {
		return nil, err
	}

	out := newArray(outSpace)
	strides := x.buf.Strides()
	outStrides := out.buf.Strides()

	diagDims := make([]int, len(ketAxes))
	diagStrides := make([]int, len(ketAxes))
	diagTotal := 1
	for i := range ketAxes {
		diagDims[i] = x.buf.Shape()[ketAxes[i]]
		diagStrides[i] = strides[ketAxes[i]] + strides[braAxes[i]]
		diagTotal *= diagDims[i]
	}

	n := out.buf.NumElements()
	for i := 0; i < n; i++ {
		base := 0
		idx := i
		for d, axis := range free {
			base += (idx / outStrides[d]) * strides[axis]
			idx %= outStrides[d]
		}

		var sum complex128
		for j := 0; j < diagTotal; j++ {
			off := base
			jj := j
			for d := len(diagDims) - 1; d >= 0; d-- {
				off += (jj % diagDims[d]) * diagStrides[d]
				jj /= diagDims[d]
			}
			sum += x.buf.GetScalar(off)
		}
		out.buf.SetScalar(i, sum)
	}
	return out, nil
}

// Eig computes the eigendecomposition of an operator whose bra factors
// are the duals of its ket factors. It returns the eigenvalues and an
// array in the same space whose matrix columns are the matching right
// eigenvectors. Hermitian selects the symmetric solver, which
// guarantees real eigenvalues and orthonormal vectors.
func (x *Array) Eig(hermitian bool) ([]complex128, *Array, error) {
	if err := x.requirePaired("eigendecomposition"); err != nil {
		return nil, nil, err
	}
	n := x.space.KetDim()
	valsBuf, vecsBuf, err := x.Field().Eig(x.AsMatrix(), n, hermitian)
	if err != nil {
		return nil, nil, err
	}

	vals := make([]complex128, n)
	for i := range vals {
		vals[i] = valsBuf.GetScalar(i)
	}
	vecs, err := x.space.FromMatrix(vecsBuf)
	if err != nil {
		return nil, nil, err
	}
	return vals, vecs, nil
}
