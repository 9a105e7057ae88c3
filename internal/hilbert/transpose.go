package hilbert

import "fmt"

// Transpose flips ket and bra roles. With no arguments every factor is
// flipped (full transpose); otherwise only the named factors are. A ket
// and its dual bra are equivalent selectors, so transposing |a><a| over
// either toggles that one pairing (a partial transpose).
//
// The space of the result has the selected factors' dualities flipped;
// the buffer is the input's axes permuted into the new canonical order,
// with no numeric change. Selecting an atom absent from the array (in
// both dualities) is an error.
func (x *Array) Transpose(subspace ...Factor) (*Array, error) {
	toggle := make(map[*Atom]bool)
	if len(subspace) == 0 {
		for _, a := range x.space.axisList {
			toggle[a.ketAtom()] = true
		}
	} else {
		for _, f := range subspace {
			v := f.spaceView()
			if v.session != x.space.session {
				return nil, fmt.Errorf("%w: transpose selector from another session", ErrIncompatibleField)
			}
			for _, a := range v.axisList {
				k := a.ketAtom()
				if !x.space.Contains(k) && !x.space.Contains(k.dual) {
					return nil, fmt.Errorf("%w: %s not part of %s", ErrSpaceMismatch, a, x.space)
				}
				toggle[k] = true
			}
		}
	}

	// Flip the selected factors axis by axis; untouched atoms keep
	// their role.
	flipped := make([]*Atom, x.Rank())
	var kets, bras []*Atom
	for i, a := range x.space.axisList {
		out := a
		if toggle[a.ketAtom()] {
			out = a.dual
		}
		flipped[i] = out
		if out.bra {
			bras = append(bras, out)
		} else {
			kets = append(kets, out)
		}
	}

	outSpace, err := newSpace(x.space.session, kets, bras)
	if err != nil {
		return nil, err
	}

	perm := make([]int, outSpace.Rank())
	for i, a := range outSpace.axisList {
		pos := -1
		for j, fa := range flipped {
			if fa == a {
				pos = j
				break
			}
		}
		if pos < 0 {
			panic(fmt.Sprintf("transpose: atom %s missing from flipped axes", a))
		}
		perm[i] = pos
	}

	buf := x.buf
	if identityPermutation(perm) {
		buf = buf.Clone()
	} else {
		buf = permuteAxes(buf, perm)
	}
	return &Array{space: outSpace, buf: buf}, nil
}

// Relabel replaces the factors of from with the factors of to, pairing
// them in canonical order and preserving numeric content. Both spaces
// must be pure ket or both pure bra; the general mixed case would need a
// partial transpose with no single right meaning, so it is rejected.
//
// Relabeling is defined as multiplication by the permutation identity:
// (to x from.H).Eye() on the left for kets, (from.H x to).Eye() on the
// right for bras. That also rules out dimension mismatches, because
// the identity of a non-square space does not exist.
func (x *Array) Relabel(from, to Factor) (*Array, error) {
	fs, ts := from.spaceView(), to.spaceView()

	switch {
	case len(fs.kets) == 0 && len(ts.kets) == 0:
		es, err := Product(fs.Dagger(), ts)
		if err != nil {
			return nil, err
		}
		eye, err := es.Eye()
		if err != nil {
			return nil, err
		}
		return x.Mul(eye)

	case len(fs.bras) == 0 && len(ts.bras) == 0:
		es, err := Product(ts, fs.Dagger())
		if err != nil {
			return nil, err
		}
		eye, err := es.Eye()
		if err != nil {
			return nil, err
		}
		return eye.Mul(x)

	default:
		return nil, fmt.Errorf("%w: relabel %s -> %s (must be both kets or both bras)",
			ErrBraKetMixture, fs, ts)
	}
}
