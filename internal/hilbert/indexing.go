package hilbert

import "fmt"

// resolveSelector maps a Factor-keyed index assignment onto physical
// axes, returning axis -> position within that axis's index set. A key
// naming a single atom takes a bare index value; a multi-factor space
// key takes a []any aligned with its own canonical axis order.
func (s *Space) resolveSelector(sel map[Factor]any) (map[int]int, error) {
	fixed := make(map[int]int, len(sel))

	assign := func(a *Atom, v any) error {
		axis := s.axisOf(a)
		if axis < 0 {
			return fmt.Errorf("%w: %s is not a factor of %s", ErrSpaceMismatch, a, s)
		}
		if _, dup := fixed[axis]; dup {
			return fmt.Errorf("%w: %s fixed twice", ErrIndexCount, a)
		}
		pos, err := a.indexPos(v)
		if err != nil {
			return err
		}
		fixed[axis] = pos
		return nil
	}

	for f, v := range sel {
		view := f.spaceView()
		switch view.Rank() {
		case 0:
			return nil, fmt.Errorf("%w: scalar space as selector key", ErrSpaceMismatch)
		case 1:
			if err := assign(view.axisList[0], v); err != nil {
				return nil, err
			}
		default:
			vals, ok := v.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: multi-factor key %s needs a []any of %d values, got %T",
					ErrIndexCount, view, view.Rank(), v)
			}
			if len(vals) != view.Rank() {
				return nil, fmt.Errorf("%w: %d values for %d factors of %s",
					ErrIndexCount, len(vals), view.Rank(), view)
			}
			for i, a := range view.axisList {
				if err := assign(a, vals[i]); err != nil {
					return nil, err
				}
			}
		}
	}
	return fixed, nil
}

// flatIndex resolves a full positional index tuple (canonical axis
// order) to the buffer's flat offset.
func (x *Array) flatIndex(vals []any) (int, error) {
	if len(vals) != x.Rank() {
		return 0, fmt.Errorf("%w: %d values for rank-%d array over %s",
			ErrIndexCount, len(vals), x.Rank(), x.space)
	}
	flat := 0
	strides := x.buf.Strides()
	for i, v := range vals {
		pos, err := x.space.axisList[i].indexPos(v)
		if err != nil {
			return 0, err
		}
		flat += pos * strides[i]
	}
	return flat, nil
}

// At reads one element by a full index tuple in canonical axis order.
// Index values may be ints, strings, or Index values; a rank-1 array
// takes a single bare value and a rank-0 array takes no values.
func (x *Array) At(vals ...any) (complex128, error) {
	flat, err := x.flatIndex(vals)
	if err != nil {
		return 0, err
	}
	return x.buf.GetScalar(flat), nil
}

// SetAt writes one element by a full index tuple, mutating the array in
// place. The rank-0 case (no index values) overwrites the whole scalar.
func (x *Array) SetAt(v complex128, vals ...any) error {
	flat, err := x.flatIndex(vals)
	if err != nil {
		return err
	}
	if err := x.Field().CheckScalar(v); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleField, err)
	}
	x.buf.SetScalar(flat, v)
	return nil
}

// Slice fixes the factors named in the selector and returns the array
// over the remaining free factors. Fixing every factor yields a rank-0
// array whose Item() is the selected element.
func (x *Array) Slice(sel map[Factor]any) (*Array, error) {
	fixed, err := x.space.resolveSelector(sel)
	if err != nil {
		return nil, err
	}

	freeAxes, sub := x.freeSplit(fixed)
	out := newArray(sub)
	x.eachSlicePos(fixed, freeAxes, out.buf.Shape(), func(src, i int) {
		out.buf.SetScalar(i, x.buf.GetScalar(src))
	})
	return out, nil
}

// SetSlice assigns into the sub-array selected by the selector, mutating
// the receiver in place. The value is either an *Array over exactly the
// free factors or a scalar broadcast across them; with every factor
// fixed, a scalar value is the single-element write-through case.
func (x *Array) SetSlice(sel map[Factor]any, value any) error {
	fixed, err := x.space.resolveSelector(sel)
	if err != nil {
		return err
	}
	freeAxes, sub := x.freeSplit(fixed)

	if v, isArray := value.(*Array); isArray {
		if v.space.session != sub.session {
			return fmt.Errorf("%w: slice assignment across sessions", ErrIncompatibleField)
		}
		if !v.space.Equal(sub) {
			return fmt.Errorf("%w: assigning %s into slot %s", ErrSpaceMismatch, v.space, sub)
		}
		x.eachSlicePos(fixed, freeAxes, sub.Shape(), func(dst, i int) {
			x.buf.SetScalar(dst, v.buf.GetScalar(i))
		})
		return nil
	}

	c, ok := toComplex(value)
	if !ok {
		return fmt.Errorf("%w: cannot assign %T into %s", ErrShape, value, sub)
	}
	if err := x.Field().CheckScalar(c); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleField, err)
	}
	x.eachSlicePos(fixed, freeAxes, sub.Shape(), func(dst, _ int) {
		x.buf.SetScalar(dst, c)
	})
	return nil
}

// freeSplit partitions the axes for a partial index assignment: the
// positions left free, in canonical order, and the space they span.
func (x *Array) freeSplit(fixed map[int]int) ([]int, *Space) {
	free := make([]int, 0, x.Rank()-len(fixed))
	sub := &Space{session: x.space.session}
	for i, a := range x.space.axisList {
		if _, ok := fixed[i]; ok {
			continue
		}
		free = append(free, i)
		if a.bra {
			sub.bras = append(sub.bras, a)
		} else {
			sub.kets = append(sub.kets, a)
		}
	}
	sub.initDerived()
	return free, sub
}

// eachSlicePos visits every element of the selected sub-array, passing
// the receiver's flat position and the sub-array's row-major ordinal.
// Free axes keep their canonical relative order, so the sub-array's
// enumeration maps directly onto strided positions in the receiver.
func (x *Array) eachSlicePos(fixed map[int]int, freeAxes []int, subShape Shape, visit func(pos, i int)) {
	strides := x.buf.Strides()
	base := 0
	for axis, pos := range fixed {
		base += pos * strides[axis]
	}

	subStrides := subShape.ComputeStrides()
	n := subShape.NumElements()
	for i := 0; i < n; i++ {
		pos := base
		idx := i
		for d, axis := range freeAxes {
			pos += (idx / subStrides[d]) * strides[axis]
			idx %= subStrides[d]
		}
		visit(pos, i)
	}
}

// toComplex widens supported scalar kinds to complex128.
func toComplex(v any) (complex128, bool) {
	switch x := v.(type) {
	case complex128:
		return x, true
	case complex64:
		return complex128(x), true
	case float64:
		return complex(x, 0), true
	case float32:
		return complex(float64(x), 0), true
	case int:
		return complex(float64(x), 0), true
	case int64:
		return complex(float64(x), 0), true
	default:
		return 0, false
	}
}
