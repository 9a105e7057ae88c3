package hilbert

import "fmt"

// SVD computes the full singular value decomposition with the natural
// inner spaces: U over kets x kets.H, S rectangular-diagonal over
// kets x bras, V over bras.H x bras, such that U*S*V recovers the array
// (within floating tolerance).
func (x *Array) SVD() (u, s, v *Array, err error) {
	return x.SVDFull(x.space.KetSpace(), x.space.BraSpace().Dagger())
}

// SVDFull computes the full SVD with explicit inner spaces for the U
// and V sides. Both must be bra-free and match the ket and bra
// dimensions of the array.
func (x *Array) SVDFull(uInner, vInner *Space) (u, s, v *Array, err error) {
	kd, bd := x.space.KetDim(), x.space.BraDim()
	if err := checkInner(uInner, kd, "U"); err != nil {
		return nil, nil, nil, err
	}
	if err := checkInner(vInner, bd, "V"); err != nil {
		return nil, nil, nil, err
	}

	um, sv, vm, err := x.Field().SVD(x.AsMatrix(), kd, bd, true)
	if err != nil {
		return nil, nil, nil, err
	}
	return x.wrapSVD(um, sv, vm, uInner, vInner)
}

// SVDThin computes the reduced SVD, with square S over the inner space.
// A nil inner space is chosen automatically: the smaller of the ket and
// bra side wins, equal sizes resolve to the ket side, and only the
// truly square case (ket space equal to the dagger of the bra space)
// is ambiguous and must be given explicitly.
func (x *Array) SVDThin(inner *Space) (u, s, v *Array, err error) {
	kd, bd := x.space.KetDim(), x.space.BraDim()
	if inner == nil {
		ks, bs := x.space.KetSpace(), x.space.BraSpace()
		switch {
		case ks.Equal(bs.Dagger()):
			return nil, nil, nil, fmt.Errorf(
				"%w: singular values of square %s", ErrAmbiguousSpace, x.space)
		case bd < kd:
			inner = bs.Dagger()
		default:
			inner = ks
		}
	}

	minDim := kd
	if bd < kd {
		minDim = bd
	}
	if err := checkInner(inner, minDim, "singular value"); err != nil {
		return nil, nil, nil, err
	}

	um, sv, vm, err := x.Field().SVD(x.AsMatrix(), kd, bd, false)
	if err != nil {
		return nil, nil, nil, err
	}
	return x.wrapSVD(um, sv, vm, inner, inner)
}

// checkInner validates an inner space: no bra factors, and the right
// total dimension.
func checkInner(inner *Space, dim int, side string) error {
	if inner == nil {
		return fmt.Errorf("%w: nil %s inner space", ErrNotKetSpace, side)
	}
	if len(inner.bras) > 0 {
		return fmt.Errorf("%w: %s inner space %s has bra factors", ErrNotKetSpace, side, inner)
	}
	if inner.KetDim() != dim {
		return fmt.Errorf("%w: %s inner space %s has dimension %d, need %d",
			ErrShape, side, inner, inner.KetDim(), dim)
	}
	return nil
}

// wrapSVD binds the field's raw factors to their labeled spaces. The
// inner flat enumeration is shared by construction, so U*S*V contracts
// back to the original array.
func (x *Array) wrapSVD(um, sv, vm *Buffer, uInner, vInner *Space) (u, s, v *Array, err error) {
	uSpace, err := Product(x.space.KetSpace(), uInner.Dagger())
	if err != nil {
		return nil, nil, nil, err
	}
	sSpace, err := Product(uInner, vInner.Dagger())
	if err != nil {
		return nil, nil, nil, err
	}
	vSpace, err := Product(vInner, x.space.BraSpace())
	if err != nil {
		return nil, nil, nil, err
	}

	u, err = uSpace.FromMatrix(um)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err = vSpace.FromMatrix(vm)
	if err != nil {
		return nil, nil, nil, err
	}

	s = newArray(sSpace)
	cols := sSpace.BraDim()
	nsv := sv.NumElements()
	for i := 0; i < nsv; i++ {
		s.buf.SetScalar(i*cols+i, sv.GetScalar(i))
	}
	return u, s, v, nil
}
