package hilbert

import (
	"fmt"
	"sort"
)

// selectorKind discriminates the ways a contraction set can be given.
type selectorKind int

const (
	selectorDefault selectorKind = iota
	selectorAtoms
	selectorSpace
)

// ContractionSelector names the ket atoms to contract in a Tensordot.
// The default selector contracts the dagger-matched intersection of the
// left operand's bras with the right operand's kets; the explicit forms
// name the set directly, as atoms or as a pure ket space.
type ContractionSelector struct {
	kind  selectorKind
	atoms []*Atom
	space *Space
}

// DefaultContraction selects the dagger-matched intersection.
func DefaultContraction() ContractionSelector {
	return ContractionSelector{kind: selectorDefault}
}

// ContractAtoms selects an explicit set of ket atoms. An empty set makes
// the tensordot an outer product.
func ContractAtoms(atoms ...*Atom) ContractionSelector {
	return ContractionSelector{kind: selectorAtoms, atoms: atoms}
}

// ContractSpace selects the ket set of a pure ket space.
func ContractSpace(sp *Space) ContractionSelector {
	return ContractionSelector{kind: selectorSpace, space: sp}
}

// resolve produces the contraction set for the given operands, validated
// per the selector's form.
func (cs ContractionSelector) resolve(x, y *Array) ([]*Atom, error) {
	switch cs.kind {
	case selectorDefault:
		var set []*Atom
		for _, k := range y.space.kets {
			if x.space.Contains(k.dual) {
				set = append(set, k)
			}
		}
		return set, nil

	case selectorAtoms:
		for _, a := range cs.atoms {
			if a.bra {
				return nil, fmt.Errorf("%w: contraction set must consist of kets, got %s",
					ErrNotKetSpace, a)
			}
		}
		return append([]*Atom(nil), cs.atoms...), nil

	case selectorSpace:
		if len(cs.space.bras) > 0 {
			return nil, fmt.Errorf("%w: contraction space %s must consist of kets",
				ErrNotKetSpace, cs.space)
		}
		return append([]*Atom(nil), cs.space.kets...), nil

	default:
		panic(fmt.Sprintf("contract: unknown selector kind %d", cs.kind))
	}
}

// Mul is tensor multiplication with the default contraction set: the
// generalization of matrix multiplication to labeled factors. For
// scalar broadcasting see MulScalar.
func (x *Array) Mul(y *Array) (*Array, error) {
	return x.Tensordot(y, DefaultContraction())
}

// Tensordot contracts x with y over the selected ket atoms. For each
// selected atom c, x's bra axis for c.Dual() pairs with y's ket axis for
// c and the shared index is summed, matrix-multiplication style. The
// result space is
//
//	x.kets  x  (x.bras - dagger(C))  x  (y.kets - C)  x  y.bras
//
// and the result buffer is permuted into that space's canonical axis
// order. An empty contraction set gives the outer product.
func (x *Array) Tensordot(y *Array, sel ContractionSelector) (*Array, error) {
	if x.space.session != y.space.session {
		return nil, fmt.Errorf("%w: tensordot across sessions", ErrIncompatibleField)
	}

	contracted, err := sel.resolve(x, y)
	if err != nil {
		return nil, err
	}
	// Canonical order fixes the pairing tie-break.
	sort.Slice(contracted, func(i, j int) bool {
		return contracted[i].Compare(contracted[j]) < 0
	})

	inC := make(map[*Atom]bool, len(contracted))
	xAxes := make([]int, len(contracted))
	yAxes := make([]int, len(contracted))
	for i, c := range contracted {
		if inC[c] {
			return nil, fmt.Errorf("%w: %s selected twice for contraction", ErrDuplicateSpace, c)
		}
		inC[c] = true

		xAxes[i] = x.space.axisOf(c.dual)
		if xAxes[i] < 0 {
			return nil, fmt.Errorf("%w: %s not among bras of %s", ErrSpaceMismatch, c.dual, x.space)
		}
		yAxes[i] = y.space.axisOf(c)
		if yAxes[i] < 0 {
			return nil, fmt.Errorf("%w: %s not among kets of %s", ErrSpaceMismatch, c, y.space)
		}
	}

	// Free axes keep their canonical order within each operand, so the
	// raw product comes out as [x kets][x bras uncontracted][y kets
	// uncontracted][y bras].
	xFreeAxes, xFreeAtoms := freeAxes(x.space, func(a *Atom) bool { return a.bra && inC[a.dual] })
	yFreeAxes, yFreeAtoms := freeAxes(y.space, func(a *Atom) bool { return !a.bra && inC[a] })

	retSpace, err := tensordotSpace(x.space, y.space, xFreeAtoms, yFreeAtoms)
	if err != nil {
		return nil, err
	}

	raw := contractBuffers(x, y, xFreeAxes, xAxes, yAxes, yFreeAxes)

	// Reorder the raw axes into the result space's canonical order.
	rawAtoms := make([]*Atom, 0, len(xFreeAtoms)+len(yFreeAtoms))
	rawAtoms = append(rawAtoms, xFreeAtoms...)
	rawAtoms = append(rawAtoms, yFreeAtoms...)
	if len(rawAtoms) != retSpace.Rank() {
		panic(fmt.Sprintf("tensordot: %d raw axes for rank-%d result %s",
			len(rawAtoms), retSpace.Rank(), retSpace))
	}

	perm := make([]int, retSpace.Rank())
	for i, a := range retSpace.axisList {
		pos := -1
		for j, r := range rawAtoms {
			if r == a {
				pos = j
				break
			}
		}
		if pos < 0 {
			panic(fmt.Sprintf("tensordot: result atom %s missing from raw axes", a))
		}
		perm[i] = pos
	}

	out := raw
	if !identityPermutation(perm) {
		out = permuteAxes(raw, perm)
	}
	return &Array{space: retSpace, buf: out}, nil
}

// freeAxes lists the axes of sp not excluded by drop, with their atoms.
func freeAxes(sp *Space, drop func(*Atom) bool) ([]int, []*Atom) {
	axes := make([]int, 0, sp.Rank())
	atoms := make([]*Atom, 0, sp.Rank())
	for i, a := range sp.axisList {
		if drop(a) {
			continue
		}
		axes = append(axes, i)
		atoms = append(atoms, a)
	}
	return axes, atoms
}

// tensordotSpace assembles the result space from the operands' free
// atoms. Label collisions between the operands surface here as
// duplicate-factor errors.
func tensordotSpace(xs, ys *Space, xFree, yFree []*Atom) (*Space, error) {
	var kets, bras []*Atom
	for _, a := range xFree {
		if a.bra {
			bras = append(bras, a)
		} else {
			kets = append(kets, a)
		}
	}
	for _, a := range yFree {
		if a.bra {
			bras = append(bras, a)
		} else {
			kets = append(kets, a)
		}
	}
	sp, err := newSpace(xs.session, kets, bras)
	if err != nil {
		return nil, fmt.Errorf("tensordot of %s with %s: %w", xs, ys, err)
	}
	return sp, nil
}

// contractBuffers performs the numeric contraction: both operands are
// permuted so the contracted axes are adjacent, the pairing becomes a
// single (m x k) by (k x n) matrix product, and the raw result keeps the
// free axes of x followed by the free axes of y.
func contractBuffers(x, y *Array, xFree, xContracted, yContracted, yFree []int) *Buffer {
	f := x.Field()

	xPerm := permuteAxes(x.buf, append(append([]int(nil), xFree...), xContracted...))
	yPerm := permuteAxes(y.buf, append(append([]int(nil), yContracted...), yFree...))

	m, k, n := 1, 1, 1
	for _, ax := range xFree {
		m *= x.buf.Shape()[ax]
	}
	for _, ax := range xContracted {
		k *= x.buf.Shape()[ax]
	}
	for _, ax := range yFree {
		n *= y.buf.Shape()[ax]
	}

	prod := f.MatMul(xPerm, yPerm, m, k, n)

	rawShape := make(Shape, 0, len(xFree)+len(yFree))
	for _, ax := range xFree {
		rawShape = append(rawShape, x.buf.Shape()[ax])
	}
	for _, ax := range yFree {
		rawShape = append(rawShape, y.buf.Shape()[ax])
	}
	prod.reshapeInPlace(rawShape)
	return prod
}
