package hilbert

import (
	"fmt"
	"sort"
	"strings"
)

// Factor is anything that can participate in a space product: an Atom or
// a Space.
type Factor interface {
	spaceView() *Space
}

// Space is an immutable product of ket and bra atoms. Identity is
// set-based (which atoms, not in what order), while the derived sorted
// lists fix the canonical axis order for every array bound to the space:
// sorted kets first, then sorted bras.
//
// The empty space is legal and hosts rank-0 (scalar) arrays.
type Space struct {
	kets     []*Atom // sorted by Atom.Compare
	bras     []*Atom // sorted by Atom.Compare
	axisList []*Atom // kets then bras; shared, read-only
	shape    Shape   // ket dims then bra dims
	session  *Session
}

// initDerived sorts the factor lists and computes the cached axis list
// and shape. Must be called exactly once after the lists are filled.
func (s *Space) initDerived() {
	sort.Slice(s.kets, func(i, j int) bool { return s.kets[i].Compare(s.kets[j]) < 0 })
	sort.Slice(s.bras, func(i, j int) bool { return s.bras[i].Compare(s.bras[j]) < 0 })

	s.axisList = make([]*Atom, 0, len(s.kets)+len(s.bras))
	s.axisList = append(s.axisList, s.kets...)
	s.axisList = append(s.axisList, s.bras...)

	s.shape = make(Shape, len(s.axisList))
	for i, a := range s.axisList {
		s.shape[i] = a.Dim()
	}
}

// newSpace builds a validated space from explicit factor lists. The same
// atom twice in one duality role is a duplicate-factor error; atoms from
// different sessions cannot share a space.
func newSpace(session *Session, kets, bras []*Atom) (*Space, error) {
	seen := make(map[*Atom]bool, len(kets)+len(bras))
	byKey := make(map[string]*Atom, len(kets)+len(bras))
	check := func(a *Atom) error {
		if a.session != session {
			return fmt.Errorf("%w: atom %s belongs to a different session", ErrIncompatibleField, a)
		}
		if seen[a] {
			return fmt.Errorf("%w: %s appears twice", ErrDuplicateSpace, a)
		}
		seen[a] = true
		key := a.label
		if a.bra {
			key += "*"
		}
		if prev, ok := byKey[key]; ok && prev != a {
			return fmt.Errorf("%w: two distinct atoms labeled %q", ErrDuplicateSpace, a.label)
		}
		byKey[key] = a
		return nil
	}
	for _, a := range kets {
		if a.bra {
			return nil, fmt.Errorf("%w: bra atom %s in ket role", ErrBraKetMixture, a)
		}
		if err := check(a); err != nil {
			return nil, err
		}
	}
	for _, a := range bras {
		if !a.bra {
			return nil, fmt.Errorf("%w: ket atom %s in bra role", ErrBraKetMixture, a)
		}
		if err := check(a); err != nil {
			return nil, err
		}
	}

	sp := &Space{
		session: session,
		kets:    append([]*Atom(nil), kets...),
		bras:    append([]*Atom(nil), bras...),
	}
	sp.initDerived()
	return sp, nil
}

// Session returns the owning session.
func (s *Space) Session() *Session {
	return s.session
}

// Kets returns the sorted ket atoms. The returned slice is shared and
// must not be modified.
func (s *Space) Kets() []*Atom {
	return s.kets
}

// Bras returns the sorted bra atoms. The returned slice is shared and
// must not be modified.
func (s *Space) Bras() []*Atom {
	return s.bras
}

// Axes returns the canonical axis list: sorted kets followed by sorted
// bras. The returned slice is shared and must not be modified.
func (s *Space) Axes() []*Atom {
	return s.axisList
}

// Shape returns the dimensions in canonical axis order.
func (s *Space) Shape() Shape {
	return s.shape
}

// Rank returns the number of factors.
func (s *Space) Rank() int {
	return len(s.axisList)
}

// KetDim returns the product of ket dimensions (1 for a pure bra or
// scalar space).
func (s *Space) KetDim() int {
	d := 1
	for _, a := range s.kets {
		d *= a.Dim()
	}
	return d
}

// BraDim returns the product of bra dimensions.
func (s *Space) BraDim() int {
	d := 1
	for _, a := range s.bras {
		d *= a.Dim()
	}
	return d
}

// Dim returns the total dimension KetDim * BraDim.
func (s *Space) Dim() int {
	return s.KetDim() * s.BraDim()
}

// IsKetSpace reports whether the space has at least one ket and no bras.
func (s *Space) IsKetSpace() bool {
	return len(s.bras) == 0 && len(s.kets) > 0
}

// IsBraSpace reports whether the space has at least one bra and no kets.
func (s *Space) IsBraSpace() bool {
	return len(s.kets) == 0 && len(s.bras) > 0
}

// IsScalar reports whether the space has no factors.
func (s *Space) IsScalar() bool {
	return len(s.kets) == 0 && len(s.bras) == 0
}

// Contains reports whether the atom is one of the space's factors.
func (s *Space) Contains(a *Atom) bool {
	return s.axisOf(a) >= 0
}

// axisOf returns the canonical axis index of a, or -1.
func (s *Space) axisOf(a *Atom) int {
	for i, x := range s.axisList {
		if x == a {
			return i
		}
	}
	return -1
}

// Equal reports set equality of the factor sets. Because the lists are
// canonically sorted and atoms are interned, this is an element-wise
// identity comparison.
func (s *Space) Equal(other *Space) bool {
	if s.session != other.session ||
		len(s.kets) != len(other.kets) ||
		len(s.bras) != len(other.bras) {
		return false
	}
	for i := range s.kets {
		if s.kets[i] != other.kets[i] {
			return false
		}
	}
	for i := range s.bras {
		if s.bras[i] != other.bras[i] {
			return false
		}
	}
	return true
}

// spaceView implements Factor.
func (s *Space) spaceView() *Space {
	return s
}

// Product composes factors into their tensor-product space: the union of
// all ket sets and of all bra sets. The same atom appearing in several
// operands is collapsed silently; two distinct atoms with the same label
// and duality are a duplicate-factor error, and factors from different
// sessions cannot be combined.
func Product(factors ...Factor) (*Space, error) {
	if len(factors) == 0 {
		return nil, fmt.Errorf("%w: product of no factors", ErrSpaceMismatch)
	}

	session := factors[0].spaceView().session
	ketSet := make(map[*Atom]bool)
	braSet := make(map[*Atom]bool)

	for _, f := range factors {
		v := f.spaceView()
		if v.session != session {
			return nil, fmt.Errorf("%w: factors from different sessions", ErrIncompatibleField)
		}
		for _, a := range v.kets {
			ketSet[a] = true
		}
		for _, a := range v.bras {
			braSet[a] = true
		}
	}

	kets := make([]*Atom, 0, len(ketSet))
	for a := range ketSet {
		kets = append(kets, a)
	}
	bras := make([]*Atom, 0, len(braSet))
	for a := range braSet {
		bras = append(bras, a)
	}

	return newSpace(session, kets, bras)
}

// Product returns the product of s with the given factors.
func (s *Space) Product(others ...Factor) (*Space, error) {
	all := make([]Factor, 0, len(others)+1)
	all = append(all, s)
	all = append(all, others...)
	return Product(all...)
}

// Difference returns s with every factor of other removed. Kets and
// bras are distinct factors here: subtracting |a> leaves <a| in place.
// Removing an absent factor is a no-op (set semantics).
func (s *Space) Difference(other *Space) *Space {
	drop := make(map[*Atom]bool, other.Rank())
	for _, a := range other.axisList {
		drop[a] = true
	}

	out := &Space{session: s.session}
	for _, a := range s.kets {
		if !drop[a] {
			out.kets = append(out.kets, a)
		}
	}
	for _, a := range s.bras {
		if !drop[a] {
			out.bras = append(out.bras, a)
		}
	}
	out.initDerived()
	return out
}

// Dagger returns the adjoint space: every ket replaced by its dual bra
// and vice versa. Dagger is an involution.
func (s *Space) Dagger() *Space {
	out := &Space{session: s.session}
	for _, a := range s.bras {
		out.kets = append(out.kets, a.dual)
	}
	for _, a := range s.kets {
		out.bras = append(out.bras, a.dual)
	}
	out.initDerived()
	return out
}

// O returns the operator space s x s.Dagger() of a pure ket space.
func (s *Space) O() (*Space, error) {
	if !s.IsKetSpace() {
		return nil, fmt.Errorf("%w: O() requires a pure ket space, got %s", ErrNotKetSpace, s)
	}
	return Product(s, s.Dagger())
}

// KetSpace returns the space of s's ket factors only.
func (s *Space) KetSpace() *Space {
	out := &Space{session: s.session, kets: s.kets}
	out.initDerived()
	return out
}

// BraSpace returns the space of s's bra factors only.
func (s *Space) BraSpace() *Space {
	out := &Space{session: s.session, bras: s.bras}
	out.initDerived()
	return out
}

// String renders the space in Dirac notation, e.g. |a,b><c|.
func (s *Space) String() string {
	if s.IsScalar() {
		return "(scalar)"
	}

	var sb strings.Builder
	if len(s.kets) > 0 {
		sb.WriteByte('|')
		for i, a := range s.kets {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(a.label)
		}
		sb.WriteByte('>')
	}
	if len(s.bras) > 0 {
		sb.WriteByte('<')
		for i, a := range s.bras {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(a.label)
		}
		sb.WriteByte('|')
	}
	return sb.String()
}
