package hilbert

import (
	"fmt"
	"strings"
)

// Atom is an indivisible factor space: a label, a finite ordered index
// set, and a duality flag (ket or bra). Atoms are interned per session,
// so equality is pointer identity and two atoms sharing a label always
// share an index set.
//
// Atoms are immutable after interning. The dual variant is created
// together with the atom and cross-linked; the primed variant is derived
// lazily on first request.
type Atom struct {
	label   string
	latex   string
	indices []Index
	posOf   map[Index]int
	bra     bool
	dual    *Atom
	prime   *Atom // guarded by session.mu until published
	session *Session
}

// Label returns the atom's label.
func (a *Atom) Label() string {
	return a.label
}

// LatexLabel returns the atom's display label.
func (a *Atom) LatexLabel() string {
	return a.latex
}

// Indices returns a copy of the atom's ordered index set.
func (a *Atom) Indices() []Index {
	return append([]Index(nil), a.indices...)
}

// Dim returns the size of the atom's index set.
func (a *Atom) Dim() int {
	return len(a.indices)
}

// IsBra reports the atom's duality.
func (a *Atom) IsBra() bool {
	return a.bra
}

// Session returns the owning session.
func (a *Atom) Session() *Session {
	return a.session
}

// Dual returns the paired opposite-duality atom. The pairing is
// identity-stable: a.Dual().Dual() == a.
func (a *Atom) Dual() *Atom {
	return a.dual
}

// Prime returns the label-decorated sibling atom (label + "'"), creating
// and memoizing it on first request. Prime commutes with Dual:
// a.Dual().Prime() == a.Prime().Dual().
func (a *Atom) Prime() (*Atom, error) {
	return a.session.primeOf(a)
}

// ketAtom returns the dagger-free representative: the atom itself if it
// is a ket, otherwise its dual.
func (a *Atom) ketAtom() *Atom {
	if a.bra {
		return a.dual
	}
	return a
}

// Compare orders atoms by label, then duality (ket before bra).
// It defines the canonical axis order used everywhere an axis list
// must be deterministic.
func (a *Atom) Compare(other *Atom) int {
	if c := strings.Compare(a.label, other.label); c != 0 {
		return c
	}
	switch {
	case a.bra == other.bra:
		return 0
	case other.bra:
		return -1
	default:
		return 1
	}
}

// indexPos resolves an index value to its position in the index set.
func (a *Atom) indexPos(v any) (int, error) {
	ix, err := toIndex(v)
	if err != nil {
		return 0, err
	}
	p, ok := a.posOf[ix]
	if !ok {
		return 0, fmt.Errorf("%w: %v not in index set of %s", ErrIndexValue, ix, a)
	}
	return p, nil
}

// Space returns the one-factor space containing only this atom.
func (a *Atom) Space() *Space {
	sp := &Space{session: a.session}
	if a.bra {
		sp.bras = []*Atom{a}
	} else {
		sp.kets = []*Atom{a}
	}
	sp.initDerived()
	return sp
}

// spaceView implements Factor.
func (a *Atom) spaceView() *Space {
	return a.Space()
}

// O returns the operator space |a><a| of a ket atom.
func (a *Atom) O() (*Space, error) {
	return a.Space().O()
}

// H returns the space of the dual atom.
func (a *Atom) H() *Space {
	return a.dual.Space()
}

// Ket returns the basis ket with 1 at the given index. The atom must be
// a ket.
func (a *Atom) Ket(idx any) (*Array, error) {
	if a.bra {
		return nil, fmt.Errorf("%w: Ket on bra atom %s", ErrNotKetSpace, a)
	}
	return a.Space().BasisVec(map[Factor]any{a: idx})
}

// Bra returns the basis bra <idx| of a ket atom.
func (a *Atom) Bra(idx any) (*Array, error) {
	if a.bra {
		return nil, fmt.Errorf("%w: Bra on bra atom %s", ErrNotKetSpace, a)
	}
	return a.dual.Space().BasisVec(map[Factor]any{a.dual: idx})
}

// String renders the atom in Dirac notation: |a> for kets, <a| for bras.
func (a *Atom) String() string {
	if a.bra {
		return "<" + a.label + "|"
	}
	return "|" + a.label + ">"
}
