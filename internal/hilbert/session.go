package hilbert

import (
	"fmt"
	"sync"
)

// Session owns the atom-interning table for one base field. Atom identity
// (pointer equality) is meaningful only within a session; mixing atoms
// from different sessions is an error wherever they would meet.
//
// Interning is what makes label-based equality safe: requesting the same
// label twice returns the same *Atom, and requesting it with a different
// index set fails instead of silently forking identity.
//
// A session is safe for concurrent use; the single mutex guards the
// interning table and all lazy atom derivations.
type Session struct {
	field BaseField

	mu    sync.Mutex
	atoms map[string]*Atom // keyed by label, always the ket variant
}

// NewSession creates an empty session over the given base field.
func NewSession(f BaseField) *Session {
	return &Session{
		field: f,
		atoms: make(map[string]*Atom),
	}
}

// Field returns the session's base field.
func (s *Session) Field() BaseField {
	return s.field
}

// IndexedSpace interns the ket atom with the given label and index set.
// Index values may be ints, strings, or Index values.
//
// Repeated requests for the same label return the identical atom;
// requesting it with a different index set fails with
// ErrMismatchedIndexSet.
func (s *Session) IndexedSpace(label string, indices ...any) (*Atom, error) {
	return s.IndexedSpaceLatex(label, label, indices...)
}

// IndexedSpaceLatex is IndexedSpace with an explicit display label.
func (s *Session) IndexedSpaceLatex(label, latexLabel string, indices ...any) (*Atom, error) {
	idx, err := toIndices(indices)
	if err != nil {
		return nil, err
	}
	return s.intern(label, latexLabel, idx)
}

// Qubit interns a two-dimensional atom with index set {0, 1}.
func (s *Session) Qubit(label string) (*Atom, error) {
	return s.intern(label, label, intRange(2))
}

// Qudit interns a dim-dimensional atom with index set {0, ..., dim-1}.
func (s *Session) Qudit(label string, dim int) (*Atom, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: qudit dimension %d (must be >= 1)", ErrShape, dim)
	}
	return s.intern(label, label, intRange(dim))
}

// ScalarSpace returns the empty space, home of rank-0 arrays.
func (s *Session) ScalarSpace() *Space {
	sp := &Space{session: s}
	sp.initDerived()
	return sp
}

// intern returns the ket atom for (label, indices), creating the
// cross-linked ket/bra pair on first request.
func (s *Session) intern(label, latexLabel string, indices []Index) (*Atom, error) {
	if label == "" {
		return nil, fmt.Errorf("%w: empty label", ErrMismatchedIndexSet)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: empty index set for %q", ErrMismatchedIndexSet, label)
	}
	pos := make(map[Index]int, len(indices))
	for i, ix := range indices {
		if _, dup := pos[ix]; dup {
			return nil, fmt.Errorf("%w: duplicate index %v in index set for %q",
				ErrMismatchedIndexSet, ix, label)
		}
		pos[ix] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.atoms[label]; ok {
		if !sameIndices(cached.indices, indices) {
			return nil, fmt.Errorf("%w: %q already exists with indices %v, requested %v",
				ErrMismatchedIndexSet, label, cached.indices, indices)
		}
		if cached.latex != latexLabel {
			return nil, fmt.Errorf("%w: %q already exists with display label %q, requested %q",
				ErrMismatchedIndexSet, label, cached.latex, latexLabel)
		}
		return cached, nil
	}

	ket := &Atom{
		label:   label,
		latex:   latexLabel,
		indices: indices,
		posOf:   pos,
		session: s,
	}
	bra := &Atom{
		label:   label,
		latex:   latexLabel,
		indices: indices,
		posOf:   pos,
		bra:     true,
		session: s,
	}
	// Cross-link once; a.Dual().Dual() is a, by identity.
	ket.dual = bra
	bra.dual = ket

	s.atoms[label] = ket
	return ket, nil
}

// primeOf returns the memoized primed sibling of a, creating it on first
// request. Called with a's label-decorated parameters; a may be ket or
// bra and the result has the same duality.
func (s *Session) primeOf(a *Atom) (*Atom, error) {
	s.mu.Lock()
	already := a.prime
	s.mu.Unlock()
	if already != nil {
		return already, nil
	}

	ket, err := s.intern(a.label+"'", a.latex+"'", a.indices)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a.prime == nil {
		// Publish on both duality variants so Dual and Prime commute.
		if a.bra {
			a.prime = ket.dual
			a.dual.prime = ket
		} else {
			a.prime = ket
			a.dual.prime = ket.dual
		}
	}
	return a.prime, nil
}

func sameIndices(a, b []Index) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
