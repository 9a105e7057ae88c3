// Copyright 2026 The Dirac Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hilbert provides the public API for labeled tensor algebra in
// the Dirac framework.
//
// The package defines the core types for label-addressed dense arrays:
//   - Session: atom interning over one base field
//   - Atom, Space: named factors and their tensor products
//   - Array: a dense array whose axes are bound to factors by label
//   - BaseField: the numeric backend interface
//
// Example:
//
//	s := hilbert.NewComplexSession()
//	q, _ := s.Qubit("q")
//	psi, _ := q.Ket(0)
//	h, _ := q.Hadamard()
//	out, _ := h.Mul(psi)
package hilbert

import (
	"github.com/dirac-go/dirac/internal/field/cfield"
	"github.com/dirac-go/dirac/internal/field/rfield"
	"github.com/dirac-go/dirac/internal/hilbert"
)

// Type aliases for public API

// Session owns the atom-interning table for one base field.
// Atom identity is meaningful only within a session.
type Session = hilbert.Session

// Atom is one named ket or bra factor with a fixed index set.
type Atom = hilbert.Atom

// Space is an ordered tensor product of distinct atoms.
type Space = hilbert.Space

// Array is a dense array whose axes are bound to a space's atoms.
type Array = hilbert.Array

// Factor is anything usable where a space is expected: an *Atom or a
// *Space.
type Factor = hilbert.Factor

// Index is one member of an atom's index set, either numeric or
// symbolic.
type Index = hilbert.Index

// Buffer is the flat dense storage beneath an array.
type Buffer = hilbert.Buffer

// Shape represents the dimensions of a buffer.
// Example: Shape{2, 3, 4} is a 3D buffer with dimensions 2x3x4.
type Shape = hilbert.Shape

// DataType represents the element type of a buffer.
type DataType = hilbert.DataType

// Data type constants.
const (
	Complex128 DataType = hilbert.Complex128
	Float64    DataType = hilbert.Float64
)

// BaseField is the numeric backend a session computes over.
// Implementations live in field/cfield and field/rfield.
type BaseField = hilbert.BaseField

// ContractionSelector names the ket atoms a Tensordot contracts.
type ContractionSelector = hilbert.ContractionSelector

// Default parameters for decomposition-backed operations.
const (
	DefaultExpmOrder = hilbert.DefaultExpmOrder
	DefaultRcond     = hilbert.DefaultRcond
)

// Sentinel errors, matched with errors.Is.
var (
	ErrMismatchedIndexSet = hilbert.ErrMismatchedIndexSet
	ErrDuplicateSpace     = hilbert.ErrDuplicateSpace
	ErrBraKetMixture      = hilbert.ErrBraKetMixture
	ErrNotKetSpace        = hilbert.ErrNotKetSpace
	ErrSpaceMismatch      = hilbert.ErrSpaceMismatch
	ErrIndexCount         = hilbert.ErrIndexCount
	ErrIndexValue         = hilbert.ErrIndexValue
	ErrShape              = hilbert.ErrShape
	ErrNonSquare          = hilbert.ErrNonSquare
	ErrSingular           = hilbert.ErrSingular
	ErrAmbiguousSpace     = hilbert.ErrAmbiguousSpace
	ErrIncompatibleField  = hilbert.ErrIncompatibleField
	ErrNotImplemented     = hilbert.ErrNotImplemented
)

// Session constructors

// NewSession creates an empty session over the given base field.
//
// Example:
//
//	f := cfield.New()
//	s := hilbert.NewSession(f)
func NewSession(f BaseField) *Session {
	return hilbert.NewSession(f)
}

// NewComplexSession creates a session over the complex128 field.
//
// Example:
//
//	s := hilbert.NewComplexSession()
//	q, err := s.Qubit("q")
func NewComplexSession() *Session {
	return hilbert.NewSession(cfield.New())
}

// NewRealSession creates a session over the float64 field.
func NewRealSession() *Session {
	return hilbert.NewSession(rfield.New())
}

// Construction functions

// Product builds the space that is the tensor product of the given
// factors. Factors must share a session and may not repeat within one
// duality role.
//
// Example:
//
//	a, _ := s.Qubit("a")
//	b, _ := s.Qubit("b")
//	op, err := hilbert.Product(a, b, a.H())  // |a,b><a| maps
func Product(factors ...Factor) (*Space, error) {
	return hilbert.Product(factors...)
}

// NewBuffer allocates a zero-filled buffer with the given shape and
// element type.
//
// This is a low-level function. Most users should create arrays through
// a Space (Zeros, FromSlice, Eye) instead.
func NewBuffer(shape Shape, dtype DataType) (*Buffer, error) {
	return hilbert.NewBuffer(shape, dtype)
}

// IntIndex makes a numeric index value.
func IntIndex(n int) Index {
	return hilbert.IntIndex(n)
}

// SymIndex makes a symbolic (named) index value.
//
// Example:
//
//	spin, _ := s.IndexedSpace("spin", "up", "down")
//	_ = hilbert.SymIndex("up")
func SymIndex(s string) Index {
	return hilbert.SymIndex(s)
}

// Contraction selectors

// DefaultContraction selects the dagger-matched intersection of the left
// operand's bras with the right operand's kets. This is what Mul uses.
func DefaultContraction() ContractionSelector {
	return hilbert.DefaultContraction()
}

// ContractAtoms selects an explicit set of ket atoms to contract. An
// empty set makes the tensordot an outer product.
//
// Example:
//
//	z, err := x.Tensordot(y, hilbert.ContractAtoms(a, b))
func ContractAtoms(atoms ...*Atom) ContractionSelector {
	return hilbert.ContractAtoms(atoms...)
}

// ContractSpace selects the ket set of a pure ket space.
func ContractSpace(sp *Space) ContractionSelector {
	return hilbert.ContractSpace(sp)
}
