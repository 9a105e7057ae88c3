// Copyright 2026 The Dirac Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hilbert provides labeled tensor algebra over finite-dimensional
// Hilbert spaces.
//
// # Overview
//
// Arrays in this package carry their axes as named Hilbert-space factors
// rather than as numbered dimensions. The package provides:
//   - Session: an interning table tying labels to factor spaces
//   - Atom: one named ket or bra factor with a fixed index set
//   - Space: an ordered tensor product of distinct atoms
//   - Array: a dense array whose axes are bound to a space's atoms
//   - ContractionSelector: explicit control over which axes contract
//
// Because axes are matched by label, operator application, partial traces
// and tensor products need no axis arithmetic from the caller:
// multiplying an operator on "a" into a state on "a" x "b" contracts the
// "a" axes and leaves "b" alone, whatever their positions.
//
// # Basic Usage
//
//	import "github.com/dirac-go/dirac/hilbert"
//
//	func main() {
//	    s := hilbert.NewComplexSession()
//
//	    q, _ := s.Qubit("q")
//	    psi, _ := q.Ket(0)       // |0>
//	    h, _ := q.Hadamard()
//
//	    out, _ := h.Mul(psi)     // (|0> + |1>)/sqrt(2)
//	    amp, _ := out.At(1)      // amplitude of |1>
//	    _ = amp
//	}
//
// # Sessions and Atoms
//
// All atoms are interned in a Session: asking twice for the same label
// returns the identical *Atom, and asking with a conflicting index set
// fails instead of silently creating a second space with the same name.
// Atoms from different sessions never mix; operations that would combine
// them return ErrIncompatibleField.
//
// Index sets may be integer ranges (Qubit, Qudit) or arbitrary mixtures
// of integers and symbolic names (IndexedSpace):
//
//	spin, _ := s.IndexedSpace("spin", "up", "down")
//	up, _ := spin.Ket("up")
//
// # Duality
//
// Every atom has a bra dual, reached with Dual (atom level) or H (space
// and array level). A ket space holds column-like axes, a bra space
// row-like ones, and operators live on mixed spaces such as
//
//	op, _ := hilbert.Product(a, a.H())   // |a><a| operators
//
// Array.H is the dagger: it conjugates elements and swaps every factor
// with its dual. Mul contracts dagger-matched pairs by default, so
// bra.Mul(ket) is an inner product and op.Mul(ket) applies the operator.
//
// # Base Fields
//
// A session computes over a BaseField, which supplies the element type
// and the numeric kernels. Two implementations ship with the module:
//   - field/cfield: complex128, the usual field for quantum mechanics
//   - field/rfield: float64, for real algebra
//
// NewComplexSession and NewRealSession construct sessions over them
// directly. Operations a field cannot represent (the imaginary unit on
// the reals, for instance) fail with ErrIncompatibleField.
//
// # Thread Safety
//
// Sessions are safe for concurrent use. Arrays are not synchronized;
// treat each array as owned by one goroutine unless it is no longer
// written.
package hilbert
