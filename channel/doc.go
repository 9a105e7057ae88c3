// Copyright 2026 The Dirac Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package channel provides quantum channels over labeled operator
// spaces.
//
// # Overview
//
// A channel maps operators to operators. The package offers two layers:
//   - Superoperator: an arbitrary linear map between operator spaces,
//     stored as its matrix in the |i><j| basis
//   - CPMap: a completely positive map carried as a Stinespring
//     isometry, with Kraus operators, the adjoint and complementary
//     channels, and a CPTP check derived from it
//
// Standard constructions ship ready-made: Unitary, Identity, Noisy and
// TotallyNoisy (depolarizing), Decohere, Erasure, Transposer, and
// random CPTP channels for testing.
//
// # Basic Usage
//
//	import (
//	    "github.com/dirac-go/dirac/channel"
//	    "github.com/dirac-go/dirac/hilbert"
//	)
//
//	func main() {
//	    s := hilbert.NewComplexSession()
//	    q, _ := s.Qubit("q")
//
//	    E, _ := channel.Noisy(q, 0.25)       // 25% depolarizing
//	    rho, _ := q.Space().RandomDensity()
//	    out, _ := E.Apply(rho)
//	    _ = out
//	}
//
// # Superoperators and CP Maps
//
// Every CPMap applies through the same Apply method a Superoperator
// has; UpgradeToCPMap goes the other way, factoring a superoperator's
// Choi matrix and failing with ErrNotCompletelyPositive when no
// isometry exists:
//
//	T, _ := channel.Transposer(q)
//	_, err := T.UpgradeToCPMap()   // transposition is not CP
//
// Linear combinations (Add, Sub, MulScalar, Neg, Scale) and Compose
// work at both layers. CPMap environments get fresh unique labels, so
// independently built channels always compose.
//
// # Verification
//
// IsCPTP checks complete positivity and trace preservation within a
// tolerance; DefaultTolerance suits channels built from exact or
// decomposition-grade arithmetic.
package channel
