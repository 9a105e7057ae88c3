// Copyright 2026 The Dirac Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package rfield provides the float64 base field for Dirac sessions.
//
// # Overview
//
// This package implements the hilbert.BaseField interface over float64
// elements. It backs real tensor algebra: the same labeled spaces and
// arrays as the complex field, without an imaginary unit.
//
// Operations the reals cannot represent fail cleanly instead of
// silently widening:
//   - ComplexUnit and the PauliY, GateS and GateT constructors return
//     hilbert.ErrIncompatibleField
//   - FractionalPhase succeeds only when the phase is +1 or -1
//   - scalars with nonzero imaginary part are rejected at the boundary
//
// Everything else works as over the complexes, with Adjoint reducing to
// the plain transpose.
//
// # Basic Usage
//
//	import (
//	    "github.com/dirac-go/dirac/field/rfield"
//	    "github.com/dirac-go/dirac/hilbert"
//	)
//
//	func main() {
//	    s := hilbert.NewSession(rfield.New())
//	    a, _ := s.Qubit("a")
//	    x, _ := a.PauliX()        // real entries, fine
//	    _, err := a.PauliY()      // hilbert.ErrIncompatibleField
//	    _, _ = x, err
//	}
//
// hilbert.NewRealSession is shorthand for the session construction.
//
// # Thread Safety
//
// The field is stateless; one value may serve any number of sessions
// and goroutines.
package rfield
