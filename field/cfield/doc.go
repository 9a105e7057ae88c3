// Copyright 2026 The Dirac Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cfield provides the complex128 base field for Dirac sessions.
//
// # Overview
//
// This package implements the hilbert.BaseField interface over
// complex128 elements with:
//   - Pure Go element-wise kernels
//   - BLAS-backed matrix multiplication
//   - LAPACK-backed Hermitian eigendecomposition
//   - Native LU, Gauss-Jordan, scaling-and-squaring and one-sided
//     Jacobi kernels for Det, Inverse, Expm and SVD
//
// The complex field is the usual choice for quantum mechanics: it has
// an imaginary unit, all fractional phases exp(2*pi*i*k/n), and closed
// square roots, so every gate constructor and channel operation is
// available.
//
// # Basic Usage
//
//	import (
//	    "github.com/dirac-go/dirac/field/cfield"
//	    "github.com/dirac-go/dirac/hilbert"
//	)
//
//	func main() {
//	    f := cfield.New()
//	    s := hilbert.NewSession(f)
//
//	    q, _ := s.Qubit("q")
//	    y, _ := q.PauliY()   // needs the imaginary unit
//	    _ = y
//	}
//
// hilbert.NewComplexSession is shorthand for the two calls above.
//
// # Thread Safety
//
// The field is stateless; one value may serve any number of sessions
// and goroutines.
package cfield
