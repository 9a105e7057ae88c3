// Copyright 2026 The Dirac Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cfield

import (
	"github.com/dirac-go/dirac/hilbert"
	internalcfield "github.com/dirac-go/dirac/internal/field/cfield"
)

// Field is the complex128 base field.
//
// It supplies every numeric kernel a session needs: element-wise
// arithmetic, matrix products, and the decompositions behind Eig, SVD,
// Expm and Pinv.
type Field = internalcfield.ComplexField

// Compile-time check that Field implements hilbert.BaseField.
var _ hilbert.BaseField = (*Field)(nil)

// New creates the complex128 field.
//
// Example:
//
//	import (
//	    "github.com/dirac-go/dirac/field/cfield"
//	    "github.com/dirac-go/dirac/hilbert"
//	)
//
//	func main() {
//	    s := hilbert.NewSession(cfield.New())
//	    q, _ := s.Qubit("q")
//	}
func New() *Field {
	return internalcfield.New()
}
