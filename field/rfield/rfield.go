// Copyright 2026 The Dirac Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package rfield

import (
	"github.com/dirac-go/dirac/hilbert"
	internalrfield "github.com/dirac-go/dirac/internal/field/rfield"
)

// Field is the float64 base field.
//
// It mirrors the complex field kernel for kernel, rejecting only what
// the reals cannot represent.
type Field = internalrfield.RealField

// Compile-time check that Field implements hilbert.BaseField.
var _ hilbert.BaseField = (*Field)(nil)

// New creates the float64 field.
//
// Example:
//
//	s := hilbert.NewSession(rfield.New())
func New() *Field {
	return internalrfield.New()
}
