// Copyright 2026 The Dirac Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package field names the base fields a session can be built over.
//
// It re-exports the numeric kernel contract as BaseField and provides
// one accessor per implementation, so callers that pick a field at
// runtime need a single import:
//
//	var f field.BaseField
//	if realOnly {
//	    f = field.Real()
//	} else {
//	    f = field.Complex()
//	}
//	s := hilbert.NewSession(f)
//
// Callers committed to one field can import its package directly; see
// field/cfield and field/rfield.
package field

import (
	"github.com/dirac-go/dirac/field/cfield"
	"github.com/dirac-go/dirac/field/rfield"
	"github.com/dirac-go/dirac/hilbert"
)

// BaseField is the numeric kernel contract a session delegates to.
type BaseField = hilbert.BaseField

// Complex returns the complex128 field.
func Complex() *cfield.Field {
	return cfield.New()
}

// Real returns the float64 field.
func Real() *rfield.Field {
	return rfield.New()
}
