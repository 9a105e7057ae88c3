// Copyright 2026 The Dirac Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package channel provides the public API for quantum channels in the
// Dirac framework.
//
// The package defines two layers of operator-to-operator maps:
//   - Superoperator: arbitrary linear maps between operator spaces
//   - CPMap: completely positive maps via Stinespring isometries
//
// Example:
//
//	s := hilbert.NewComplexSession()
//	q, _ := s.Qubit("q")
//	E, _ := channel.Noisy(q, 0.25)
//	out, _ := E.Apply(rho)
package channel

import (
	"github.com/dirac-go/dirac/hilbert"
	"github.com/dirac-go/dirac/internal/channel"
)

// Type aliases for public API

// Superoperator is a linear map between operator spaces, stored as its
// matrix in the |i><j| basis.
type Superoperator = channel.Superoperator

// CPMap is a completely positive map carried as a Stinespring isometry
// J: in -> out x env, applied as E(rho) = Tr_env(J rho J^H).
type CPMap = channel.CPMap

// DefaultTolerance is the numeric tolerance for CPTP and linearity
// checks.
const DefaultTolerance = channel.DefaultTolerance

// Sentinel errors, matched with errors.Is.
var (
	ErrNonLinear             = channel.ErrNonLinear
	ErrNotCompletelyPositive = channel.ErrNotCompletelyPositive
	ErrNotTracePreserving    = channel.ErrNotTracePreserving
	ErrProbability           = channel.ErrProbability
)

// Superoperator constructors

// New creates a superoperator from its raw matrix over the given input
// and output spaces. The matrix is (outDim^2 x inDim^2), row-major in
// the |i><j| operator basis.
func New(in, out hilbert.Factor, m *hilbert.Buffer) (*Superoperator, error) {
	return channel.New(in, out, m)
}

// FromFunction samples a function on the operator basis of in and
// returns the superoperator it defines. The function is then checked
// against a random operator; a nonlinear function fails with
// ErrNonLinear.
//
// Example:
//
//	E, err := channel.FromFunction(q, func(x *hilbert.Array) (*hilbert.Array, error) {
//	    ux, err := u.Mul(x)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return ux.Mul(u.H())
//	})
func FromFunction(in hilbert.Factor, f func(*hilbert.Array) (*hilbert.Array, error)) (*Superoperator, error) {
	return channel.FromFunction(in, f)
}

// Transposer returns the transposition map on the given space. It is
// linear but not completely positive.
func Transposer(spc hilbert.Factor) (*Superoperator, error) {
	return channel.Transposer(spc)
}

// RandomSuperoperator returns a superoperator with a random matrix.
func RandomSuperoperator(in, out hilbert.Factor) (*Superoperator, error) {
	return channel.RandomSuperoperator(in, out)
}

// CPMap constructors

// NewCPMap creates a CP map from a Stinespring isometry J mapping the
// input space into output x env. J must be an isometry for the map to
// be trace preserving; NewCPMap does not check, AssertCPTP does.
func NewCPMap(J *hilbert.Array, env hilbert.Factor) (*CPMap, error) {
	return channel.NewCPMap(J, env)
}

// FromMatrix creates a CP map from a raw superoperator matrix by
// factoring its Choi matrix. Fails with ErrNotCompletelyPositive when
// the matrix does not describe a CP map.
func FromMatrix(m *hilbert.Buffer, in, out hilbert.Factor) (*CPMap, error) {
	return channel.FromMatrix(m, in, out)
}

// FromKraus creates the CP map with the given Kraus operators. All
// operators must share one operator space.
//
// Example:
//
//	E, err := channel.FromKraus(k0, k1)
func FromKraus(ops ...*hilbert.Array) (*CPMap, error) {
	return channel.FromKraus(ops...)
}

// RandomCPMap returns a random CPTP map with an environment of the
// given dimension.
func RandomCPMap(in, out hilbert.Factor, envDim int) (*CPMap, error) {
	return channel.RandomCPMap(in, out, envDim)
}

// Standard channels

// Unitary returns the channel rho -> u rho u^H.
func Unitary(u *hilbert.Array) (*CPMap, error) {
	return channel.Unitary(u)
}

// Identity returns the identity channel on the given space.
func Identity(spc hilbert.Factor) (*CPMap, error) {
	return channel.Identity(spc)
}

// TotallyNoisy returns the channel that replaces every input with the
// fully mixed state.
func TotallyNoisy(spc hilbert.Factor) (*CPMap, error) {
	return channel.TotallyNoisy(spc)
}

// Noisy returns the depolarizing channel that with probability p
// replaces the input with the fully mixed state and otherwise passes
// it through. p outside [0, 1] fails with ErrProbability.
func Noisy(spc hilbert.Factor, p float64) (*CPMap, error) {
	return channel.Noisy(spc, p)
}

// Decohere returns the channel that zeroes all off-diagonal elements
// in the standard basis.
func Decohere(spc hilbert.Factor) (*CPMap, error) {
	return channel.Decohere(spc)
}

// Erasure returns the channel that with probability p replaces the
// input by an erasure flag state in an enlarged output space.
func Erasure(spc hilbert.Factor, p float64) (*CPMap, error) {
	return channel.Erasure(spc, p)
}
