package hilbert

import "fmt"

// qubitOp builds the zeroed operator array over |a><a| for the
// two-dimensional gate constructors.
func (a *Atom) qubitOp(name string) (*Array, error) {
	if a.Dim() != 2 {
		return nil, fmt.Errorf("%w: %s needs a qubit, %s has dimension %d",
			ErrNotImplemented, name, a, a.Dim())
	}
	op, err := a.O()
	if err != nil {
		return nil, err
	}
	return op.Zeros(), nil
}

// PauliX returns the Pauli X operator over |a><a|. Only defined for
// two-dimensional atoms.
func (a *Atom) PauliX() (*Array, error) {
	x, err := a.qubitOp("PauliX")
	if err != nil {
		return nil, err
	}
	one := a.session.field.One()
	x.buf.SetScalar(1, one)
	x.buf.SetScalar(2, one)
	return x, nil
}

// PauliY returns the Pauli Y operator over |a><a|. Only defined for
// two-dimensional atoms, and only over fields with an imaginary unit.
func (a *Atom) PauliY() (*Array, error) {
	y, err := a.qubitOp("PauliY")
	if err != nil {
		return nil, err
	}
	j, err := a.session.field.ComplexUnit()
	if err != nil {
		return nil, err
	}
	y.buf.SetScalar(1, -j)
	y.buf.SetScalar(2, j)
	return y, nil
}

// PauliZ returns the generalized Pauli Z operator over |a><a|,
// diag(w^0, w^1, ...) with w the primitive root of unity of the atom's
// dimension. For qubits this is the familiar diag(1, -1).
func (a *Atom) PauliZ() (*Array, error) {
	return a.PauliZGen(1)
}

// PauliZGen returns Z raised to the given power, computed directly as
// diag(w^0, w^order, w^2*order, ...). Useful for atoms larger than
// qubits, where the powers of Z are distinct.
func (a *Atom) PauliZGen(order int) (*Array, error) {
	op, err := a.O()
	if err != nil {
		return nil, err
	}
	n := a.Dim()
	z := op.Zeros()
	for i := 0; i < n; i++ {
		ph, err := a.session.field.FractionalPhase(i*order, n)
		if err != nil {
			return nil, err
		}
		z.buf.SetScalar(i*n+i, ph)
	}
	return z, nil
}

// Hadamard returns the Hadamard operator over |a><a|. Only defined for
// two-dimensional atoms.
func (a *Atom) Hadamard() (*Array, error) {
	h, err := a.qubitOp("Hadamard")
	if err != nil {
		return nil, err
	}
	inv := 1 / a.session.field.Sqrt(2)
	h.buf.SetScalar(0, inv)
	h.buf.SetScalar(1, inv)
	h.buf.SetScalar(2, inv)
	h.buf.SetScalar(3, -inv)
	return h, nil
}

// GateS returns the phase gate diag(1, i) over |a><a|. Only defined
// for two-dimensional atoms, and only over fields with an imaginary
// unit.
func (a *Atom) GateS() (*Array, error) {
	s, err := a.qubitOp("GateS")
	if err != nil {
		return nil, err
	}
	j, err := a.session.field.ComplexUnit()
	if err != nil {
		return nil, err
	}
	s.buf.SetScalar(0, a.session.field.One())
	s.buf.SetScalar(3, j)
	return s, nil
}

// GateT returns the pi/8 gate diag(1, exp(i*pi/4)) over |a><a|. Only
// defined for two-dimensional atoms.
func (a *Atom) GateT() (*Array, error) {
	t, err := a.qubitOp("GateT")
	if err != nil {
		return nil, err
	}
	ph, err := a.session.field.FractionalPhase(1, 8)
	if err != nil {
		return nil, err
	}
	t.buf.SetScalar(0, a.session.field.One())
	t.buf.SetScalar(3, ph)
	return t, nil
}
