// Package channel implements quantum channels on top of the labeled
// tensor core: linear superoperators between operator spaces, and the
// completely positive maps that represent physical evolution.
//
// A Superoperator maps operators over one ket space to operators over
// another. It is stored as the raw matrix of the map in the |i><j|
// basis, so arbitrary linear maps (transposition included) are
// representable. A CPMap additionally carries a Stinespring isometry
// J: in -> out x env whose environment trace realizes the map,
//
//	E(rho) = Tr_env( J rho J^H )
//
// which gives direct access to Kraus operators, the complementary
// channel, and the CPTP check.
//
// Environment spaces are created with fresh uuid-suffixed labels, so
// composing independently constructed maps never collides on an
// environment factor.
//
// Example:
//
//	s := hilbert.NewSession(cfield.New())
//	ha, _ := s.Qubit("a")
//	E, _ := channel.Noisy(ha, 0.25)
//	rho, _ := ha.Space().RandomDensity()
//	out, _ := E.Apply(rho)
package channel
