package hilbert

import "errors"

// Sentinel errors returned by space and array operations.
// Callers match them with errors.Is; messages carry the "hilbert:" prefix
// so wrapped errors remain attributable.
var (
	// ErrMismatchedIndexSet is returned when an atom is requested under a
	// label that is already interned with a different index set.
	ErrMismatchedIndexSet = errors.New("hilbert: mismatched index set for label")

	// ErrDuplicateSpace is returned when the same factor would appear twice
	// in one duality role of a space.
	ErrDuplicateSpace = errors.New("hilbert: duplicated factor in space")

	// ErrBraKetMixture is returned when an operation requires factors of a
	// single duality but was given a mixture (for example a bra atom in a
	// contraction set, or relabeling between a ket and a bra space).
	ErrBraKetMixture = errors.New("hilbert: mixed bra/ket factors not allowed here")

	// ErrNotKetSpace is returned when an operation requires a pure ket space.
	ErrNotKetSpace = errors.New("hilbert: not a ket space")

	// ErrSpaceMismatch is returned when an operation is given an array or
	// factor whose space does not match what the operation requires.
	ErrSpaceMismatch = errors.New("hilbert: space mismatch")

	// ErrIndexCount is returned when the number of supplied index values
	// does not match the number of array axes.
	ErrIndexCount = errors.New("hilbert: wrong number of indices")

	// ErrIndexValue is returned when a supplied index value is not a member
	// of the corresponding atom's index set.
	ErrIndexValue = errors.New("hilbert: index value not in index set")

	// ErrShape is returned when buffer data does not match the shape
	// implied by a space.
	ErrShape = errors.New("hilbert: shape mismatch")

	// ErrNonSquare is returned by matrix operations that require equal ket
	// and bra dimension.
	ErrNonSquare = errors.New("hilbert: non-square matrix")

	// ErrSingular is returned when a matrix has no inverse, or when a zero
	// array cannot be normalized.
	ErrSingular = errors.New("hilbert: singular matrix")

	// ErrAmbiguousSpace is returned when an inner space cannot be chosen
	// automatically and the caller must supply one.
	ErrAmbiguousSpace = errors.New("hilbert: ambiguous inner space, specify explicitly")

	// ErrIncompatibleField is returned when operands belong to different
	// sessions or a scalar is not representable in the base field.
	ErrIncompatibleField = errors.New("hilbert: incompatible base field or session")

	// ErrNotImplemented is returned by gate constructors on atoms whose
	// dimension does not admit the gate.
	ErrNotImplemented = errors.New("hilbert: not implemented for this dimension")
)
