package hilbert

// BaseField defines the numeric backend a session computes over.
// The core owns labels, spaces and axis bookkeeping; everything that
// touches element values or matrix decompositions goes through this
// interface.
//
// Implementations:
//   - field/cfield: complex128 (the usual field for quantum mechanics)
//   - field/rfield: float64 (real algebra, no complex unit)
//
// Buffer-level methods treat their operands as flat element slices and
// panic on dtype or length mismatch; the core validates shapes before
// calling. Decomposition methods return errors only for data-dependent
// failures (singular input, non-convergence); structural validation is
// the core's job.
type BaseField interface {
	// Metadata.
	Name() string
	DType() DataType

	// Scalar constants and helpers.
	Zero() complex128
	One() complex128
	// ComplexUnit returns the imaginary unit, or an error for fields
	// that have none.
	ComplexUnit() (complex128, error)
	// FractionalPhase returns exp(2*pi*i*k/n), or an error for fields
	// that cannot represent it.
	FractionalPhase(k, n int) (complex128, error)
	Sqrt(x complex128) complex128
	// CheckScalar reports whether v is representable in this field
	// (for example, a real field rejects nonzero imaginary parts).
	CheckScalar(v complex128) error

	// Element-wise buffer operations. Results are freshly allocated.
	Add(a, b *Buffer) *Buffer
	Sub(a, b *Buffer) *Buffer
	Neg(x *Buffer) *Buffer
	Scale(x *Buffer, s complex128) *Buffer
	Conj(x *Buffer) *Buffer
	AddInPlace(dst, src *Buffer)
	SubInPlace(dst, src *Buffer)
	ScaleInPlace(x *Buffer, s complex128)
	// AllClose reports element-wise equality within absolute tolerance.
	AllClose(a, b *Buffer, tol float64) bool

	// MatMul computes the (m x k) by (k x n) product of two row-major
	// flat buffers, returning a row-major (m x n) buffer.
	MatMul(a, b *Buffer, m, k, n int) *Buffer

	// Matrix primitives over row-major (rows x cols) buffers.
	Det(a *Buffer, n int) complex128
	Inverse(a *Buffer, n int) (*Buffer, error)
	PInverse(a *Buffer, rows, cols int, rcond float64) (*Buffer, error)
	// Expm computes the matrix exponential using a series of the given
	// order.
	Expm(a *Buffer, n, order int) (*Buffer, error)
	// Eig returns eigenvalues (length n) and right eigenvectors
	// (n x n, column j pairing with value j).
	Eig(a *Buffer, n int, hermitian bool) (vals, vecs *Buffer, err error)
	// SVD returns u, s, vh with a = u * diag(s) * vh. s has length
	// min(rows, cols); full selects full versus thin u and vh.
	SVD(a *Buffer, rows, cols int, full bool) (u, s, vh *Buffer, err error)
	// Norm computes the vector norm of the flattened buffer with the
	// given order (2 is the Frobenius/Euclidean norm, +Inf the max
	// absolute value).
	Norm(x *Buffer, ord float64) float64
	// Adjoint returns the conjugate transpose of a (rows x cols)
	// buffer as a (cols x rows) buffer.
	Adjoint(a *Buffer, rows, cols int) *Buffer
}

// Default parameters for decomposition-backed operations.
const (
	// DefaultExpmOrder is the series order used by Array.Expm.
	DefaultExpmOrder = 7

	// DefaultRcond is the singular-value cutoff ratio used by
	// Array.Pinv.
	DefaultRcond = 1e-15
)
