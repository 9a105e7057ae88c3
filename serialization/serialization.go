// Package serialization provides the .dirac file format for labeled
// arrays.
//
// This package wraps the internal format implementation and exports a
// clean public API for saving and loading named sets of arrays together
// with the atom metadata needed to rebuild them in a fresh session.
//
// Example usage:
//
//	import (
//	    "github.com/dirac-go/dirac/hilbert"
//	    "github.com/dirac-go/dirac/serialization"
//	)
//
//	// Save a named set of arrays
//	err := serialization.Save("state.dirac", map[string]*hilbert.Array{
//	    "psi": psi,
//	    "rho": rho,
//	}, map[string]string{"experiment": "bell"})
//
//	// Load them into a session over the matching base field
//	s := hilbert.NewComplexSession()
//	arrays, err := serialization.Load("state.dirac", s)
//	psi := arrays["psi"]
//
//	// Or inspect a file without loading array data
//	r, err := serialization.NewReader("state.dirac")
//	defer r.Close()
//	fmt.Println(r.FieldName(), r.ArrayNames())
package serialization

import (
	"io"

	"github.com/dirac-go/dirac/hilbert"
	"github.com/dirac-go/dirac/internal/serialization"
)

// Format constants for the .dirac container.
const (
	MagicBytes      = serialization.MagicBytes
	FormatVersion   = serialization.FormatVersion
	HeaderAlignment = serialization.HeaderAlignment
	FixedHeaderSize = serialization.FixedHeaderSize
	ChecksumSize    = serialization.ChecksumSize
)

// Header is the JSON header of a .dirac file.
type Header = serialization.Header

// ArrayMeta describes one stored array: its name, its ket and bra
// atoms, and where its data lives in the file.
type ArrayMeta = serialization.ArrayMeta

// AtomMeta describes one atom well enough to re-intern it on load.
type AtomMeta = serialization.AtomMeta

// Writer writes labeled arrays in .dirac format.
type Writer = serialization.Writer

// Reader reads labeled arrays from .dirac format.
type Reader = serialization.Reader

// ReaderOptions configures checksum and validation behavior.
type ReaderOptions = serialization.ReaderOptions

// ValidationLevel controls the strictness of header validation.
type ValidationLevel = serialization.ValidationLevel

// Validation strictness levels.
const (
	ValidationStrict ValidationLevel = serialization.ValidationStrict
	ValidationNormal ValidationLevel = serialization.ValidationNormal
	ValidationNone   ValidationLevel = serialization.ValidationNone
)

// ValidationError reports a structural problem in a file header.
type ValidationError = serialization.ValidationError

// Sentinel errors, matched with errors.Is.
var (
	ErrChecksumMismatch   = serialization.ErrChecksumMismatch
	ErrInvalidMagic       = serialization.ErrInvalidMagic
	ErrUnsupportedVersion = serialization.ErrUnsupportedVersion
	ErrFieldMismatch      = serialization.ErrFieldMismatch
	ErrInvalidArrayName   = serialization.ErrInvalidArrayName
	ErrInvalidIndexValue  = serialization.ErrInvalidIndexValue
)

// Save writes a named set of arrays to a .dirac file. All arrays must
// belong to sessions over the same base field; metadata may be nil.
func Save(path string, arrays map[string]*hilbert.Array, metadata map[string]string) error {
	return serialization.Save(path, arrays, metadata)
}

// Load reads every array from a .dirac file into the given session,
// re-interning atoms by label. The session's base field must match the
// one the file was written with.
func Load(path string, session *hilbert.Session) (map[string]*hilbert.Array, error) {
	return serialization.Load(path, session)
}

// WriteTo writes a named set of arrays to an io.Writer. Useful for
// buffers and network connections.
func WriteTo(writer io.Writer, arrays map[string]*hilbert.Array, metadata map[string]string) error {
	return serialization.WriteTo(writer, arrays, metadata)
}

// ReadFrom reads a complete .dirac stream from an io.Reader, returning
// the arrays and the parsed header.
func ReadFrom(reader io.Reader, session *hilbert.Session) (map[string]*hilbert.Array, Header, error) {
	return serialization.ReadFrom(reader, session)
}

// NewWriter creates a .dirac file writer.
func NewWriter(path string) (*Writer, error) {
	return serialization.NewWriter(path)
}

// NewReader creates a .dirac file reader with strict validation.
func NewReader(path string) (*Reader, error) {
	return serialization.NewReader(path)
}

// NewReaderWithOptions creates a .dirac file reader with explicit
// options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	return serialization.NewReaderWithOptions(path, opts)
}
