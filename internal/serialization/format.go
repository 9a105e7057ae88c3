package serialization

import (
	"fmt"
	"math"
	"time"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// Format constants.
const (
	MagicBytes      = "DIRC"
	FormatVersion   = 1    // Fixed header with SHA-256 checksum
	HeaderAlignment = 64   // Align array data to 64 bytes
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size (32 bytes)
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
)

// Data type string constants for serialization.
const (
	DTypeComplex128 = "complex128"
	DTypeFloat64    = "float64"
)

// Flags for the .dirac format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
)

// Header represents the JSON header in a .dirac file.
type Header struct {
	FormatVersion int               `json:"format_version"` // Version of the .dirac format
	DiracVersion  string            `json:"dirac_version"`  // Version of dirac that created this file
	Field         string            `json:"field"`          // Base field name ("complex128", "float64")
	CreatedAt     time.Time         `json:"created_at"`     // When the file was created
	Arrays        []ArrayMeta       `json:"arrays"`         // Array metadata
	Metadata      map[string]string `json:"metadata"`       // Custom metadata
}

// ArrayMeta describes one labeled array in the .dirac file. Kets and Bras
// list the factors of its space in canonical order; Shape is the resulting
// axis shape (ket dims then bra dims).
type ArrayMeta struct {
	Name   string     `json:"name"`   // Array name (e.g., "rho", "epr")
	Kets   []AtomMeta `json:"kets"`   // Ket factors of the space
	Bras   []AtomMeta `json:"bras"`   // Bra factors of the space
	DType  string     `json:"dtype"`  // Element type (e.g., "complex128")
	Shape  []int      `json:"shape"`  // Axis shape
	Offset int64      `json:"offset"` // Offset in the data section (bytes from start of array data)
	Size   int64      `json:"size"`   // Size in bytes
}

// AtomMeta describes one atom: everything needed to re-intern it in a
// session. Index set entries are ints or strings.
type AtomMeta struct {
	Label   string `json:"label"`           // Atom label
	Latex   string `json:"latex,omitempty"` // Display label, when it differs from Label
	Indices []any  `json:"indices"`         // Ordered index set
}

// dtypeToString converts hilbert.DataType to its string representation.
func dtypeToString(dt hilbert.DataType) string {
	switch dt {
	case hilbert.Complex128:
		return DTypeComplex128
	case hilbert.Float64:
		return DTypeFloat64
	default:
		return "unknown"
	}
}

// stringToDtype converts a string representation to hilbert.DataType.
func stringToDtype(s string) (hilbert.DataType, bool) {
	switch s {
	case DTypeComplex128:
		return hilbert.Complex128, true
	case DTypeFloat64:
		return hilbert.Float64, true
	default:
		return 0, false
	}
}

// atomMeta captures an atom's identity for the header. The duality is
// carried by which list (Kets or Bras) the entry lives in, so bras are
// recorded under their plain label.
func atomMeta(a *hilbert.Atom) AtomMeta {
	m := AtomMeta{Label: a.Label()}
	if lx := a.LatexLabel(); lx != a.Label() {
		m.Latex = lx
	}
	idx := a.Indices()
	m.Indices = make([]any, len(idx))
	for i, ix := range idx {
		if ix.IsSym() {
			m.Indices[i] = ix.Sym()
		} else {
			m.Indices[i] = ix.Int()
		}
	}
	return m
}

// indexValues normalizes the JSON-decoded index set back into values that
// the session's interner accepts. JSON numbers arrive as float64; only
// integral values are valid indices.
func (m AtomMeta) indexValues() ([]any, error) {
	vals := make([]any, len(m.Indices))
	for i, raw := range m.Indices {
		switch v := raw.(type) {
		case string:
			vals[i] = v
		case float64:
			if v != math.Trunc(v) || math.Abs(v) > 1<<31 {
				return nil, fmt.Errorf("%w: %v in index set of %q", ErrInvalidIndexValue, v, m.Label)
			}
			vals[i] = int(v)
		case int:
			vals[i] = v
		default:
			return nil, fmt.Errorf("%w: %T in index set of %q", ErrInvalidIndexValue, raw, m.Label)
		}
	}
	return vals, nil
}

// intern re-creates the ket atom this entry describes. Re-interning through
// the session is what preserves atom identity and the dual cross-link.
func (m AtomMeta) intern(session *hilbert.Session) (*hilbert.Atom, error) {
	vals, err := m.indexValues()
	if err != nil {
		return nil, err
	}
	latex := m.Latex
	if latex == "" {
		latex = m.Label
	}
	return session.IndexedSpaceLatex(m.Label, latex, vals...)
}
