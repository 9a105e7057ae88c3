package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dirac-go/dirac/internal/hilbert"
)

// Reader reads labeled arrays from .dirac format.
type Reader struct {
	file       *os.File
	header     Header
	flags      uint32
	version    uint32
	dataOffset int64    // Offset where array data starts
	dataSize   int64    // Size of the data section
	checksum   [32]byte // SHA-256 checksum
	opts       ReaderOptions
	closed     bool
}

// ReaderOptions configures the behavior of Reader.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// NewReader creates a new .dirac file reader with default options (strict validation).
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, ReaderOptions{
		ValidationLevel: ValidationStrict,
	})
}

// NewReaderWithOptions creates a new .dirac file reader with custom options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader := &Reader{
		file:   file,
		opts:   opts,
		closed: false,
	}

	if err := reader.parseHeader(); err != nil {
		_ = file.Close() // Best effort close on error
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	// Validate header if requested
	if err := ValidateHeader(&reader.header, reader.dataSize, opts.ValidationLevel); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return reader, nil
}

// parseHeader reads and parses the .dirac file header.
func (r *Reader) parseHeader() error {
	// Read entire fixed header (64 bytes)
	fixedHeader := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r.file, fixedHeader); err != nil {
		return fmt.Errorf("failed to read fixed header: %w", err)
	}

	// 0x00-0x03: magic bytes
	if string(fixedHeader[0:4]) != MagicBytes {
		return ErrInvalidMagic
	}

	// 0x04-0x07: version
	r.version = binary.LittleEndian.Uint32(fixedHeader[4:8])
	if r.version != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, r.version, FormatVersion)
	}

	// 0x08-0x0B: flags
	r.flags = binary.LittleEndian.Uint32(fixedHeader[8:12])

	// 0x10-0x17: header size
	headerSize := binary.LittleEndian.Uint64(fixedHeader[16:24])

	// 0x18-0x1F: data size
	dataSize := binary.LittleEndian.Uint64(fixedHeader[24:32])

	// 0x20-0x3F: SHA-256 checksum
	copy(r.checksum[:], fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize])

	// Validate header size
	if headerSize > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	// Read header JSON (positioned right after the fixed header)
	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerBytes); err != nil {
		return fmt.Errorf("failed to read header JSON: %w", err)
	}

	// Parse header
	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}

	// Calculate data offset (with alignment padding)
	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize, conversion is safe
	currentPos := int64(FixedHeaderSize) + int64(headerSize)
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	r.dataOffset = currentPos + padding
	//nolint:gosec // G115: data sections beyond int64 do not fit a file anyway
	r.dataSize = int64(dataSize)

	// Validate checksum if not skipped
	if !r.opts.SkipChecksumValidation {
		data := make([]byte, dataSize)
		if _, err := r.file.Seek(r.dataOffset, io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek to array data: %w", err)
		}
		if _, err := io.ReadFull(r.file, data); err != nil {
			return fmt.Errorf("failed to read array data for checksum: %w", err)
		}

		computed := ComputeChecksum(data)
		if err := ValidateChecksum(computed, r.checksum); err != nil {
			return err
		}
	}

	return nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Metadata returns the metadata map from the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// FieldName returns the base field the file was written over.
func (r *Reader) FieldName() string {
	return r.header.Field
}

// ArrayNames returns a list of all array names in the file.
func (r *Reader) ArrayNames() []string {
	names := make([]string, len(r.header.Arrays))
	for i, meta := range r.header.Arrays {
		names[i] = meta.Name
	}
	return names
}

// ArrayInfo returns information about a specific array.
func (r *Reader) ArrayInfo(name string) (*ArrayMeta, error) {
	for _, meta := range r.header.Arrays {
		if meta.Name == name {
			return &meta, nil
		}
	}
	return nil, fmt.Errorf("array %s not found", name)
}

// ReadArrayData reads raw buffer bytes for a given array name.
func (r *Reader) ReadArrayData(name string) ([]byte, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}

	meta, err := r.ArrayInfo(name)
	if err != nil {
		return nil, err
	}

	// Calculate absolute offset
	absoluteOffset := r.dataOffset + meta.Offset

	// Seek to array data
	if _, err := r.file.Seek(absoluteOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to array data: %w", err)
	}

	// Read data
	data := make([]byte, meta.Size)
	if _, err := io.ReadFull(r.file, data); err != nil {
		return nil, fmt.Errorf("failed to read array data: %w", err)
	}

	return data, nil
}

// LoadArray loads a single array from the file, re-interning its atoms
// through the given session.
func (r *Reader) LoadArray(name string, session *hilbert.Session) (*hilbert.Array, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}

	if err := checkField(&r.header, session); err != nil {
		return nil, err
	}

	meta, err := r.ArrayInfo(name)
	if err != nil {
		return nil, err
	}

	data, err := r.ReadArrayData(name)
	if err != nil {
		return nil, err
	}

	return rebuildArray(meta, data, session)
}

// LoadAll loads every array in the file into the given session.
func (r *Reader) LoadAll(session *hilbert.Session) (map[string]*hilbert.Array, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}

	if err := checkField(&r.header, session); err != nil {
		return nil, err
	}

	arrays := make(map[string]*hilbert.Array)
	for i := range r.header.Arrays {
		meta := &r.header.Arrays[i]
		data, err := r.ReadArrayData(meta.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to load array %s: %w", meta.Name, err)
		}
		arr, err := rebuildArray(meta, data, session)
		if err != nil {
			return nil, err
		}
		arrays[meta.Name] = arr
	}

	return arrays, nil
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// checkField rejects loading into a session over a different base field.
func checkField(h *Header, session *hilbert.Session) error {
	if h.Field != session.Field().Name() {
		return fmt.Errorf("%w: file is over %q, session is over %q",
			ErrFieldMismatch, h.Field, session.Field().Name())
	}
	return nil
}

// rebuildArray reconstructs a labeled array from its header entry and raw
// buffer bytes. Every atom is interned through the session, so a label that
// already exists with a different index set surfaces
// hilbert.ErrMismatchedIndexSet.
func rebuildArray(meta *ArrayMeta, data []byte, session *hilbert.Session) (*hilbert.Array, error) {
	dtype, ok := stringToDtype(meta.DType)
	if !ok {
		return nil, fmt.Errorf("unsupported dtype: %s", meta.DType)
	}
	if dtype != session.Field().DType() {
		return nil, fmt.Errorf("%w: array %q stores %s, field %q stores %s",
			ErrFieldMismatch, meta.Name, meta.DType, session.Field().Name(), session.Field().DType())
	}

	factors := make([]hilbert.Factor, 0, len(meta.Kets)+len(meta.Bras))
	for _, am := range meta.Kets {
		a, err := am.intern(session)
		if err != nil {
			return nil, fmt.Errorf("array %q: %w", meta.Name, err)
		}
		factors = append(factors, a)
	}
	for _, am := range meta.Bras {
		a, err := am.intern(session)
		if err != nil {
			return nil, fmt.Errorf("array %q: %w", meta.Name, err)
		}
		factors = append(factors, a.Dual())
	}

	// Rank-0 arrays live in the scalar space, which is not a product.
	sp := session.ScalarSpace()
	if len(factors) > 0 {
		var err error
		sp, err = hilbert.Product(factors...)
		if err != nil {
			return nil, fmt.Errorf("array %q: %w", meta.Name, err)
		}
	}

	if !sp.Shape().Equal(hilbert.Shape(meta.Shape)) {
		return nil, &ValidationError{
			Type:    "shape_mismatch",
			Array:   meta.Name,
			Details: fmt.Sprintf("header shape %v, space %s has shape %v", meta.Shape, sp, sp.Shape()),
		}
	}

	arr := sp.Zeros()
	buf := arr.Buffer()
	if len(data) != buf.ByteSize() {
		return nil, &ValidationError{
			Type:    "size_mismatch",
			Array:   meta.Name,
			Details: fmt.Sprintf("data size %d, space %s needs %d bytes", len(data), sp, buf.ByteSize()),
		}
	}
	copy(buf.Data(), data)

	return arr, nil
}

// ReadFrom reads a named set of arrays from an io.Reader.
// This is useful for reading from buffers or network connections.
func ReadFrom(reader io.Reader, session *hilbert.Session) (map[string]*hilbert.Array, Header, error) {
	// Read fixed header
	fixedHeader := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(reader, fixedHeader); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read fixed header: %w", err)
	}

	if string(fixedHeader[0:4]) != MagicBytes {
		return nil, Header{}, ErrInvalidMagic
	}

	version := binary.LittleEndian.Uint32(fixedHeader[4:8])
	if version != FormatVersion {
		return nil, Header{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	headerSize := binary.LittleEndian.Uint64(fixedHeader[16:24])
	dataSize := binary.LittleEndian.Uint64(fixedHeader[24:32])

	var checksum [32]byte
	copy(checksum[:], fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, Header{}, ErrHeaderTooLarge
	}

	// Read header JSON
	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, headerBytes); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read header: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	// Skip alignment padding
	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize, conversion is safe
	currentPos := int64(FixedHeaderSize) + int64(headerSize)
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	if padding > 0 {
		paddingBytes := make([]byte, padding)
		if _, err := io.ReadFull(reader, paddingBytes); err != nil {
			return nil, Header{}, fmt.Errorf("failed to read padding: %w", err)
		}
	}

	// Read the whole data section, then validate before slicing
	data := make([]byte, dataSize)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read array data: %w", err)
	}

	computed := ComputeChecksum(data)
	if err := ValidateChecksum(computed, checksum); err != nil {
		return nil, Header{}, err
	}

	if err := ValidateHeader(&header, int64(len(data)), ValidationStrict); err != nil {
		return nil, Header{}, fmt.Errorf("validation failed: %w", err)
	}
	if err := checkField(&header, session); err != nil {
		return nil, Header{}, err
	}

	// Rebuild all arrays
	arrays := make(map[string]*hilbert.Array)
	for i := range header.Arrays {
		meta := &header.Arrays[i]
		arr, err := rebuildArray(meta, data[meta.Offset:meta.Offset+meta.Size], session)
		if err != nil {
			return nil, Header{}, err
		}
		arrays[meta.Name] = arr
	}

	return arrays, header, nil
}

// Load reads every array from the .dirac file at path into the session.
func Load(path string, session *hilbert.Session) (map[string]*hilbert.Array, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	arrays, err := r.LoadAll(session)
	if err != nil {
		_ = r.Close() // Best effort close on error
		return nil, err
	}
	return arrays, r.Close()
}
