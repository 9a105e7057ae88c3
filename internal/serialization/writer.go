package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dirac-go/dirac/internal/hilbert"
)

const diracVersion = "0.1.0" // Current dirac version

// Writer writes labeled arrays in .dirac format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .dirac file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &Writer{
		file:   file,
		closed: false,
	}, nil
}

// WriteArrays writes a named set of arrays to the .dirac file.
//
// All arrays must belong to sessions over the same base field. Arrays are
// laid out in name order, so the data section and its checksum are
// reproducible for identical inputs.
func (w *Writer) WriteArrays(arrays map[string]*hilbert.Array, metadata map[string]string) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	return WriteTo(w.file, arrays, metadata)
}

// Close closes the writer and the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteTo writes a named set of arrays to an io.Writer.
// This is useful for writing to buffers or network connections.
func WriteTo(writer io.Writer, arrays map[string]*hilbert.Array, metadata map[string]string) error {
	// Build header
	header := Header{
		FormatVersion: FormatVersion,
		DiracVersion:  diracVersion,
		CreatedAt:     time.Now().UTC(),
		Arrays:        make([]ArrayMeta, 0, len(arrays)),
		Metadata:      metadata,
	}

	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Arrays are written in name order for deterministic output.
	order := make([]string, 0, len(arrays))
	for name := range arrays {
		order = append(order, name)
	}
	sort.Strings(order)

	// Calculate array offsets and record space metadata
	var currentOffset int64
	for _, name := range order {
		arr := arrays[name]

		if err := ValidateArrayName(name); err != nil {
			return err
		}
		if header.Field == "" {
			header.Field = arr.Field().Name()
		} else if arr.Field().Name() != header.Field {
			return fmt.Errorf("%w: array %q is over %q, file is over %q",
				ErrFieldMismatch, name, arr.Field().Name(), header.Field)
		}

		sp := arr.Space()
		kets := sp.Kets()
		bras := sp.Bras()
		size := int64(arr.Buffer().ByteSize())

		meta := ArrayMeta{
			Name:   name,
			Kets:   make([]AtomMeta, len(kets)),
			Bras:   make([]AtomMeta, len(bras)),
			DType:  dtypeToString(arr.Buffer().DType()),
			Shape:  []int(sp.Shape()),
			Offset: currentOffset,
			Size:   size,
		}
		for i, a := range kets {
			meta.Kets[i] = atomMeta(a)
		}
		for i, a := range bras {
			meta.Bras[i] = atomMeta(a)
		}
		header.Arrays = append(header.Arrays, meta)

		currentOffset += size
	}

	// Collect all array data to compute the checksum
	var dataBuf []byte
	for _, name := range order {
		dataBuf = append(dataBuf, arrays[name].Buffer().Data()...)
	}

	// Compute SHA-256 checksum of the data section
	checksum := ComputeChecksum(dataBuf)

	// Marshal header to JSON
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	// Calculate sizes
	headerSize := uint64(len(headerJSON))
	dataSize := uint64(len(dataBuf))

	// Build the fixed header (64 bytes)
	fixedHeader := make([]byte, FixedHeaderSize)

	// 0x00-0x03: Magic bytes "DIRC"
	copy(fixedHeader[0:4], MagicBytes)

	// 0x04-0x07: Version
	binary.LittleEndian.PutUint32(fixedHeader[4:8], uint32(FormatVersion))

	// 0x08-0x0B: Flags
	flags := uint32(0)
	if len(metadata) > 0 {
		flags |= FlagHasMetadata
	}
	binary.LittleEndian.PutUint32(fixedHeader[8:12], flags)

	// 0x0C-0x0F: Reserved (0)
	// Already zero from make()

	// 0x10-0x17: Header size (8 bytes)
	binary.LittleEndian.PutUint64(fixedHeader[16:24], headerSize)

	// 0x18-0x1F: Data size (8 bytes)
	binary.LittleEndian.PutUint64(fixedHeader[24:32], dataSize)

	// 0x20-0x3F: SHA-256 checksum (32 bytes)
	copy(fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	// Write fixed header
	if _, err := writer.Write(fixedHeader); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}

	// Write header JSON
	if _, err := writer.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}

	// Calculate padding to align array data to a 64-byte boundary
	//nolint:gosec // G115: headerSize is small (< 100MB max), conversion is safe
	currentPos := int64(FixedHeaderSize) + int64(headerSize)
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	if padding > 0 {
		paddingBytes := make([]byte, padding)
		if _, err := writer.Write(paddingBytes); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	// Write array data
	if _, err := writer.Write(dataBuf); err != nil {
		return fmt.Errorf("failed to write array data: %w", err)
	}

	return nil
}

// Save writes arrays to a new .dirac file at path.
func Save(path string, arrays map[string]*hilbert.Array, metadata map[string]string) error {
	w, err := NewWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteArrays(arrays, metadata); err != nil {
		_ = w.Close() // Best effort close on error
		return err
	}
	return w.Close()
}
