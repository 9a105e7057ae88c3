// Package serialization provides the native .dirac container for saving and
// loading labeled arrays.
//
// The .dirac format is a simple binary container that keeps enough space
// metadata to rebuild every atom on load:
//
//	Format Structure:
//	  [4 bytes:  Magic "DIRC"]
//	  [4 bytes:  Version (uint32 LE)]
//	  [4 bytes:  Flags (uint32 LE)]
//	  [4 bytes:  Reserved]
//	  [8 bytes:  Header Size (uint64 LE)]
//	  [8 bytes:  Data Size (uint64 LE)]
//	  [32 bytes: SHA-256 checksum of the data section]
//	  [Header: JSON metadata]
//	  [Array data: raw buffers, 64-byte aligned]
//
// The JSON header records, per array, the ket and bra factors of its space:
// label, display label, and the ordered index set of each atom. Loading
// re-interns every atom through the target session, so atom identity, dual
// cross-links, and index sets survive a round-trip. A file written over one
// base field refuses to load into a session over another.
//
// Example usage:
//
//	// Save arrays
//	w, err := serialization.NewWriter("state.dirac")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.WriteArrays(arrays, nil); err != nil {
//	    log.Fatal(err)
//	}
//	w.Close()
//
//	// Load them back into a session
//	r, err := serialization.NewReader("state.dirac")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	arrays, err := r.LoadAll(session)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Close()
package serialization
