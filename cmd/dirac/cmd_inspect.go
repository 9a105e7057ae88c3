package main

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dirac-go/dirac/serialization"
)

func runInspect(cmd *cobra.Command, args []string) {
	path := args[0]

	r, err := serialization.NewReaderWithOptions(path, serialization.ReaderOptions{
		SkipChecksumValidation: skipChecksum,
		ValidationLevel:        serialization.ValidationStrict,
	})
	if err != nil {
		log.Fatalf("Error opening %s: %v", path, err)
	}
	defer r.Close()

	h := r.Header()
	fmt.Printf("file:           %s\n", path)
	fmt.Printf("format version: %d\n", h.FormatVersion)
	fmt.Printf("written by:     dirac %s\n", h.DiracVersion)
	fmt.Printf("base field:     %s\n", h.Field)
	fmt.Printf("created:        %s\n", h.CreatedAt.Format(time.RFC3339))

	fmt.Printf("\narrays (%d):\n", len(h.Arrays))
	names := r.ArrayNames()
	sort.Strings(names)
	for _, name := range names {
		meta, err := r.ArrayInfo(name)
		if err != nil {
			log.Fatalf("Error reading metadata for %s: %v", name, err)
		}
		fmt.Printf("  %-20s %s  space %s  shape %v  %d bytes\n",
			meta.Name, meta.DType, formatSpace(meta), meta.Shape, meta.Size)
	}

	if len(h.Metadata) > 0 {
		fmt.Printf("\nmetadata:\n")
		keys := make([]string, 0, len(h.Metadata))
		for k := range h.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", k, h.Metadata[k])
		}
	}
}

// formatSpace renders an array's factors in bra-ket notation, kets
// before bras, matching the canonical axis order of the data.
func formatSpace(meta *serialization.ArrayMeta) string {
	var sb strings.Builder
	if len(meta.Kets) > 0 {
		labels := make([]string, len(meta.Kets))
		for i, atom := range meta.Kets {
			labels[i] = atom.Label
		}
		sb.WriteString("|" + strings.Join(labels, ",") + ">")
	}
	if len(meta.Bras) > 0 {
		labels := make([]string, len(meta.Bras))
		for i, atom := range meta.Bras {
			labels[i] = atom.Label
		}
		sb.WriteString("<" + strings.Join(labels, ",") + "|")
	}
	if sb.Len() == 0 {
		return "scalar"
	}
	return sb.String()
}
