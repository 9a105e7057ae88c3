package hilbert

import "fmt"

// Index is one member of an atom's index set. Indices are either small
// integers or symbolic names; both compare with == and can key a map.
type Index struct {
	num int
	sym string
	str bool
}

// IntIndex makes a numeric index.
func IntIndex(n int) Index {
	return Index{num: n}
}

// SymIndex makes a symbolic (named) index.
func SymIndex(s string) Index {
	return Index{sym: s, str: true}
}

// IsSym reports whether the index is symbolic.
func (ix Index) IsSym() bool {
	return ix.str
}

// Int returns the numeric value of an integer index. Panics for
// symbolic indices.
func (ix Index) Int() int {
	if ix.str {
		panic(fmt.Sprintf("index %q is symbolic, not numeric", ix.sym))
	}
	return ix.num
}

// Sym returns the name of a symbolic index. Panics for numeric indices.
func (ix Index) Sym() string {
	if !ix.str {
		panic(fmt.Sprintf("index %d is numeric, not symbolic", ix.num))
	}
	return ix.sym
}

// String returns a printable form.
func (ix Index) String() string {
	if ix.str {
		return ix.sym
	}
	return fmt.Sprintf("%d", ix.num)
}

// toIndex normalizes user-facing index values (Index, integers, strings)
// into the canonical Index form.
func toIndex(v any) (Index, error) {
	switch x := v.(type) {
	case Index:
		return x, nil
	case int:
		return IntIndex(x), nil
	case int8:
		return IntIndex(int(x)), nil
	case int16:
		return IntIndex(int(x)), nil
	case int32:
		return IntIndex(int(x)), nil
	case int64:
		return IntIndex(int(x)), nil
	case uint8:
		return IntIndex(int(x)), nil
	case string:
		return SymIndex(x), nil
	default:
		return Index{}, fmt.Errorf("%w: cannot use %T as an index value", ErrIndexValue, v)
	}
}

// toIndices converts a slice of user-facing values.
func toIndices(vals []any) ([]Index, error) {
	out := make([]Index, len(vals))
	for i, v := range vals {
		ix, err := toIndex(v)
		if err != nil {
			return nil, err
		}
		out[i] = ix
	}
	return out, nil
}

// intRange returns the indices 0..n-1, the index set of a dimension-n
// qudit.
func intRange(n int) []Index {
	out := make([]Index, n)
	for i := range out {
		out[i] = IntIndex(i)
	}
	return out
}
