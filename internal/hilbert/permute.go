package hilbert

import (
	"fmt"

	"github.com/dirac-go/dirac/internal/parallel"
)

// permuteAxes returns a fresh buffer whose axis i holds the source's axis
// axes[i]. This is the single data-movement primitive behind transpose,
// contraction and indexing; all label-to-axis reasoning happens before it
// is called, so misuse here is an internal consistency failure and panics.
func permuteAxes(src *Buffer, axes []int) *Buffer {
	shape := src.Shape()
	ndim := len(shape)

	if len(axes) != ndim {
		panic(fmt.Sprintf("permute: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("permute: invalid axis %d for %dD buffer", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("permute: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	dstShape := make(Shape, ndim)
	for i, ax := range axes {
		dstShape[i] = shape[ax]
	}

	dst, err := NewBuffer(dstShape, src.DType())
	if err != nil {
		panic(fmt.Sprintf("permute: %v", err))
	}

	switch src.DType() {
	case Complex128:
		permuteComplex128(dst.AsComplex128(), src.AsComplex128(), shape, axes)
	case Float64:
		permuteFloat64(dst.AsFloat64(), src.AsFloat64(), shape, axes)
	default:
		panic("permute: unsupported dtype")
	}

	return dst
}

// identityPermutation reports whether axes is 0,1,...,n-1.
func identityPermutation(axes []int) bool {
	for i, ax := range axes {
		if ax != i {
			return false
		}
	}
	return true
}

//nolint:dupl // Intentional duplication for complex128/float64
func permuteComplex128(dst, src []complex128, shape Shape, axes []int) {
	ndim := len(shape)
	srcStrides := shape.ComputeStrides()

	dstShape := make(Shape, ndim)
	for i, ax := range axes {
		dstShape[i] = shape[ax]
	}
	dstStrides := dstShape.ComputeStrides()

	cfg := parallel.DefaultConfig()
	parallel.For(len(src), func(i int) {
		// Recover each source coordinate with a div/mod so the
		// iterations share no state and can run concurrently.
		dstIdx := 0
		for dstDim, srcDim := range axes {
			c := (i / srcStrides[srcDim]) % shape[srcDim]
			dstIdx += c * dstStrides[dstDim]
		}
		dst[dstIdx] = src[i]
	}, cfg)
}

//nolint:dupl // Intentional duplication for complex128/float64
func permuteFloat64(dst, src []float64, shape Shape, axes []int) {
	ndim := len(shape)
	srcStrides := shape.ComputeStrides()

	dstShape := make(Shape, ndim)
	for i, ax := range axes {
		dstShape[i] = shape[ax]
	}
	dstStrides := dstShape.ComputeStrides()

	cfg := parallel.DefaultConfig()
	parallel.For(len(src), func(i int) {
		dstIdx := 0
		for dstDim, srcDim := range axes {
			c := (i / srcStrides[srcDim]) % shape[srcDim]
			dstIdx += c * dstStrides[dstDim]
		}
		dst[dstIdx] = src[i]
	}, cfg)
}
