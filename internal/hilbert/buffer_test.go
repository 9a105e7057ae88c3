package hilbert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewBuffer checks allocation, layout metadata and zero fill.
func TestNewBuffer(t *testing.T) {
	b, err := NewBuffer(Shape{2, 3}, Complex128)
	require.NoError(t, err)

	assert.Equal(t, 6, b.NumElements())
	assert.Equal(t, 6*Complex128.Size(), b.ByteSize())
	assert.Equal(t, []int{3, 1}, b.Strides())
	assert.Equal(t, Complex128, b.DType())
	assert.True(t, b.Shape().Equal(Shape{2, 3}))
	for i := 0; i < 6; i++ {
		assert.Equal(t, complex128(0), b.GetScalar(i))
	}

	_, err = NewBuffer(Shape{2, -1}, Complex128)
	assert.Error(t, err)
	_, err = NewBuffer(Shape{0}, Float64)
	assert.Error(t, err)
}

// TestRankZeroBuffer checks that an empty shape holds one scalar.
func TestRankZeroBuffer(t *testing.T) {
	b, err := NewBuffer(Shape{}, Complex128)
	require.NoError(t, err)
	assert.Equal(t, 1, b.NumElements())
	b.SetScalar(0, 3-2i)
	assert.Equal(t, 3-2i, b.GetScalar(0))
}

// TestScalarAccess checks reads and writes under both data types.
func TestScalarAccess(t *testing.T) {
	c, err := NewBuffer(Shape{4}, Complex128)
	require.NoError(t, err)
	c.SetScalar(2, 1+2i)
	assert.Equal(t, 1+2i, c.GetScalar(2))
	assert.Equal(t, 1+2i, c.AsComplex128()[2])

	// Float64 buffers narrow: the imaginary part is discarded.
	f, err := NewBuffer(Shape{4}, Float64)
	require.NoError(t, err)
	f.SetScalar(1, 1.5+2i)
	assert.Equal(t, complex(1.5, 0), f.GetScalar(1))
	assert.Equal(t, 1.5, f.AsFloat64()[1])

	assert.Panics(t, func() { f.AsComplex128() })
	assert.Panics(t, func() { c.AsFloat64() })
}

// TestBufferClone checks deep-copy independence and EqualData.
func TestBufferClone(t *testing.T) {
	b, err := NewBuffer(Shape{3}, Complex128)
	require.NoError(t, err)
	b.SetScalar(0, 5i)

	c := b.Clone()
	assert.True(t, b.EqualData(c))

	b.SetScalar(1, 7)
	assert.False(t, b.EqualData(c))
	assert.Equal(t, complex128(0), c.GetScalar(1))
	assert.Equal(t, 5i, c.GetScalar(0))

	// Different shapes over the same bytes are not equal data.
	d := c.Reshape(Shape{3, 1})
	assert.False(t, c.EqualData(d))
}

// TestReshape checks the copying reshape and its element-count guard.
func TestReshape(t *testing.T) {
	b, err := NewBuffer(Shape{2, 3}, Float64)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		b.SetScalar(i, complex(float64(i), 0))
	}

	flat := b.Reshape(Shape{6})
	assert.True(t, flat.Shape().Equal(Shape{6}))
	assert.Equal(t, []int{1}, flat.Strides())
	for i := 0; i < 6; i++ {
		assert.Equal(t, complex(float64(i), 0), flat.GetScalar(i))
	}

	// Reshape copies: the source stays untouched afterwards.
	flat.SetScalar(0, 99)
	assert.Equal(t, complex128(0), b.GetScalar(0))

	assert.Panics(t, func() { b.Reshape(Shape{7}) })
}

// TestPermuteAxes checks axis transposition of the flat data.
func TestPermuteAxes(t *testing.T) {
	src, err := NewBuffer(Shape{2, 3}, Complex128)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		src.SetScalar(i, complex(float64(i), -1))
	}

	dst := permuteAxes(src, []int{1, 0})
	assert.True(t, dst.Shape().Equal(Shape{3, 2}))
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, src.GetScalar(i*3+j), dst.GetScalar(j*2+i))
		}
	}

	// A higher-rank cycle: axes (1, 2, 0) on shape {2, 3, 4}.
	cube, err := NewBuffer(Shape{2, 3, 4}, Float64)
	require.NoError(t, err)
	for i := 0; i < 24; i++ {
		cube.SetScalar(i, complex(float64(i), 0))
	}
	rolled := permuteAxes(cube, []int{1, 2, 0})
	assert.True(t, rolled.Shape().Equal(Shape{3, 4, 2}))
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				want := cube.GetScalar(i*12 + j*4 + k)
				got := rolled.GetScalar(j*8 + k*2 + i)
				assert.Equal(t, want, got)
			}
		}
	}

	assert.Panics(t, func() { permuteAxes(src, []int{0}) })
	assert.Panics(t, func() { permuteAxes(src, []int{0, 0}) })
	assert.Panics(t, func() { permuteAxes(src, []int{0, 2}) })
}

// TestIdentityPermutation checks the fast-path predicate.
func TestIdentityPermutation(t *testing.T) {
	assert.True(t, identityPermutation([]int{0, 1, 2}))
	assert.True(t, identityPermutation(nil))
	assert.False(t, identityPermutation([]int{1, 0}))
}
