package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlank(t *testing.T) {
	ten, err := Blank(Shape{3, 4}, Float32, CPU)
	require.NoError(t, err)

	assert.Equal(t, Shape{3, 4}, ten.Shape())
	assert.Equal(t, Float32, ten.DType())
	assert.Equal(t, CPU, ten.Device())
	assert.Equal(t, 12, ten.NumElements())
}

func TestBlankRejectsNegativeDims(t *testing.T) {
	_, err := Blank(Shape{2, -3}, Float32, CPU)
	require.Error(t, err)
}

func TestBlankDoesNotAliasShapeArgument(t *testing.T) {
	shape := Shape{2, 3}
	ten, err := Blank(shape, Float32, CPU)
	require.NoError(t, err)

	shape[0] = 99
	assert.Equal(t, Shape{2, 3}, ten.Shape())
}

func TestZerosAndOnes(t *testing.T) {
	z, err := Zeros(Shape{2, 3}, Float32, CPU)
	require.NoError(t, err)
	o, err := Ones(Shape{2, 3}, Float32, CPU)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		assert.Equal(t, 0.0, z.Float(i))
		assert.Equal(t, 1.0, o.Float(i))
	}
}

func TestOnesFloat64(t *testing.T) {
	o, err := Ones(Shape{4}, Float64, CPU)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, o.Resource().Float64())
}

func TestIdentity(t *testing.T) {
	id, err := Identity(3, Float32, CPU)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 3}, id.Shape())

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.Equal(t, want, id.Float(i*3+j), "element (%d, %d)", i, j)
		}
	}
}

func TestRandnRange(t *testing.T) {
	ten, err := Randn(Shape{100}, Float32, CPU)
	require.NoError(t, err)

	varied := false
	first := ten.Float(0)
	for i := 0; i < ten.NumElements(); i++ {
		v := ten.Float(i)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
		if v != first {
			varied = true
		}
	}
	assert.True(t, varied, "samples should not all be equal")
}

func TestXavier(t *testing.T) {
	in, out := 64, 64
	ten, err := Xavier(in, out, Float32, CPU)
	require.NoError(t, err)
	assert.Equal(t, Shape{in, out}, ten.Shape())

	// Mean should be near 0 for 4096 samples with std sqrt(1/128) ~ 0.088.
	sum := 0.0
	for i := 0; i < ten.NumElements(); i++ {
		v := ten.Float(i)
		require.False(t, math.IsNaN(v))
		sum += v
	}
	mean := sum / float64(ten.NumElements())
	assert.InDelta(t, 0.0, mean, 0.02)
}

func TestLikeFactories(t *testing.T) {
	src, err := Ones(Shape{2, 5}, Float64, CPU)
	require.NoError(t, err)

	z, err := ZerosLike(src)
	require.NoError(t, err)
	assert.True(t, z.Shape().Equal(src.Shape()))
	assert.Equal(t, Float64, z.DType())
	for i := 0; i < z.NumElements(); i++ {
		assert.Equal(t, 0.0, z.Float(i))
	}

	o, err := OnesLike(src)
	require.NoError(t, err)
	assert.Equal(t, 1.0, o.Float(9))

	b, err := BlankLike(src)
	require.NoError(t, err)
	assert.True(t, b.Shape().Equal(src.Shape()))

	var invalid *Tensor
	_, err = ZerosLike(invalid)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = OnesLike(invalid)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = BlankLike(invalid)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFromSlice(t *testing.T) {
	ten, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, CPU)
	require.NoError(t, err)
	assert.Equal(t, 6.0, ten.Float(5))

	_, err = FromSlice([]float32{1, 2}, Shape{2, 3}, CPU)
	assert.Error(t, err)
}
