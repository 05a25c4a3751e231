package tensor

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// Blank creates a tensor of the given shape without initializing its
// elements beyond the allocator's zeroing.
func Blank(shape Shape, dtype DataType, device Device) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "blank")
	}
	res, err := NewResource(shape.Elements(), dtype, device)
	if err != nil {
		return nil, err
	}
	return newTensor(res, shape.Clone()), nil
}

// BlankLike creates an uninitialized tensor with t's shape, element type and
// device.
func BlankLike(t *Tensor) (*Tensor, error) {
	if !t.Valid() {
		return nil, ErrInvalid
	}
	return Blank(t.shape, t.res.DType(), t.res.Device())
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType, device Device) (*Tensor, error) {
	t, err := Blank(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	t.res.Memset(0)
	return t, nil
}

// ZerosLike creates a zero tensor with t's shape, element type and device.
func ZerosLike(t *Tensor) (*Tensor, error) {
	if !t.Valid() {
		return nil, ErrInvalid
	}
	return Zeros(t.shape, t.res.DType(), t.res.Device())
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType, device Device) (*Tensor, error) {
	t, err := Blank(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	t.res.Memset(1)
	return t, nil
}

// OnesLike creates a one-filled tensor with t's shape, element type and
// device.
func OnesLike(t *Tensor) (*Tensor, error) {
	if !t.Valid() {
		return nil, ErrInvalid
	}
	return Ones(t.shape, t.res.DType(), t.res.Device())
}

// Identity creates the n-by-n identity matrix.
func Identity(n int, dtype DataType, device Device) (*Tensor, error) {
	t, err := Zeros(Shape{n, n}, dtype, device)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		t.res.SetFloat(i*n+i, 1)
	}
	return t, nil
}

// Randn creates a tensor of independent samples drawn uniformly from [0, 1).
//
// The name is kept for compatibility with the layers built on top of it, but
// note the samples are uniform, not normal; use Xavier for a normal
// initializer.
func Randn(shape Shape, dtype DataType, device Device) (*Tensor, error) {
	t, err := Blank(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	for i := 0; i < t.NumElements(); i++ {
		t.res.SetFloat(i, rand.Float64()) //nolint:gosec // G404: initializers use math/rand intentionally
	}
	return t, nil
}

// Xavier creates an in-by-out weight matrix with independent normal samples
// of mean 0 and standard deviation sqrt(1/(in+out)) (Glorot initialization
// for a dense layer).
func Xavier(in, out int, dtype DataType, device Device) (*Tensor, error) {
	t, err := Blank(Shape{in, out}, dtype, device)
	if err != nil {
		return nil, err
	}
	std := math.Sqrt(1.0 / float64(in+out))
	for i := 0; i < t.NumElements(); i++ {
		t.res.SetFloat(i, rand.NormFloat64()*std) //nolint:gosec // G404: initializers use math/rand intentionally
	}
	return t, nil
}

// FromSlice creates a float32 tensor on the given device from a Go slice.
// The slice is copied into the tensor's storage.
func FromSlice(data []float32, shape Shape, device Device) (*Tensor, error) {
	if shape.Elements() != len(data) {
		return nil, errors.Errorf("shape %s requires %d elements, but got %d", shape, shape.Elements(), len(data))
	}
	t, err := Blank(shape, Float32, device)
	if err != nil {
		return nil, err
	}
	copy(t.res.Float32(), data)
	return t, nil
}
