// Copyright 2025 Fathom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the Fathom tensor data model.
//
// The package defines the core types and structural operations:
//   - Tensor: a shaped view over a device-tagged element buffer
//   - Shape: dimension algebra with wildcard reshape inference
//   - Resource: the reference-counted storage underneath every tensor
//   - DataType, Device: element type and placement tags
//
// Structural operations either alias their source (Index, Reshape) or own
// freshly allocated storage (Transpose, Slice, Concat, Clone). Compute
// kernels and autograd live in separate layers built on top of this package.
//
// Example:
//
//	x, err := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	if err != nil {
//		log.Fatal(err)
//	}
//	row, err := x.Index(0) // aliasing view of the first row
package tensor

import (
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Type aliases for the public API

// DataType represents the element type of a tensor's storage.
type DataType = tensor.DataType

// Element type constants. Float32 is the conventional default.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Float16 DataType = tensor.Float16
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants. CPU is the conventional default.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Vulkan Device = tensor.Vulkan
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor in major-to-minor order.
// Example: Shape{2, 3, 4} describes a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a shaped view over a resource's linear element storage.
type Tensor = tensor.Tensor

// Resource is the reference-counted, device-tagged element buffer that backs
// every tensor. Most users never construct one directly.
type Resource = tensor.Resource

// ErrInvalid is returned when an operation is applied to an invalid tensor.
var ErrInvalid = tensor.ErrInvalid

// Creation functions

// Blank creates a tensor with uninitialized (zeroed) storage.
//
// Example:
//
//	x, err := tensor.Blank(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
func Blank(shape Shape, dtype DataType, device Device) (*Tensor, error) {
	return tensor.Blank(shape, dtype, device)
}

// BlankLike creates an uninitialized tensor with t's shape, element type and
// device.
func BlankLike(t *Tensor) (*Tensor, error) {
	return tensor.BlankLike(t)
}

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	x, err := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
func Zeros(shape Shape, dtype DataType, device Device) (*Tensor, error) {
	return tensor.Zeros(shape, dtype, device)
}

// ZerosLike creates a zero tensor with t's shape, element type and device.
func ZerosLike(t *Tensor) (*Tensor, error) {
	return tensor.ZerosLike(t)
}

// Ones creates a tensor filled with ones.
//
// Example:
//
//	x, err := tensor.Ones(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
func Ones(shape Shape, dtype DataType, device Device) (*Tensor, error) {
	return tensor.Ones(shape, dtype, device)
}

// OnesLike creates a one-filled tensor with t's shape, element type and
// device.
func OnesLike(t *Tensor) (*Tensor, error) {
	return tensor.OnesLike(t)
}

// Identity creates the n×n identity matrix.
//
// Example:
//
//	id, err := tensor.Identity(3, tensor.Float32, tensor.CPU) // 3x3 identity
func Identity(n int, dtype DataType, device Device) (*Tensor, error) {
	return tensor.Identity(n, dtype, device)
}

// Randn creates a tensor of independent samples drawn uniformly from [0, 1).
// Despite the name the samples are uniform, not normal; see the internal
// package documentation for the history of the misnomer.
func Randn(shape Shape, dtype DataType, device Device) (*Tensor, error) {
	return tensor.Randn(shape, dtype, device)
}

// Xavier creates an in×out weight matrix with normal samples of mean 0 and
// standard deviation sqrt(1/(in+out)).
func Xavier(in, out int, dtype DataType, device Device) (*Tensor, error) {
	return tensor.Xavier(in, out, dtype, device)
}

// FromSlice creates a float32 tensor from a Go slice. The slice is copied
// into the tensor's storage.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.CPU)
func FromSlice(data []float32, shape Shape, device Device) (*Tensor, error) {
	return tensor.FromSlice(data, shape, device)
}

// Structural functions

// Concat concatenates a and b along dimension dim. The operands must have
// equal rank and identical sizes in every dimension except dim; the result
// owns fresh storage.
//
// Example:
//
//	a, _ := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	b, _ := tensor.Ones(tensor.Shape{3, 3}, tensor.Float32, tensor.CPU)
//	c, err := tensor.Concat(a, b, 0) // Shape: [5, 3]
func Concat(a, b *Tensor, dim int) (*Tensor, error) {
	return tensor.Concat(a, b, dim)
}
