package tensor

import (
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrInvalid is returned by operations applied to an invalid tensor, so that
// a failed operation chained into another fails gracefully instead of
// panicking.
var ErrInvalid = errors.New("invalid tensor")

// nextTag issues process-unique tensor identities. The counter lives for the
// whole process and is never reset.
var nextTag atomic.Int64

// Tensor is a shaped view over a resource's linear element storage.
//
// A tensor is valid when it carries both a resource and a shape, and its
// resource then holds exactly shape.Elements() elements. The zero value (and
// a nil pointer) is the invalid sentinel produced alongside errors.
//
// View-producing operations (Index, Reshape) alias the source resource:
// writes through the view are visible through the source and any sibling
// views. Copy-producing operations (Transpose, Slice, Concat, Clone) allocate
// independent storage. Concurrent mutation of aliased views is the caller's
// responsibility to serialize.
type Tensor struct {
	res   *Resource
	shape Shape
	tag   int64
}

func newTensor(res *Resource, shape Shape) *Tensor {
	return &Tensor{res: res, shape: shape, tag: nextTag.Add(1)}
}

// Valid reports whether the tensor carries storage and a shape.
func (t *Tensor) Valid() bool {
	return t != nil && t.res != nil && t.shape != nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	if t == nil {
		return nil
	}
	return t.shape
}

// DType returns the element type of the tensor's storage.
func (t *Tensor) DType() DataType {
	return t.res.DType()
}

// Device returns the device tag of the tensor's storage.
func (t *Tensor) Device() Device {
	return t.res.Device()
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.Elements()
}

// Tag returns the tensor's process-unique identity. Tags are for debugging
// and tracking, not equality.
func (t *Tensor) Tag() int64 {
	if t == nil {
		return 0
	}
	return t.tag
}

// Resource returns the underlying storage view.
// Used by compute layers for low-level access.
func (t *Tensor) Resource() *Resource {
	return t.res
}

// Float returns element i of the flattened storage as float64.
func (t *Tensor) Float(i int) float64 {
	return t.res.Float(i)
}

// SetFloat stores v into element i of the flattened storage.
func (t *Tensor) SetFloat(i int, v float64) {
	t.res.SetFloat(i, v)
}

// String returns a human-readable description of the tensor.
func (t *Tensor) String() string {
	if !t.Valid() {
		return "Tensor(invalid)"
	}
	return fmt.Sprintf("Tensor[%s]%s on %s #%d", t.res.DType(), t.shape, t.res.Device(), t.tag)
}

// Track enables event logging for the tensor's buffer. Debug only.
func (t *Tensor) Track() *Tensor {
	if t.Valid() {
		t.res.Track()
	}
	return t
}

// Release drops the tensor's reference to its storage. The buffer is freed
// once every aliasing view has been released.
func (t *Tensor) Release() {
	if t.Valid() {
		t.res.Release()
	}
}

// Fill assigns v to every element in place and returns the receiver for
// chaining. Filling an invalid tensor is a no-op.
func (t *Tensor) Fill(v float64) *Tensor {
	if t.Valid() {
		t.res.Memset(v)
	}
	return t
}

// Index returns a view of entry i along the outermost dimension. The result
// has shape Pop() and aliases elements [i*sub.Elements(), (i+1)*sub.Elements())
// of the receiver's storage: writes through it are visible in the receiver.
func (t *Tensor) Index(i int) (*Tensor, error) {
	if !t.Valid() {
		return nil, ErrInvalid
	}
	if len(t.shape) == 0 || i < 0 || i >= t.shape[0] {
		return nil, errors.Errorf("index %d out of range for shape %s", i, t.shape)
	}

	sub := t.shape.Pop()
	start := i * sub.Elements()
	res, err := t.res.Slice(start, start+sub.Elements())
	if err != nil {
		return nil, errors.Wrap(err, "index")
	}
	return newTensor(res, sub), nil
}

// Reshape returns a view of the tensor with a new shape covering the same
// elements. The target may contain a single -1 wildcard, inferred from the
// element count. The result aliases the receiver's entire storage.
func (t *Tensor) Reshape(target Shape) (*Tensor, error) {
	if !t.Valid() {
		return nil, ErrInvalid
	}

	resolved, err := t.shape.Reshape(target)
	if err != nil {
		return nil, err
	}
	return newTensor(t.res.View(), resolved), nil
}

// Transpose returns the transposed copy of a 2-D tensor. The result owns
// fresh storage: mutating it does not affect the receiver.
func (t *Tensor) Transpose() (*Tensor, error) {
	if !t.Valid() {
		return nil, ErrInvalid
	}
	if len(t.shape) != 2 {
		return nil, errors.Errorf("transpose requires 2 dimensions, got shape %s", t.shape)
	}

	rows, cols := t.shape[0], t.shape[1]
	out, err := NewResource(rows*cols, t.res.DType(), t.res.Device())
	if err != nil {
		return nil, errors.Wrap(err, "transpose")
	}

	es := t.res.DType().Size()
	src := t.res.bytes()
	dst := out.bytes()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			copy(dst[(j*rows+i)*es:(j*rows+i+1)*es], src[(i*cols+j)*es:(i*cols+j+1)*es])
		}
	}
	return newTensor(out, Shape{cols, rows}), nil
}

// Slice copies the half-open range [start, end) along dimension dim into a
// fresh tensor. Unlike Index it always allocates; the result never aliases
// the receiver.
func (t *Tensor) Slice(start, end, dim int) (*Tensor, error) {
	if !t.Valid() {
		return nil, ErrInvalid
	}
	if dim < 0 || dim >= len(t.shape) {
		return nil, errors.Errorf("slice dimension %d out of range for shape %s", dim, t.shape)
	}
	if start < 0 || start >= end || end > t.shape[dim] {
		return nil, errors.Errorf("slice [%d, %d) out of range for dimension %d of shape %s", start, end, dim, t.shape)
	}

	prodBefore, prodAfter := 1, 1
	for i, d := range t.shape {
		if i < dim {
			prodBefore *= d
		} else if i > dim {
			prodAfter *= d
		}
	}

	sliced := t.shape.Clone()
	sliced[dim] = end - start

	out, err := NewResource(sliced.Elements(), t.res.DType(), t.res.Device())
	if err != nil {
		return nil, errors.Wrap(err, "slice")
	}

	// Each outer block contributes one contiguous run of (end-start)*prodAfter
	// elements.
	es := t.res.DType().Size()
	run := (end - start) * prodAfter * es
	src := t.res.bytes()
	dst := out.bytes()
	for i := 0; i < prodBefore; i++ {
		srcOff := (i*t.shape[dim] + start) * prodAfter * es
		dstOff := i * run
		copy(dst[dstOff:dstOff+run], src[srcOff:srcOff+run])
	}
	return newTensor(out, sliced), nil
}

// Concat concatenates a and b along dimension dim. The operands must have
// equal rank, matching element types, and identical sizes in every dimension
// except dim. The result owns fresh storage holding a's hyperplanes followed
// by b's.
func Concat(a, b *Tensor, dim int) (*Tensor, error) {
	if !a.Valid() || !b.Valid() {
		return nil, ErrInvalid
	}
	if len(a.shape) != len(b.shape) {
		return nil, errors.Errorf("concat rank mismatch: %s vs %s", a.shape, b.shape)
	}
	if dim < 0 || dim >= len(a.shape) {
		return nil, errors.Errorf("concat dimension %d out of range for shape %s", dim, a.shape)
	}
	if a.res.DType() != b.res.DType() {
		return nil, errors.Errorf("concat type mismatch: %s vs %s", a.res.DType(), b.res.DType())
	}

	prodBefore, prodAfter := 1, 1
	for i := range a.shape {
		if i == dim {
			continue
		}
		if a.shape[i] != b.shape[i] {
			return nil, errors.Errorf("concat shape mismatch at dimension %d: %s vs %s", i, a.shape, b.shape)
		}
		if i < dim {
			prodBefore *= a.shape[i]
		} else {
			prodAfter *= a.shape[i]
		}
	}

	nA, nB := a.shape[dim], b.shape[dim]
	cat := a.shape.Clone()
	cat[dim] = nA + nB

	out, err := Zeros(cat, a.res.DType(), a.res.Device())
	if err != nil {
		return nil, errors.Wrap(err, "concat")
	}

	es := a.res.DType().Size()
	runA := nA * prodAfter * es
	runB := nB * prodAfter * es
	srcA := a.res.bytes()
	srcB := b.res.bytes()
	dst := out.res.bytes()
	for i := 0; i < prodBefore; i++ {
		dstOff := i * (runA + runB)
		copy(dst[dstOff:dstOff+runA], srcA[i*runA:(i+1)*runA])
		copy(dst[dstOff+runA:dstOff+runA+runB], srcB[i*runB:(i+1)*runB])
	}
	return out, nil
}

// CopyFrom copies other's elements into the receiver's storage in place.
// The shapes must be exactly equal; on mismatch neither tensor is mutated.
func (t *Tensor) CopyFrom(other *Tensor) error {
	if !t.Valid() || !other.Valid() {
		return ErrInvalid
	}
	if !t.shape.Equal(other.shape) {
		return errors.Errorf("copy shape mismatch: %s vs %s", t.shape, other.shape)
	}
	return t.res.Copy(other.res)
}

// Clone returns a deep copy of the tensor with independent storage and a
// fresh tag. Buffer tracking is not carried over.
func (t *Tensor) Clone() (*Tensor, error) {
	if !t.Valid() {
		return nil, ErrInvalid
	}
	res, err := t.res.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "clone")
	}
	return newTensor(res, t.shape.Clone()), nil
}
