package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"k8s.io/klog/v2"
)

// Device represents the device where a resource's elements reside.
type Device int

// Supported devices. CPU is the conventional default.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// buffer is the reference-counted backing store shared by aliasing views.
type buffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

func newBuffer(size int) *buffer {
	b := &buffer{data: make([]byte, size)}
	b.refCount.Store(1)
	return b
}

func (b *buffer) retain() {
	b.refCount.Add(1)
}

func (b *buffer) release() {
	if b.refCount.Add(-1) == 0 {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.data = nil
	}
}

// Resource is a typed, device-tagged window over a reference-counted byte
// buffer. Aliasing views produced by Slice and View share the buffer; the
// storage is dropped when the last view is released.
//
// Writes (Memset, Copy, SetFloat) assume exclusive access to the underlying
// buffer for the duration of the call; the resource provides no internal
// locking beyond the reference count.
type Resource struct {
	buf      *buffer
	offset   int // element offset into buf
	length   int // element count
	dtype    DataType
	device   Device
	tracking bool
}

// NewResource allocates a zero-initialized resource of count elements.
func NewResource(count int, dtype DataType, device Device) (*Resource, error) {
	if count < 0 {
		return nil, errors.Errorf("resource: negative element count %d", count)
	}
	byteSize := count * dtype.Size()
	if count != 0 && byteSize/count != dtype.Size() {
		return nil, errors.Errorf("resource: %d %s elements overflow", count, dtype)
	}

	r := &Resource{
		buf:    newBuffer(byteSize),
		offset: 0,
		length: count,
		dtype:  dtype,
		device: device,
	}
	klog.V(2).Infof("resource: allocated %d %s elements on %s", count, dtype, device)
	return r, nil
}

// Len returns the number of elements visible through this view.
func (r *Resource) Len() int {
	return r.length
}

// DType returns the element type.
func (r *Resource) DType() DataType {
	return r.dtype
}

// Device returns the device tag.
func (r *Resource) Device() Device {
	return r.device
}

// ByteSize returns the size of the view in bytes.
func (r *Resource) ByteSize() int {
	return r.length * r.dtype.Size()
}

// String describes the view, its element type and its footprint.
func (r *Resource) String() string {
	return fmt.Sprintf("Resource[%s x %d] on %s (%s)",
		r.dtype, r.length, r.device, humanize.Bytes(uint64(r.ByteSize())))
}

// Track enables event logging for this buffer. Debug only; the flag is not
// carried across Clone.
func (r *Resource) Track() *Resource {
	r.tracking = true
	klog.V(1).Infof("resource: tracking on for buffer %p", r.buf)
	return r
}

// Tracked reports whether event logging is enabled.
func (r *Resource) Tracked() bool {
	return r.tracking
}

// Retain adds a reference to the underlying buffer.
func (r *Resource) Retain() {
	r.buf.retain()
}

// Release drops a reference to the underlying buffer; the storage is freed
// when the last reference is released.
func (r *Resource) Release() {
	if r.tracking {
		klog.V(1).Infof("resource: release %s", r)
	}
	r.buf.release()
}

// bytes returns the view's window into the backing store.
func (r *Resource) bytes() []byte {
	es := r.dtype.Size()
	return r.buf.data[r.offset*es : (r.offset+r.length)*es]
}

// Slice returns an aliasing view over elements [start, end) of this view.
// The returned resource shares storage with the receiver: writes through
// either are visible through both.
func (r *Resource) Slice(start, end int) (*Resource, error) {
	if start < 0 || end < start || end > r.length {
		return nil, errors.Errorf("resource: slice [%d, %d) out of range for %d elements", start, end, r.length)
	}

	r.buf.retain()
	return &Resource{
		buf:      r.buf,
		offset:   r.offset + start,
		length:   end - start,
		dtype:    r.dtype,
		device:   r.device,
		tracking: r.tracking,
	}, nil
}

// View returns an aliasing view over the whole extent of this view.
func (r *Resource) View() *Resource {
	v, _ := r.Slice(0, r.length)
	return v
}

// Clone returns a deep copy with freshly allocated storage. The tracking
// flag is not carried over.
func (r *Resource) Clone() (*Resource, error) {
	out, err := NewResource(r.length, r.dtype, r.device)
	if err != nil {
		return nil, errors.Wrap(err, "resource: clone")
	}
	copy(out.bytes(), r.bytes())
	return out, nil
}

// Copy performs an element-wise copy from other into this view. Both views
// must have the same length and element type; on mismatch neither buffer is
// mutated.
func (r *Resource) Copy(other *Resource) error {
	if r.length != other.length {
		return errors.Errorf("resource: copy length mismatch: %d vs %d", r.length, other.length)
	}
	if r.dtype != other.dtype {
		return errors.Errorf("resource: copy type mismatch: %s vs %s", r.dtype, other.dtype)
	}
	copy(r.bytes(), other.bytes())
	return nil
}

// Memset fills every element of the view with v, converted to the view's
// element type.
func (r *Resource) Memset(v float64) {
	if r.length == 0 {
		return
	}
	if r.tracking {
		klog.V(1).Infof("resource: memset %v over %s", v, r)
	}

	r.SetFloat(0, v)
	b := r.bytes()
	for filled := r.dtype.Size(); filled < len(b); filled *= 2 {
		copy(b[filled:], b[:filled])
	}
}

// Float returns element i converted to float64.
func (r *Resource) Float(i int) float64 {
	switch r.dtype {
	case Float32:
		return float64(r.Float32()[i])
	case Float64:
		return r.Float64()[i]
	case Float16:
		return float64(r.Float16()[i].Float32())
	case Int32:
		return float64(r.Int32()[i])
	case Int64:
		return float64(r.Int64()[i])
	case Uint8:
		return float64(r.Uint8()[i])
	default:
		panic("unknown data type")
	}
}

// SetFloat stores v into element i, converted to the view's element type.
func (r *Resource) SetFloat(i int, v float64) {
	switch r.dtype {
	case Float32:
		r.Float32()[i] = float32(v)
	case Float64:
		r.Float64()[i] = v
	case Float16:
		r.Float16()[i] = float16.Fromfloat32(float32(v))
	case Int32:
		r.Int32()[i] = int32(v)
	case Int64:
		r.Int64()[i] = int64(v)
	case Uint8:
		r.Uint8()[i] = uint8(v)
	default:
		panic("unknown data type")
	}
}

// Float32 interprets the view as []float32.
// Panics if the element type is not Float32.
func (r *Resource) Float32() []float32 {
	r.mustType(Float32)
	b := r.bytes()
	if len(b) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by Len()
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), r.length)
}

// Float64 interprets the view as []float64.
// Panics if the element type is not Float64.
func (r *Resource) Float64() []float64 {
	r.mustType(Float64)
	b := r.bytes()
	if len(b) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by Len()
	return unsafe.Slice((*float64)(unsafe.Pointer(&b[0])), r.length)
}

// Float16 interprets the view as []float16.Float16.
// Panics if the element type is not Float16.
func (r *Resource) Float16() []float16.Float16 {
	r.mustType(Float16)
	b := r.bytes()
	if len(b) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by Len()
	return unsafe.Slice((*float16.Float16)(unsafe.Pointer(&b[0])), r.length)
}

// Int32 interprets the view as []int32.
// Panics if the element type is not Int32.
func (r *Resource) Int32() []int32 {
	r.mustType(Int32)
	b := r.bytes()
	if len(b) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by Len()
	return unsafe.Slice((*int32)(unsafe.Pointer(&b[0])), r.length)
}

// Int64 interprets the view as []int64.
// Panics if the element type is not Int64.
func (r *Resource) Int64() []int64 {
	r.mustType(Int64)
	b := r.bytes()
	if len(b) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by Len()
	return unsafe.Slice((*int64)(unsafe.Pointer(&b[0])), r.length)
}

// Uint8 interprets the view as []uint8.
// Panics if the element type is not Uint8.
func (r *Resource) Uint8() []uint8 {
	r.mustType(Uint8)
	return r.bytes()
}

func (r *Resource) mustType(dt DataType) {
	if r.dtype != dt {
		panic(fmt.Sprintf("resource element type is %s, not %s", r.dtype, dt))
	}
}
