package tensor

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Shape represents the dimensions of a tensor in major-to-minor order:
// dimension 0 is the outermost, slowest-varying axis.
type Shape []int

// Elements returns the total number of elements described by the shape.
// The empty shape is a scalar and has exactly one element.
func (s Shape) Elements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension of a finalized shape is non-negative.
// Wildcard (-1) dimensions are only legal inside a Reshape target.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return errors.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Dim returns the size of dimension i. Negative i counts from the end, so
// Dim(-1) is the innermost dimension. An index still out of range after
// resolution falls back to dimension 0, mirroring the permissive lookup of
// the reference layout code; callers that need strict bounds must check
// against len(s) themselves.
func (s Shape) Dim(i int) int {
	return s[s.resolve(i)]
}

// SetDim sets the size of dimension i, with the same index resolution as Dim.
func (s Shape) SetDim(i, v int) {
	s[s.resolve(i)] = v
}

func (s Shape) resolve(i int) int {
	if i < 0 {
		i += len(s)
	}
	if i < 0 || i >= len(s) {
		return 0
	}
	return i
}

// Pop returns the shape with dimension 0 removed. Popping an empty shape
// returns an empty shape.
func (s Shape) Pop() Shape {
	if len(s) == 0 {
		return Shape{}
	}
	return s[1:].Clone()
}

// Reshape resolves a reshape target against the receiver's element count.
//
// The target may contain at most one -1 wildcard, whose size is inferred so
// that the result covers exactly Elements() elements. Reshape fails if a
// second wildcard appears, if a concrete target dimension does not evenly
// divide the remaining element count, or if a fully concrete target does not
// exhaust the element count exactly.
func (s Shape) Reshape(target Shape) (Shape, error) {
	final := target.Clone()

	wildcard := -1
	remainder := s.Elements()

	for i, dim := range target {
		if dim == -1 {
			if wildcard != -1 {
				return nil, errors.Errorf("reshape %v -> %v: multiple wildcard dimensions", s, target)
			}
			wildcard = i
			continue
		}
		if dim <= 0 || remainder%dim != 0 {
			return nil, errors.Errorf("reshape %v -> %v: dimension %d does not divide %d elements", s, target, dim, s.Elements())
		}
		remainder /= dim
	}

	if wildcard != -1 {
		final[wildcard] = remainder
	} else if remainder != 1 {
		return nil, errors.Errorf("reshape %v -> %v: %d elements left over", s, target, remainder)
	}

	return final, nil
}

// Equal reports whether two shapes have the same length and identical
// per-dimension sizes.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as (d0, d1, ...); a scalar formats as ().
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = fmt.Sprintf("%d", dim)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
