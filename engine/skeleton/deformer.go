package skeleton

import (
	"fmt"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/go-gl/mathgl/mgl32"
)

// DeformerMaximumSize is the largest number of matrix slots a deformer may
// carry, which also bounds the bone index domain to [0, 127].
const DeformerMaximumSize = 128

// Deformer is an immutable flat array of transformation matrices indexed by
// bone slot, consumed by mesh-skinning code. A deformer is built fresh every
// frame and has no identity beyond its contents.
type Deformer struct {
	matrices []mgl32.Mat4
}

// NewDeformer creates a deformer over the given matrix buffer.
//
// Parameters:
//   - matrices: the slot matrices, one per bone index, at most DeformerMaximumSize
//   - clone: true to defensively copy the buffer, false to alias the caller's slice
//
// Returns:
//   - *Deformer: the constructed deformer
//   - error: wraps common.ErrCapacityExceeded if the buffer has more than
//     DeformerMaximumSize entries
func NewDeformer(matrices []mgl32.Mat4, clone bool) (*Deformer, error) {
	if len(matrices) > DeformerMaximumSize {
		return nil, fmt.Errorf("deformer buffer has %d slots, maximum is %d: %w",
			len(matrices), DeformerMaximumSize, common.ErrCapacityExceeded)
	}
	if clone {
		cloned := make([]mgl32.Mat4, len(matrices))
		copy(cloned, matrices)
		matrices = cloned
	}
	return &Deformer{matrices: matrices}, nil
}

// Len returns the number of matrix slots.
func (d *Deformer) Len() int {
	return len(d.matrices)
}

// At returns the matrix in the given slot. Panics like a slice access if the
// slot is out of range.
//
// Parameters:
//   - slot: the bone index to read
//
// Returns:
//   - mgl32.Mat4: the slot's transformation matrix
func (d *Deformer) At(slot int) mgl32.Mat4 {
	return d.matrices[slot]
}
