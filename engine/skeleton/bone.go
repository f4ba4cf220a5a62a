package skeleton

import (
	"fmt"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/go-gl/mathgl/mgl32"
)

// noIndex marks a bone without a deformer slot.
const noIndex int16 = -1

// Bone is one node payload in a skeleton hierarchy: an optional identifier
// tying the bone to animation layers, an optional deformer slot index, and
// the rest-pose offset applied before the accumulated absolute transform.
// Both identifier and index are optional; a bone may exist purely as a
// static pivot. Bone is an immutable value.
type Bone struct {
	identifier string
	index      int16
	offset     mgl32.Mat4
}

// NewBone creates a bone without a deformer slot.
//
// Parameters:
//   - identifier: the animation layer name this bone binds to (empty for none)
//   - offset: the rest-pose offset matrix
//
// Returns:
//   - Bone: the constructed bone
func NewBone(identifier string, offset mgl32.Mat4) Bone {
	return Bone{identifier: identifier, index: noIndex, offset: offset}
}

// NewIndexedBone creates a bone with a deformer slot index.
//
// Parameters:
//   - identifier: the animation layer name this bone binds to (empty for none)
//   - index: the deformer slot, in [0, DeformerMaximumSize)
//   - offset: the rest-pose offset matrix
//
// Returns:
//   - Bone: the constructed bone
//   - error: wraps common.ErrInvalidArgument if the index is outside the slot domain
func NewIndexedBone(identifier string, index uint8, offset mgl32.Mat4) (Bone, error) {
	if int(index) >= DeformerMaximumSize {
		return Bone{}, fmt.Errorf("bone index %d exceeds slot domain [0, %d): %w",
			index, DeformerMaximumSize, common.ErrInvalidArgument)
	}
	return Bone{identifier: identifier, index: int16(index), offset: offset}, nil
}

// Identifier returns the bone's animation layer name, or an empty string for
// an unattached bone.
func (b Bone) Identifier() string {
	return b.identifier
}

// HasIdentifier reports whether the bone binds to an animation layer name.
func (b Bone) HasIdentifier() bool {
	return b.identifier != ""
}

// Index returns the bone's deformer slot.
//
// Returns:
//   - uint8: the slot index (meaningful only when bool is true)
//   - bool: false if the bone has no deformer slot
func (b Bone) Index() (uint8, bool) {
	if b.index == noIndex {
		return 0, false
	}
	return uint8(b.index), true
}

// Offset returns the bone's rest-pose offset matrix.
func (b Bone) Offset() mgl32.Mat4 {
	return b.offset
}
