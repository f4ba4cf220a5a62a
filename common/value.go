// package common contains the value-type constraint, interpolation helpers,
// and error taxonomy shared by the timeline, animator, and skeleton packages.
// They are not interface-wrapped structs, just plain types and functions that
// express commonly used behavior.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Value is the closed set of value types a keyframe may carry. All of them are
// fixed-size and trivially copyable; reference semantics are deliberately
// excluded so channels and player caches can copy values freely.
type Value interface {
	float32 | mgl32.Vec2 | mgl32.Vec3 | mgl32.Quat | mgl32.Mat4
}

// ValueKind identifies one of the supported keyframe value types at runtime,
// without resorting to reflection.
type ValueKind uint8

const (
	// KindFloat is a scalar float32 value.
	KindFloat ValueKind = iota
	// KindVec2 is a 2-component vector.
	KindVec2
	// KindVec3 is a 3-component vector.
	KindVec3
	// KindQuat is a rotation quaternion.
	KindQuat
	// KindMat4 is a 4x4 transformation matrix.
	KindMat4
)

// String returns the lowercase name of the value kind, as used in timeline
// documents.
//
// Returns:
//   - string: one of "float", "vec2", "vec3", "quat", "mat4", or "unknown"
func (k ValueKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindQuat:
		return "quat"
	case KindMat4:
		return "mat4"
	default:
		return "unknown"
	}
}

// ParseValueKind converts a document kind name back into a ValueKind.
//
// Parameters:
//   - name: the lowercase kind name, as produced by ValueKind.String
//
// Returns:
//   - ValueKind: the parsed kind
//   - bool: false if the name is not a supported kind
func ParseValueKind(name string) (ValueKind, bool) {
	switch name {
	case "float":
		return KindFloat, true
	case "vec2":
		return KindVec2, true
	case "vec3":
		return KindVec3, true
	case "quat":
		return KindQuat, true
	case "mat4":
		return KindMat4, true
	default:
		return 0, false
	}
}

// ComponentCount returns the number of float32 components a value of this kind
// flattens into when serialized.
//
// Returns:
//   - int: the component count (1, 2, 3, 4, or 16), or 0 for an unknown kind
func (k ValueKind) ComponentCount() int {
	switch k {
	case KindFloat:
		return 1
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindQuat:
		return 4
	case KindMat4:
		return 16
	default:
		return 0
	}
}

// KindOf resolves the ValueKind for a supported value type at compile time.
//
// Returns:
//   - ValueKind: the kind corresponding to T
func KindOf[T Value]() ValueKind {
	var zero T
	switch any(zero).(type) {
	case mgl32.Vec2:
		return KindVec2
	case mgl32.Vec3:
		return KindVec3
	case mgl32.Quat:
		return KindQuat
	case mgl32.Mat4:
		return KindMat4
	default:
		return KindFloat
	}
}

// DefaultValue returns the neutral element for a value type: zero for scalars
// and vectors, the identity quaternion for rotations, and the identity matrix
// for transformations. Empty channels and unattached bones sample to this.
//
// Returns:
//   - T: the neutral value for the type
func DefaultValue[T Value]() T {
	var zero T
	switch v := any(&zero).(type) {
	case *mgl32.Quat:
		*v = mgl32.QuatIdent()
	case *mgl32.Mat4:
		*v = mgl32.Ident4()
	}
	return zero
}
