package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Clamp01 clamps a ratio into [0, 1]. Interpolation ratios are always clamped
// instead of raising errors or producing NaN on degenerate time ranges.
//
// Parameters:
//   - ratio: the value to clamp
//
// Returns:
//   - float32: the clamped value
func Clamp01(ratio float32) float32 {
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// Lerp linearly interpolates between two values of any supported value type.
// Scalars, vectors, and matrices use plain arithmetic blends; quaternions use
// a normalized lerp so the result remains a unit rotation.
//
// Parameters:
//   - x: the start value (returned when ratio is 0)
//   - y: the end value (returned when ratio is 1)
//   - ratio: the blend factor, expected in [0, 1]
//
// Returns:
//   - T: the interpolated value
func Lerp[T Value](x, y T, ratio float32) T {
	switch a := any(x).(type) {
	case float32:
		b := any(y).(float32)
		return any(a + (b-a)*ratio).(T)
	case mgl32.Vec2:
		b := any(y).(mgl32.Vec2)
		return any(a.Add(b.Sub(a).Mul(ratio))).(T)
	case mgl32.Vec3:
		b := any(y).(mgl32.Vec3)
		return any(a.Add(b.Sub(a).Mul(ratio))).(T)
	case mgl32.Quat:
		b := any(y).(mgl32.Quat)
		return any(mgl32.QuatNlerp(a, b, ratio)).(T)
	case mgl32.Mat4:
		b := any(y).(mgl32.Mat4)
		return any(LerpMat4(a, b, ratio)).(T)
	default:
		return x
	}
}

// InterpolateCubic interpolates between x and y with a Catmull-Rom style
// 4-point cubic, using before and after as the outer control points.
// Quaternion results are renormalized; all other types blend per component.
//
// Parameters:
//   - before: the control point preceding x (pass x itself at the sequence start)
//   - x: the start value (returned when ratio is 0)
//   - y: the end value (returned when ratio is 1)
//   - after: the control point following y (pass y itself at the sequence end)
//   - ratio: the blend factor, expected in [0, 1]
//
// Returns:
//   - T: the interpolated value
func InterpolateCubic[T Value](before, x, y, after T, ratio float32) T {
	switch p1 := any(x).(type) {
	case float32:
		p0 := any(before).(float32)
		p2 := any(y).(float32)
		p3 := any(after).(float32)
		return any(catmullRom(p0, p1, p2, p3, ratio)).(T)
	case mgl32.Vec2:
		p0 := any(before).(mgl32.Vec2)
		p2 := any(y).(mgl32.Vec2)
		p3 := any(after).(mgl32.Vec2)
		var out mgl32.Vec2
		for i := range out {
			out[i] = catmullRom(p0[i], p1[i], p2[i], p3[i], ratio)
		}
		return any(out).(T)
	case mgl32.Vec3:
		p0 := any(before).(mgl32.Vec3)
		p2 := any(y).(mgl32.Vec3)
		p3 := any(after).(mgl32.Vec3)
		var out mgl32.Vec3
		for i := range out {
			out[i] = catmullRom(p0[i], p1[i], p2[i], p3[i], ratio)
		}
		return any(out).(T)
	case mgl32.Quat:
		p0 := any(before).(mgl32.Quat)
		p2 := any(y).(mgl32.Quat)
		p3 := any(after).(mgl32.Quat)
		out := mgl32.Quat{
			W: catmullRom(p0.W, p1.W, p2.W, p3.W, ratio),
			V: mgl32.Vec3{
				catmullRom(p0.V[0], p1.V[0], p2.V[0], p3.V[0], ratio),
				catmullRom(p0.V[1], p1.V[1], p2.V[1], p3.V[1], ratio),
				catmullRom(p0.V[2], p1.V[2], p2.V[2], p3.V[2], ratio),
			},
		}
		return any(out.Normalize()).(T)
	case mgl32.Mat4:
		p0 := any(before).(mgl32.Mat4)
		p2 := any(y).(mgl32.Mat4)
		p3 := any(after).(mgl32.Mat4)
		var out mgl32.Mat4
		for i := range out {
			out[i] = catmullRom(p0[i], p1[i], p2[i], p3[i], ratio)
		}
		return any(out).(T)
	default:
		return x
	}
}

// catmullRom evaluates the uniform Catmull-Rom basis for a single component.
func catmullRom(p0, p1, p2, p3, t float32) float32 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * ((2 * p1) +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// LerpMat4 blends two matrices component-wise. This is the blend used between
// the primary and overlay player transforms; it is intentionally not a proper
// decomposed transform interpolation.
//
// Parameters:
//   - a: the matrix returned when ratio is 0
//   - b: the matrix returned when ratio is 1
//   - ratio: the blend factor, expected in [0, 1]
//
// Returns:
//   - mgl32.Mat4: the blended matrix
func LerpMat4(a, b mgl32.Mat4, ratio float32) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*ratio
	}
	return out
}

// CreateTransformation composes a local transform matrix from decomposed
// position, scale, and rotation: translation * rotation * scale.
//
// Parameters:
//   - position: the translation component
//   - scale: the scale component
//   - rotation: the rotation component (should be a unit quaternion)
//
// Returns:
//   - mgl32.Mat4: the composed transformation matrix
func CreateTransformation(position, scale mgl32.Vec3, rotation mgl32.Quat) mgl32.Mat4 {
	translate := mgl32.Translate3D(position[0], position[1], position[2])
	scaling := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return translate.Mul4(rotation.Mat4()).Mul4(scaling)
}
