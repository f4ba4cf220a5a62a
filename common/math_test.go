package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp01(t *testing.T) {
	cases := []struct {
		name  string
		input float32
		want  float32
	}{
		{"below", -0.5, 0},
		{"zero", 0, 0},
		{"inside", 0.25, 0.25},
		{"one", 1, 1},
		{"above", 3.5, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Clamp01(c.input))
		})
	}
}

func TestLerpScalar(t *testing.T) {
	assert.Equal(t, float32(2), Lerp[float32](2, 6, 0))
	assert.Equal(t, float32(6), Lerp[float32](2, 6, 1))
	assert.Equal(t, float32(4), Lerp[float32](2, 6, 0.5))
}

func TestLerpVec3(t *testing.T) {
	a := mgl32.Vec3{0, 2, -4}
	b := mgl32.Vec3{8, 4, 4}
	mid := Lerp(a, b, 0.5)
	assert.InDelta(t, 4, mid[0], 1e-6)
	assert.InDelta(t, 3, mid[1], 1e-6)
	assert.InDelta(t, 0, mid[2], 1e-6)
}

func TestLerpQuatStaysNormalized(t *testing.T) {
	a := mgl32.QuatRotate(0, mgl32.Vec3{0, 1, 0})
	b := mgl32.QuatRotate(1.2, mgl32.Vec3{0, 1, 0})
	blended := Lerp(a, b, 0.3)
	assert.InDelta(t, 1, blended.Len(), 1e-5)
}

func TestLerpMat4Boundaries(t *testing.T) {
	a := mgl32.Translate3D(1, 2, 3)
	b := mgl32.Translate3D(-5, 0, 9)
	assert.Equal(t, a, LerpMat4(a, b, 0))
	assert.Equal(t, b, LerpMat4(a, b, 1))
}

func TestInterpolateCubicBoundaries(t *testing.T) {
	// At ratio 0 the cubic must pass exactly through x, at ratio 1 through y,
	// regardless of the outer control points.
	assert.InDelta(t, 3, InterpolateCubic[float32](1, 3, 7, 20, 0), 1e-6)
	assert.InDelta(t, 7, InterpolateCubic[float32](1, 3, 7, 20, 1), 1e-6)
}

func TestInterpolateCubicQuatRenormalizes(t *testing.T) {
	q0 := mgl32.QuatRotate(0, mgl32.Vec3{1, 0, 0})
	q1 := mgl32.QuatRotate(0.4, mgl32.Vec3{1, 0, 0})
	q2 := mgl32.QuatRotate(0.8, mgl32.Vec3{1, 0, 0})
	q3 := mgl32.QuatRotate(1.2, mgl32.Vec3{1, 0, 0})
	out := InterpolateCubic(q0, q1, q2, q3, 0.5)
	assert.InDelta(t, 1, out.Len(), 1e-5)
}

func TestCreateTransformation(t *testing.T) {
	// Pure translation with unit scale and identity rotation.
	m := CreateTransformation(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent())
	require.Equal(t, mgl32.Translate3D(1, 2, 3), m)

	// Scale applies before translation: a point at (1,0,0) with scale 2 lands at (2,0,0) plus the offset.
	m = CreateTransformation(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{2, 2, 2}, mgl32.QuatIdent())
	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 12, p[0], 1e-5)
}

func TestDefaultValue(t *testing.T) {
	assert.Equal(t, float32(0), DefaultValue[float32]())
	assert.Equal(t, mgl32.Vec3{}, DefaultValue[mgl32.Vec3]())
	assert.Equal(t, mgl32.QuatIdent(), DefaultValue[mgl32.Quat]())
	assert.Equal(t, mgl32.Ident4(), DefaultValue[mgl32.Mat4]())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindFloat, KindOf[float32]())
	assert.Equal(t, KindVec2, KindOf[mgl32.Vec2]())
	assert.Equal(t, KindVec3, KindOf[mgl32.Vec3]())
	assert.Equal(t, KindQuat, KindOf[mgl32.Quat]())
	assert.Equal(t, KindMat4, KindOf[mgl32.Mat4]())
}

func TestParseValueKindRoundTrip(t *testing.T) {
	for _, kind := range []ValueKind{KindFloat, KindVec2, KindVec3, KindQuat, KindMat4} {
		parsed, ok := ParseValueKind(kind.String())
		require.True(t, ok, kind.String())
		assert.Equal(t, kind, parsed)
	}
	_, ok := ParseValueKind("matrix")
	assert.False(t, ok)
}
