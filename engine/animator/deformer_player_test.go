package animator

import (
	"testing"
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/skeleton"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/timeline"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMat4InDelta(t *testing.T, want, got mgl32.Mat4, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, msgAndArgs...)
	}
}

func vec3Keyframes(frames ...timeline.Keyframe[mgl32.Vec3]) []timeline.Keyframe[mgl32.Vec3] {
	return frames
}

// deformerFixture builds a timeline animating a two-bone chain: the hip
// through a separate position layer, the knee through a combined matrix
// layer. Both span 0s..2s with linear interpolation.
func deformerFixture(t *testing.T) (*timeline.Timeline, skeleton.Skeleton) {
	t.Helper()

	hipPosition, err := timeline.NewChannel("hip_position", timeline.InterpolationLinear, vec3Keyframes(
		timeline.Keyframe[mgl32.Vec3]{Position: 0, Value: mgl32.Vec3{0, 0, 0}},
		timeline.Keyframe[mgl32.Vec3]{Position: 2 * time.Second, Value: mgl32.Vec3{2, 0, 0}},
	))
	require.NoError(t, err)
	hipLayer, err := timeline.NewLayer("hip_position", hipPosition)
	require.NoError(t, err)

	kneeMatrix, err := timeline.NewChannel("knee", timeline.InterpolationLinear, []timeline.Keyframe[mgl32.Mat4]{
		{Position: 0, Value: mgl32.Translate3D(0, 1, 0)},
		{Position: 2 * time.Second, Value: mgl32.Translate3D(0, 3, 0)},
	})
	require.NoError(t, err)
	kneeLayer, err := timeline.NewLayer("knee", kneeMatrix)
	require.NoError(t, err)

	tl, err := timeline.NewTimeline(timeline.WithLayer(hipLayer), timeline.WithLayer(kneeLayer))
	require.NoError(t, err)

	skel := skeleton.NewSkeleton()
	hipBone, err := skeleton.NewIndexedBone("hip", 0, mgl32.Ident4())
	require.NoError(t, err)
	hip, err := skel.AddChild(skel.Root(), hipBone)
	require.NoError(t, err)
	kneeBone, err := skeleton.NewIndexedBone("knee", 1, mgl32.Ident4())
	require.NoError(t, err)
	_, err = skel.AddChild(hip, kneeBone)
	require.NoError(t, err)

	return tl, skel
}

func TestNewDeformerAnimationPlayerValidation(t *testing.T) {
	tl, skel := deformerFixture(t)
	_, err := NewDeformerAnimationPlayer(nil, skel)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	_, err = NewDeformerAnimationPlayer(tl, nil)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestOverlayInfluenceClamping(t *testing.T) {
	tl, skel := deformerFixture(t)
	d, err := NewDeformerAnimationPlayer(tl, skel, WithOverlayInfluence(3))
	require.NoError(t, err)
	assert.Equal(t, float32(1), d.OverlayInfluence())

	d.SetOverlayInfluence(-0.5)
	assert.Equal(t, float32(0), d.OverlayInfluence())
	d.SetOverlayInfluence(0.25)
	assert.Equal(t, float32(0.25), d.OverlayInfluence())
}

func TestBlendBoundaryIdentity(t *testing.T) {
	tl, skel := deformerFixture(t)
	d, err := NewDeformerAnimationPlayer(tl, skel)
	require.NoError(t, err)

	// Primary and overlay sit at different cursor positions so the blend
	// boundaries are distinguishable.
	d.Primary().SetPosition(time.Second)
	d.Overlay().SetPosition(0)

	t.Run("influence_zero_is_primary", func(t *testing.T) {
		d.SetOverlayInfluence(0)
		deformer, err := d.GetCurrentDeformer()
		require.NoError(t, err)
		require.Equal(t, 2, deformer.Len())

		// Hip at 1s: position (1,0,0). Knee matrix at 1s stacked onto it.
		assertMat4InDelta(t, mgl32.Translate3D(1, 0, 0), deformer.At(0))
		assertMat4InDelta(t, mgl32.Translate3D(1, 2, 0), deformer.At(1))
	})

	t.Run("influence_one_is_overlay", func(t *testing.T) {
		d.SetOverlayInfluence(1)
		deformer, err := d.GetCurrentDeformer()
		require.NoError(t, err)

		assertMat4InDelta(t, mgl32.Ident4(), deformer.At(0))
		assertMat4InDelta(t, mgl32.Translate3D(0, 1, 0), deformer.At(1))
	})

	t.Run("midpoint_blend", func(t *testing.T) {
		d.SetOverlayInfluence(0.5)
		deformer, err := d.GetCurrentDeformer()
		require.NoError(t, err)

		assertMat4InDelta(t, mgl32.Translate3D(0.5, 0, 0), deformer.At(0))
	})
}

func TestUpdateForwardsToBothPlayers(t *testing.T) {
	tl, skel := deformerFixture(t)
	d, err := NewDeformerAnimationPlayer(tl, skel)
	require.NoError(t, err)

	assert.ErrorIs(t, d.Update(-time.Second), common.ErrInvalidArgument)

	d.Primary().Play(false)
	d.Overlay().Play(false)
	require.NoError(t, d.Update(500*time.Millisecond))
	assert.Equal(t, 500*time.Millisecond, d.Primary().Position())
	assert.Equal(t, 500*time.Millisecond, d.Overlay().Position())
}

func TestGetCurrentDeformerHasNoPlayerSideEffects(t *testing.T) {
	tl, skel := deformerFixture(t)
	d, err := NewDeformerAnimationPlayer(tl, skel)
	require.NoError(t, err)
	d.Primary().SetPosition(time.Second)

	first, err := d.GetCurrentDeformer()
	require.NoError(t, err)
	second, err := d.GetCurrentDeformer()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d.Primary().Position())
	for i := 0; i < first.Len(); i++ {
		assertMat4InDelta(t, first.At(i), second.At(i))
	}
}

func TestDuplicateIndexLastWriterWins(t *testing.T) {
	aPosition, err := timeline.NewChannel("a_position", timeline.InterpolationLinear, vec3Keyframes(
		timeline.Keyframe[mgl32.Vec3]{Position: 0, Value: mgl32.Vec3{5, 0, 0}},
	))
	require.NoError(t, err)
	aLayer, err := timeline.NewLayer("a_position", aPosition)
	require.NoError(t, err)
	bPosition, err := timeline.NewChannel("b_position", timeline.InterpolationLinear, vec3Keyframes(
		timeline.Keyframe[mgl32.Vec3]{Position: 0, Value: mgl32.Vec3{0, 7, 0}},
	))
	require.NoError(t, err)
	bLayer, err := timeline.NewLayer("b_position", bPosition)
	require.NoError(t, err)
	tl, err := timeline.NewTimeline(timeline.WithLayer(aLayer), timeline.WithLayer(bLayer))
	require.NoError(t, err)

	skel := skeleton.NewSkeleton()
	boneA, err := skeleton.NewIndexedBone("a", 3, mgl32.Ident4())
	require.NoError(t, err)
	_, err = skel.AddChild(skel.Root(), boneA)
	require.NoError(t, err)
	boneB, err := skeleton.NewIndexedBone("b", 3, mgl32.Ident4())
	require.NoError(t, err)
	_, err = skel.AddChild(skel.Root(), boneB)
	require.NoError(t, err)

	d, err := NewDeformerAnimationPlayer(tl, skel)
	require.NoError(t, err)
	deformer, err := d.GetCurrentDeformer()
	require.NoError(t, err)

	require.Equal(t, 4, deformer.Len())
	assertMat4InDelta(t, mgl32.Translate3D(0, 7, 0), deformer.At(3),
		"the bone visited later in depth-first order wins the slot")
}

func TestUnattachedBoneContributesIdentity(t *testing.T) {
	tl, skel := deformerFixture(t)
	ghost, err := skeleton.NewIndexedBone("ghost", 5, mgl32.Ident4())
	require.NoError(t, err)
	_, err = skel.AddChild(skel.Root(), ghost)
	require.NoError(t, err)

	d, err := NewDeformerAnimationPlayer(tl, skel)
	require.NoError(t, err)
	deformer, err := d.GetCurrentDeformer()
	require.NoError(t, err)

	require.Equal(t, 6, deformer.Len())
	assertMat4InDelta(t, mgl32.Ident4(), deformer.At(5))
}

func TestComponentDefaults(t *testing.T) {
	rotation := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	rotationChannel, err := timeline.NewChannel("spin_rotation", timeline.InterpolationLinear, []timeline.Keyframe[mgl32.Quat]{
		{Position: 0, Value: rotation},
	})
	require.NoError(t, err)
	rotationLayer, err := timeline.NewLayer("spin_rotation", rotationChannel)
	require.NoError(t, err)
	tl, err := timeline.NewTimeline(timeline.WithLayer(rotationLayer))
	require.NoError(t, err)

	skel := skeleton.NewSkeleton()
	spin, err := skeleton.NewIndexedBone("spin", 0, mgl32.Ident4())
	require.NoError(t, err)
	_, err = skel.AddChild(skel.Root(), spin)
	require.NoError(t, err)

	d, err := NewDeformerAnimationPlayer(tl, skel)
	require.NoError(t, err)
	deformer, err := d.GetCurrentDeformer()
	require.NoError(t, err)

	// Missing position and scale layers default to zero translation and unit
	// scale, leaving the pure rotation.
	assertMat4InDelta(t, rotation.Mat4(), deformer.At(0))
}

func TestRefreshAttachments(t *testing.T) {
	tl, skel := deformerFixture(t)
	d, err := NewDeformerAnimationPlayer(tl, skel)
	require.NoError(t, err)
	d.Primary().SetPosition(time.Second)

	// A bone attached to an existing layer but added after construction is
	// unresolved until attachments are explicitly refreshed.
	lateBone, err := skeleton.NewIndexedBone("hip", 4, mgl32.Ident4())
	require.NoError(t, err)
	_, err = skel.AddChild(skel.Root(), lateBone)
	require.NoError(t, err)

	deformer, err := d.GetCurrentDeformer()
	require.NoError(t, err)
	assertMat4InDelta(t, mgl32.Ident4(), deformer.At(4), "not resolved before refresh")

	d.RefreshAttachments()
	deformer, err = d.GetCurrentDeformer()
	require.NoError(t, err)
	assertMat4InDelta(t, mgl32.Translate3D(1, 0, 0), deformer.At(4))
}
