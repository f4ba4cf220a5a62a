package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/engine/animator"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/skeleton"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/timeline"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bipedGLTF builds a minimal animated two-joint glTF document: a "hip" joint
// with a linear translation track and a child "knee" joint with a stepped
// rotation track. All buffer data is embedded as a base64 data URI.
func bipedGLTF(t *testing.T) string {
	t.Helper()

	identity := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}

	var buf bytes.Buffer
	write := func(values []float32) {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, values))
	}
	write(identity[:])                 // inverse bind matrix, hip
	write(identity[:])                 // inverse bind matrix, knee
	write([]float32{0, 1})             // translation timestamps
	write([]float32{0, 0, 0, 2, 0, 0}) // translation values
	write([]float32{0})                // rotation timestamp
	write([]float32{0, 0, 0, 1})       // rotation value (identity quat)

	data := buf.Bytes()
	encoded := base64.StdEncoding.EncodeToString(data)

	return fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"nodes": [
			{"name": "hip", "children": [1]},
			{"name": "knee"}
		],
		"skins": [{"name": "biped", "inverseBindMatrices": 0, "joints": [0, 1]}],
		"animations": [{
			"name": "walk",
			"channels": [
				{"sampler": 0, "target": {"node": 0, "path": "translation"}},
				{"sampler": 1, "target": {"node": 1, "path": "rotation"}}
			],
			"samplers": [
				{"input": 1, "output": 2, "interpolation": "LINEAR"},
				{"input": 3, "output": 4, "interpolation": "STEP"}
			]
		}],
		"buffers": [{"uri": "data:application/octet-stream;base64,%s", "byteLength": %d}],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 128},
			{"buffer": 0, "byteOffset": 128, "byteLength": 8},
			{"buffer": 0, "byteOffset": 136, "byteLength": 24},
			{"buffer": 0, "byteOffset": 160, "byteLength": 4},
			{"buffer": 0, "byteOffset": 164, "byteLength": 16}
		],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 2, "type": "MAT4"},
			{"bufferView": 1, "componentType": 5126, "count": 2, "type": "SCALAR"},
			{"bufferView": 2, "componentType": 5126, "count": 2, "type": "VEC3"},
			{"bufferView": 3, "componentType": 5126, "count": 1, "type": "SCALAR"},
			{"bufferView": 4, "componentType": 5126, "count": 1, "type": "VEC4"}
		]
	}`, encoded, len(data))
}

func TestLoadReaderImportsRig(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	rig, err := l.LoadReader("biped.gltf", strings.NewReader(bipedGLTF(t)), false)
	require.NoError(t, err)
	assert.Equal(t, "biped", rig.Name, "skin name takes precedence over the cache key")

	t.Run("skeleton_hierarchy", func(t *testing.T) {
		require.Equal(t, 3, rig.Skeleton.NodeCount())

		var identifiers []string
		var handles []skeleton.NodeHandle
		rig.Skeleton.Walk(func(handle skeleton.NodeHandle, bone skeleton.Bone) bool {
			identifiers = append(identifiers, bone.Identifier())
			handles = append(handles, handle)
			return true
		})
		assert.Equal(t, []string{"", "hip", "knee"}, identifiers)

		parent, ok := rig.Skeleton.Parent(handles[2])
		require.True(t, ok)
		assert.Equal(t, handles[1], parent, "knee attaches under hip")

		hip, err := rig.Skeleton.Bone(handles[1])
		require.NoError(t, err)
		index, ok := hip.Index()
		require.True(t, ok)
		assert.Equal(t, uint8(0), index)
		assert.Equal(t, mgl32.Ident4(), hip.Offset())
	})

	t.Run("timeline_layers", func(t *testing.T) {
		walk, ok := rig.Timelines["walk"]
		require.True(t, ok)
		assert.Equal(t, 2, walk.LayerCount())
		assert.Equal(t, time.Second, walk.End())

		layer, err := walk.Layer("hip_position")
		require.NoError(t, err)
		channel, err := layer.Channel("hip_position")
		require.NoError(t, err)
		assert.Equal(t, timeline.InterpolationLinear, channel.Interpolation())
		typed, ok := channel.(*timeline.TypedChannel[mgl32.Vec3])
		require.True(t, ok)
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, typed.ValueAt(500*time.Millisecond))

		rotationLayer, err := walk.Layer("knee_rotation")
		require.NoError(t, err)
		rotationChannel, err := rotationLayer.Channel("knee_rotation")
		require.NoError(t, err)
		assert.Equal(t, timeline.InterpolationNone, rotationChannel.Interpolation())
	})

	t.Run("drives_deformer_player", func(t *testing.T) {
		player, err := animator.NewDeformerAnimationPlayer(rig.Timelines["walk"], rig.Skeleton)
		require.NoError(t, err)
		player.Primary().SetPosition(500 * time.Millisecond)

		deformer, err := player.GetCurrentDeformer()
		require.NoError(t, err)
		require.Equal(t, 2, deformer.Len())
		for i, want := range mgl32.Translate3D(1, 0, 0) {
			assert.InDelta(t, want, deformer.At(0)[i], 1e-5)
		}
	})

	t.Run("cache_returns_same_rig", func(t *testing.T) {
		assert.Same(t, rig, l.Get("biped.gltf"))
		again, err := l.LoadReader("biped.gltf", strings.NewReader("not even json"), false)
		require.NoError(t, err)
		assert.Same(t, rig, again, "cache hit skips the reader entirely")
	})
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	_, err := l.Load("model.obj")
	assert.ErrorContains(t, err, "unsupported rig format")
}

func TestLoadReaderRejectsInvalidVersion(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	_, err := l.LoadReader("old.gltf", strings.NewReader(`{"asset":{"version":"1.0"}}`), false)
	assert.ErrorIs(t, err, errInvalidGLTFVersion)
}

func TestWithRigPrepopulatesCache(t *testing.T) {
	rig := &Rig{Name: "static", Skeleton: skeleton.NewSkeleton()}
	l := NewLoader(BackendTypeGLTF, WithRig("static", rig))
	assert.Same(t, rig, l.Get("static"))
	assert.Len(t, l.Rigs(), 1)
}

func TestInterpolationMethodMapping(t *testing.T) {
	tests := []struct {
		mode        string
		want        timeline.InterpolationMethod
		cubicSpline bool
	}{
		{"LINEAR", timeline.InterpolationLinear, false},
		{"", timeline.InterpolationLinear, false},
		{"STEP", timeline.InterpolationNone, false},
		{"CUBICSPLINE", timeline.InterpolationCubic, true},
		{"MADE_UP", timeline.InterpolationLinear, false},
	}
	for _, tt := range tests {
		method, cubicSpline := gltfInterpolationMethod(tt.mode)
		assert.Equal(t, tt.want, method, tt.mode)
		assert.Equal(t, tt.cubicSpline, cubicSpline, tt.mode)
	}
}
