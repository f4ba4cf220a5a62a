package loader

import (
	"fmt"
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/engine/timeline"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor defines the interface for extracting animation data
// from a parsed glTF document. It converts glTF animations into engine-ready
// timelines: every translation, rotation, or scale channel becomes a timeline
// layer named after the target bone identifier plus the component suffix the
// deformer animation player resolves ("hip_position", "hip_rotation",
// "hip_scale").
//
// The nodeNames parameter maps glTF node indices to bone identifiers and is
// produced by the skeleton extractor. Channels targeting unnamed nodes are
// skipped.
type gltfAnimationExtractor interface {
	// ExtractTimeline extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//   - nodeNames: maps glTF node index to bone identifier
	//
	// Returns:
	//   - string: the animation name ("animation_<n>" when the source has none)
	//   - *timeline.Timeline: the extracted timeline
	//   - error: error if extraction fails
	ExtractTimeline(animIndex int, nodeNames map[int]string) (string, *timeline.Timeline, error)

	// ExtractAllTimelines extracts every animation from the document, keyed
	// by animation name.
	//
	// Parameters:
	//   - nodeNames: maps glTF node index to bone identifier
	//
	// Returns:
	//   - map[string]*timeline.Timeline: all extracted timelines
	//   - error: error if extraction fails
	ExtractAllTimelines(nodeNames map[int]string) (map[string]*timeline.Timeline, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractTimeline(animIndex int, nodeNames map[int]string) (string, *timeline.Timeline, error) {
	doc := e.parser.Document()
	if doc == nil {
		return "", nil, fmt.Errorf("no document loaded")
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return "", nil, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]
	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	var options []timeline.TimelineOption

	for i := range anim.Channels {
		ch := &anim.Channels[i]

		// Skip channels with no target node (e.g. morph targets).
		if ch.Target.Node == nil {
			continue
		}
		identifier, ok := nodeNames[*ch.Target.Node]
		if !ok {
			// This channel targets a node outside the skeleton; skip it.
			continue
		}

		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return "", nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		timestamps, err := e.parser.ReadScalarAccessor(sampler.Input)
		if err != nil {
			return "", nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", name, i, err)
		}
		positions := make([]time.Duration, len(timestamps))
		for j, t := range timestamps {
			positions[j] = time.Duration(float64(t) * float64(time.Second))
		}

		method, cubicSpline := gltfInterpolationMethod(sampler.Interpolation)

		var layer *timeline.Layer
		switch ch.Target.Path {
		case gltfAnimPathTranslation, gltfAnimPathScale:
			values, err := e.parser.ReadVec3Accessor(sampler.Output)
			if err != nil {
				return "", nil, fmt.Errorf("animation %q channel %d: failed to read %s values: %w", name, i, ch.Target.Path, err)
			}
			suffix := "_position"
			if ch.Target.Path == gltfAnimPathScale {
				suffix = "_scale"
			}
			layer, err = vec3Layer(identifier+suffix, method, positions, values, cubicSpline)
			if err != nil {
				return "", nil, fmt.Errorf("animation %q channel %d: %w", name, i, err)
			}

		case gltfAnimPathRotation:
			values, err := e.parser.ReadVec4Accessor(sampler.Output)
			if err != nil {
				return "", nil, fmt.Errorf("animation %q channel %d: failed to read rotation values: %w", name, i, err)
			}
			layer, err = quatLayer(identifier+"_rotation", method, positions, values, cubicSpline)
			if err != nil {
				return "", nil, fmt.Errorf("animation %q channel %d: %w", name, i, err)
			}

		case gltfAnimPathWeights:
			// Morph target weights are not supported; skip.
			continue
		default:
			continue
		}

		options = append(options, timeline.WithLayer(layer))
	}

	t, err := timeline.NewTimeline(options...)
	if err != nil {
		return "", nil, fmt.Errorf("animation %q: %w", name, err)
	}
	return name, t, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAllTimelines(nodeNames map[int]string) (map[string]*timeline.Timeline, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	timelines := make(map[string]*timeline.Timeline, len(doc.Animations))
	for i := range doc.Animations {
		name, t, err := e.ExtractTimeline(i, nodeNames)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		timelines[name] = t
	}

	return timelines, nil
}

// --- Helper Functions ---

// gltfInterpolationMethod maps a glTF sampler interpolation mode to a timeline
// interpolation method. The second return reports whether the sampler output
// carries CUBICSPLINE in-tangent/value/out-tangent triples.
func gltfInterpolationMethod(mode string) (timeline.InterpolationMethod, bool) {
	switch mode {
	case gltfAnimInterpolationStep:
		return timeline.InterpolationNone, false
	case gltfAnimInterpolationCubicSpline:
		return timeline.InterpolationCubic, true
	case gltfAnimInterpolationLinear, "":
		return timeline.InterpolationLinear, false
	default:
		return timeline.InterpolationLinear, false
	}
}

// vec3Layer builds a single-channel vec3 layer from parallel position and
// value slices. CUBICSPLINE outputs store three elements per keyframe; only
// the middle (value) element is kept.
func vec3Layer(name string, method timeline.InterpolationMethod, positions []time.Duration, values [][3]float32, cubicSpline bool) (*timeline.Layer, error) {
	count := len(positions)
	if cubicSpline {
		count = min(count, len(values)/3)
	} else {
		count = min(count, len(values))
	}

	keyframes := make([]timeline.Keyframe[mgl32.Vec3], count)
	for j := 0; j < count; j++ {
		v := values[j]
		if cubicSpline {
			v = values[3*j+1]
		}
		keyframes[j] = timeline.Keyframe[mgl32.Vec3]{
			Position: positions[j],
			Value:    mgl32.Vec3{v[0], v[1], v[2]},
		}
	}

	channel, err := timeline.NewChannel(name, method, keyframes)
	if err != nil {
		return nil, err
	}
	return timeline.NewLayer(name, channel)
}

// quatLayer builds a single-channel quaternion layer. glTF stores rotations
// as (x, y, z, w) vec4 values.
func quatLayer(name string, method timeline.InterpolationMethod, positions []time.Duration, values [][4]float32, cubicSpline bool) (*timeline.Layer, error) {
	count := len(positions)
	if cubicSpline {
		count = min(count, len(values)/3)
	} else {
		count = min(count, len(values))
	}

	keyframes := make([]timeline.Keyframe[mgl32.Quat], count)
	for j := 0; j < count; j++ {
		v := values[j]
		if cubicSpline {
			v = values[3*j+1]
		}
		keyframes[j] = timeline.Keyframe[mgl32.Quat]{
			Position: positions[j],
			Value:    mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}},
		}
	}

	channel, err := timeline.NewChannel(name, method, keyframes)
	if err != nil {
		return nil, err
	}
	return timeline.NewLayer(name, channel)
}
