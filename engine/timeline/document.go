package timeline

import (
	"fmt"
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/go-gl/mathgl/mgl32"
)

// TimelineDocument is the serializable form of a Timeline. Documents exist to
// round-trip a timeline's structure through YAML; they carry no behavior.
type TimelineDocument struct {
	Layers  []LayerDocument  `yaml:"layers"`
	Markers []MarkerDocument `yaml:"markers,omitempty"`
}

// LayerDocument is the serializable form of a Layer.
type LayerDocument struct {
	Name     string            `yaml:"name"`
	Channels []ChannelDocument `yaml:"channels"`
}

// ChannelDocument is the serializable form of a channel. Kind and
// Interpolation use the lowercase names produced by ValueKind.String and
// InterpolationMethod.String.
type ChannelDocument struct {
	Name          string             `yaml:"name"`
	Kind          string             `yaml:"kind"`
	Interpolation string             `yaml:"interpolation"`
	Keyframes     []KeyframeDocument `yaml:"keyframes,omitempty"`
}

// KeyframeDocument is the serializable form of a keyframe. Position uses the
// time.Duration string format ("250ms", "1.5s"); Values holds the flattened
// float32 components of the keyframe value, ordered x,y[,z[,w]] for vectors
// and quaternions and column-major for matrices.
type KeyframeDocument struct {
	Position string    `yaml:"position"`
	Values   []float32 `yaml:"values,flow"`
}

// MarkerDocument is the serializable form of a Marker.
type MarkerDocument struct {
	Name     string `yaml:"name"`
	Position string `yaml:"position"`
}

// Document returns the serializable description of the timeline, suitable
// for YAML encoding and for reconstruction via FromDocument.
//
// Returns:
//   - TimelineDocument: the timeline's document form
func (t *Timeline) Document() TimelineDocument {
	doc := TimelineDocument{
		Layers:  make([]LayerDocument, 0, len(t.layerOrder)),
		Markers: make([]MarkerDocument, 0, len(t.markerOrder)),
	}
	for _, layer := range t.Layers() {
		doc.Layers = append(doc.Layers, layer.Document())
	}
	for _, marker := range t.Markers() {
		doc.Markers = append(doc.Markers, MarkerDocument{
			Name:     marker.Name,
			Position: marker.Position.String(),
		})
	}
	return doc
}

// FromDocument reconstructs a timeline from its document form. The same
// validation as direct construction applies: duplicate names or positions and
// undefined kinds or methods fail without partial state.
//
// Parameters:
//   - doc: the document to reconstruct from
//
// Returns:
//   - *Timeline: the reconstructed timeline
//   - error: wraps the common error taxonomy on any invalid document content
func FromDocument(doc TimelineDocument) (*Timeline, error) {
	options := make([]TimelineOption, 0, len(doc.Layers)+len(doc.Markers))
	for _, layerDoc := range doc.Layers {
		channels := make([]Channel, 0, len(layerDoc.Channels))
		for _, channelDoc := range layerDoc.Channels {
			channel, err := channelFromDocument(channelDoc)
			if err != nil {
				return nil, fmt.Errorf("layer %q: %w", layerDoc.Name, err)
			}
			channels = append(channels, channel)
		}
		layer, err := NewLayer(layerDoc.Name, channels...)
		if err != nil {
			return nil, err
		}
		options = append(options, WithLayer(layer))
	}
	for _, markerDoc := range doc.Markers {
		position, err := time.ParseDuration(markerDoc.Position)
		if err != nil {
			return nil, fmt.Errorf("marker %q has position %q: %w",
				markerDoc.Name, markerDoc.Position, common.ErrInvalidArgument)
		}
		options = append(options, WithMarker(markerDoc.Name, position))
	}
	return NewTimeline(options...)
}

func channelFromDocument(doc ChannelDocument) (Channel, error) {
	kind, ok := common.ParseValueKind(doc.Kind)
	if !ok {
		return nil, fmt.Errorf("channel %q has unknown kind %q: %w",
			doc.Name, doc.Kind, common.ErrInvalidArgument)
	}
	method, ok := ParseInterpolationMethod(doc.Interpolation)
	if !ok {
		return nil, fmt.Errorf("channel %q has unknown interpolation %q: %w",
			doc.Name, doc.Interpolation, common.ErrInvalidArgument)
	}

	switch kind {
	case common.KindVec2:
		return typedChannelFromDocument[mgl32.Vec2](doc, method)
	case common.KindVec3:
		return typedChannelFromDocument[mgl32.Vec3](doc, method)
	case common.KindQuat:
		return typedChannelFromDocument[mgl32.Quat](doc, method)
	case common.KindMat4:
		return typedChannelFromDocument[mgl32.Mat4](doc, method)
	default:
		return typedChannelFromDocument[float32](doc, method)
	}
}

func typedChannelFromDocument[T common.Value](doc ChannelDocument, method InterpolationMethod) (Channel, error) {
	frames := make([]Keyframe[T], 0, len(doc.Keyframes))
	for _, keyframeDoc := range doc.Keyframes {
		position, err := time.ParseDuration(keyframeDoc.Position)
		if err != nil {
			return nil, fmt.Errorf("channel %q has keyframe position %q: %w",
				doc.Name, keyframeDoc.Position, common.ErrInvalidArgument)
		}
		value, err := unflattenValue[T](keyframeDoc.Values)
		if err != nil {
			return nil, fmt.Errorf("channel %q at %v: %w", doc.Name, position, err)
		}
		frames = append(frames, Keyframe[T]{Position: position, Value: value})
	}
	return NewChannel(doc.Name, method, frames)
}

// flattenValue decomposes a value into its float32 components. Quaternions
// flatten as x,y,z,w; matrices stay column-major as stored by mgl32.
func flattenValue[T common.Value](value T) []float32 {
	switch v := any(value).(type) {
	case float32:
		return []float32{v}
	case mgl32.Vec2:
		return []float32{v[0], v[1]}
	case mgl32.Vec3:
		return []float32{v[0], v[1], v[2]}
	case mgl32.Quat:
		return []float32{v.V[0], v.V[1], v.V[2], v.W}
	case mgl32.Mat4:
		out := make([]float32, 16)
		copy(out, v[:])
		return out
	default:
		return nil
	}
}

func unflattenValue[T common.Value](values []float32) (T, error) {
	var out T
	kind := common.KindOf[T]()
	if len(values) != kind.ComponentCount() {
		return out, fmt.Errorf("kind %s needs %d components, got %d: %w",
			kind, kind.ComponentCount(), len(values), common.ErrInvalidArgument)
	}
	switch v := any(&out).(type) {
	case *float32:
		*v = values[0]
	case *mgl32.Vec2:
		*v = mgl32.Vec2{values[0], values[1]}
	case *mgl32.Vec3:
		*v = mgl32.Vec3{values[0], values[1], values[2]}
	case *mgl32.Quat:
		*v = mgl32.Quat{V: mgl32.Vec3{values[0], values[1], values[2]}, W: values[3]}
	case *mgl32.Mat4:
		copy(v[:], values)
	}
	return out, nil
}
