package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
)

// InterpolationMethod selects how a channel blends between its keyframes.
type InterpolationMethod uint8

const (
	// InterpolationNone holds the value of the closest keyframe without any blending.
	InterpolationNone InterpolationMethod = iota

	// InterpolationLinear blends linearly between the two neighboring keyframes.
	InterpolationLinear

	// InterpolationCubic blends with a 4-point Catmull-Rom style cubic using the
	// two neighboring keyframes plus one outer control point on each side.
	InterpolationCubic
)

// String returns the lowercase name of the interpolation method, as used in
// timeline documents.
//
// Returns:
//   - string: one of "none", "linear", "cubic", or "unknown"
func (m InterpolationMethod) String() string {
	switch m {
	case InterpolationNone:
		return "none"
	case InterpolationLinear:
		return "linear"
	case InterpolationCubic:
		return "cubic"
	default:
		return "unknown"
	}
}

// ParseInterpolationMethod converts a document method name back into an
// InterpolationMethod.
//
// Parameters:
//   - name: the lowercase method name, as produced by InterpolationMethod.String
//
// Returns:
//   - InterpolationMethod: the parsed method
//   - bool: false if the name is not a supported method
func ParseInterpolationMethod(name string) (InterpolationMethod, bool) {
	switch name {
	case "none":
		return InterpolationNone, true
	case "linear":
		return InterpolationLinear, true
	case "cubic":
		return InterpolationCubic, true
	default:
		return 0, false
	}
}

// Channel is the type-erased view of a keyframe channel, used where channels
// of different value types are stored together (layers, documents). The
// concrete type behind a Channel is always a *TypedChannel[T].
type Channel interface {
	// Name returns the channel's identifier, unique within its layer.
	Name() string

	// Kind returns the value type this channel's keyframes carry.
	Kind() common.ValueKind

	// Interpolation returns the channel's interpolation method.
	Interpolation() InterpolationMethod

	// Start returns the position of the first keyframe, or zero if the channel is empty.
	Start() time.Duration

	// End returns the position of the last keyframe, or zero if the channel is empty.
	End() time.Duration

	// Length returns End minus Start.
	Length() time.Duration

	// KeyframeCount returns the number of keyframes in the channel.
	KeyframeCount() int

	// Document returns the serializable description of the channel.
	Document() ChannelDocument
}

// TypedChannel is an ordered, unique-by-time collection of keyframes for one
// animated parameter, with an interpolation method and logarithmic-time
// nearest-keyframe search. Immutable after construction.
type TypedChannel[T common.Value] struct {
	name          string
	interpolation InterpolationMethod
	keyframes     []Keyframe[T]
}

var _ Channel = &TypedChannel[float32]{}

// NewChannel creates a channel from a set of keyframes. The keyframes are
// copied and sorted by position; construction fails without partial state if
// two keyframes share a position or the interpolation method is not one of
// the defined values.
//
// Parameters:
//   - name: the channel identifier (must not be empty)
//   - interpolation: the interpolation method for sampling between keyframes
//   - keyframes: the keyframes to store (any order, unique positions)
//
// Returns:
//   - *TypedChannel[T]: the constructed channel
//   - error: wraps common.ErrInvalidArgument for an empty name or undefined
//     method, common.ErrDuplicateKey for repeated positions
func NewChannel[T common.Value](name string, interpolation InterpolationMethod, keyframes []Keyframe[T]) (*TypedChannel[T], error) {
	if name == "" {
		return nil, fmt.Errorf("channel name must not be empty: %w", common.ErrInvalidArgument)
	}
	if interpolation > InterpolationCubic {
		return nil, fmt.Errorf("undefined interpolation method %d: %w", interpolation, common.ErrInvalidArgument)
	}

	frames := make([]Keyframe[T], len(keyframes))
	copy(frames, keyframes)
	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Position < frames[j].Position
	})
	for i := 1; i < len(frames); i++ {
		if frames[i].Position == frames[i-1].Position {
			return nil, fmt.Errorf("channel %q has two keyframes at %v: %w",
				name, frames[i].Position, common.ErrDuplicateKey)
		}
	}

	return &TypedChannel[T]{
		name:          name,
		interpolation: interpolation,
		keyframes:     frames,
	}, nil
}

func (c *TypedChannel[T]) Name() string {
	return c.name
}

func (c *TypedChannel[T]) Kind() common.ValueKind {
	return common.KindOf[T]()
}

func (c *TypedChannel[T]) Interpolation() InterpolationMethod {
	return c.interpolation
}

func (c *TypedChannel[T]) Start() time.Duration {
	if len(c.keyframes) == 0 {
		return 0
	}
	return c.keyframes[0].Position
}

func (c *TypedChannel[T]) End() time.Duration {
	if len(c.keyframes) == 0 {
		return 0
	}
	return c.keyframes[len(c.keyframes)-1].Position
}

func (c *TypedChannel[T]) Length() time.Duration {
	return c.End() - c.Start()
}

func (c *TypedChannel[T]) KeyframeCount() int {
	return len(c.keyframes)
}

// Keyframe returns the keyframe at the given index in position order.
//
// Parameters:
//   - index: the keyframe index
//
// Returns:
//   - Keyframe[T]: the keyframe at that index
//   - bool: false if the index is out of bounds
func (c *TypedChannel[T]) Keyframe(index int) (Keyframe[T], bool) {
	if index < 0 || index >= len(c.keyframes) {
		return Keyframe[T]{}, false
	}
	return c.keyframes[index], true
}

// NearestIndex binary-searches the sorted keyframe positions and returns the
// index of an exact match, or the index of the lower neighbor clamped into
// [0, count-1] when no exact match exists.
//
// Parameters:
//   - position: the position to search for
//
// Returns:
//   - int: the nearest index, or -1 if the channel is empty
func (c *TypedChannel[T]) NearestIndex(position time.Duration) int {
	if len(c.keyframes) == 0 {
		return -1
	}
	// First index with a position strictly greater than the target; the floor
	// neighbor sits directly before it.
	upper := sort.Search(len(c.keyframes), func(i int) bool {
		return c.keyframes[i].Position > position
	})
	if upper == 0 {
		return 0
	}
	return upper - 1
}

// KeyframeBefore finds the keyframe at or before the given position, then
// steps back by offset additional keyframes. Callers must treat a false
// result as "hold at the available edge" and substitute the nearest
// available keyframe; the channel never extrapolates.
//
// Parameters:
//   - position: the position to search from
//   - offset: how many keyframes to step back past the found one
//
// Returns:
//   - Keyframe[T]: the found keyframe
//   - bool: false if the resulting index is out of bounds
func (c *TypedChannel[T]) KeyframeBefore(position time.Duration, offset int) (Keyframe[T], bool) {
	index := c.NearestIndex(position)
	if index < 0 {
		return Keyframe[T]{}, false
	}
	if c.keyframes[index].Position > position {
		index--
	}
	index -= offset
	return c.Keyframe(index)
}

// KeyframeAfter finds the keyframe strictly after the given position, then
// steps forward by offset additional keyframes. A false result means the
// caller should hold at the available edge.
//
// Parameters:
//   - position: the position to search from
//   - offset: how many keyframes to step forward past the found one
//
// Returns:
//   - Keyframe[T]: the found keyframe
//   - bool: false if the resulting index is out of bounds
func (c *TypedChannel[T]) KeyframeAfter(position time.Duration, offset int) (Keyframe[T], bool) {
	index := c.NearestIndex(position)
	if index < 0 {
		return Keyframe[T]{}, false
	}
	if c.keyframes[index].Position <= position {
		index++
	}
	index += offset
	return c.Keyframe(index)
}

// NearestKeyframe finds the single closest keyframe to the given position by
// comparing the distances to the floor candidate and its successor, then
// applies offset. Used for InterpolationNone, where the channel holds at the
// nearest sample without any ratio math.
//
// Parameters:
//   - position: the position to search from
//   - offset: how many keyframes to step forward from the closest one
//
// Returns:
//   - Keyframe[T]: the found keyframe
//   - bool: false if the resulting index is out of bounds
func (c *TypedChannel[T]) NearestKeyframe(position time.Duration, offset int) (Keyframe[T], bool) {
	index := c.NearestIndex(position)
	if index < 0 {
		return Keyframe[T]{}, false
	}
	if index+1 < len(c.keyframes) {
		floorDistance := absDuration(position - c.keyframes[index].Position)
		successorDistance := absDuration(c.keyframes[index+1].Position - position)
		if successorDistance < floorDistance {
			index++
		}
	}
	index += offset
	return c.Keyframe(index)
}

// ValueAt samples the channel at the given position using its interpolation
// method. At or beyond the channel's time bounds the boundary keyframe's
// value is held; an empty channel samples to the type's default value.
//
// Parameters:
//   - position: the position to sample at
//
// Returns:
//   - T: the interpolated value
func (c *TypedChannel[T]) ValueAt(position time.Duration) T {
	if len(c.keyframes) == 0 {
		return common.DefaultValue[T]()
	}

	switch c.interpolation {
	case InterpolationNone:
		keyframe, ok := c.NearestKeyframe(position, 0)
		if !ok {
			return common.DefaultValue[T]()
		}
		return keyframe.Value
	case InterpolationCubic:
		x, y, ratio := c.segmentAt(position)
		before, ok := c.KeyframeBefore(position, 1)
		if !ok {
			before = x
		}
		after, ok := c.KeyframeAfter(position, 1)
		if !ok {
			after = y
		}
		return common.InterpolateCubic(before.Value, x.Value, y.Value, after.Value, ratio)
	default:
		x, y, ratio := c.segmentAt(position)
		return common.Lerp(x.Value, y.Value, ratio)
	}
}

// segmentAt resolves the keyframe pair enclosing the position and the clamped
// interpolation ratio between them. Missing neighbors are substituted with the
// available edge so sampling outside the bounds degenerates to a hold.
func (c *TypedChannel[T]) segmentAt(position time.Duration) (x, y Keyframe[T], ratio float32) {
	x, foundX := c.KeyframeBefore(position, 0)
	y, foundY := c.KeyframeAfter(position, 0)
	if !foundX && !foundY {
		def := Keyframe[T]{Position: position, Value: common.DefaultValue[T]()}
		return def, def, 0
	}
	if !foundX {
		x = y
	}
	if !foundY {
		y = x
	}
	if y.Position <= x.Position {
		return x, y, 0
	}
	ratio = common.Clamp01(float32(position-x.Position) / float32(y.Position-x.Position))
	return x, y, ratio
}

// Document returns the serializable description of the channel, with each
// keyframe value flattened into its float32 components.
//
// Returns:
//   - ChannelDocument: the channel's document form
func (c *TypedChannel[T]) Document() ChannelDocument {
	doc := ChannelDocument{
		Name:          c.name,
		Kind:          c.Kind().String(),
		Interpolation: c.interpolation.String(),
		Keyframes:     make([]KeyframeDocument, 0, len(c.keyframes)),
	}
	for _, keyframe := range c.keyframes {
		doc.Keyframes = append(doc.Keyframes, KeyframeDocument{
			Position: keyframe.Position.String(),
			Values:   flattenValue(keyframe.Value),
		})
	}
	return doc
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
