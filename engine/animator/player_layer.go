package animator

import (
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/timeline"
	"github.com/go-gl/mathgl/mgl32"
)

// cacheThreshold is how far the playback cursor must move before a player
// layer recomputes its interpolated value. The value may legitimately be
// read many times per tick by different consumers; within the threshold the
// cached value is returned instead of re-interpolating. Compared by absolute
// value so loop wraps and manual position jumps count as movement.
const cacheThreshold = 10 * time.Millisecond

// sampler is the type-erased view of a PlayerLayer, used where layers of
// different value types are stored together inside a player.
type sampler interface {
	layerName() string
	kind() common.ValueKind
}

// PlayerLayer lazily recomputes the current interpolated value of one channel
// from its player's cursor position, memoizing the last sample. A player
// layer is owned by its player and shares its lifetime.
type PlayerLayer[T common.Value] struct {
	player  *animationPlayer
	name    string
	channel *timeline.TypedChannel[T]

	lastValue      T
	lastSampleTime time.Duration
	sampled        bool
}

// LayerName returns the timeline layer name this player layer samples.
func (l *PlayerLayer[T]) LayerName() string {
	return l.name
}

// Kind returns the value type this player layer produces.
func (l *PlayerLayer[T]) Kind() common.ValueKind {
	return common.KindOf[T]()
}

// CurrentValue returns the channel value at the player's current position.
// The value is recomputed only when the cursor has moved more than the cache
// threshold since the last sample; otherwise the cached value is returned.
//
// Returns:
//   - T: the current interpolated value
func (l *PlayerLayer[T]) CurrentValue() T {
	position := l.player.position
	if !l.sampled || absDuration(position-l.lastSampleTime) > cacheThreshold {
		l.lastValue = l.channel.ValueAt(position)
		l.lastSampleTime = position
		l.sampled = true
	}
	return l.lastValue
}

func (l *PlayerLayer[T]) layerName() string {
	return l.name
}

func (l *PlayerLayer[T]) kind() common.ValueKind {
	return common.KindOf[T]()
}

// newSampler wires a typed player layer for a channel. Returns nil for a
// channel whose concrete type is not one of the supported value kinds, which
// cannot happen for channels built through this module's constructors.
func newSampler(p *animationPlayer, layerName string, channel timeline.Channel) sampler {
	switch c := channel.(type) {
	case *timeline.TypedChannel[float32]:
		return &PlayerLayer[float32]{player: p, name: layerName, channel: c}
	case *timeline.TypedChannel[mgl32.Vec2]:
		return &PlayerLayer[mgl32.Vec2]{player: p, name: layerName, channel: c}
	case *timeline.TypedChannel[mgl32.Vec3]:
		return &PlayerLayer[mgl32.Vec3]{player: p, name: layerName, channel: c}
	case *timeline.TypedChannel[mgl32.Quat]:
		return &PlayerLayer[mgl32.Quat]{player: p, name: layerName, channel: c}
	case *timeline.TypedChannel[mgl32.Mat4]:
		return &PlayerLayer[mgl32.Mat4]{player: p, name: layerName, channel: c}
	default:
		return nil
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
