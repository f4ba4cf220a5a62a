package animator

import (
	"fmt"
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/timeline"
)

// AnimationPlayer is a stateful playback cursor over a timeline. A player is
// bound to exactly one timeline at construction and holds a cached sampling
// layer for every channel of every timeline layer. All mutation is expected
// from a single simulation tick thread; cached values may be read any number
// of times per tick by independent consumers.
type AnimationPlayer interface {
	// Timeline returns the timeline this player was bound to at construction.
	Timeline() *timeline.Timeline

	// Position returns the current playback position.
	Position() time.Duration

	// SetPosition moves the playback cursor, clamped into the timeline's
	// time bounds. Jumping the cursor counts as movement for the per-layer
	// caches; they recompute on the next read beyond the cache threshold.
	//
	// Parameters:
	//   - position: the new playback position
	SetPosition(position time.Duration)

	// IsPlaying reports whether Update advances the playback position.
	IsPlaying() bool

	// Loop reports whether playback wraps around at the playback end.
	Loop() bool

	// SetLoop sets whether playback wraps around at the playback end.
	//
	// Parameters:
	//   - loop: true to wrap, false to clamp and stop
	SetLoop(loop bool)

	// PlaybackStart returns the start of the playback range.
	PlaybackStart() time.Duration

	// SetPlaybackStart sets the start of the playback range.
	//
	// Parameters:
	//   - start: the new playback start
	SetPlaybackStart(start time.Duration)

	// PlaybackEnd returns the end of the playback range.
	PlaybackEnd() time.Duration

	// SetPlaybackEnd sets the end of the playback range.
	//
	// Parameters:
	//   - end: the new playback end
	SetPlaybackEnd(end time.Duration)

	// SetPlaybackStartMarker sets the playback start from a named marker.
	// The bound resolves immediately from the marker's recorded position and
	// is not re-resolved afterward; it only takes effect if the marker
	// exists.
	//
	// Parameters:
	//   - name: the marker identifier
	//
	// Returns:
	//   - error: wraps common.ErrNotFound if the timeline has no such marker
	SetPlaybackStartMarker(name string) error

	// SetPlaybackEndMarker sets the playback end from a named marker, with
	// the same resolution semantics as SetPlaybackStartMarker.
	//
	// Parameters:
	//   - name: the marker identifier
	//
	// Returns:
	//   - error: wraps common.ErrNotFound if the timeline has no such marker
	SetPlaybackEndMarker(name string) error

	// PlaybackLength returns PlaybackEnd minus PlaybackStart, or zero for a
	// degenerate range.
	PlaybackLength() time.Duration

	// Play starts playback. If rewind is set, or a rewind is pending because
	// non-looping playback previously ran into the playback end, the cursor
	// first jumps to the playback start.
	//
	// Parameters:
	//   - rewind: true to restart from the playback start
	Play(rewind bool)

	// Pause stops playback and retains the current position.
	Pause()

	// Stop stops playback and resets the position to the timeline start.
	Stop()

	// Update advances the playback position by the elapsed tick time. While
	// playing, running past the playback end either wraps (looping) or
	// clamps to the end and stops. A degenerate playback range (end before
	// start) forces playback off.
	//
	// Parameters:
	//   - delta: the elapsed time, must not be negative
	//
	// Returns:
	//   - error: wraps common.ErrInvalidArgument for a negative delta
	Update(delta time.Duration) error

	// LayerNames returns the names of the timeline layers this player
	// samples, in the timeline's construction order.
	LayerNames() []string
}

type animationPlayer struct {
	timeline *timeline.Timeline

	position      time.Duration
	playing       bool
	loop          bool
	playbackStart time.Duration
	playbackEnd   time.Duration
	rewindPending bool

	layers     map[string][]sampler
	layerOrder []string
}

var _ AnimationPlayer = &animationPlayer{}

// NewAnimationPlayer creates a player bound to the given timeline. The
// playback range initially spans the whole timeline and the cursor sits at
// the timeline start.
//
// Parameters:
//   - t: the timeline to play (shared, not owned; must not be nil)
//   - options: variadic list of PlayerOption functions to configure the player
//
// Returns:
//   - AnimationPlayer: the constructed player
//   - error: wraps common.ErrInvalidArgument for a nil timeline
func NewAnimationPlayer(t *timeline.Timeline, options ...PlayerOption) (AnimationPlayer, error) {
	if t == nil {
		return nil, fmt.Errorf("player needs a timeline: %w", common.ErrInvalidArgument)
	}

	p := &animationPlayer{
		timeline:      t,
		position:      t.Start(),
		playbackStart: t.Start(),
		playbackEnd:   t.End(),
		layers:        make(map[string][]sampler, t.LayerCount()),
	}
	for _, layer := range t.Layers() {
		name := layer.Name()
		p.layerOrder = append(p.layerOrder, name)
		for _, channel := range layer.Channels() {
			if s := newSampler(p, name, channel); s != nil {
				p.layers[name] = append(p.layers[name], s)
			}
		}
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

func (p *animationPlayer) Timeline() *timeline.Timeline {
	return p.timeline
}

func (p *animationPlayer) Position() time.Duration {
	return p.position
}

func (p *animationPlayer) SetPosition(position time.Duration) {
	if position < p.timeline.Start() {
		position = p.timeline.Start()
	}
	if position > p.timeline.End() {
		position = p.timeline.End()
	}
	p.position = position
}

func (p *animationPlayer) IsPlaying() bool {
	return p.playing
}

func (p *animationPlayer) Loop() bool {
	return p.loop
}

func (p *animationPlayer) SetLoop(loop bool) {
	p.loop = loop
}

func (p *animationPlayer) PlaybackStart() time.Duration {
	return p.playbackStart
}

func (p *animationPlayer) SetPlaybackStart(start time.Duration) {
	p.playbackStart = start
}

func (p *animationPlayer) PlaybackEnd() time.Duration {
	return p.playbackEnd
}

func (p *animationPlayer) SetPlaybackEnd(end time.Duration) {
	p.playbackEnd = end
}

func (p *animationPlayer) SetPlaybackStartMarker(name string) error {
	marker, err := p.timeline.Marker(name)
	if err != nil {
		return err
	}
	p.playbackStart = marker.Position
	return nil
}

func (p *animationPlayer) SetPlaybackEndMarker(name string) error {
	marker, err := p.timeline.Marker(name)
	if err != nil {
		return err
	}
	p.playbackEnd = marker.Position
	return nil
}

func (p *animationPlayer) PlaybackLength() time.Duration {
	if p.playbackEnd < p.playbackStart {
		return 0
	}
	return p.playbackEnd - p.playbackStart
}

func (p *animationPlayer) Play(rewind bool) {
	if rewind || p.rewindPending {
		p.position = p.playbackStart
		p.rewindPending = false
	}
	p.playing = true
}

func (p *animationPlayer) Pause() {
	p.playing = false
}

func (p *animationPlayer) Stop() {
	p.position = p.timeline.Start()
	p.playing = false
	p.rewindPending = false
}

func (p *animationPlayer) Update(delta time.Duration) error {
	if delta < 0 {
		return fmt.Errorf("update delta %v is negative: %w", delta, common.ErrInvalidArgument)
	}
	if p.playbackEnd < p.playbackStart {
		p.playing = false
		return nil
	}
	if !p.playing {
		return nil
	}

	newPosition := p.position + delta
	if newPosition > p.playbackEnd {
		if !p.loop {
			p.position = p.playbackEnd
			p.playing = false
			p.rewindPending = true
			return nil
		}
		if p.playbackEnd == p.playbackStart {
			p.position = p.playbackStart
			return nil
		}
		// Wrap, repeating for overshoots beyond one full playback length.
		for newPosition > p.playbackEnd {
			newPosition = p.playbackStart + (newPosition - p.playbackEnd)
		}
	}
	p.position = newPosition
	return nil
}

func (p *animationPlayer) LayerNames() []string {
	out := make([]string, len(p.layerOrder))
	copy(out, p.layerOrder)
	return out
}

// Layer resolves the typed sampling layer for a timeline layer name. The
// layer must contain a channel of T's value kind.
//
// Parameters:
//   - player: a player created by NewAnimationPlayer
//   - name: the timeline layer name
//
// Returns:
//   - *PlayerLayer[T]: the typed sampling layer
//   - error: wraps common.ErrNotFound for an unknown layer name,
//     common.ErrTypeMismatch when the layer has no channel of T's kind
func Layer[T common.Value](player AnimationPlayer, name string) (*PlayerLayer[T], error) {
	p, ok := player.(*animationPlayer)
	if !ok {
		return nil, fmt.Errorf("unsupported player implementation %T: %w", player, common.ErrInvalidArgument)
	}
	samplers, exists := p.layers[name]
	if !exists {
		if _, err := p.timeline.Layer(name); err != nil {
			return nil, err
		}
		samplers = nil
	}
	kind := common.KindOf[T]()
	for _, s := range samplers {
		if s.kind() == kind {
			return s.(*PlayerLayer[T]), nil
		}
	}
	return nil, fmt.Errorf("layer %q has no %s channel: %w", name, kind, common.ErrTypeMismatch)
}
