package animator

import (
	"testing"
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/timeline"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playbackTimeline builds a 0s..2s scalar timeline with markers at both ends
// of the inner second.
func playbackTimeline(t *testing.T) *timeline.Timeline {
	t.Helper()
	channel, err := timeline.NewChannel("value", timeline.InterpolationLinear, []timeline.Keyframe[float32]{
		{Position: 0, Value: 0},
		{Position: 2 * time.Second, Value: 2},
	})
	require.NoError(t, err)
	layer, err := timeline.NewLayer("value", channel)
	require.NoError(t, err)
	tl, err := timeline.NewTimeline(
		timeline.WithLayer(layer),
		timeline.WithMarker("inner_start", 500*time.Millisecond),
		timeline.WithMarker("inner_end", 1500*time.Millisecond),
	)
	require.NoError(t, err)
	return tl
}

func TestNewAnimationPlayer(t *testing.T) {
	t.Run("nil_timeline", func(t *testing.T) {
		_, err := NewAnimationPlayer(nil)
		assert.ErrorIs(t, err, common.ErrInvalidArgument)
	})

	t.Run("defaults_span_timeline", func(t *testing.T) {
		p, err := NewAnimationPlayer(playbackTimeline(t))
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), p.Position())
		assert.Equal(t, time.Duration(0), p.PlaybackStart())
		assert.Equal(t, 2*time.Second, p.PlaybackEnd())
		assert.False(t, p.IsPlaying())
		assert.False(t, p.Loop())
		assert.Equal(t, []string{"value"}, p.LayerNames())
	})
}

func TestUpdateNegativeDelta(t *testing.T) {
	p, err := NewAnimationPlayer(playbackTimeline(t))
	require.NoError(t, err)
	assert.ErrorIs(t, p.Update(-time.Millisecond), common.ErrInvalidArgument)
}

func TestUpdateLoopWrap(t *testing.T) {
	p, err := NewAnimationPlayer(playbackTimeline(t), WithLoop(true))
	require.NoError(t, err)
	p.Play(false)
	p.SetPosition(1500 * time.Millisecond)

	require.NoError(t, p.Update(time.Second))
	assert.Equal(t, 500*time.Millisecond, p.Position())
	assert.True(t, p.IsPlaying())
}

func TestUpdateLoopWrapBeyondFullLength(t *testing.T) {
	p, err := NewAnimationPlayer(playbackTimeline(t), WithLoop(true))
	require.NoError(t, err)
	p.Play(false)
	p.SetPosition(1500 * time.Millisecond)

	// Overshoots by more than one full playback length in a single update.
	require.NoError(t, p.Update(5*time.Second))
	assert.Equal(t, 500*time.Millisecond, p.Position())
	assert.True(t, p.IsPlaying())
}

func TestUpdateClampAndStop(t *testing.T) {
	p, err := NewAnimationPlayer(playbackTimeline(t))
	require.NoError(t, err)
	p.Play(false)
	p.SetPosition(1500 * time.Millisecond)

	require.NoError(t, p.Update(time.Second))
	assert.Equal(t, 2*time.Second, p.Position())
	assert.False(t, p.IsPlaying())

	t.Run("play_after_stop_rewinds", func(t *testing.T) {
		p.Play(false)
		assert.Equal(t, p.PlaybackStart(), p.Position())
		assert.True(t, p.IsPlaying())
	})
}

func TestUpdateDegenerateRangeForcesStop(t *testing.T) {
	p, err := NewAnimationPlayer(playbackTimeline(t), WithPlaybackRange(time.Second, 0))
	require.NoError(t, err)
	p.Play(false)
	require.NoError(t, p.Update(time.Millisecond))
	assert.False(t, p.IsPlaying())
}

func TestPlayPauseStop(t *testing.T) {
	p, err := NewAnimationPlayer(playbackTimeline(t))
	require.NoError(t, err)

	p.Play(false)
	require.NoError(t, p.Update(300*time.Millisecond))
	assert.Equal(t, 300*time.Millisecond, p.Position())

	p.Pause()
	require.NoError(t, p.Update(time.Second))
	assert.Equal(t, 300*time.Millisecond, p.Position(), "pause retains the position")

	p.Play(true)
	assert.Equal(t, p.PlaybackStart(), p.Position(), "rewind flag restarts playback")

	p.Play(false)
	require.NoError(t, p.Update(time.Second))
	p.Stop()
	assert.Equal(t, p.Timeline().Start(), p.Position())
	assert.False(t, p.IsPlaying())
}

func TestMarkerPlaybackBounds(t *testing.T) {
	p, err := NewAnimationPlayer(playbackTimeline(t))
	require.NoError(t, err)

	require.NoError(t, p.SetPlaybackStartMarker("inner_start"))
	require.NoError(t, p.SetPlaybackEndMarker("inner_end"))
	assert.Equal(t, 500*time.Millisecond, p.PlaybackStart())
	assert.Equal(t, 1500*time.Millisecond, p.PlaybackEnd())
	assert.Equal(t, time.Second, p.PlaybackLength())

	t.Run("unknown_marker_leaves_bound", func(t *testing.T) {
		err := p.SetPlaybackStartMarker("missing")
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.Equal(t, 500*time.Millisecond, p.PlaybackStart())
	})
}

func TestSetPositionClampsToTimeline(t *testing.T) {
	p, err := NewAnimationPlayer(playbackTimeline(t))
	require.NoError(t, err)

	p.SetPosition(-time.Second)
	assert.Equal(t, p.Timeline().Start(), p.Position())
	p.SetPosition(time.Minute)
	assert.Equal(t, p.Timeline().End(), p.Position())
}

func TestLayerLookup(t *testing.T) {
	p, err := NewAnimationPlayer(playbackTimeline(t))
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		layer, err := Layer[float32](p, "value")
		require.NoError(t, err)
		assert.Equal(t, "value", layer.LayerName())
		assert.Equal(t, common.KindFloat, layer.Kind())
	})

	t.Run("unknown_name", func(t *testing.T) {
		_, err := Layer[float32](p, "missing")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("wrong_kind", func(t *testing.T) {
		_, err := Layer[mgl32.Mat4](p, "value")
		assert.ErrorIs(t, err, common.ErrTypeMismatch)
	})
}

func TestPlayerLayerCurrentValue(t *testing.T) {
	p, err := NewAnimationPlayer(playbackTimeline(t))
	require.NoError(t, err)
	layer, err := Layer[float32](p, "value")
	require.NoError(t, err)

	p.SetPosition(time.Second)
	assert.InDelta(t, 1, layer.CurrentValue(), 1e-6)

	t.Run("within_threshold_returns_cache", func(t *testing.T) {
		p.SetPosition(time.Second + 5*time.Millisecond)
		assert.InDelta(t, 1, layer.CurrentValue(), 1e-6,
			"moves within the cache threshold keep the cached value")
	})

	t.Run("beyond_threshold_recomputes", func(t *testing.T) {
		p.SetPosition(time.Second + 500*time.Millisecond)
		assert.InDelta(t, 1.5, layer.CurrentValue(), 1e-6)
	})

	t.Run("backward_jump_recomputes", func(t *testing.T) {
		p.SetPosition(0)
		assert.InDelta(t, 0, layer.CurrentValue(), 1e-6,
			"the cache threshold compares by absolute value")
	})
}
