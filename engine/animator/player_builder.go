package animator

import "time"

// PlayerOption is a functional option for configuring an AnimationPlayer
// during construction.
type PlayerOption func(*animationPlayer)

// WithLoop is an option builder that sets whether playback wraps around at
// the playback end.
//
// Parameters:
//   - loop: true to wrap, false to clamp and stop
//
// Returns:
//   - PlayerOption: a function that applies the loop flag to a player
func WithLoop(loop bool) PlayerOption {
	return func(p *animationPlayer) {
		p.loop = loop
	}
}

// WithPlaybackRange is an option builder that sets the playback range. A
// range ending before it starts is kept as given; Update treats it as a
// degenerate range and refuses to play.
//
// Parameters:
//   - start: the playback start
//   - end: the playback end
//
// Returns:
//   - PlayerOption: a function that applies the range to a player
func WithPlaybackRange(start, end time.Duration) PlayerOption {
	return func(p *animationPlayer) {
		p.playbackStart = start
		p.playbackEnd = end
		p.position = start
	}
}
