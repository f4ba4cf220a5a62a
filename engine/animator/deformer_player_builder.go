package animator

import "github.com/bauermaximilian/ShamanTK-sub000/common"

// DeformerPlayerOption is a functional option for configuring a
// DeformerAnimationPlayer during construction.
type DeformerPlayerOption func(*deformerAnimationPlayer)

// WithOverlayInfluence is an option builder that sets the initial blend
// factor between the primary and overlay players, clamped into [0, 1].
//
// Parameters:
//   - influence: the initial blend factor
//
// Returns:
//   - DeformerPlayerOption: a function that applies the influence to a deformer player
func WithOverlayInfluence(influence float32) DeformerPlayerOption {
	return func(d *deformerAnimationPlayer) {
		d.overlayInfluence = common.Clamp01(influence)
	}
}

// WithLoopingPlayback is an option builder that sets the loop flag on both
// underlying players.
//
// Parameters:
//   - loop: true to wrap at the playback end, false to clamp and stop
//
// Returns:
//   - DeformerPlayerOption: a function that applies the loop flag to both players
func WithLoopingPlayback(loop bool) DeformerPlayerOption {
	return func(d *deformerAnimationPlayer) {
		d.primary.SetLoop(loop)
		d.overlay.SetLoop(loop)
	}
}
