package loader

import (
	"github.com/bauermaximilian/ShamanTK-sub000/engine/skeleton"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/timeline"
)

// Rig couples an imported skeleton with the animation timelines that drive it.
// Timelines are keyed by their animation name as found in the source file.
type Rig struct {
	// Name identifies the rig, usually derived from the source skin name.
	Name string

	// Skeleton is the imported bone hierarchy. Bone identifiers follow the
	// source node names, bone indices follow the source joint order.
	Skeleton skeleton.Skeleton

	// Timelines holds the animations targeting this rig's bones. Layer names
	// use the identifier-plus-suffix convention consumed by the deformer
	// animation player.
	Timelines map[string]*timeline.Timeline
}
