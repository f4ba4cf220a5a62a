package timeline

import (
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
)

// Keyframe is a single timestamped sample of one animated parameter.
// Keyframes are immutable values; two keyframes in the same channel must not
// share a Position.
type Keyframe[T common.Value] struct {
	// Position is the point in time this sample applies to.
	Position time.Duration

	// Value is the sampled value at this position.
	Value T
}
