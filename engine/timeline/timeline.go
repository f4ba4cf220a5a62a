package timeline

import (
	"fmt"
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
)

// Marker is a named point in time within a timeline, used to define playback
// ranges.
type Marker struct {
	// Name is the marker's identifier, unique within its timeline.
	Name string

	// Position is the point in time the marker refers to.
	Position time.Duration
}

// Timeline is a named aggregate of layers and markers with precomputed time
// bounds. Immutable after construction; players reference a shared timeline
// without owning it.
type Timeline struct {
	layers      map[string]*Layer
	layerOrder  []string
	markers     map[string]Marker
	markerOrder []string

	start time.Duration
	end   time.Duration
}

// TimelineOption configures a Timeline during construction.
type TimelineOption func(*timelineConfig)

type timelineConfig struct {
	layers  []*Layer
	markers []Marker
}

// WithLayer is an option builder that adds a layer to the timeline.
//
// Parameters:
//   - layer: the layer to add
//
// Returns:
//   - TimelineOption: a function that applies the layer to a timeline under construction
func WithLayer(layer *Layer) TimelineOption {
	return func(cfg *timelineConfig) {
		cfg.layers = append(cfg.layers, layer)
	}
}

// WithMarker is an option builder that adds a named time marker to the
// timeline.
//
// Parameters:
//   - name: the marker identifier
//   - position: the point in time the marker refers to
//
// Returns:
//   - TimelineOption: a function that applies the marker to a timeline under construction
func WithMarker(name string, position time.Duration) TimelineOption {
	return func(cfg *timelineConfig) {
		cfg.markers = append(cfg.markers, Marker{Name: name, Position: position})
	}
}

// NewTimeline creates a timeline from layer and marker options, failing
// without partial state when two layers or two markers share a name. The
// aggregate time bounds cover every layer and every marker.
//
// Parameters:
//   - options: the layers and markers to construct the timeline from
//
// Returns:
//   - *Timeline: the constructed timeline
//   - error: wraps common.ErrInvalidArgument for a nil layer or empty marker
//     name, common.ErrDuplicateKey for repeated layer or marker names
func NewTimeline(options ...TimelineOption) (*Timeline, error) {
	var cfg timelineConfig
	for _, opt := range options {
		opt(&cfg)
	}

	t := &Timeline{
		layers:      make(map[string]*Layer, len(cfg.layers)),
		layerOrder:  make([]string, 0, len(cfg.layers)),
		markers:     make(map[string]Marker, len(cfg.markers)),
		markerOrder: make([]string, 0, len(cfg.markers)),
	}
	for _, layer := range cfg.layers {
		if layer == nil {
			return nil, fmt.Errorf("timeline given a nil layer: %w", common.ErrInvalidArgument)
		}
		if _, exists := t.layers[layer.Name()]; exists {
			return nil, fmt.Errorf("timeline has two layers named %q: %w",
				layer.Name(), common.ErrDuplicateKey)
		}
		t.layers[layer.Name()] = layer
		t.layerOrder = append(t.layerOrder, layer.Name())
	}
	for _, marker := range cfg.markers {
		if marker.Name == "" {
			return nil, fmt.Errorf("marker name must not be empty: %w", common.ErrInvalidArgument)
		}
		if _, exists := t.markers[marker.Name]; exists {
			return nil, fmt.Errorf("timeline has two markers named %q: %w",
				marker.Name, common.ErrDuplicateKey)
		}
		t.markers[marker.Name] = marker
		t.markerOrder = append(t.markerOrder, marker.Name)
	}

	t.start, t.end = t.computeBounds()
	return t, nil
}

func (t *Timeline) computeBounds() (start, end time.Duration) {
	first := true
	include := func(lo, hi time.Duration) {
		if first || lo < start {
			start = lo
		}
		if first || hi > end {
			end = hi
		}
		first = false
	}
	for _, name := range t.layerOrder {
		layer := t.layers[name]
		if emptyLayer(layer) {
			continue
		}
		include(layer.Start(), layer.End())
	}
	for _, name := range t.markerOrder {
		marker := t.markers[name]
		include(marker.Position, marker.Position)
	}
	return start, end
}

func emptyLayer(layer *Layer) bool {
	for _, channel := range layer.Channels() {
		if channel.KeyframeCount() > 0 {
			return false
		}
	}
	return true
}

// Start returns the earliest point covered by any layer or marker, or zero
// for an empty timeline.
func (t *Timeline) Start() time.Duration {
	return t.start
}

// End returns the latest point covered by any layer or marker, or zero for
// an empty timeline.
func (t *Timeline) End() time.Duration {
	return t.end
}

// Length returns End minus Start.
func (t *Timeline) Length() time.Duration {
	return t.end - t.start
}

// LayerCount returns the number of layers in the timeline.
func (t *Timeline) LayerCount() int {
	return len(t.layers)
}

// Layer looks up a layer by name.
//
// Parameters:
//   - name: the layer identifier
//
// Returns:
//   - *Layer: the layer with that name
//   - error: wraps common.ErrNotFound if no layer has that name
func (t *Timeline) Layer(name string) (*Layer, error) {
	layer, exists := t.layers[name]
	if !exists {
		return nil, fmt.Errorf("timeline has no layer %q: %w", name, common.ErrNotFound)
	}
	return layer, nil
}

// Layers returns the timeline's layers in construction order.
func (t *Timeline) Layers() []*Layer {
	out := make([]*Layer, 0, len(t.layerOrder))
	for _, name := range t.layerOrder {
		out = append(out, t.layers[name])
	}
	return out
}

// Marker looks up a marker by name.
//
// Parameters:
//   - name: the marker identifier
//
// Returns:
//   - Marker: the marker with that name
//   - error: wraps common.ErrNotFound if no marker has that name
func (t *Timeline) Marker(name string) (Marker, error) {
	marker, exists := t.markers[name]
	if !exists {
		return Marker{}, fmt.Errorf("timeline has no marker %q: %w", name, common.ErrNotFound)
	}
	return marker, nil
}

// Markers returns the timeline's markers in construction order.
func (t *Timeline) Markers() []Marker {
	out := make([]Marker, 0, len(t.markerOrder))
	for _, name := range t.markerOrder {
		out = append(out, t.markers[name])
	}
	return out
}
