package timeline

import (
	"fmt"
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
)

// Layer is a named group of channels, e.g. all channels driving one bone.
// Channel names are unique within the layer. Immutable after construction.
type Layer struct {
	name         string
	channels     map[string]Channel
	channelOrder []string
}

// NewLayer creates a layer from a set of channels, failing without partial
// state when two channels share a name.
//
// Parameters:
//   - name: the layer identifier (must not be empty)
//   - channels: the channels to group under this layer
//
// Returns:
//   - *Layer: the constructed layer
//   - error: wraps common.ErrInvalidArgument for an empty name or nil
//     channel, common.ErrDuplicateKey for repeated channel names
func NewLayer(name string, channels ...Channel) (*Layer, error) {
	if name == "" {
		return nil, fmt.Errorf("layer name must not be empty: %w", common.ErrInvalidArgument)
	}

	layer := &Layer{
		name:         name,
		channels:     make(map[string]Channel, len(channels)),
		channelOrder: make([]string, 0, len(channels)),
	}
	for _, channel := range channels {
		if channel == nil {
			return nil, fmt.Errorf("layer %q given a nil channel: %w", name, common.ErrInvalidArgument)
		}
		if _, exists := layer.channels[channel.Name()]; exists {
			return nil, fmt.Errorf("layer %q has two channels named %q: %w",
				name, channel.Name(), common.ErrDuplicateKey)
		}
		layer.channels[channel.Name()] = channel
		layer.channelOrder = append(layer.channelOrder, channel.Name())
	}
	return layer, nil
}

// Name returns the layer's identifier, unique within its timeline.
func (l *Layer) Name() string {
	return l.name
}

// ChannelCount returns the number of channels in the layer.
func (l *Layer) ChannelCount() int {
	return len(l.channels)
}

// Channel looks up a channel by name.
//
// Parameters:
//   - name: the channel identifier
//
// Returns:
//   - Channel: the channel with that name
//   - error: wraps common.ErrNotFound if no channel has that name
func (l *Layer) Channel(name string) (Channel, error) {
	channel, exists := l.channels[name]
	if !exists {
		return nil, fmt.Errorf("layer %q has no channel %q: %w", l.name, name, common.ErrNotFound)
	}
	return channel, nil
}

// Channels returns the layer's channels in construction order.
func (l *Layer) Channels() []Channel {
	out := make([]Channel, 0, len(l.channelOrder))
	for _, name := range l.channelOrder {
		out = append(out, l.channels[name])
	}
	return out
}

// ChannelOfKind returns the first channel (in construction order) carrying
// the given value kind. This is how typed player layers bind to a layer.
//
// Parameters:
//   - kind: the value kind to look for
//
// Returns:
//   - Channel: the first matching channel
//   - bool: false if the layer has no channel of that kind
func (l *Layer) ChannelOfKind(kind common.ValueKind) (Channel, bool) {
	for _, name := range l.channelOrder {
		if channel := l.channels[name]; channel.Kind() == kind {
			return channel, true
		}
	}
	return nil, false
}

// Start returns the earliest keyframe position across the layer's non-empty
// channels, or zero if every channel is empty.
func (l *Layer) Start() time.Duration {
	start, _ := l.bounds()
	return start
}

// End returns the latest keyframe position across the layer's non-empty
// channels, or zero if every channel is empty.
func (l *Layer) End() time.Duration {
	_, end := l.bounds()
	return end
}

// Length returns End minus Start.
func (l *Layer) Length() time.Duration {
	start, end := l.bounds()
	return end - start
}

func (l *Layer) bounds() (start, end time.Duration) {
	first := true
	for _, name := range l.channelOrder {
		channel := l.channels[name]
		if channel.KeyframeCount() == 0 {
			continue
		}
		if first || channel.Start() < start {
			start = channel.Start()
		}
		if first || channel.End() > end {
			end = channel.End()
		}
		first = false
	}
	return start, end
}

// Document returns the serializable description of the layer.
//
// Returns:
//   - LayerDocument: the layer's document form
func (l *Layer) Document() LayerDocument {
	doc := LayerDocument{
		Name:     l.name,
		Channels: make([]ChannelDocument, 0, len(l.channelOrder)),
	}
	for _, name := range l.channelOrder {
		doc.Channels = append(doc.Channels, l.channels[name].Document())
	}
	return doc
}
