package resource

import (
	"fmt"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/timeline"
	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"
)

// timelinesBucket is the bolt bucket holding encoded timeline documents,
// keyed by timeline name.
var timelinesBucket = []byte("timelines")

// Store persists timeline structures in a resource file so fully materialized
// timelines can be rebuilt without the authoring data. Values are YAML-encoded
// timeline documents inside a bolt database.
type Store interface {
	// SaveTimeline encodes the timeline's document form and writes it under
	// the given name, overwriting any previous entry.
	//
	// Parameters:
	//   - name: the resource name to store under (must not be empty)
	//   - t: the timeline to persist (must not be nil)
	//
	// Returns:
	//   - error: wraps common.ErrInvalidArgument for an empty name or nil
	//     timeline, or the underlying encode/write failure
	SaveTimeline(name string, t *timeline.Timeline) error

	// LoadTimeline reads and reconstructs the timeline stored under the
	// given name.
	//
	// Parameters:
	//   - name: the resource name to load
	//
	// Returns:
	//   - *timeline.Timeline: the reconstructed timeline
	//   - error: wraps common.ErrNotFound if nothing is stored under the
	//     name, or the underlying decode failure
	LoadTimeline(name string) (*timeline.Timeline, error)

	// TimelineNames lists the names of all stored timelines in key order.
	//
	// Returns:
	//   - []string: the stored resource names
	//   - error: the underlying read failure, if any
	TimelineNames() ([]string, error)

	// Close releases the underlying database file.
	Close() error
}

type store struct {
	db *bolt.DB
}

var _ Store = &store{}

// OpenStore opens (or creates) a timeline resource file at the given path.
//
// Parameters:
//   - path: the resource file path
//
// Returns:
//   - Store: the opened store
//   - error: the underlying open failure, if any
func OpenStore(path string) (Store, error) {
	db, err := bolt.Open(path, 0666, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource file %s: %w", path, err)
	}
	return &store{db: db}, nil
}

func (s *store) SaveTimeline(name string, t *timeline.Timeline) error {
	if name == "" {
		return fmt.Errorf("timeline resource name must not be empty: %w", common.ErrInvalidArgument)
	}
	if t == nil {
		return fmt.Errorf("cannot store a nil timeline: %w", common.ErrInvalidArgument)
	}

	data, err := yaml.Marshal(t.Document())
	if err != nil {
		return fmt.Errorf("failed to encode timeline %q: %w", name, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(timelinesBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(name), data)
	})
}

func (s *store) LoadTimeline(name string) (*timeline.Timeline, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(timelinesBucket)
		if bucket == nil {
			return fmt.Errorf("store has no timeline %q: %w", name, common.ErrNotFound)
		}
		value := bucket.Get([]byte(name))
		if value == nil {
			return fmt.Errorf("store has no timeline %q: %w", name, common.ErrNotFound)
		}
		// The slice is only valid inside the transaction.
		data = append(data, value...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var doc timeline.TimelineDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode timeline %q: %w", name, err)
	}
	return timeline.FromDocument(doc)
}

func (s *store) TimelineNames() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(timelinesBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(key, _ []byte) error {
			names = append(names, string(key))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *store) Close() error {
	return s.db.Close()
}
