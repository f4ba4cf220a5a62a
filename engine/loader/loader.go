package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// LoaderBackendType identifies the rig file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	rigCache map[string]*Rig

	backend loaderBackend
}

// Loader defines the public-facing interface for importing and caching
// animation rigs. It abstracts the file format (glTF, GLB, etc.) behind a
// generic backend and manages a cache of previously imported rigs.
type Loader interface {
	// Load imports a rig file and caches the result.
	// If the rig is already cached (by file path), the cached version is
	// returned. The backend is selected based on the file extension
	// (.gltf/.glb selects the glTF backend).
	//
	// Parameters:
	//   - path: the file path to the rig file
	//
	// Returns:
	//   - *Rig: the imported and cached rig
	//   - error: error if importing fails
	Load(path string) (*Rig, error)

	// LoadReader imports a rig from a reader stream and caches it by the
	// given name. Use this when loading from embedded resources or network
	// streams.
	//
	// Parameters:
	//   - name: the cache key for the imported rig
	//   - r: the reader providing rig data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *Rig: the imported rig
	//   - error: error if importing fails
	LoadReader(name string, r io.Reader, isGLB bool) (*Rig, error)

	// Get retrieves a cached rig by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Rig: the cached rig or nil
	Get(name string) *Rig

	// Rigs returns the full rig cache.
	//
	// Returns:
	//   - map[string]*Rig: all cached rigs keyed by name
	Rigs() map[string]*Rig
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and
// options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:       sync.RWMutex{},
		rigCache: make(map[string]*Rig),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*Rig, error) {
	l.mu.RLock()
	if cached, ok := l.rigCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	rig, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.rigCache[path] = rig
	l.mu.Unlock()

	return rig, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (*Rig, error) {
	l.mu.RLock()
	if cached, ok := l.rigCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	rig, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	if rig.Name == "" {
		rig.Name = name
	}

	l.mu.Lock()
	l.rigCache[name] = rig
	l.mu.Unlock()

	return rig, nil
}

func (l *loader) Get(name string) *Rig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rigCache[name]
}

func (l *loader) Rigs() map[string]*Rig {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Rig, len(l.rigCache))
	for k, v := range l.rigCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file
// extension. Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported rig format: %s", ext)
	}
}
