package loader

import "io"

// loaderBackend defines the generic interface for importing rigs from files or
// streams. Concrete implementations (e.g., gltfLoaderBackend) handle
// format-specific details.
type loaderBackend interface {
	// Load performs a full rig import from the given file path.
	// This extracts the skeleton and all animations targeting it.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *Rig: the imported rig data
	//   - error: error if loading fails
	Load(path string) (*Rig, error)

	// LoadReader imports a rig from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing rig data
	//   - isGLB: true if the reader provides GLB binary data, false for text-based formats
	//
	// Returns:
	//   - *Rig: the imported rig data
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool) (*Rig, error)
}
