package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bauermaximilian/ShamanTK-sub000/engine/skeleton"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter defines the interface for orchestrating a full glTF/GLB import.
// It combines the parser and both extractors to produce a complete Rig.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts the skeleton and all
	// animation timelines into a Rig.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *Rig: the fully populated rig
	//   - error: error if import fails
	Import(path string) (*Rig, error)

	// ImportReader loads a glTF document from a reader and extracts all data.
	// The reader should provide a complete glTF JSON or GLB binary stream.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - isGLB: true if the reader provides GLB binary data, false for glTF JSON
	//
	// Returns:
	//   - *Rig: the fully populated rig
	//   - error: error if import fails
	ImportReader(r io.Reader, isGLB bool) (*Rig, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (i *gltfImporterImpl) Import(path string) (*Rig, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, err
	}

	rig, err := i.extract(parser)
	if err != nil {
		return nil, err
	}
	if rig.Name == "" {
		base := filepath.Base(path)
		rig.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return rig, nil
}

func (i *gltfImporterImpl) ImportReader(r io.Reader, isGLB bool) (*Rig, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, err
	}
	return i.extract(parser)
}

// extract builds a Rig from a successfully parsed document. The first skin
// defines the skeleton; documents without skins yield a root-only skeleton
// and timelines keyed by plain node names.
func (i *gltfImporterImpl) extract(parser gltfParser) (*Rig, error) {
	doc := parser.Document()

	var skel skeleton.Skeleton
	var nodeNames map[int]string
	var name string

	if len(doc.Skins) > 0 {
		var err error
		skel, nodeNames, err = newGLTFSkeletonExtractor(parser).ExtractSkeletonWithNames(0)
		if err != nil {
			return nil, fmt.Errorf("failed to extract skeleton: %w", err)
		}
		name = doc.Skins[0].Name
	} else {
		skel = skeleton.NewSkeleton()
		nodeNames = make(map[int]string, len(doc.Nodes))
		for idx, node := range doc.Nodes {
			if node.Name != "" {
				nodeNames[idx] = node.Name
			}
		}
	}

	timelines, err := newGLTFAnimationExtractor(parser).ExtractAllTimelines(nodeNames)
	if err != nil {
		return nil, fmt.Errorf("failed to extract animations: %w", err)
	}

	return &Rig{
		Name:      name,
		Skeleton:  skel,
		Timelines: timelines,
	}, nil
}
