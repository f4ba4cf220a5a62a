package loader

import (
	"fmt"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfSkeletonExtractor defines the interface for extracting bone hierarchies
// from a parsed glTF document. It converts glTF skin definitions into
// engine-ready Skeleton trees: each joint becomes an indexed bone whose
// identifier is the source node name, whose deformer slot is the joint order
// position, and whose offset is the inverse bind matrix.
type gltfSkeletonExtractor interface {
	// ExtractSkeleton extracts a skeleton from a skin by index.
	//
	// Parameters:
	//   - skinIndex: the index of the skin to extract
	//
	// Returns:
	//   - skeleton.Skeleton: the extracted bone hierarchy
	//   - error: error if extraction fails
	ExtractSkeleton(skinIndex int) (skeleton.Skeleton, error)

	// ExtractSkeletonWithNames extracts a skeleton and additionally returns
	// the mapping from glTF node index to bone identifier. The animation
	// extractor uses this mapping to name timeline layers so they attach to
	// the right bones.
	//
	// Parameters:
	//   - skinIndex: the index of the skin to extract
	//
	// Returns:
	//   - skeleton.Skeleton: the extracted bone hierarchy
	//   - map[int]string: glTF node index to bone identifier
	//   - error: error if extraction fails
	ExtractSkeletonWithNames(skinIndex int) (skeleton.Skeleton, map[int]string, error)
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

// newGLTFSkeletonExtractor creates a new skeleton extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfSkeletonExtractor: the skeleton extractor
func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton(skinIndex int) (skeleton.Skeleton, error) {
	skel, _, err := e.ExtractSkeletonWithNames(skinIndex)
	return skel, err
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeletonWithNames(skinIndex int) (skeleton.Skeleton, map[int]string, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, fmt.Errorf("no document loaded")
	}
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}

	skin := &doc.Skins[skinIndex]
	if len(skin.Joints) > skeleton.DeformerMaximumSize {
		return nil, nil, fmt.Errorf("skin %d has %d joints, deformer supports at most %d: %w",
			skinIndex, len(skin.Joints), skeleton.DeformerMaximumSize, common.ErrCapacityExceeded)
	}

	// Read inverse bind matrices (optional but usually present)
	var inverseBindMatrices [][16]float32
	if skin.InverseBindMatrices != nil {
		var err error
		inverseBindMatrices, err = e.parser.ReadMat4Accessor(*skin.InverseBindMatrices)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read inverse bind matrices: %w", err)
		}
	}

	// First pass: name every joint and map node indices to joint positions.
	nodeToJoint := make(map[int]int, len(skin.Joints))
	nodeNames := make(map[int]string, len(skin.Joints))
	for i, jointNode := range skin.Joints {
		if jointNode < 0 || jointNode >= len(doc.Nodes) {
			return nil, nil, fmt.Errorf("joint %d: invalid node index %d", i, jointNode)
		}
		nodeToJoint[jointNode] = i

		name := doc.Nodes[jointNode].Name
		if name == "" {
			name = fmt.Sprintf("bone_%d", i)
		}
		nodeNames[jointNode] = name
	}

	// Second pass: find each joint's parent joint. Joints whose node parent
	// is not itself a joint become children of the skeleton root.
	parentJoint := make([]int, len(skin.Joints))
	for i := range parentJoint {
		parentJoint[i] = -1
	}
	for nodeIdx, node := range doc.Nodes {
		parent, parentIsJoint := nodeToJoint[nodeIdx]
		if !parentIsJoint {
			continue
		}
		for _, childIdx := range node.Children {
			if child, ok := nodeToJoint[childIdx]; ok {
				parentJoint[child] = parent
			}
		}
	}

	// Third pass: insert bones parent-first by walking down from the roots.
	skel := skeleton.NewSkeleton()
	handles := make([]skeleton.NodeHandle, len(skin.Joints))
	inserted := make([]bool, len(skin.Joints))

	var insert func(joint int) error
	insert = func(joint int) error {
		if inserted[joint] {
			return nil
		}
		parentHandle := skel.Root()
		if p := parentJoint[joint]; p >= 0 {
			if err := insert(p); err != nil {
				return err
			}
			parentHandle = handles[p]
		}

		offset := mgl32.Ident4()
		if joint < len(inverseBindMatrices) {
			offset = mgl32.Mat4(inverseBindMatrices[joint])
		}
		bone, err := skeleton.NewIndexedBone(nodeNames[skin.Joints[joint]], uint8(joint), offset)
		if err != nil {
			return fmt.Errorf("joint %d: %w", joint, err)
		}
		handle, err := skel.AddChild(parentHandle, bone)
		if err != nil {
			return fmt.Errorf("joint %d: %w", joint, err)
		}
		handles[joint] = handle
		inserted[joint] = true
		return nil
	}
	for joint := range skin.Joints {
		if err := insert(joint); err != nil {
			return nil, nil, err
		}
	}

	return skel, nodeNames, nil
}
