package skeleton

import (
	"fmt"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeHandle addresses one node in a skeleton's arena. Handles stay valid for
// the lifetime of the skeleton (and its read-only views); removed nodes leave
// their slot retired so handles are never reused.
type NodeHandle int32

// RootHandle addresses the synthetic root node every skeleton carries.
const RootHandle NodeHandle = 0

// Skeleton is a rooted tree of bones backed by an arena of nodes with
// handle-based parent and child links. Every skeleton has a synthetic root
// bone with an identity offset. A skeleton is either mutable or a read-only
// view; views share the arena with their source and reject all mutation.
type Skeleton interface {
	// Root returns the handle of the synthetic root node.
	Root() NodeHandle

	// IsReadOnly reports whether this skeleton rejects mutation.
	IsReadOnly() bool

	// NodeCount returns the number of live nodes, including the root.
	NodeCount() int

	// Bone returns the bone payload of a node.
	//
	// Parameters:
	//   - handle: the node to read
	//
	// Returns:
	//   - Bone: the node's bone
	//   - error: wraps common.ErrInvalidArgument for an unknown or removed handle
	Bone(handle NodeHandle) (Bone, error)

	// SetBone replaces the bone payload of a node. The root bone cannot be
	// replaced; it always keeps its identity offset.
	//
	// Parameters:
	//   - handle: the node to modify
	//   - bone: the new payload
	//
	// Returns:
	//   - error: wraps common.ErrReadOnly on a view, common.ErrInvalidArgument
	//     for an unknown, removed, or root handle
	SetBone(handle NodeHandle, bone Bone) error

	// Parent returns the parent of a node. The parent link is a non-owning
	// lookup; ownership always runs from parent to child.
	//
	// Parameters:
	//   - handle: the node to read
	//
	// Returns:
	//   - NodeHandle: the parent handle (meaningful only when bool is true)
	//   - bool: false for the root node or an invalid handle
	Parent(handle NodeHandle) (NodeHandle, bool)

	// Children returns the child handles of a node in insertion order.
	//
	// Parameters:
	//   - handle: the node to read
	//
	// Returns:
	//   - []NodeHandle: the node's children (a copy, safe to retain)
	//   - error: wraps common.ErrInvalidArgument for an unknown or removed handle
	Children(handle NodeHandle) ([]NodeHandle, error)

	// NodeIndex returns the node's global creation index. Indices increase
	// strictly with every added node and are never reused, even after a
	// removal; this is an implementation handle, distinct from the bone's
	// deformer slot index.
	//
	// Parameters:
	//   - handle: the node to read
	//
	// Returns:
	//   - uint32: the global creation index
	//   - error: wraps common.ErrInvalidArgument for an unknown or removed handle
	NodeIndex(handle NodeHandle) (uint32, error)

	// AddChild creates a new node under the given parent.
	//
	// Parameters:
	//   - parent: the parent node
	//   - bone: the new node's payload
	//
	// Returns:
	//   - NodeHandle: the handle of the created node
	//   - error: wraps common.ErrReadOnly on a view, common.ErrInvalidArgument
	//     for an unknown or removed parent handle
	AddChild(parent NodeHandle, bone Bone) (NodeHandle, error)

	// Remove detaches a node and its entire subtree. The root cannot be
	// removed. Handles into the removed subtree become invalid and their
	// slots are retired, never reused.
	//
	// Parameters:
	//   - handle: the node to remove
	//
	// Returns:
	//   - error: wraps common.ErrReadOnly on a view, common.ErrInvalidArgument
	//     for an unknown, removed, or root handle
	Remove(handle NodeHandle) error

	// Walk visits the live nodes depth-first in child insertion order,
	// starting at the root. Returning false from the visit function stops
	// the walk.
	//
	// Parameters:
	//   - visit: called once per node with its handle and bone
	Walk(visit func(handle NodeHandle, bone Bone) bool)

	// ReadOnly returns a view sharing this skeleton's arena that rejects all
	// mutation. Calling ReadOnly on a view returns the view itself.
	ReadOnly() Skeleton

	// DeepClone returns an independent mutable copy of the skeleton. Cloning
	// a view yields a mutable skeleton.
	DeepClone() Skeleton
}

type skeletonNode struct {
	bone     Bone
	parent   NodeHandle
	children []NodeHandle
	index    uint32
	alive    bool
}

type skeletonImpl struct {
	nodes     []skeletonNode
	nextIndex uint32
	liveCount int
}

var _ Skeleton = &skeletonImpl{}

// NewSkeleton creates a mutable skeleton containing only the synthetic root
// bone with an identity offset.
//
// Returns:
//   - Skeleton: the new skeleton
func NewSkeleton() Skeleton {
	s := &skeletonImpl{
		nextIndex: 1,
		liveCount: 1,
	}
	s.nodes = append(s.nodes, skeletonNode{
		bone:   NewBone("", mgl32.Ident4()),
		parent: -1,
		index:  0,
		alive:  true,
	})
	return s
}

func (s *skeletonImpl) Root() NodeHandle {
	return RootHandle
}

func (s *skeletonImpl) IsReadOnly() bool {
	return false
}

func (s *skeletonImpl) NodeCount() int {
	return s.liveCount
}

func (s *skeletonImpl) node(handle NodeHandle) (*skeletonNode, error) {
	if handle < 0 || int(handle) >= len(s.nodes) || !s.nodes[handle].alive {
		return nil, fmt.Errorf("skeleton has no node %d: %w", handle, common.ErrInvalidArgument)
	}
	return &s.nodes[handle], nil
}

func (s *skeletonImpl) Bone(handle NodeHandle) (Bone, error) {
	node, err := s.node(handle)
	if err != nil {
		return Bone{}, err
	}
	return node.bone, nil
}

func (s *skeletonImpl) SetBone(handle NodeHandle, bone Bone) error {
	if handle == RootHandle {
		return fmt.Errorf("root bone cannot be replaced: %w", common.ErrInvalidArgument)
	}
	node, err := s.node(handle)
	if err != nil {
		return err
	}
	node.bone = bone
	return nil
}

func (s *skeletonImpl) Parent(handle NodeHandle) (NodeHandle, bool) {
	node, err := s.node(handle)
	if err != nil || node.parent < 0 {
		return 0, false
	}
	return node.parent, true
}

func (s *skeletonImpl) Children(handle NodeHandle) ([]NodeHandle, error) {
	node, err := s.node(handle)
	if err != nil {
		return nil, err
	}
	out := make([]NodeHandle, len(node.children))
	copy(out, node.children)
	return out, nil
}

func (s *skeletonImpl) NodeIndex(handle NodeHandle) (uint32, error) {
	node, err := s.node(handle)
	if err != nil {
		return 0, err
	}
	return node.index, nil
}

func (s *skeletonImpl) AddChild(parent NodeHandle, bone Bone) (NodeHandle, error) {
	if _, err := s.node(parent); err != nil {
		return 0, err
	}

	handle := NodeHandle(len(s.nodes))
	s.nodes = append(s.nodes, skeletonNode{
		bone:   bone,
		parent: parent,
		index:  s.nextIndex,
		alive:  true,
	})
	s.nextIndex++
	s.liveCount++
	// Look the parent up again: the append above may have reallocated the
	// arena, invalidating any pointer taken before it.
	s.nodes[parent].children = append(s.nodes[parent].children, handle)
	return handle, nil
}

func (s *skeletonImpl) Remove(handle NodeHandle) error {
	if handle == RootHandle {
		return fmt.Errorf("root node cannot be removed: %w", common.ErrInvalidArgument)
	}
	node, err := s.node(handle)
	if err != nil {
		return err
	}

	// Detach from the parent's child list before retiring the subtree.
	parent := &s.nodes[node.parent]
	for i, child := range parent.children {
		if child == handle {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	s.retire(handle)
	return nil
}

func (s *skeletonImpl) retire(handle NodeHandle) {
	node := &s.nodes[handle]
	for _, child := range node.children {
		s.retire(child)
	}
	node.alive = false
	node.children = nil
	s.liveCount--
}

func (s *skeletonImpl) Walk(visit func(handle NodeHandle, bone Bone) bool) {
	s.walkFrom(RootHandle, visit)
}

func (s *skeletonImpl) walkFrom(handle NodeHandle, visit func(NodeHandle, Bone) bool) bool {
	node := &s.nodes[handle]
	if !visit(handle, node.bone) {
		return false
	}
	for _, child := range node.children {
		if !s.walkFrom(child, visit) {
			return false
		}
	}
	return true
}

func (s *skeletonImpl) ReadOnly() Skeleton {
	return &readOnlySkeleton{inner: s}
}

func (s *skeletonImpl) DeepClone() Skeleton {
	clone := &skeletonImpl{
		nodes:     make([]skeletonNode, len(s.nodes)),
		nextIndex: s.nextIndex,
		liveCount: s.liveCount,
	}
	copy(clone.nodes, s.nodes)
	for i := range clone.nodes {
		if len(s.nodes[i].children) > 0 {
			clone.nodes[i].children = make([]NodeHandle, len(s.nodes[i].children))
			copy(clone.nodes[i].children, s.nodes[i].children)
		}
	}
	return clone
}

// readOnlySkeleton is a structural-mutation guard over a shared arena, not a
// copy. Reads delegate; mutations fail with common.ErrReadOnly.
type readOnlySkeleton struct {
	inner *skeletonImpl
}

var _ Skeleton = &readOnlySkeleton{}

func (r *readOnlySkeleton) Root() NodeHandle {
	return r.inner.Root()
}

func (r *readOnlySkeleton) IsReadOnly() bool {
	return true
}

func (r *readOnlySkeleton) NodeCount() int {
	return r.inner.NodeCount()
}

func (r *readOnlySkeleton) Bone(handle NodeHandle) (Bone, error) {
	return r.inner.Bone(handle)
}

func (r *readOnlySkeleton) SetBone(NodeHandle, Bone) error {
	return fmt.Errorf("skeleton view: %w", common.ErrReadOnly)
}

func (r *readOnlySkeleton) Parent(handle NodeHandle) (NodeHandle, bool) {
	return r.inner.Parent(handle)
}

func (r *readOnlySkeleton) Children(handle NodeHandle) ([]NodeHandle, error) {
	return r.inner.Children(handle)
}

func (r *readOnlySkeleton) NodeIndex(handle NodeHandle) (uint32, error) {
	return r.inner.NodeIndex(handle)
}

func (r *readOnlySkeleton) AddChild(NodeHandle, Bone) (NodeHandle, error) {
	return 0, fmt.Errorf("skeleton view: %w", common.ErrReadOnly)
}

func (r *readOnlySkeleton) Remove(NodeHandle) error {
	return fmt.Errorf("skeleton view: %w", common.ErrReadOnly)
}

func (r *readOnlySkeleton) Walk(visit func(handle NodeHandle, bone Bone) bool) {
	r.inner.Walk(visit)
}

func (r *readOnlySkeleton) ReadOnly() Skeleton {
	return r
}

func (r *readOnlySkeleton) DeepClone() Skeleton {
	return r.inner.DeepClone()
}
