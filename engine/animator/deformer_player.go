package animator

import (
	"fmt"
	"time"

	"github.com/bauermaximilian/ShamanTK-sub000/common"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/skeleton"
	"github.com/bauermaximilian/ShamanTK-sub000/engine/timeline"
	"github.com/go-gl/mathgl/mgl32"
)

// Layer name suffixes for bones animated through separate position, scale,
// and rotation layers instead of a single combined matrix layer.
const (
	positionLayerSuffix = "_position"
	scaleLayerSuffix    = "_scale"
	rotationLayerSuffix = "_rotation"
)

// DeformerAnimationPlayer composes a primary and an overlay animation player
// over one timeline and a skeleton, resolves per-bone animated transforms,
// blends the two players, and accumulates absolute transforms depth-first
// into a fresh Deformer on request.
//
// Bone-to-layer attachments are resolved once at construction from the bound
// timeline's layer set. The timeline is immutable after construction, so the
// table never goes stale on its own; RefreshAttachments exists for the case
// where the player is rebound conceptually (e.g. after replacing skeleton
// bone identifiers) and must be called explicitly — attachments are never
// silently re-resolved.
type DeformerAnimationPlayer interface {
	// Primary returns the primary animation player.
	Primary() AnimationPlayer

	// Overlay returns the overlay animation player.
	Overlay() AnimationPlayer

	// Skeleton returns the skeleton this player deforms (shared, not owned).
	Skeleton() skeleton.Skeleton

	// OverlayInfluence returns the blend factor between the primary and
	// overlay player transforms, in [0, 1].
	OverlayInfluence() float32

	// SetOverlayInfluence sets the blend factor, clamped into [0, 1]: 0
	// reproduces the primary player exactly, 1 the overlay player.
	//
	// Parameters:
	//   - influence: the new blend factor
	SetOverlayInfluence(influence float32)

	// Update advances both underlying players by the elapsed tick time.
	//
	// Parameters:
	//   - delta: the elapsed time, must not be negative
	//
	// Returns:
	//   - error: wraps common.ErrInvalidArgument for a negative delta
	Update(delta time.Duration) error

	// GetCurrentDeformer resolves every bone's blended transform, accumulates
	// absolute transforms depth-first from the skeleton root, and returns a
	// freshly allocated deformer sized to the highest bone index plus one.
	// Bones without matching animation layers contribute identity; when two
	// bones share a slot index the one visited later in depth-first order
	// wins. The call has no side effects on player state.
	//
	// Returns:
	//   - *skeleton.Deformer: the per-slot transformation matrices
	//   - error: wraps common.ErrInvalidArgument if the skeleton became invalid
	GetCurrentDeformer() (*skeleton.Deformer, error)

	// RefreshAttachments re-resolves the bone-to-layer attachment table from
	// the current skeleton and timeline layer set.
	RefreshAttachments()
}

type attachmentKind uint8

const (
	attachmentNone attachmentKind = iota
	attachmentMatrix
	attachmentComponents
)

// boneAttachment holds the resolved player layers driving one bone. For the
// components kind any subset of position, scale, and rotation may be nil;
// missing components fall back to zero translation, unit scale, and identity
// rotation.
type boneAttachment struct {
	kind attachmentKind

	primaryMatrix, overlayMatrix     *PlayerLayer[mgl32.Mat4]
	primaryPosition, overlayPosition *PlayerLayer[mgl32.Vec3]
	primaryScale, overlayScale       *PlayerLayer[mgl32.Vec3]
	primaryRotation, overlayRotation *PlayerLayer[mgl32.Quat]
}

type deformerAnimationPlayer struct {
	skel    skeleton.Skeleton
	primary AnimationPlayer
	overlay AnimationPlayer

	overlayInfluence float32
	attachments      map[skeleton.NodeHandle]boneAttachment
}

var _ DeformerAnimationPlayer = &deformerAnimationPlayer{}

// NewDeformerAnimationPlayer creates a deformer player over one timeline and
// one skeleton. Two independent players (primary and overlay) are bound to
// the timeline, and the bone-to-layer attachment table is resolved once from
// the timeline's layer set. A bone whose identifier matches no layer is not
// an error; it simply contributes identity.
//
// Parameters:
//   - t: the timeline both players are bound to (must not be nil)
//   - skel: the skeleton to deform (shared, not owned; must not be nil)
//   - options: variadic list of DeformerPlayerOption functions
//
// Returns:
//   - DeformerAnimationPlayer: the constructed player
//   - error: wraps common.ErrInvalidArgument for a nil timeline or skeleton
func NewDeformerAnimationPlayer(t *timeline.Timeline, skel skeleton.Skeleton, options ...DeformerPlayerOption) (DeformerAnimationPlayer, error) {
	if t == nil {
		return nil, fmt.Errorf("deformer player needs a timeline: %w", common.ErrInvalidArgument)
	}
	if skel == nil {
		return nil, fmt.Errorf("deformer player needs a skeleton: %w", common.ErrInvalidArgument)
	}

	primary, err := NewAnimationPlayer(t)
	if err != nil {
		return nil, err
	}
	overlay, err := NewAnimationPlayer(t)
	if err != nil {
		return nil, err
	}

	d := &deformerAnimationPlayer{
		skel:    skel,
		primary: primary,
		overlay: overlay,
	}
	d.RefreshAttachments()
	for _, opt := range options {
		opt(d)
	}
	return d, nil
}

func (d *deformerAnimationPlayer) Primary() AnimationPlayer {
	return d.primary
}

func (d *deformerAnimationPlayer) Overlay() AnimationPlayer {
	return d.overlay
}

func (d *deformerAnimationPlayer) Skeleton() skeleton.Skeleton {
	return d.skel
}

func (d *deformerAnimationPlayer) OverlayInfluence() float32 {
	return d.overlayInfluence
}

func (d *deformerAnimationPlayer) SetOverlayInfluence(influence float32) {
	d.overlayInfluence = common.Clamp01(influence)
}

func (d *deformerAnimationPlayer) Update(delta time.Duration) error {
	if err := d.primary.Update(delta); err != nil {
		return err
	}
	return d.overlay.Update(delta)
}

func (d *deformerAnimationPlayer) RefreshAttachments() {
	attachments := make(map[skeleton.NodeHandle]boneAttachment)
	d.skel.Walk(func(handle skeleton.NodeHandle, bone skeleton.Bone) bool {
		if bone.HasIdentifier() {
			if attachment := d.resolveAttachment(bone.Identifier()); attachment.kind != attachmentNone {
				attachments[handle] = attachment
			}
		}
		return true
	})
	d.attachments = attachments
}

// resolveAttachment binds one bone identifier against the timeline's layers:
// a combined matrix layer named exactly like the identifier takes priority;
// otherwise any subset of the position, scale, and rotation component layers
// is bound. Missing or mis-typed layers are tolerated.
func (d *deformerAnimationPlayer) resolveAttachment(identifier string) boneAttachment {
	var attachment boneAttachment

	primaryMatrix, err := Layer[mgl32.Mat4](d.primary, identifier)
	if err == nil {
		overlayMatrix, err := Layer[mgl32.Mat4](d.overlay, identifier)
		if err == nil {
			attachment.kind = attachmentMatrix
			attachment.primaryMatrix = primaryMatrix
			attachment.overlayMatrix = overlayMatrix
			return attachment
		}
	}

	if primaryPosition, err := Layer[mgl32.Vec3](d.primary, identifier+positionLayerSuffix); err == nil {
		if overlayPosition, err := Layer[mgl32.Vec3](d.overlay, identifier+positionLayerSuffix); err == nil {
			attachment.kind = attachmentComponents
			attachment.primaryPosition = primaryPosition
			attachment.overlayPosition = overlayPosition
		}
	}
	if primaryScale, err := Layer[mgl32.Vec3](d.primary, identifier+scaleLayerSuffix); err == nil {
		if overlayScale, err := Layer[mgl32.Vec3](d.overlay, identifier+scaleLayerSuffix); err == nil {
			attachment.kind = attachmentComponents
			attachment.primaryScale = primaryScale
			attachment.overlayScale = overlayScale
		}
	}
	if primaryRotation, err := Layer[mgl32.Quat](d.primary, identifier+rotationLayerSuffix); err == nil {
		if overlayRotation, err := Layer[mgl32.Quat](d.overlay, identifier+rotationLayerSuffix); err == nil {
			attachment.kind = attachmentComponents
			attachment.primaryRotation = primaryRotation
			attachment.overlayRotation = overlayRotation
		}
	}
	return attachment
}

func (d *deformerAnimationPlayer) GetCurrentDeformer() (*skeleton.Deformer, error) {
	highest := -1
	d.skel.Walk(func(_ skeleton.NodeHandle, bone skeleton.Bone) bool {
		if index, ok := bone.Index(); ok && int(index) > highest {
			highest = int(index)
		}
		return true
	})

	matrices := make([]mgl32.Mat4, highest+1)
	for i := range matrices {
		matrices[i] = mgl32.Ident4()
	}
	if err := d.accumulate(d.skel.Root(), mgl32.Ident4(), matrices); err != nil {
		return nil, err
	}
	return skeleton.NewDeformer(matrices, false)
}

// accumulate walks the skeleton depth-first, carrying the parent's absolute
// transform: absolute = animated * parentAbsolute. Indexed bones write
// offset * absolute into their slot; later visits silently overwrite earlier
// ones sharing a slot.
func (d *deformerAnimationPlayer) accumulate(handle skeleton.NodeHandle, parentAbsolute mgl32.Mat4, matrices []mgl32.Mat4) error {
	bone, err := d.skel.Bone(handle)
	if err != nil {
		return err
	}

	absolute := d.animatedTransform(handle).Mul4(parentAbsolute)
	if index, ok := bone.Index(); ok {
		matrices[index] = bone.Offset().Mul4(absolute)
	}

	children, err := d.skel.Children(handle)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := d.accumulate(child, absolute, matrices); err != nil {
			return err
		}
	}
	return nil
}

// animatedTransform resolves the bone's current relative transform for both
// players and blends them by the overlay influence. Unattached bones
// contribute identity.
func (d *deformerAnimationPlayer) animatedTransform(handle skeleton.NodeHandle) mgl32.Mat4 {
	attachment, exists := d.attachments[handle]
	if !exists {
		return mgl32.Ident4()
	}

	var primary, overlay mgl32.Mat4
	switch attachment.kind {
	case attachmentMatrix:
		primary = attachment.primaryMatrix.CurrentValue()
		overlay = attachment.overlayMatrix.CurrentValue()
	case attachmentComponents:
		primary = componentTransform(attachment.primaryPosition, attachment.primaryScale, attachment.primaryRotation)
		overlay = componentTransform(attachment.overlayPosition, attachment.overlayScale, attachment.overlayRotation)
	default:
		return mgl32.Ident4()
	}
	return common.LerpMat4(primary, overlay, d.overlayInfluence)
}

func componentTransform(position, scale *PlayerLayer[mgl32.Vec3], rotation *PlayerLayer[mgl32.Quat]) mgl32.Mat4 {
	pos := mgl32.Vec3{0, 0, 0}
	if position != nil {
		pos = position.CurrentValue()
	}
	scl := mgl32.Vec3{1, 1, 1}
	if scale != nil {
		scl = scale.CurrentValue()
	}
	rot := mgl32.QuatIdent()
	if rotation != nil {
		rot = rotation.CurrentValue()
	}
	return common.CreateTransformation(pos, scl, rot)
}
