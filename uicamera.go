package compositor

import (
	"github.com/gogpu/gputypes"
)

// CompositeMode selects how a UI camera's output reaches the base camera's
// color buffer.
type CompositeMode uint8

const (
	// CompositeAutomatic blends the offscreen UI target over the base
	// camera's output with the built-in full-screen blend shader.
	CompositeAutomatic CompositeMode = iota

	// CompositeManual issues no blend draw; compositing is left entirely
	// to the caller.
	CompositeManual

	// CompositeCustom blends with the camera's CompositeMaterial at
	// CompositePass. With no material set, compositing is skipped.
	CompositeCustom
)

// TargetMode selects which base cameras a UI camera composites onto.
type TargetMode uint8

const (
	// TargetMain composites onto the designated main camera only.
	TargetMain TargetMode = iota

	// TargetAll composites onto every eligible base camera.
	TargetAll

	// TargetLayer composites onto base cameras whose layer bit is set in
	// TargetLayerMask.
	TargetLayer

	// TargetSpecific composites onto the one camera named by TargetCamera.
	TargetSpecific
)

// UICamera configures one UI overlay camera.
//
// Configuration fields may be changed freely between frames; they are read
// once per Composite call. Lifecycle is explicit: Attach the camera to a
// compositor's Registry to make it participate, Detach to withdraw it and
// release its offscreen target. Per camera the states are
//
//	Detached -> Attached(no target) -> Attached(target) -> Detached
//
// with the target reallocated in place whenever the matched base camera's
// dimensions or the configured format drift.
type UICamera struct {
	// Name is a debug label.
	Name string

	// CompositeMode selects the blend strategy.
	CompositeMode CompositeMode

	// CompositeMaterial and CompositePass configure CompositeCustom mode.
	// The pass index is clamped to the material's pass list; single-pass
	// materials always use pass 0.
	CompositeMaterial *Material
	CompositePass     int

	// OverrideMaterial, when set, substitutes every draw call's material in
	// this camera's UI pass, at OverridePass (clamped). Independent of the
	// composite mode.
	OverrideMaterial *Material
	OverridePass     int

	// Format is the offscreen color target format.
	// Zero value means DefaultColorFormat.
	Format gputypes.TextureFormat

	// TargetMode selects which base cameras this camera composites onto,
	// together with TargetLayerMask (TargetLayer) and TargetCamera
	// (TargetSpecific).
	TargetMode      TargetMode
	TargetLayerMask uint32
	TargetCamera    CameraID

	// SkipBaseColorInit leaves the offscreen target unseeded by the base
	// camera's current color. Cheaper, but semi-transparent UI then blends
	// against the clear color instead of the scene. Combined with
	// CompositeAutomatic it enables direct rendering: the UI draws straight
	// into the base camera's target and no offscreen buffer exists.
	SkipBaseColorInit bool

	// SkipDepthClear preserves the depth buffer between frames for this
	// camera's UI pass, keeping occlusion continuity across frames.
	SkipDepthClear bool

	// Priority orders multiple UI cameras matching the same base camera.
	// Lower priorities render first, so higher priorities draw on top.
	// Mirrors the attached camera's depth value.
	Priority float64

	// Enabled gates participation. A disabled camera keeps its target.
	Enabled bool

	// CullingMask and View are the attached camera's render layer mask and
	// world-space view extent, consumed by the UI pass cull. A zero-area
	// View is a culling failure: the pass is skipped for the frame.
	CullingMask uint32
	View        Rect

	// Scene supplies the geometry this camera draws.
	Scene Source

	// BeforeRender and AfterRender, when set, run synchronously immediately
	// before and after this camera's UI pass.
	BeforeRender func()
	AfterRender  func()

	attached bool
	target   *offscreenTarget

	// warnedNoMaterial dedupes the Custom-mode missing-material warning.
	warnedNoMaterial bool
}

// NewUICamera returns a UICamera with the default configuration: automatic
// compositing onto the main camera, default color format, all layers
// visible, enabled.
func NewUICamera() *UICamera {
	return &UICamera{
		CompositeMode: CompositeAutomatic,
		TargetMode:    TargetMain,
		Format:        DefaultColorFormat,
		CullingMask:   ^uint32(0),
		Enabled:       true,
	}
}

// Active reports whether the camera participates in compositing this frame:
// it must be attached and enabled.
func (u *UICamera) Active() bool {
	return u != nil && u.attached && u.Enabled
}

// DirectRendering reports whether the camera bypasses the offscreen target
// and draws straight into the base camera's buffer. This is a pure
// optimization path: automatic compositing with no base-color seed needs no
// intermediate buffer or blend pass.
func (u *UICamera) DirectRendering() bool {
	return u.CompositeMode == CompositeAutomatic && u.SkipBaseColorInit
}

// colorFormat resolves the configured offscreen format, applying the default
// for the zero value.
func (u *UICamera) colorFormat() gputypes.TextureFormat {
	if u.Format == gputypes.TextureFormatUndefined {
		return DefaultColorFormat
	}
	return u.Format
}

// cullParams resolves this frame's culling inputs. ok is false when the
// camera has no valid culling extent, which skips the pass without error.
func (u *UICamera) cullParams() (cullParams, bool) {
	if u.View.Empty() {
		return cullParams{}, false
	}
	return cullParams{view: u.View, mask: u.CullingMask}, true
}
