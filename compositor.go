package compositor

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
)

// BlendShaderBuiltin is the shader reference carried by the built-in shared
// blend material. Device backends resolve it to their own "blend UI over
// background" implementation: a premultiplied source-over full-screen
// triangle in backend/wgpu, a source-over pixel blend in backend/software.
const BlendShaderBuiltin = "builtin:blend"

// Compositor is the per-frame orchestrator. The host pipeline invokes
// Composite once per base camera per frame, after that camera's main render;
// the compositor resolves which attached UI cameras contribute, renders each
// into its target, and blends the results in priority order.
//
// All shared resources (the registry, the built-in blend material) are owned
// here, constructed once, and handed to consumers read-only. All access
// happens on the host's single render callback, so no frame-path locking is
// needed beyond the registry's own.
type Compositor struct {
	dev Device
	reg *Registry

	pipelineTag string

	// blendMat is the shared automatic-blend material, built lazily on the
	// first automatic composite and immutable afterwards.
	blendMat *Material

	beforeUI []func()
	afterUI  []func()
}

// New creates a Compositor executing on the given device.
func New(dev Device, opts ...Option) *Compositor {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Compositor{
		dev:         dev,
		reg:         newRegistry(),
		pipelineTag: o.pipelineTag,
		blendMat:    o.blendMat,
	}
}

// Registry returns the compositor's camera registry.
func (c *Compositor) Registry() *Registry { return c.reg }

// OnBeforeUIRendering subscribes a hook invoked synchronously before every
// UI camera's render pass. Intended for host pipelines that need to adjust
// global state around UI rendering.
func (c *Compositor) OnBeforeUIRendering(hook func()) {
	if hook != nil {
		c.beforeUI = append(c.beforeUI, hook)
	}
}

// OnAfterUIRendering subscribes a hook invoked synchronously after every UI
// camera's render pass.
func (c *Compositor) OnAfterUIRendering(hook func()) {
	if hook != nil {
		c.afterUI = append(c.afterUI, hook)
	}
}

// Composite runs the full compositing step for one base camera. It must be
// called once per base camera per frame, after the camera's main render.
//
// Per-camera failures (missing material, culling failure, device errors on
// one UI camera) degrade to skipped work: the remaining UI cameras still
// composite. Composite returns an error only when the frame itself is
// unusable or final submission fails.
func (c *Compositor) Composite(frame *Frame) error {
	if frame == nil || frame.Camera == nil {
		return ErrNilFrame
	}
	if c.pipelineTag != "" && frame.Pipeline != c.pipelineTag {
		Logger().Debug("foreign pipeline, compositing skipped",
			"want", c.pipelineTag, "got", frame.Pipeline)
		return nil
	}

	matched := c.matchedCameras(frame.Camera)
	if len(matched) == 0 {
		return nil
	}

	enc, err := c.dev.NewFrameEncoder(cameraLabel(frame.Camera))
	if err != nil {
		return fmt.Errorf("compositor: begin frame: %w", err)
	}

	for _, ui := range matched {
		target, err := renderUI(c.dev, enc, ui, frame, c.beforeUI, c.afterUI)
		if err != nil {
			Logger().Warn("UI camera render failed, skipping",
				"camera", ui.Name, "err", err)
			continue
		}
		if target == nil {
			// Direct rendering or skipped pass: nothing to blend.
			continue
		}
		if err := c.blend(enc, ui, target, frame); err != nil {
			Logger().Warn("UI composite blend failed, skipping",
				"camera", ui.Name, "err", err)
		}
	}

	// All accumulated commands go to the device in a single submission.
	if err := c.dev.Submit(enc); err != nil {
		return fmt.Errorf("compositor: submit: %w", err)
	}
	return nil
}

// matchedCameras resolves the UI cameras contributing to base this frame,
// ordered ascending by priority: lower priorities render first so higher
// priorities draw on top.
func (c *Compositor) matchedCameras(base *Camera) []*UICamera {
	var matched []*UICamera
	for _, ui := range c.reg.snapshot() {
		if matches(c.reg, ui, base) {
			matched = append(matched, ui)
		}
	}
	slices.SortStableFunc(matched, func(a, b *UICamera) int {
		switch {
		case a.Priority < b.Priority:
			return -1
		case a.Priority > b.Priority:
			return 1
		default:
			return 0
		}
	})
	return matched
}

// blend composites one UI camera's offscreen target onto the base camera's
// color buffer according to the camera's composite mode.
func (c *Compositor) blend(enc FrameEncoder, ui *UICamera, target *offscreenTarget, frame *Frame) error {
	var mat *Material
	var passIdx int

	switch ui.CompositeMode {
	case CompositeManual:
		// Compositing is delegated to the caller; no draw is issued.
		return nil

	case CompositeAutomatic:
		mat = c.blendMaterial()
		passIdx = 0

	case CompositeCustom:
		mat = ui.CompositeMaterial
		if mat == nil {
			if !ui.warnedNoMaterial {
				ui.warnedNoMaterial = true
				Logger().Warn("custom compositing without a material, UI not composited",
					"camera", ui.Name)
			}
			return nil
		}
		ui.warnedNoMaterial = false
		passIdx = mat.ClampPass(ui.CompositePass)
		if passIdx < 0 {
			Logger().Warn("compositing material has no passes, UI not composited",
				"camera", ui.Name, "material", mat.Name)
			return nil
		}
	}

	pass, err := enc.BeginPass(PassDescriptor{
		Label:     ui.Name + "_composite",
		Color:     frame.Camera.Color,
		ColorLoad: gputypes.LoadOpLoad,
	})
	if err != nil {
		return fmt.Errorf("begin composite pass: %w", err)
	}
	defer pass.End()

	if err := pass.Blend(BlendDraw{
		Source:   target.color,
		Material: mat,
		Pass:     passIdx,
	}); err != nil {
		return fmt.Errorf("composite draw: %w", err)
	}
	return nil
}

// blendMaterial returns the shared automatic-blend material, constructing it
// on first use. The material is immutable after construction.
func (c *Compositor) blendMaterial() *Material {
	if c.blendMat == nil {
		c.blendMat = &Material{
			Name:   "ui_blend",
			Shader: BlendShaderBuiltin,
			Passes: []MaterialPass{{Name: "Blend", Tag: PassUnlit}},
		}
		Logger().Info("created shared UI blend material")
	}
	return c.blendMat
}

func cameraLabel(base *Camera) string {
	if base.IsMain {
		return "ui_composite_main"
	}
	return fmt.Sprintf("ui_composite_cam%d", base.ID)
}
