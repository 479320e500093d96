package compositor

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// renderUI draws one UI camera's culled geometry into its destination: the
// offscreen target, or the base camera's own buffers under direct rendering.
//
// The pass is skipped silently when the camera has no valid culling extent
// this frame; that is a per-frame condition, not an error. A returned error
// means device work failed and the camera contributes nothing this frame.
func renderUI(dev Device, enc FrameEncoder, ui *UICamera, frame *Frame, before, after []func()) (*offscreenTarget, error) {
	params, ok := ui.cullParams()
	if !ok {
		Logger().Warn("UI camera has no valid culling extent, skipping",
			"camera", ui.Name)
		return nil, nil
	}

	target, err := ensureTarget(dev, ui, frame.Camera)
	if err != nil {
		return nil, err
	}

	// Destination attachments: the offscreen pair, or the base camera's own
	// buffers when direct rendering.
	color := frame.Camera.Color
	depth := frame.Camera.Depth
	if target != nil {
		color = target.color
		depth = target.depth
	}
	if color == nil {
		return nil, fmt.Errorf("compositor: base camera %q has no color target", ui.Name)
	}

	// Seed the target with the base camera's pre-UI color, one slice at a
	// time for array targets. Only meaningful for offscreen rendering with
	// a seed source; direct rendering already draws over the live buffer.
	seeded := false
	if target != nil && !ui.SkipBaseColorInit && frame.BaseColor != nil {
		for layer := uint32(0); layer < color.Layers(); layer++ {
			if err := enc.Blit(frame.BaseColor, color, layer); err != nil {
				return nil, fmt.Errorf("seed UI target: %w", err)
			}
		}
		seeded = true
	}

	// Clear policy: color and depth clear together when the target was not
	// seeded; a seeded target keeps its color and clears depth only. Direct
	// rendering must never clear the base camera's live color buffer.
	colorLoad := gputypes.LoadOpClear
	if seeded || target == nil {
		colorLoad = gputypes.LoadOpLoad
	}
	depthLoad := gputypes.LoadOpClear
	if ui.SkipDepthClear {
		depthLoad = gputypes.LoadOpLoad
	}

	for _, hook := range before {
		hook()
	}
	if ui.BeforeRender != nil {
		ui.BeforeRender()
	}

	culled := cull(ui.Scene, params)
	sortRenderers(culled)

	pass, err := enc.BeginPass(PassDescriptor{
		Label:     ui.Name + "_ui_pass",
		Color:     color,
		Depth:     depth,
		ColorLoad: colorLoad,
		DepthLoad: depthLoad,
	})
	if err != nil {
		return nil, fmt.Errorf("begin UI pass: %w", err)
	}

	for _, r := range culled {
		call, ok := resolveDraw(ui, r)
		if !ok {
			continue
		}
		if err := pass.Draw(call); err != nil {
			pass.End()
			return nil, fmt.Errorf("draw %q: %w", r.Name, err)
		}
	}
	pass.End()

	if ui.AfterRender != nil {
		ui.AfterRender()
	}
	for _, hook := range after {
		hook()
	}

	return target, nil
}

// resolveDraw picks the material and pass for one renderer. With an override
// material every draw substitutes it at the camera's configured pass index.
// Otherwise the renderer's own material is used at its first pass matching
// the fixed tag order; materials exposing none of the UI pass tags are not
// drawn.
func resolveDraw(ui *UICamera, r *Renderer) (DrawCall, bool) {
	if ui.OverrideMaterial != nil {
		idx := ui.OverrideMaterial.ClampPass(ui.OverridePass)
		if idx < 0 {
			return DrawCall{}, false
		}
		return DrawCall{Renderer: r, Material: ui.OverrideMaterial, Pass: idx}, true
	}
	if r.Material == nil {
		return DrawCall{}, false
	}
	for _, tag := range passTagOrder {
		if idx, ok := r.Material.HasTag(tag); ok {
			return DrawCall{Renderer: r, Material: r.Material, Pass: idx}, true
		}
	}
	return DrawCall{}, false
}
