package compositor

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// minTargetDim is the minimum offscreen target dimension. Degenerate base
// cameras (zero-area during window resizes) still get a valid allocation.
const minTargetDim = 4

// offscreenTarget is the color+depth pair a UI camera renders into before
// compositing. Each UICamera owns at most one at a time.
type offscreenTarget struct {
	color Texture
	depth Texture

	// depthShared marks a depth attachment borrowed from the base camera
	// rather than allocated here; borrowed attachments are never destroyed.
	depthShared bool

	width, height uint32
	format        gputypes.TextureFormat
}

// ensureTarget returns a ready-to-draw offscreen target for ui sized and
// formatted to match base. The existing target is reused when width, height,
// and format are unchanged; otherwise the old GPU backing is released and a
// new pair is allocated. Direct rendering releases and returns no target.
func ensureTarget(dev Device, ui *UICamera, base *Camera) (*offscreenTarget, error) {
	if ui.DirectRendering() {
		releaseTarget(ui)
		return nil, nil
	}

	w, h := base.pixelSize()
	format := ui.colorFormat()

	t := ui.target
	if t != nil && t.width == w && t.height == h && t.format == format {
		return t, nil
	}
	releaseTarget(ui)

	color, err := dev.CreateTexture(TextureDescriptor{
		Label:  ui.Name + "_ui_color",
		Width:  w,
		Height: h,
		Layers: 1,
		Format: format,
		Usage:  TextureUsageRenderAttachment | TextureUsageTextureBinding | TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create UI color target: %w", err)
	}

	t = &offscreenTarget{
		color:  color,
		width:  w,
		height: h,
		format: format,
	}

	// A base camera depth buffer that already carries a depth-stencil format
	// is reused directly; otherwise allocate a companion buffer.
	if base.Depth != nil && isDepthStencil(base.Depth.Format()) {
		t.depth = base.Depth
		t.depthShared = true
	} else {
		depth, err := dev.CreateTexture(TextureDescriptor{
			Label:  ui.Name + "_ui_depth",
			Width:  w,
			Height: h,
			Layers: 1,
			Format: DepthStencilFormat,
			Usage:  TextureUsageRenderAttachment,
		})
		if err != nil {
			color.Destroy()
			return nil, fmt.Errorf("create UI depth target: %w", err)
		}
		t.depth = depth
	}

	ui.target = t
	Logger().Debug("allocated UI offscreen target",
		"camera", ui.Name, "width", w, "height", h, "format", format)
	return t, nil
}

// releaseTarget deterministically frees ui's offscreen pair, if any.
// Borrowed depth attachments are dropped without destruction.
func releaseTarget(ui *UICamera) {
	t := ui.target
	if t == nil {
		return
	}
	ui.target = nil
	if t.color != nil {
		t.color.Destroy()
	}
	if t.depth != nil && !t.depthShared {
		t.depth.Destroy()
	}
}
