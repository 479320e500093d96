package compositor

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// fakeDevice records every device call so tests can assert on allocation,
// pass, and draw behavior without a real backend.
type fakeDevice struct {
	textures []*fakeTexture
	encoders []*fakeFrameEncoder
	submits  int

	failCreateTexture bool
	failBeginPass     bool
	failDraw          bool
}

type fakeTexture struct {
	label     string
	width     uint32
	height    uint32
	layers    uint32
	format    gputypes.TextureFormat
	destroyed bool
}

func (t *fakeTexture) Width() uint32                  { return t.width }
func (t *fakeTexture) Height() uint32                 { return t.height }
func (t *fakeTexture) Layers() uint32                 { return t.layers }
func (t *fakeTexture) Format() gputypes.TextureFormat { return t.format }
func (t *fakeTexture) Destroy()                       { t.destroyed = true }

func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) CreateTexture(desc TextureDescriptor) (Texture, error) {
	if d.failCreateTexture {
		return nil, errors.New("fake: create texture failed")
	}
	layers := desc.Layers
	if layers == 0 {
		layers = 1
	}
	t := &fakeTexture{
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		layers: layers,
		format: desc.Format,
	}
	d.textures = append(d.textures, t)
	return t, nil
}

func (d *fakeDevice) NewFrameEncoder(label string) (FrameEncoder, error) {
	e := &fakeFrameEncoder{dev: d, label: label}
	d.encoders = append(d.encoders, e)
	return e, nil
}

func (d *fakeDevice) Submit(enc FrameEncoder) error {
	d.submits++
	return nil
}

// liveTextures counts allocations not yet destroyed.
func (d *fakeDevice) liveTextures() int {
	n := 0
	for _, t := range d.textures {
		if !t.destroyed {
			n++
		}
	}
	return n
}

type blitRecord struct {
	src   Texture
	dst   Texture
	layer uint32
}

type fakeFrameEncoder struct {
	dev   *fakeDevice
	label string
	blits []blitRecord
	// passes holds every pass begun on this encoder, in order.
	passes []*fakePassEncoder
}

func (e *fakeFrameEncoder) Blit(src, dst Texture, layer uint32) error {
	e.blits = append(e.blits, blitRecord{src: src, dst: dst, layer: layer})
	return nil
}

func (e *fakeFrameEncoder) BeginPass(desc PassDescriptor) (PassEncoder, error) {
	if e.dev.failBeginPass {
		return nil, errors.New("fake: begin pass failed")
	}
	p := &fakePassEncoder{enc: e, desc: desc}
	e.passes = append(e.passes, p)
	return p, nil
}

type fakePassEncoder struct {
	enc    *fakeFrameEncoder
	desc   PassDescriptor
	draws  []DrawCall
	blends []BlendDraw
	ended  bool
}

func (p *fakePassEncoder) Draw(call DrawCall) error {
	if p.enc.dev.failDraw {
		return errors.New("fake: draw failed")
	}
	p.draws = append(p.draws, call)
	return nil
}

func (p *fakePassEncoder) Blend(draw BlendDraw) error {
	p.blends = append(p.blends, draw)
	return nil
}

func (p *fakePassEncoder) End() { p.ended = true }

// totalBlends counts blend draws across all passes of an encoder.
func (e *fakeFrameEncoder) totalBlends() int {
	n := 0
	for _, p := range e.passes {
		n += len(p.blends)
	}
	return n
}

// baseCamera builds a main game camera with attached fake color and depth.
func baseCamera(id CameraID, w, h uint32) *Camera {
	return &Camera{
		ID:     id,
		Kind:   CameraGame,
		Width:  w,
		Height: h,
		IsMain: true,
		Color:  &fakeTexture{label: "base_color", width: w, height: h, layers: 1, format: gputypes.TextureFormatRGBA8Unorm},
		Depth:  &fakeTexture{label: "base_depth", width: w, height: h, layers: 1, format: DepthStencilFormat},
	}
}

// attachedUICamera builds an enabled UI camera attached to reg with a
// one-item scene and a unit view.
func attachedUICamera(reg *Registry, name string) *UICamera {
	ui := NewUICamera()
	ui.Name = name
	ui.View = Rect{X: 0, Y: 0, W: 100, H: 100}
	ui.Scene = SliceSource{{
		Name:     name + "_item",
		Bounds:   Rect{X: 10, Y: 10, W: 20, H: 20},
		Material: &Material{Name: "mat", Passes: []MaterialPass{{Name: "Unlit", Tag: PassUnlit}}},
	}}
	reg.Attach(ui)
	return ui
}
