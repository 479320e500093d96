// Package software provides a CPU reference implementation of the
// compositor Device. Textures are plain RGBA planes, renderer draws are
// solid fills of the renderer's bounds, and the built-in blend is a
// source-over pixel composite. Depth is tracked but not tested; draws rely
// on the compositor's back-to-front submission order.
//
// The device keeps allocation and draw statistics, which the compositor's
// tests use to verify target reuse and blend draw counts. It is registered
// with the backend registry under the name "software".
package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/backend"
	"github.com/gogpu/gputypes"
)

func init() {
	backend.Register(backend.BackendSoftware, func() compositor.Device {
		return New()
	})
}

// Encoder state errors.
var (
	// ErrEncoderConsumed is returned when an encoder is submitted twice or
	// used after submission.
	ErrEncoderConsumed = errors.New("software: encoder already submitted")

	// ErrPassInProgress is returned when a new pass begins before the
	// previous one ended.
	ErrPassInProgress = errors.New("software: render pass already in progress")

	// ErrForeignTexture is returned when a texture from another device
	// implementation is passed in.
	ErrForeignTexture = errors.New("software: texture from foreign device")
)

// Stats counts the device work performed since creation. Counters track
// recorded work: draws and blits count when recorded, submits when executed.
type Stats struct {
	TexturesAllocated int
	TexturesFreed     int
	Blits             int
	Passes            int
	Draws             int
	BlendDraws        int
	Submits           int
}

// Device is the CPU reference device.
type Device struct {
	stats Stats
}

// New creates a software device.
func New() *Device {
	return &Device{}
}

// Name returns "software".
func (d *Device) Name() string { return backend.BackendSoftware }

// Stats returns a copy of the device's work counters.
func (d *Device) Stats() Stats { return d.stats }

// CreateTexture allocates an RGBA plane per array layer. Depth-stencil
// formats allocate no pixel plane; the reference device does not test depth.
func (d *Device) CreateTexture(desc compositor.TextureDescriptor) (compositor.Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, compositor.ErrInvalidDimensions
	}
	layers := desc.Layers
	if layers == 0 {
		layers = 1
	}

	t := &Texture{
		dev:    d,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		label:  desc.Label,
	}
	if desc.Format != compositor.DepthStencilFormat {
		t.planes = make([]*image.RGBA, layers)
		for i := range t.planes {
			t.planes[i] = image.NewRGBA(image.Rect(0, 0, int(desc.Width), int(desc.Height)))
		}
	} else {
		// Depth planes exist only for layer accounting.
		t.planes = make([]*image.RGBA, layers)
	}
	d.stats.TexturesAllocated++
	return t, nil
}

// NewFrameEncoder begins recording one base camera's work.
func (d *Device) NewFrameEncoder(label string) (compositor.FrameEncoder, error) {
	return &frameEncoder{dev: d, label: label}, nil
}

// Submit executes every recorded operation in order. Each encoder may be
// submitted once.
func (d *Device) Submit(enc compositor.FrameEncoder) error {
	fe, ok := enc.(*frameEncoder)
	if !ok {
		return fmt.Errorf("software: foreign frame encoder %T", enc)
	}
	if fe.consumed {
		return ErrEncoderConsumed
	}
	fe.consumed = true

	for _, op := range fe.ops {
		if err := op(); err != nil {
			return err
		}
	}
	// Recorded commands have been executed; drop them.
	fe.ops = nil
	d.stats.Submits++
	return nil
}

// Texture is a CPU texture: one RGBA plane per array layer.
type Texture struct {
	dev       *Device
	planes    []*image.RGBA
	width     uint32
	height    uint32
	format    gputypes.TextureFormat
	label     string
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 { return t.height }

// Layers returns the array layer count.
func (t *Texture) Layers() uint32 { return uint32(len(t.planes)) }

// Format returns the texture pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Destroy releases the pixel planes. Safe to call once.
func (t *Texture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.planes = nil
	t.dev.stats.TexturesFreed++
}

// Plane returns the pixel plane for one array layer, or nil for destroyed
// or depth textures. Tests and headless hosts read composited output here.
func (t *Texture) Plane(layer uint32) *image.RGBA {
	if t.destroyed || layer >= uint32(len(t.planes)) {
		return nil
	}
	return t.planes[layer]
}

// frameEncoder records operations as closures, executed in order on Submit.
type frameEncoder struct {
	dev      *Device
	label    string
	ops      []func() error
	inPass   bool
	consumed bool
}

// Blit copies one array slice of src into dst, scaling when dimensions
// differ.
func (e *frameEncoder) Blit(src, dst compositor.Texture, layer uint32) error {
	if e.consumed {
		return ErrEncoderConsumed
	}
	s, ok1 := src.(*Texture)
	t, ok2 := dst.(*Texture)
	if !ok1 || !ok2 {
		return ErrForeignTexture
	}
	e.dev.stats.Blits++
	e.ops = append(e.ops, func() error {
		sp := s.Plane(layer)
		dp := t.Plane(layer)
		if sp == nil || dp == nil {
			return nil
		}
		if sp.Bounds() == dp.Bounds() {
			draw.Draw(dp, dp.Bounds(), sp, image.Point{}, draw.Src)
		} else {
			xdraw.ApproxBiLinear.Scale(dp, dp.Bounds(), sp, sp.Bounds(), xdraw.Src, nil)
		}
		return nil
	})
	return nil
}

// BeginPass starts a render pass on the descriptor's color attachment.
func (e *frameEncoder) BeginPass(desc compositor.PassDescriptor) (compositor.PassEncoder, error) {
	if e.consumed {
		return nil, ErrEncoderConsumed
	}
	if e.inPass {
		return nil, ErrPassInProgress
	}
	colorTex, ok := desc.Color.(*Texture)
	if !ok {
		return nil, ErrForeignTexture
	}
	e.inPass = true
	e.dev.stats.Passes++

	if desc.ColorLoad == gputypes.LoadOpClear {
		clearColor := desc.ClearColor
		e.ops = append(e.ops, func() error {
			fillPlanes(colorTex, clearColor)
			return nil
		})
	}
	return &passEncoder{enc: e, color: colorTex}, nil
}

// passEncoder executes draws against one color attachment.
type passEncoder struct {
	enc   *frameEncoder
	color *Texture
	ended bool
}

// Draw fills the renderer's bounds with the material color, source-over.
// World units map directly to pixels in the reference device.
func (p *passEncoder) Draw(call compositor.DrawCall) error {
	if p.ended {
		return ErrEncoderConsumed
	}
	p.enc.dev.stats.Draws++
	tex := p.color
	r := call.Renderer
	mat := call.Material
	p.enc.ops = append(p.enc.ops, func() error {
		plane := tex.Plane(0)
		if plane == nil || r == nil || mat == nil {
			return nil
		}
		rect := image.Rect(
			int(r.Bounds.X), int(r.Bounds.Y),
			int(r.Bounds.X+r.Bounds.W), int(r.Bounds.Y+r.Bounds.H),
		).Intersect(plane.Bounds())
		src := image.NewUniform(materialColor(mat))
		draw.Draw(plane, rect, src, image.Point{}, draw.Over)
		return nil
	})
	return nil
}

// Blend composites the source texture over the color attachment, scaling
// when dimensions differ. Every material blends source-over in the
// reference device; custom shaders are out of its scope.
func (p *passEncoder) Blend(bd compositor.BlendDraw) error {
	if p.ended {
		return ErrEncoderConsumed
	}
	src, ok := bd.Source.(*Texture)
	if !ok {
		return ErrForeignTexture
	}
	p.enc.dev.stats.BlendDraws++
	dst := p.color
	p.enc.ops = append(p.enc.ops, func() error {
		sp := src.Plane(0)
		dp := dst.Plane(0)
		if sp == nil || dp == nil {
			return nil
		}
		if sp.Bounds() == dp.Bounds() {
			draw.Draw(dp, dp.Bounds(), sp, image.Point{}, draw.Over)
		} else {
			xdraw.ApproxBiLinear.Scale(dp, dp.Bounds(), sp, sp.Bounds(), xdraw.Over, nil)
		}
		return nil
	})
	return nil
}

// End closes the pass.
func (p *passEncoder) End() {
	if p.ended {
		return
	}
	p.ended = true
	p.enc.inPass = false
}

// fillPlanes writes a uniform color to every layer of a texture.
func fillPlanes(t *Texture, c gputypes.Color) {
	rgba := color.RGBA{
		R: clamp8(c.R),
		G: clamp8(c.G),
		B: clamp8(c.B),
		A: clamp8(c.A),
	}
	for layer := uint32(0); layer < t.Layers(); layer++ {
		plane := t.Plane(layer)
		if plane == nil {
			continue
		}
		draw.Draw(plane, plane.Bounds(), image.NewUniform(rgba), image.Point{}, draw.Src)
	}
}

// materialColor converts a material's tint to 8-bit RGBA.
func materialColor(m *compositor.Material) color.RGBA {
	return color.RGBA{
		R: clamp8(m.Color[0]),
		G: clamp8(m.Color[1]),
		B: clamp8(m.Color[2]),
		A: clamp8(m.Color[3]),
	}
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// Interface checks.
var (
	_ compositor.Device       = (*Device)(nil)
	_ compositor.Texture      = (*Texture)(nil)
	_ compositor.FrameEncoder = (*frameEncoder)(nil)
	_ compositor.PassEncoder  = (*passEncoder)(nil)
)
