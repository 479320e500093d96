// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compositor"
)

// frameEncoder records one base camera's compositing work into a single HAL
// command encoder. Per-draw resources (uniform buffers, bind groups) live
// until the submission's fence signals and are released by Submit.
type frameEncoder struct {
	dev     *Device
	encoder hal.CommandEncoder
	label   string

	inPass   bool
	consumed bool

	// cleanup runs after the fence wait, newest first.
	cleanup []func()
}

// Blit copies src into dst with a full-screen replace draw. Only layer 0 is
// supported; array slices beyond the first are skipped.
func (e *frameEncoder) Blit(src, dst compositor.Texture, layer uint32) error {
	if e.consumed {
		return ErrEncoderConsumed
	}
	if e.inPass {
		return ErrPassInProgress
	}
	s, ok1 := src.(*Texture)
	t, ok2 := dst.(*Texture)
	if !ok1 || !ok2 {
		return ErrForeignTexture
	}
	if layer > 0 {
		compositor.Logger().Debug("array slice blit not supported, skipping",
			"texture", t.label, "layer", layer)
		return nil
	}

	pipeline, err := e.dev.pipelines.blitPipeline(e.dev.device, t.format)
	if err != nil {
		return err
	}
	bg, err := e.texBindGroup("ui_blit_bind", s)
	if err != nil {
		return err
	}

	rp := e.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "ui_blit",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    t.view,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, bg, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()
	return nil
}

// BeginPass starts a HAL render pass on the descriptor's attachments.
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

	rpDesc := &hal.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       colorTex.view,
			LoadOp:     desc.ColorLoad,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: desc.ClearColor,
		}},
	}

	hasDepth := false
	if desc.Depth != nil {
		depthTex, ok := desc.Depth.(*Texture)
		if !ok {
			return nil, ErrForeignTexture
		}
		hasDepth = true
		rpDesc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              depthTex.view,
			DepthLoadOp:       desc.DepthLoad,
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   1.0,
			StencilLoadOp:     desc.DepthLoad,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: 0,
		}
	}

	e.inPass = true
	return &passEncoder{
		enc:      e,
		rp:       e.encoder.BeginRenderPass(rpDesc),
		format:   colorTex.format,
		width:    colorTex.width,
		height:   colorTex.height,
		hasDepth: hasDepth,
	}, nil
}

// texBindGroup builds a bind group pairing a source texture with the shared
// sampler and schedules its destruction for after submission.
func (e *frameEncoder) texBindGroup(label string, src *Texture) (hal.BindGroup, error) {
	bg, err := e.dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: e.dev.pipelines.texLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: src.view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: e.dev.pipelines.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	e.cleanup = append(e.cleanup, func() {
		e.dev.device.DestroyBindGroup(bg)
	})
	return bg, nil
}

// releaseFrameResources destroys per-draw resources, newest first.
func (e *frameEncoder) releaseFrameResources() {
	for i := len(e.cleanup) - 1; i >= 0; i-- {
		e.cleanup[i]()
	}
	e.cleanup = nil
}

// passEncoder records draws into one HAL render pass.
type passEncoder struct {
	enc      *frameEncoder
	rp       hal.RenderPassEncoder
	format   gputypes.TextureFormat
	width    uint32
	height   uint32
	hasDepth bool
	ended    bool
}

// Draw fills the renderer's bounds with the material color. World units map
// directly to pixels.
func (p *passEncoder) Draw(call compositor.DrawCall) error {
	if p.ended {
		return ErrEncoderConsumed
	}
	if call.Renderer == nil || call.Material == nil {
		return nil
	}

	pipeline, err := p.enc.dev.pipelines.rectPipeline(p.enc.dev.device, p.format, p.hasDepth)
	if err != nil {
		return err
	}

	uniformBuf, err := p.enc.uploadUniform("ui_rect_uniform",
		makeRectUniform(p.width, p.height, call.Renderer.Bounds, call.Material.Color))
	if err != nil {
		return err
	}
	bg, err := p.enc.dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "ui_rect_bind",
		Layout: p.enc.dev.pipelines.rectLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: rectUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create rect bind group: %w", err)
	}
	p.enc.cleanup = append(p.enc.cleanup, func() {
		p.enc.dev.device.DestroyBindGroup(bg)
	})

	p.rp.SetPipeline(pipeline)
	p.rp.SetBindGroup(0, bg, nil)
	p.rp.Draw(6, 1, 0, 0)
	return nil
}

// Blend composites the source texture over the pass's color attachment with
// a premultiplied full-screen draw. Custom compositing materials run the
// same built-in blend; the GPU device does not execute arbitrary material
// shaders.
func (p *passEncoder) Blend(bd compositor.BlendDraw) error {
	if p.ended {
		return ErrEncoderConsumed
	}
	src, ok := bd.Source.(*Texture)
	if !ok {
		return ErrForeignTexture
	}

	pipeline, err := p.enc.dev.pipelines.blendPipeline(p.enc.dev.device, p.format)
	if err != nil {
		return err
	}
	bg, err := p.enc.texBindGroup("ui_blend_bind", src)
	if err != nil {
		return err
	}

	p.rp.SetPipeline(pipeline)
	p.rp.SetBindGroup(0, bg, nil)
	p.rp.Draw(3, 1, 0, 0)
	return nil
}

// End closes the render pass.
func (p *passEncoder) End() {
	if p.ended {
		return
	}
	p.ended = true
	p.rp.End()
	p.enc.inPass = false
}

// uploadUniform creates a uniform buffer, writes data into it, and schedules
// its destruction for after submission.
func (e *frameEncoder) uploadUniform(label string, data []byte) (hal.Buffer, error) {
	buf, err := e.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	e.dev.queue.WriteBuffer(buf, 0, data)
	e.cleanup = append(e.cleanup, func() {
		e.dev.device.DestroyBuffer(buf)
	})
	return buf, nil
}

// makeRectUniform packs the rect shader uniform. Layout matches RectUniforms
// in rect.wgsl: viewport, rect, color as three vec4<f32>.
func makeRectUniform(w, h uint32, bounds compositor.Rect, color [4]float64) []byte {
	buf := make([]byte, rectUniformSize)
	put := func(off int, v float64) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(v)))
	}
	put(0, float64(w))
	put(4, float64(h))
	// viewport.zw padding stays zero.
	put(16, bounds.X)
	put(20, bounds.Y)
	put(24, bounds.W)
	put(28, bounds.H)
	put(32, color[0])
	put(36, color[1])
	put(40, color[2])
	put(44, color[3])
	return buf
}

// Interface checks.
var (
	_ compositor.FrameEncoder = (*frameEncoder)(nil)
	_ compositor.PassEncoder  = (*passEncoder)(nil)
)
