// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compositor"
)

// Embedded compositor shaders.
//
//go:embed shaders/blend.wgsl
var blendShaderSource string

//go:embed shaders/rect.wgsl
var rectShaderSource string

// rectUniformSize is the byte size of the rect fill uniform buffer.
// Layout: viewport (vec4<f32>) + rect (vec4<f32>) + color (vec4<f32>) = 48 bytes.
const rectUniformSize = 48

// rectKey identifies a cached rect pipeline variant. Passes with a
// depth-stencil attachment need a pipeline carrying a matching
// depth-stencil state.
type rectKey struct {
	format   gputypes.TextureFormat
	hasDepth bool
}

// pipelineCache owns the compositor's shader modules, bind group layouts,
// sampler, and lazily created per-format render pipelines.
//
// Two shaders cover all device work: blend.wgsl draws a full-screen textured
// triangle (used with replace blending for base-color seeding and with
// premultiplied blending for the built-in composite), and rect.wgsl fills a
// uniform-supplied rect with a solid color for renderer draws.
type pipelineCache struct {
	blendShader hal.ShaderModule
	rectShader  hal.ShaderModule

	texLayout      hal.BindGroupLayout
	rectLayout     hal.BindGroupLayout
	texPipeLayout  hal.PipelineLayout
	rectPipeLayout hal.PipelineLayout

	sampler hal.Sampler

	blit  map[gputypes.TextureFormat]hal.RenderPipeline
	blend map[gputypes.TextureFormat]hal.RenderPipeline
	rect  map[rectKey]hal.RenderPipeline
}

func newPipelineCache(device hal.Device) (*pipelineCache, error) {
	pc := &pipelineCache{
		blit:  make(map[gputypes.TextureFormat]hal.RenderPipeline),
		blend: make(map[gputypes.TextureFormat]hal.RenderPipeline),
		rect:  make(map[rectKey]hal.RenderPipeline),
	}

	var err error
	pc.blendShader, err = compileShader(device, "ui_blend_shader", blendShaderSource)
	if err != nil {
		return nil, err
	}
	pc.rectShader, err = compileShader(device, "ui_rect_shader", rectShaderSource)
	if err != nil {
		pc.destroy(device)
		return nil, err
	}

	// Bind group layout for textured draws:
	//   Binding 0: source texture (texture_2d, fragment)
	//   Binding 1: sampler (fragment)
	pc.texLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ui_blend_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		pc.destroy(device)
		return nil, fmt.Errorf("create blend bind group layout: %w", err)
	}

	// Bind group layout for rect fills:
	//   Binding 0: RectUniforms (uniform buffer, vertex+fragment)
	pc.rectLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ui_rect_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		pc.destroy(device)
		return nil, fmt.Errorf("create rect bind group layout: %w", err)
	}

	pc.texPipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "ui_blend_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{pc.texLayout},
	})
	if err != nil {
		pc.destroy(device)
		return nil, fmt.Errorf("create blend pipeline layout: %w", err)
	}
	pc.rectPipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "ui_rect_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{pc.rectLayout},
	})
	if err != nil {
		pc.destroy(device)
		return nil, fmt.Errorf("create rect pipeline layout: %w", err)
	}

	pc.sampler, err = device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "ui_blend_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		pc.destroy(device)
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	return pc, nil
}

// compileShader compiles WGSL to SPIR-V via naga, falling back to the
// backend's own WGSL frontend when naga rejects the source.
func compileShader(device hal.Device, label, source string) (hal.ShaderModule, error) {
	if source == "" {
		return nil, fmt.Errorf("%s: shader source is empty", label)
	}
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		compositor.Logger().Debug("naga compile failed, passing WGSL to backend",
			"shader", label, "err", err)
		return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  label,
			Source: hal.ShaderSource{WGSL: source},
		})
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirvCode},
	})
}

// blitPipeline returns the full-screen copy pipeline for a color format.
// No blending: every destination pixel is replaced.
func (pc *pipelineCache) blitPipeline(device hal.Device, format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	if p, ok := pc.blit[format]; ok {
		return p, nil
	}
	p, err := pc.makeTexturedPipeline(device, "ui_blit_pipeline", format, nil)
	if err != nil {
		return nil, err
	}
	pc.blit[format] = p
	return p, nil
}

// blendPipeline returns the premultiplied source-over composite pipeline for
// a color format.
func (pc *pipelineCache) blendPipeline(device hal.Device, format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	if p, ok := pc.blend[format]; ok {
		return p, nil
	}
	premulBlend := gputypes.BlendStatePremultiplied()
	p, err := pc.makeTexturedPipeline(device, "ui_blend_pipeline", format, &premulBlend)
	if err != nil {
		return nil, err
	}
	pc.blend[format] = p
	return p, nil
}

// rectPipeline returns the solid rect fill pipeline for a color format. The
// hasDepth variant carries a pass-through depth-stencil state for passes
// with a depth attachment.
func (pc *pipelineCache) rectPipeline(device hal.Device, format gputypes.TextureFormat, hasDepth bool) (hal.RenderPipeline, error) {
	key := rectKey{format: format, hasDepth: hasDepth}
	if p, ok := pc.rect[key]; ok {
		return p, nil
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	desc := &hal.RenderPipelineDescriptor{
		Label:  "ui_rect_pipeline",
		Layout: pc.rectPipeLayout,
		Vertex: hal.VertexState{
			Module:     pc.rectShader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     pc.rectShader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if hasDepth {
		desc.DepthStencil = passThroughDepthStencil()
	}
	p, err := device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("create rect pipeline: %w", err)
	}
	pc.rect[key] = p
	return p, nil
}

func (pc *pipelineCache) makeTexturedPipeline(device hal.Device, label string, format gputypes.TextureFormat, blend *gputypes.BlendState) (hal.RenderPipeline, error) {
	p, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: pc.texPipeLayout,
		Vertex: hal.VertexState{
			Module:     pc.blendShader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     pc.blendShader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return p, nil
}

// passThroughDepthStencil returns a depth-stencil state that neither tests
// nor writes. UI draws rely on submission order, not the depth buffer, but a
// pass with a depth attachment requires a matching pipeline state.
func passThroughDepthStencil() *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            compositor.DepthStencilFormat,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0,
		StencilWriteMask:  0,
	}
}

// destroy releases every cached pipeline and shared resource. Safe to call
// on a partially constructed cache.
func (pc *pipelineCache) destroy(device hal.Device) {
	for _, p := range pc.rect {
		device.DestroyRenderPipeline(p)
	}
	for _, p := range pc.blend {
		device.DestroyRenderPipeline(p)
	}
	for _, p := range pc.blit {
		device.DestroyRenderPipeline(p)
	}
	pc.rect = nil
	pc.blend = nil
	pc.blit = nil
	if pc.sampler != nil {
		device.DestroySampler(pc.sampler)
		pc.sampler = nil
	}
	if pc.rectPipeLayout != nil {
		device.DestroyPipelineLayout(pc.rectPipeLayout)
		pc.rectPipeLayout = nil
	}
	if pc.texPipeLayout != nil {
		device.DestroyPipelineLayout(pc.texPipeLayout)
		pc.texPipeLayout = nil
	}
	if pc.rectLayout != nil {
		device.DestroyBindGroupLayout(pc.rectLayout)
		pc.rectLayout = nil
	}
	if pc.texLayout != nil {
		device.DestroyBindGroupLayout(pc.texLayout)
		pc.texLayout = nil
	}
	if pc.rectShader != nil {
		device.DestroyShaderModule(pc.rectShader)
		pc.rectShader = nil
	}
	if pc.blendShader != nil {
		device.DestroyShaderModule(pc.blendShader)
		pc.blendShader = nil
	}
}
