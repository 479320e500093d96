// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Common device errors.
var (
	// ErrDeviceClosed is returned when operating on a closed device.
	ErrDeviceClosed = errors.New("compositor: device closed")

	// ErrInvalidDimensions is returned for zero or negative texture sizes.
	ErrInvalidDimensions = errors.New("compositor: invalid texture dimensions")

	// ErrNilFrame is returned when Composite is called without a frame.
	ErrNilFrame = errors.New("compositor: nil frame")
)

// DepthStencilFormat is the depth-stencil format used for offscreen target
// companion buffers. The depth component backs the UI pass depth test; the
// stencil component is required by the format but unused.
const DepthStencilFormat = gputypes.TextureFormatDepth24PlusStencil8

// DefaultColorFormat is the color format for offscreen UI targets when a
// UICamera does not override it. 16-bit float channels preserve blending
// precision for semi-transparent UI over HDR base content.
const DefaultColorFormat = gputypes.TextureFormatRGBA16Float

// TextureUsage specifies how a texture can be used.
// These flags can be combined with bitwise OR.
type TextureUsage uint32

const (
	// TextureUsageCopySrc allows the texture to be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << iota

	// TextureUsageCopyDst allows the texture to be used as a copy destination.
	TextureUsageCopyDst

	// TextureUsageTextureBinding allows the texture to be sampled in a shader.
	TextureUsageTextureBinding

	// TextureUsageRenderAttachment allows the texture to be a render target.
	TextureUsageRenderAttachment
)

// TextureDescriptor describes parameters for creating a texture.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// Layers is the array layer count. Use 1 for regular 2D textures.
	Layers uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}

// Texture represents a device texture resource.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Layers returns the array layer count (1 for plain 2D textures).
	Layers() uint32

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat

	// Destroy releases the resources associated with this texture.
	// The texture must not be used after Destroy.
	Destroy()
}

// PassDescriptor describes one render pass of the UI compositing flow.
//
// Color and Depth name the attachments. Depth may be nil for passes that do
// not test depth (the full-screen blend pass). Load ops follow the WebGPU
// model: LoadOpClear discards previous contents and writes the clear value,
// LoadOpLoad preserves them.
type PassDescriptor struct {
	Label      string
	Color      Texture
	Depth      Texture
	ColorLoad  gputypes.LoadOp
	DepthLoad  gputypes.LoadOp
	ClearColor gputypes.Color
}

// DrawCall is one renderer submission inside a UI render pass.
type DrawCall struct {
	// Renderer is the culled scene item being drawn.
	Renderer *Renderer

	// Material is the material to draw with. This is the renderer's own
	// material unless the UI camera carries an override material.
	Material *Material

	// Pass is the clamped index into Material's pass list.
	Pass int
}

// BlendDraw is the full-screen composite draw that blends an offscreen UI
// target onto the base camera's color buffer.
type BlendDraw struct {
	// Source is the offscreen UI color target sampled by the blend.
	Source Texture

	// Material supplies the blend shader and pass. For the Automatic
	// strategy this is the compositor's shared blend material.
	Material *Material

	// Pass is the clamped index into Material's pass list.
	Pass int
}

// PassEncoder records draws for a single render pass.
// Encoders are not safe for concurrent use.
type PassEncoder interface {
	// Draw records one renderer draw call.
	Draw(call DrawCall) error

	// Blend records one full-screen composite draw.
	Blend(draw BlendDraw) error

	// End closes the pass. No further draws may be recorded.
	End()
}

// FrameEncoder records all compositing work for one base camera.
// The orchestrator creates one encoder per Composite call and submits it
// exactly once.
type FrameEncoder interface {
	// Blit copies one array slice of src into the same slice of dst.
	// Source and destination dimensions may differ; the device scales
	// or clips as appropriate for its implementation.
	Blit(src, dst Texture, layer uint32) error

	// BeginPass starts a render pass. The previous pass, if any, must have
	// been ended.
	BeginPass(desc PassDescriptor) (PassEncoder, error)
}

// Device abstracts the graphics backend executing compositing work.
//
// Implementations live in backend/wgpu (GPU via gogpu/wgpu) and
// backend/software (CPU reference). Devices are used from the single render
// callback and need no internal synchronization beyond their own resource
// bookkeeping.
type Device interface {
	// Name returns the backend identifier (e.g. "wgpu", "software").
	Name() string

	// CreateTexture allocates a texture per the descriptor.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// NewFrameEncoder begins recording one base camera's compositing work.
	NewFrameEncoder(label string) (FrameEncoder, error)

	// Submit executes a recorded frame encoder. Each encoder is submitted
	// at most once.
	Submit(enc FrameEncoder) error
}

// isDepthStencil reports whether a format carries both depth and stencil
// aspects and can back the UI pass depth attachment directly.
func isDepthStencil(f gputypes.TextureFormat) bool {
	return f == DepthStencilFormat
}
