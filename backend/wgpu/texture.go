// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compositor"
)

// Texture wraps a HAL texture and a full view of it.
type Texture struct {
	dev    *Device
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
	layers uint32
	format gputypes.TextureFormat
	label  string

	destroyed bool
}

// WrapTexture adopts an externally owned HAL texture and view, typically a
// base camera's color buffer owned by the host renderer. Destroy on a
// wrapped texture is a no-op; the host keeps ownership.
func WrapTexture(tex hal.Texture, view hal.TextureView, width, height uint32, format gputypes.TextureFormat) *Texture {
	return &Texture{
		tex:    tex,
		view:   view,
		width:  width,
		height: height,
		layers: 1,
		format: format,
	}
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 { return t.height }

// Layers returns the array layer count.
func (t *Texture) Layers() uint32 { return t.layers }

// Format returns the texture pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// View returns the HAL view spanning the whole texture.
func (t *Texture) View() hal.TextureView { return t.view }

// Destroy releases the HAL texture and view. Wrapped host textures are left
// alone. Safe to call more than once.
func (t *Texture) Destroy() {
	if t.destroyed || t.dev == nil {
		return
	}
	t.destroyed = true
	if t.view != nil {
		t.dev.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.dev.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

var _ compositor.Texture = (*Texture)(nil)
