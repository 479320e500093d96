// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu provides the GPU compositor Device over gogpu/wgpu's HAL.
// Offscreen targets are HAL textures, base-color seeding and the built-in
// blend are full-screen textured draws, and renderer draws are solid rect
// fills. All work recorded through one frame encoder is submitted in a
// single queue submission guarded by a fence.
package wgpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/backend"
)

func init() {
	backend.Register(backend.BackendWGPU, func() compositor.Device {
		dev, err := New()
		if err != nil {
			compositor.Logger().Debug("wgpu device unavailable", "err", err)
			return nil
		}
		return dev
	})
}

// Device errors.
var (
	// ErrNoAdapter is returned when no GPU adapter can be opened.
	ErrNoAdapter = errors.New("wgpu: no GPU adapter available")

	// ErrEncoderConsumed is returned when an encoder is submitted twice or
	// used after submission.
	ErrEncoderConsumed = errors.New("wgpu: encoder already submitted")

	// ErrPassInProgress is returned when a new pass begins before the
	// previous one ended.
	ErrPassInProgress = errors.New("wgpu: render pass already in progress")

	// ErrForeignTexture is returned when a texture from another device
	// implementation is passed in.
	ErrForeignTexture = errors.New("wgpu: texture from foreign device")
)

// submitTimeout bounds the fence wait after each queue submission.
const submitTimeout = 5 * time.Second

// DeviceProvider is the gpucontext device provider hosts hand over to share
// their GPU device with the compositor instead of opening a second one.
type DeviceProvider = gpucontext.DeviceProvider

// halProvider is the optional provider extension exposing the underlying
// HAL device and queue. The returned values must be a hal.Device and
// hal.Queue.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Device is the GPU compositor device.
type Device struct {
	instance hal.Instance // nil when the device is shared with a host
	device   hal.Device
	queue    hal.Queue

	pipelines *pipelineCache
}

// New opens the first usable GPU adapter and creates a device on it.
func New() (*Device, error) {
	be, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := be.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	d := &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
	}
	if err := d.initPipelines(); err != nil {
		d.device.Destroy()
		return nil, err
	}
	compositor.Logger().Info("wgpu compositor device initialized", "adapter", selected.Info.Name)
	return d, nil
}

// NewFromProvider creates a device sharing the host renderer's HAL device
// and queue. The provider must expose HAL access via HalDevice/HalQueue.
// The host keeps ownership; Destroy only releases the compositor's own
// pipelines.
func NewFromProvider(p DeviceProvider) (*Device, error) {
	hp, ok := p.(halProvider)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider does not expose HAL access")
	}
	halDev, ok := hp.HalDevice().(hal.Device)
	if !ok || halDev == nil {
		return nil, fmt.Errorf("wgpu: provider did not supply a hal.Device")
	}
	halQueue, ok := hp.HalQueue().(hal.Queue)
	if !ok || halQueue == nil {
		return nil, fmt.Errorf("wgpu: provider did not supply a hal.Queue")
	}
	d := &Device{device: halDev, queue: halQueue}
	if err := d.initPipelines(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) initPipelines() error {
	pc, err := newPipelineCache(d.device)
	if err != nil {
		return fmt.Errorf("wgpu: create pipelines: %w", err)
	}
	d.pipelines = pc
	return nil
}

// Name returns "wgpu".
func (d *Device) Name() string { return backend.BackendWGPU }

// Destroy releases the device's pipelines and, when the device owns the
// underlying HAL device, the HAL device itself.
func (d *Device) Destroy() {
	if d.pipelines != nil {
		d.pipelines.destroy(d.device)
		d.pipelines = nil
	}
	if d.instance != nil && d.device != nil {
		d.device.Destroy()
		d.device = nil
		d.queue = nil
	}
}

// CreateTexture allocates a HAL texture plus a full view of it.
func (d *Device) CreateTexture(desc compositor.TextureDescriptor) (compositor.Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, compositor.ErrInvalidDimensions
	}
	layers := desc.Layers
	if layers == 0 {
		layers = 1
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: layers,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         halTextureUsage(desc.Usage, desc.Format),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: desc.Label + "_view",
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view %q: %w", desc.Label, err)
	}
	return &Texture{
		dev:    d,
		tex:    tex,
		view:   view,
		width:  desc.Width,
		height: desc.Height,
		layers: layers,
		format: desc.Format,
		label:  desc.Label,
	}, nil
}

// NewFrameEncoder begins a HAL command encoder for one base camera's work.
func (d *Device) NewFrameEncoder(label string) (compositor.FrameEncoder, error) {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	return &frameEncoder{dev: d, encoder: encoder, label: label}, nil
}

// Submit ends encoding and submits the command buffer in a single queue
// submission, waiting on a fence before releasing per-frame resources.
func (d *Device) Submit(enc compositor.FrameEncoder) error {
	fe, ok := enc.(*frameEncoder)
	if !ok {
		return fmt.Errorf("wgpu: foreign frame encoder %T", enc)
	}
	if fe.consumed {
		return ErrEncoderConsumed
	}
	fe.consumed = true
	defer fe.releaseFrameResources()

	cmdBuf, err := fe.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, submitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// halTextureUsage maps device-neutral usage flags onto gputypes usage bits.
// Depth-stencil formats always carry the render attachment bit.
func halTextureUsage(usage compositor.TextureUsage, format gputypes.TextureFormat) gputypes.TextureUsage {
	var u gputypes.TextureUsage
	if usage&compositor.TextureUsageCopySrc != 0 {
		u |= gputypes.TextureUsageCopySrc
	}
	if usage&compositor.TextureUsageCopyDst != 0 {
		u |= gputypes.TextureUsageCopyDst
	}
	if usage&compositor.TextureUsageTextureBinding != 0 {
		u |= gputypes.TextureUsageTextureBinding
	}
	if usage&compositor.TextureUsageRenderAttachment != 0 {
		u |= gputypes.TextureUsageRenderAttachment
	}
	if format == compositor.DepthStencilFormat {
		u |= gputypes.TextureUsageRenderAttachment
	}
	return u
}

// Interface checks.
var _ compositor.Device = (*Device)(nil)
