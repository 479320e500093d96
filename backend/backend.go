// Package backend selects the Device implementation executing compositing
// work. Device factories register themselves by name, typically from init()
// in their own package, and the best available one is chosen by priority:
// wgpu first, software as the universal fallback.
package backend

import (
	"errors"

	"github.com/gogpu/compositor"
)

// Backend names.
const (
	// BackendWGPU is the GPU device over gogpu/wgpu.
	BackendWGPU = "wgpu"

	// BackendSoftware is the CPU reference device.
	BackendSoftware = "software"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when no requested backend is available.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// DeviceFactory creates a new device instance. Factories return nil when
// their backend cannot run in the current environment (e.g. no GPU).
type DeviceFactory func() compositor.Device
