package compositor

import (
	"slices"
	"sync"
)

// Registry tracks the UI cameras participating in compositing and the base
// cameras known to the host. It is owned by a Compositor and replaces any
// implicit global registration: components join and leave through explicit
// Attach/Detach calls driven by the host's component lifecycle.
type Registry struct {
	mu sync.RWMutex

	uiCameras []*UICamera

	// baseCameras is the lookup table behind Specific target references.
	// A UI camera targeting an unregistered (destroyed) CameraID simply
	// never matches.
	baseCameras map[CameraID]struct{}
}

func newRegistry() *Registry {
	return &Registry{
		baseCameras: make(map[CameraID]struct{}),
	}
}

// Attach adds a UI camera to the active set. Attaching an already attached
// camera is a no-op. The camera's offscreen target is allocated lazily on
// its first non-direct render.
func (r *Registry) Attach(ui *UICamera) {
	if ui == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if ui.attached {
		return
	}
	ui.attached = true
	r.uiCameras = append(r.uiCameras, ui)
	Logger().Debug("UI camera attached", "camera", ui.Name)
}

// Detach removes a UI camera from the active set and deterministically
// releases its offscreen target. Detaching an unattached camera is a no-op.
func (r *Registry) Detach(ui *UICamera) {
	if ui == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !ui.attached {
		return
	}
	ui.attached = false
	releaseTarget(ui)
	if i := slices.Index(r.uiCameras, ui); i >= 0 {
		r.uiCameras = slices.Delete(r.uiCameras, i, i+1)
	}
	Logger().Debug("UI camera detached", "camera", ui.Name)
}

// RegisterCamera records a base camera handle. Hosts call this when a
// camera is created so Specific-mode UI cameras can resolve it.
func (r *Registry) RegisterCamera(id CameraID) {
	if id == InvalidCamera {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseCameras[id] = struct{}{}
}

// DropCamera forgets a base camera handle. UI cameras still targeting the
// ID resolve to "no match" from then on.
func (r *Registry) DropCamera(id CameraID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.baseCameras, id)
}

// cameraKnown reports whether a base camera handle is registered.
func (r *Registry) cameraKnown(id CameraID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.baseCameras[id]
	return ok
}

// snapshot returns a copy of the attached UI camera list for this frame's
// iteration. Copying keeps Attach/Detach during hooks from invalidating the
// frame's working set.
func (r *Registry) snapshot() []*UICamera {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.uiCameras)
}
