package compositor

// CameraID is a stable opaque handle identifying a base camera across
// frames. UI cameras targeting a specific base camera store the ID, never a
// pointer, so a destroyed camera resolves to "no match" instead of dangling.
type CameraID uint64

// InvalidCamera is the zero CameraID. It never matches a registered camera.
const InvalidCamera CameraID = 0

// CameraKind classifies a base camera. Only game cameras participate in UI
// compositing; editor-style cameras are always excluded.
type CameraKind uint8

const (
	// CameraGame is a regular in-game camera.
	CameraGame CameraKind = iota

	// CameraSceneView is an editor scene-view camera.
	CameraSceneView

	// CameraPreview is an editor preview camera.
	CameraPreview

	// CameraReflection renders reflection probes.
	CameraReflection
)

// Camera describes a base camera for one frame of compositing. The host
// pipeline fills this in from its own camera representation; the compositor
// only reads it.
type Camera struct {
	// ID is the stable handle for this camera. Must be registered with the
	// compositor's Registry for Specific-mode matching to resolve.
	ID CameraID

	// Kind classifies the camera. Non-game cameras never receive UI.
	Kind CameraKind

	// Layer is the camera object's layer index (0..31), tested against
	// UI cameras in Layer target mode.
	Layer int

	// Width and Height are the camera's output dimensions in pixels.
	Width, Height uint32

	// IsMain marks the designated main camera.
	IsMain bool

	// HasCustomRender marks cameras that bypass the standard pipeline with
	// a fully custom render. Such cameras never receive UI compositing.
	HasCustomRender bool

	// Color is the camera's color target that UI output is composited onto.
	Color Texture

	// Depth is the camera's depth target, if any. When it carries a
	// depth-stencil format, direct UI rendering reuses it instead of
	// allocating a companion depth buffer.
	Depth Texture
}

// pixelSize returns the camera's output dimensions clamped to the minimum
// offscreen target size. Degenerate cameras (zero-area, mid-resize) still
// produce a valid 4x4 allocation.
func (c *Camera) pixelSize() (w, h uint32) {
	w, h = c.Width, c.Height
	if w < minTargetDim {
		w = minTargetDim
	}
	if h < minTargetDim {
		h = minTargetDim
	}
	return w, h
}
