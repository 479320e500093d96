package compositor

// Frame carries the per-base-camera state for one Composite call. The host
// pipeline constructs one after the base camera's main render and discards
// it afterwards; frames are never reused.
type Frame struct {
	// Camera is the base camera being composited onto.
	Camera *Camera

	// BaseColor is the base camera's pre-UI color contents, used to seed
	// non-direct UI targets so semi-transparent UI blends against the scene.
	// May be nil, in which case targets are cleared instead of seeded.
	BaseColor Texture

	// Pipeline tags the host render pipeline invoking the compositor. When
	// the compositor was built with WithPipelineTag and the tags differ,
	// the whole compositing step is skipped as not applicable.
	Pipeline string
}
