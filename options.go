package compositor

// Option configures a Compositor during creation.
//
// Example:
//
//	comp := compositor.New(dev,
//	    compositor.WithPipelineTag("hdrp"),
//	)
type Option func(*options)

// options holds optional configuration for Compositor creation.
type options struct {
	pipelineTag string
	blendMat    *Material
}

// WithPipelineTag restricts the compositor to frames tagged with the given
// host pipeline identifier. Frames carrying a different tag are skipped
// entirely: compositing under a foreign pipeline is "not applicable", not
// an error. An empty tag (the default) accepts every frame.
func WithPipelineTag(tag string) Option {
	return func(o *options) {
		o.pipelineTag = tag
	}
}

// WithBlendMaterial replaces the built-in shared blend material used by
// CompositeAutomatic. The material is constructed once and shared read-only
// by every UI camera; callers must not mutate it after passing it here.
func WithBlendMaterial(m *Material) Option {
	return func(o *options) {
		o.blendMat = m
	}
}
