package compositor

// PassTag identifies which stage of the UI render pass a material pass
// participates in. Draws are grouped by tag in a fixed order, so a material
// exposing several tagged passes is drawn once per matching tag.
type PassTag uint8

const (
	// PassTransparentBackface draws back faces of transparent geometry
	// first so front faces blend over them.
	PassTransparentBackface PassTag = iota

	// PassForwardOnly marks passes restricted to forward rendering.
	PassForwardOnly

	// PassForward is the standard forward lit pass.
	PassForward

	// PassUnlit is the default unlit pass used by plain UI shaders.
	PassUnlit
)

// passTagOrder is the fixed submission order of tagged passes within one
// UI render pass.
var passTagOrder = [...]PassTag{
	PassTransparentBackface,
	PassForwardOnly,
	PassForward,
	PassUnlit,
}

// MaterialPass is one pass of a material's shader.
type MaterialPass struct {
	// Name is the pass name as authored in the shader.
	Name string

	// Tag classifies the pass for draw ordering. Untagged shaders should
	// use PassUnlit.
	Tag PassTag
}

// Material pairs a shader reference with its ordered pass list.
//
// The compositor never inspects shader contents; Shader is an opaque value
// the device backend resolves (a pipeline key for backend/wgpu, a blend rule
// for backend/software).
type Material struct {
	// Name is a debug label.
	Name string

	// Shader is the backend-resolved shader reference.
	Shader any

	// Passes is the ordered pass list. A material with no passes is unusable
	// and draws referencing it are skipped.
	Passes []MaterialPass

	// Color is the solid tint applied by reference backends that do not
	// execute shaders. RGBA, premultiplied, in [0,1].
	Color [4]float64
}

// PassCount returns the number of passes the material exposes.
func (m *Material) PassCount() int {
	if m == nil {
		return 0
	}
	return len(m.Passes)
}

// ClampPass clamps idx to the material's valid pass range. A material with
// a single pass always resolves to pass 0, regardless of a stale index
// stored for a previous material with more passes. Returns -1 when the
// material has no usable passes.
func (m *Material) ClampPass(idx int) int {
	n := m.PassCount()
	if n == 0 {
		return -1
	}
	if idx < 0 || idx >= n {
		return 0
	}
	return idx
}

// HasTag reports whether any pass of the material carries the given tag,
// and returns the index of the first such pass.
func (m *Material) HasTag(tag PassTag) (int, bool) {
	if m == nil {
		return 0, false
	}
	for i, p := range m.Passes {
		if p.Tag == tag {
			return i, true
		}
	}
	return 0, false
}
