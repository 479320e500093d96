package compositor

import (
	"slices"
)

// Rect is an axis-aligned rectangle in world units, used for renderer bounds
// and camera view extents.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Overlaps reports whether two rectangles intersect.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Renderer is one drawable scene item submitted to a UI render pass.
// The host owns renderers; the compositor only culls, sorts, and draws them.
type Renderer struct {
	// Name is a debug label.
	Name string

	// Layer is the item's layer index (0..31), tested against the UI
	// camera's culling mask.
	Layer int

	// Bounds is the item's world-space extent, used for view culling.
	Bounds Rect

	// Material is the item's own material. Draws substitute the UI
	// camera's override material when one is configured.
	Material *Material

	// Distance is the item's distance from the camera. Transparent UI
	// sorts back to front, so larger distances draw first.
	Distance float64

	// CanvasOrder breaks distance ties: lower orders draw first.
	CanvasOrder int

	// Priority breaks remaining ties: lower priorities draw first.
	Priority int
}

// Source supplies the scene items a UI camera may draw. Hosts with their own
// scene graph implement Source; SliceSource adapts a plain slice.
type Source interface {
	// Items returns the candidate renderers for this frame. The compositor
	// does not retain the slice across frames.
	Items() []*Renderer
}

// SliceSource is a Source backed by a slice.
type SliceSource []*Renderer

// Items returns the slice.
func (s SliceSource) Items() []*Renderer { return s }

// cullParams holds the resolved culling inputs for one UI camera this frame.
type cullParams struct {
	view Rect
	mask uint32
}

// cull filters src down to the items visible to the camera: layer bit set in
// the culling mask and bounds overlapping the view rect.
func cull(src Source, p cullParams) []*Renderer {
	if src == nil {
		return nil
	}
	items := src.Items()
	out := make([]*Renderer, 0, len(items))
	for _, r := range items {
		if r == nil || r.Layer < 0 || r.Layer > 31 {
			continue
		}
		if p.mask&(1<<uint(r.Layer)) == 0 {
			continue
		}
		if r.Bounds.Empty() || !r.Bounds.Overlaps(p.view) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// sortRenderers orders culled items for transparent drawing: distance back
// to front, then canvas order, then renderer priority. Each criterion is
// applied only when the previous compares equal, and the sort is stable so
// fully tied items keep submission order.
func sortRenderers(items []*Renderer) {
	slices.SortStableFunc(items, func(a, b *Renderer) int {
		switch {
		case a.Distance > b.Distance:
			return -1
		case a.Distance < b.Distance:
			return 1
		}
		if a.CanvasOrder != b.CanvasOrder {
			if a.CanvasOrder < b.CanvasOrder {
				return -1
			}
			return 1
		}
		if a.Priority != b.Priority {
			if a.Priority < b.Priority {
				return -1
			}
			return 1
		}
		return 0
	})
}
