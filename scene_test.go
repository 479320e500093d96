package compositor

import "testing"

func TestSortRenderers(t *testing.T) {
	tests := []struct {
		name  string
		items []*Renderer
		want  []string
	}{
		{
			name: "distance back to front",
			items: []*Renderer{
				{Name: "near", Distance: 1},
				{Name: "far", Distance: 10},
				{Name: "mid", Distance: 5},
			},
			want: []string{"far", "mid", "near"},
		},
		{
			name: "canvas order breaks distance ties",
			items: []*Renderer{
				{Name: "top", Distance: 5, CanvasOrder: 2},
				{Name: "bottom", Distance: 5, CanvasOrder: 0},
				{Name: "middle", Distance: 5, CanvasOrder: 1},
			},
			want: []string{"bottom", "middle", "top"},
		},
		{
			name: "priority breaks remaining ties",
			items: []*Renderer{
				{Name: "b", Distance: 5, CanvasOrder: 1, Priority: 3},
				{Name: "a", Distance: 5, CanvasOrder: 1, Priority: -1},
			},
			want: []string{"a", "b"},
		},
		{
			name: "fully tied keeps submission order",
			items: []*Renderer{
				{Name: "first", Distance: 2},
				{Name: "second", Distance: 2},
				{Name: "third", Distance: 2},
			},
			want: []string{"first", "second", "third"},
		},
		{
			name: "criteria apply in order",
			items: []*Renderer{
				{Name: "c", Distance: 1, CanvasOrder: 0, Priority: 0},
				{Name: "a", Distance: 9, CanvasOrder: 5, Priority: 9},
				{Name: "b", Distance: 1, CanvasOrder: -1, Priority: 9},
			},
			// Distance dominates canvas order, canvas order dominates priority.
			want: []string{"a", "b", "c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sortRenderers(tt.items)
			for i, want := range tt.want {
				if tt.items[i].Name != want {
					t.Errorf("position %d = %q, want %q", i, tt.items[i].Name, want)
				}
			}
		})
	}
}

func TestCull(t *testing.T) {
	view := Rect{X: 0, Y: 0, W: 100, H: 100}
	inside := Rect{X: 10, Y: 10, W: 20, H: 20}
	outside := Rect{X: 200, Y: 200, W: 20, H: 20}

	src := SliceSource{
		{Name: "visible", Layer: 0, Bounds: inside},
		{Name: "masked_out", Layer: 5, Bounds: inside},
		{Name: "off_view", Layer: 0, Bounds: outside},
		{Name: "zero_area", Layer: 0, Bounds: Rect{X: 10, Y: 10}},
		{Name: "bad_layer", Layer: 40, Bounds: inside},
		nil,
	}

	got := cull(src, cullParams{view: view, mask: 1 << 0})
	if len(got) != 1 || got[0].Name != "visible" {
		names := make([]string, len(got))
		for i, r := range got {
			names[i] = r.Name
		}
		t.Fatalf("cull kept %v, want [visible]", names)
	}

	if got := cull(nil, cullParams{view: view, mask: ^uint32(0)}); got != nil {
		t.Errorf("cull(nil source) = %v, want nil", got)
	}
}

func TestRectOverlaps(t *testing.T) {
	base := Rect{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"contained", Rect{X: 2, Y: 2, W: 2, H: 2}, true},
		{"partial", Rect{X: 8, Y: 8, W: 10, H: 10}, true},
		{"touching edge", Rect{X: 10, Y: 0, W: 5, H: 5}, false},
		{"disjoint", Rect{X: 20, Y: 20, W: 5, H: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}
