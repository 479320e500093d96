package compositor

import "testing"

func TestClampPass(t *testing.T) {
	twoPass := &Material{Passes: []MaterialPass{
		{Name: "A", Tag: PassForward},
		{Name: "B", Tag: PassUnlit},
	}}
	onePass := &Material{Passes: []MaterialPass{{Name: "Only", Tag: PassUnlit}}}
	noPass := &Material{}

	tests := []struct {
		name string
		mat  *Material
		idx  int
		want int
	}{
		{"valid index", twoPass, 1, 1},
		{"first pass", twoPass, 0, 0},
		{"negative clamps to zero", twoPass, -3, 0},
		{"out of range clamps to zero", twoPass, 7, 0},
		{"single pass always zero", onePass, 5, 0},
		{"no passes unusable", noPass, 0, -1},
		{"nil material unusable", nil, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mat.ClampPass(tt.idx); got != tt.want {
				t.Errorf("ClampPass(%d) = %d, want %d", tt.idx, got, tt.want)
			}
		})
	}
}

func TestHasTag(t *testing.T) {
	mat := &Material{Passes: []MaterialPass{
		{Name: "Back", Tag: PassTransparentBackface},
		{Name: "Fwd", Tag: PassForward},
		{Name: "Fwd2", Tag: PassForward},
	}}

	if idx, ok := mat.HasTag(PassForward); !ok || idx != 1 {
		t.Errorf("HasTag(PassForward) = (%d, %v), want (1, true)", idx, ok)
	}
	if _, ok := mat.HasTag(PassUnlit); ok {
		t.Error("HasTag(PassUnlit) matched a material without unlit passes")
	}
	if _, ok := (*Material)(nil).HasTag(PassUnlit); ok {
		t.Error("HasTag on nil material reported a match")
	}
}
