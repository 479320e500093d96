package compositor

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestRenderUIClearPolicy(t *testing.T) {
	tests := []struct {
		name          string
		skipColorInit bool
		manual        bool
		skipDepth     bool
		baseColor     bool
		wantBlits     int
		wantColorLoad gputypes.LoadOp
		wantDepthLoad gputypes.LoadOp
		wantDirect    bool
	}{
		{
			name:          "seeded target keeps color, clears depth",
			baseColor:     true,
			wantBlits:     1,
			wantColorLoad: gputypes.LoadOpLoad,
			wantDepthLoad: gputypes.LoadOpClear,
		},
		{
			name:          "no seed source clears color",
			baseColor:     false,
			wantBlits:     0,
			wantColorLoad: gputypes.LoadOpClear,
			wantDepthLoad: gputypes.LoadOpClear,
		},
		{
			name:          "skip base color init clears unseeded target",
			manual:        true,
			skipColorInit: true,
			baseColor:     true,
			wantBlits:     0,
			wantColorLoad: gputypes.LoadOpClear,
			wantDepthLoad: gputypes.LoadOpClear,
		},
		{
			name:          "skip depth clear preserves depth",
			baseColor:     true,
			skipDepth:     true,
			wantBlits:     1,
			wantColorLoad: gputypes.LoadOpLoad,
			wantDepthLoad: gputypes.LoadOpLoad,
		},
		{
			name:          "direct rendering never clears live color",
			skipColorInit: true,
			baseColor:     true,
			wantBlits:     0,
			wantColorLoad: gputypes.LoadOpLoad,
			wantDepthLoad: gputypes.LoadOpClear,
			wantDirect:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &fakeDevice{}
			reg := newRegistry()
			ui := attachedUICamera(reg, "hud")
			ui.SkipBaseColorInit = tt.skipColorInit
			ui.SkipDepthClear = tt.skipDepth
			if tt.manual {
				ui.CompositeMode = CompositeManual
			}

			base := baseCamera(1, 64, 64)
			frame := &Frame{Camera: base}
			if tt.baseColor {
				frame.BaseColor = &fakeTexture{label: "pre_ui", width: 64, height: 64, layers: 1}
			}

			enc := &fakeFrameEncoder{dev: dev}
			target, err := renderUI(dev, enc, ui, frame, nil, nil)
			if err != nil {
				t.Fatalf("renderUI: %v", err)
			}
			if tt.wantDirect != (target == nil) {
				t.Fatalf("direct = %v, want %v", target == nil, tt.wantDirect)
			}
			if len(enc.blits) != tt.wantBlits {
				t.Errorf("blits = %d, want %d", len(enc.blits), tt.wantBlits)
			}
			if len(enc.passes) != 1 {
				t.Fatalf("passes = %d, want 1", len(enc.passes))
			}
			pass := enc.passes[0]
			if pass.desc.ColorLoad != tt.wantColorLoad {
				t.Errorf("color load = %v, want %v", pass.desc.ColorLoad, tt.wantColorLoad)
			}
			if pass.desc.DepthLoad != tt.wantDepthLoad {
				t.Errorf("depth load = %v, want %v", pass.desc.DepthLoad, tt.wantDepthLoad)
			}
			if !pass.ended {
				t.Error("pass was not ended")
			}
			if tt.wantDirect && pass.desc.Color != base.Color {
				t.Error("direct rendering did not target the base camera's color buffer")
			}
			if !tt.wantDirect && pass.desc.Color == base.Color {
				t.Error("offscreen rendering targeted the base camera's color buffer")
			}
		})
	}
}

func TestRenderUISeedsEveryLayer(t *testing.T) {
	dev := &fakeDevice{}
	reg := newRegistry()
	ui := attachedUICamera(reg, "hud")
	base := baseCamera(1, 64, 64)
	frame := &Frame{Camera: base, BaseColor: &fakeTexture{width: 64, height: 64, layers: 1}}

	enc := &fakeFrameEncoder{dev: dev}
	target, err := renderUI(dev, enc, ui, frame, nil, nil)
	if err != nil {
		t.Fatalf("renderUI: %v", err)
	}

	// Swap in a two-layer color target and re-render: one seed blit per slice.
	target.color = &fakeTexture{width: 64, height: 64, layers: 2}
	enc.blits = nil
	if _, err := renderUI(dev, enc, ui, frame, nil, nil); err != nil {
		t.Fatalf("renderUI with array target: %v", err)
	}
	if len(enc.blits) != 2 {
		t.Fatalf("blits = %d, want 2", len(enc.blits))
	}
	for i, b := range enc.blits {
		if b.layer != uint32(i) {
			t.Errorf("blit %d targeted layer %d", i, b.layer)
		}
	}
}

func TestRenderUICullingFailureSkips(t *testing.T) {
	dev := &fakeDevice{}
	reg := newRegistry()
	ui := attachedUICamera(reg, "hud")
	ui.View = Rect{} // no valid culling extent this frame

	enc := &fakeFrameEncoder{dev: dev}
	target, err := renderUI(dev, enc, ui, &Frame{Camera: baseCamera(1, 64, 64)}, nil, nil)
	if err != nil {
		t.Fatalf("culling failure must not be an error, got %v", err)
	}
	if target != nil || len(enc.passes) != 0 || len(dev.textures) != 0 {
		t.Error("culling failure still produced device work")
	}
}

func TestRenderUIHookOrder(t *testing.T) {
	dev := &fakeDevice{}
	reg := newRegistry()
	ui := attachedUICamera(reg, "hud")

	var order []string
	record := func(s string) func() { return func() { order = append(order, s) } }
	ui.BeforeRender = record("camera_before")
	ui.AfterRender = record("camera_after")

	enc := &fakeFrameEncoder{dev: dev}
	_, err := renderUI(dev, enc, ui, &Frame{Camera: baseCamera(1, 64, 64)},
		[]func(){record("global_before")}, []func(){record("global_after")})
	if err != nil {
		t.Fatalf("renderUI: %v", err)
	}

	want := []string{"global_before", "camera_before", "camera_after", "global_after"}
	if len(order) != len(want) {
		t.Fatalf("hook order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("hook order = %v, want %v", order, want)
		}
	}
}

func TestRenderUIDrawFailure(t *testing.T) {
	dev := &fakeDevice{failDraw: true}
	reg := newRegistry()
	ui := attachedUICamera(reg, "hud")

	enc := &fakeFrameEncoder{dev: dev}
	_, err := renderUI(dev, enc, ui, &Frame{Camera: baseCamera(1, 64, 64)}, nil, nil)
	if err == nil {
		t.Fatal("expected draw failure to propagate")
	}
	if len(enc.passes) != 1 || !enc.passes[0].ended {
		t.Error("failed pass was not ended")
	}
}

func TestResolveDraw(t *testing.T) {
	unlit := &Material{Name: "unlit", Passes: []MaterialPass{{Name: "U", Tag: PassUnlit}}}
	multi := &Material{Name: "multi", Passes: []MaterialPass{
		{Name: "U", Tag: PassUnlit},
		{Name: "F", Tag: PassForward},
	}}
	override := &Material{Name: "override", Passes: []MaterialPass{
		{Name: "A", Tag: PassUnlit},
		{Name: "B", Tag: PassUnlit},
	}}

	t.Run("renderer material at first tag in order", func(t *testing.T) {
		ui := NewUICamera()
		call, ok := resolveDraw(ui, &Renderer{Material: multi})
		if !ok {
			t.Fatal("expected a draw")
		}
		// PassForward precedes PassUnlit in tag order, so index 1 wins.
		if call.Material != multi || call.Pass != 1 {
			t.Errorf("call = (%s, %d), want (multi, 1)", call.Material.Name, call.Pass)
		}
	})

	t.Run("override material substitutes at clamped pass", func(t *testing.T) {
		ui := NewUICamera()
		ui.OverrideMaterial = override
		ui.OverridePass = 9
		call, ok := resolveDraw(ui, &Renderer{Material: unlit})
		if !ok {
			t.Fatal("expected a draw")
		}
		if call.Material != override || call.Pass != 0 {
			t.Errorf("call = (%s, %d), want (override, 0)", call.Material.Name, call.Pass)
		}
	})

	t.Run("no material no draw", func(t *testing.T) {
		if _, ok := resolveDraw(NewUICamera(), &Renderer{}); ok {
			t.Error("renderer without material produced a draw")
		}
	})

	t.Run("empty override material no draw", func(t *testing.T) {
		ui := NewUICamera()
		ui.OverrideMaterial = &Material{}
		if _, ok := resolveDraw(ui, &Renderer{Material: unlit}); ok {
			t.Error("empty override material produced a draw")
		}
	})
}
