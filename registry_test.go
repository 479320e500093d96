package compositor

import "testing"

func TestRegistryAttachDetach(t *testing.T) {
	reg := newRegistry()
	ui := NewUICamera()

	reg.Attach(ui)
	if !ui.Active() {
		t.Fatal("attached enabled camera is not active")
	}
	reg.Attach(ui) // no-op
	if n := len(reg.snapshot()); n != 1 {
		t.Fatalf("double attach produced %d entries", n)
	}

	reg.Detach(ui)
	if ui.Active() {
		t.Fatal("detached camera still active")
	}
	if n := len(reg.snapshot()); n != 0 {
		t.Fatalf("detach left %d entries", n)
	}
	reg.Detach(ui) // no-op
	reg.Attach(nil)
	reg.Detach(nil)
}

func TestDetachReleasesTarget(t *testing.T) {
	dev := &fakeDevice{}
	reg := newRegistry()
	ui := attachedUICamera(reg, "hud")

	if _, err := ensureTarget(dev, ui, baseCamera(1, 64, 64)); err != nil {
		t.Fatalf("ensureTarget: %v", err)
	}
	if dev.liveTextures() == 0 {
		t.Fatal("expected live target allocation")
	}

	reg.Detach(ui)
	if dev.liveTextures() != 0 {
		t.Errorf("detach left %d live textures", dev.liveTextures())
	}
	if ui.target != nil {
		t.Error("detach kept the target reference")
	}
}

func TestRegistryBaseCameras(t *testing.T) {
	reg := newRegistry()

	reg.RegisterCamera(5)
	if !reg.cameraKnown(5) {
		t.Error("registered camera unknown")
	}
	reg.RegisterCamera(InvalidCamera)
	if reg.cameraKnown(InvalidCamera) {
		t.Error("invalid camera id was registered")
	}

	reg.DropCamera(5)
	if reg.cameraKnown(5) {
		t.Error("dropped camera still known")
	}
}

func TestDisabledCameraKeepsTarget(t *testing.T) {
	dev := &fakeDevice{}
	reg := newRegistry()
	ui := attachedUICamera(reg, "hud")

	if _, err := ensureTarget(dev, ui, baseCamera(1, 64, 64)); err != nil {
		t.Fatalf("ensureTarget: %v", err)
	}

	// Disabling stops participation but keeps the allocation for re-enable.
	ui.Enabled = false
	if ui.Active() {
		t.Fatal("disabled camera reports active")
	}
	if ui.target == nil || dev.liveTextures() == 0 {
		t.Error("disabling released the offscreen target")
	}
}
