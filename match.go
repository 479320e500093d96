package compositor

// matches reports whether a UI camera composites onto the given base camera
// this frame. It is a pure predicate: no side effects, evaluated fresh each
// frame.
//
// Pre-filters apply before any target-mode rule: only game cameras receive
// UI, cameras performing their own fully custom render are excluded, and
// the UI camera itself must be active. After the pre-filters exactly one
// target-mode rule decides the match.
func matches(reg *Registry, ui *UICamera, base *Camera) bool {
	if base == nil || !ui.Active() {
		return false
	}
	if base.Kind != CameraGame || base.HasCustomRender {
		return false
	}

	switch ui.TargetMode {
	case TargetMain:
		return base.IsMain
	case TargetAll:
		return true
	case TargetLayer:
		if base.Layer < 0 || base.Layer > 31 {
			return false
		}
		return ui.TargetLayerMask&(1<<uint(base.Layer)) != 0
	case TargetSpecific:
		return ui.TargetCamera != InvalidCamera &&
			ui.TargetCamera == base.ID &&
			reg.cameraKnown(ui.TargetCamera)
	default:
		return false
	}
}
