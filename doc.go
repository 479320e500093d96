// Package compositor renders secondary "UI cameras" into offscreen GPU
// targets and composites those targets onto a base camera's output.
//
// The host render loop drives the compositor with one call per base camera
// per frame, after the base camera's own render:
//
//	comp := compositor.New(dev)
//	ui := compositor.NewUICamera()
//	ui.TargetMode = compositor.TargetMain
//	comp.Registry().Attach(ui)
//
//	// per frame, per base camera:
//	comp.Composite(&compositor.Frame{
//	    Camera:    base,
//	    BaseColor: baseColorTex,
//	})
//
// Each attached UI camera decides which base cameras it contributes to
// (the main camera, all cameras, a layer mask, or one specific camera),
// renders its culled geometry into an offscreen color+depth target sized to
// the base camera, and blends the result using one of three strategies: the
// built-in full-screen blend shader, a user-supplied material and pass, or
// no blend at all (compositing left to the caller).
//
// Rendering is executed by a Device implementation. The backend/wgpu
// package provides a GPU device over gogpu/wgpu; backend/software provides
// a CPU reference device useful for headless operation and tests.
package compositor
