package engine

import (
	"time"

	"github.com/spheredesk/spheredesk/engine/camera"
	"github.com/spheredesk/spheredesk/engine/capture"
	"github.com/spheredesk/spheredesk/engine/input"
	"github.com/spheredesk/spheredesk/engine/projection"
	"github.com/spheredesk/spheredesk/engine/renderer"
	"github.com/spheredesk/spheredesk/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the input tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithWindow sets a pre-configured window for the engine to use.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithCamera sets the camera the render loop and pointer mapping use.
//
// Parameters:
//   - c: the camera instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithSurface sets the projection surface to render and pick against.
//
// Parameters:
//   - s: the projection surface
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurface(s *projection.Surface) EngineBuilderOption {
	return func(e *engine) {
		e.surface = s
	}
}

// WithRenderer sets the renderer the render loop drives.
//
// Parameters:
//   - r: the renderer instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCapture sets the frame source sampled each render frame.
//
// Parameters:
//   - src: the capture source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCapture(src capture.Source) EngineBuilderOption {
	return func(e *engine) {
		e.capture = src
	}
}

// WithInjector sets the pointer injector used when pointer mapping is on.
//
// Parameters:
//   - inj: the pointer injector
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithInjector(inj *input.Injector) EngineBuilderOption {
	return func(e *engine) {
		if inj != nil {
			e.injector = inj
		}
	}
}

// WithPointerMapping enables forwarding surface cursor hits into the
// captured window as synthetic pointer events.
//
// Parameters:
//   - enabled: if true, pointer events are mapped and injected
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPointerMapping(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.pointerMapping = enabled
	}
}

// WithMeshResolution overrides the surface tessellation density.
// Values <= 0 keep the defaults.
//
// Parameters:
//   - rings: vertical subdivisions
//   - sectors: horizontal subdivisions
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMeshResolution(rings, sectors int) EngineBuilderOption {
	return func(e *engine) {
		if rings > 0 {
			e.rings = rings
		}
		if sectors > 0 {
			e.sectors = sectors
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
