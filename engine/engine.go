// Package engine coordinates the capture, projection, rendering, and input
// pieces into a running application: a fixed-rate tick loop for input and
// camera updates, and a render loop that uploads captured frames and draws
// the projected surface.
package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spheredesk/spheredesk/common"
	"github.com/spheredesk/spheredesk/engine/camera"
	"github.com/spheredesk/spheredesk/engine/capture"
	"github.com/spheredesk/spheredesk/engine/input"
	"github.com/spheredesk/spheredesk/engine/mesh"
	"github.com/spheredesk/spheredesk/engine/profiler"
	"github.com/spheredesk/spheredesk/engine/projection"
	"github.com/spheredesk/spheredesk/engine/renderer"
	"github.com/spheredesk/spheredesk/engine/window"
)

const (
	// arrowStepDeg is the camera rotation applied per tick while an arrow
	// key is held.
	arrowStepDeg = 3.0

	fovStepDeg     = 5.0
	sphericityStep = 0.1
)

// pointerInjector is the part of the XTEST injector the engine drives.
type pointerInjector interface {
	MoveTo(x, y int) error
	ClickAt(x, y int, press bool) error
}

var _ pointerInjector = (*input.Injector)(nil)

// engine implements the Engine interface.
// Coordinates the tick, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	camera   camera.Camera
	surface  *projection.Surface
	renderer renderer.Renderer
	capture  capture.Source
	injector pointerInjector
	mapper   *input.Mapper

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate   time.Duration
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	rings   int
	sectors int

	pointerMapping bool

	// Input state shared between the window thread and the tick loop.
	inputMu  sync.Mutex
	held     map[uint32]bool
	cursorX  float64
	cursorY  float64
	leftDown bool

	meshDirty atomic.Bool
}

// Engine is the main entry point for the application.
// It orchestrates the tick loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the tick rate in ticks per second.
	// The tick loop handles held-key camera movement at this rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames
	// per second. Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main loop (blocks until the window closes).
	Run()

	// Quit signals all goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options and wires
// the window input callbacks to the camera, surface, and pointer injector.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
		rings:           mesh.DefaultRings,
		sectors:         mesh.DefaultSectors,
		held:            make(map[uint32]bool),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.camera != nil && e.surface != nil {
		e.mapper = input.NewMapper(e.camera, e.surface)
	}
	e.meshDirty.Store(true)

	if e.window != nil {
		e.wireWindowCallbacks()
	}

	return e
}

func (e *engine) wireWindowCallbacks() {
	e.window.SetResizeCallback(func(width, height int) {
		if e.renderer != nil {
			e.renderer.Resize(width, height)
		}
	})

	e.window.SetKeyDownCallback(func(keyCode uint32) {
		e.inputMu.Lock()
		e.held[keyCode] = true
		e.inputMu.Unlock()
		e.handleKeyPress(keyCode)
	})
	e.window.SetKeyUpCallback(func(keyCode uint32) {
		e.inputMu.Lock()
		delete(e.held, keyCode)
		e.inputMu.Unlock()
	})

	e.window.SetMouseMoveCallback(func(x, y float64) {
		e.inputMu.Lock()
		e.cursorX, e.cursorY = x, y
		dragging := e.leftDown
		e.inputMu.Unlock()

		if dragging {
			e.injectPointer(x, y, nil)
		}
	})
	e.window.SetLeftMouseDownCallback(func(x, y float64) {
		e.inputMu.Lock()
		e.cursorX, e.cursorY = x, y
		e.leftDown = true
		e.inputMu.Unlock()

		press := true
		e.injectPointer(x, y, &press)
	})
	e.window.SetLeftMouseUpCallback(func(x, y float64) {
		e.inputMu.Lock()
		e.cursorX, e.cursorY = x, y
		e.leftDown = false
		e.inputMu.Unlock()

		press := false
		e.injectPointer(x, y, &press)
	})
}

// handleKeyPress services edge-triggered keys. Held-key movement is handled
// by the tick loop instead.
func (e *engine) handleKeyPress(keyCode uint32) {
	switch keyCode {
	case common.KeyQ:
		if e.camera != nil {
			fov := e.camera.AddFov(-fovStepDeg)
			log.Printf("engine: fov %.0f°", fov)
		}
	case common.KeyE:
		if e.camera != nil {
			fov := e.camera.AddFov(fovStepDeg)
			log.Printf("engine: fov %.0f°", fov)
		}
	case common.KeyW:
		e.adjustSphericity(sphericityStep)
	case common.KeyS:
		e.adjustSphericity(-sphericityStep)
	case common.KeyP:
		if e.surface != nil {
			mode := e.surface.CycleMode()
			switch mode {
			case projection.ModeSphereClamp:
				log.Printf("engine: projection mode %s (clamp ±%.1f°)", mode, e.surface.ClampAngleDeg())
			case projection.ModeMorph:
				log.Printf("engine: projection mode %s (sphericity %.1f)", mode, e.surface.Sphericity())
			default:
				log.Printf("engine: projection mode %s", mode)
			}
			e.meshDirty.Store(true)
		}
	case common.KeySpace:
		e.clickCenter()
	}
}

// adjustSphericity changes the morph factor, switching the surface into
// morph mode so the change is visible from any mode.
func (e *engine) adjustSphericity(delta float32) {
	if e.surface == nil {
		return
	}
	e.surface.SetMode(projection.ModeMorph)
	value := e.surface.AddSphericity(delta)
	log.Printf("engine: sphericity %.1f", value)
	e.meshDirty.Store(true)
}

// clickCenter injects a full left click at the center pixel of the captured
// window, regardless of where the camera points.
func (e *engine) clickCenter() {
	if e.injector == nil || e.capture == nil {
		return
	}
	width, height := e.capture.Dimensions()
	cx, cy := int(width/2), int(height/2)

	if err := e.injector.ClickAt(cx, cy, true); err != nil {
		log.Printf("engine: center click failed: %v", err)
		return
	}
	if err := e.injector.ClickAt(cx, cy, false); err != nil {
		log.Printf("engine: center click failed: %v", err)
	}
}

// injectPointer maps a cursor position (logical window coordinates) through
// the surface and forwards it to the injector. button nil means move only.
func (e *engine) injectPointer(x, y float64, button *bool) {
	if !e.pointerMapping || e.mapper == nil || e.injector == nil || e.capture == nil {
		return
	}

	sx, sy := e.window.ContentScale()
	imgW, imgH := e.capture.Dimensions()
	px, py, ok := e.mapper.MapCursor(x*sx, y*sy, e.window.Width(), e.window.Height(), imgW, imgH)
	if !ok {
		return
	}
	e.profiler.RecordPick()

	var err error
	if button == nil {
		err = e.injector.MoveTo(px, py)
	} else {
		err = e.injector.ClickAt(px, py, *button)
	}
	if err != nil {
		log.Printf("engine: pointer injection failed: %v", err)
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.running = true
	e.wg.Add(3)
	go e.handleTick()
	go e.handleRender()
	go e.handleQuit()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
	// GLFW teardown has to happen on the thread running the message loop.
	_ = e.window.Close()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handleTick runs the fixed-rate input tick loop in its own goroutine.
// Applies held-key camera movement and listens for dynamic rate changes via
// tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			e.applyHeldKeys()
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// applyHeldKeys rotates the camera for arrow keys held this tick.
func (e *engine) applyHeldKeys() {
	if e.camera == nil {
		return
	}

	e.inputMu.Lock()
	left := e.held[common.KeyLeft]
	right := e.held[common.KeyRight]
	up := e.held[common.KeyUp]
	down := e.held[common.KeyDown]
	e.inputMu.Unlock()

	if left {
		e.camera.AddYaw(arrowStepDeg)
	}
	if right {
		e.camera.AddYaw(-arrowStepDeg)
	}
	if up {
		e.camera.AddPitch(arrowStepDeg)
	}
	if down {
		e.camera.AddPitch(-arrowStepDeg)
	}
}

// handleRender runs the render loop in its own goroutine: regenerate the
// mesh when the surface shape changed, upload the latest captured frame, and
// draw. Recovers from panics to avoid crashing the process and signals quit
// on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			frameStart := time.Now()

			if e.renderer != nil {
				if e.meshDirty.Swap(false) && e.surface != nil {
					vertices, indices := mesh.Generate(e.surface, e.rings, e.sectors)
					e.renderer.SetMesh(vertices, indices)
				}

				if e.capture != nil {
					frame := e.capture.Grab()
					if err := e.renderer.UpdateTexture(common.TextureStagingData{
						Pixels: frame.Pixels,
						Width:  frame.Width,
						Height: frame.Height,
					}); err != nil {
						log.Printf("engine: texture update failed: %v", err)
					} else {
						e.profiler.RecordUpload(len(frame.Pixels))
					}
				}

				if e.camera != nil {
					viewProj := e.camera.ViewProjection(e.window.Width(), e.window.Height())
					if err := e.renderer.RenderFrame(viewProj); err != nil {
						log.Printf("engine: frame render failed: %v", err)
					}
				}
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then releases the
// renderer and capture source.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel

	if e.renderer != nil {
		e.renderer.Release()
	}
	if e.capture != nil {
		e.capture.Close()
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
