package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetLeftMouseDownCallback sets the callback for left mouse button press.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in window coordinates
	SetLeftMouseDownCallback(callback func(x, y float64))

	// SetLeftMouseUpCallback sets the callback for left mouse button release.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in window coordinates
	SetLeftMouseUpCallback(callback func(x, y float64))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in window coordinates
	SetMouseMoveCallback(callback func(x, y float64))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in physical pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in physical pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// ContentScale returns the window-to-framebuffer scale factors. Cursor
	// positions arrive in logical window coordinates; multiply by these to
	// obtain physical pixel coordinates on high-DPI displays.
	//
	// Returns:
	//   - sx, sy: horizontal and vertical scale factors (1.0 when not scaled)
	ContentScale() (sx, sy float64)
}

// renderWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type renderWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width and height are the current framebuffer dimensions in physical pixels.
	width  int
	height int

	// logicalWidth and logicalHeight are the window client area dimensions in
	// logical (screen) coordinates; differ from width/height on high-DPI.
	logicalWidth  int
	logicalHeight int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the framebuffer is resized.
	onResize func(width, height int)

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)

	// onKeyUp is called when a key is released.
	onKeyUp func(keyCode uint32)

	// onLeftMouseDown is called when the left mouse button is pressed.
	onLeftMouseDown func(x, y float64)

	// onLeftMouseUp is called when the left mouse button is released.
	onLeftMouseUp func(x, y float64)

	// onMouseMove is called when the cursor moves within the window.
	onMouseMove func(x, y float64)
}

var _ Window = &renderWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowOption) Window {
	w := &renderWindow{
		title:  "Spheredesk",
		width:  1280,
		height: 720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *renderWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *renderWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *renderWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *renderWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *renderWindow) SetLeftMouseDownCallback(callback func(x, y float64)) {
	w.onLeftMouseDown = callback
}

func (w *renderWindow) SetLeftMouseUpCallback(callback func(x, y float64)) {
	w.onLeftMouseUp = callback
}

func (w *renderWindow) SetMouseMoveCallback(callback func(x, y float64)) {
	w.onMouseMove = callback
}

func (w *renderWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *renderWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *renderWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *renderWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *renderWindow) Width() int {
	return w.width
}

func (w *renderWindow) Height() int {
	return w.height
}

func (w *renderWindow) ContentScale() (float64, float64) {
	if w.logicalWidth <= 0 || w.logicalHeight <= 0 {
		return 1.0, 1.0
	}
	return float64(w.width) / float64(w.logicalWidth),
		float64(w.height) / float64(w.logicalHeight)
}
