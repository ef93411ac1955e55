// spheredesk - curved virtual monitor
// Projects a live X11 screen capture onto a curved surface (sphere,
// clamped sphere, cylinder, or a morph between cylinder and sphere) and
// maps pointer input on the surface back into the captured window.
//
// Controls:
//
//	Arrow keys  - Look around (yaw/pitch)
//	Q/E         - Narrow/widen field of view
//	W/S         - Increase/decrease sphericity (switches to morph mode)
//	P           - Cycle projection mode
//	Space       - Click the center of the captured window
//	Esc         - Quit
package main

import (
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spheredesk/spheredesk/common"
	"github.com/spheredesk/spheredesk/engine"
	"github.com/spheredesk/spheredesk/engine/camera"
	"github.com/spheredesk/spheredesk/engine/capture"
	"github.com/spheredesk/spheredesk/engine/input"
	"github.com/spheredesk/spheredesk/engine/projection"
	"github.com/spheredesk/spheredesk/engine/renderer"
	"github.com/spheredesk/spheredesk/engine/window"
)

var (
	modeName       string
	sphericity     float64
	clampAngleDeg  float64
	mouseEnabled   bool
	captureFPS     int
	captureDisplay string
	windowID       uint32
	windowName     string
	windowWidth    int
	windowHeight   int
	profile        bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spheredesk",
		Short: "Curved virtual monitor",
		Long: `spheredesk - curved virtual monitor

Projects a live X11 screen capture onto a curved surface and maps pointer
input on the surface back into the captured window.

Controls:
  Arrow keys  - Look around
  Q/E         - Narrow/widen field of view
  W/S         - Increase/decrease sphericity (switches to morph mode)
  P           - Cycle projection mode
  Space       - Click the center of the captured window
  Esc         - Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEnvFallbacks(cmd)
			return run()
		},
	}

	cmd.Flags().StringVar(&modeName, "mode", "sphere", "Projection mode: sphere, sphere_clamp, cylinder, morph")
	cmd.Flags().Float64Var(&sphericity, "sphericity", 1.0, "Morph factor in [0,1]: 0 = cylinder, 1 = sphere")
	cmd.Flags().Float64Var(&clampAngleDeg, "clamp-angle", 80, "Polar clamp angle in degrees for sphere_clamp mode")
	cmd.Flags().BoolVar(&mouseEnabled, "mouse", true, "Forward pointer events into the captured window")
	cmd.Flags().IntVar(&captureFPS, "capture-fps", 0, "Maximum captures per second (0 = capture every frame)")
	cmd.Flags().StringVar(&captureDisplay, "capture-display", "", "X display to capture from (default $DISPLAY)")
	cmd.Flags().Uint32Var(&windowID, "window-id", 0, "X window id to capture (0 = search by name or root)")
	cmd.Flags().StringVar(&windowName, "window-name", "", "Capture the first window whose title contains this")
	cmd.Flags().IntVar(&windowWidth, "width", 1280, "Viewer window width")
	cmd.Flags().IntVar(&windowHeight, "height", 720, "Viewer window height")
	cmd.Flags().BoolVar(&profile, "profile", false, "Log frame rate and memory statistics")
	return cmd
}

// applyEnvFallbacks fills in flags the user did not set from environment
// variables, so the viewer can be configured without arguments.
func applyEnvFallbacks(cmd *cobra.Command) {
	if !cmd.Flags().Changed("mode") {
		modeName = common.Coalesce(os.Getenv("PROJECTION_MODE"), modeName)
	}
	if !cmd.Flags().Changed("sphericity") {
		if v, ok := envFloat("SPHERICITY"); ok {
			sphericity = v
		}
	}
	if !cmd.Flags().Changed("clamp-angle") {
		if v, ok := envFloat("SPHERE_THETA_MAX_DEG"); ok {
			clampAngleDeg = v
		}
	}
	if !cmd.Flags().Changed("mouse") {
		if v, err := strconv.ParseBool(os.Getenv("SPHERE_MOUSE")); err == nil {
			mouseEnabled = v
		}
	}
	if !cmd.Flags().Changed("capture-fps") {
		if v, err := strconv.Atoi(os.Getenv("CAPTURE_FPS")); err == nil {
			captureFPS = v
		}
	}
	if !cmd.Flags().Changed("capture-display") {
		captureDisplay = common.Coalesce(os.Getenv("CAPTURE_DISPLAY"), captureDisplay)
	}
	if !cmd.Flags().Changed("window-id") {
		if v, err := strconv.ParseUint(os.Getenv("TARGET_WINDOW_ID"), 0, 32); err == nil {
			windowID = uint32(v)
		}
	}
	if !cmd.Flags().Changed("window-name") {
		windowName = common.Coalesce(os.Getenv("TARGET_WINDOW_NAME"), windowName)
	}
}

func envFloat(key string) (float64, bool) {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	return v, err == nil
}

func run() error {
	mode, ok := projection.ParseMode(modeName)
	if !ok {
		log.Printf("unknown projection mode %q, using sphere", modeName)
		mode = projection.ModeSphere
	}

	surface := projection.NewSurface(
		projection.WithMode(mode),
		projection.WithSphericity(float32(sphericity)),
		projection.WithClampAngle(float32(clampAngleDeg)),
	)
	cam := camera.NewCamera()

	win := window.NewWindow(
		window.WithTitle("spheredesk"),
		window.WithWidth(windowWidth),
		window.WithHeight(windowHeight),
	)

	rend, err := renderer.NewRenderer(
		renderer.WithSurfaceDescriptor(win.SurfaceDescriptor()),
		renderer.WithSize(win.Width(), win.Height()),
	)
	if err != nil {
		return err
	}

	src, err := capture.NewSource(
		capture.WithDisplay(captureDisplay),
		capture.WithWindowID(windowID),
		capture.WithNameFragment(windowName),
		capture.WithFrameRateCap(captureFPS),
	)
	if err != nil {
		return err
	}

	var injector *input.Injector
	if mouseEnabled {
		injector, err = input.NewInjector(src)
		if err != nil {
			log.Printf("pointer injection unavailable: %v", err)
		}
	}

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithCamera(cam),
		engine.WithSurface(surface),
		engine.WithRenderer(rend),
		engine.WithCapture(src),
		engine.WithInjector(injector),
		engine.WithPointerMapping(mouseEnabled && injector != nil),
		engine.WithProfiling(profile),
	)

	e.Run()
	return nil
}
