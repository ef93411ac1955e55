package engine

import (
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/spheredesk/spheredesk/common"
	"github.com/spheredesk/spheredesk/engine/camera"
	"github.com/spheredesk/spheredesk/engine/capture"
	"github.com/spheredesk/spheredesk/engine/projection"
)

type stubSource struct {
	width  uint32
	height uint32
}

func (s *stubSource) Grab() capture.FrameData                          { return capture.FrameData{} }
func (s *stubSource) Dimensions() (uint32, uint32)                     { return s.width, s.height }
func (s *stubSource) Conn() *xgb.Conn                                  { return nil }
func (s *stubSource) Window() xproto.Window                            { return 0 }
func (s *stubSource) TranslateToRoot(x, y int16) (int16, int16, error) { return x, y, nil }
func (s *stubSource) Close()                                           {}

type pointerEvent struct {
	x, y  int
	press bool
}

type recordingInjector struct {
	moves  []pointerEvent
	clicks []pointerEvent
}

func (r *recordingInjector) MoveTo(x, y int) error {
	r.moves = append(r.moves, pointerEvent{x: x, y: y})
	return nil
}

func (r *recordingInjector) ClickAt(x, y int, press bool) error {
	r.clicks = append(r.clicks, pointerEvent{x: x, y: y, press: press})
	return nil
}

// The space bar clicks the middle of the captured window itself, independent
// of where the camera happens to be looking.
func TestCenterClickTargetsCaptureCenter(t *testing.T) {
	cam := camera.NewCamera()
	cam.AddYaw(45)
	cam.AddPitch(20)

	e := NewEngine(
		WithCamera(cam),
		WithSurface(projection.NewSurface()),
		WithCapture(&stubSource{width: 1000, height: 500}),
	).(*engine)
	inj := &recordingInjector{}
	e.injector = inj

	e.handleKeyPress(common.KeySpace)

	if len(inj.clicks) != 2 {
		t.Fatalf("expected press and release, got %d events", len(inj.clicks))
	}
	for i, c := range inj.clicks {
		if c.x != 500 || c.y != 250 {
			t.Fatalf("event %d at (%d, %d), want capture center (500, 250)", i, c.x, c.y)
		}
	}
	if !inj.clicks[0].press || inj.clicks[1].press {
		t.Fatalf("expected press then release, got %+v", inj.clicks)
	}
}

func TestCenterClickWithoutInjectorDoesNothing(t *testing.T) {
	e := NewEngine(WithCapture(&stubSource{width: 10, height: 10})).(*engine)
	// Must not panic when no injector is wired.
	e.handleKeyPress(common.KeySpace)
}
