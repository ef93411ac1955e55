package input

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"
)

const leftButton = 1

// fake input event types, from the X protocol.
const (
	eventButtonPress   = 4
	eventButtonRelease = 5
	eventMotionNotify  = 6
)

// translator converts captured-window-local coordinates to root coordinates.
// The capture source implements this over its own X connection.
type translator interface {
	Conn() *xgb.Conn
	Window() xproto.Window
	TranslateToRoot(x, y int16) (int16, int16, error)
}

// Injector sends synthetic pointer events into the captured window using the
// XTEST extension. Events are addressed in root coordinates, so every call
// translates from window-local pixels first.
type Injector struct {
	conn *xgb.Conn
	root xproto.Window
	src  translator
}

// NewInjector initializes the XTEST extension on the capture source's
// connection.
//
// Parameters:
//   - src: the capture source the events target
//
// Returns:
//   - *Injector: the injector
//   - error: an error if the XTEST extension is unavailable
func NewInjector(src translator) (*Injector, error) {
	conn := src.Conn()
	if err := xtest.Init(conn); err != nil {
		return nil, fmt.Errorf("input: XTEST extension unavailable: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	return &Injector{conn: conn, root: root, src: src}, nil
}

// MoveTo warps the pointer to a pixel in the captured window.
//
// Parameters:
//   - x: window-local pixel x
//   - y: window-local pixel y
//
// Returns:
//   - error: an error if translation or injection fails
func (inj *Injector) MoveTo(x, y int) error {
	rootX, rootY, err := inj.src.TranslateToRoot(int16(x), int16(y))
	if err != nil {
		return err
	}
	// Detail 0 on MotionNotify means absolute coordinates.
	return xtest.FakeInputChecked(inj.conn, eventMotionNotify, 0, xproto.TimeCurrentTime,
		inj.root, rootX, rootY, 0).Check()
}

// ClickAt moves the pointer to a pixel in the captured window and presses or
// releases the left button there.
//
// Parameters:
//   - x: window-local pixel x
//   - y: window-local pixel y
//   - press: true for button press, false for release
//
// Returns:
//   - error: an error if translation or injection fails
func (inj *Injector) ClickAt(x, y int, press bool) error {
	if err := inj.MoveTo(x, y); err != nil {
		return err
	}
	eventType := byte(eventButtonRelease)
	if press {
		eventType = eventButtonPress
	}
	return xtest.FakeInputChecked(inj.conn, eventType, leftButton, xproto.TimeCurrentTime,
		inj.root, 0, 0, 0).Check()
}
