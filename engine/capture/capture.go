// Package capture grabs frames from an X11 window (or the root desktop) and
// converts them to RGBA staging data for the renderer. When no frame can be
// grabbed it serves a checkerboard placeholder so the surface always has
// something to show.
package capture

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const (
	// errorLogInterval rate-limits repeated grab failure logs.
	errorLogInterval = 2 * time.Second

	// maxTreeDepth bounds the recursive window search.
	maxTreeDepth = 8

	wmNameReadLength = 1024
)

// Source produces frames from a single X11 window and exposes enough of the
// connection for pointer injection to target the same window.
type Source interface {
	// Grab returns the most recent frame, capturing a new one when the frame
	// rate cap allows. On capture failure it returns the last good frame, or
	// a checkerboard placeholder before the first success.
	//
	// Returns:
	//   - FrameData: RGBA pixels plus dimensions
	Grab() FrameData

	// Dimensions returns the last known width and height of the captured
	// window in pixels.
	Dimensions() (uint32, uint32)

	// Conn returns the underlying X connection, shared with the injector.
	Conn() *xgb.Conn

	// Window returns the window being captured.
	Window() xproto.Window

	// TranslateToRoot converts window-local coordinates to root coordinates.
	//
	// Parameters:
	//   - x: window-local x
	//   - y: window-local y
	//
	// Returns:
	//   - int16: root x
	//   - int16: root y
	//   - error: an error if the translation request fails
	TranslateToRoot(x, y int16) (int16, int16, error)

	// Close shuts down the X connection. Conversion workers exit on their
	// own after their idle timeout.
	Close()
}

// FrameData is an RGBA frame ready for texture upload.
type FrameData struct {
	Pixels []byte
	Width  uint32
	Height uint32
}

type x11Source struct {
	mu *sync.Mutex

	conn   *xgb.Conn
	root   xproto.Window
	window xproto.Window

	width  uint32
	height uint32

	frameInterval time.Duration
	lastGrab      time.Time
	lastFrame     FrameData

	lastErrorLog  time.Time
	firstCaptured bool

	converter *converter
}

var _ Source = &x11Source{}

// NewSource connects to the X server and locates the capture target. Target
// selection order: explicit window ID, then a WM_NAME fragment search over
// the window tree, then the root window (full desktop).
//
// Parameters:
//   - options: functional options for display, target, and frame rate cap
//
// Returns:
//   - Source: the configured capture source
//   - error: an error if the X connection cannot be established
func NewSource(options ...SourceOption) (Source, error) {
	cfg := sourceConfig{frameRateCap: 30}
	for _, opt := range options {
		opt(&cfg)
	}

	var conn *xgb.Conn
	var err error
	if cfg.display != "" {
		conn, err = xgb.NewConnDisplay(cfg.display)
	} else {
		conn, err = xgb.NewConn()
	}
	if err != nil {
		return nil, fmt.Errorf("capture: failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	s := &x11Source{
		mu:        &sync.Mutex{},
		conn:      conn,
		root:      root,
		window:    root,
		converter: newConverter(),
	}
	if cfg.frameRateCap > 0 {
		s.frameInterval = time.Second / time.Duration(cfg.frameRateCap)
	}

	switch {
	case cfg.windowID != 0:
		s.window = xproto.Window(cfg.windowID)
		log.Printf("capture: using explicit window id 0x%x", cfg.windowID)
	case cfg.nameFragment != "":
		if win, ok := findWindowByName(conn, root, cfg.nameFragment); ok {
			s.window = win
			log.Printf("capture: matched window 0x%x by name fragment %q", uint32(win), cfg.nameFragment)
		} else {
			log.Printf("capture: no window matches name fragment %q, capturing root", cfg.nameFragment)
		}
	default:
		log.Print("capture: no target specified, capturing root window")
	}

	if geom, err := xproto.GetGeometry(conn, xproto.Drawable(s.window)).Reply(); err == nil {
		s.width = uint32(geom.Width)
		s.height = uint32(geom.Height)
	}

	return s, nil
}

// findWindowByName walks the window tree breadth-first looking for a viewable
// window whose WM_NAME contains the fragment (case-insensitive).
func findWindowByName(conn *xgb.Conn, root xproto.Window, fragment string) (xproto.Window, bool) {
	fragment = strings.ToLower(fragment)

	type entry struct {
		win   xproto.Window
		depth int
	}
	queue := []entry{{win: root}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.win != root {
			if name, ok := windowName(conn, current.win); ok &&
				strings.Contains(strings.ToLower(name), fragment) &&
				isViewable(conn, current.win) {
				return current.win, true
			}
		}

		if current.depth >= maxTreeDepth {
			continue
		}
		tree, err := xproto.QueryTree(conn, current.win).Reply()
		if err != nil {
			continue
		}
		for _, child := range tree.Children {
			queue = append(queue, entry{win: child, depth: current.depth + 1})
		}
	}
	return 0, false
}

func windowName(conn *xgb.Conn, win xproto.Window) (string, bool) {
	prop, err := xproto.GetProperty(conn, false, win, xproto.AtomWmName,
		xproto.GetPropertyTypeAny, 0, wmNameReadLength).Reply()
	if err != nil || len(prop.Value) == 0 {
		return "", false
	}
	return string(prop.Value), true
}

func isViewable(conn *xgb.Conn, win xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(conn, win).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

func (s *x11Source) Grab() FrameData {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.lastFrame.Pixels != nil && s.frameInterval > 0 && now.Sub(s.lastGrab) < s.frameInterval {
		return s.lastFrame
	}
	s.lastGrab = now

	frame, err := s.grabLocked()
	if err != nil {
		if now.Sub(s.lastErrorLog) >= errorLogInterval {
			log.Printf("capture: grab failed: %v", err)
			s.lastErrorLog = now
		}
		if s.lastFrame.Pixels != nil {
			return s.lastFrame
		}
		return s.placeholderLocked()
	}

	s.lastFrame = frame
	return frame
}

// grabLocked re-queries the window geometry and fetches a ZPixmap image.
// Caller must hold the mutex.
func (s *x11Source) grabLocked() (FrameData, error) {
	geom, err := xproto.GetGeometry(s.conn, xproto.Drawable(s.window)).Reply()
	if err != nil {
		return FrameData{}, fmt.Errorf("geometry query failed: %w", err)
	}
	width, height := uint32(geom.Width), uint32(geom.Height)
	if width == 0 || height == 0 {
		return FrameData{}, fmt.Errorf("window has zero area")
	}
	if width != s.width || height != s.height {
		log.Printf("capture: window resized %dx%d -> %dx%d", s.width, s.height, width, height)
		s.width = width
		s.height = height
	}

	img, err := xproto.GetImage(s.conn, xproto.ImageFormatZPixmap, xproto.Drawable(s.window),
		0, 0, geom.Width, geom.Height, 0xFFFFFFFF).Reply()
	if err != nil {
		return FrameData{}, fmt.Errorf("image fetch failed: %w", err)
	}

	pixels, err := s.converter.toRGBA(img.Data, width, height, img.Depth)
	if err != nil {
		return FrameData{}, err
	}

	if !s.firstCaptured {
		log.Printf("capture: first frame captured, %dx%d depth %d", width, height, img.Depth)
		s.firstCaptured = true
	}
	return FrameData{Pixels: pixels, Width: width, Height: height}, nil
}

// placeholderLocked builds the checkerboard fallback at the last known
// dimensions. Caller must hold the mutex.
func (s *x11Source) placeholderLocked() FrameData {
	width, height := s.width, s.height
	if width == 0 || height == 0 {
		width, height = 1024, 1024
	}
	return FrameData{
		Pixels: checkerboard(width, height),
		Width:  width,
		Height: height,
	}
}

func (s *x11Source) Dimensions() (uint32, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *x11Source) Conn() *xgb.Conn {
	return s.conn
}

func (s *x11Source) Window() xproto.Window {
	return s.window
}

func (s *x11Source) TranslateToRoot(x, y int16) (int16, int16, error) {
	reply, err := xproto.TranslateCoordinates(s.conn, s.window, s.root, x, y).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("capture: coordinate translation failed: %w", err)
	}
	return reply.DstX, reply.DstY, nil
}

func (s *x11Source) Close() {
	s.conn.Close()
}
