package capture

type sourceConfig struct {
	display      string
	windowID     uint32
	nameFragment string
	frameRateCap int
}

// SourceOption configures the capture source during construction.
type SourceOption func(*sourceConfig)

// WithDisplay sets the X display string to connect to, e.g. ":0". An empty
// string uses the DISPLAY environment variable.
//
// Parameters:
//   - display: the X display string
//
// Returns:
//   - SourceOption: the option to apply
func WithDisplay(display string) SourceOption {
	return func(cfg *sourceConfig) {
		cfg.display = display
	}
}

// WithWindowID targets a specific window by X id, bypassing name search.
//
// Parameters:
//   - id: the X window id
//
// Returns:
//   - SourceOption: the option to apply
func WithWindowID(id uint32) SourceOption {
	return func(cfg *sourceConfig) {
		cfg.windowID = id
	}
}

// WithNameFragment targets the first viewable window whose WM_NAME contains
// the fragment, case-insensitive. Ignored when a window id is set.
//
// Parameters:
//   - fragment: the substring to match against window titles
//
// Returns:
//   - SourceOption: the option to apply
func WithNameFragment(fragment string) SourceOption {
	return func(cfg *sourceConfig) {
		cfg.nameFragment = fragment
	}
}

// WithFrameRateCap limits how often new frames are grabbed. Zero or negative
// disables the cap.
//
// Parameters:
//   - fps: maximum captures per second
//
// Returns:
//   - SourceOption: the option to apply
func WithFrameRateCap(fps int) SourceOption {
	return func(cfg *sourceConfig) {
		cfg.frameRateCap = fps
	}
}
