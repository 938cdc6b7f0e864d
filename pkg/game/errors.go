package game

import "errors"

var (
	// ErrUnknownScene is returned when a transition targets an undeclared scene.
	ErrUnknownScene = errors.New("unknown scene")
	// ErrTransitionInFlight is returned when a request arrives before the
	// current transition has committed. The in-flight transition always wins.
	ErrTransitionInFlight = errors.New("transition already in flight")
	// ErrUnknownHotspot is returned when the hotspot does not belong to the current scene.
	ErrUnknownHotspot = errors.New("unknown hotspot")
	// ErrHotspotInactive is returned when a one-shot hotspot has already been used.
	ErrHotspotInactive = errors.New("hotspot inactive")
	// ErrNoSpecialOverlay is returned when a local reveal targets a scene without one.
	ErrNoSpecialOverlay = errors.New("scene has no special overlay")
	// ErrNotStarted is returned when the experience is used before Start.
	ErrNotStarted = errors.New("experience not started")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("experience closed")
)
