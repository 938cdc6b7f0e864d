package game

import (
	"fmt"
	"time"

	"github.com/decker502/casefile/pkg/config"
)

// EventKind classifies what happened inside the scene state machine.
type EventKind int

const (
	// EventTransitionRequested: a request was accepted and Phase 1 started.
	EventTransitionRequested EventKind = iota
	// EventTransitionRejected: a request was refused (see Event.Err).
	EventTransitionRejected
	// EventSceneEntered: Phase 1 finished and the current scene changed.
	EventSceneEntered
	// EventOverlayText: a new overlay text target started revealing.
	EventOverlayText
	// EventSpecialRevealed: a local reveal flipped the special overlay on.
	EventSpecialRevealed
	// EventCuePlayed: a hotspot cue was dispatched.
	EventCuePlayed
	// EventAmbience: an ambience level was applied on scene entry.
	EventAmbience
)

func (k EventKind) String() string {
	switch k {
	case EventTransitionRequested:
		return "transition-requested"
	case EventTransitionRejected:
		return "transition-rejected"
	case EventSceneEntered:
		return "scene-entered"
	case EventOverlayText:
		return "overlay-text"
	case EventSpecialRevealed:
		return "special-revealed"
	case EventCuePlayed:
		return "cue"
	case EventAmbience:
		return "ambience"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a timeline entry emitted to the observer.
type Event struct {
	Kind   EventKind
	At     time.Duration // scheduler time
	Scene  config.SceneID
	Text   string  // overlay text, cue name or ambience track
	Volume float64 // ambience level
	Err    error
}

// Observer receives every Event in the order it happened.
type Observer func(Event)
