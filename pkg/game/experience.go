package game

import (
	"log"
	"time"

	"github.com/decker502/casefile/pkg/config"
)

// Frame is everything the presentation layer needs to draw one frame.
type Frame struct {
	Scene       config.SceneID
	Background  string // image resource ID
	Hotspots    []HotspotView
	OverlayText string // revealed prefix of the overlay text

	// SpecialOverlay is the overlay image resource ID, empty until revealed.
	SpecialOverlay string

	// Transitioning is true during Phase 1; FadeProgress runs 0..1 across it.
	Transitioning bool
	FadeProgress  float64

	// SinceChange is the time since the current scene was entered when idle.
	SinceChange  time.Duration
	FadeDuration time.Duration
}

// Experience owns one instance of every orchestration component.
// Nothing here is process-wide; two experiences never share state.
type Experience struct {
	story     *config.StoryConfig
	scheduler *Scheduler
	audio     AudioService
	scenes    *SceneManager
	hotspots  *HotspotRegistry
}

// NewExperience wires the scheduler, scene state machine and hotspot
// registry for story. audio may be nil for a silent run.
func NewExperience(story *config.StoryConfig, audio AudioService) *Experience {
	scheduler := NewScheduler()
	scenes := NewSceneManager(story, scheduler, audio)
	return &Experience{
		story:     story,
		scheduler: scheduler,
		audio:     audio,
		scenes:    scenes,
		hotspots:  NewHotspotRegistry(story, scenes, audio),
	}
}

// Start enters scene, or the story's initial scene when scene is empty.
func (e *Experience) Start(scene config.SceneID) error {
	if scene == "" {
		scene = e.story.InitialScene
	}
	return e.scenes.Start(scene)
}

// Update advances all timers by deltaTime seconds.
func (e *Experience) Update(deltaTime float64) {
	e.scenes.Update(deltaTime)
}

// Dispatch forwards a pointer event to the hotspot registry.
func (e *Experience) Dispatch(ev PointerEvent) error {
	return e.hotspots.Dispatch(ev)
}

// Frame assembles the rendering boundary for the current state.
func (e *Experience) Frame() Frame {
	state := e.scenes.State()
	frame := Frame{
		Scene:         state.CurrentScene,
		OverlayText:   state.OverlayTextRevealed,
		Transitioning: state.TransitionInFlight,
		FadeProgress:  e.scenes.FadeProgress(),
		SinceChange:   e.scenes.SinceChange(),
		FadeDuration:  e.story.Timing.Fade(),
	}

	cfg, ok := e.story.Scene(state.CurrentScene)
	if !ok {
		return frame
	}
	frame.Background = cfg.Background
	frame.Hotspots = e.hotspots.VisibleHotspots()

	if state.SpecialOverlayRevealed {
		frame.SpecialOverlay = cfg.SpecialOverlay
		if cfg.RevealedBackground != "" {
			frame.Background = cfg.RevealedBackground
		}
	}
	return frame
}

// Close cancels every outstanding timer and silences audio.
// It is safe to call more than once.
func (e *Experience) Close() {
	if e.scenes.Closed() {
		return
	}
	e.scenes.Close()
	e.scheduler.Close()
	if e.audio != nil {
		e.audio.StopAll()
	}
	log.Printf("[Experience] Closed")
}

// Scenes returns the scene state machine.
func (e *Experience) Scenes() *SceneManager {
	return e.scenes
}

// Hotspots returns the hotspot registry.
func (e *Experience) Hotspots() *HotspotRegistry {
	return e.hotspots
}

// Scheduler returns the timer queue driving the experience.
func (e *Experience) Scheduler() *Scheduler {
	return e.scheduler
}

// Story returns the scene graph.
func (e *Experience) Story() *config.StoryConfig {
	return e.story
}
