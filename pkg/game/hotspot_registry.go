package game

import (
	"fmt"
	"log"

	"github.com/decker502/casefile/pkg/config"
)

// PointerEvent is the single input event type: a pointer activation that the
// presentation layer has already hit-tested. An empty HotspotID means the
// scene background was clicked.
type PointerEvent struct {
	HotspotID string
	X, Y      float64
}

// HotspotView is a visible hotspot handed to the presentation layer.
type HotspotView struct {
	ID     string
	Region config.Region
}

// HotspotRegistry maps pointer activations to scene actions.
//
// Click containment: an event addressed to a hotspot is consumed by that
// hotspot and never falls through to the background "advance" action, even
// when the hotspot rejects it.
type HotspotRegistry struct {
	story  *config.StoryConfig
	scenes *SceneManager
	audio  AudioService
}

// NewHotspotRegistry creates a registry bound to the scene state machine. audio may be nil.
func NewHotspotRegistry(story *config.StoryConfig, scenes *SceneManager, audio AudioService) *HotspotRegistry {
	return &HotspotRegistry{
		story:  story,
		scenes: scenes,
		audio:  audio,
	}
}

// HotspotsFor returns the hotspots declared for scene, in declaration order.
// The result is a copy; it is identical on every call.
func (r *HotspotRegistry) HotspotsFor(scene config.SceneID) []config.HotspotConfig {
	cfg, ok := r.story.Scene(scene)
	if !ok {
		return nil
	}
	out := make([]config.HotspotConfig, len(cfg.Hotspots))
	copy(out, cfg.Hotspots)
	return out
}

// VisibleHotspots returns the hotspots of the current scene that can still
// be activated, in declaration order.
func (r *HotspotRegistry) VisibleHotspots() []HotspotView {
	cfg, ok := r.story.Scene(r.scenes.CurrentScene())
	if !ok {
		return nil
	}

	views := make([]HotspotView, 0, len(cfg.Hotspots))
	for _, h := range cfg.Hotspots {
		if r.scenes.IsHotspotConsumed(h.ID) {
			continue
		}
		views = append(views, HotspotView{ID: h.ID, Region: h.Region})
	}
	return views
}

// Dispatch routes a pointer event to a hotspot or, only when no hotspot
// was hit, to the background.
func (r *HotspotRegistry) Dispatch(ev PointerEvent) error {
	if ev.HotspotID != "" {
		return r.Activate(ev.HotspotID)
	}
	return r.ClickBackground()
}

// Activate plays the hotspot's cue and issues its bound action.
// Nothing happens, cue included, while a transition is in flight.
func (r *HotspotRegistry) Activate(id string) error {
	if err := r.scenes.ready(); err != nil {
		return err
	}

	scene := r.scenes.CurrentScene()
	if r.scenes.IsTransitioning() {
		err := fmt.Errorf("hotspot %s: %w", id, ErrTransitionInFlight)
		r.scenes.reject(scene, err)
		return err
	}

	cfg, _ := r.story.Scene(scene)
	h, ok := cfg.Hotspot(id)
	if !ok {
		return fmt.Errorf("hotspot %s in %s: %w", id, scene, ErrUnknownHotspot)
	}
	if r.scenes.IsHotspotConsumed(id) {
		return fmt.Errorf("hotspot %s in %s: %w", id, scene, ErrHotspotInactive)
	}

	log.Printf("[HotspotRegistry] Activated %s in %s", id, scene)
	r.playCue(h.Cue)

	switch h.Action {
	case config.ActionReveal:
		return r.scenes.RevealSpecial(h)
	default:
		return r.scenes.RequestTransition(h.Target, h.Text)
	}
}

// ClickBackground handles a click outside every hotspot:
//   - in the opening scene it moves to the overview with the entry narration
//   - in the overview it does nothing
//   - anywhere else it goes back to the overview with no text
func (r *HotspotRegistry) ClickBackground() error {
	if err := r.scenes.ready(); err != nil {
		return err
	}

	switch r.scenes.CurrentScene() {
	case r.story.OverviewScene:
		return nil
	case r.story.InitialScene:
		return r.scenes.RequestTransition(r.story.OverviewScene, r.story.EntryNarration)
	default:
		return r.scenes.RequestTransition(r.story.OverviewScene, "")
	}
}

func (r *HotspotRegistry) playCue(cue string) {
	if cue == "" {
		return
	}
	if r.audio != nil {
		r.audio.PlayCue(cue)
	}
	r.scenes.emit(Event{Kind: EventCuePlayed, Scene: r.scenes.CurrentScene(), Text: cue})
}
