package game

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/decker502/casefile/pkg/config"
)

// Phase is the transition state of the SceneManager.
type Phase int

const (
	// PhaseIdle shows the current scene with no scene change pending.
	PhaseIdle Phase = iota
	// PhaseTransitioning means a pending scene is set and Phase 1 (fade) is running.
	PhaseTransitioning
)

func (p Phase) String() string {
	if p == PhaseTransitioning {
		return "transitioning"
	}
	return "idle"
}

// PresentationState is a read-only snapshot of the scene state machine.
type PresentationState struct {
	CurrentScene           config.SceneID
	PendingScene           config.SceneID // empty unless TransitionInFlight
	OverlayTextTarget      string
	OverlayTextRevealed    string
	SpecialOverlayRevealed bool
	TransitionInFlight     bool
	ConsumedHotspots       []string // one-shot hotspots used in the current scene, sorted
}

// SceneManager is the scene state machine. It exclusively owns the
// presentation state; every other component reads it through State() or
// submits requests into it.
//
// A transition runs as a causal chain on the scheduler:
//
//	RequestTransition -> Phase 1 (fade) -> commit scene -> Phase 2 (text delay) -> typewriter
//
// Each accepted request bumps a generation counter. Every timer closure
// captures the generation and scene it was scheduled for and does nothing
// if either has moved on.
type SceneManager struct {
	story      *config.StoryConfig
	scheduler  *Scheduler
	audio      AudioService
	typewriter *Typewriter
	observer   Observer

	started  bool
	closed   bool
	phase    Phase
	current  config.SceneID
	pending  config.SceneID
	special  bool
	consumed map[string]bool

	generation uint64
	changedAt  time.Duration // when the last request or commit happened

	phase1Timer TimerID
	phase2Timer TimerID
	introTimer  TimerID
	revealTimer TimerID
}

// NewSceneManager creates the state machine for story. audio may be nil.
// Call Start to enter the first scene.
func NewSceneManager(story *config.StoryConfig, scheduler *Scheduler, audio AudioService) *SceneManager {
	return &SceneManager{
		story:      story,
		scheduler:  scheduler,
		audio:      audio,
		typewriter: NewTypewriter(scheduler, story.Timing.TypewriterTick()),
		consumed:   make(map[string]bool),
	}
}

// SetObserver registers a callback for timeline events. Pass nil to remove it.
func (sm *SceneManager) SetObserver(observer Observer) {
	sm.observer = observer
}

// Start enters scene without a fade. It runs the scene-entry side effects
// (ambience, intro text timer) and may only be called once.
func (sm *SceneManager) Start(scene config.SceneID) error {
	if sm.closed {
		return ErrClosed
	}
	if sm.started {
		return fmt.Errorf("start %s: scene manager already started", scene)
	}
	if !sm.story.HasScene(scene) {
		return fmt.Errorf("start %s: %w", scene, ErrUnknownScene)
	}

	sm.started = true
	sm.enterScene(scene)
	log.Printf("[SceneManager] Started at scene %s", scene)
	return nil
}

// RequestTransition starts a scene change to target with narrative text.
//
// Requests made while another transition is in flight are dropped and
// return ErrTransitionInFlight; the in-flight target always wins.
func (sm *SceneManager) RequestTransition(target config.SceneID, text string) error {
	if err := sm.ready(); err != nil {
		return err
	}
	if !sm.story.HasScene(target) {
		err := fmt.Errorf("transition to %q: %w", target, ErrUnknownScene)
		sm.reject(target, err)
		return err
	}
	if sm.phase == PhaseTransitioning {
		err := fmt.Errorf("transition to %s while heading to %s: %w", target, sm.pending, ErrTransitionInFlight)
		sm.reject(target, err)
		return err
	}

	sm.generation++
	gen := sm.generation

	sm.phase = PhaseTransitioning
	sm.pending = target
	sm.special = false
	sm.changedAt = sm.scheduler.Now()

	// Leaving the scene: drop its overlay text and disarm its local timers.
	sm.cancelSceneTimers()
	sm.typewriter.SetTarget("")

	sm.emit(Event{Kind: EventTransitionRequested, Scene: target, Text: text})
	log.Printf("[SceneManager] Transition %s -> %s requested", sm.current, target)

	sm.phase1Timer = sm.scheduler.After(sm.story.Timing.Fade(), func() {
		sm.commit(gen, text)
	})
	return nil
}

// commit runs when Phase 1 fires: swap the scene, then arm Phase 2.
func (sm *SceneManager) commit(gen uint64, text string) {
	sm.phase1Timer = 0
	if gen != sm.generation || sm.phase != PhaseTransitioning {
		return
	}

	scene := sm.pending
	sm.phase = PhaseIdle
	sm.pending = ""
	sm.enterScene(scene)

	sm.phase2Timer = sm.scheduler.After(sm.story.Timing.TextDelay(), func() {
		sm.phase2Timer = 0
		if gen != sm.generation || sm.current != scene {
			return
		}
		sm.setOverlayText(text)
	})
}

// enterScene applies scene-entry side effects.
func (sm *SceneManager) enterScene(scene config.SceneID) {
	sm.current = scene
	sm.special = false
	sm.consumed = make(map[string]bool)
	sm.changedAt = sm.scheduler.Now()

	sm.emit(Event{Kind: EventSceneEntered, Scene: scene})
	log.Printf("[SceneManager] Entered scene %s", scene)

	if levels, ok := sm.story.AmbienceFor(scene); ok {
		for _, trackID := range sortedLevels(levels) {
			if sm.audio != nil {
				sm.audio.SetAmbienceLevel(trackID, levels[trackID])
			}
			sm.emit(Event{Kind: EventAmbience, Scene: scene, Text: trackID, Volume: levels[trackID]})
		}
	}

	cfg, _ := sm.story.Scene(scene)
	if cfg.IntroText != "" {
		gen := sm.generation
		introText := cfg.IntroText
		sm.introTimer = sm.scheduler.After(sm.story.Timing.IntroSettle(), func() {
			sm.introTimer = 0
			if gen != sm.generation || sm.current != scene || sm.phase != PhaseIdle {
				return
			}
			sm.setOverlayText(introText)
		})
	}
}

// RevealSpecial runs the local reveal bound to hotspot h in the current
// scene: after the local reveal delay the special overlay is shown and the
// overlay text switches to h.Text. The current scene does not change.
func (sm *SceneManager) RevealSpecial(h *config.HotspotConfig) error {
	if err := sm.ready(); err != nil {
		return err
	}
	if sm.phase == PhaseTransitioning {
		return fmt.Errorf("reveal %s: %w", h.ID, ErrTransitionInFlight)
	}

	scene := sm.current
	cfg, _ := sm.story.Scene(scene)
	if !cfg.HasSpecialOverlay() {
		return fmt.Errorf("reveal %s in %s: %w", h.ID, scene, ErrNoSpecialOverlay)
	}
	if sm.consumed[h.ID] || sm.special || sm.revealTimer != 0 {
		return fmt.Errorf("reveal %s in %s: %w", h.ID, scene, ErrHotspotInactive)
	}

	if h.OneShot {
		sm.consumed[h.ID] = true
	}

	gen := sm.generation
	text := h.Text
	sm.revealTimer = sm.scheduler.After(sm.story.Timing.LocalReveal(), func() {
		sm.revealTimer = 0
		if gen != sm.generation || sm.current != scene || sm.phase != PhaseIdle {
			return
		}
		// the reveal replaces whatever the scene was saying
		sm.cancelTimer(&sm.phase2Timer)
		sm.cancelTimer(&sm.introTimer)
		sm.special = true
		sm.emit(Event{Kind: EventSpecialRevealed, Scene: scene})
		sm.setOverlayText(text)
	})

	log.Printf("[SceneManager] Local reveal %s armed in %s", h.ID, scene)
	return nil
}

func (sm *SceneManager) setOverlayText(text string) {
	sm.typewriter.SetTarget(text)
	sm.emit(Event{Kind: EventOverlayText, Scene: sm.current, Text: text})
}

// Update advances the scheduler by deltaTime seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.closed {
		return
	}
	sm.scheduler.Advance(time.Duration(deltaTime * float64(time.Second)))
}

// Close cancels every outstanding timer owned by the state machine.
// Calls after Close return ErrClosed.
func (sm *SceneManager) Close() {
	if sm.closed {
		return
	}
	sm.cancelTimer(&sm.phase1Timer)
	sm.cancelSceneTimers()
	sm.typewriter.Cancel()
	sm.closed = true
	log.Printf("[SceneManager] Closed")
}

func (sm *SceneManager) cancelSceneTimers() {
	sm.cancelTimer(&sm.phase2Timer)
	sm.cancelTimer(&sm.introTimer)
	sm.cancelTimer(&sm.revealTimer)
}

func (sm *SceneManager) cancelTimer(id *TimerID) {
	if *id != 0 {
		sm.scheduler.Cancel(*id)
		*id = 0
	}
}

func (sm *SceneManager) ready() error {
	if sm.closed {
		return ErrClosed
	}
	if !sm.started {
		return ErrNotStarted
	}
	return nil
}

func (sm *SceneManager) reject(target config.SceneID, err error) {
	sm.emit(Event{Kind: EventTransitionRejected, Scene: target, Err: err})
	log.Printf("[SceneManager] Warning: %v", err)
}

func (sm *SceneManager) emit(ev Event) {
	if sm.observer == nil {
		return
	}
	ev.At = sm.scheduler.Now()
	sm.observer(ev)
}

// State returns a snapshot of the presentation state.
func (sm *SceneManager) State() PresentationState {
	consumed := make([]string, 0, len(sm.consumed))
	for id := range sm.consumed {
		consumed = append(consumed, id)
	}
	sort.Strings(consumed)

	return PresentationState{
		CurrentScene:           sm.current,
		PendingScene:           sm.pending,
		OverlayTextTarget:      sm.typewriter.Target(),
		OverlayTextRevealed:    sm.typewriter.Revealed(),
		SpecialOverlayRevealed: sm.special,
		TransitionInFlight:     sm.phase == PhaseTransitioning,
		ConsumedHotspots:       consumed,
	}
}

// CurrentScene returns the scene being shown.
func (sm *SceneManager) CurrentScene() config.SceneID {
	return sm.current
}

// Phase returns the transition phase.
func (sm *SceneManager) Phase() Phase {
	return sm.phase
}

// IsTransitioning reports whether a scene change is in flight.
func (sm *SceneManager) IsTransitioning() bool {
	return sm.phase == PhaseTransitioning
}

// IsHotspotConsumed reports whether a one-shot hotspot of the current scene was used.
func (sm *SceneManager) IsHotspotConsumed(id string) bool {
	return sm.consumed[id]
}

// SinceChange returns how long ago the last transition request or scene commit happened.
func (sm *SceneManager) SinceChange() time.Duration {
	return sm.scheduler.Now() - sm.changedAt
}

// FadeProgress returns how far Phase 1 has run, from 0 at the request to 1
// when the scene swaps. It is 0 while idle.
func (sm *SceneManager) FadeProgress() float64 {
	if sm.phase != PhaseTransitioning {
		return 0
	}
	fade := sm.story.Timing.Fade()
	if fade <= 0 {
		return 1
	}
	progress := float64(sm.SinceChange()) / float64(fade)
	if progress > 1 {
		return 1
	}
	return progress
}

// Typewriter exposes the overlay text renderer for read access.
func (sm *SceneManager) Typewriter() *Typewriter {
	return sm.typewriter
}

// Closed reports whether Close was called.
func (sm *SceneManager) Closed() bool {
	return sm.closed
}
