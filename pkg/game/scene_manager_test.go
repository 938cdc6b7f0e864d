package game

import (
	"errors"
	"testing"
	"time"

	"github.com/decker502/casefile/pkg/config"
)

const (
	fade      = 500 * time.Millisecond
	textDelay = 1000 * time.Millisecond
	tick      = 25 * time.Millisecond
)

// TestScenarioIntroToOverview 开场点击唯一热区进入总览
func TestScenarioIntroToOverview(t *testing.T) {
	e, audio := newStartedExperience(t, "")
	sm := e.Scenes()
	story := e.Story()

	if sm.CurrentScene() != config.SceneIntro {
		t.Fatalf("start scene: got %s, want intro", sm.CurrentScene())
	}
	if audio.levels["AMBIENCE_RAIN"] != 0.6 {
		t.Errorf("intro rain level: got %v, want 0.6", audio.levels["AMBIENCE_RAIN"])
	}

	hotspots := e.Hotspots().HotspotsFor(config.SceneIntro)
	if len(hotspots) != 1 {
		t.Fatalf("intro hotspots: got %d, want 1", len(hotspots))
	}
	if err := e.Dispatch(PointerEvent{HotspotID: hotspots[0].ID}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(audio.cues) != 1 || audio.cues[0] != "SOUND_HIT1" {
		t.Errorf("cues: got %v, want [SOUND_HIT1]", audio.cues)
	}

	state := sm.State()
	checkInvariants(t, state)
	if !state.TransitionInFlight || state.PendingScene != config.SceneOverview {
		t.Fatalf("after request: inFlight=%v pending=%s", state.TransitionInFlight, state.PendingScene)
	}

	advance(e, fade-time.Millisecond)
	if sm.CurrentScene() != config.SceneIntro {
		t.Fatal("scene changed before Phase 1 finished")
	}

	advance(e, time.Millisecond)
	state = sm.State()
	checkInvariants(t, state)
	if state.CurrentScene != config.SceneOverview {
		t.Fatalf("after Phase 1: got %s, want overview", state.CurrentScene)
	}
	if state.TransitionInFlight {
		t.Error("state should be idle once the scene is committed")
	}
	if audio.levels["AMBIENCE_RAIN"] != 0.25 || audio.levels["AMBIENCE_DRONE"] != 0.15 {
		t.Errorf("overview ambience: got %v", audio.levels)
	}
	if state.OverlayTextTarget != "" {
		t.Errorf("text should wait for Phase 2, got %q", state.OverlayTextTarget)
	}

	advance(e, textDelay-time.Millisecond)
	if sm.State().OverlayTextTarget != "" {
		t.Fatal("text appeared before Phase 2 finished")
	}

	advance(e, time.Millisecond)
	state = sm.State()
	if state.OverlayTextTarget != hotspots[0].Text {
		t.Fatalf("overlay target: got %q, want %q", state.OverlayTextTarget, hotspots[0].Text)
	}
	if state.OverlayTextRevealed != "" {
		t.Errorf("reveal should start from empty, got %q", state.OverlayTextRevealed)
	}

	advance(e, tick)
	if got := sm.State().OverlayTextRevealed; got != hotspots[0].Text[:1] {
		t.Errorf("after one tick: got %q", got)
	}

	advance(e, time.Duration(len([]rune(story.EntryNarration)))*tick)
	if got := sm.State().OverlayTextRevealed; got != hotspots[0].Text {
		t.Errorf("after full reveal: got %q", got)
	}
}

// TestScenarioPurseReveal 手提包场景内的局部揭示
func TestScenarioPurseReveal(t *testing.T) {
	e, audio := newStartedExperience(t, config.SceneOverview)
	sm := e.Scenes()

	if err := e.Dispatch(PointerEvent{HotspotID: "purse"}); err != nil {
		t.Fatalf("purse hotspot: %v", err)
	}
	advance(e, fade+textDelay+5*time.Second)
	if sm.CurrentScene() != config.ScenePurse {
		t.Fatalf("got %s, want purse", sm.CurrentScene())
	}

	frame := e.Frame()
	if frame.Background != "IMAGE_PURSE" || frame.SpecialOverlay != "" {
		t.Errorf("before reveal: background=%s overlay=%s", frame.Background, frame.SpecialOverlay)
	}

	if err := e.Dispatch(PointerEvent{HotspotID: "id_card"}); err != nil {
		t.Fatalf("id_card hotspot: %v", err)
	}
	if audio.cues[len(audio.cues)-1] != "SOUND_HIT4" {
		t.Errorf("last cue: got %v, want SOUND_HIT4", audio.cues)
	}

	// 一次性热区立即失效
	if len(e.Frame().Hotspots) != 0 {
		t.Errorf("id_card should disappear once activated, got %v", e.Frame().Hotspots)
	}
	err := e.Dispatch(PointerEvent{HotspotID: "id_card"})
	if !errors.Is(err, ErrHotspotInactive) {
		t.Errorf("second activation: got %v, want ErrHotspotInactive", err)
	}

	advance(e, 499*time.Millisecond)
	if sm.State().SpecialOverlayRevealed {
		t.Fatal("special overlay revealed before the local delay")
	}

	advance(e, time.Millisecond)
	state := sm.State()
	checkInvariants(t, state)
	if !state.SpecialOverlayRevealed {
		t.Fatal("special overlay should be revealed")
	}
	if state.CurrentScene != config.ScenePurse || state.TransitionInFlight {
		t.Errorf("local reveal must not change scene: %+v", state)
	}

	purse, _ := e.Story().Scene(config.ScenePurse)
	idCard, _ := purse.Hotspot("id_card")
	if state.OverlayTextTarget != idCard.Text {
		t.Errorf("overlay: got %q, want %q", state.OverlayTextTarget, idCard.Text)
	}

	frame = e.Frame()
	if frame.Background != "IMAGE_PURSE_OPEN" || frame.SpecialOverlay != "IMAGE_ID_CARD" {
		t.Errorf("after reveal: background=%s overlay=%s", frame.Background, frame.SpecialOverlay)
	}
}

// TestRevealBeforePhase2 局部揭示早于场景文字时，场景文字不会覆盖揭示文字
func TestRevealBeforePhase2(t *testing.T) {
	e, _ := newStartedExperience(t, config.SceneOverview)
	sm := e.Scenes()

	e.Dispatch(PointerEvent{HotspotID: "purse"})
	advance(e, fade+100*time.Millisecond)
	if err := e.Dispatch(PointerEvent{HotspotID: "id_card"}); err != nil {
		t.Fatalf("id_card: %v", err)
	}

	advance(e, 3*time.Second)
	purse, _ := e.Story().Scene(config.ScenePurse)
	idCard, _ := purse.Hotspot("id_card")
	if got := sm.State().OverlayTextTarget; got != idCard.Text {
		t.Errorf("overlay: got %q, want reveal text %q", got, idCard.Text)
	}
}

// TestScenarioBackgroundReturnsToOverview 线索场景点击背景返回总览
func TestScenarioBackgroundReturnsToOverview(t *testing.T) {
	e, _ := newStartedExperience(t, config.SceneOverview)
	sm := e.Scenes()

	e.Dispatch(PointerEvent{HotspotID: "purse"})
	advance(e, 2*time.Second)
	e.Dispatch(PointerEvent{HotspotID: "id_card"})
	advance(e, time.Second)
	if !sm.State().SpecialOverlayRevealed {
		t.Fatal("setup: special overlay should be revealed")
	}

	if err := e.Dispatch(PointerEvent{}); err != nil {
		t.Fatalf("background click: %v", err)
	}
	state := sm.State()
	checkInvariants(t, state)
	if state.PendingScene != config.SceneOverview {
		t.Errorf("pending: got %s, want overview", state.PendingScene)
	}
	if state.SpecialOverlayRevealed {
		t.Error("special overlay flag should reset on request")
	}
	if state.OverlayTextTarget != "" {
		t.Errorf("overlay text should clear on request, got %q", state.OverlayTextTarget)
	}

	advance(e, fade+textDelay+time.Second)
	state = sm.State()
	if state.CurrentScene != config.SceneOverview {
		t.Errorf("got %s, want overview", state.CurrentScene)
	}
	if state.OverlayTextTarget != "" {
		t.Errorf("return to overview carries no text, got %q", state.OverlayTextTarget)
	}

	// 重新进入手提包场景时一次性热区恢复
	e.Dispatch(PointerEvent{HotspotID: "purse"})
	advance(e, fade)
	if len(e.Frame().Hotspots) != 1 {
		t.Errorf("id_card should be visible again on re-entry, got %v", e.Frame().Hotspots)
	}
}

// TestScenarioRapidRequests 过渡期间的第二个请求被丢弃
func TestScenarioRapidRequests(t *testing.T) {
	e, audio := newStartedExperience(t, config.SceneOverview)
	sm := e.Scenes()

	var rejected []Event
	sm.SetObserver(func(ev Event) {
		if ev.Kind == EventTransitionRejected {
			rejected = append(rejected, ev)
		}
	})

	if err := sm.RequestTransition(config.SceneFoot, "foot text"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	advance(e, 200*time.Millisecond)

	err := sm.RequestTransition(config.SceneRing, "ring text")
	if !errors.Is(err, ErrTransitionInFlight) {
		t.Fatalf("second request: got %v, want ErrTransitionInFlight", err)
	}
	if len(rejected) != 1 || rejected[0].Scene != config.SceneRing {
		t.Errorf("rejected events: %+v", rejected)
	}

	// 热区激活同样被丢弃，且不播放音效
	cues := len(audio.cues)
	if err := e.Dispatch(PointerEvent{HotspotID: "ring"}); !errors.Is(err, ErrTransitionInFlight) {
		t.Errorf("hotspot during transition: got %v", err)
	}
	if len(audio.cues) != cues {
		t.Error("rejected hotspot must not play its cue")
	}

	state := sm.State()
	checkInvariants(t, state)
	if state.PendingScene != config.SceneFoot {
		t.Errorf("pending: got %s, want foot", state.PendingScene)
	}

	advance(e, fade+textDelay)
	state = sm.State()
	if state.CurrentScene != config.SceneFoot || state.OverlayTextTarget != "foot text" {
		t.Errorf("in-flight request should win: scene=%s text=%q", state.CurrentScene, state.OverlayTextTarget)
	}
}

func TestRequestTransitionUnknownScene(t *testing.T) {
	e, _ := newStartedExperience(t, config.SceneOverview)
	sm := e.Scenes()

	err := sm.RequestTransition("attic", "")
	if !errors.Is(err, ErrUnknownScene) {
		t.Fatalf("got %v, want ErrUnknownScene", err)
	}
	state := sm.State()
	checkInvariants(t, state)
	if state.TransitionInFlight || state.CurrentScene != config.SceneOverview {
		t.Errorf("rejected request changed state: %+v", state)
	}
}

// TestScenarioEmptyText SetTarget("") 立即清空且不启动计时器
func TestScenarioEmptyText(t *testing.T) {
	e, _ := newStartedExperience(t, config.SceneOverview)
	sm := e.Scenes()

	sm.Typewriter().SetTarget("temporary")
	advance(e, 2*tick)
	pending := e.Scheduler().Pending()

	sm.Typewriter().SetTarget("")
	if sm.State().OverlayTextRevealed != "" {
		t.Errorf("got %q, want empty", sm.State().OverlayTextRevealed)
	}
	if e.Scheduler().Pending() != pending-1 {
		t.Errorf("pending timers: got %d, want %d", e.Scheduler().Pending(), pending-1)
	}
	if sm.Typewriter().Ticking() {
		t.Error("no reveal tick should be scheduled")
	}
}

// TestIntroSettleText 开场场景在无操作时自动显示介绍文字
func TestIntroSettleText(t *testing.T) {
	e, _ := newStartedExperience(t, "")
	sm := e.Scenes()
	intro, _ := e.Story().Scene(config.SceneIntro)

	advance(e, 1499*time.Millisecond)
	if sm.State().OverlayTextTarget != "" {
		t.Fatal("intro text appeared early")
	}
	advance(e, time.Millisecond)
	if sm.State().OverlayTextTarget != intro.IntroText {
		t.Fatalf("got %q, want %q", sm.State().OverlayTextTarget, intro.IntroText)
	}

	// 只触发一次
	advance(e, 10*time.Second)
	if sm.State().OverlayTextRevealed != intro.IntroText {
		t.Errorf("revealed: got %q", sm.State().OverlayTextRevealed)
	}
}

// TestIntroTimerDisarmedOnLeave 离开开场场景后介绍文字计时器失效
func TestIntroTimerDisarmedOnLeave(t *testing.T) {
	e, _ := newStartedExperience(t, "")
	sm := e.Scenes()

	advance(e, 400*time.Millisecond)
	if err := e.Dispatch(PointerEvent{}); err != nil {
		t.Fatalf("background click in intro: %v", err)
	}

	advance(e, 1200*time.Millisecond)
	state := sm.State()
	if state.CurrentScene != config.SceneOverview {
		t.Fatalf("got %s, want overview", state.CurrentScene)
	}
	if state.OverlayTextTarget != "" {
		t.Errorf("intro text leaked into overview: %q", state.OverlayTextTarget)
	}

	advance(e, 400*time.Millisecond)
	if got := sm.State().OverlayTextTarget; got != e.Story().EntryNarration {
		t.Errorf("overview text: got %q, want entry narration", got)
	}
}

func TestObserverTimeline(t *testing.T) {
	audio := newFakeAudio()
	e := NewExperience(loadTestStory(t), audio)
	defer e.Close()

	var kinds []EventKind
	var times []time.Duration
	e.Scenes().SetObserver(func(ev Event) {
		if ev.Kind == EventAmbience {
			return
		}
		kinds = append(kinds, ev.Kind)
		times = append(times, ev.At)
	})

	e.Start(config.SceneOverview)
	e.Dispatch(PointerEvent{HotspotID: "shoe"})
	advance(e, 2*time.Second)

	wantKinds := []EventKind{EventSceneEntered, EventCuePlayed, EventTransitionRequested, EventSceneEntered, EventOverlayText}
	wantTimes := []time.Duration{0, 0, 0, fade, fade + textDelay}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("kinds: got %v, want %v", kinds, wantKinds)
	}
	for i := range wantKinds {
		if kinds[i] != wantKinds[i] || times[i] != wantTimes[i] {
			t.Errorf("event %d: got %s@%v, want %s@%v", i, kinds[i], times[i], wantKinds[i], wantTimes[i])
		}
	}
}

func TestStartErrors(t *testing.T) {
	e := NewExperience(loadTestStory(t), nil)
	defer e.Close()

	if err := e.Scenes().RequestTransition(config.SceneFoot, ""); !errors.Is(err, ErrNotStarted) {
		t.Errorf("before Start: got %v, want ErrNotStarted", err)
	}
	if err := e.Start("attic"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Start(attic): got %v, want ErrUnknownScene", err)
	}
	if err := e.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := e.Start(""); err == nil {
		t.Error("second Start should fail")
	}
}

func TestCloseCancelsEverything(t *testing.T) {
	audio := newFakeAudio()
	e := NewExperience(loadTestStory(t), audio)
	e.Start("")

	e.Dispatch(PointerEvent{HotspotID: "begin"})
	if e.Scheduler().Pending() == 0 {
		t.Fatal("setup: expected pending timers")
	}

	e.Close()
	e.Close()

	if e.Scheduler().Pending() != 0 {
		t.Errorf("pending after Close: %d", e.Scheduler().Pending())
	}
	if audio.stopped != 1 {
		t.Errorf("StopAll calls: got %d, want 1", audio.stopped)
	}

	e.Update(5)
	if e.Scenes().CurrentScene() != config.SceneIntro {
		t.Error("no timer may fire after Close")
	}
	if err := e.Dispatch(PointerEvent{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Dispatch after Close: got %v, want ErrClosed", err)
	}
}

func TestUpdateUsesSeconds(t *testing.T) {
	e, _ := newStartedExperience(t, config.SceneOverview)
	e.Dispatch(PointerEvent{HotspotID: "ring"})

	for i := 0; i < 31; i++ {
		e.Update(1.0 / 60.0)
	}
	if e.Scenes().CurrentScene() != config.SceneRing {
		t.Errorf("after ~516ms of frames: got %s, want ring", e.Scenes().CurrentScene())
	}
}

// TestFadeProgressAcrossPhase1 淡出进度在第一阶段内从 0 增长到 1
func TestFadeProgressAcrossPhase1(t *testing.T) {
	e, _ := newStartedExperience(t, config.SceneOverview)
	sm := e.Scenes()

	if got := sm.FadeProgress(); got != 0 {
		t.Fatalf("idle progress = %v, want 0", got)
	}

	e.Dispatch(PointerEvent{HotspotID: "shoe"})
	prev := -1.0
	for _, step := range []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond, 150 * time.Millisecond} {
		advance(e, step)
		got := e.Frame().FadeProgress
		if got <= prev {
			t.Errorf("progress should grow during Phase 1: %v after %v", got, prev)
		}
		prev = got
	}
	if prev < 0.89 || prev > 0.91 {
		t.Errorf("progress at 450ms = %v, want 0.9", prev)
	}

	advance(e, 50*time.Millisecond)
	if sm.IsTransitioning() || sm.FadeProgress() != 0 {
		t.Errorf("after commit: transitioning=%v progress=%v", sm.IsTransitioning(), sm.FadeProgress())
	}
}

// TestLeaveDuringTextDelay 文本延迟期间离开场景，旧的第二阶段计时器不再生效
func TestLeaveDuringTextDelay(t *testing.T) {
	e, _ := newStartedExperience(t, config.SceneOverview)
	sm := e.Scenes()

	if err := e.Dispatch(PointerEvent{HotspotID: "shoe"}); err != nil {
		t.Fatalf("shoe: %v", err)
	}
	advance(e, 600*time.Millisecond)
	if sm.CurrentScene() != config.SceneFoot || sm.State().OverlayTextTarget != "" {
		t.Fatalf("setup: want foot with text pending, got %+v", sm.State())
	}

	// 背景点击返回总览，此时 foot 的第二阶段尚未触发
	if err := e.Dispatch(PointerEvent{}); err != nil {
		t.Fatalf("background: %v", err)
	}
	advance(e, 3*time.Second)

	state := sm.State()
	checkInvariants(t, state)
	if state.CurrentScene != config.SceneOverview {
		t.Errorf("got %s, want overview", state.CurrentScene)
	}
	if state.OverlayTextTarget != "" || state.OverlayTextRevealed != "" {
		t.Errorf("stale shoe text leaked: target=%q revealed=%q", state.OverlayTextTarget, state.OverlayTextRevealed)
	}
}
