package game

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/decker502/casefile/pkg/config"
)

// loadTestStory 加载随程序发布的故事数据
func loadTestStory(t *testing.T) *config.StoryConfig {
	t.Helper()
	data, err := os.ReadFile("../../data/story.yaml")
	if err != nil {
		t.Fatalf("Failed to read story: %v", err)
	}
	story, err := config.ParseStoryConfig(data)
	if err != nil {
		t.Fatalf("ParseStoryConfig failed: %v", err)
	}
	return story
}

// fakeAudio 记录核心层发出的音频调用
type fakeAudio struct {
	cues       []string
	levels     map[string]float64
	levelCalls []string
	stopped    int
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{levels: make(map[string]float64)}
}

func (f *fakeAudio) PlayCue(name string) {
	f.cues = append(f.cues, name)
}

func (f *fakeAudio) SetAmbienceLevel(trackID string, volume float64) {
	f.levels[trackID] = volume
	f.levelCalls = append(f.levelCalls, trackID)
}

func (f *fakeAudio) StopAll() {
	f.stopped++
}

// fakePlayer 模拟 Ebitengine audio.Player
type fakePlayer struct {
	playing   bool
	volume    float64
	plays     int
	pauses    int
	rewinds   int
	rewindErr error
}

func (p *fakePlayer) Play() {
	p.playing = true
	p.plays++
}

func (p *fakePlayer) Pause() {
	p.playing = false
	p.pauses++
}

func (p *fakePlayer) Rewind() error {
	p.rewinds++
	return p.rewindErr
}

func (p *fakePlayer) SetVolume(volume float64) { p.volume = volume }

func (p *fakePlayer) IsPlaying() bool { return p.playing }

// fakeSource 按资源ID返回预先准备的播放器
type fakeSource struct {
	cues  map[string]*fakePlayer
	loops map[string]*fakePlayer
	loads int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		cues:  make(map[string]*fakePlayer),
		loops: make(map[string]*fakePlayer),
	}
}

var errMissing = errors.New("missing resource")

func (s *fakeSource) LoadCuePlayer(id string) (AudioPlayer, error) {
	s.loads++
	p, ok := s.cues[id]
	if !ok {
		return nil, errMissing
	}
	return p, nil
}

func (s *fakeSource) LoadLoopPlayer(id string) (AudioPlayer, error) {
	p, ok := s.loops[id]
	if !ok {
		return nil, errMissing
	}
	return p, nil
}

// newStartedExperience 创建并启动一个体验实例
func newStartedExperience(t *testing.T, start config.SceneID) (*Experience, *fakeAudio) {
	t.Helper()
	audio := newFakeAudio()
	e := NewExperience(loadTestStory(t), audio)
	if err := e.Start(start); err != nil {
		t.Fatalf("Start(%q) failed: %v", start, err)
	}
	t.Cleanup(e.Close)
	return e, audio
}

func advance(e *Experience, d time.Duration) {
	e.Scheduler().Advance(d)
}

// checkInvariants 校验 PresentationState 的不变量
func checkInvariants(t *testing.T, state PresentationState) {
	t.Helper()
	if state.TransitionInFlight != (state.PendingScene != "") {
		t.Errorf("TransitionInFlight=%v but PendingScene=%q", state.TransitionInFlight, state.PendingScene)
	}
	if len(state.OverlayTextRevealed) > len(state.OverlayTextTarget) ||
		state.OverlayTextTarget[:len(state.OverlayTextRevealed)] != state.OverlayTextRevealed {
		t.Errorf("revealed %q is not a prefix of target %q", state.OverlayTextRevealed, state.OverlayTextTarget)
	}
}
