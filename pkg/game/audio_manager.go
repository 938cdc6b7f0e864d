package game

import (
	"log"
	"sort"

	"github.com/decker502/casefile/pkg/config"
)

// AudioPlayer is the subset of an audio player the experience drives.
// *audio.Player from Ebitengine satisfies it.
type AudioPlayer interface {
	Play()
	Pause()
	Rewind() error
	SetVolume(volume float64)
	IsPlaying() bool
}

// AudioSource loads players by resource ID.
// Cue players play once; ambience players loop forever.
type AudioSource interface {
	LoadCuePlayer(id string) (AudioPlayer, error)
	LoadLoopPlayer(id string) (AudioPlayer, error)
}

// AudioService is what the scene state machine and hotspot registry call into.
// Every method returns immediately; playback problems never reach the caller.
type AudioService interface {
	PlayCue(name string)
	SetAmbienceLevel(trackID string, volume float64)
	StopAll()
}

// ambienceTrack 一条循环环境音轨及其当前场景音量
type ambienceTrack struct {
	player AudioPlayer
	level  float64
}

// AudioManager 音频管理器
// 职责：
//   - 播放单次音效（同一音效重复触发时从头重播，不叠加）
//   - 管理最多两条循环环境音轨，按场景调整音量
//   - 与 SettingsManager 联动（音量、开关）
//
// 所有失败（资源缺失、重播失败）只记录日志，不向调用方传播。
type AudioManager struct {
	source   AudioSource
	settings *SettingsManager // 可为 nil，使用默认设置

	cues       map[string]AudioPlayer
	failed     map[string]bool // 加载失败的资源，避免每次点击都重试
	tracks     map[string]*ambienceTrack
	trackIDs   []string
	ambienceOn bool
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - source: 音频资源来源，可为 nil（静音模式）
//   - settings: 设置管理器，可为 nil
func NewAudioManager(source AudioSource, settings *SettingsManager) *AudioManager {
	return &AudioManager{
		source:   source,
		settings: settings,
		cues:     make(map[string]AudioPlayer),
		failed:   make(map[string]bool),
		tracks:   make(map[string]*ambienceTrack),
	}
}

// PlayCue 播放单次音效
// 如果同一音效正在播放，倒回开头重新播放
func (am *AudioManager) PlayCue(name string) {
	if name == "" || !am.currentSettings().CueEnabled {
		return
	}

	player := am.cuePlayer(name)
	if player == nil {
		return
	}

	player.SetVolume(am.currentSettings().CueVolume)
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind cue %s: %v", name, err)
	}
	player.Play()
}

// PreloadCues 预加载音效，避免首次播放时的延迟
func (am *AudioManager) PreloadCues(names []string) {
	loaded := 0
	for _, name := range names {
		if am.cuePlayer(name) != nil {
			loaded++
		}
	}
	log.Printf("[AudioManager] Preloaded %d/%d cues", loaded, len(names))
}

// StartAmbience 加载并开始播放环境音轨
// 超过 config.MaxAmbienceTracks 的音轨会被忽略
func (am *AudioManager) StartAmbience(tracks []config.AmbienceTrack) {
	for _, t := range tracks {
		if len(am.trackIDs) >= config.MaxAmbienceTracks {
			log.Printf("[AudioManager] Warning: Ignoring ambience track %s (limit %d)", t.ID, config.MaxAmbienceTracks)
			break
		}
		if _, exists := am.tracks[t.ID]; exists {
			continue
		}

		track := &ambienceTrack{level: clampVolume(t.Volume)}
		if am.source != nil {
			player, err := am.source.LoadLoopPlayer(t.ID)
			if err != nil {
				log.Printf("[AudioManager] Warning: Failed to load ambience %s: %v", t.ID, err)
			} else {
				track.player = player
			}
		}
		am.tracks[t.ID] = track
		am.trackIDs = append(am.trackIDs, t.ID)
	}

	am.ambienceOn = true
	am.RefreshVolumes()
	log.Printf("[AudioManager] Ambience started with %d tracks", len(am.trackIDs))
}

// SetAmbienceLevel 设置环境音轨的场景音量（幂等）
// 未知音轨只记录音量，不报错
func (am *AudioManager) SetAmbienceLevel(trackID string, volume float64) {
	track, ok := am.tracks[trackID]
	if !ok {
		track = &ambienceTrack{}
		am.tracks[trackID] = track
		am.trackIDs = append(am.trackIDs, trackID)
		log.Printf("[AudioManager] Warning: Ambience track %s was not started", trackID)
	}
	track.level = clampVolume(volume)
	am.applyTrack(track)
}

// AmbienceLevel 返回音轨当前的场景音量
func (am *AudioManager) AmbienceLevel(trackID string) (float64, bool) {
	track, ok := am.tracks[trackID]
	if !ok {
		return 0, false
	}
	return track.level, true
}

// RefreshVolumes 重新应用设置中的音量与开关
// 设置变化后（如静音切换）调用
func (am *AudioManager) RefreshVolumes() {
	for _, id := range am.trackIDs {
		am.applyTrack(am.tracks[id])
	}
	if !am.currentSettings().CueEnabled {
		for _, player := range am.cues {
			player.Pause()
		}
	}
}

func (am *AudioManager) applyTrack(track *ambienceTrack) {
	if track.player == nil {
		return
	}
	settings := am.currentSettings()
	track.player.SetVolume(track.level * settings.AmbienceVolume)

	switch {
	case !am.ambienceOn || !settings.AmbienceEnabled:
		if track.player.IsPlaying() {
			track.player.Pause()
		}
	case !track.player.IsPlaying():
		track.player.Play()
	}
}

// StopAll 停止所有音效与环境音
// 体验关闭时调用
func (am *AudioManager) StopAll() {
	am.ambienceOn = false
	for _, player := range am.cues {
		player.Pause()
	}
	for _, id := range am.trackIDs {
		if p := am.tracks[id].player; p != nil {
			p.Pause()
		}
	}
	log.Printf("[AudioManager] All audio stopped")
}

// cuePlayer 获取或加载音效播放器
func (am *AudioManager) cuePlayer(name string) AudioPlayer {
	if player, ok := am.cues[name]; ok {
		return player
	}
	if am.failed[name] || am.source == nil {
		return nil
	}

	player, err := am.source.LoadCuePlayer(name)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to load cue %s: %v", name, err)
		am.failed[name] = true
		return nil
	}
	am.cues[name] = player
	return player
}

func (am *AudioManager) currentSettings() *Settings {
	if am.settings != nil {
		return am.settings.GetSettings()
	}
	return DefaultSettings()
}

// sortedLevels 返回按音轨ID排序的音量列表，保证设置顺序确定
func sortedLevels(levels map[string]float64) []string {
	ids := make([]string, 0, len(levels))
	for id := range levels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
