package config

import (
	"fmt"
	"time"

	"github.com/decker502/casefile/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// StoryConfigPath 是内嵌故事数据的默认路径
const StoryConfigPath = "data/story.yaml"

// MaxAmbienceTracks 同时管理的循环环境音轨上限
const MaxAmbienceTracks = 2

// SceneID 场景标识
// 场景集合在构建时固定，运行时只移动"当前场景"指针
type SceneID string

const (
	// SceneIntro 开场场景
	SceneIntro SceneID = "intro"
	// SceneOverview 案发现场总览（主调查场景）
	SceneOverview SceneID = "overview"
	// SceneFoot 线索 A：丢失的鞋跟
	SceneFoot SceneID = "foot"
	// SceneRing 线索 B：戒指痕迹
	SceneRing SceneID = "ring"
	// ScenePurse 线索 C：打开的手提包
	ScenePurse SceneID = "purse"
)

// HotspotAction 热区被激活后执行的动作类型
type HotspotAction string

const (
	// ActionTransition 切换到目标场景（完整的两阶段过渡）
	ActionTransition HotspotAction = "transition"
	// ActionReveal 场景内局部揭示（不切换场景）
	ActionReveal HotspotAction = "reveal"
)

// Region 热区的矩形区域（逻辑屏幕坐标）
// 核心层不解释该区域，仅透传给表现层做命中检测
type Region struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Contains 判断点 (x, y) 是否落在区域内（左闭右开）
func (r Region) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// HotspotConfig 单个可点击热区的声明
type HotspotConfig struct {
	ID      string        `yaml:"id"`      // 热区ID，场景内唯一
	Region  Region        `yaml:"region"`  // 点击区域
	Action  HotspotAction `yaml:"action"`  // 动作类型，默认 transition
	Target  SceneID       `yaml:"target"`  // 目标场景（仅 transition）
	Text    string        `yaml:"text"`    // 绑定的叙述文本
	Cue     string        `yaml:"cue"`     // 可选的音效ID
	OneShot bool          `yaml:"oneShot"` // 激活后隐藏，进入场景时重置
}

// SceneConfig 单个场景的声明
type SceneConfig struct {
	ID                 SceneID         `yaml:"id"`
	Background         string          `yaml:"background"`         // 背景图片资源ID
	RevealedBackground string          `yaml:"revealedBackground"` // 局部揭示后的背景（可选）
	SpecialOverlay     string          `yaml:"specialOverlay"`     // 局部揭示后叠加的图片（可选）
	IntroText          string          `yaml:"introText"`          // 进入场景后自动显示的文本（可选）
	Hotspots           []HotspotConfig `yaml:"hotspots"`
}

// HasSpecialOverlay 场景是否支持局部揭示
func (s *SceneConfig) HasSpecialOverlay() bool {
	return s.SpecialOverlay != ""
}

// Hotspot 按ID查找热区
func (s *SceneConfig) Hotspot(id string) (*HotspotConfig, bool) {
	for i := range s.Hotspots {
		if s.Hotspots[i].ID == id {
			return &s.Hotspots[i], true
		}
	}
	return nil, false
}

// TimingConfig 过渡与文字显示的时间参数（毫秒）
type TimingConfig struct {
	FadeMs           int `yaml:"fadeMs"`           // 阶段1：淡出时长
	TextDelayMs      int `yaml:"textDelayMs"`      // 阶段2：场景稳定后到文字出现的间隔
	TypewriterTickMs int `yaml:"typewriterTickMs"` // 打字机每个字符的间隔
	IntroSettleMs    int `yaml:"introSettleMs"`    // 开场场景自动文本的延迟
	LocalRevealMs    int `yaml:"localRevealMs"`    // 场景内局部揭示的延迟
}

// Fade 返回阶段1时长
func (t TimingConfig) Fade() time.Duration { return ms(t.FadeMs) }

// TextDelay 返回阶段2时长
func (t TimingConfig) TextDelay() time.Duration { return ms(t.TextDelayMs) }

// TypewriterTick 返回打字机节拍
func (t TimingConfig) TypewriterTick() time.Duration { return ms(t.TypewriterTickMs) }

// IntroSettle 返回开场自动文本延迟
func (t TimingConfig) IntroSettle() time.Duration { return ms(t.IntroSettleMs) }

// LocalReveal 返回局部揭示延迟
func (t TimingConfig) LocalReveal() time.Duration { return ms(t.LocalRevealMs) }

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// DefaultTiming 返回默认时间参数
func DefaultTiming() TimingConfig {
	return TimingConfig{
		FadeMs:           500,
		TextDelayMs:      1000,
		TypewriterTickMs: 25,
		IntroSettleMs:    1500,
		LocalRevealMs:    500,
	}
}

// AmbienceTrack 循环环境音轨
type AmbienceTrack struct {
	ID     string  `yaml:"id"`     // 音频资源ID
	Volume float64 `yaml:"volume"` // 初始音量 0.0 ~ 1.0
}

// AmbienceRule 进入某场景时的环境音量规则
type AmbienceRule struct {
	Scene  SceneID            `yaml:"scene"`
	Levels map[string]float64 `yaml:"levels"` // 音轨ID -> 音量
}

// AmbienceConfig 环境音配置
type AmbienceConfig struct {
	Tracks []AmbienceTrack `yaml:"tracks"`
	Rules  []AmbienceRule  `yaml:"rules"`
}

// StoryConfig 故事（场景图）配置文件结构
type StoryConfig struct {
	Version        string         `yaml:"version"`
	InitialScene   SceneID        `yaml:"initialScene"`   // 开场场景
	OverviewScene  SceneID        `yaml:"overviewScene"`  // 总览场景（唯一的"返回"目标）
	EntryNarration string         `yaml:"entryNarration"` // 从开场进入总览时的旁白
	Timing         TimingConfig   `yaml:"timing"`
	Cues           []string       `yaml:"cues"` // 预加载的单次音效ID
	Ambience       AmbienceConfig `yaml:"ambience"`
	Scenes         []SceneConfig  `yaml:"scenes"`

	sceneIndex map[SceneID]int
}

// LoadStoryConfig 从内嵌文件系统加载故事配置
//
// 参数：
//   - path: 配置文件路径（如 "data/story.yaml"）
//
// 返回：
//   - *StoryConfig: 解析并校验后的配置
//   - error: 读取、解析或校验失败
func LoadStoryConfig(path string) (*StoryConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story config %s: %w", path, err)
	}

	story, err := ParseStoryConfig(data)
	if err != nil {
		return nil, fmt.Errorf("story config %s: %w", path, err)
	}
	return story, nil
}

// ParseStoryConfig 解析并校验 YAML 格式的故事配置
// 未填写的时间参数使用 DefaultTiming() 中的值
func ParseStoryConfig(data []byte) (*StoryConfig, error) {
	story := StoryConfig{Timing: DefaultTiming()}
	if err := yaml.Unmarshal(data, &story); err != nil {
		return nil, fmt.Errorf("failed to parse story YAML: %w", err)
	}

	for i := range story.Scenes {
		for j := range story.Scenes[i].Hotspots {
			if story.Scenes[i].Hotspots[j].Action == "" {
				story.Scenes[i].Hotspots[j].Action = ActionTransition
			}
		}
	}

	if err := story.validate(); err != nil {
		return nil, fmt.Errorf("invalid story: %w", err)
	}
	return &story, nil
}

// validate 校验场景图的完整性，并建立场景索引
func (c *StoryConfig) validate() error {
	if len(c.Scenes) == 0 {
		return fmt.Errorf("at least one scene is required")
	}

	c.sceneIndex = make(map[SceneID]int, len(c.Scenes))
	for i, scene := range c.Scenes {
		if scene.ID == "" {
			return fmt.Errorf("scene #%d: id is required", i)
		}
		if _, dup := c.sceneIndex[scene.ID]; dup {
			return fmt.Errorf("scene %s: duplicate id", scene.ID)
		}
		if scene.Background == "" {
			return fmt.Errorf("scene %s: background is required", scene.ID)
		}
		c.sceneIndex[scene.ID] = i
	}

	if !c.HasScene(c.InitialScene) {
		return fmt.Errorf("initialScene %q is not a declared scene", c.InitialScene)
	}
	if !c.HasScene(c.OverviewScene) {
		return fmt.Errorf("overviewScene %q is not a declared scene", c.OverviewScene)
	}
	if c.InitialScene == c.OverviewScene {
		return fmt.Errorf("initialScene and overviewScene must differ")
	}

	cues := make(map[string]bool, len(c.Cues))
	for _, cue := range c.Cues {
		cues[cue] = true
	}

	for _, scene := range c.Scenes {
		seen := make(map[string]bool, len(scene.Hotspots))
		for _, h := range scene.Hotspots {
			if h.ID == "" {
				return fmt.Errorf("scene %s: hotspot id is required", scene.ID)
			}
			if seen[h.ID] {
				return fmt.Errorf("scene %s: duplicate hotspot %s", scene.ID, h.ID)
			}
			seen[h.ID] = true

			if h.Region.Width <= 0 || h.Region.Height <= 0 {
				return fmt.Errorf("scene %s hotspot %s: region must have positive size", scene.ID, h.ID)
			}
			if h.Cue != "" && !cues[h.Cue] {
				return fmt.Errorf("scene %s hotspot %s: cue %s is not declared in cues", scene.ID, h.ID, h.Cue)
			}

			switch h.Action {
			case ActionTransition:
				if !c.HasScene(h.Target) {
					return fmt.Errorf("scene %s hotspot %s: unknown target scene %q", scene.ID, h.ID, h.Target)
				}
			case ActionReveal:
				if !scene.HasSpecialOverlay() {
					return fmt.Errorf("scene %s hotspot %s: reveal requires specialOverlay on the scene", scene.ID, h.ID)
				}
			default:
				return fmt.Errorf("scene %s hotspot %s: unknown action %q", scene.ID, h.ID, h.Action)
			}
		}
	}

	if err := c.validateTiming(); err != nil {
		return err
	}
	return c.validateAmbience()
}

func (c *StoryConfig) validateTiming() error {
	t := c.Timing
	if t.FadeMs <= 0 || t.TextDelayMs <= 0 || t.TypewriterTickMs <= 0 || t.IntroSettleMs <= 0 || t.LocalRevealMs <= 0 {
		return fmt.Errorf("timing values must be positive: %+v", t)
	}
	return nil
}

func (c *StoryConfig) validateAmbience() error {
	if len(c.Ambience.Tracks) > MaxAmbienceTracks {
		return fmt.Errorf("at most %d ambience tracks are supported, got %d", MaxAmbienceTracks, len(c.Ambience.Tracks))
	}

	tracks := make(map[string]bool, len(c.Ambience.Tracks))
	for _, track := range c.Ambience.Tracks {
		if track.ID == "" {
			return fmt.Errorf("ambience track id is required")
		}
		if !validVolume(track.Volume) {
			return fmt.Errorf("ambience track %s: volume %.2f out of range [0, 1]", track.ID, track.Volume)
		}
		tracks[track.ID] = true
	}

	ruled := make(map[SceneID]bool, len(c.Ambience.Rules))
	for _, rule := range c.Ambience.Rules {
		if !c.HasScene(rule.Scene) {
			return fmt.Errorf("ambience rule: unknown scene %q", rule.Scene)
		}
		if ruled[rule.Scene] {
			return fmt.Errorf("ambience rule: duplicate scene %s", rule.Scene)
		}
		ruled[rule.Scene] = true
		for trackID, volume := range rule.Levels {
			if !tracks[trackID] {
				return fmt.Errorf("ambience rule %s: unknown track %s", rule.Scene, trackID)
			}
			if !validVolume(volume) {
				return fmt.Errorf("ambience rule %s: volume %.2f out of range [0, 1]", rule.Scene, volume)
			}
		}
	}
	return nil
}

func validVolume(v float64) bool {
	return v >= 0 && v <= 1
}

// HasScene 判断场景是否已声明
func (c *StoryConfig) HasScene(id SceneID) bool {
	_, ok := c.sceneIndex[id]
	return ok
}

// Scene 按ID获取场景声明
// 如果场景不存在，返回 nil 和 false
func (c *StoryConfig) Scene(id SceneID) (*SceneConfig, bool) {
	i, ok := c.sceneIndex[id]
	if !ok {
		return nil, false
	}
	return &c.Scenes[i], true
}

// SceneIDs 按声明顺序返回所有场景ID
func (c *StoryConfig) SceneIDs() []SceneID {
	ids := make([]SceneID, len(c.Scenes))
	for i, scene := range c.Scenes {
		ids[i] = scene.ID
	}
	return ids
}

// AmbienceFor 返回进入场景时应设置的环境音量
// 未配置规则的场景返回 false（保持当前音量不变）
func (c *StoryConfig) AmbienceFor(id SceneID) (map[string]float64, bool) {
	for _, rule := range c.Ambience.Rules {
		if rule.Scene == id {
			return rule.Levels, true
		}
	}
	return nil, false
}
