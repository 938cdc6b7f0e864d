// Package app 提供调查体验应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/casefile/pkg/config"
	"github.com/decker502/casefile/pkg/game"
	"github.com/decker502/casefile/pkg/resources"
	"github.com/decker502/casefile/pkg/scenes"
	"github.com/decker502/casefile/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/quasilyte/gdata/v2"
)

const (
	// AppName gdata 存储目录名
	AppName = "casefile"
	// narrationFontID 旁白字体资源ID，缺失时回退到内置字体
	narrationFontID = "FONT_NARRATION"
	// audioSampleRate 音频采样率
	audioSampleRate = 48000
)

// 窗口全屏状态读写，测试中可替换
var (
	isFullscreen  = ebiten.IsFullscreen
	setFullscreen = ebiten.SetFullscreen
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// StartScene 指定起始场景（如 "purse"），为空则从故事的初始场景开始
	StartScene string
	// DebugHotspots 绘制热区边框
	DebugHotspots bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	experience   *game.Experience
	scene        scenes.Scene
	audioManager *game.AudioManager
	settings     *game.SettingsManager

	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化故事数据与素材。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 用户设置（gdata 不可用时降级为仅内存）
	settings := game.NewSettingsManager(openGdata())

	// 故事数据
	story, err := config.LoadStoryConfig(config.StoryConfigPath)
	if err != nil {
		return nil, fmt.Errorf("故事数据加载失败: %w", err)
	}
	log.Printf("[Config] 加载故事数据: %d 个场景", len(story.SceneIDs()))

	// 资源管理器
	audioContext := audio.NewContext(audioSampleRate)
	resourceManager := resources.NewResourceManager(audioContext)
	if err := resourceManager.LoadResourceConfig(resources.ResourceConfigPath); err != nil {
		return nil, fmt.Errorf("资源配置加载失败: %w", err)
	}

	// 音频管理器
	audioManager := game.NewAudioManager(resourceManager, settings)
	audioManager.PreloadCues(story.Cues)
	audioManager.StartAmbience(story.Ambience.Tracks)
	log.Printf("[App] AudioManager initialized")

	// 叙事编排
	experience := game.NewExperience(story, audioManager)
	if err := experience.Start(config.SceneID(cfg.StartScene)); err != nil {
		experience.Close()
		return nil, fmt.Errorf("起始场景 %q 无效: %w", cfg.StartScene, err)
	}

	face, err := resourceManager.LoadFont(narrationFontID, config.OverlayFontSize)
	if err != nil {
		log.Printf("[App] Warning: Narration font unavailable, overlay text disabled: %v", err)
	}

	if settings.GetSettings().Fullscreen && !utils.IsMobile() {
		setFullscreen(true)
	}

	log.Printf("[App] Starting scene: %s", experience.Scenes().CurrentScene())

	return &App{
		experience:   experience,
		scene:        scenes.NewInvestigationScene(experience, resourceManager, face, cfg.DebugHotspots),
		audioManager: audioManager,
		settings:     settings,
		verbose:      cfg.Verbose,
	}, nil
}

// openGdata 打开跨平台存储；失败时返回 nil
func openGdata() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}

	manager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		return nil
	}
	if path := utils.GetStoragePath(); path != "" {
		log.Printf("[App] Settings storage: %s", path)
	}
	return manager
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏（移动端始终全屏）
	if !utils.IsMobile() && utils.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// M 切换静音
	if utils.IsKeyJustPressed(ebiten.KeyM) {
		a.ToggleMute()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.scene.Update(deltaTime)
	return nil
}

// toggleFullscreen 切换全屏并保存切换后的窗口状态
func (a *App) toggleFullscreen() {
	enable := !isFullscreen()
	if !enable {
		// 退出全屏
		setFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		setFullscreen(true)
	}

	a.settings.SetFullscreen(enable)
	a.saveSettings()
}

// ToggleMute 切换静音并立即应用到环境音
func (a *App) ToggleMute() {
	muted := !a.settings.IsMuted()
	a.settings.SetMuted(muted)
	a.audioManager.RefreshVolumes()
	a.saveSettings()
	log.Printf("[App] Muted: %v", muted)
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings: %v", err)
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.scene.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	// 使用线性滤波绘制画面，提高缩放质量
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 取消所有计时器、停止音频并保存设置
// 窗口关闭时调用，可重复调用
func (a *App) Close() {
	a.experience.Close()
	a.saveSettings()
}

// Experience 返回叙事编排实例
func (a *App) Experience() *game.Experience {
	return a.experience
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
