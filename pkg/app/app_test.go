package app

import (
	"testing"

	"github.com/decker502/casefile/pkg/game"
)

// stubWindow 替换窗口全屏状态读写
func stubWindow(t *testing.T, fullscreen bool) *bool {
	t.Helper()
	state := fullscreen
	origIs, origSet := isFullscreen, setFullscreen
	isFullscreen = func() bool { return state }
	setFullscreen = func(enabled bool) { state = enabled }
	t.Cleanup(func() {
		isFullscreen, setFullscreen = origIs, origSet
	})
	return &state
}

// TestToggleFullscreen_SavesWindowState 保存的设置跟随窗口，而不是翻转旧设置
func TestToggleFullscreen_SavesWindowState(t *testing.T) {
	window := stubWindow(t, false)

	settings := game.NewSettingsManager(nil)
	// 设置与窗口不同步：设置为全屏，窗口却是窗口模式
	settings.SetFullscreen(true)
	a := &App{settings: settings}

	a.toggleFullscreen()

	if !*window {
		t.Fatal("window should be fullscreen after toggle")
	}
	if !settings.GetSettings().Fullscreen {
		t.Error("saved Fullscreen: got false, want true (matches window)")
	}
}
