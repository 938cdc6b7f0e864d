// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerPress 描述本帧刚发生的一次点击或触摸
type PointerPress struct {
	X, Y    int
	IsTouch bool
}

// JustPressedPointer 获取本帧刚发生的点击/触摸
// 同时支持鼠标点击和触摸输入，优先检测触摸
//
// 返回：
//   - PointerPress: 点击位置（逻辑坐标，由 Layout 换算）
//   - bool: 本帧是否有新的点击
func JustPressedPointer() (PointerPress, bool) {
	// 首先检查触摸输入（移动设备）
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return PointerPress{X: x, Y: y, IsTouch: true}, true
	}

	// 其次检查鼠标输入（桌面设备）
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return PointerPress{X: x, Y: y}, true
	}

	return PointerPress{}, false
}

// GetPointerPosition 获取当前指针位置（触摸或鼠标）
// 优先返回触摸位置，如果没有触摸则返回鼠标位置
func GetPointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}

// IsKeyJustPressed 检查快捷键是否在本帧刚按下
func IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
