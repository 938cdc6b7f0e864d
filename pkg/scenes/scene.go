// Package scenes 提供基于 Ebitengine 的渲染层
//
// 渲染层只读取 game.Frame，并把点击换算成 game.PointerEvent；
// 叙事状态全部由 pkg/game 持有。
package scenes

import "github.com/hajimehoshi/ebiten/v2"

// Scene 渲染层场景接口
type Scene interface {
	// Update 推进场景逻辑，deltaTime 单位为秒
	Update(deltaTime float64)
	// Draw 绘制当前帧
	Draw(screen *ebiten.Image)
}

// ImageLoader 按资源 ID 加载图片，由 resources.ResourceManager 实现
type ImageLoader interface {
	LoadImageByID(resourceID string) (*ebiten.Image, error)
}
