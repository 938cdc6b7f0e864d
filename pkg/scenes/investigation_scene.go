package scenes

import (
	"errors"
	"image/color"
	"log"

	"github.com/decker502/casefile/pkg/config"
	"github.com/decker502/casefile/pkg/game"
	"github.com/decker502/casefile/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	placeholderColor  = color.RGBA{R: 24, G: 26, B: 34, A: 255}
	overlayBoxColor   = color.RGBA{R: 0, G: 0, B: 0, A: config.OverlayBoxAlpha}
	overlayTextColor  = color.RGBA{R: 235, G: 230, B: 215, A: 255}
	hotspotDebugColor = color.RGBA{R: 255, G: 210, B: 60, A: 255}
)

// InvestigationScene 绘制调查场景：背景、特殊叠加图、旁白文本框
// 点击经过热区命中测试后交给 game.Experience 处理
type InvestigationScene struct {
	experience    *game.Experience
	images        ImageLoader
	face          *text.GoTextFace
	debugHotspots bool

	imageCache map[string]*ebiten.Image
	missing    map[string]bool
}

// NewInvestigationScene 创建调查场景
//
// 参数：
//   - experience: 已启动的叙事编排实例
//   - images: 图片加载器，可为 nil（全部使用占位色块）
//   - face: 旁白字体，可为 nil（不绘制文字）
//   - debugHotspots: 是否绘制热区边框
func NewInvestigationScene(experience *game.Experience, images ImageLoader, face *text.GoTextFace, debugHotspots bool) *InvestigationScene {
	return &InvestigationScene{
		experience:    experience,
		images:        images,
		face:          face,
		debugHotspots: debugHotspots,
		imageCache:    make(map[string]*ebiten.Image),
		missing:       make(map[string]bool),
	}
}

// Update 读取本帧点击并推进计时器
func (s *InvestigationScene) Update(deltaTime float64) {
	if press, ok := utils.JustPressedPointer(); ok {
		s.HandlePointer(float64(press.X), float64(press.Y))
	}
	s.experience.Update(deltaTime)
}

// HandlePointer 对当前可见热区做命中测试并分发点击
// 被拒绝的点击只记录日志，不会中断游戏循环
func (s *InvestigationScene) HandlePointer(x, y float64) error {
	frame := s.experience.Frame()
	id, _ := HitTest(frame.Hotspots, x, y)

	err := s.experience.Dispatch(game.PointerEvent{HotspotID: id, X: x, Y: y})
	if err != nil {
		if errors.Is(err, game.ErrTransitionInFlight) {
			log.Printf("[InvestigationScene] Click ignored during transition (%.0f, %.0f)", x, y)
		} else {
			log.Printf("[InvestigationScene] Click rejected (%.0f, %.0f): %v", x, y, err)
		}
	}
	return err
}

// HitTest 返回包含 (x, y) 的最上层热区
// 后声明的热区绘制在上层，因此从后向前查找
func HitTest(hotspots []game.HotspotView, x, y float64) (string, bool) {
	for i := len(hotspots) - 1; i >= 0; i-- {
		if hotspots[i].Region.Contains(x, y) {
			return hotspots[i].ID, true
		}
	}
	return "", false
}

// Draw 绘制当前帧
func (s *InvestigationScene) Draw(screen *ebiten.Image) {
	frame := s.experience.Frame()
	alpha := float32(BackgroundAlpha(frame))

	screen.Fill(color.Black)
	s.drawBackground(screen, frame.Background, alpha)

	if frame.SpecialOverlay != "" {
		s.drawSpecialOverlay(screen, frame.SpecialOverlay)
	}

	if s.debugHotspots {
		for _, h := range frame.Hotspots {
			vector.StrokeRect(screen,
				float32(h.Region.X), float32(h.Region.Y),
				float32(h.Region.Width), float32(h.Region.Height),
				2, hotspotDebugColor, false)
		}
	}

	if frame.OverlayText != "" {
		s.drawOverlayText(screen, frame.OverlayText)
	}
}

// BackgroundAlpha 计算背景透明度
// 过渡第一阶段旧场景淡出，切换场景后新场景淡入
func BackgroundAlpha(frame game.Frame) float64 {
	if frame.Transitioning {
		return utils.FadeOutAlpha(frame.FadeProgress)
	}
	return utils.FadeInAlpha(frame.SinceChange.Seconds(), frame.FadeDuration.Seconds())
}

// drawBackground 绘制铺满屏幕的背景，切换场景后淡入
func (s *InvestigationScene) drawBackground(screen *ebiten.Image, resourceID string, alpha float32) {
	img := s.image(resourceID)
	if img == nil {
		vector.DrawFilledRect(screen, 0, 0,
			float32(config.GameWindowWidth), float32(config.GameWindowHeight),
			scaleAlpha(placeholderColor, alpha), false)
		return
	}

	bounds := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(
		float64(config.GameWindowWidth)/float64(bounds.Dx()),
		float64(config.GameWindowHeight)/float64(bounds.Dy()),
	)
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// drawSpecialOverlay 绘制水平居中的特殊叠加图（证件照）
func (s *InvestigationScene) drawSpecialOverlay(screen *ebiten.Image, resourceID string) {
	x := float64(config.GameWindowWidth-config.SpecialOverlayWidth) / 2
	y := float64(config.SpecialOverlayTop)

	img := s.image(resourceID)
	if img == nil {
		vector.DrawFilledRect(screen, float32(x), float32(y),
			config.SpecialOverlayWidth, config.SpecialOverlayHeight, overlayTextColor, false)
		return
	}

	bounds := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(
		float64(config.SpecialOverlayWidth)/float64(bounds.Dx()),
		float64(config.SpecialOverlayHeight)/float64(bounds.Dy()),
	)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// drawOverlayText 在屏幕底部绘制半透明文本框与打字机文本
func (s *InvestigationScene) drawOverlayText(screen *ebiten.Image, revealed string) {
	if s.face == nil {
		return
	}

	lines := OverlayLines(revealed, s.face)
	boxWidth := float64(config.GameWindowWidth - 2*config.OverlayTextMarginX)
	boxHeight := float64(len(lines)*config.OverlayLineSpacing + 2*config.OverlayTextPadding)
	boxX := float64(config.OverlayTextMarginX)
	boxY := float64(config.GameWindowHeight-config.OverlayTextBottom) - boxHeight

	vector.DrawFilledRect(screen, float32(boxX), float32(boxY), float32(boxWidth), float32(boxHeight), overlayBoxColor, false)

	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(
			boxX+config.OverlayTextPadding,
			boxY+config.OverlayTextPadding+float64(i*config.OverlayLineSpacing),
		)
		op.ColorScale.ScaleWithColor(overlayTextColor)
		text.Draw(screen, line, s.face, op)
	}
}

// OverlayLines 把已显示的旁白前缀按文本框宽度换行
func OverlayLines(revealed string, face *text.GoTextFace) []string {
	maxWidth := float64(config.GameWindowWidth - 2*config.OverlayTextMarginX - 2*config.OverlayTextPadding)
	return utils.WrapText(revealed, face, maxWidth)
}

// image 加载并缓存图片；加载失败的资源只记录一次日志
func (s *InvestigationScene) image(resourceID string) *ebiten.Image {
	if resourceID == "" || s.images == nil || s.missing[resourceID] {
		return nil
	}
	if img, ok := s.imageCache[resourceID]; ok {
		return img
	}

	img, err := s.images.LoadImageByID(resourceID)
	if err != nil {
		log.Printf("[InvestigationScene] Image %s unavailable, using placeholder: %v", resourceID, err)
		s.missing[resourceID] = true
		return nil
	}
	s.imageCache[resourceID] = img
	return img
}

func scaleAlpha(c color.RGBA, alpha float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * alpha),
		G: uint8(float32(c.G) * alpha),
		B: uint8(float32(c.B) * alpha),
		A: uint8(float32(c.A) * alpha),
	}
}
