package config

// 布局配置常量
// 所有坐标使用逻辑屏幕坐标，Ebitengine 负责缩放到实际窗口

const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 960
	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 540
)

// Overlay Text (叙述文字) 布局
const (
	// OverlayTextMarginX 文字框距屏幕左右边缘的距离
	OverlayTextMarginX = 48.0
	// OverlayTextBottom 文字框底部距屏幕底边的距离
	OverlayTextBottom = 40.0
	// OverlayTextPadding 文字框内边距
	OverlayTextPadding = 14.0
	// OverlayFontSize 叙述文字字号
	OverlayFontSize = 20.0
	// OverlayLineSpacing 行距（像素）
	OverlayLineSpacing = 28.0
	// OverlayBoxAlpha 文字框背景不透明度 (0-255)
	OverlayBoxAlpha = 170
)

// Special Overlay (局部揭示图片) 布局
const (
	// SpecialOverlayWidth 叠加图片显示宽度（与原作的证件尺寸一致）
	SpecialOverlayWidth = 280.0
	// SpecialOverlayHeight 叠加图片显示高度
	SpecialOverlayHeight = 175.0
	// SpecialOverlayTop 叠加图片顶部位置
	SpecialOverlayTop = 90.0
)
