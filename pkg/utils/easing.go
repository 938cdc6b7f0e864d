package utils

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
//
// 参考：https://easings.net/

// EaseOutQuad 二次方缓出
// 特点：开始较快，结束慢
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInQuad 二次方缓入
// 特点：开始慢，结束较快
// 公式：f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// Clamp01 将 t 限制在 [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// FadeInAlpha 计算场景切换后的淡入透明度
// 参数：
//   - elapsed: 距离场景切换的时间（秒）
//   - duration: 淡入时长（秒），<= 0 时直接返回 1
//
// 返回：透明度 ∈ [0, 1]，使用 EaseOutQuad 使画面更快出现
func FadeInAlpha(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return EaseOutQuad(Clamp01(elapsed / duration))
}

// FadeOutAlpha 计算过渡第一阶段旧场景的淡出透明度
// 参数：
//   - progress: 第一阶段进度 ∈ [0, 1]
//
// 返回：透明度 ∈ [0, 1]，progress=0 时为 1，progress=1 时为 0
func FadeOutAlpha(progress float64) float64 {
	return 1 - EaseInQuad(Clamp01(progress))
}
