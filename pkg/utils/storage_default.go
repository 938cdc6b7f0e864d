//go:build !android

package utils

// EnsureStorageDir 桌面端无需准备：gdata 打开时自行创建
// ~/.local/share/casefile 或 %AppData%\casefile
func EnsureStorageDir() error {
	return nil
}

// GetStoragePath 桌面端由 gdata 决定设置目录，这里不重复推导，返回空字符串
func GetStoragePath() string {
	return ""
}
