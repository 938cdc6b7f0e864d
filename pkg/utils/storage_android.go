//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SettingsObjectDir 是 gdata 存放用户设置对象的子目录名
// 与 game.SettingsManager 使用的对象键一致
const SettingsObjectDir = "settings"

// EnsureStorageDir 在打开 gdata 前准备 Android 设置目录
// gdata 在 Android 上把每个对象存放在 /data/data/{package}/{object}/ 下。
// 这里预先创建 settings 目录并确认可写，失败时调用方降级为仅内存设置。
//
// 返回：
//   - error: 目录无法创建或不可写时返回错误
func EnsureStorageDir() error {
	root := GetStoragePath()
	if root == "" {
		return fmt.Errorf("failed to detect Android package name")
	}

	dir := filepath.Join(root, SettingsObjectDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".writable")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)
	return nil
}

// GetStoragePath 返回 gdata 在 Android 上的数据根目录 /data/data/{package}
// 包名无法识别时返回空字符串
func GetStoragePath() string {
	pkg, err := androidPackageName()
	if err != nil {
		return ""
	}
	return filepath.Join("/data/data", pkg)
}

// androidPackageName 从 /proc/self/cmdline 读取当前进程的包名
// cmdline 以 NUL 分隔参数，包名是第一个参数
func androidPackageName() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	name, _, _ := strings.Cut(string(data), "\x00")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty /proc/self/cmdline")
	}
	return name, nil
}
