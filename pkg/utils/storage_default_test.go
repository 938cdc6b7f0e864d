//go:build !android

package utils

import "testing"

// TestStorage_DesktopLeavesPathToGdata 桌面端不预建目录，也不推导设置路径
func TestStorage_DesktopLeavesPathToGdata(t *testing.T) {
	if err := EnsureStorageDir(); err != nil {
		t.Errorf("EnsureStorageDir() = %v, want nil", err)
	}
	if got := GetStoragePath(); got != "" {
		t.Errorf("GetStoragePath() = %q, want empty", got)
	}
}
