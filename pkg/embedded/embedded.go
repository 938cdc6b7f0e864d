// Package embedded 提供故事数据与素材的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// 故事数据（data/）的 embed.FS 声明在项目根目录（embed.go）。
// 素材目录（assets/）体积较大，运行时从磁盘挂载（os.DirFS）。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrNotInitialized 在 Init() 之前访问资源时返回
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

var (
	assetsFS    fs.FS
	dataFS      fs.FS
	initialized bool
)

// Init 设置素材与数据文件系统
// 必须在 main() 开始时、任何资源加载之前调用
//
// 参数：
//   - assets: 素材文件系统，路径以 "assets/" 开头，可为 nil（无素材模式）
//   - data: 故事数据文件系统，路径以 "data/" 开头
func Init(assets, data fs.FS) {
	assetsFS = assets
	dataFS = data
	initialized = true
}

// Reset 清除初始化状态（仅供测试使用）
func Reset() {
	assetsFS = nil
	dataFS = nil
	initialized = false
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// resolve 根据路径前缀选择文件系统，返回标准化后的路径
func resolve(path string) (fs.FS, string, error) {
	if !initialized {
		return nil, "", ErrNotInitialized
	}

	// embed.FS 与 fs.FS 统一使用正斜杠
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")

	switch {
	case strings.HasPrefix(path, "assets/"):
		if assetsFS == nil {
			return nil, "", fmt.Errorf("assets not mounted: %s", path)
		}
		return assetsFS, path, nil
	case strings.HasPrefix(path, "data/"):
		if dataFS == nil {
			return nil, "", fmt.Errorf("data not mounted: %s", path)
		}
		return dataFS, path, nil
	}
	return nil, "", fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/' or 'data/')", path)
}

// Open 打开资源文件
// 路径必须以 "assets/" 或 "data/" 开头
func Open(path string) (fs.File, error) {
	fsys, name, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fsys.Open(name)
}

// ReadFile 读取资源文件内容
// 路径必须以 "assets/" 或 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	fsys, name, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, name)
}

// Exists 检查资源文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}
