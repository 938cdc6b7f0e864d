//go:build !mobile

// Package mobile 是 ebitenmobile 绑定入口，只在 -tags mobile 下提供真正的实现。
//
// 桌面构建编译本文件，让 cmd 和工具链仍能解析该包。
package mobile

// Dummy 让桌面构建也有一个可引用的导出符号
func Dummy() {}
