// embed.go - 故事数据嵌入声明
// 必须放在项目根目录（与 data/ 同级）
// 因为 //go:embed 指令只能嵌入当前包目录及其子目录的文件
package main

import "embed"

//go:embed data/story.yaml data/resources.yaml
var dataFS embed.FS
