package main

import (
	"flag"
	"log"
	"os"

	"github.com/decker502/casefile/pkg/app"
	"github.com/decker502/casefile/pkg/config"
	"github.com/decker502/casefile/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verboseFlag       = flag.Bool("verbose", false, "Enable verbose logging")
	sceneFlag         = flag.String("scene", "", "Start from this scene (e.g. purse); empty starts from the story's initial scene")
	debugHotspotsFlag = flag.Bool("debug-hotspots", false, "Outline clickable hotspots")
	assetsFlag        = flag.String("assets", ".", "Directory that contains the assets/ folder")
)

func main() {
	flag.Parse()

	// 故事数据嵌入二进制，素材从磁盘读取
	embedded.Init(os.DirFS(*assetsFlag), dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:       *verboseFlag,
		StartScene:    *sceneFlag,
		DebugHotspots: *debugHotspotsFlag,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Casefile")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("运行错误: %v", err)
	}
}
