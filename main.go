package main

import (
	"flag"
	"log"
	"os"

	"github.com/decker502/transmog/pkg/app"
	"github.com/decker502/transmog/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose       = flag.Bool("verbose", false, "详细日志")
	appName       = flag.String("app", app.DefaultAppName, "gdata 存储目录名（区分不同的规则集配置）")
	inspectorAddr = flag.String("inspector", "", "解析状态监视器监听地址，如 localhost:8090")
	loggedOut     = flag.Bool("logged-out", false, "以登录界面状态启动")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	previewApp, err := app.NewApp(app.Config{
		Verbose:       *verbose,
		AppName:       *appName,
		InspectorAddr: *inspectorAddr,
		LoggedOut:     *loggedOut,
	})
	if err != nil {
		log.Fatalf("预览程序初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Transmog Preview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(app.TicksPerSecond)

	os.Exit(run(previewApp, ebiten.RunGame))
}

// previewGame 可关闭的预览程序
type previewGame interface {
	ebiten.Game
	Close()
}

// run 运行主循环，无论是否出错都先关闭预览程序（保存设置、停止监视器）再返回退出码
func run(g previewGame, runGame func(ebiten.Game) error) int {
	err := runGame(g)
	g.Close()
	if err != nil {
		log.Printf("[Main] 主循环异常退出: %v", err)
		return 1
	}
	return 0
}
