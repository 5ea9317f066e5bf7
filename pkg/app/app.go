// Package app 提供替换核心的预览程序包装器
//
// 该包把数据加载、模拟宿主、Replacer 和解析状态监视器的装配从 main 包提取出来。
// App 实现 ebiten.Game：每个 tick 推进一个模拟客户端周期，并用调试文字绘制
// 当前装备、外观、动画和规则集。
package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/decker502/transmog/internal/inspect"
	"github.com/decker502/transmog/internal/sim"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/game"
	"github.com/decker502/transmog/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
)

const (
	// WindowWidth 逻辑屏幕宽度
	WindowWidth = 960
	// WindowHeight 逻辑屏幕高度
	WindowHeight = 640

	// TicksPerSecond 宿主客户端每秒 50 个周期
	TicksPerSecond = 50

	// DefaultAppName gdata 存储使用的应用名
	DefaultAppName = "transmog"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// AppName gdata 存储目录名，为空时使用 DefaultAppName
	AppName string
	// InspectorAddr 解析状态监视器监听地址，为空时使用保存的设置；两者都为空则不启动
	InspectorAddr string
	// LoggedOut 以登录界面状态启动
	LoggedOut bool
}

// App 是预览程序的核心包装器，实现 ebiten.Game 接口
type App struct {
	host     *sim.Host
	items    *sim.ItemTable
	casts    *config.ProjectileCastCatalog
	sets     *config.AnimationSetCatalog
	settings *game.SettingsManager
	replacer *game.Replacer

	selection *harnessSelection
	notifier  *harnessNotifier
	panel     *harnessPanel

	player  types.ActorID
	targets []types.ActorID
	target  int

	weaponIndex int
	castIndex   int
	setCursor   int
	// confirmDelete 再按一次 Delete 才真正删除
	confirmDelete bool
	pendingHits   []pendingHit

	inspector *inspect.Inspector
	server    *http.Server
	cancel    context.CancelFunc

	verbose                  bool
	pendingWindowSizeReset   bool
	windowSizeResetCountdown int
}

// pendingHit 到达命中周期时显示在目标身上的图形
type pendingHit struct {
	cycle   int
	target  types.ActorID
	graphic int
}

// NewApp 创建并初始化预览程序
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入数据。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	animationSets, err := config.LoadAnimationSets(config.AnimationSetsPath)
	if err != nil {
		return nil, fmt.Errorf("动画集加载失败: %w", err)
	}
	casts, err := config.LoadProjectileCasts(config.ProjectileCastsPath)
	if err != nil {
		return nil, fmt.Errorf("法术目录加载失败: %w", err)
	}
	itemData, err := config.LoadItemData(config.ItemDataPath)
	if err != nil {
		return nil, fmt.Errorf("物品附加数据加载失败: %w", err)
	}
	items, err := sim.LoadItemTable(sim.ItemsPath)
	if err != nil {
		return nil, fmt.Errorf("物品元数据加载失败: %w", err)
	}
	log.Printf("[App] Loaded %d animation sets, %d projectile casts", len(animationSets.Sets()), len(casts.All()))

	appName := cfg.AppName
	if appName == "" {
		appName = DefaultAppName
	}
	// 存储不可用时降级为仅内存
	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings and transmog sets are memory only)", err)
		gdataManager = nil
	}
	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("设置加载失败: %w", err)
	}
	if cfg.Verbose {
		settings.SetVerbose(true)
	}

	host := sim.NewHost()
	a := &App{
		host:      host,
		items:     items,
		casts:     casts,
		sets:      animationSets,
		settings:  settings,
		selection: newHarnessSelection(items, casts),
		notifier:  &harnessNotifier{},
		panel:     &harnessPanel{},
		verbose:   cfg.Verbose,
	}

	a.replacer = game.NewReplacer(game.ReplacerDeps{
		Client:        host,
		Gear:          host,
		Items:         items,
		AnimationSets: animationSets,
		Casts:         casts,
		ItemData:      itemData,
		Store:         game.NewTransmogSetStore(gdataManager, animationSets),
		Settings:      settings,
		SelectionUI:   a.selection,
		Notifier:      a.notifier,
		Panel:         a.panel,
	})
	host.SetListener(a.replacer)

	a.player = host.SpawnPlayer("Preview", 10, 10)
	a.targets = []types.ActorID{
		host.SpawnNPC("Training dummy", 13, 10, 1),
		host.SpawnNPC("Vorkath", 9, 13, 5),
	}
	host.SetInteracting(a.player, a.targets[0])

	addr := cfg.InspectorAddr
	if addr == "" {
		addr = settings.GetSettings().InspectorAddr
	}
	if addr != "" {
		a.startInspector(addr)
	}

	a.replacer.Start()
	if !cfg.LoggedOut {
		host.SetGameState(types.GameStateLoading)
		host.SetGameState(types.GameStateLoggedIn)
	}

	return a, nil
}

// startInspector 启动解析状态监视器及其 HTTP 服务
func (a *App) startInspector(addr string) {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.inspector = inspect.New(inspect.Config{})
	a.replacer.Observe(a.inspector.Observer(a.host.GameCycle))
	go a.inspector.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", a.inspector.Handle)
	a.server = &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[App] Inspector server stopped: %v", err)
		}
	}()
	log.Printf("[App] Inspector listening on %s/ws", addr)
}

// Close 移除全部替换并停止监视器
func (a *App) Close() {
	a.replacer.Shutdown()
	if a.settings != nil {
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Failed to save settings: %v", err)
		}
	}
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			log.Printf("[App] Inspector shutdown: %v", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
	}
}

// Update 推进一个客户端周期
// 输入先于 tick 处理，与宿主客户端"先处理服务器消息再 tick"的顺序一致
func (a *App) Update() error {
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	a.handleInput()
	a.host.Tick()
	a.applyPendingHits()
	return nil
}

func (a *App) applyPendingHits() {
	cycle := a.host.GameCycle()
	remaining := a.pendingHits[:0]
	for _, hit := range a.pendingHits {
		if cycle >= hit.cycle {
			a.host.ShowGraphic(hit.target, hit.graphic)
			continue
		}
		remaining = append(remaining, hit)
	}
	a.pendingHits = remaining
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// Replacer 返回替换核心（测试和命令行工具使用）
func (a *App) Replacer() *game.Replacer {
	return a.replacer
}

// Host 返回模拟宿主
func (a *App) Host() *sim.Host {
	return a.host
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
