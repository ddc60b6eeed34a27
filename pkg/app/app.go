// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/gonewx/linepull/internal/audio"
	"github.com/gonewx/linepull/pkg/config"
	"github.com/gonewx/linepull/pkg/game"
	"github.com/gonewx/linepull/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 逻辑屏幕尺寸
const (
	WindowWidth  = 960
	WindowHeight = 640
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定要加载的关卡（如 "2"），为空则按存档选择下一关
	Level string
	// LineConfigPath 折线参数文件
	LineConfigPath string
	// NoAudio 不创建音频上下文
	NoAudio bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	scene           *scenes.GameScene
	settingsManager *game.SettingsManager
	verbose         bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
	touchIDs                 []ebiten.TouchID
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	configPath := cfg.LineConfigPath
	if configPath == "" {
		configPath = config.DefaultLineConfigPath
	}
	lineConfig, err := config.LoadLineConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("折线参数加载失败: %w", err)
	}

	levelIDs, err := config.ListLevels()
	if err != nil {
		return nil, fmt.Errorf("关卡列表加载失败: %w", err)
	}
	if len(levelIDs) == 0 && cfg.Level == "" {
		return nil, fmt.Errorf("没有可用的关卡")
	}

	settingsManager, _ := game.NewSettingsManager(game.OpenStore(game.AppName))

	var saveManager *game.SaveManager
	if dir, err := game.DefaultSaveDir(); err != nil {
		log.Printf("[App] Warning: progress will not be saved: %v", err)
	} else if saveManager, err = game.NewSaveManager(dir); err != nil {
		log.Printf("[App] Warning: progress will not be saved: %v", err)
		saveManager = nil
	}

	var player game.CuePlayer
	if !cfg.NoAudio {
		// 初始化音频上下文
		audioContext := ebitenaudio.NewContext(audio.DefaultSampleRate)
		audioManager := game.NewAudioManager(audioContext, settingsManager)
		audioManager.Preload()
		player = audioManager
		log.Printf("[App] AudioManager initialized")
	}

	scene := scenes.NewGameScene(scenes.GameSceneOptions{
		LineConfig: lineConfig,
		Player:     player,
		Settings:   settingsManager,
		Saves:      saveManager,
		LevelIDs:   levelIDs,
	})

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(levelID string) game.Scene {
		if err := scene.LoadLevelByID(levelID); err != nil {
			log.Printf("[App] Error: %v", err)
			return nil
		}
		return scene
	})

	// 确定加载哪个关卡
	levelToLoad := cfg.Level
	if levelToLoad == "" && saveManager != nil {
		levelToLoad = saveManager.NextLevel(levelIDs)
		log.Printf("[App] Loading from save: next level = %s", levelToLoad)
	}
	if levelToLoad == "" {
		levelToLoad = levelIDs[0]
	}

	log.Printf("[App] Starting level: %s", levelToLoad)
	sceneManager.LoadLevel(levelToLoad)
	if sceneManager.GetCurrentScene() == nil {
		return nil, fmt.Errorf("关卡 %s 加载失败", levelToLoad)
	}

	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager:    sceneManager,
		scene:           scene,
		settingsManager: settingsManager,
		verbose:         cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", WindowWidth, WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	a.handleKeys()
	a.handlePointer()

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// handleKeys F11 全屏，R 重来，M 静音
func (a *App) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		isFullscreen := ebiten.IsFullscreen()
		if isFullscreen {
			// 退出全屏
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
		a.settingsManager.SetFullscreen(!isFullscreen)
		a.saveSettings()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.scene.Restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		enabled := !a.settingsManager.GetSettings().SoundEnabled
		a.settingsManager.SetSoundEnabled(enabled)
		a.saveSettings()
		log.Printf("[App] Sound enabled: %v", enabled)
	}
}

// handlePointer 鼠标左键和触摸都视为点击
func (a *App) handlePointer() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		a.click(x, y)
	}

	a.touchIDs = inpututil.AppendJustPressedTouchIDs(a.touchIDs[:0])
	for _, id := range a.touchIDs {
		x, y := ebiten.TouchPosition(id)
		a.click(x, y)
	}
}

func (a *App) click(x, y int) {
	world := a.scene.ScreenToWorld(float64(x), float64(y), WindowWidth, WindowHeight, scenes.ScreenPadding, 1)
	a.scene.HandleClick(world)
}

func (a *App) saveSettings() {
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// GetSceneManager 返回场景管理器
// 用于在游戏关闭时保存存档
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
