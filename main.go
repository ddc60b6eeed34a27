package main

import (
	"flag"
	"log"

	"github.com/gonewx/linepull/pkg/app"
	"github.com/gonewx/linepull/pkg/config"
	"github.com/gonewx/linepull/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	level := flag.String("level", "", "level ID to start (default: next level from save)")
	configPath := flag.String("config", config.DefaultLineConfigPath, "line tunables YAML file")
	noAudio := flag.Bool("no-audio", false, "disable sound cues")
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:        *verbose,
		Level:          *level,
		LineConfigPath: *configPath,
		NoAudio:        *noAudio,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Line Pull")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}

	if !gameApp.GetSceneManager().SaveOnExit() {
		log.Printf("[main] Warning: failed to save progress on exit")
	}
}
