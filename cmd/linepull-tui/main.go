// linepull-tui 终端版本
//
// 用 tcell 绘制折线、接收鼠标点击，用 beep 播放提示音。
// 关卡和参数从 -root 指定目录下的 data/ 读取。
//
//	go run ./cmd/linepull-tui -level 2
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/linepull/pkg/config"
	"github.com/gonewx/linepull/pkg/embedded"
	"github.com/gonewx/linepull/pkg/game"
	"github.com/gonewx/linepull/pkg/scenes"
)

// tickInterval 约 60 FPS
const tickInterval = 16 * time.Millisecond

func main() {
	root := flag.String("root", ".", "directory containing data/")
	level := flag.String("level", "", "level ID to start (default: next level from save)")
	configPath := flag.String("config", config.DefaultLineConfigPath, "line tunables YAML file")
	verbose := flag.Bool("verbose", false, "write logs to linepull-tui.log")
	noAudio := flag.Bool("no-audio", false, "disable sound cues")
	flag.Parse()

	if *verbose {
		f, err := os.OpenFile("linepull-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	embedded.Init(os.DirFS(*root))

	g, err := newTUIGame(*level, *configPath, !*noAudio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linepull-tui: %v\n", err)
		os.Exit(1)
	}
	defer g.close()

	g.run()
}

// tuiGame 终端宿主：tick 源、输入和绘制
type tuiGame struct {
	screen   tcell.Screen
	scene    *scenes.GameScene
	cues     *beepCuePlayer
	settings *game.SettingsManager

	buttonDown bool
	lastTick   time.Time
}

func newTUIGame(levelID, configPath string, enableAudio bool) (*tuiGame, error) {
	lineConfig, err := config.LoadLineConfig(configPath)
	if err != nil {
		return nil, err
	}
	levelIDs, err := config.ListLevels()
	if err != nil {
		return nil, err
	}
	if len(levelIDs) == 0 && levelID == "" {
		return nil, fmt.Errorf("no levels found under data/levels")
	}

	settings, _ := game.NewSettingsManager(game.OpenStore(game.AppName))

	var saves *game.SaveManager
	if dir, err := game.DefaultSaveDir(); err == nil {
		if saves, err = game.NewSaveManager(dir); err != nil {
			log.Printf("[TUI] Warning: progress will not be saved: %v", err)
			saves = nil
		}
	}

	cues := newBeepCuePlayer(settings, enableAudio)
	scene := scenes.NewGameScene(scenes.GameSceneOptions{
		LineConfig: lineConfig,
		Player:     cues,
		Settings:   settings,
		Saves:      saves,
		LevelIDs:   levelIDs,
	})

	if levelID == "" && saves != nil {
		levelID = saves.NextLevel(levelIDs)
	}
	if levelID == "" {
		levelID = levelIDs[0]
	}
	if err := scene.LoadLevelByID(levelID); err != nil {
		cues.Close()
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		cues.Close()
		return nil, err
	}
	if err := screen.Init(); err != nil {
		cues.Close()
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()

	return &tuiGame{
		screen:   screen,
		scene:    scene,
		cues:     cues,
		settings: settings,
		lastTick: time.Now(),
	}, nil
}

func (g *tuiGame) run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !g.handleEvent(ev) {
				return
			}

		case now := <-ticker.C:
			deltaTime := now.Sub(g.lastTick).Seconds()
			g.lastTick = now
			// 终端被挂起后恢复时不要一次推进太多
			g.scene.Update(min(deltaTime, 0.1))
			drawScene(g.screen, g.scene)
			g.screen.Show()
		}
	}
}

// handleEvent 返回 false 表示退出
func (g *tuiGame) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			g.scene.Continue()
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				g.scene.Restart()
			case 'm':
				enabled := !g.settings.GetSettings().SoundEnabled
				g.settings.SetSoundEnabled(enabled)
				if err := g.settings.Save(); err != nil {
					log.Printf("[TUI] Warning: failed to save settings: %v", err)
				}
			case ' ':
				g.scene.Continue()
			}
		}

	case *tcell.EventMouse:
		pressed := ev.Buttons()&tcell.Button1 != 0
		if pressed && !g.buttonDown {
			x, y := ev.Position()
			g.scene.HandleClick(cellToWorld(g.screen, g.scene, x, y))
		}
		g.buttonDown = pressed

	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

func (g *tuiGame) close() {
	if !g.scene.SaveOnExit() {
		log.Printf("[TUI] Warning: failed to save progress on exit")
	}
	g.scene.Close()
	g.screen.Fini()
	g.cues.Close()
}
