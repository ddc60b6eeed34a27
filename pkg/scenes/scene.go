package scenes

import (
	"github.com/gonewx/linepull/pkg/game"
)

// Scene 场景接口别名，场景实现统一满足 game.Scene
type Scene = game.Scene

// GameScene 需要同时支持场景管理器的逐帧驱动和退出保存
var (
	_ Scene         = (*GameScene)(nil)
	_ game.Saveable = (*GameScene)(nil)
)
