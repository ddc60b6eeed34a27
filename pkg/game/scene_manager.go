package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于创建指定ID的关卡场景，避免循环依赖
type SceneFactory func(levelID string) Scene

// SceneManager 管理当前活动场景
// 任意时刻只有一个场景的 Update 和 Draw 被调用
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory // 场景工厂函数，用于创建新场景
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换活动场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadLevel 加载指定ID的关卡场景
// levelID: 关卡ID，如 "1", "2"
func (sm *SceneManager) LoadLevel(levelID string) {
	log.Printf("[SceneManager] Loading level: %s", levelID)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Error: scene factory is not set")
		return
	}

	newScene := sm.sceneFactory(levelID)
	if newScene != nil {
		sm.SwitchTo(newScene)
		log.Printf("[SceneManager] Switched to level: %s", levelID)
	} else {
		log.Printf("[SceneManager] Error: failed to create scene for level: %s", levelID)
	}
}

// SaveOnExit 当前场景支持保存时调用其 SaveOnExit
// 没有场景或场景不需要保存时返回 true
func (sm *SceneManager) SaveOnExit() bool {
	if saveable, ok := sm.currentScene.(Saveable); ok {
		return saveable.SaveOnExit()
	}
	return true
}

// Update 推进当前场景，没有活动场景时为空操作
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景，没有活动场景时为空操作
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
