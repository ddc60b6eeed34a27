package game

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// SaveFileName 进度存档文件名
const SaveFileName = "progress.yaml"

// SaveData 保存数据结构
//
// 保存内容：
//   - 已通过的关卡及通过时剩余的最多生命
//   - 最近一次游玩的关卡
type SaveData struct {
	LastLevel string         `yaml:"lastLevel"` // 最近一次进入的关卡ID
	Completed map[string]int `yaml:"completed"` // 关卡ID -> 通关时剩余生命的最好成绩
}

// SaveManager 保存管理器
//
// 职责：
//   - 加载和保存关卡进度
//   - 记录通关与最好成绩
//   - 根据关卡列表选出下一关
//
// 数据持久化到本地 YAML 文件（与项目其他配置文件保持一致）。
type SaveManager struct {
	saveDir string
	data    *SaveData
}

// DefaultSaveDir 默认存档目录（用户配置目录下的应用目录）
func DefaultSaveDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// NewSaveManager 创建保存管理器
//
// 参数：
//   - saveDir: 保存文件目录路径
//
// 返回：
//   - *SaveManager: 新创建的保存管理器实例
//   - error: 如果目录无法创建或存档损坏返回错误
func NewSaveManager(saveDir string) (*SaveManager, error) {
	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}

	sm := &SaveManager{
		saveDir: saveDir,
		data:    newSaveData(),
	}

	if err := sm.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load save data: %w", err)
	}
	return sm, nil
}

func newSaveData() *SaveData {
	return &SaveData{Completed: make(map[string]int)}
}

func (sm *SaveManager) saveFilePath() string {
	return filepath.Join(sm.saveDir, SaveFileName)
}

// Load 从文件加载保存数据
//
// 返回：
//   - error: 文件不存在时返回 os.ErrNotExist（保持默认数据）
func (sm *SaveManager) Load() error {
	data, err := os.ReadFile(sm.saveFilePath())
	if err != nil {
		return err
	}

	saveData := newSaveData()
	if err := yaml.Unmarshal(data, saveData); err != nil {
		return fmt.Errorf("failed to parse save data: %w", err)
	}
	if saveData.Completed == nil {
		saveData.Completed = make(map[string]int)
	}

	sm.data = saveData
	return nil
}

// Save 保存数据到文件
func (sm *SaveManager) Save() error {
	data, err := yaml.Marshal(sm.data)
	if err != nil {
		return fmt.Errorf("failed to marshal save data: %w", err)
	}
	if err := os.WriteFile(sm.saveFilePath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return nil
}

// MarkCompleted 记录通关，只保留剩余生命最多的成绩
func (sm *SaveManager) MarkCompleted(levelID string, livesLeft int) {
	if levelID == "" {
		return
	}
	if best, ok := sm.data.Completed[levelID]; ok && best >= livesLeft {
		return
	}
	sm.data.Completed[levelID] = livesLeft
}

// IsCompleted 关卡是否已通过
func (sm *SaveManager) IsCompleted(levelID string) bool {
	_, ok := sm.data.Completed[levelID]
	return ok
}

// BestLives 通关时剩余生命的最好成绩
func (sm *SaveManager) BestLives(levelID string) (int, bool) {
	lives, ok := sm.data.Completed[levelID]
	return lives, ok
}

// CompletedCount 已通过的关卡数
func (sm *SaveManager) CompletedCount() int {
	return len(sm.data.Completed)
}

// GetLastLevel 最近一次进入的关卡
func (sm *SaveManager) GetLastLevel() string {
	return sm.data.LastLevel
}

// SetLastLevel 记录最近一次进入的关卡
func (sm *SaveManager) SetLastLevel(levelID string) {
	if levelID != "" {
		sm.data.LastLevel = levelID
	}
}

// NextLevel 在关卡列表中选出下一关
//
// 优先返回最近关卡之后的第一个未通过关卡；都已通过时返回最近关卡的下一个（循环）。
// 列表为空返回空字符串。
func (sm *SaveManager) NextLevel(levelIDs []string) string {
	if len(levelIDs) == 0 {
		return ""
	}
	start := slices.Index(levelIDs, sm.data.LastLevel)
	for i := 1; i <= len(levelIDs); i++ {
		id := levelIDs[(start+i)%len(levelIDs)]
		if !sm.IsCompleted(id) {
			return id
		}
	}
	return levelIDs[(start+1)%len(levelIDs)]
}
