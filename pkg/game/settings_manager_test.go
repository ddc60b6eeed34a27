package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestStore 在临时 HOME 下打开 gdata，失败时跳过测试
func openTestStore(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	return m
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings.SoundVolume != 0.8 {
		t.Errorf("SoundVolume: got %v, want 0.8", settings.SoundVolume)
	}
	if !settings.SoundEnabled {
		t.Error("SoundEnabled: got false, want true")
	}
	if !settings.HapticsEnabled {
		t.Error("HapticsEnabled: got false, want true")
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}
	if sm.GetSettings().SoundVolume != 0.8 {
		t.Errorf("Degraded mode SoundVolume: got %v, want 0.8", sm.GetSettings().SoundVolume)
	}

	// 降级模式下 Save() 不报错，Load() 恢复默认值
	sm.SetSoundVolume(0.3)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should return nil, got: %v", err)
	}
	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode should return nil, got: %v", err)
	}
	if sm.GetSettings().SoundVolume != 0.8 {
		t.Errorf("After Load() in degraded mode, SoundVolume: got %v, want 0.8", sm.GetSettings().SoundVolume)
	}
}

// TestSettingsLoadSave 测试 Load() 和 Save() 功能
func TestSettingsLoadSave(t *testing.T) {
	store := openTestStore(t, "linepull_test_settings")

	sm1, _ := NewSettingsManager(store)
	sm1.SetSoundVolume(0.6)
	sm1.SetSoundEnabled(false)
	sm1.SetHapticsEnabled(false)
	sm1.SetFullscreen(true)
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2, _ := NewSettingsManager(store)
	settings := sm2.GetSettings()

	if settings.SoundVolume != 0.6 {
		t.Errorf("Loaded SoundVolume: got %v, want 0.6", settings.SoundVolume)
	}
	if settings.SoundEnabled || settings.HapticsEnabled {
		t.Error("Loaded toggles should be false")
	}
	if !settings.Fullscreen {
		t.Error("Loaded Fullscreen: got false, want true")
	}
}

// TestSettingsPartialFileKeepsDefaults 测试旧设置文件缺少字段时使用默认值
func TestSettingsPartialFileKeepsDefaults(t *testing.T) {
	store := openTestStore(t, "linepull_test_partial")
	if err := store.SaveObjectProp(settingsObject, settingsProperty, []byte("soundVolume: 0.4\n")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	sm, _ := NewSettingsManager(store)
	settings := sm.GetSettings()
	if settings.SoundVolume != 0.4 {
		t.Errorf("SoundVolume: got %v, want 0.4", settings.SoundVolume)
	}
	if !settings.SoundEnabled || !settings.HapticsEnabled {
		t.Error("Missing toggles should default to true")
	}
}

// TestSettingsCorruptFile 测试损坏的设置文件
func TestSettingsCorruptFile(t *testing.T) {
	store := openTestStore(t, "linepull_test_corrupt")
	if err := store.SaveObjectProp(settingsObject, settingsProperty, []byte("soundVolume: [\n")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	sm, err := NewSettingsManager(store)
	if err != nil || sm == nil {
		t.Fatalf("Corrupt settings should not prevent creation: %v", err)
	}
	if sm.GetSettings().SoundVolume != 0.8 {
		t.Errorf("Expected defaults after corrupt file, got %v", sm.GetSettings().SoundVolume)
	}
	if err := sm.Load(); err == nil {
		t.Error("Load() should report the unmarshal error")
	}
}

// TestSetSoundVolumeClamp 测试 SetSoundVolume 范围校验
func TestSetSoundVolumeClamp(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	tests := []struct {
		input    float64
		expected float64
	}{
		{0.5, 0.5},  // 正常值
		{0.0, 0.0},  // 下限
		{1.0, 1.0},  // 上限
		{-0.5, 0.0}, // 低于下限
		{1.5, 1.0},  // 高于上限
	}

	for _, tt := range tests {
		sm.SetSoundVolume(tt.input)
		if sm.GetSettings().SoundVolume != tt.expected {
			t.Errorf("SetSoundVolume(%v): got %v, want %v",
				tt.input, sm.GetSettings().SoundVolume, tt.expected)
		}
	}
}
