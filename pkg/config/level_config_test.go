package config

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gonewx/linepull/pkg/embedded"
	"github.com/gonewx/linepull/pkg/geom"
)

const testLevelYAML = `id: "1"
name: "Crossing"
timeLimitSeconds: 30
lines:
  - name: top
    points: [[0, 0], [2, 0], [2, 2]]
    speed: 6
  - name: bottom
    points: [[0, -1], [3, -1, 0.5]]
    destroyDelaySeconds: 2
`

// TestParseLevelConfig 测试关卡配置解析
func TestParseLevelConfig(t *testing.T) {
	cfg, err := ParseLevelConfig([]byte(testLevelYAML))
	if err != nil {
		t.Fatalf("ParseLevelConfig() failed: %v", err)
	}

	if cfg.ID != "1" || cfg.Name != "Crossing" {
		t.Errorf("Unexpected id/name %q/%q", cfg.ID, cfg.Name)
	}
	if cfg.Lives != DefaultLives {
		t.Errorf("Expected default lives %d, got %d", DefaultLives, cfg.Lives)
	}
	if cfg.ResultDelaySeconds != DefaultResultDelaySeconds {
		t.Errorf("Expected default result delay, got %v", cfg.ResultDelaySeconds)
	}
	if cfg.TimeLimitSeconds != 30 {
		t.Errorf("Expected time limit 30, got %v", cfg.TimeLimitSeconds)
	}

	g := cfg.Geometry()
	if len(g.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(g.Lines))
	}
	if g.Lines[0].Name != "top" || g.Lines[0].Speed != 6 || len(g.Lines[0].Points) != 3 {
		t.Errorf("Unexpected first line: %+v", g.Lines[0])
	}
	if g.Lines[1].DestroyDelaySeconds != 2 {
		t.Errorf("Expected delay override 2, got %v", g.Lines[1].DestroyDelaySeconds)
	}
	if p := g.Lines[1].Points[1]; p != (geom.Vec3{X: 3, Y: -1, Z: 0.5}) {
		t.Errorf("Expected 3D point, got %+v", p)
	}

	lo, hi, ok := cfg.Bounds()
	if !ok || lo != geom.V2(0, -1) || hi != geom.V2(3, 2) {
		t.Errorf("Unexpected bounds %+v %+v", lo, hi)
	}
}

// TestParseLevelConfigPolylines 测试只有原始点序列的关卡
func TestParseLevelConfigPolylines(t *testing.T) {
	cfg, err := ParseLevelConfig([]byte(`id: raw
polylines:
  - [[0, 0], [1, 0]]
  - [[5, 5]]
`))
	if err != nil {
		t.Fatalf("ParseLevelConfig() failed: %v", err)
	}
	if cfg.Name != "raw" {
		t.Errorf("Name should default to id, got %q", cfg.Name)
	}
	g := cfg.Geometry()
	if len(g.Lines) != 0 || len(g.Polylines) != 2 {
		t.Errorf("Expected 2 raw polylines, got %+v", g)
	}
}

// TestLevelConfigValidate 测试关卡验证
func TestLevelConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing id", "lines: [{name: a, points: [[0,0],[1,0]]}]", "level ID"},
		{"no geometry", "id: x", "at least one line"},
		{"negative lives", "id: x\nlives: -1\npolylines: [[[0,0],[1,0]]]", "lives"},
		{"negative time limit", "id: x\ntimeLimitSeconds: -1\npolylines: [[[0,0],[1,0]]]", "timeLimitSeconds"},
		{"bad point", "id: x\nlines: [{name: a, points: [[0],[1,0]]}]", "coordinates"},
		{"negative speed", "id: x\nlines: [{name: a, speed: -1, points: [[0,0],[1,0]]}]", "speed"},
		{"bad raw point", "id: x\npolylines: [[[0,0,0,0]]]", "polyline 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLevelConfig([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadLevelConfigFromDisk 测试从磁盘加载
func TestLoadLevelConfigFromDisk(t *testing.T) {
	path := writeTempFile(t, "1.yaml", testLevelYAML)
	cfg, err := LoadLevelConfig(path)
	if err != nil {
		t.Fatalf("LoadLevelConfig() failed: %v", err)
	}
	if len(cfg.Lines) != 2 {
		t.Errorf("Expected 2 lines, got %d", len(cfg.Lines))
	}

	if _, err := LoadLevelConfig(path + ".missing"); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestLoadLevelConfigEmbedded 测试从嵌入资源加载和列出关卡
func TestLoadLevelConfigEmbedded(t *testing.T) {
	embedded.Init(fstest.MapFS{
		"data/levels/1.yaml": {Data: []byte(testLevelYAML)},
		"data/levels/2.yaml": {Data: []byte("id: \"2\"\npolylines: [[[0,0],[1,1]]]\n")},
	})
	t.Cleanup(func() { embedded.Init(nil) })

	cfg, err := LoadLevelConfig(LevelPath("1"))
	if err != nil {
		t.Fatalf("LoadLevelConfig() failed: %v", err)
	}
	if cfg.Name != "Crossing" {
		t.Errorf("Expected embedded level, got %q", cfg.Name)
	}

	ids, err := ListLevels()
	if err != nil {
		t.Fatalf("ListLevels() failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Errorf("Expected [1 2], got %v", ids)
	}
}
