package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/gonewx/linepull/pkg/embedded"
	"github.com/gonewx/linepull/pkg/geom"
	"github.com/gonewx/linepull/pkg/line"
	"gopkg.in/yaml.v3"
)

// 关卡默认值
const (
	LevelsDir                 = "data/levels"
	DefaultLives              = 5
	DefaultResultDelaySeconds = 0.5
)

// LevelConfig 关卡配置数据结构
// 定义了关卡的基本信息、规则和折线几何
type LevelConfig struct {
	ID          string `yaml:"id"`          // 关卡ID，如 "1"
	Name        string `yaml:"name"`        // 关卡名称
	Description string `yaml:"description"` // 关卡描述（可选）

	Lives              int     `yaml:"lives"`              // 初始生命数，默认 5
	TimeLimitSeconds   float64 `yaml:"timeLimitSeconds"`   // 时间限制（秒），0 表示不限时
	ResultDelaySeconds float64 `yaml:"resultDelaySeconds"` // 胜负判定后到公布结果的延迟，默认 0.5

	Lines     []LineSpec `yaml:"lines"`     // 命名折线
	Polylines [][]Point  `yaml:"polylines"` // 原始点序列，lines 为空时使用
}

// LineSpec 单条折线配置
type LineSpec struct {
	Name                string  `yaml:"name"`
	Points              []Point `yaml:"points"`
	Speed               float64 `yaml:"speed"`               // 可选：覆盖默认速度
	DestroyDelaySeconds float64 `yaml:"destroyDelaySeconds"` // 可选：覆盖默认销毁倒计时
}

// Point 点坐标，YAML 中写作 [x, y] 或 [x, y, z]
type Point []float64

// Vec 转换为向量
func (p Point) Vec() geom.Vec3 {
	v := geom.Vec3{}
	if len(p) > 0 {
		v.X = p[0]
	}
	if len(p) > 1 {
		v.Y = p[1]
	}
	if len(p) > 2 {
		v.Z = p[2]
	}
	return v
}

// LevelPath 返回关卡ID对应的配置文件路径
func LevelPath(id string) string {
	return path.Join(LevelsDir, id+".yaml")
}

// LoadLevelConfig 从YAML文件加载关卡配置
// 参数：
//
//	filepath - 关卡配置文件的路径（"data/" 开头时优先从嵌入资源读取）
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}

	cfg, err := ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load level config from %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseLevelConfig 解析YAML数据、应用默认值并验证
func ParseLevelConfig(data []byte) (*LevelConfig, error) {
	var cfg LevelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid level config: %w", err)
	}
	return &cfg, nil
}

// ListLevels 列出嵌入资源中的关卡ID（按文件名排序）
func ListLevels() ([]string, error) {
	matches, err := embedded.Glob(LevelsDir + "/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(path.Base(m), ".yaml"))
	}
	return ids, nil
}

// applyDefaults 为缺失的可选字段设置默认值
func applyDefaults(config *LevelConfig) {
	if config.Lives == 0 {
		config.Lives = DefaultLives
	}
	if config.ResultDelaySeconds == 0 {
		config.ResultDelaySeconds = DefaultResultDelaySeconds
	}
	if config.Name == "" {
		config.Name = config.ID
	}
}

// Validate 验证关卡配置的完整性和合法性
// 点数不足 2 的折线不在这里拒绝：运行时会记录日志并跳过
func (c *LevelConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("level ID is required")
	}
	if c.Lives < 1 {
		return fmt.Errorf("lives must be at least 1, got %d", c.Lives)
	}
	if c.TimeLimitSeconds < 0 {
		return fmt.Errorf("timeLimitSeconds cannot be negative, got %v", c.TimeLimitSeconds)
	}
	if c.ResultDelaySeconds < 0 {
		return fmt.Errorf("resultDelaySeconds cannot be negative, got %v", c.ResultDelaySeconds)
	}
	if len(c.Lines) == 0 && len(c.Polylines) == 0 {
		return fmt.Errorf("at least one line or polyline is required")
	}

	for i, l := range c.Lines {
		if l.Speed < 0 {
			return fmt.Errorf("line %d (%s): speed cannot be negative, got %v", i, l.Name, l.Speed)
		}
		if l.DestroyDelaySeconds < 0 {
			return fmt.Errorf("line %d (%s): destroyDelaySeconds cannot be negative, got %v", i, l.Name, l.DestroyDelaySeconds)
		}
		if err := validatePoints(l.Points); err != nil {
			return fmt.Errorf("line %d (%s): %w", i, l.Name, err)
		}
	}
	for i, pts := range c.Polylines {
		if err := validatePoints(pts); err != nil {
			return fmt.Errorf("polyline %d: %w", i, err)
		}
	}
	return nil
}

func validatePoints(points []Point) error {
	for j, p := range points {
		if len(p) < 2 || len(p) > 3 {
			return fmt.Errorf("point %d must have 2 or 3 coordinates, got %d", j, len(p))
		}
	}
	return nil
}

// Geometry 转换为折线来源
func (c *LevelConfig) Geometry() line.Geometry {
	var g line.Geometry
	for _, l := range c.Lines {
		g.Lines = append(g.Lines, line.Source{
			Name:                l.Name,
			Points:              toVecs(l.Points),
			Speed:               l.Speed,
			DestroyDelaySeconds: l.DestroyDelaySeconds,
		})
	}
	for _, pts := range c.Polylines {
		g.Polylines = append(g.Polylines, toVecs(pts))
	}
	return g
}

// Bounds 返回所有点的二维包围盒，没有点时 ok 为 false
func (c *LevelConfig) Bounds() (lo, hi geom.Vec3, ok bool) {
	visit := func(p Point) {
		v := p.Vec()
		v.Z = 0
		if !ok {
			lo, hi, ok = v, v, true
			return
		}
		lo.X, lo.Y = min(lo.X, v.X), min(lo.Y, v.Y)
		hi.X, hi.Y = max(hi.X, v.X), max(hi.Y, v.Y)
	}
	for _, l := range c.Lines {
		for _, p := range l.Points {
			visit(p)
		}
	}
	for _, pts := range c.Polylines {
		for _, p := range pts {
			visit(p)
		}
	}
	return lo, hi, ok
}

func toVecs(points []Point) []geom.Vec3 {
	out := make([]geom.Vec3, len(points))
	for i, p := range points {
		out[i] = p.Vec()
	}
	return out
}
