package config

import (
	"fmt"

	"github.com/gonewx/linepull/pkg/embedded"
	"github.com/gonewx/linepull/pkg/line"
	"github.com/gonewx/linepull/pkg/pool"
	"gopkg.in/yaml.v3"
)

// DefaultLineConfigPath 默认折线参数文件
const DefaultLineConfigPath = "data/line_config.yaml"

// LineConfig 折线共用参数
// 文件中缺失的字段保持 DefaultLineConfig 的值
type LineConfig struct {
	Speed               float64 `yaml:"speed"`               // 回收/回弹速度（单位/秒）
	DestroyDelaySeconds float64 `yaml:"destroyDelaySeconds"` // 选中后到强制销毁的秒数
	MaxBufferCapacity   int     `yaml:"maxBufferCapacity"`   // 可池化的最大点数组长度
	MaxPooledBuffers    int     `yaml:"maxPooledBuffers"`    // 池中缓冲区总数上限
	TailEpsilon         float64 `yaml:"tailEpsilon"`         // 尾点到达判定距离
	HeadArriveEpsilon   float64 `yaml:"headArriveEpsilon"`   // 回弹完成时头点到达判定距离

	// CollisionLatchPolicy 碰撞锁存策略，目前只支持 "single-fire"
	CollisionLatchPolicy string `yaml:"collisionLatchPolicy"`

	HeadRadius         float64 `yaml:"headRadius"`         // 头部碰撞半径
	SegmentThickness   float64 `yaml:"segmentThickness"`   // 线段碰撞体厚度
	SegmentExtraLength float64 `yaml:"segmentExtraLength"` // 线段碰撞体额外长度（两端各一半）
	PickRadius         float64 `yaml:"pickRadius"`         // 点击容差
	SnapSize           float64 `yaml:"snapSize"`           // 加载时网格吸附尺寸，0 表示不吸附
	VisualZOffset      float64 `yaml:"visualZOffset"`      // 渲染深度偏移，0 表示不写入
}

// DefaultLineConfig 返回默认参数
func DefaultLineConfig() *LineConfig {
	return &LineConfig{
		Speed:                line.DefaultSpeed,
		DestroyDelaySeconds:  line.DefaultDestroyDelaySeconds,
		MaxBufferCapacity:    pool.DefaultMaxArrayLength,
		MaxPooledBuffers:     pool.DefaultMaxPooled,
		TailEpsilon:          line.DefaultTailEpsilon,
		HeadArriveEpsilon:    line.DefaultHeadArriveEpsilon,
		CollisionLatchPolicy: string(line.LatchSingleFire),
		HeadRadius:           line.DefaultHeadRadius,
		SegmentThickness:     0.2,
		SegmentExtraLength:   0.2,
		PickRadius:           line.DefaultPickRadius,
	}
}

// LoadLineConfig 从YAML文件加载折线参数
// 参数：
//
//	filepath - 配置文件路径（"data/" 开头时优先从嵌入资源读取）
//
// 返回：
//
//	*LineConfig - 解析并验证后的参数
//	error - 如果文件读取、解析或验证失败，返回错误信息
func LoadLineConfig(filepath string) (*LineConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read line config file %s: %w", filepath, err)
	}

	cfg, err := ParseLineConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load line config from %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseLineConfig 解析YAML数据，缺失字段使用默认值
func ParseLineConfig(data []byte) (*LineConfig, error) {
	cfg := DefaultLineConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse line config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid line config: %w", err)
	}
	return cfg, nil
}

// Validate 验证参数的合法性
func (c *LineConfig) Validate() error {
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", c.Speed)
	}
	if c.DestroyDelaySeconds <= 0 {
		return fmt.Errorf("destroyDelaySeconds must be positive, got %v", c.DestroyDelaySeconds)
	}
	if c.MaxBufferCapacity < 2 {
		return fmt.Errorf("maxBufferCapacity must be at least 2, got %d", c.MaxBufferCapacity)
	}
	if c.MaxPooledBuffers < 1 {
		return fmt.Errorf("maxPooledBuffers must be at least 1, got %d", c.MaxPooledBuffers)
	}
	if c.TailEpsilon <= 0 {
		return fmt.Errorf("tailEpsilon must be positive, got %v", c.TailEpsilon)
	}
	if c.HeadArriveEpsilon <= 0 {
		return fmt.Errorf("headArriveEpsilon must be positive, got %v", c.HeadArriveEpsilon)
	}
	if line.LatchPolicy(c.CollisionLatchPolicy) != line.LatchSingleFire {
		return fmt.Errorf("unsupported collisionLatchPolicy %q (only %q is supported)", c.CollisionLatchPolicy, line.LatchSingleFire)
	}
	if c.HeadRadius <= 0 {
		return fmt.Errorf("headRadius must be positive, got %v", c.HeadRadius)
	}
	if c.SegmentThickness <= 0 {
		return fmt.Errorf("segmentThickness must be positive, got %v", c.SegmentThickness)
	}
	if c.SegmentExtraLength < 0 {
		return fmt.Errorf("segmentExtraLength cannot be negative, got %v", c.SegmentExtraLength)
	}
	if c.PickRadius <= 0 {
		return fmt.Errorf("pickRadius must be positive, got %v", c.PickRadius)
	}
	if c.SnapSize < 0 {
		return fmt.Errorf("snapSize cannot be negative, got %v", c.SnapSize)
	}
	return nil
}

// Settings 转换为折线参数
func (c *LineConfig) Settings() line.Settings {
	return line.Settings{
		Animation: line.AnimationConfig{
			Speed:             c.Speed,
			TailEpsilon:       c.TailEpsilon,
			HeadArriveEpsilon: c.HeadArriveEpsilon,
			VisualZOffset:     c.VisualZOffset,
		},
		DestroyDelaySeconds: c.DestroyDelaySeconds,
		HeadRadius:          c.HeadRadius,
		PickRadius:          c.PickRadius,
		SnapSize:            c.SnapSize,
	}
}

// NewBufferPool 按参数创建点数组复用池
func (c *LineConfig) NewBufferPool() *pool.BufferPool {
	return pool.NewBufferPool(c.MaxBufferCapacity, c.MaxPooledBuffers)
}
