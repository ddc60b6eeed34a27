package scenes

import (
	"github.com/gonewx/linepull/pkg/geom"
	"github.com/gonewx/linepull/pkg/utils"
)

// renderCache 按屏幕尺寸缓存视口，关卡切换时失效
type renderCache struct {
	viewport *utils.Viewport
	width    float64
	height   float64
	padding  float64
	aspect   float64
	points   []geom.Vec3
}

func (c *renderCache) invalidate() {
	c.viewport = nil
}

// Viewport 返回适配当前关卡包围盒的视口
//
// 参数:
//   - width, height: 屏幕尺寸
//   - padding: 四周留白
//   - aspect: 水平缩放相对垂直缩放的倍数（终端取 2）
func (s *GameScene) Viewport(width, height, padding, aspect float64) *utils.Viewport {
	c := &s.render
	if c.viewport != nil && c.width == width && c.height == height && c.padding == padding && c.aspect == aspect {
		return c.viewport
	}

	lo, hi := geom.V2(0, 0), geom.V2(1, 1)
	if level := s.level.Level(); level != nil {
		if l, h, ok := level.Bounds(); ok {
			lo, hi = l, h
		}
	}
	c.viewport = utils.NewViewport(lo, hi, width, height, padding, aspect)
	c.width, c.height, c.padding, c.aspect = width, height, padding, aspect
	return c.viewport
}

// ScreenToWorld 把屏幕坐标换算成世界坐标
func (s *GameScene) ScreenToWorld(x, y, width, height, padding, aspect float64) geom.Vec3 {
	return s.Viewport(width, height, padding, aspect).ScreenToWorld(x, y)
}

// linePoints 把折线当前点写入共享缓冲区并返回
// 返回的切片在下一次调用前有效
func (s *GameScene) linePoints(idx int) []geom.Vec3 {
	l := s.registry.LineAt(idx)
	if l == nil {
		return nil
	}
	s.render.points = l.Animation().AppendPoints(s.render.points[:0])
	return s.render.points
}
