// Package utils 提供宿主共用的工具函数
//
// viewport.go 负责世界坐标与屏幕坐标的互相转换。
//
// # 坐标系统概述
//
//   - **世界坐标**：关卡配置中的点坐标，Y 轴向上，深度（Z）不参与转换
//   - **屏幕坐标**：相对于窗口（或终端）左上角，Y 轴向下
//
// # 核心转换公式
//
//	screenX = worldX * scaleX + originX
//	screenY = top + (maxY - worldY) * scaleY
//
// 其中 scaleX = scaleY * aspect。终端字符单元高约为宽的两倍，aspect 取 2
// 才能让世界中的正方形看起来仍是正方形；桌面端 aspect 为 1。
package utils

import (
	"github.com/gonewx/linepull/pkg/geom"
)

// minWorldExtent 包围盒退化（单点或一条直线）时使用的最小跨度
const minWorldExtent = 1.0

// Viewport 把世界包围盒等比缩放并居中到屏幕区域
type Viewport struct {
	scaleX, scaleY float64
	originX        float64
	top            float64
	maxY           float64
}

// NewViewport 创建视口
//
// 参数:
//   - lo, hi: 世界包围盒
//   - screenW, screenH: 屏幕尺寸（像素或字符单元）
//   - padding: 四周留白（屏幕单位）
//   - aspect: 水平缩放相对垂直缩放的倍数（<= 0 时按 1 处理）
//
// 返回:
//   - *Viewport: 视口
func NewViewport(lo, hi geom.Vec3, screenW, screenH, padding, aspect float64) *Viewport {
	if aspect <= 0 {
		aspect = 1
	}

	worldW := hi.X - lo.X
	worldH := hi.Y - lo.Y
	if worldW < minWorldExtent {
		lo.X -= (minWorldExtent - worldW) / 2
		worldW = minWorldExtent
	}
	if worldH < minWorldExtent {
		lo.Y -= (minWorldExtent - worldH) / 2
		worldH = minWorldExtent
	}

	availW := max(screenW-2*padding, 1)
	availH := max(screenH-2*padding, 1)
	scaleY := min(availW/(worldW*aspect), availH/worldH)
	scaleX := scaleY * aspect

	return &Viewport{
		scaleX:  scaleX,
		scaleY:  scaleY,
		originX: (screenW-worldW*scaleX)/2 - lo.X*scaleX,
		top:     (screenH - worldH*scaleY) / 2,
		maxY:    lo.Y + worldH,
	}
}

// WorldToScreen 世界坐标转换为屏幕坐标
func (v *Viewport) WorldToScreen(p geom.Vec3) (screenX, screenY float64) {
	screenX = p.X*v.scaleX + v.originX
	screenY = v.top + (v.maxY-p.Y)*v.scaleY
	return screenX, screenY
}

// ScreenToWorld 屏幕坐标转换为世界坐标（Z 为 0）
func (v *Viewport) ScreenToWorld(screenX, screenY float64) geom.Vec3 {
	return geom.V2(
		(screenX-v.originX)/v.scaleX,
		v.maxY-(screenY-v.top)/v.scaleY,
	)
}

// Scale 世界单位对应的屏幕长度（水平，垂直）
func (v *Viewport) Scale() (scaleX, scaleY float64) {
	return v.scaleX, v.scaleY
}
