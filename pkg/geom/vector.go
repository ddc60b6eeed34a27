// Package geom 提供折线动画使用的最小向量运算
//
// 所有距离计算只看 X/Y 平面，Z 仅作为渲染深度携带，不参与任何判定。
package geom

import "math"

// Vec3 带深度的二维点（Z 被忽略）
type Vec3 struct {
	X, Y, Z float64
}

// V2 构造 Z=0 的点
func V2(x, y float64) Vec3 {
	return Vec3{X: x, Y: y}
}

// Add 向量加法
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub 向量减法
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale 数乘
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Len2D 平面长度
func (v Vec3) Len2D() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized2D 返回平面单位向量（Z=0）
// 零向量返回零向量
func (v Vec3) Normalized2D() Vec3 {
	l := v.Len2D()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / l, Y: v.Y / l}
}

// WithZ 返回替换深度后的点
func (v Vec3) WithZ(z float64) Vec3 {
	v.Z = z
	return v
}

// Distance2D 两点的平面欧氏距离
func Distance2D(a, b Vec3) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// MoveTowards 将 current 沿直线向 target 移动至多 maxDelta，不会越过 target
//
// 返回值保留 current 的深度。
//
// 参数:
//   - current: 当前位置
//   - target: 目标位置
//   - maxDelta: 本次最大移动距离
//
// 返回:
//   - Vec3: 移动后的位置
func MoveTowards(current, target Vec3, maxDelta float64) Vec3 {
	dx := target.X - current.X
	dy := target.Y - current.Y
	dist := math.Hypot(dx, dy)
	if dist <= maxDelta || dist == 0 {
		return Vec3{X: target.X, Y: target.Y, Z: current.Z}
	}
	return Vec3{
		X: current.X + dx/dist*maxDelta,
		Y: current.Y + dy/dist*maxDelta,
		Z: current.Z,
	}
}

// PointSegmentDistance2D 点 p 到线段 ab 的平面最短距离
func PointSegmentDistance2D(p, a, b Vec3) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return Distance2D(p, a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+abx*t), p.Y-(a.Y+aby*t))
}

// Snap 将点按网格尺寸取整（包括深度）
// size <= 0 时原样返回
func Snap(v Vec3, size float64) Vec3 {
	if size <= 0 {
		return v
	}
	return Vec3{
		X: math.Round(v.X/size) * size,
		Y: math.Round(v.Y/size) * size,
		Z: math.Round(v.Z/size) * size,
	}
}

// ApproxEqual2D 判断两点平面距离是否小于 eps
func ApproxEqual2D(a, b Vec3, eps float64) bool {
	return Distance2D(a, b) < eps
}
