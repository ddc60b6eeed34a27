package components

import (
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/geom"
)

// PolylineComponent 标记实体为一条可回收折线
// 折线本身的状态由 line.Line 持有，此组件只作为 ECS 侧的标签和几何参数
type PolylineComponent struct {
	Name       string  // 折线名称（关卡配置中的名字或自动生成）
	HeadRadius float64 // 头部碰撞半径（世界单位）
}

// ParentComponent 实体层级关系
// 线段碰撞体挂在折线实体下，折线实体挂在关卡根实体下
type ParentComponent struct {
	Parent ecs.EntityID // 父实体ID
}

// SegmentColliderComponent 折线的一段碰撞体
// 以 A、B 两端点定义的有向矩形：长度为 |AB| + ExtraLength，宽度为 Thickness
type SegmentColliderComponent struct {
	Index       int       // 在折线中的段序号（0 为尾段）
	A           geom.Vec3 // 起点
	B           geom.Vec3 // 终点
	Thickness   float64   // 碰撞体厚度
	ExtraLength float64   // 两端总共额外延长的长度
}
