package systems

import (
	"math"

	"github.com/gonewx/linepull/pkg/components"
	"github.com/gonewx/linepull/pkg/geom"
)

// extendedEndpoints 沿线段方向把两端各延长 ExtraLength/2
func extendedEndpoints(seg *components.SegmentColliderComponent) (geom.Vec3, geom.Vec3) {
	half := seg.ExtraLength / 2
	if half <= 0 {
		return seg.A, seg.B
	}
	dir := seg.B.Sub(seg.A).Normalized2D()
	return seg.A.Sub(dir.Scale(half)), seg.B.Add(dir.Scale(half))
}

// segmentDistance 点到（延长后的）线段中心线的距离
func segmentDistance(p geom.Vec3, seg *components.SegmentColliderComponent) float64 {
	a, b := extendedEndpoints(seg)
	return geom.PointSegmentDistance2D(p, a, b)
}

// segmentBoxHit 点是否落在线段的有向矩形内（四边各放大 margin）
// 命中时返回横向距离，用于在多个命中中选出最近的一段
func segmentBoxHit(p geom.Vec3, seg *components.SegmentColliderComponent, margin float64) (float64, bool) {
	a, b := extendedEndpoints(seg)
	axis := b.Sub(a)
	length := axis.Len2D()
	halfWidth := seg.Thickness/2 + margin

	if length == 0 {
		d := geom.Distance2D(p, a)
		return d, d <= halfWidth
	}

	dir := axis.Scale(1 / length)
	rel := p.Sub(a)
	along := rel.X*dir.X + rel.Y*dir.Y
	across := math.Abs(rel.X*dir.Y - rel.Y*dir.X)
	if along < -margin || along > length+margin || across > halfWidth {
		return 0, false
	}
	return across, true
}
