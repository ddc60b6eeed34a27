package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/linepull/pkg/geom"
	"github.com/gonewx/linepull/pkg/line"
	"github.com/gonewx/linepull/pkg/scenes"
)

// 终端绘制参数
const (
	// cellAspect 字符单元高约为宽的两倍
	cellAspect  = 2.0
	cellPadding = 1.0
	// statusRows 顶部状态栏行数
	statusRows = 1
)

var (
	idleStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	retractStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	regrowStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	headStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	statusStyle  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	flashStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
)

// playArea 状态栏以下的绘制区域尺寸
func playArea(screen tcell.Screen) (width, height float64) {
	w, h := screen.Size()
	return float64(w), float64(max(h-statusRows, 1))
}

// cellToWorld 把字符单元坐标换算成世界坐标（取单元中心）
func cellToWorld(screen tcell.Screen, scene *scenes.GameScene, x, y int) geom.Vec3 {
	width, height := playArea(screen)
	return scene.ScreenToWorld(float64(x)+0.5, float64(y-statusRows)+0.5, width, height, cellPadding, cellAspect)
}

// drawScene 绘制状态栏和所有折线
func drawScene(screen tcell.Screen, scene *scenes.GameScene) {
	screen.Clear()

	width, height := playArea(screen)
	viewport := scene.Viewport(width, height, cellPadding, cellAspect)

	registry := scene.Registry()
	for i := 0; i < registry.ActiveCount(); i++ {
		l := registry.LineAt(i)
		pts := l.Points()
		if len(pts) < 2 {
			continue
		}

		style := styleFor(l.State())
		for j := 0; j+1 < len(pts); j++ {
			x0, y0 := viewport.WorldToScreen(pts[j])
			x1, y1 := viewport.WorldToScreen(pts[j+1])
			drawSegment(screen, x0, y0+statusRows, x1, y1+statusRows, style)
		}

		hx, hy := viewport.WorldToScreen(pts[len(pts)-1])
		screen.SetContent(int(math.Floor(hx)), int(math.Floor(hy))+statusRows, '●', nil, headStyle)
	}

	bar := statusStyle
	if scene.FlashIntensity() > 0 {
		bar = flashStyle
	}
	drawText(screen, 0, 0, int(width), scene.StatusText(), bar)
}

// drawSegment 按较长轴逐格采样画线
func drawSegment(screen tcell.Screen, x0, y0, x1, y1 float64, style tcell.Style) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Ceil(max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		screen.SetContent(int(math.Floor(x0)), int(math.Floor(y0)), segmentRune(dx, dy), nil, style)
		return
	}
	r := segmentRune(dx, dy)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		screen.SetContent(int(math.Floor(x0+dx*t)), int(math.Floor(y0+dy*t)), r, nil, style)
	}
}

// segmentRune 水平线用 ─，竖直线用 │，其它用 •
func segmentRune(dx, dy float64) rune {
	switch {
	case math.Abs(dy) < 1e-9 && dx != 0:
		return '─'
	case math.Abs(dx) < 1e-9 && dy != 0:
		return '│'
	}
	return '•'
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= width {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		screen.SetContent(col, y, ' ', nil, style)
	}
}

func styleFor(state line.State) tcell.Style {
	switch state {
	case line.StateRetractingForward:
		return retractStyle
	case line.StateRegrowingBackward:
		return regrowStyle
	}
	return idleStyle
}
