package scenes

import (
	"image/color"

	"github.com/gonewx/linepull/pkg/line"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 桌面端绘制参数
const (
	ScreenPadding   = 48.0
	lineStrokeWidth = 6
	headMarkerSize  = 12
)

var (
	backgroundColor = color.RGBA{R: 24, G: 26, B: 33, A: 255}
	idleColor       = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	retractColor    = color.RGBA{R: 110, G: 220, B: 140, A: 255}
	regrowColor     = color.RGBA{R: 235, G: 90, B: 80, A: 255}
	headColor       = color.RGBA{R: 255, G: 210, B: 80, A: 255}
	textShadowColor = color.RGBA{A: 160}
)

// Draw 绘制所有折线和状态栏
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	bounds := screen.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())
	viewport := s.Viewport(width, height, ScreenPadding, 1)

	for i := 0; i < s.registry.ActiveCount(); i++ {
		l := s.registry.LineAt(i)
		pts := s.linePoints(i)
		if len(pts) < 2 {
			continue
		}

		clr := stateColor(l.State())
		for j := 0; j+1 < len(pts); j++ {
			x0, y0 := viewport.WorldToScreen(pts[j])
			x1, y1 := viewport.WorldToScreen(pts[j+1])
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), lineStrokeWidth, clr, true)
		}

		hx, hy := viewport.WorldToScreen(pts[len(pts)-1])
		vector.DrawFilledRect(screen, float32(hx-headMarkerSize/2), float32(hy-headMarkerSize/2),
			headMarkerSize, headMarkerSize, headColor, true)
	}

	if flash := s.FlashIntensity(); flash > 0 {
		overlay := color.NRGBA{R: 255, G: 40, B: 40, A: uint8(90 * flash)}
		vector.DrawFilledRect(screen, 0, 0, float32(width), float32(height), overlay, false)
	}

	vector.DrawFilledRect(screen, 0, 0, float32(width), 24, textShadowColor, false)
	ebitenutil.DebugPrintAt(screen, s.StatusText(), 8, 4)
}

func stateColor(state line.State) color.Color {
	switch state {
	case line.StateRetractingForward:
		return retractColor
	case line.StateRegrowingBackward:
		return regrowColor
	}
	return idleColor
}
