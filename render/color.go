package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a plain 24-bit color
type RGB struct {
	R, G, B uint8
}

// Palette
var (
	RgbBackground   = RGB{26, 27, 38} // Tokyo Night background
	RgbCalm         = RGB{80, 200, 120}
	RgbEnraged      = RGB{255, 70, 70}
	RgbPurple       = RGB{170, 90, 255}
	RgbEscaping     = RGB{120, 170, 255}
	RgbHidden       = RGB{90, 90, 110}
	RgbRevealed     = RGB{100, 150, 255}
	RgbStolen       = RGB{255, 120, 120}
	RgbCompletedRow = RGB{255, 215, 0}
	RgbObstacle     = RGB{45, 47, 64}
	RgbCursor       = RGB{255, 255, 255}
	RgbStatusBar    = RGB{180, 180, 180}
)

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Tcell converts to a true-color tcell.Color
func (c RGB) Tcell() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Blend mixes two colors in Lab space, t=0 is a and t=1 is b
func Blend(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return fromColorful(a.colorful().BlendLab(b.colorful(), t))
}

// AggressionColor fades from calm to enraged as aggression rises, purple worms start from purple
func AggressionColor(level float64, purple bool) RGB {
	base := RgbCalm
	if purple {
		base = RgbPurple
	}
	return Blend(base, RgbEnraged, level)
}

// Dim scales brightness toward the background, factor 1 keeps the color
func Dim(c RGB, factor float64) RGB {
	return Blend(RgbBackground, c, factor)
}
