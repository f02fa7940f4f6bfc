// Package render draws simulation snapshots onto a tcell screen
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/cursor"
	"github.com/lixenwraith/algebra-worms/engine"
	"github.com/lixenwraith/algebra-worms/symbol"
)

// Scene is everything one draw call needs
type Scene struct {
	Snapshot  engine.Snapshot
	Cursor    cursor.State
	Obstacles []core.Rect
	Hud       string // drawn in the top-left corner, see HudRect
}

// Renderer paints scenes; the bottom row is reserved for the status bar
type Renderer struct {
	screen tcell.Screen
	arena  core.Rect
	vp     Viewport
}

// NewRenderer creates a renderer for the arena
func NewRenderer(screen tcell.Screen, arena core.Rect) *Renderer {
	r := &Renderer{screen: screen, arena: arena}
	r.Resize()
	return r
}

// Resize re-reads the screen size
func (r *Renderer) Resize() {
	cols, rows := r.screen.Size()
	r.vp = NewViewport(r.arena, cols, rows-1)
}

// SetArena changes the simulated area the grid covers
func (r *Renderer) SetArena(arena core.Rect) {
	r.arena = arena
	r.Resize()
}

// Viewport returns the current projection
func (r *Renderer) Viewport() Viewport {
	return r.vp
}

// Draw renders the scene and shows it
func (r *Renderer) Draw(sc Scene) {
	bg := tcell.StyleDefault.Background(RgbBackground.Tcell())
	r.screen.SetStyle(bg)
	r.screen.Clear()

	r.drawObstacles(sc.Obstacles)
	r.drawSymbols(sc.Snapshot.Symbols)
	r.drawWorms(sc.Snapshot.Worms)
	r.drawCursor(sc.Cursor)
	r.drawText(0, 0, sc.Hud, tcell.StyleDefault.Foreground(RgbStatusBar.Tcell()).Background(RgbObstacle.Tcell()))
	r.drawStatus(sc.Snapshot)

	r.screen.Show()
}

func (r *Renderer) drawObstacles(rects []core.Rect) {
	style := tcell.StyleDefault.Background(RgbObstacle.Tcell())
	for _, rect := range rects {
		c0, r0, _ := r.vp.ToCell(rect.Left, rect.Top)
		c1, r1, _ := r.vp.ToCell(rect.Right-1e-6, rect.Bottom-1e-6)
		for y := max(r0, 0); y <= min(r1, r.vp.Rows-1); y++ {
			for x := max(c0, 0); x <= min(c1, r.vp.Cols-1); x++ {
				r.screen.SetContent(x, y, ' ', nil, style)
			}
		}
	}
}

// HudRect is the arena area the hud text covers, for registering it as an obstacle
func (r *Renderer) HudRect(hud string) core.Rect {
	return r.vp.CellRect(0, 0, runewidth.StringWidth(hud), 1)
}

// SymbolColor returns the color a symbol class draws in
func SymbolColor(c symbol.Class) RGB {
	switch c {
	case symbol.Revealed:
		return RgbRevealed
	case symbol.Stolen:
		return RgbStolen
	case symbol.CompletedRow:
		return RgbCompletedRow
	}
	return RgbHidden
}

func (r *Renderer) drawSymbols(symbols []symbol.Symbol) {
	bg := RgbBackground.Tcell()
	for _, s := range symbols {
		if s.Class == symbol.Space {
			continue
		}
		text := s.Text
		if s.Class == symbol.Hidden {
			text = "?"
		}
		center := s.Center()
		col, row, ok := r.vp.ToCell(center.X, center.Y)
		if !ok {
			continue
		}
		col -= runewidth.StringWidth(text) / 2
		style := tcell.StyleDefault.Foreground(SymbolColor(s.Class).Tcell()).Background(bg)
		if s.Class == symbol.Stolen {
			style = style.StrikeThrough(true)
		}
		r.drawText(col, row, text, style)
	}
}

// WormGlyph picks a head glyph pointing along the heading
func WormGlyph(heading float64) rune {
	arrows := [...]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}
	oct := int(math.Round(heading/(math.Pi/4))) % 8
	if oct < 0 {
		oct += 8
	}
	return arrows[oct]
}

// WormColor combines state and aggression into the draw color
func WormColor(w engine.WormView) RGB {
	if w.Escaping {
		return RgbEscaping
	}
	return AggressionColor(w.Aggression, w.Purple)
}

func (r *Renderer) drawWorms(worms []engine.WormView) {
	bg := RgbBackground.Tcell()
	for _, w := range worms {
		col, row, ok := r.vp.ToCell(w.X, w.Y)
		if !ok {
			continue
		}
		color := WormColor(w)

		// Tail segment trails opposite the heading and sways with the crawl phase
		cw, ch := r.vp.CellSize()
		sway := math.Sin(w.CrawlPhase) * 0.5
		tx := w.X - math.Cos(w.Heading)*cw - math.Sin(w.Heading)*sway*cw
		ty := w.Y - math.Sin(w.Heading)*ch + math.Cos(w.Heading)*sway*ch
		if tc, tr, ok := r.vp.ToCell(tx, ty); ok && (tc != col || tr != row) {
			r.screen.SetContent(tc, tr, '•', nil, tcell.StyleDefault.Foreground(Dim(color, 0.6).Tcell()).Background(bg))
		}

		style := tcell.StyleDefault.Foreground(color.Tcell()).Background(bg).Bold(true)
		r.screen.SetContent(col, row, WormGlyph(w.Heading), nil, style)
	}
}

func (r *Renderer) drawCursor(c cursor.State) {
	if !c.IsActive {
		return
	}
	col, row, ok := r.vp.ToCell(c.X, c.Y)
	if !ok {
		return
	}
	mainc, comb, _, _ := r.screen.GetContent(col, row)
	r.screen.SetContent(col, row, mainc, comb, tcell.StyleDefault.Foreground(RgbCursor.Tcell()).Reverse(true))
}

func (r *Renderer) drawStatus(snap engine.Snapshot) {
	_, rows := r.screen.Size()
	line := fmt.Sprintf(" worms %d  queue %d  frame %d", len(snap.Worms), snap.QueueDepth, snap.Frame)
	if snap.Armed != "" {
		line += "  armed " + snap.Armed
	}
	if len(snap.LockedSlots) > 0 {
		line += fmt.Sprintf("  slots %v", snap.LockedSlots)
	}
	line = runewidth.Truncate(line, r.vp.Cols, "…")
	r.drawText(0, rows-1, line, tcell.StyleDefault.Foreground(RgbStatusBar.Tcell()).Background(RgbBackground.Tcell()))
}

// drawText writes a string cell by cell, advancing by rune display width
func (r *Renderer) drawText(col, row int, text string, style tcell.Style) {
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col >= 0 && col < r.vp.Cols {
			r.screen.SetContent(col, row, ch, nil, style)
		}
		col += w
	}
}
