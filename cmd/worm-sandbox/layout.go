package main

import (
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/algebra-worms/render"
	"github.com/lixenwraith/algebra-worms/symbol"
)

// layoutEquation places text as one centered row of symbols, each rune in its own cell span
func layoutEquation(text string, vp render.Viewport) []symbol.Symbol {
	row := vp.Rows / 2
	col := (vp.Cols - runewidth.StringWidth(text)) / 2
	if col < 0 {
		col = 0
	}

	var out []symbol.Symbol
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		class := symbol.Hidden
		if unicode.IsSpace(r) {
			class = symbol.Space
		}
		out = append(out, symbol.Symbol{
			ID:    len(out) + 1,
			Text:  string(r),
			Class: class,
			Rect:  vp.CellRect(col, row, w, 1),
		})
		col += w
	}
	return out
}
