package overlay

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII is rasterized into the atlas; anything else renders as '?'.
const (
	firstGlyph   = ' '
	lastGlyph    = '~'
	atlasColumns = 16
	fallback     = '?'
)

// Glyph is one atlas cell: its texture rectangle and how far the pen moves.
type Glyph struct {
	U0, V0, U1, V1 float32
	Advance        int
}

// FontAtlas is a single-channel glyph atlas for a fixed-width bitmap font.
type FontAtlas struct {
	Image      *image.Alpha
	CellWidth  int
	CellHeight int
	LineHeight int

	glyphs map[rune]Glyph
}

// NewFontAtlas rasterizes the 7x13 basic font.
func NewFontAtlas() *FontAtlas {
	face := basicfont.Face7x13
	cellW, cellH := face.Advance, face.Height
	count := int(lastGlyph - firstGlyph + 1)
	rows := (count + atlasColumns - 1) / atlasColumns

	a := &FontAtlas{
		Image:      image.NewAlpha(image.Rect(0, 0, atlasColumns*cellW, rows*cellH)),
		CellWidth:  cellW,
		CellHeight: cellH,
		LineHeight: cellH + 2,
		glyphs:     make(map[rune]Glyph, count),
	}

	d := font.Drawer{Dst: a.Image, Src: image.Opaque, Face: face}
	w, h := float32(a.Image.Rect.Dx()), float32(a.Image.Rect.Dy())
	for i := 0; i < count; i++ {
		r := firstGlyph + rune(i)
		cx, cy := (i%atlasColumns)*cellW, (i/atlasColumns)*cellH
		d.Dot = fixed.P(cx, cy+face.Ascent)
		d.DrawString(string(r))

		a.glyphs[r] = Glyph{
			U0:      float32(cx) / w,
			V0:      float32(cy) / h,
			U1:      float32(cx+cellW) / w,
			V1:      float32(cy+cellH) / h,
			Advance: cellW,
		}
	}
	return a
}

// Glyph returns the cell for r, falling back to '?'.
func (a *FontAtlas) Glyph(r rune) Glyph {
	if g, ok := a.glyphs[r]; ok {
		return g
	}
	return a.glyphs[fallback]
}

// Quad is a screen rectangle (top-left origin, pixels) and its atlas UVs.
type Quad struct {
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
}

// Layout places text with its top-left corner at (x, y). Spaces advance the
// pen without emitting a quad and '\n' starts a new line.
func (a *FontAtlas) Layout(text string, x, y, scale float32) []Quad {
	if scale <= 0 {
		scale = 1
	}
	quads := make([]Quad, 0, len(text))
	penX, penY := x, y
	cw, ch := float32(a.CellWidth)*scale, float32(a.CellHeight)*scale
	for _, r := range text {
		switch r {
		case '\n':
			penX = x
			penY += float32(a.LineHeight) * scale
			continue
		case ' ':
			penX += cw
			continue
		}
		g := a.Glyph(r)
		quads = append(quads, Quad{
			X0: penX, Y0: penY, X1: penX + cw, Y1: penY + ch,
			U0: g.U0, V0: g.V0, U1: g.U1, V1: g.V1,
		})
		penX += float32(g.Advance) * scale
	}
	return quads
}

// Measure returns the width and height of the laid out text in pixels.
func (a *FontAtlas) Measure(text string, scale float32) (w, h float32) {
	if scale <= 0 {
		scale = 1
	}
	lines, cols, maxCols := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			cols = 0
			continue
		}
		cols++
		if cols > maxCols {
			maxCols = cols
		}
	}
	w = float32(maxCols*a.CellWidth) * scale
	h = float32((lines-1)*a.LineHeight+a.CellHeight) * scale
	return w, h
}
