package report

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Rasterizer renders a prepared surface to a bitmap.
type Rasterizer interface {
	Rasterize(ctx context.Context, s *Surface) (image.Image, error)
}

// RasterizerFunc adapts a function to Rasterizer.
type RasterizerFunc func(ctx context.Context, s *Surface) (image.Image, error)

func (f RasterizerFunc) Rasterize(ctx context.Context, s *Surface) (image.Image, error) {
	return f(ctx, s)
}

const (
	rowHeight    = 22
	headerHeight = 64
	cellPadding  = 8

	// DefaultMaxRasterRows keeps a 2400px wide bitmap under ~110 MB.
	DefaultMaxRasterRows = 500
)

// TableRasterizer draws the surface as a plain grid with the fixed 7x13
// bitmap font. It needs no rendering environment.
type TableRasterizer struct {
	Face font.Face
	// MaxRows refuses larger surfaces; 0 means DefaultMaxRasterRows.
	MaxRows int
}

// NewTableRasterizer returns a rasterizer using basicfont.
func NewTableRasterizer() *TableRasterizer {
	return &TableRasterizer{Face: basicfont.Face7x13, MaxRows: DefaultMaxRasterRows}
}

func (t *TableRasterizer) Rasterize(ctx context.Context, s *Surface) (image.Image, error) {
	if s == nil {
		return nil, ErrSurfaceUnavailable
	}
	if s.Width <= 0 || len(s.Columns) == 0 {
		return nil, fmt.Errorf("surface has no layout (width %d, %d columns)", s.Width, len(s.Columns))
	}
	maxRows := t.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRasterRows
	}
	if len(s.Rows) > maxRows {
		return nil, fmt.Errorf("%d rows exceed the %d row image limit, narrow the filter or export csv", len(s.Rows), maxRows)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	face := t.Face
	if face == nil {
		face = basicfont.Face7x13
	}

	height := headerHeight + rowHeight*(len(s.Rows)+1) + cellPadding
	img := image.NewRGBA(image.Rect(0, 0, s.Width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Face: face}
	ink := parseHex(ColorText)
	drawText(d, s.Header.Title, cellPadding, 24, ink, true)
	drawText(d, s.Header.Subtitle, cellPadding, 44, parseHex("#64748b"), false)

	colWidth := s.Width / len(s.Columns)
	y := headerHeight
	fillRect(img, image.Rect(0, y, s.Width, y+rowHeight), parseHex("#f0f0f0"))
	for i, name := range s.Columns {
		drawText(d, clip(face, name, colWidth-2*cellPadding), i*colWidth+cellPadding, y+15, ink, true)
	}
	for _, line := range s.Rows {
		y += rowHeight
		fillRect(img, image.Rect(0, y, s.Width, y+1), parseHex("#e2e8f0"))
		for i, c := range line {
			if i >= len(s.Columns) {
				break
			}
			col := parseHex(c.Color)
			if c.Color == "" {
				col = ink
			}
			drawText(d, clip(face, c.Text, colWidth-2*cellPadding), i*colWidth+cellPadding, y+15, col, c.Bold)
		}
	}
	return img, nil
}

func drawText(d *font.Drawer, text string, x, y int, c color.Color, bold bool) {
	d.Src = image.NewUniform(c)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
	if bold {
		d.Dot = fixed.P(x+1, y)
		d.DrawString(text)
	}
}

func fillRect(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// clip shortens text with an ellipsis so it fits in width pixels.
func clip(face font.Face, text string, width int) string {
	limit := fixed.I(width)
	if font.MeasureString(face, text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		s := string(runes) + "..."
		if font.MeasureString(face, s) <= limit {
			return s
		}
	}
	return ""
}

// parseHex reads #rrggbb, returning black for anything else.
func parseHex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
