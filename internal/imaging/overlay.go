package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/imgio"
)

// Mark is one detection to draw on an overlay.
type Mark struct {
	// Box is the inclusive bounding box: Min and Max are both set pixels.
	Box image.Rectangle

	// Center is drawn as a small cross and labeled "x,y".
	Center image.Point

	// ColorHex is the outline color, "#RRGGBB". Invalid values draw red.
	ColorHex string
}

// Overlay draws each mark's bounding box, center cross and coordinate label
// on a copy of img.
func Overlay(img image.Image, marks []Mark) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}

	for _, m := range marks {
		c := parseHexColor(m.ColorHex, color.RGBA{255, 0, 0, 255})

		for x := m.Box.Min.X; x <= m.Box.Max.X; x++ {
			setClipped(result, x, m.Box.Min.Y, c)
			setClipped(result, x, m.Box.Max.Y, c)
		}
		for y := m.Box.Min.Y; y <= m.Box.Max.Y; y++ {
			setClipped(result, m.Box.Min.X, y, c)
			setClipped(result, m.Box.Max.X, y, c)
		}

		for d := -3; d <= 3; d++ {
			setClipped(result, m.Center.X+d, m.Center.Y, c)
			setClipped(result, m.Center.X, m.Center.Y+d, c)
		}

		label := fmt.Sprintf("%d,%d", m.Center.X, m.Center.Y)
		drawLabel(result, m.Box.Min.X, m.Box.Max.Y+3, label, labelColor, bgColor)
	}

	return result
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// drawLabel draws a text label with a 3x5 pixel font (digits and comma).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			setClipped(img, x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					setClipped(img, cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
