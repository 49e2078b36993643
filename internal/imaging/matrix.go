package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PixelMatrix holds the red, green and blue channels of an image as three
// equal-sized grids of 8-bit values.
//
// A PixelMatrix is read-only once constructed. Detection code may share one
// matrix between goroutines without synchronization.
//
// # Indexing
//
// Cells are addressed as (row, col):
//   - row: 0 = topmost line, Height-1 = bottom line
//   - col: 0 = leftmost column, Width-1 = rightmost column
type PixelMatrix struct {
	width  int
	height int
	r      []uint8
	g      []uint8
	b      []uint8
}

// NewPixelMatrix builds a PixelMatrix from three channel grids indexed
// [row][col].
//
// Parameters:
//   - red, green, blue: channel grids. All three must have the same number of
//     rows and every row must have the same length.
//
// Returns:
//   - *PixelMatrix: the validated matrix.
//   - error: non-nil if the grids disagree in shape or a value falls outside
//     [0,255].
func NewPixelMatrix(red, green, blue [][]int) (*PixelMatrix, error) {
	height := len(red)
	if len(green) != height || len(blue) != height {
		return nil, fmt.Errorf("channel heights differ: r=%d g=%d b=%d", len(red), len(green), len(blue))
	}

	width := 0
	if height > 0 {
		width = len(red[0])
	}

	m := newMatrix(width, height)
	channels := []struct {
		name string
		src  [][]int
		dst  []uint8
	}{
		{"red", red, m.r},
		{"green", green, m.g},
		{"blue", blue, m.b},
	}

	for _, ch := range channels {
		for row, line := range ch.src {
			if len(line) != width {
				return nil, fmt.Errorf("%s channel row %d has %d columns, want %d", ch.name, row, len(line), width)
			}
			for col, v := range line {
				if v < 0 || v > 255 {
					return nil, fmt.Errorf("%s channel value %d at (%d,%d) outside [0,255]", ch.name, v, row, col)
				}
				ch.dst[row*width+col] = uint8(v)
			}
		}
	}

	return m, nil
}

// FromImage converts any image.Image into a PixelMatrix.
//
// The image is first normalized to non-premultiplied 8-bit RGBA, so
// translucent pixels keep their stored color rather than being darkened by
// alpha. The alpha channel is then discarded. The matrix origin is the
// image's Bounds().Min.
func FromImage(img image.Image) *PixelMatrix {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	m := newMatrix(bounds.Dx(), bounds.Dy())

	for y := 0; y < m.height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+m.width*4]
		for x := 0; x < m.width; x++ {
			i := y*m.width + x
			m.r[i] = row[x*4]
			m.g[i] = row[x*4+1]
			m.b[i] = row[x*4+2]
		}
	}
	return m
}

func newMatrix(width, height int) *PixelMatrix {
	n := width * height
	return &PixelMatrix{
		width:  width,
		height: height,
		r:      make([]uint8, n),
		g:      make([]uint8, n),
		b:      make([]uint8, n),
	}
}

// Width returns the number of columns.
func (m *PixelMatrix) Width() int { return m.width }

// Height returns the number of rows.
func (m *PixelMatrix) Height() int { return m.height }

// At returns the channel values at (row, col). It panics if the cell is out
// of range, like a slice index would.
func (m *PixelMatrix) At(row, col int) (r, g, b uint8) {
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		panic(fmt.Sprintf("imaging: cell (%d,%d) outside %dx%d matrix", row, col, m.height, m.width))
	}
	i := row*m.width + col
	return m.r[i], m.g[i], m.b[i]
}

// ToImage renders the matrix back into an opaque *image.NRGBA.
func (m *PixelMatrix) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	for i := 0; i < m.width*m.height; i++ {
		img.Pix[i*4] = m.r[i]
		img.Pix[i*4+1] = m.g[i]
		img.Pix[i*4+2] = m.b[i]
		img.Pix[i*4+3] = 255
	}
	return img
}
