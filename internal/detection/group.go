package detection

import "fmt"

// Mask is a Height x Width grid of {0,1} cells stored row-major.
type Mask struct {
	width  int
	height int
	cells  []uint8
}

// NewMask returns an all-zero mask.
func NewMask(height, width int) *Mask {
	if height < 0 || width < 0 {
		panic(fmt.Sprintf("detection: negative mask size %dx%d", height, width))
	}
	return &Mask{width: width, height: height, cells: make([]uint8, width*height)}
}

// MaskFromRows builds a mask from 0/1 rows; any non-zero value counts as
// set. All rows must have the same length.
func MaskFromRows(rows [][]int) (*Mask, error) {
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	m := NewMask(len(rows), width)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), width)
		}
		for j, v := range row {
			if v != 0 {
				m.cells[i*width+j] = 1
			}
		}
	}
	return m, nil
}

// Width returns the number of columns.
func (m *Mask) Width() int { return m.width }

// Height returns the number of rows.
func (m *Mask) Height() int { return m.height }

// At returns the cell value, 0 or 1.
func (m *Mask) At(row, col int) uint8 { return m.cells[row*m.width+col] }

// IsSet reports whether the cell is 1.
func (m *Mask) IsSet(row, col int) bool { return m.At(row, col) == 1 }

func (m *Mask) set(row, col int) { m.cells[row*m.width+col] = 1 }

// Count returns the number of set cells.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.cells {
		n += int(v)
	}
	return n
}

// Rows returns a copy of the mask as [row][col] ints.
func (m *Mask) Rows() [][]int {
	rows := make([][]int, m.height)
	for i := range rows {
		rows[i] = make([]int, m.width)
		for j := range rows[i] {
			rows[i][j] = int(m.At(i, j))
		}
	}
	return rows
}

// Clone returns an independent copy.
func (m *Mask) Clone() *Mask {
	c := &Mask{width: m.width, height: m.height, cells: make([]uint8, len(m.cells))}
	copy(c.cells, m.cells)
	return c
}

// PixelGroup is the result of applying one ColorRange to one PixelMatrix.
// It is immutable: filtering produces a new group.
type PixelGroup struct {
	class ColorClass
	count int
	mask  *Mask
}

// NewPixelGroup wraps a mask. The count is recomputed from the mask so the
// two can never disagree.
func NewPixelGroup(class ColorClass, mask *Mask) *PixelGroup {
	return &PixelGroup{class: class, count: mask.Count(), mask: mask}
}

// Class returns the color class the group was detected for.
func (g *PixelGroup) Class() ColorClass { return g.class }

// Count returns the number of set mask cells.
func (g *PixelGroup) Count() int { return g.count }

// Mask returns a copy of the group's mask.
func (g *PixelGroup) Mask() *Mask { return g.mask.Clone() }

// Height returns the mask height.
func (g *PixelGroup) Height() int { return g.mask.height }

// Width returns the mask width.
func (g *PixelGroup) Width() int { return g.mask.width }

// LargestComponent returns a new group holding only the largest 4-connected
// region of g's mask.
func (g *PixelGroup) LargestComponent() *PixelGroup {
	return NewPixelGroup(g.class, LargestComponent(g.mask))
}
