package detection

// Component describes one 4-connected region of set mask cells.
type Component struct {
	// Label is the 1-based index of the component in scan order.
	Label int `json:"label"`

	// Size is the number of cells in the region.
	Size int `json:"size"`

	// Origin is the first cell of the region in row-major scan order.
	Origin Point `json:"origin"`

	// Box is the bounding box of the region.
	Box BoundingBox `json:"box"`
}

// Components labels every 4-connected region of mask.
//
// Returns the components in discovery order (row-major, top-to-bottom,
// left-to-right by origin) and a row-major label grid where 0 means unset
// and k means the cell belongs to components[k-1].
//
// # Algorithm
//
// Each unlabeled set cell starts a flood fill that uses an explicit stack of
// pending cells instead of recursion, so very large filled regions cannot
// exhaust the call stack. Every cell is labeled once, giving O(height*width).
// The traversal mutates one shared label grid and must stay sequential.
func Components(mask *Mask) ([]Component, []int) {
	labels := make([]int, mask.width*mask.height)
	var comps []Component

	for row := 0; row < mask.height; row++ {
		for col := 0; col < mask.width; col++ {
			if mask.IsSet(row, col) && labels[row*mask.width+col] == 0 {
				comps = append(comps, floodFill(mask, labels, row, col, len(comps)+1))
			}
		}
	}

	return comps, labels
}

// floodFill labels the 4-connected region containing (startRow, startCol).
func floodFill(mask *Mask, labels []int, startRow, startCol, label int) Component {
	comp := Component{
		Label:  label,
		Origin: Point{X: startCol, Y: startRow},
		Box:    BoundingBox{RowMin: startRow, RowMax: startRow, ColMin: startCol, ColMax: startCol},
	}

	type cell struct{ row, col int }
	stack := []cell{{startRow, startCol}}

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if c.row < 0 || c.row >= mask.height || c.col < 0 || c.col >= mask.width {
			continue
		}
		i := c.row*mask.width + c.col
		if labels[i] != 0 || mask.cells[i] == 0 {
			continue
		}

		labels[i] = label
		comp.Size++
		comp.Box.extend(c.row, c.col)

		stack = append(stack,
			cell{c.row + 1, c.col},
			cell{c.row - 1, c.col},
			cell{c.row, c.col + 1},
			cell{c.row, c.col - 1},
		)
	}

	return comp
}

// LargestComponent returns a copy of mask that keeps only its largest
// 4-connected region. Ties go to the region found first in row-major order.
// An all-zero mask is returned unchanged (as a copy).
func LargestComponent(mask *Mask) *Mask {
	comps, labels := Components(mask)
	out := NewMask(mask.height, mask.width)
	if len(comps) == 0 {
		return out
	}

	best := comps[0]
	for _, c := range comps[1:] {
		if c.Size > best.Size {
			best = c
		}
	}

	for i, l := range labels {
		if l == best.Label {
			out.cells[i] = 1
		}
	}
	return out
}
