package detection

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAnObject is returned when a group does not pass the classifier.
	// Callers treat it as "no object of this color".
	ErrNotAnObject = errors.New("not an object")

	// ErrEmptyMask is returned when geometry is requested on a mask with no
	// set cells. It is only reachable if classification was bypassed.
	ErrEmptyMask = errors.New("empty mask")
)

// Point is a pixel position. X is the column, Y the row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoundingBox is the smallest axis-aligned rectangle holding every set cell.
// All four bounds are inclusive.
type BoundingBox struct {
	RowMin int `json:"row_min"`
	RowMax int `json:"row_max"`
	ColMin int `json:"col_min"`
	ColMax int `json:"col_max"`
}

func (b *BoundingBox) extend(row, col int) {
	b.RowMin = min(b.RowMin, row)
	b.RowMax = max(b.RowMax, row)
	b.ColMin = min(b.ColMin, col)
	b.ColMax = max(b.ColMax, col)
}

// Centroid returns the midpoint of the box using floor division. This is
// the center of the extent, not a pixel-weighted center of mass.
func (b BoundingBox) Centroid() Point {
	return Point{
		X: b.ColMin + (b.ColMax-b.ColMin)/2,
		Y: b.RowMin + (b.RowMax-b.RowMin)/2,
	}
}

// Radius returns the larger of the two box extents. It is a coarse size
// descriptor, not a true enclosing-circle radius.
func (b BoundingBox) Radius() int {
	return max(b.ColMax-b.ColMin, b.RowMax-b.RowMin)
}

// Bounds scans every cell of mask and returns its bounding box. The boolean
// is false when no cell is set, in which case the box is meaningless.
func Bounds(mask *Mask) (BoundingBox, bool) {
	var box BoundingBox
	found := false
	for row := 0; row < mask.height; row++ {
		for col := 0; col < mask.width; col++ {
			if !mask.IsSet(row, col) {
				continue
			}
			if !found {
				box = BoundingBox{RowMin: row, RowMax: row, ColMin: col, ColMax: col}
				found = true
				continue
			}
			box.extend(row, col)
		}
	}
	return box, found
}

// Geometry holds the shape descriptors of one detected object.
type Geometry struct {
	Box      BoundingBox `json:"box"`
	Centroid Point       `json:"centroid"`
	Radius   int         `json:"radius"`
}

// ExtractGeometry computes the bounding box, centroid and radius of g.
//
// Returns:
//   - ErrNotAnObject (wrapped) if g fails the classifier.
//   - ErrEmptyMask (wrapped) if g's mask has no set cell.
//
// If several disjoint regions of the same color may be present, apply
// PixelGroup.LargestComponent first: the box of an unfiltered mask spans all
// of them.
func ExtractGeometry(g *PixelGroup, c Classifier) (*Geometry, error) {
	if !c.IsObject(g) {
		return nil, fmt.Errorf("%s: %w", groupLabel(g), ErrNotAnObject)
	}
	box, ok := Bounds(g.mask)
	if !ok {
		return nil, fmt.Errorf("%s: %w", groupLabel(g), ErrEmptyMask)
	}
	return &Geometry{Box: box, Centroid: box.Centroid(), Radius: box.Radius()}, nil
}

func groupLabel(g *PixelGroup) string {
	if g == nil {
		return "<nil group>"
	}
	return g.Class().String()
}
