package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// PrepareOptions controls the optional preprocessing applied before
// detection.
type PrepareOptions struct {
	// Region restricts detection to a sub-rectangle. Nil means the whole
	// image.
	Region *Region

	// MaxWidth downsizes images wider than this many pixels, preserving the
	// aspect ratio. Zero disables resizing.
	MaxWidth int
}

// Prepare crops and downsizes img according to opts.
//
// Resizing uses nearest-neighbour sampling so every output pixel carries a
// color that existed in the input; interpolating filters would create
// in-between colors that can fall inside a threshold range neither endpoint
// satisfied.
//
// Coordinates reported by detection on the result are relative to the
// cropped, resized frame. With zero options img is returned unchanged.
func Prepare(img image.Image, opts PrepareOptions) (image.Image, error) {
	out := img

	if opts.Region != nil {
		r := *opts.Region
		bounds := img.Bounds()
		if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		}
		if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
			return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
		}
		out = imaging.Crop(img, image.Rect(r.X1, r.Y1, r.X2, r.Y2))
	}

	if opts.MaxWidth < 0 {
		return nil, fmt.Errorf("invalid max width %d", opts.MaxWidth)
	}
	if opts.MaxWidth > 0 && out.Bounds().Dx() > opts.MaxWidth {
		out = imaging.Resize(out, opts.MaxWidth, 0, imaging.NearestNeighbor)
	}

	return out, nil
}
