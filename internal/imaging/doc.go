// Package imaging loads source images and turns them into PixelMatrix values
// for marker detection.
//
// It covers image decoding (PNG, JPEG and GIF through
// github.com/disintegration/imaging, plus the project's whitespace text
// matrix format), optional region-of-interest cropping and downsizing,
// color sampling for range tuning, and diagnostic overlays.
//
// # Coordinate System
//
// Image coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. PixelMatrix cells are addressed
// (row, col), i.e. (Y, X).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. PixelMatrix is read-only after
// construction.
package imaging
