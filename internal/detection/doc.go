// Package detection locates colored markers in a PixelMatrix.
//
// A detection pass runs in four stages:
//
//  1. Thresholding: every pixel is tested against a ColorRange (inclusive
//     per-channel RGB bounds), producing a PixelGroup: a binary mask and the
//     number of matching pixels.
//  2. Filtering (optional): the mask is reduced to its largest 4-connected
//     region to drop noise, highlights and other same-colored surfaces.
//  3. Classification: a group is an object only if it holds strictly more
//     pixels than the Classifier threshold (30 by default).
//  4. Geometry: the bounding box of the mask gives a centroid (the box
//     midpoint) and a radius (the larger box extent).
//
// # Coordinate System
//
// Masks are indexed (row, col) with (0,0) at the top-left. Point uses image
// convention: X is the column, Y the row.
//
// # Error Handling
//
// Thresholding and classification never fail. Geometry and dumps return
// ErrNotAnObject for groups below the threshold and ErrEmptyMask if the gate
// was bypassed on an empty mask. These errors are per class: the Pipeline
// records them and carries on with the other classes.
//
// # Thread Safety
//
// PixelGroup and Mask values are not modified after construction and can be
// shared. DetectAll runs one goroutine per class. Component labeling is
// sequential; its row-major scan order decides ties.
package detection
