package detection

import (
	"sync"

	"github.com/OlivierCrt/Projet-groupe4/internal/imaging"
)

// DetectColor marks every pixel of m whose red, green and blue values all
// lie inside rng's inclusive bounds.
//
// Parameters:
//   - m: the source matrix. It is only read.
//   - rng: the threshold to apply.
//
// Returns a fresh PixelGroup whose Count equals the number of marked pixels.
// Detection is total: any well-formed matrix produces a group, possibly
// empty. Runs in O(height*width).
func DetectColor(m *imaging.PixelMatrix, rng ColorRange) *PixelGroup {
	mask := NewMask(m.Height(), m.Width())
	for row := 0; row < m.Height(); row++ {
		for col := 0; col < m.Width(); col++ {
			r, g, b := m.At(row, col)
			if rng.Contains(r, g, b) {
				mask.set(row, col)
			}
		}
	}
	return NewPixelGroup(rng.Class, mask)
}

// DetectAll runs DetectColor for every range of the catalog concurrently.
//
// The matrix is shared read-only and every goroutine writes only its own
// group, so no locking is needed. Results are returned in catalog order.
// A pixel may match more than one range.
func DetectAll(m *imaging.PixelMatrix, catalog []ColorRange) []*PixelGroup {
	groups := make([]*PixelGroup, len(catalog))

	var wg sync.WaitGroup
	for i, rng := range catalog {
		wg.Add(1)
		go func(i int, rng ColorRange) {
			defer wg.Done()
			groups[i] = DetectColor(m, rng)
		}(i, rng)
	}
	wg.Wait()

	return groups
}
