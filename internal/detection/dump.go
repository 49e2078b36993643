package detection

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/OlivierCrt/Projet-groupe4/internal/imaging"
)

// WriteMask serializes g's mask as a text grid for external visualization
// tools:
//
//	<height>  <width>  3
//	<row 0: width space-separated 0/1 values>
//	...
//
// The trailing 3 is the channel count expected by those tools. Groups that
// fail the classifier are not written and ErrNotAnObject is returned.
func WriteMask(w io.Writer, g *PixelGroup, c Classifier) error {
	if !c.IsObject(g) {
		return fmt.Errorf("%s: %w", groupLabel(g), ErrNotAnObject)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d  %d  3\n", g.Height(), g.Width())
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteByte('0' + g.mask.At(row, col))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// DumpMask writes g's mask to path with WriteMask. Open failures are wrapped
// so errors.Is can match fs errors.
func DumpMask(path string, g *PixelGroup, c Classifier) error {
	if !c.IsObject(g) {
		return fmt.Errorf("%s: %w", groupLabel(g), ErrNotAnObject)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open mask dump: %w", err)
	}
	if err := WriteMask(f, g, c); err != nil {
		f.Close()
		return fmt.Errorf("failed to write mask dump: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close mask dump: %w", err)
	}
	return nil
}

// MaskImage renders g's mask as a grayscale image, set cells white.
func MaskImage(g *PixelGroup) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width(), g.Height()))
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			if g.mask.IsSet(row, col) {
				img.SetGray(col, row, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// SaveMaskPNG writes g's mask as a black and white PNG. Like DumpMask it is
// gated on the classifier.
func SaveMaskPNG(path string, g *PixelGroup, c Classifier) error {
	if !c.IsObject(g) {
		return fmt.Errorf("%s: %w", groupLabel(g), ErrNotAnObject)
	}
	return imaging.SavePNG(path, MaskImage(g))
}
