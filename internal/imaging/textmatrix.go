package imaging

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// MaxTextMatrixPixels bounds the width*height a text matrix header may
// declare.
const MaxTextMatrixPixels = 1 << 24

// ReadTextMatrix parses the whitespace-separated text image format used by
// the navigation project's image exporter.
//
// # Format
//
//	<width> <height> <channels>
//	<height rows of width red values>
//	<height rows of width green values>
//	<height rows of width blue values>
//
// Line breaks are not significant; any run of whitespace separates values.
// Channels must be 3. Values must lie in [0,255]. Headers declaring more
// than MaxTextMatrixPixels pixels are rejected.
func ReadTextMatrix(r io.Reader) (*PixelMatrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	next := func(what string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, fmt.Errorf("failed to read %s: %w", what, err)
			}
			return 0, fmt.Errorf("unexpected end of input reading %s", what)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", what, sc.Text(), err)
		}
		return v, nil
	}

	width, err := next("width")
	if err != nil {
		return nil, err
	}
	height, err := next("height")
	if err != nil {
		return nil, err
	}
	channels, err := next("channel count")
	if err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if channels != 3 {
		return nil, fmt.Errorf("unsupported channel count %d, want 3", channels)
	}

	if height > 0 && width > MaxTextMatrixPixels/height {
		return nil, fmt.Errorf("dimensions %dx%d exceed %d pixels", width, height, MaxTextMatrixPixels)
	}

	// Values are buffered as they arrive so a header alone cannot force a
	// large allocation.
	n := width * height
	values := make([]uint8, 0, min(3*n, 64*1024))
	for _, name := range []string{"red", "green", "blue"} {
		for i := 0; i < n; i++ {
			v, err := next(name + " value")
			if err != nil {
				return nil, fmt.Errorf("at cell (%d,%d): %w", i/width, i%width, err)
			}
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%s value %d at (%d,%d) outside [0,255]", name, v, i/width, i%width)
			}
			values = append(values, uint8(v))
		}
	}

	m := newMatrix(width, height)
	copy(m.r, values[:n])
	copy(m.g, values[n:2*n])
	copy(m.b, values[2*n:])
	return m, nil
}
