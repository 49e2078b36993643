package detection

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/OlivierCrt/Projet-groupe4/internal/imaging"
)

// Config holds everything that tunes a detection pass.
type Config struct {
	// Catalog lists the ranges to detect, one per class.
	Catalog []ColorRange

	// Classifier gates geometry and dumps.
	Classifier Classifier

	// LargestComponent reduces each mask to its largest 4-connected region
	// before classification. Off by default: the arena holds at most one
	// marker per color.
	LargestComponent bool
}

// DefaultConfig returns the compiled-in catalog and threshold with the
// component filter disabled.
func DefaultConfig() Config {
	return Config{
		Catalog:    DefaultCatalog(),
		Classifier: NewClassifier(),
	}
}

// Validate checks ranges and rejects duplicate classes.
func (c Config) Validate() error {
	if len(c.Catalog) == 0 {
		return fmt.Errorf("empty color catalog")
	}
	if c.Classifier.Threshold < 0 {
		return fmt.Errorf("object threshold must be non-negative, got %d", c.Classifier.Threshold)
	}
	seen := make(map[ColorClass]bool)
	for _, r := range c.Catalog {
		if _, ok := classInfo[r.Class]; !ok {
			return fmt.Errorf("unknown color class %d", int(r.Class))
		}
		if seen[r.Class] {
			return fmt.Errorf("duplicate range for %s", r.Class)
		}
		seen[r.Class] = true
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Detection is the per-class outcome handed to the navigation layer.
// Centroid, Radius and Box are nil when nothing was detected.
type Detection struct {
	Class      ColorClass   `json:"class"`
	Detected   bool         `json:"detected"`
	PixelCount int          `json:"pixel_count"`
	Centroid   *Point       `json:"centroid,omitempty"`
	Radius     *int         `json:"radius,omitempty"`
	Box        *BoundingBox `json:"box,omitempty"`

	// Error explains a geometry failure other than "not an object".
	Error string `json:"error,omitempty"`
}

// Report collects the detections of one pass in catalog order.
type Report struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Detections  []Detection `json:"detections"`
	AnyDetected bool        `json:"any_detected"`
}

// Lookup returns the detection for class, if it was part of the catalog.
func (r *Report) Lookup(class ColorClass) (Detection, bool) {
	for _, d := range r.Detections {
		if d.Class == class {
			return d, true
		}
	}
	return Detection{}, false
}

// Result is a Report plus the groups it was computed from, kept for dumps.
type Result struct {
	Report Report
	Groups []*PixelGroup
}

// Pipeline runs threshold detection, optional filtering, classification
// and geometry extraction for every class of its catalog.
type Pipeline struct {
	cfg Config
}

// NewPipeline validates cfg and returns a pipeline.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detection config: %w", err)
	}
	return &Pipeline{cfg: cfg}, nil
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Run analyzes m. Classes are detected concurrently; each class then fails
// or succeeds on its own, so one class never prevents reporting another.
func (p *Pipeline) Run(m *imaging.PixelMatrix) *Result {
	groups := DetectAll(m, p.cfg.Catalog)
	if p.cfg.LargestComponent {
		for i, g := range groups {
			groups[i] = g.LargestComponent()
		}
	}

	report := Report{
		Width:      m.Width(),
		Height:     m.Height(),
		Detections: make([]Detection, len(groups)),
	}

	for i, g := range groups {
		d := Detection{Class: g.Class(), PixelCount: g.Count()}

		geo, err := ExtractGeometry(g, p.cfg.Classifier)
		switch {
		case err == nil:
			d.Detected = true
			d.Centroid = &geo.Centroid
			d.Radius = &geo.Radius
			d.Box = &geo.Box
			report.AnyDetected = true
		case !errors.Is(err, ErrNotAnObject):
			d.Error = err.Error()
		}

		report.Detections[i] = d
	}

	return &Result{Report: report, Groups: groups}
}

// DumpResult lists the files written by Dump.
type DumpResult struct {
	Files []string `json:"files"`
}

// Dump writes diagnostics for every detected class into dir:
// obj_<class>.dat (text grid) and obj_<class>.png (mask image). If src is
// non-nil, overlay.png draws every detection on it; src must be the image
// the result was computed from.
//
// Classes that are not objects are skipped silently. A failure for one
// class does not stop the others; all failures are joined into the
// returned error.
func (p *Pipeline) Dump(dir string, res *Result, src image.Image) (*DumpResult, error) {
	out := &DumpResult{Files: []string{}}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return out, fmt.Errorf("failed to create dump directory: %w", err)
	}

	var errs []error
	for _, g := range res.Groups {
		if !p.cfg.Classifier.IsObject(g) {
			continue
		}
		base := filepath.Join(dir, "obj_"+strings.ToLower(g.Class().String()))

		if err := DumpMask(base+".dat", g, p.cfg.Classifier); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", g.Class(), err))
		} else {
			out.Files = append(out.Files, base+".dat")
		}

		if err := SaveMaskPNG(base+".png", g, p.cfg.Classifier); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", g.Class(), err))
		} else {
			out.Files = append(out.Files, base+".png")
		}
	}

	if src != nil && res.Report.AnyDetected {
		path := filepath.Join(dir, "overlay.png")
		if err := imaging.SavePNG(path, imaging.Overlay(src, Marks(res.Report))); err != nil {
			errs = append(errs, err)
		} else {
			out.Files = append(out.Files, path)
		}
	}

	return out, errors.Join(errs...)
}

// Marks converts the detected entries of r into overlay marks.
func Marks(r Report) []imaging.Mark {
	var marks []imaging.Mark
	for _, d := range r.Detections {
		if !d.Detected {
			continue
		}
		marks = append(marks, imaging.Mark{
			Box:      image.Rect(d.Box.ColMin, d.Box.RowMin, d.Box.ColMax, d.Box.RowMax),
			Center:   image.Pt(d.Centroid.X, d.Centroid.Y),
			ColorHex: d.Class.Swatch(),
		})
	}
	return marks
}
