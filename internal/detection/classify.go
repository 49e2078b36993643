package detection

// DefaultObjectThreshold is the pixel count a group must exceed to be
// treated as a marker rather than background noise.
const DefaultObjectThreshold = 30

// Classifier decides whether a PixelGroup is a real object.
type Classifier struct {
	// Threshold is exclusive: a group needs strictly more pixels.
	Threshold int
}

// NewClassifier returns a Classifier using DefaultObjectThreshold.
func NewClassifier() Classifier {
	return Classifier{Threshold: DefaultObjectThreshold}
}

// IsObject reports whether g has more than Threshold pixels. A nil group is
// never an object.
func (c Classifier) IsObject(g *PixelGroup) bool {
	return g != nil && g.Count() > c.Threshold
}
