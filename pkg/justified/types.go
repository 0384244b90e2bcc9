package justified

import "math"

// Default policy values used by the gallery.
const (
	DefaultTargetRowHeight  = 300.0
	DefaultBoxSpacing       = 10.0
	DefaultContainerPadding = 16.0

	// DefaultTolerance is the fraction of TargetRowHeight a row may deviate
	// before it is considered over- or under-filled.
	DefaultTolerance = 0.25

	// Rows are never painted outside [minRowFactor, maxRowFactor] × TargetRowHeight.
	minRowFactor = 0.5
	maxRowFactor = 2.0

	// MinAspectRatio is the narrowest ratio packed as is. Narrower images
	// are packed at this ratio and their boxes marked ForcedAspectRatio.
	MinAspectRatio = 0.1
)

// FallbackSize is used for images whose real dimensions are unavailable,
// typically because loading failed.
var FallbackSize = ImageSize{Width: 300, Height: 200}

// ImageSize holds the natural pixel dimensions of one source image.
type ImageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are finite and positive.
func (s ImageSize) Valid() bool {
	return s.Width > 0 && s.Height > 0 && !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Normalize returns s, or FallbackSize if s is not [ImageSize.Valid].
func (s ImageSize) Normalize() ImageSize {
	if s.Valid() {
		return s
	}
	return FallbackSize
}

// AspectRatio returns width/height of the normalized size.
func (s ImageSize) AspectRatio() float64 {
	n := s.Normalize()
	return n.Width / n.Height
}

// Config holds the packing parameters for one layout pass.
type Config struct {
	ContainerWidth   float64 `json:"container_width" toml:"container_width"`
	TargetRowHeight  float64 `json:"target_row_height" toml:"target_row_height"`
	BoxSpacing       float64 `json:"box_spacing" toml:"box_spacing"`
	ContainerPadding float64 `json:"container_padding" toml:"container_padding"`

	// Tolerance is the accepted relative deviation from TargetRowHeight.
	// Values outside (0, 1) fall back to DefaultTolerance.
	Tolerance float64 `json:"tolerance,omitempty" toml:"tolerance"`
}

// DefaultConfig returns the gallery's policy constants for the given width.
func DefaultConfig(containerWidth float64) Config {
	return Config{
		ContainerWidth:   containerWidth,
		TargetRowHeight:  DefaultTargetRowHeight,
		BoxSpacing:       DefaultBoxSpacing,
		ContainerPadding: DefaultContainerPadding,
		Tolerance:        DefaultTolerance,
	}
}

// sanitized returns a copy with negative or missing values replaced so that
// Compute never divides by zero.
func (c Config) sanitized() Config {
	if !(c.ContainerWidth > 0) || math.IsInf(c.ContainerWidth, 0) {
		c.ContainerWidth = 0
	}
	if !(c.TargetRowHeight > 0) || math.IsInf(c.TargetRowHeight, 0) {
		c.TargetRowHeight = DefaultTargetRowHeight
	}
	if !(c.BoxSpacing >= 0) || math.IsInf(c.BoxSpacing, 0) {
		c.BoxSpacing = 0
	}
	if !(c.ContainerPadding >= 0) || math.IsInf(c.ContainerPadding, 0) {
		c.ContainerPadding = 0
	}
	if !(c.Tolerance > 0 && c.Tolerance < 1) {
		c.Tolerance = DefaultTolerance
	}
	return c
}

// AvailableWidth is the width rows are justified to.
func (c Config) AvailableWidth() float64 {
	c = c.sanitized()
	return math.Max(c.ContainerWidth-2*c.ContainerPadding, 0)
}

// Box is the placement of one image.
type Box struct {
	AspectRatio float64 `json:"aspect_ratio"`
	Top         float64 `json:"top"`
	Left        float64 `json:"left"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`

	// ForcedAspectRatio is set when Width/Height no longer equals
	// AspectRatio because the row height or a sliver-thin ratio had to be
	// clamped.
	ForcedAspectRatio bool `json:"forced_aspect_ratio"`
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.Left + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Top + b.Height }

// Result is the output of one layout pass. Boxes are index-aligned with the
// input sizes.
type Result struct {
	Boxes           []Box   `json:"boxes"`
	ContainerHeight float64 `json:"container_height"`
	WidowCount      int     `json:"widow_count"`
}

// Rows groups box indices by row, top to bottom. A box continues the
// current row when it shares the row's Top and sits right of the box before
// it, so zero-height rows with no spacing still count one row each.
func (r Result) Rows() [][]int {
	var rows [][]int
	for i, b := range r.Boxes {
		if n := len(rows); n > 0 {
			prev := r.Boxes[i-1]
			if r.Boxes[rows[n-1][0]].Top == b.Top && b.Left > prev.Left {
				rows[n-1] = append(rows[n-1], i)
				continue
			}
		}
		rows = append(rows, []int{i})
	}
	return rows
}
