package justified

import "math"

// packer carries the derived constants of one Compute call.
type packer struct {
	cfg       Config
	available float64
	target    float64
	floor     float64 // lowest acceptable justified height
	ceiling   float64 // highest acceptable justified height
	minHeight float64 // clamp bounds for painted rows
	maxHeight float64
}

func newPacker(cfg Config) packer {
	cfg = cfg.sanitized()
	t := cfg.TargetRowHeight
	return packer{
		cfg:       cfg,
		available: cfg.AvailableWidth(),
		target:    t,
		floor:     t * (1 - cfg.Tolerance),
		ceiling:   t * (1 + cfg.Tolerance),
		minHeight: t * minRowFactor,
		maxHeight: t * maxRowFactor,
	}
}

// Compute packs sizes into justified rows for cfg.
//
// The returned Result always has one box per input size. Missing or invalid
// dimensions are replaced by [FallbackSize]. Compute does not retain sizes.
func Compute(sizes []ImageSize, cfg Config) Result {
	if len(sizes) == 0 {
		return Result{Boxes: []Box{}}
	}

	p := newPacker(cfg)
	ratios := make([]float64, len(sizes))
	for i, s := range sizes {
		ratios[i] = s.AspectRatio()
	}

	if p.available <= 0 {
		return p.degenerate(ratios)
	}

	boxes := make([]Box, len(ratios))
	top := p.cfg.ContainerPadding
	prevHeight := 0.0
	widows := 0

	for start := 0; start < len(ratios); {
		end := p.rowEnd(ratios, start)
		row := ratios[start:end]

		var h float64
		if end == len(ratios) && p.height(row) > p.ceiling {
			h = p.widow(boxes, row, start, top, prevHeight)
			widows = len(row)
		} else {
			h = p.justify(boxes, row, start, top)
		}

		prevHeight = h
		start = end
		if start < len(ratios) {
			top += h + p.cfg.BoxSpacing
		}
	}

	return Result{
		Boxes:           boxes,
		ContainerHeight: top + prevHeight,
		WidowCount:      widows,
	}
}

// packed returns the ratio r occupies in a row.
func packed(r float64) float64 {
	return math.Max(r, MinAspectRatio)
}

// height returns the justified row height for the given aspect ratios.
func (p packer) height(row []float64) float64 {
	sum := 0.0
	for _, r := range row {
		sum += packed(r)
	}
	return (p.available - float64(len(row)-1)*p.cfg.BoxSpacing) / sum
}

// rowEnd returns the exclusive end index of the row starting at start.
// A row always holds at least one image.
func (p packer) rowEnd(ratios []float64, start int) int {
	end := start + 1
	for end < len(ratios) {
		next := p.height(ratios[start : end+1])
		if next >= p.floor {
			end++
			continue
		}
		// The next image would shrink the row below the floor. Take it anyway
		// when the row without it is too tall and taking it gets closer.
		cur := p.height(ratios[start:end])
		if cur > p.ceiling && next > 0 && math.Abs(next-p.target) < math.Abs(cur-p.target) {
			end++
		}
		break
	}
	return end
}

// justify scales row to fill the available width and writes its boxes.
// It returns the painted row height.
func (p packer) justify(boxes []Box, row []float64, start int, top float64) float64 {
	natural := p.height(row)
	h := math.Min(math.Max(natural, p.minHeight), p.maxHeight)
	forced := h != natural

	left := p.cfg.ContainerPadding
	for i, r := range row {
		w := packed(r) * natural
		boxes[start+i] = Box{
			AspectRatio:       r,
			Top:               top,
			Left:              left,
			Width:             w,
			Height:            h,
			ForcedAspectRatio: forced || r < MinAspectRatio,
		}
		left += w + p.cfg.BoxSpacing
	}
	return h
}

// widow lays out an under-filled final row at the previous row's height,
// shrunk only as far as needed to fit, and left-aligned.
func (p packer) widow(boxes []Box, row []float64, start int, top, prevHeight float64) float64 {
	h := prevHeight
	if h <= 0 {
		h = p.target
	}
	if fit := p.height(row); fit < h {
		h = fit
	}

	left := p.cfg.ContainerPadding
	for i, r := range row {
		w := packed(r) * h
		boxes[start+i] = Box{
			AspectRatio:       r,
			Top:               top,
			Left:              left,
			Width:             w,
			Height:            h,
			ForcedAspectRatio: r < MinAspectRatio,
		}
		left += w + p.cfg.BoxSpacing
	}
	return h
}

// degenerate handles containers with no usable width: one image per row,
// zero-sized, stacked by spacing.
func (p packer) degenerate(ratios []float64) Result {
	boxes := make([]Box, len(ratios))
	top := p.cfg.ContainerPadding
	for i, r := range ratios {
		if i > 0 {
			top += p.cfg.BoxSpacing
		}
		boxes[i] = Box{
			AspectRatio:       r,
			Top:               top,
			Left:              p.cfg.ContainerPadding,
			ForcedAspectRatio: true,
		}
	}
	return Result{Boxes: boxes, ContainerHeight: top}
}
