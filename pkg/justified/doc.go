// Package justified computes justified-grid geometry for a sequence of images.
//
// # Overview
//
// A justified grid packs images into rows edge-to-edge. Every row is scaled
// by a single factor so that its images fill the available width while each
// image keeps its own aspect ratio. Rows are scaled toward a target height,
// and the trailing row gets a separate policy so that a lone portrait at the
// end of a gallery is not blown up to the full container width.
//
// [Compute] is the only entry point. It is a pure function: identical inputs
// always produce an identical [Result], and nothing is rounded, so results can
// be compared at full float64 precision. Rounding to whole pixels happens when
// the geometry is painted (see package geometry).
//
// # Row Packing
//
// Images are consumed in order. For a row of n images whose aspect ratios sum
// to A, the justified height is
//
//	h(n) = (available - (n-1)*BoxSpacing) / A
//
// where available is ContainerWidth minus twice the ContainerPadding. Images
// are added while h stays at or above the tolerance floor
// (TargetRowHeight * (1 - Tolerance)). Rows whose height leaves the
// [0.5, 2.0] × TargetRowHeight range are clamped and their boxes carry
// ForcedAspectRatio.
//
// # Last Row
//
// The final row is justified only if its justified height does not exceed
// the tolerance ceiling. Otherwise it is laid out at the height of the row
// above (or the target height when it is the only row), left-aligned, and
// [Result.WidowCount] reports its size.
//
// # Usage
//
//	sizes := []justified.ImageSize{{Width: 1500, Height: 1000}, {Width: 800, Height: 1000}}
//	res := justified.Compute(sizes, justified.DefaultConfig(900))
//	for i, b := range res.Boxes {
//	    fmt.Printf("%d: %.0fx%.0f at (%.0f, %.0f)\n", i, b.Width, b.Height, b.Left, b.Top)
//	}
package justified
