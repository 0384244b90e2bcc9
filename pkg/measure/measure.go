// Package measure reads image sizes in the browser. [Collect] waits until
// every image in a layout pass has settled and takes the best available
// dimensions from each one, falling back to [justified.FallbackSize] so one
// broken image never stalls a pass.
//
// It depends only on the dom and justified packages so the wasm bundle stays
// free of the server-side probing stack.
package measure

import (
	"context"

	"github.com/matzehuels/photogrid/pkg/dom"
	"github.com/matzehuels/photogrid/pkg/justified"
)

// Wait blocks until every image has settled (loaded or errored) or ctx is
// done. Each image's Done channel is read once.
func Wait(ctx context.Context, images []dom.Image) error {
	for _, img := range images {
		select {
		case <-img.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Collect waits for images to settle and returns one size per image, in
// order. It only fails if ctx is cancelled first.
func Collect(ctx context.Context, images []dom.Image) ([]justified.ImageSize, error) {
	if err := Wait(ctx, images); err != nil {
		return nil, err
	}
	sizes := make([]justified.ImageSize, len(images))
	for i, img := range images {
		sizes[i], _ = Size(img)
	}
	return sizes, nil
}

// Size reads one settled image. Each dimension is taken from the natural
// size, then the rendered size, then [justified.FallbackSize]. The second
// result reports whether any dimension fell back.
func Size(img dom.Image) (justified.ImageSize, bool) {
	nw, nh := img.NaturalSize()
	rw, rh := img.RenderedSize()
	w, wf := pick(nw, rw, justified.FallbackSize.Width)
	h, hf := pick(nh, rh, justified.FallbackSize.Height)
	return justified.ImageSize{Width: w, Height: h}, wf || hf
}

// CountFallbacks reports how many images would use a fallback dimension.
func CountFallbacks(images []dom.Image) int {
	n := 0
	for _, img := range images {
		if _, fb := Size(img); fb {
			n++
		}
	}
	return n
}

func pick(natural, rendered, fallback float64) (float64, bool) {
	switch {
	case natural > 0:
		return natural, false
	case rendered > 0:
		return rendered, false
	default:
		return fallback, true
	}
}
