// Package geometry paints a layout result onto DOM elements.
//
// Positions are kept at full precision by the layout computer and rounded to
// whole pixels here, at paint time.
package geometry

import (
	"github.com/matzehuels/photogrid/pkg/dom"
	"github.com/matzehuels/photogrid/pkg/justified"
)

// Apply positions slots[i] at boxes[i]. Slots without a box and boxes
// without a slot are ignored; nil slots are skipped. It returns the number
// of slots written.
func Apply(slots []dom.Element, boxes []justified.Box) int {
	n := min(len(slots), len(boxes))
	written := 0
	for i := 0; i < n; i++ {
		if slots[i] == nil {
			continue
		}
		ApplyBox(slots[i], boxes[i])
		written++
	}
	return written
}

// ApplyBox positions a single element.
func ApplyBox(el dom.Element, b justified.Box) {
	el.SetStyle("position", "absolute")
	el.SetStyle("left", dom.Px(b.Left))
	el.SetStyle("top", dom.Px(b.Top))
	el.SetStyle("width", dom.Px(b.Width))
	el.SetStyle("height", dom.Px(b.Height))
	el.SetStyle("display", "block")
}

// ApplyContainer makes c the positioning context for its items and sizes it
// to the layout.
func ApplyContainer(c dom.Element, containerHeight float64) {
	if c == nil {
		return
	}
	c.SetStyle("position", "relative")
	c.SetStyle("height", dom.Px(containerHeight))
}
