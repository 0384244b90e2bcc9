package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	fontHeightRatio = 0.12
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 18.0
	labelPadding    = 6.0
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels     bool
	images     bool
	imageBase  string
	background string
	fill       string
}

// WithLabels draws each image's title (or index) inside its box.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithImages embeds the images themselves, linked from base.
func WithImages(base string) SVGOption {
	return func(r *svgRenderer) { r.images = true; r.imageBase = base }
}

// WithColors sets the background and box fill colors.
func WithColors(background, fill string) SVGOption {
	return func(r *svgRenderer) { r.background = background; r.fill = fill }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{background: "#f6f1e7", fill: "#d9c9ad"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the grid as rectangles. Boxes whose aspect ratio was
// forced by height clamping are drawn with a dashed outline, and widow
// boxes with a dotted one.
func RenderSVG(l Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := l.Width, l.Result.ContainerHeight

	widowStart := len(l.Result.Boxes) - l.Result.WidowCount

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))

	for i, b := range l.Result.Boxes {
		img := l.image(i)
		fmt.Fprintf(&buf, `  <g class="photo" data-index="%d">`+"\n", i)
		if title := img.Meta.Title; title != "" {
			fmt.Fprintf(&buf, "    <title>%s</title>\n", escapeXML(title))
		}

		stroke := ""
		switch {
		case b.ForcedAspectRatio:
			stroke = ` stroke="#7a5c3e" stroke-dasharray="6 3"`
		case i >= widowStart:
			stroke = ` stroke="#7a5c3e" stroke-dasharray="2 2"`
		}
		fmt.Fprintf(&buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"%s/>`+"\n",
			b.Left, b.Top, b.Width, b.Height, escapeXML(r.fill), stroke)

		if r.images && img.Path != "" {
			fmt.Fprintf(&buf, `    <image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
				escapeXML(imageURL(r.imageBase, img.Path)), b.Left, b.Top, b.Width, b.Height)
		}
		if r.labels {
			renderLabel(&buf, i, img.Meta.Title, b.Left, b.Top, b.Width, b.Height)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLabel(buf *bytes.Buffer, index int, title string, x, y, w, h float64) {
	label := title
	if label == "" {
		label = fmt.Sprintf("#%d", index)
	}
	size := fontSize(w, h, len(label))
	label = truncateLabel(label, w-2*labelPadding, size)
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f">%s</text>`+"\n",
		x+labelPadding, y+labelPadding+size, size, escapeXML(label))
}

func fontSize(w, h float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := h * fontHeightRatio
	byWidth := (w - 2*labelPadding) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

func truncateLabel(label string, avail, size float64) string {
	maxChars := int(avail / (size * fontCharWidth))
	if maxChars < 3 {
		maxChars = 3
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
