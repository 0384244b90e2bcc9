package render

import (
	"path"
	"strings"

	perrors "github.com/matzehuels/photogrid/pkg/errors"
	"github.com/matzehuels/photogrid/pkg/gallery"
	"github.com/matzehuels/photogrid/pkg/justified"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatSVG  = "svg"
)

// Formats lists every supported format.
var Formats = []string{FormatJSON, FormatHTML, FormatSVG}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// DefaultImageBase is the URL prefix image paths are served under.
const DefaultImageBase = "/images/"

// Layout is one computed gallery layout and the content it was computed
// for. Images is index-aligned with Result.Boxes.
type Layout struct {
	Width  float64
	Result justified.Result
	Images []gallery.Image
}

func (l Layout) image(i int) gallery.Image {
	if i < len(l.Images) {
		return l.Images[i]
	}
	return gallery.Image{}
}

// Options bundles every renderer option, for callers that pick the format
// at runtime.
type Options struct {
	HTML []HTMLOption
	SVG  []SVGOption
}

// Render writes l in the named format.
func Render(format string, l Layout, opts Options) ([]byte, error) {
	if err := perrors.ValidateFormat(format, Formats...); err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return RenderJSON(l)
	case FormatHTML:
		return RenderHTML(l, opts.HTML...)
	default:
		return RenderSVG(l, opts.SVG...), nil
	}
}

// imageURL joins base and an image path. Absolute URLs pass through.
func imageURL(base, p string) string {
	if p == "" {
		return ""
	}
	if strings.Contains(p, "://") {
		return p
	}
	if base == "" {
		base = DefaultImageBase
	}
	if strings.HasSuffix(base, "/") {
		return base + strings.TrimPrefix(path.Clean("/"+p), "/")
	}
	return base + path.Clean("/"+p)
}
