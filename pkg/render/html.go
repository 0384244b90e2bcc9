package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/matzehuels/photogrid/pkg/dom"
	"github.com/matzehuels/photogrid/pkg/overlay"
	"github.com/matzehuels/photogrid/pkg/themes"
)

//go:embed page.html.tmpl
var pageTemplate string

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// HTMLOption configures [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title       string
	theme       string
	themes      []themes.Theme
	imageBase   string
	lightbox    overlay.Config
	stylesheets []string
	scripts     []string
}

// WithTitle sets the page title. Defaults to "Gallery".
func WithTitle(t string) HTMLOption { return func(r *htmlRenderer) { r.title = t } }

// WithTheme sets the data-theme attribute and the selected theme option.
func WithTheme(id string) HTMLOption { return func(r *htmlRenderer) { r.theme = id } }

// WithImageBase sets the URL prefix for image paths.
func WithImageBase(base string) HTMLOption { return func(r *htmlRenderer) { r.imageBase = base } }

// WithLightbox overrides the lightbox configuration embedded in the page.
func WithLightbox(cfg overlay.Config) HTMLOption { return func(r *htmlRenderer) { r.lightbox = cfg } }

// WithStylesheet links a stylesheet in the page head.
func WithStylesheet(href string) HTMLOption {
	return func(r *htmlRenderer) { r.stylesheets = append(r.stylesheets, href) }
}

// WithScript loads a script at the end of the body, after the grid markup.
func WithScript(src string) HTMLOption {
	return func(r *htmlRenderer) { r.scripts = append(r.scripts, src) }
}

func newHTMLRenderer(opts ...HTMLOption) htmlRenderer {
	r := htmlRenderer{
		title:     "Gallery",
		theme:     themes.Default,
		themes:    themes.All,
		imageBase: DefaultImageBase,
		lightbox:  overlay.Default,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

type pageData struct {
	Title          string
	Theme          string
	Themes         []themes.Theme
	ContainerID    string
	ContainerStyle template.CSS
	Items          []pageItem
	Lightbox       overlay.Config
	Stylesheets    []string
	Scripts        []string
}

type pageItem struct {
	Class         string
	LightboxClass string
	Style         template.CSS
	Src           string
	Title         string
	Description   string
	Width, Height int
}

// RenderHTML writes a complete gallery page with items positioned the way
// the geometry applier would position them at l.Width.
func RenderHTML(l Layout, opts ...HTMLOption) ([]byte, error) {
	r := newHTMLRenderer(opts...)

	data := pageData{
		Title:          r.title,
		Theme:          r.theme,
		Themes:         r.themes,
		ContainerID:    dom.ContainerID,
		ContainerStyle: styleOf("position", "relative", "height", dom.Px(l.Result.ContainerHeight)),
		Items:          make([]pageItem, len(l.Result.Boxes)),
		Lightbox:       r.lightbox,
		Stylesheets:    r.stylesheets,
		Scripts:        r.scripts,
	}
	for i, b := range l.Result.Boxes {
		img := l.image(i)
		data.Items[i] = pageItem{
			Class:         dom.ItemClass,
			LightboxClass: lightboxClass(r.lightbox.Selector),
			Style: styleOf(
				"position", "absolute",
				"left", dom.Px(b.Left),
				"top", dom.Px(b.Top),
				"width", dom.Px(b.Width),
				"height", dom.Px(b.Height),
				"display", "block",
			),
			Src:         imageURL(r.imageBase, img.Path),
			Title:       img.Meta.Title,
			Description: img.Meta.Description,
			Width:       roundInt(b.Width),
			Height:      roundInt(b.Height),
		}
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

// styleOf joins property/value pairs into an inline style.
func styleOf(kv ...string) template.CSS {
	var sb strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(kv[i])
		sb.WriteString(": ")
		sb.WriteString(kv[i+1])
	}
	return template.CSS(sb.String())
}

// lightboxClass turns a class selector back into a class name.
func lightboxClass(selector string) string {
	if c, ok := strings.CutPrefix(selector, "."); ok && !strings.ContainsAny(c, " .#[:>") {
		return c
	}
	return dom.LightboxClass
}

func roundInt(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v + 0.5)
}
