// Package render turns a computed gallery layout into output documents.
//
// # Overview
//
// The layout engine paints a live DOM. This package covers the other case:
// a layout computed ahead of time, for a known width, written out as
//
//   - JSON ([RenderJSON]): boxes, rows and container height for clients
//     that paint themselves
//   - HTML ([RenderHTML]): a complete gallery page with absolute-positioned
//     items, the lightbox markup and the theme attribute, so the page looks
//     right before any script runs
//   - SVG ([RenderSVG]): a wireframe of the grid, useful for checking the
//     packing policy by eye
//
// [Render] dispatches on a format name, which is how the CLI and the HTTP
// server call it.
//
//	res := justified.Compute(sizes, justified.DefaultConfig(1200))
//	l := render.Layout{Width: 1200, Result: res, Images: g.Images}
//	page, err := render.RenderHTML(l, render.WithTheme("midnight"))
//
// Renderers never fail on a short Images slice: boxes without an image get
// an empty source and title.
package render
