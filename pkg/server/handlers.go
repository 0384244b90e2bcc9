package server

import (
	"encoding/json"
	"io"
	"net/http"

	perrors "github.com/matzehuels/photogrid/pkg/errors"
	"github.com/matzehuels/photogrid/pkg/gallery"
	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/metrics"
	"github.com/matzehuels/photogrid/pkg/pipeline"
	"github.com/matzehuels/photogrid/pkg/prefs"
	"github.com/matzehuels/photogrid/pkg/render"
	"github.com/matzehuels/photogrid/pkg/themes"
)

// maxThemeBody bounds PUT /api/theme bodies.
const maxThemeBody = 1 << 10

// layoutFor packs the selected images at the requested width.
func (s *Server) layoutFor(r *http.Request) (render.Layout, error) {
	q := r.URL.Query()

	width := s.opts.DefaultWidth
	if v := q.Get("width"); v != "" {
		w, err := perrors.ParseWidth(v)
		if err != nil {
			return render.Layout{}, err
		}
		width = w
	}

	images, err := s.images(q.Get("collection"))
	if err != nil {
		return render.Layout{}, err
	}

	probes := make([]metrics.Probe, len(images))
	for i, img := range images {
		p, ok := s.probes[img.Path]
		if !ok {
			p = metrics.Probe{Path: img.Path, Size: justified.FallbackSize, Fallback: true}
		}
		probes[i] = p
	}

	return s.opts.Runner.Layout(r.Context(), images, probes, pipeline.Options{
		Width:  width,
		Layout: s.opts.Layout,
	}), nil
}

func (s *Server) images(collection string) ([]gallery.Image, error) {
	if collection != "" {
		if err := perrors.ValidateIdentifier("collection", collection); err != nil {
			return nil, err
		}
	}
	return pipeline.SelectImages(s.gallery, collection)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	l, err := s.layoutFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	theme, err := prefs.CurrentTheme(r.Context(), s.opts.Prefs)
	if err != nil {
		s.logger.Warn("theme unavailable, using default", "error", err)
	}

	opts := []render.HTMLOption{
		render.WithTheme(theme),
		render.WithLightbox(s.opts.Lightbox),
	}
	if s.opts.Title != "" {
		opts = append(opts, render.WithTitle(s.opts.Title))
	}
	for _, href := range s.opts.Stylesheets {
		opts = append(opts, render.WithStylesheet(href))
	}
	for _, src := range s.opts.Scripts {
		opts = append(opts, render.WithScript(src))
	}

	page, err := render.RenderHTML(l, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(render.FormatHTML))
	w.Write(page)
}

type galleryResponse struct {
	Collections []gallery.Collection `json:"collections"`
	Images      []gallery.Image      `json:"images"`
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	images, err := s.images(r.URL.Query().Get("collection"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if images == nil {
		images = []gallery.Image{}
	}
	collections := s.gallery.Collections
	if collections == nil {
		collections = []gallery.Collection{}
	}
	s.writeJSON(w, http.StatusOK, galleryResponse{Collections: collections, Images: images})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.layoutFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := render.RenderJSON(l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(render.FormatJSON))
	w.Write(data)
}

type themesResponse struct {
	Themes  []themes.Theme `json:"themes"`
	Default string        `json:"default"`
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, themesResponse{Themes: themes.All, Default: themes.Default})
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := prefs.CurrentTheme(r.Context(), s.opts.Prefs)
	if err != nil {
		s.writeError(w, r, perrors.Wrap(perrors.ErrCodeNetwork, err, "read theme"))
		return
	}
	s.writeJSON(w, http.StatusOK, themeEvent(theme))
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (s *Server) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxThemeBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := prefs.SetTheme(r.Context(), s.opts.Prefs, req.Theme); err != nil {
		s.writeError(w, r, err)
		return
	}

	ev := themeEvent(req.Theme)
	s.logger.Info("theme changed", "theme", req.Theme)
	if !s.hub.Broadcast(ev) {
		s.logger.Debug("theme broadcast skipped, hub not running")
	}
	s.writeJSON(w, http.StatusOK, ev)
}
