// Package server serves a gallery over HTTP.
//
// The server loads gallery content and probes every image once at startup.
// Each page request then only runs the layout computer for the requested
// width, so the first paint already has the right geometry. The browser
// bundle takes over from there and re-lays the grid on resize.
//
// Routes:
//
//	GET  /                 gallery page, pre-laid at ?width= (default 1200)
//	GET  /api/gallery      content, optionally ?collection=
//	GET  /api/layout       layout JSON for ?width= and ?collection=
//	GET  /api/themes       built-in themes
//	GET  /api/theme        current theme
//	PUT  /api/theme        set the theme, broadcast to /ws clients
//	GET  /ws               websocket theme broadcasts
//	GET  /images/*         image files
//	GET  /static/*         client assets, when a static dir is configured
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/photogrid/pkg/gallery"
	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/metrics"
	"github.com/matzehuels/photogrid/pkg/overlay"
	"github.com/matzehuels/photogrid/pkg/pipeline"
	"github.com/matzehuels/photogrid/pkg/prefs"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Runner loads and probes the gallery. Required.
	Runner *pipeline.Runner

	// Prefs stores the theme. Defaults to a memory store.
	Prefs prefs.Store

	// ImageDir is served under /images/. Defaults to ".".
	ImageDir string

	// StaticDir is served under /static/. Empty disables the route.
	StaticDir string

	// Scripts are loaded by the gallery page, in order.
	Scripts []string

	// Stylesheets are linked by the gallery page.
	Stylesheets []string

	Title        string
	DefaultWidth float64
	Layout       justified.Config
	Lightbox     overlay.Config

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Prefs == nil {
		o.Prefs = prefs.NewMemoryStore()
	}
	if o.ImageDir == "" {
		o.ImageDir = "."
	}
	if o.DefaultWidth == 0 {
		o.DefaultWidth = pipeline.DefaultWidth
	}
	if o.Layout == (justified.Config{}) {
		o.Layout = justified.DefaultConfig(0)
	}
	if o.Lightbox == (overlay.Config{}) {
		o.Lightbox = overlay.Default
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Server is the gallery HTTP server.
type Server struct {
	opts    Options
	logger  *log.Logger
	gallery *gallery.Gallery
	probes  map[string]metrics.Probe
	hub     *Hub
	router  chi.Router
}

// New loads and probes the gallery and builds the router. Call Run (or
// serve Handler yourself after starting Hub().Run).
func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.Runner == nil {
		return nil, errors.New("server: runner is required")
	}
	opts.setDefaults()

	g, err := opts.Runner.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}
	probes, err := opts.Runner.Probe(ctx, g.Images)
	if err != nil {
		return nil, fmt.Errorf("probe images: %w", err)
	}
	byPath := make(map[string]metrics.Probe, len(probes))
	for _, p := range probes {
		byPath[p.Path] = p
	}
	opts.Logger.Info("gallery ready",
		"images", len(g.Images),
		"collections", len(g.Collections),
		"fallbacks", metrics.Fallbacks(probes))

	s := &Server{
		opts:    opts,
		logger:  opts.Logger,
		gallery: g,
		probes:  byPath,
		hub:     NewHub(opts.Logger),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/gallery", s.handleGallery)
		r.Get("/layout", s.handleLayout)
		r.Get("/themes", s.handleThemes)
		r.Get("/theme", s.handleGetTheme)
		r.Put("/theme", s.handlePutTheme)
	})
	r.Get("/ws", s.handleWebsocket)

	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(s.opts.ImageDir))))
	if s.opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.opts.StaticDir))))
	}
	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
