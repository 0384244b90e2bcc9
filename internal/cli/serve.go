package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photogrid/pkg/buildinfo"
	"github.com/matzehuels/photogrid/pkg/server"
)

// serveOpts holds flags for the serve command. Zero values fall back to
// the [server] section of the config.
type serveOpts struct {
	addr        string
	staticDir   string
	title       string
	width       float64
	scripts     []string
	stylesheets []string
	noCache     bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gallery over HTTP",
		Long: `Serve the gallery over HTTP.

The gallery is loaded and every image probed once at startup. Pages are
pre-laid at ?width= (or the default width) and theme changes made through
PUT /api/theme are pushed to open pages over a websocket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&opts.staticDir, "static", "", "directory served under /static/")
	cmd.Flags().StringVar(&opts.title, "title", "", "page title")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 0, "width to pre-lay pages at when the request has none")
	cmd.Flags().StringArrayVar(&opts.scripts, "script", nil, "script URL to load in the page (repeatable)")
	cmd.Flags().StringArrayVar(&opts.stylesheets, "stylesheet", nil, "stylesheet URL to link in the page (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "probe every image instead of using cached dimensions")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.config()
	if opts.addr == "" {
		opts.addr = cfg.Server.Addr
	}
	if opts.staticDir == "" {
		opts.staticDir = cfg.Server.StaticDir
	}
	if opts.width == 0 {
		opts.width = cfg.Server.DefaultWidth
	}

	runner, cleanup, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()

	store, err := c.newPrefs(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Loading gallery...")
	spinner.Start()
	srv, err := server.New(ctx, server.Options{
		Runner:       runner,
		Prefs:        store,
		ImageDir:     cfg.Gallery.ImageDir,
		StaticDir:    opts.staticDir,
		Scripts:      opts.scripts,
		Stylesheets:  opts.stylesheets,
		Title:        opts.title,
		DefaultWidth: opts.width,
		Layout:       cfg.Layout,
		Lightbox:     cfg.Lightbox,
		Logger:       logger,
	})
	if err != nil {
		spinner.StopWithError("Startup failed")
		return err
	}
	spinner.Stop()
	prog.done("Gallery ready")

	printSuccess("photogrid %s", buildinfo.Short())
	printKeyValue("Listening", StyleLink.Render("http://"+displayAddr(opts.addr)+"/"))
	printKeyValue("Images", cfg.Gallery.ImageDir)
	printKeyValue("Prefs", cfg.Prefs.Backend)
	if opts.staticDir != "" {
		printKeyValue("Static", opts.staticDir)
	}
	printNewline()

	return srv.Run(ctx, opts.addr)
}

// displayAddr turns ":8080" into "localhost:8080" for printing.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
