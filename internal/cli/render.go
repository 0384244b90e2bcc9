package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photogrid/pkg/pipeline"
	"github.com/matzehuels/photogrid/pkg/prefs"
	"github.com/matzehuels/photogrid/pkg/themes"
)

// renderCommand creates the render command for writing static galleries.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		flags      pipeline.Options
		lf         layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a gallery to HTML, SVG or JSON",
		Long: `Render a gallery pre-laid at a fixed width.

HTML pages carry the theme selector and lightbox markup and load the
photogrid browser bundle when --script is given, so the grid re-lays itself
when the window is resized. SVG draws the box geometry for inspection. JSON
is the raw layout.

When --theme is not given, the stored theme preference is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), c.mergeOptions(flags), output, lf)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), "+formatsHelp+" (comma-separated)")
	cmd.Flags().StringVar(&flags.Theme, "theme", "", "theme id (default: stored preference)")
	cmd.Flags().StringVar(&flags.Title, "title", "", "page title")
	cmd.Flags().StringVar(&flags.ImageBase, "image-base", "", "URL prefix for image sources (default /images/)")
	cmd.Flags().BoolVar(&flags.Labels, "labels", false, "label boxes with index and title (svg)")
	cmd.Flags().StringArrayVar(&flags.Scripts, "script", nil, "script URL to load in the page (repeatable)")
	cmd.Flags().StringArrayVar(&flags.Styles, "stylesheet", nil, "stylesheet URL to link in the page (repeatable)")
	addLayoutFlags(cmd, &flags, &lf)

	return cmd
}

// runRender runs the full pipeline and writes each artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, lf layoutFlags) error {
	if opts.Theme == "" {
		opts.Theme = c.storedTheme(ctx)
	}

	runner, cleanup, err := c.newRunner(ctx, lf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %v...", opts.Formats))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(opts.Formats, ", ")))

	multi := len(opts.Formats) > 1
	var written []string
	for _, format := range opts.Formats {
		path := outputPath(output, format, multi)
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		written = append(written, path)
	}

	printSuccess("Rendered %d images", result.Stats.Images)
	for _, p := range written {
		printFile(p)
	}
	printStats(statsOf(result))
	return nil
}

// storedTheme reads the theme preference, falling back to the default when
// the store cannot be opened.
func (c *CLI) storedTheme(ctx context.Context) string {
	store, err := c.newPrefs(ctx)
	if err != nil {
		loggerFromContext(ctx).Warn("theme preference unavailable", "error", err)
		return themes.Default
	}
	defer store.Close()

	theme, err := prefs.CurrentTheme(ctx, store)
	if err != nil {
		loggerFromContext(ctx).Warn("theme preference unreadable", "error", err)
		return themes.Default
	}
	return theme
}
