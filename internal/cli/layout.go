package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/pipeline"
	"github.com/matzehuels/photogrid/pkg/render"
)

// layoutFlags are shared by every command that packs a gallery.
type layoutFlags struct {
	noCache bool
}

// addLayoutFlags binds the packing flags to opts. Defaults come from the
// loaded config, so flags only override what the user passes.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options, lf *layoutFlags) {
	cmd.Flags().Float64VarP(&opts.Width, "width", "w", 0, "container width in pixels (default from config, 1200)")
	cmd.Flags().StringVarP(&opts.Collection, "collection", "c", "", "only lay out images in this collection")
	cmd.Flags().Float64Var(&opts.Layout.TargetRowHeight, "row-height", 0, "target row height in pixels")
	cmd.Flags().Float64Var(&opts.Layout.BoxSpacing, "spacing", 0, "gap between boxes in pixels")
	cmd.Flags().Float64Var(&opts.Layout.ContainerPadding, "padding", 0, "container padding in pixels")
	cmd.Flags().BoolVar(&lf.noCache, "no-cache", false, "probe every image instead of using cached dimensions")
}

// mergeOptions fills zero-valued flag fields from the config defaults.
func (c *CLI) mergeOptions(flags pipeline.Options) pipeline.Options {
	opts := c.pipelineOptions()
	if flags.Width != 0 {
		opts.Width = flags.Width
	}
	if flags.Collection != "" {
		opts.Collection = flags.Collection
	}
	if flags.Layout.TargetRowHeight != 0 {
		opts.Layout.TargetRowHeight = flags.Layout.TargetRowHeight
	}
	if flags.Layout.BoxSpacing != 0 {
		opts.Layout.BoxSpacing = flags.Layout.BoxSpacing
	}
	if flags.Layout.ContainerPadding != 0 {
		opts.Layout.ContainerPadding = flags.Layout.ContainerPadding
	}
	opts.Formats = flags.Formats
	opts.Theme = flags.Theme
	opts.Title = flags.Title
	opts.ImageBase = flags.ImageBase
	opts.Labels = flags.Labels
	opts.Scripts = flags.Scripts
	opts.Styles = flags.Styles
	return opts
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  pipeline.Options
		lf     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the justified layout for a gallery",
		Long: `Compute the justified layout for a gallery at a fixed width.

Image dimensions are read from file headers under the configured image
directory. Unreadable images use a 3:2 fallback box. The layout is written
as JSON (the same document 'render -f json' writes) and summarised as a
table of rows.

Probed dimensions are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), c.mergeOptions(flags), output, lf)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "layout.json", `output file ("-" for stdout)`)
	addLayoutFlags(cmd, &flags, &lf)

	return cmd
}

// runLayout loads, probes and packs the gallery, then writes the JSON.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, lf layoutFlags) error {
	runner, cleanup, err := c.newRunner(ctx, lf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()

	opts.Formats = []string{render.FormatJSON}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out at %.0fpx...", widthOrDefault(opts.Width)))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Packed %d images into %d rows", result.Stats.Images, result.Stats.Rows))

	if output == "-" {
		_, err := out.Write(append(result.Artifacts[render.FormatJSON], '\n'))
		return err
	}
	if err := writeFile(output, result.Artifacts[render.FormatJSON]); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(output)
	printRows(result.Layout)
	printStats(statsOf(result))
	printNewline()
	printNextStep("Render", "photogrid render -f html,svg")
	return nil
}

// printRows prints one table line per packed row.
func printRows(l render.Layout) {
	printTable([]string{"Row", "Images", "Height", "Top", "First"}, rowTable(l))
}

// rowTable summarises each row of l for display.
func rowTable(l render.Layout) [][]string {
	rows := l.Result.Rows()
	table := make([][]string, 0, len(rows))
	for i, row := range rows {
		first := l.Result.Boxes[row[0]]
		name := ""
		if row[0] < len(l.Images) {
			name = l.Images[row[0]].Path
		}
		label := fmt.Sprintf("%d", i+1)
		if i == len(rows)-1 && l.Result.WidowCount > 0 {
			label += " (widow)"
		}
		table = append(table, []string{
			label,
			fmt.Sprintf("%d", len(row)),
			fmt.Sprintf("%.1f", first.Height),
			fmt.Sprintf("%.0f", first.Top),
			name,
		})
	}
	return table
}

func statsOf(r *pipeline.Result) layoutStats {
	return layoutStats{
		images:    r.Stats.Images,
		rows:      r.Stats.Rows,
		widows:    r.Stats.Widows,
		fallbacks: r.Stats.Fallbacks,
		height:    r.Layout.Result.ContainerHeight,
	}
}

func widthOrDefault(w float64) float64 {
	if w == 0 {
		return pipeline.DefaultWidth
	}
	return w
}

// writeFile writes data, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// sizeLabel formats a probed size for tables.
func sizeLabel(s justified.ImageSize) string {
	return fmt.Sprintf("%.0f×%.0f", s.Width, s.Height)
}
