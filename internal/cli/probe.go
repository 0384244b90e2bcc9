package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/photogrid/pkg/errors"
	"github.com/matzehuels/photogrid/pkg/metrics"
	"github.com/matzehuels/photogrid/pkg/pipeline"
)

// probeCommand creates the probe command for inspecting image dimensions.
func (c *CLI) probeCommand() *cobra.Command {
	var (
		collection string
		noCache    bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "probe [image...]",
		Short: "Read image dimensions from file headers",
		Long: `Read image dimensions from file headers without decoding pixels.

With no arguments every image in the gallery is probed. Paths are relative
to the configured image directory. Images that cannot be read are reported
with the 3:2 fallback size the layout would use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProbe(cmd.Context(), args, collection, noCache, asJSON)
		},
	}

	cmd.Flags().StringVarP(&collection, "collection", "c", "", "only probe images in this collection")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore cached dimensions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}

func (c *CLI) runProbe(ctx context.Context, paths []string, collection string, noCache, asJSON bool) error {
	runner, cleanup, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Probing images...")
	spinner.Start()
	probes, err := probePaths(ctx, runner, paths, collection)
	if err != nil {
		spinner.StopWithError("Probe failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Probed %d images", len(probes)))

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(probes)
	}

	printTable([]string{"Image", "Size", "Ratio", "Format", "Status"}, probeTable(probes))
	if n := metrics.Fallbacks(probes); n > 0 {
		printWarning("%d of %d images use the fallback size", n, len(probes))
	} else {
		printSuccess("Probed %d images", len(probes))
	}
	return nil
}

// probePaths probes explicit paths, or the gallery's images when none are
// given.
func probePaths(ctx context.Context, runner *pipeline.Runner, paths []string, collection string) ([]metrics.Probe, error) {
	if len(paths) > 0 {
		for _, p := range paths {
			if err := perrors.ValidatePath(p); err != nil {
				return nil, err
			}
		}
		return runner.Prober.ProbeAll(ctx, paths)
	}
	g, err := runner.Load(ctx)
	if err != nil {
		return nil, err
	}
	images, err := pipeline.SelectImages(g, collection)
	if err != nil {
		return nil, err
	}
	return runner.Probe(ctx, images)
}

func probeTable(probes []metrics.Probe) [][]string {
	rows := make([][]string, len(probes))
	for i, p := range probes {
		status := "ok"
		if p.Fallback {
			status = "fallback"
		}
		format := p.Format
		if format == "" {
			format = "-"
		}
		rows[i] = []string{
			p.Path,
			sizeLabel(p.Size),
			fmt.Sprintf("%.3f", p.Size.AspectRatio()),
			format,
			status,
		}
	}
	return rows
}
