package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/photogrid/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Its PersistentPreRunE loads the config and attaches the logger to the
// command context. Callers that install their own pre-run hook should call
// the original one.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Photogrid lays out responsive justified photo galleries",
		Long: `Photogrid packs photographs into rows that fill the container width
exactly, keeping every image's aspect ratio, and re-lays the grid whenever the
window changes size.

The same layout engine runs in the browser (as WebAssembly), on the server
(to pre-lay pages) and in this CLI.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if skipsConfig(cmd) {
				return nil
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default ./photogrid.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.probeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.themeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	c.registerFlagCompletions(root)

	return root
}

// skipsConfig reports whether cmd runs without reading settings, so a
// broken config file never blocks shell completion.
func skipsConfig(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		switch cmd.Name() {
		case "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}
