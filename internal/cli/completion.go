package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photogrid/pkg/render"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for photogrid.

To load completions:

Bash:
  $ source <(photogrid completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ photogrid completion bash > /etc/bash_completion.d/photogrid
  # macOS:
  $ photogrid completion bash > $(brew --prefix)/etc/bash_completion.d/photogrid

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ photogrid completion zsh > "${fpath[1]}/_photogrid"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ photogrid completion fish | source

  # To load completions for each session, execute once:
  $ photogrid completion fish > ~/.config/fish/completions/photogrid.fish

PowerShell:
  PS> photogrid completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> photogrid completion powershell > photogrid.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerFlagCompletions completes --collection, --theme and --format on
// every command in the tree that has them.
func (c *CLI) registerFlagCompletions(cmd *cobra.Command) {
	flags := map[string]func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective){
		"collection": c.completeCollections,
		"theme":      completeThemes,
		"format":     completeFormats,
	}
	for name, fn := range flags {
		if cmd.Flags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, fn)
		}
	}
	for _, sub := range cmd.Commands() {
		c.registerFlagCompletions(sub)
	}
}

// completeCollections offers the collection ids of the configured gallery.
// Completion runs without the root pre-run, so the config is loaded here.
func (c *CLI) completeCollections(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := c.newSource(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if cl, ok := src.(interface{ Close(context.Context) error }); ok {
		defer cl.Close(ctx)
	}
	g, err := src.Load(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var ids []string
	for _, col := range g.Collections {
		if strings.HasPrefix(col.ID, toComplete) {
			ids = append(ids, col.ID+"\t"+col.Name)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last entry of a comma-separated format list,
// skipping formats already named.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, last = toComplete[:i+1], toComplete[i+1:]
	}
	named := strings.Split(done, ",")

	var matches []string
	for _, f := range render.Formats {
		if strings.HasPrefix(f, last) && !slices.Contains(named, f) {
			matches = append(matches, done+f)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

