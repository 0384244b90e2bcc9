package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photogrid/pkg/prefs"
	"github.com/matzehuels/photogrid/pkg/themes"
)

// themeCommand creates the theme preference command.
func (c *CLI) themeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the gallery theme",
		Long: `Show or change the stored gallery theme.

The theme only changes colours; it never affects layout. The preference is
kept in the backend named by [prefs] in the config, so a server sharing a
SQLite or Redis store picks it up on the next page load.`,
	}

	cmd.AddCommand(c.themeListCommand())
	cmd.AddCommand(c.themeGetCommand())
	cmd.AddCommand(c.themeSetCommand())

	return cmd
}

func (c *CLI) themeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPrefs(cmd.Context(), func(ctx context.Context, store prefs.Store) error {
				current, err := prefs.CurrentTheme(ctx, store)
				if err != nil {
					return err
				}
				printTable([]string{"", "ID", "Name"}, themeTable(current))
				return nil
			})
		},
	}
}

func (c *CLI) themeGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current theme id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPrefs(cmd.Context(), func(ctx context.Context, store prefs.Store) error {
				current, err := prefs.CurrentTheme(ctx, store)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, current)
				return nil
			})
		},
	}
}

func (c *CLI) themeSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "set <theme>",
		Short:             "Store the theme preference",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeThemes,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPrefs(cmd.Context(), func(ctx context.Context, store prefs.Store) error {
				if err := prefs.SetTheme(ctx, store, args[0]); err != nil {
					return err
				}
				t, _ := themes.Lookup(args[0])
				printSuccess("Theme set to %s", StyleHighlight.Render(t.Name))
				return nil
			})
		},
	}
}

// withPrefs opens the preference store for the duration of fn.
func (c *CLI) withPrefs(ctx context.Context, fn func(context.Context, prefs.Store) error) error {
	store, err := c.newPrefs(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

// themeTable lists the built-in themes, marking current.
func themeTable(current string) [][]string {
	rows := make([][]string, len(themes.All))
	for i, t := range themes.All {
		mark := ""
		if t.ID == current {
			mark = iconSelected
		}
		rows[i] = []string{mark, t.ID, t.Name}
	}
	return rows
}

func completeThemes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ids := make([]string, len(themes.All))
	for i, t := range themes.All {
		ids[i] = t.ID + "\t" + t.Name
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
