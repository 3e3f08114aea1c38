package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/theme"
)

var themeNames = func() []string {
	out := make([]string, len(theme.Names))
	for i, n := range theme.Names {
		out[i] = string(n)
	}
	return out
}()

// NewThemeCommand creates the theme command
func NewThemeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [" + strings.Join(themeNames, "|") + "|toggle]",
		Short: "Show or change the TUI color theme",
		Long: `Without an argument, print the active theme. With one, switch to it and
remember the choice for the next session.

Examples:
  memberdesk theme
  memberdesk theme light
  memberdesk theme toggle`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: append(append([]string{}, themeNames...), "toggle"),
		RunE:      runTheme,
	}
}

func runTheme(cmd *cobra.Command, args []string) error {
	ctx := NewContext(cmd)
	if err := ctx.ValidateProject(); err != nil {
		return err
	}

	themes := ctx.ThemeStore()
	if err := themes.Hydrate(cmd.Context()); err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), themes.Name())
		return nil
	}

	if args[0] == "toggle" {
		n, err := themes.Toggle()
		if err != nil {
			return err
		}
		cli.PrintSuccess("Theme set to %s", n)
		return nil
	}

	n, err := theme.ParseName(args[0])
	if err != nil {
		return err
	}
	if err := themes.Set(n); err != nil {
		return err
	}
	cli.PrintSuccess("Theme set to %s", n)
	return nil
}
