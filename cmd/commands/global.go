package commands

import (
	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/store"
)

// Flags registered on the root command and inherited by every subcommand
const (
	FlagConfigDir = "config-dir"
	FlagQuiet     = "quiet"
	FlagNoColor   = "no-color"
	FlagYes       = "yes"
	FlagOutput    = "output"
	FlagDebug     = "debug"
)

// AddGlobalFlags registers the persistent flags on root
func AddGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String(FlagConfigDir, "", "configuration directory (default: ./.memberdesk)")
	flags.BoolP(FlagQuiet, "q", false, "Suppress informational output")
	flags.Bool(FlagNoColor, false, "Disable symbols and colors in output")
	flags.BoolP(FlagYes, "y", false, "Answer yes to every confirmation")
	flags.StringP(FlagOutput, "o", "text", "Output format (text, json, yaml)")
	flags.Bool(FlagDebug, false, "Write a debug log to the config directory")
}

// ApplyGlobalFlags validates the persistent flags and hands them to the cli
// helpers
func ApplyGlobalFlags(cmd *cobra.Command) error {
	quiet, _ := cmd.Flags().GetBool(FlagQuiet)
	noColor, _ := cmd.Flags().GetBool(FlagNoColor)
	yes, _ := cmd.Flags().GetBool(FlagYes)
	cli.SetGlobalFlags(quiet, noColor, yes)

	output, _ := cmd.Flags().GetString(FlagOutput)
	return cli.ValidateOutputFormat(output)
}

// NewContext builds the command context for the --config-dir in effect
func NewContext(cmd *cobra.Command) *cli.CommandContext {
	dir, _ := cmd.Flags().GetString(FlagConfigDir)
	return cli.NewCommandContext(dir)
}

// openProject validates the project and opens its store. Callers close the
// returned context, which also closes the store.
func openProject(cmd *cobra.Command) (*cli.CommandContext, store.Store, error) {
	ctx := NewContext(cmd)
	if err := ctx.ValidateProject(); err != nil {
		return nil, nil, err
	}
	s, err := ctx.Store()
	if err != nil {
		return nil, nil, err
	}
	return ctx, s, nil
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString(FlagOutput)
	return format
}
