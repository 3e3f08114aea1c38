package commands

import (
	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a memberdesk project",
		Long: `Creates the .memberdesk folder structure (or the directory given by
--config-dir) with a default config.yaml and an empty member store.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := NewContext(cmd)

	cli.PrintInfo("Initializing memberdesk project in %s...", ctx.Layout.Root)

	written, err := ctx.InitProject()
	if err != nil {
		return err
	}

	if written {
		cli.PrintSuccess("Created %s", ctx.Layout.ConfigPath())
	} else {
		cli.PrintInfo("Keeping existing %s", ctx.Layout.ConfigPath())
	}
	cli.PrintSuccess("Project ready. Run 'memberdesk' to start the interactive TUI.")
	return nil
}
