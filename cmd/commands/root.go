package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/tui"
)

// DebugEnv enables the debug log like --debug does
const DebugEnv = cli.EnvPrefix + "_DEBUG"

// NewRootCommand builds the memberdesk command tree. Without a subcommand it
// opens the interactive member browser.
func NewRootCommand(version string) *cobra.Command {
	var debugLog io.Closer

	root := &cobra.Command{
		Use:   "memberdesk",
		Short: "Browse and edit member profiles from the terminal",
		Long: `memberdesk manages member profiles stored as YAML files or in SQLite.

Run it without arguments for the interactive browser, or use the
subcommands for scripting. 'memberdesk serve' exposes the same store over
HTTP for other memberdesk clients.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := ApplyGlobalFlags(cmd); err != nil {
				return err
			}

			// the TUI owns the terminal, so log lines go to the debug log or nowhere
			log.SetOutput(io.Discard)
			debug, _ := cmd.Flags().GetBool(FlagDebug)
			if debug || os.Getenv(DebugEnv) != "" {
				ctx := NewContext(cmd)
				if !ctx.Layout.Exists() {
					return nil
				}
				f, err := tea.LogToFile(ctx.Layout.DebugLogPath(), "memberdesk")
				if err != nil {
					return fmt.Errorf("failed to open debug log: %w", err)
				}
				debugLog = f
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if debugLog != nil {
				return debugLog.Close()
			}
			return nil
		},
		RunE: runBrowser,
	}

	AddGlobalFlags(root)
	root.SetVersionTemplate("memberdesk version {{.Version}}\n")

	root.AddCommand(
		NewInitCommand(),
		NewListCommand(),
		NewSearchCommand(),
		NewShowCommand(),
		NewCreateCommand(),
		NewSetCommand(),
		NewEditCommand(),
		NewDeleteCommand(),
		NewCopyCommand(),
		NewExportCommand(),
		NewServeCommand(),
		NewThemeCommand(),
		NewExamplesCommand(),
		newVersionCommand(version),
	)

	return root
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of memberdesk",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "memberdesk version %s\n", version)
		},
	}
}

func runBrowser(cmd *cobra.Command, args []string) error {
	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	themes := ctx.ThemeStore()
	if err := themes.Hydrate(cmd.Context()); err != nil {
		return err
	}

	app := tui.NewApp(cmd.Context(), s, themes, ctx.Settings.UI.PageSize)
	if err := tui.Run(cmd.Context(), app); err != nil {
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}
	return nil
}
