package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/pkg/tui"
)

// NewEditCommand creates the edit command
func NewEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a member profile in the interactive editor",
		Long: `Open the profile editor for one member. Fields are edited one at a time:
enter starts editing, enter again saves only what changed, esc restores the
previous value. Leaving the editor returns to the shell.

Use 'memberdesk set' to change fields without the editor.

Examples:
  memberdesk edit 01963f3c-5a7e-7c11-9d2a-0c5e8b1f4a2d`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	member, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	themes := ctx.ThemeStore()
	if err := themes.Hydrate(cmd.Context()); err != nil {
		return err
	}

	if err := tui.Run(cmd.Context(), tui.NewEditorApp(cmd.Context(), s, themes, member)); err != nil {
		return fmt.Errorf("failed to start the profile editor: %w", err)
	}
	return nil
}
