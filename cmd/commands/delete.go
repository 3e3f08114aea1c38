package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
)

var (
	deleteForce bool
)

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a member",
		Long: `Permanently delete a member profile.

This action cannot be undone.

Examples:
  # Delete a member (with confirmation)
  memberdesk delete 01963f3c-5a7e-7c11-9d2a-0c5e8b1f4a2d

  # Delete without confirmation
  memberdesk delete 01963f3c-5a7e-7c11-9d2a-0c5e8b1f4a2d --force`,
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE:    runDelete,
	}

	cmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Force deletion without confirmation")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	member, err := s.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	if !deleteForce {
		prompt := fmt.Sprintf("Permanently delete member '%s' (%s)? This cannot be undone.", member.Label(), member.ID)
		confirmed, err := cli.Confirm(prompt, false)
		if err != nil {
			return err
		}
		if !confirmed {
			cli.PrintInfo("Deletion cancelled")
			return nil
		}
	}

	if err := s.Delete(cmd.Context(), member.ID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	cli.PrintSuccess("Deleted member: %s", member.Label())
	return nil
}
