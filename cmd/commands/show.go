package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/profile"
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a member profile",
		Long: `Display every profile field of a member.

Examples:
  memberdesk show 01963f3c-5a7e-7c11-9d2a-0c5e8b1f4a2d
  memberdesk show 01963f3c-5a7e-7c11-9d2a-0c5e8b1f4a2d -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	member, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	switch format := outputFormat(cmd); format {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), format, member)
	default:
		printMember(cmd, member)
		return nil
	}
}

func printMember(cmd *cobra.Command, member *models.Member) {
	out := cmd.OutOrStdout()
	record := member.Record()

	fmt.Fprintf(out, "%s\n\n", member.Label())

	table := cli.NewTableFormatter(out)
	table.Row("ID:", member.ID)
	for _, field := range profile.Fields() {
		value := cli.OrDash(fmt.Sprint(record[string(field.ID)]))
		if field.Masked() {
			value = "not set"
			if member.HasPassword() {
				value = "set"
			}
		}
		table.Row(field.DisplayName()+":", value)
	}
	verified := "no"
	if member.EmailVerified {
		verified = "yes"
	}
	table.Row("Email verified:", verified)
	table.Row("Created:", cli.FormatTime(member.CreatedAt))
	table.Row("Updated:", cli.FormatTime(member.UpdatedAt))
	table.Flush()
}
