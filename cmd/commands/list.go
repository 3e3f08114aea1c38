package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/store"
)

var (
	listOffset int
	listLimit  int
	listQuery  string
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members one page at a time",
		Long: `List members ordered by creation time.

Examples:
  # First page (ui.page_size members)
  memberdesk list

  # Third page of 10
  memberdesk list --offset 20 --limit 10

  # Filter by name or email
  memberdesk list --query ann

  # JSON output with paging metadata
  memberdesk list -o json`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE:    runList,
	}

	cmd.Flags().IntVar(&listOffset, "offset", 0, "Number of members to skip")
	cmd.Flags().IntVar(&listLimit, "limit", 0, "Page size (default: ui.page_size)")
	cmd.Flags().StringVar(&listQuery, "query", "", "Only members whose name or email contains this text")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	if listOffset < 0 || listLimit < 0 {
		return fmt.Errorf("--offset and --limit must not be negative")
	}

	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	limit := listLimit
	if limit == 0 {
		limit = ctx.Settings.UI.PageSize
	}

	page, err := s.List(cmd.Context(), store.ListOptions{Offset: listOffset, Limit: limit, Query: listQuery})
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}
	result := page.Describe(listOffset, limit)

	switch format := outputFormat(cmd); format {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	default:
		return outputListText(cmd, result)
	}
}

func outputListText(cmd *cobra.Command, result *models.MemberPage) error {
	out := cmd.OutOrStdout()

	if result.Total == 0 {
		if listQuery != "" {
			fmt.Fprintf(out, "No members match %q\n", listQuery)
		} else {
			fmt.Fprintln(out, "No members yet. Add one with 'memberdesk create'.")
		}
		return nil
	}

	printMemberTable(cmd, result.Members)

	fmt.Fprintf(out, "\nPage %d of %d (%d members)\n", result.Page, result.TotalPages, result.Total)
	if result.HasMore {
		fmt.Fprintf(out, "More: memberdesk list --offset %d --limit %d\n", result.Offset+len(result.Members), result.Limit)
	}
	return nil
}

func printMemberTable(cmd *cobra.Command, members []*models.Member) {
	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("ID", "NAME", "EMAIL", "VERIFIED", "UPDATED")
	for _, m := range members {
		verified := "no"
		if m.EmailVerified {
			verified = "yes"
		}
		table.Row(
			m.ID,
			cli.TruncateString(cli.OrDash(m.Label()), 30),
			cli.TruncateString(m.Email, 40),
			verified,
			cli.FormatTime(m.UpdatedAt),
		)
	}
	table.Flush()
}
