package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/search"
	"github.com/pluqqy/memberdesk/pkg/store"
)

// SearchResultOutput represents the formatted search results
type SearchResultOutput struct {
	Query   string           `json:"query" yaml:"query"`
	Count   int              `json:"count" yaml:"count"`
	Results []*models.Member `json:"results" yaml:"results"`
}

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search members",
		Long: `Search members using a small query syntax.

Query Syntax:
  ann                  - Name or email contains "ann"
  email:example.com    - Field contains a value (name, email, phone, bio)
  verified:no          - Email not verified yet
  updated:<7d          - Changed within the last 7 days (h, d, w, m, y)
  created:>1y          - Created more than a year ago

  Combine with AND (the default), OR and NOT:
  email:example.com AND NOT verified:yes

Examples:
  memberdesk search ann
  memberdesk search "verified:no updated:>30d"
  memberdesk search 'bio:"keeps bees" OR phone:555'`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	page, err := s.List(cmd.Context(), store.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	results, err := search.NewEngine().Search(page.Members, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	output := SearchResultOutput{
		Query:   query,
		Count:   len(results),
		Results: make([]*models.Member, 0, len(results)),
	}
	for _, r := range results {
		output.Results = append(output.Results, r.Member)
	}

	switch format := outputFormat(cmd); format {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), format, output)
	default:
		return outputSearchText(cmd, output)
	}
}

func outputSearchText(cmd *cobra.Command, result SearchResultOutput) error {
	if result.Count == 0 {
		cli.PrintInfo("No results found for query: %s", result.Query)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Search Results for: %s\n\n", result.Query)
	printMemberTable(cmd, result.Results)
	fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d results\n", result.Count)
	return nil
}
