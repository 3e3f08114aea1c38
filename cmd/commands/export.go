package commands

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/files"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/store"
)

var (
	exportToFile string
	exportQuery  string
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export members to stdout or a file",
		Long: `Export every member (or those matching --query).

Text output prints one contact card per member. Use -o json or -o yaml for
a structured dump; password hashes are never exported as JSON.

Examples:
  # Contact cards to stdout
  memberdesk export

  # YAML dump to a file
  memberdesk export -o yaml --file members.yaml

  # Only members matching a query
  memberdesk export --query example.com -o json`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportToFile, "file", "f", "", "Export to file instead of stdout")
	cmd.Flags().StringVar(&exportQuery, "query", "", "Only members whose name or email contains this text")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	page, err := s.List(cmd.Context(), store.ListOptions{Query: exportQuery})
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	var buf bytes.Buffer
	format := outputFormat(cmd)
	if format == "json" || format == "yaml" {
		members := page.Members
		if members == nil {
			members = []*models.Member{}
		}
		if err := cli.OutputResults(&buf, format, members); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
	} else {
		writeContactCards(&buf, page.Members)
	}

	if exportToFile == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if err := files.WriteFileAtomic(exportToFile, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	cli.PrintSuccess("Exported %d member(s) to: %s", len(page.Members), exportToFile)
	return nil
}

func writeContactCards(w io.Writer, members []*models.Member) {
	cards := make([]string, 0, len(members))
	for _, m := range members {
		cards = append(cards, fmt.Sprintf("# %s (%s)\n%s", m.Label(), m.ID, ContactCard(m)))
	}
	if len(cards) > 0 {
		fmt.Fprintln(w, strings.Join(cards, "\n\n"))
	}
}
