package commands

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/profile"
)

// writeClipboard is swapped out in tests
var writeClipboard = clipboard.WriteAll

// NewCopyCommand creates the copy command
func NewCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id> [field]",
		Short: "Copy a member's contact card or one field to the clipboard",
		Long: `Copy a member's profile to the system clipboard.

Without a field the whole contact card is copied. The password can not be
copied.

Examples:
  # Copy the contact card
  memberdesk copy 01963f3c-5a7e-7c11-9d2a-0c5e8b1f4a2d

  # Copy just the email address
  memberdesk copy 01963f3c-5a7e-7c11-9d2a-0c5e8b1f4a2d email`,
		Aliases: []string{"clip", "clipboard"},
		Args:    cobra.RangeArgs(1, 2),
		RunE:    runCopy,
	}
}

func runCopy(cmd *cobra.Command, args []string) error {
	field := ""
	if len(args) == 2 {
		field = args[1]
		if err := cli.ValidateFieldName(field); err != nil {
			return err
		}
		if field == models.FieldPassword {
			return fmt.Errorf("the password can not be copied")
		}
	}

	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	member, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	content := ContactCard(member)
	what := "Contact card"
	if field != "" {
		content = editing.Stringify(member.Record()[field])
		what = strings.ReplaceAll(field, "_", " ")
	}
	if content == "" {
		return fmt.Errorf("%s of %s is empty", what, member.Label())
	}

	if err := writeClipboard(content); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	cli.PrintSuccess("%s of %s copied to clipboard", what, member.Label())
	return nil
}

// ContactCard renders the non-empty profile fields as "Label: value" lines
func ContactCard(member *models.Member) string {
	record := member.Record()

	var b strings.Builder
	for _, field := range profile.Fields() {
		if field.Masked() {
			continue
		}
		value := editing.Stringify(record[string(field.ID)])
		if value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", field.DisplayName(), value)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
