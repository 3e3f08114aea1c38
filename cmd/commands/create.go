package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/client"
	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/profile"
	"github.com/pluqqy/memberdesk/pkg/store"
)

var createFields = map[string]*string{}

// NewCreateCommand creates the create command
func NewCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a member",
		Long: `Create a member profile. --first-name and --email are required.

Examples:
  memberdesk create --first-name Ann --last-name Lee --email ann@example.com

  # With an initial password
  memberdesk create --first-name Ann --email ann@example.com --password 's3cret-pass'`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}

	for _, field := range profile.Fields() {
		name := flagName(string(field.ID))
		createFields[string(field.ID)] = cmd.Flags().String(name, "", field.DisplayName())
	}

	return cmd
}

// flagName turns a field id like first_name into first-name
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func runCreate(cmd *cobra.Command, args []string) error {
	fields := map[string]string{}
	for field, value := range createFields {
		if cmd.Flags().Changed(flagName(field)) || field == models.FieldFirstName || field == models.FieldEmail {
			fields[field] = *value
		}
	}

	if problems := profile.ValidateChanges(fields); len(problems) > 0 {
		for _, line := range profile.FormatProblems(problems) {
			cli.PrintError("%s", line)
		}
		return fmt.Errorf("member not created: %d invalid field(s)", len(problems))
	}

	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	member, err := createMember(cmd.Context(), s, fields)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}

	if format := outputFormat(cmd); format == "json" || format == "yaml" {
		return cli.OutputResults(cmd.OutOrStdout(), format, member)
	}
	cli.PrintSuccess("Created member %s (%s)", member.Label(), member.ID)
	return nil
}

// createMember creates through the API when talking to a server, so the
// password is hashed there
func createMember(ctx context.Context, s store.Store, fields map[string]string) (*models.Member, error) {
	if c, ok := s.(*client.Client); ok {
		return c.CreateMember(ctx, fields)
	}

	values := make(editing.Values, len(fields))
	for k, v := range fields {
		values[editing.FieldID(k)] = v
	}
	member, err := store.NewMember(values, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, member)
}
