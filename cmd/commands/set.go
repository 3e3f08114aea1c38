package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/profile"
	"github.com/pluqqy/memberdesk/pkg/store"
)

// NewSetCommand creates the set command
func NewSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field=value>...",
		Short: "Change profile fields of a member",
		Long: `Edit one or more profile fields. Each field is validated, then only the
values that actually differ from the stored profile are saved.

Fields: ` + strings.Join(models.EditableFields, ", ") + `

Examples:
  memberdesk set 01963f3c-5a7e-7c11-9d2a-0c5e8b1f4a2d bio="Keeps bees"
  memberdesk set 01963f3c-5a7e-7c11-9d2a-0c5e8b1f4a2d first_name=Ann last_name=Lee
  memberdesk set 01963f3c-5a7e-7c11-9d2a-0c5e8b1f4a2d phone=`,
		Args: cobra.MinimumNArgs(2),
		RunE: runSet,
	}
}

// setResult is the outcome of applying assignments through an edit session
type setResult struct {
	saved   []editing.FieldID
	invalid map[editing.FieldID][]string
	err     error
}

// applyAssignments edits each field in turn, the way a user would in the
// profile editor: start, change, commit. Invalid values are cancelled and
// reported; a failed save stops the run.
func applyAssignments(cmd *cobra.Command, s store.Store, member *models.Member, values editing.Values) setResult {
	result := setResult{invalid: map[editing.FieldID][]string{}}

	session := profile.NewSession(member,
		editing.WithPersister(store.Persister(s, member.ID)),
		editing.WithSaveHandler(func(id editing.FieldID, _ editing.Record) {
			result.saved = append(result.saved, id)
		}),
		editing.WithErrorHandler(func(err error) {
			result.err = err
		}),
	)
	defer session.Discard()

	for _, field := range profile.Fields() {
		value, ok := values[field.ID]
		if !ok {
			continue
		}

		session.StartEdit(field.ID)
		session.ChangeValue(field.ID, value)
		if errs := session.Errors(field.ID); len(errs) > 0 {
			result.invalid[field.ID] = errs
			session.CancelEdit(field.ID)
			continue
		}

		session.EndEdit(cmd.Context(), field.ID)
		if result.err != nil {
			return result
		}
	}

	return result
}

func runSet(cmd *cobra.Command, args []string) error {
	id := args[0]
	values, err := cli.ParseAssignments(args[1:])
	if err != nil {
		return err
	}

	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	member, err := s.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	result := applyAssignments(cmd, s, member, values)

	if len(result.invalid) > 0 {
		problems := map[string][]string{}
		for field, errs := range result.invalid {
			problems[string(field)] = errs
		}
		for _, line := range profile.FormatProblems(problems) {
			cli.PrintError("%s", line)
		}
	}

	if result.err != nil {
		var persistErr *editing.PersistError
		if errors.As(result.err, &persistErr) {
			return fmt.Errorf("failed to save %s: %w", persistErr.Field, persistErr.Err)
		}
		return result.err
	}

	switch {
	case len(result.saved) > 0:
		names := make([]string, len(result.saved))
		for i, f := range result.saved {
			names[i] = string(f)
		}
		cli.PrintSuccess("Updated %s: %s", member.Label(), strings.Join(names, ", "))
	case len(result.invalid) == 0:
		cli.PrintInfo("No changes")
	}

	if len(result.invalid) > 0 {
		return fmt.Errorf("%d field(s) not saved", len(result.invalid))
	}
	return nil
}
