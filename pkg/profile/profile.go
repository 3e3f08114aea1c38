// Package profile declares the member profile form on top of the editing
// engine.
package profile

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,}$`)

// Fields returns the editable member profile fields in display order
func Fields() []editing.FieldConfig {
	return []editing.FieldConfig{
		editing.Text(models.FieldFirstName, "First name", editing.MaxLength(50)).AsRequired(),
		editing.Text(models.FieldLastName, "Last name", editing.MaxLength(50)),
		editing.Text(models.FieldDisplayName, "Display name", editing.MaxLength(50)),
		editing.Email(models.FieldEmail, "Email", editing.MaxLength(254)).AsRequired(),
		editing.Text(models.FieldPhone, "Phone", editing.Pattern(phonePattern, "Enter a valid phone number")),
		editing.Text(models.FieldBio, "Bio", editing.MaxLength(500)),
		editing.Password(models.FieldPassword, "Password", editing.MaxLength(72)),
	}
}

// NewSession opens an edit session for member
func NewSession(member *models.Member, opts ...editing.Option) *editing.Engine {
	return editing.NewEngine(member.Record(), Fields(), opts...)
}

// ValidateChanges checks a set of field changes against the profile form.
// It returns the messages per field; an unknown field is reported too.
func ValidateChanges(changes map[string]string) map[string][]string {
	fields := make(map[editing.FieldID]editing.FieldConfig)
	for _, f := range Fields() {
		fields[f.ID] = f
	}

	form := make(editing.Values, len(changes))
	for k, v := range changes {
		form[editing.FieldID(k)] = v
	}

	problems := make(map[string][]string)
	for name, value := range changes {
		field, ok := fields[editing.FieldID(name)]
		if !ok {
			problems[name] = []string{fmt.Sprintf("%s is not an editable field", name)}
			continue
		}
		if errs := field.Validate(value, form); len(errs) > 0 {
			problems[name] = errs
		}
	}
	return problems
}

// FormatProblems renders ValidateChanges output as sorted "field: message" lines
func FormatProblems(problems map[string][]string) []string {
	var lines []string
	for field, msgs := range problems {
		for _, msg := range msgs {
			lines = append(lines, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	sort.Strings(lines)
	return lines
}
