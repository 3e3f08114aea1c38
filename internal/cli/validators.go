package cli

import (
	"fmt"
	"strings"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
)

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{"text", "json", "yaml"}
	for _, valid := range validFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateFieldName checks that name is an editable member field
func ValidateFieldName(name string) error {
	if Contains(models.EditableFields, name) {
		return nil
	}
	return fmt.Errorf("unknown field: %s (must be one of: %s)", name, strings.Join(models.EditableFields, ", "))
}

// ParseAssignments turns "field=value" arguments into field values. A field
// may appear only once; values may contain "=" and may be empty.
func ParseAssignments(args []string) (editing.Values, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expected at least one field=value pair")
	}

	values := make(editing.Values, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected field=value)", arg)
		}
		if err := ValidateFieldName(field); err != nil {
			return nil, err
		}
		if _, dup := values[editing.FieldID(field)]; dup {
			return nil, fmt.Errorf("field %s given more than once", field)
		}
		values[editing.FieldID(field)] = value
	}

	return values, nil
}

// Contains checks if a string is in a slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
