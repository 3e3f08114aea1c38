package editing

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldID identifies one editable attribute of a record, e.g. "first_name"
type FieldID string

// MinPasswordLength is the shortest value accepted by password fields
const MinPasswordLength = 8

// FieldKind tags a field with the built-in checks that apply to it
type FieldKind int

const (
	KindText FieldKind = iota
	KindEmail
	KindPassword
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmail:
		return "email"
	case KindPassword:
		return "password"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// validate runs the check implied by the field kind
func (k FieldKind) validate(value string) string {
	switch k {
	case KindEmail:
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != strings.TrimSpace(value) {
			return "Enter a valid email address"
		}
	case KindPassword:
		if utf8.RuneCountInString(value) < MinPasswordLength {
			return fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)
		}
	}
	return ""
}

// Validator checks a candidate value. It returns an empty string when the
// value is acceptable. form is a read-only snapshot of every field value and
// lets confirmation-style checks look at sibling fields.
type Validator func(value string, form Values) string

// FieldConfig declares one editable field. It is immutable once handed to
// an Engine.
type FieldConfig struct {
	ID         FieldID
	Kind       FieldKind
	Label      string
	Required   bool
	Validators []Validator
}

// Text declares a free text field
func Text(id FieldID, label string, validators ...Validator) FieldConfig {
	return FieldConfig{ID: id, Kind: KindText, Label: label, Validators: validators}
}

// Email declares an email address field
func Email(id FieldID, label string, validators ...Validator) FieldConfig {
	return FieldConfig{ID: id, Kind: KindEmail, Label: label, Validators: validators}
}

// Password declares a password field
func Password(id FieldID, label string, validators ...Validator) FieldConfig {
	return FieldConfig{ID: id, Kind: KindPassword, Label: label, Validators: validators}
}

// AsRequired returns a copy of the config that rejects blank values
func (f FieldConfig) AsRequired() FieldConfig {
	f.Required = true
	return f
}

// DisplayName returns the label, or a humanized form of the id
func (f FieldConfig) DisplayName() string {
	if f.Label != "" {
		return f.Label
	}
	name := strings.ReplaceAll(string(f.ID), "_", " ")
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Masked reports whether the value should be hidden when displayed
func (f FieldConfig) Masked() bool {
	return f.Kind == KindPassword
}

// Validate returns every error message for value. An empty result means the
// value is valid.
func (f FieldConfig) Validate(value string, form Values) []string {
	var errs []string

	if strings.TrimSpace(value) == "" {
		if f.Required {
			return append(errs, fmt.Sprintf("%s is required", f.DisplayName()))
		}
	} else if msg := f.Kind.validate(value); msg != "" {
		errs = append(errs, msg)
	}

	for _, validate := range f.Validators {
		if validate == nil {
			continue
		}
		if msg := validate(value, form); msg != "" {
			errs = append(errs, msg)
		}
	}

	return errs
}

// MaxLength rejects values longer than n characters
func MaxLength(n int) Validator {
	return func(value string, _ Values) string {
		if utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("Must be at most %d characters", n)
		}
		return ""
	}
}

// MinLength rejects non-empty values shorter than n characters
func MinLength(n int) Validator {
	return func(value string, _ Values) string {
		if value != "" && utf8.RuneCountInString(value) < n {
			return fmt.Sprintf("Must be at least %d characters", n)
		}
		return ""
	}
}

// Pattern rejects non-empty values that do not match re
func Pattern(re *regexp.Regexp, message string) Validator {
	return func(value string, _ Values) string {
		if value != "" && !re.MatchString(value) {
			return message
		}
		return ""
	}
}

// MatchesField rejects values that differ from the current value of other
func MatchesField(other FieldID, message string) Validator {
	return func(value string, form Values) string {
		if value != form[other] {
			return message
		}
		return ""
	}
}
