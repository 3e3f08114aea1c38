package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
)

// bcryptCost is lowered by tests
var bcryptCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the member's stored hash
func CheckPassword(member *models.Member, password string) bool {
	if !member.HasPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) == nil
}

// ApplyDelta writes delta onto member. Field names are checked before
// anything changes, so an unknown field leaves member untouched.
func ApplyDelta(member *models.Member, delta editing.Values, now time.Time) error {
	for _, key := range delta.Keys() {
		if !isEditable(string(key)) {
			return fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
	}

	var hash string
	if password, ok := delta[models.FieldPassword]; ok {
		if password == "" {
			return fmt.Errorf("%w: password cannot be empty", ErrInvalidMember)
		}
		h, err := HashPassword(password)
		if err != nil {
			return err
		}
		hash = h
	}

	for key, value := range delta {
		switch string(key) {
		case models.FieldFirstName:
			member.FirstName = value
		case models.FieldLastName:
			member.LastName = value
		case models.FieldDisplayName:
			member.DisplayName = value
		case models.FieldEmail:
			if value != member.Email {
				member.EmailVerified = false
			}
			member.Email = value
		case models.FieldPhone:
			member.Phone = value
		case models.FieldBio:
			member.Bio = value
		case models.FieldPassword:
			member.PasswordHash = hash
		}
	}

	if len(delta) > 0 {
		member.UpdatedAt = now
	}
	return nil
}

// prepareNew fills in the id and timestamps of a member about to be created
func prepareNew(member *models.Member, now time.Time) (*models.Member, error) {
	if member == nil || strings.TrimSpace(member.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidMember)
	}

	m := *member
	if m.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate member id: %w", err)
		}
		m.ID = id.String()
	} else if err := validateID(m.ID); err != nil {
		return nil, err
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}
	return &m, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func isEditable(field string) bool {
	for _, f := range models.EditableFields {
		if f == field {
			return true
		}
	}
	return false
}

// NewMember builds an unsaved member from editable field values
func NewMember(fields editing.Values, now time.Time) (*models.Member, error) {
	member := &models.Member{}
	if err := ApplyDelta(member, fields, now); err != nil {
		return nil, err
	}
	return member, nil
}
