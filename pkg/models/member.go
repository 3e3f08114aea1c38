package models

import (
	"strings"
	"time"
)

// Editable member field names, shared by the editor, stores and the API
const (
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldDisplayName = "display_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldBio         = "bio"
	FieldPassword    = "password"
)

// EditableFields lists every field a delta may carry, in display order
var EditableFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldDisplayName,
	FieldEmail,
	FieldPhone,
	FieldBio,
	FieldPassword,
}

// Member represents a member profile
type Member struct {
	ID            string    `yaml:"id" json:"id"`
	FirstName     string    `yaml:"first_name" json:"first_name"`
	LastName      string    `yaml:"last_name" json:"last_name"`
	DisplayName   string    `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Email         string    `yaml:"email" json:"email"`
	EmailVerified bool      `yaml:"email_verified" json:"email_verified"`
	Phone         string    `yaml:"phone,omitempty" json:"phone,omitempty"`
	Bio           string    `yaml:"bio,omitempty" json:"bio,omitempty"`
	PasswordHash  string    `yaml:"password_hash,omitempty" json:"-"`
	CreatedAt     time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt     time.Time `yaml:"updated_at" json:"updated_at"`
}

// FullName joins first and last name
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Label returns the best human-readable name for the member
func (m *Member) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	if name := m.FullName(); name != "" {
		return name
	}
	return m.Email
}

// HasPassword reports whether a password has been set
func (m *Member) HasPassword() bool {
	return m.PasswordHash != ""
}

// Record returns the member's editable values keyed by field name. The
// password is write-only and never appears.
func (m *Member) Record() map[string]any {
	return map[string]any{
		FieldFirstName:   m.FirstName,
		FieldLastName:    m.LastName,
		FieldDisplayName: m.DisplayName,
		FieldEmail:       m.Email,
		FieldPhone:       m.Phone,
		FieldBio:         m.Bio,
	}
}

// Matches reports whether query appears in the member's name or email,
// ignoring case. An empty query matches everything.
func (m *Member) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{m.FirstName, m.LastName, m.DisplayName, m.Email}, " "))
	return strings.Contains(haystack, query)
}

// MemberPage is one page of a member listing, as served by the HTTP API
type MemberPage struct {
	Members    []*Member `json:"members" yaml:"members"`
	Total      int       `json:"total" yaml:"total"`
	Offset     int       `json:"offset" yaml:"offset"`
	Limit      int       `json:"limit" yaml:"limit"`
	HasMore    bool      `json:"has_more" yaml:"has_more"`
	Page       int       `json:"page" yaml:"page"`
	TotalPages int       `json:"total_pages" yaml:"total_pages"`
}
