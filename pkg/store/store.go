// Package store persists member profiles. Two backends implement Store: one
// YAML file per member, or a single SQLite database.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/files"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/pagination"
)

var (
	ErrNotFound       = errors.New("member not found")
	ErrInvalidID      = errors.New("invalid member id")
	ErrUnknownField   = errors.New("unknown member field")
	ErrInvalidBackend = errors.New("invalid storage backend")
	ErrInvalidMember  = errors.New("invalid member")
	ErrDuplicate      = errors.New("member already exists")
)

// ListOptions selects one page of members
type ListOptions struct {
	Offset int
	// Limit <= 0 returns every member from Offset on
	Limit int
	// Query filters by a case-insensitive substring of name or email
	Query string
}

// Page is one page of members plus the total number of matches
type Page struct {
	Members []*models.Member
	Total   int
}

// Describe returns the page with its pagination metadata, given the offset
// and limit it was fetched with
func (p *Page) Describe(offset, limit int) *models.MemberPage {
	meta := pagination.Derive(pagination.State{
		Offset:      offset,
		Limit:       limit,
		Total:       p.Total,
		LoadedItems: len(p.Members),
	})
	members := p.Members
	if members == nil {
		members = []*models.Member{}
	}
	return &models.MemberPage{
		Members:    members,
		Total:      p.Total,
		Offset:     offset,
		Limit:      limit,
		HasMore:    meta.HasMore,
		Page:       meta.CurrentPage,
		TotalPages: meta.TotalPages,
	}
}

// Store is implemented by every member backend
type Store interface {
	Get(ctx context.Context, id string) (*models.Member, error)
	List(ctx context.Context, opts ListOptions) (*Page, error)
	Create(ctx context.Context, member *models.Member) (*models.Member, error)
	// Update applies a string delta keyed by editable field name
	Update(ctx context.Context, id string, delta editing.Values) (*models.Member, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open returns the backend selected by settings
func Open(settings *models.Settings) (Store, error) {
	dataDir := settings.Storage.DataDir

	switch settings.Storage.Backend {
	case models.BackendYAML, "":
		return NewFileStore(dataDir)
	case models.BackendSQLite:
		return NewSQLiteStore(filepath.Join(dataDir, files.SQLiteDatabase))
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, settings.Storage.Backend)
	}
}

// Persister commits engine deltas for member id through s and hands the
// stored record back as the new baseline
func Persister(s Store, id string) editing.Persister {
	return func(ctx context.Context, delta editing.Values) (editing.Record, error) {
		member, err := s.Update(ctx, id, delta)
		if err != nil {
			return nil, err
		}
		return member.Record(), nil
	}
}

// window slices [offset, offset+limit) out of n items
func window(n, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
