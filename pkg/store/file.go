package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/files"
	"github.com/pluqqy/memberdesk/pkg/models"
)

// FileStore keeps one YAML file per member under <data dir>/members
type FileStore struct {
	mu  sync.RWMutex
	dir string
	now func() time.Time
}

// NewFileStore opens (and creates if needed) the member directory below dataDir
func NewFileStore(dataDir string) (*FileStore, error) {
	dir := filepath.Join(dataDir, files.MembersDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create members directory: %w", err)
	}
	return &FileStore{dir: dir, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".yaml")
}

func (s *FileStore) read(id string) (*models.Member, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var member models.Member
	if err := files.ReadYAML(s.path(id), &member); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	member.ID = id
	return &member, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*models.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileStore) List(ctx context.Context, opts ListOptions) (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, err := files.ListYAML(s.dir)
	if err != nil {
		return nil, err
	}

	var matched []*models.Member
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		member, err := s.read(id)
		if err != nil {
			if errors.Is(err, ErrInvalidID) {
				continue
			}
			return nil, err
		}
		if member.Matches(opts.Query) {
			matched = append(matched, member)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	start, end := window(len(matched), opts.Offset, opts.Limit)
	return &Page{Members: matched[start:end], Total: len(matched)}, nil
}

func (s *FileStore) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := prepareNew(member, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(m.ID)); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, m.ID)
	}
	if err := files.WriteYAML(s.path(m.ID), m); err != nil {
		return nil, fmt.Errorf("failed to save member %s: %w", m.ID, err)
	}
	return m, nil
}

func (s *FileStore) Update(ctx context.Context, id string, delta editing.Values) (*models.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	member, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if err := ApplyDelta(member, delta, s.now()); err != nil {
		return nil, err
	}
	if err := files.WriteYAML(s.path(id), member); err != nil {
		return nil, fmt.Errorf("failed to save member %s: %w", id, err)
	}
	return member, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete member %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
