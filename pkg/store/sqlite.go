package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
)

// Fixed width so that text ordering matches time ordering
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const createMembers = `CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    display_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL,
    email_verified INTEGER NOT NULL DEFAULT 0,
    phone TEXT NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_members_created ON members(created_at, id);`

const memberColumns = `id, first_name, last_name, display_name, email, email_verified,
    phone, bio, password_hash, created_at, updated_at`

// Matches models.Member.Matches
const searchExpr = `lower(first_name || ' ' || last_name || ' ' || display_name || ' ' || email) LIKE ? ESCAPE '\'`

// SQLiteStore keeps members in a single SQLite database
type SQLiteStore struct {
	mu  sync.Mutex // serializes read-modify-write updates
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens the database at path and creates the schema
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createMembers); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	var (
		m                models.Member
		verified         int
		created, updated string
	)
	if err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.DisplayName, &m.Email, &verified,
		&m.Phone, &m.Bio, &m.PasswordHash, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if m.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
		return nil, fmt.Errorf("failed to parse created_at of %s: %w", m.ID, err)
	}
	if m.UpdatedAt, err = time.Parse(timeFormat, updated); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at of %s: %w", m.ID, err)
	}
	m.EmailVerified = verified != 0
	return &m, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Member, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member %s: %w", id, err)
	}
	return member, nil
}

func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) (*Page, error) {
	where := ""
	var args []any
	if q := strings.ToLower(strings.TrimSpace(opts.Query)); q != "" {
		where = " WHERE " + searchExpr
		args = append(args, "%"+escapeLike(q)+"%")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members`+where+` ORDER BY created_at, id LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []*models.Member{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read member row: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return &Page{Members: members, Total: total}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	m, err := prepareNew(member, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members WHERE id = ?`, m.ID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check member %s: %w", m.ID, err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, m.ID)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO members (`+memberColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.FirstName, m.LastName, m.DisplayName, m.Email, boolToInt(m.EmailVerified),
		m.Phone, m.Bio, m.PasswordHash, m.CreatedAt.UTC().Format(timeFormat), m.UpdatedAt.UTC().Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to insert member %s: %w", m.ID, err)
	}
	return m, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, delta editing.Values) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ApplyDelta(member, delta, s.now()); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `UPDATE members SET first_name = ?, last_name = ?, display_name = ?,
        email = ?, email_verified = ?, phone = ?, bio = ?, password_hash = ?, updated_at = ?
        WHERE id = ?`,
		member.FirstName, member.LastName, member.DisplayName, member.Email, boolToInt(member.EmailVerified),
		member.Phone, member.Bio, member.PasswordHash, member.UpdatedAt.UTC().Format(timeFormat), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update member %s: %w", id, err)
	}
	return member, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
