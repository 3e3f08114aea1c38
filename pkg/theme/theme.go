// Package theme holds the single source of truth for the active color theme.
// The entry point builds one Store, hydrates it from disk and hands it to
// whatever renders.
package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/pluqqy/memberdesk/pkg/files"
)

// Name identifies a theme
type Name string

const (
	Dark  Name = "dark"
	Light Name = "light"
)

// Names lists every supported theme
var Names = []Name{Dark, Light}

var ErrUnknownTheme = errors.New("unknown theme")

// ParseName accepts a theme name in any case
func ParseName(s string) (Name, error) {
	switch n := Name(strings.ToLower(strings.TrimSpace(s))); n {
	case Dark, Light:
		return n, nil
	default:
		return "", fmt.Errorf("%w: %q (use dark or light)", ErrUnknownTheme, s)
	}
}

// Palette is the set of colors a theme maps UI roles to
type Palette struct {
	Active   lipgloss.Color
	Inactive lipgloss.Color
	Selected lipgloss.Color
	Normal   lipgloss.Color
	Dim      lipgloss.Color
	VeryDim  lipgloss.Color
	Warning  lipgloss.Color
	Danger   lipgloss.Color
	Success  lipgloss.Color
	Text     lipgloss.Color
	Contrast lipgloss.Color
	Border   lipgloss.Color
	Primary  lipgloss.Color
}

var palettes = map[Name]Palette{
	Dark: {
		Active:   "170",
		Inactive: "240",
		Selected: "236",
		Normal:   "245",
		Dim:      "241",
		VeryDim:  "242",
		Warning:  "214",
		Danger:   "196",
		Success:  "28",
		Text:     "255",
		Contrast: "235",
		Border:   "243",
		Primary:  "33",
	},
	Light: {
		Active:   "127",
		Inactive: "250",
		Selected: "254",
		Normal:   "238",
		Dim:      "244",
		VeryDim:  "246",
		Warning:  "166",
		Danger:   "160",
		Success:  "28",
		Text:     "232",
		Contrast: "255",
		Border:   "248",
		Primary:  "25",
	},
}

// PaletteFor returns the palette of theme n, falling back to dark
func PaletteFor(n Name) Palette {
	if p, ok := palettes[n]; ok {
		return p
	}
	return palettes[Dark]
}

type themeFile struct {
	Theme Name `yaml:"theme"`
}

// Store owns the active theme and keeps it in sync with the theme file
type Store struct {
	mu       sync.RWMutex
	path     string
	fallback Name
	name     Name
	hydrated bool
}

// NewStore returns a store backed by the file at path. fallback is used until
// Hydrate finds a saved theme, and when the saved one is not valid.
func NewStore(path string, fallback string) *Store {
	n, err := ParseName(fallback)
	if err != nil {
		n = Dark
	}
	return &Store{path: path, fallback: n, name: n}
}

// Hydrate loads the saved theme. A missing file keeps the fallback.
func (s *Store) Hydrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var saved themeFile
	err := files.ReadYAML(s.path, &saved)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = true

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load theme: %w", err)
	}

	if n, err := ParseName(string(saved.Theme)); err == nil {
		s.name = n
	}
	return nil
}

// Hydrated reports whether Hydrate has run
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Name returns the active theme
func (s *Store) Name() Name {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Palette returns the colors of the active theme
func (s *Store) Palette() Palette {
	return PaletteFor(s.Name())
}

// Set switches the active theme and saves it
func (s *Store) Set(n Name) error {
	if _, ok := palettes[n]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := files.WriteYAML(s.path, themeFile{Theme: n}); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	s.name = n
	return nil
}

// Toggle flips between dark and light and saves the result
func (s *Store) Toggle() (Name, error) {
	next := Light
	if s.Name() == Light {
		next = Dark
	}
	if err := s.Set(next); err != nil {
		return s.Name(), err
	}
	return next, nil
}
