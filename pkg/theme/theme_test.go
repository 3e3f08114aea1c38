package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		input   string
		want    Name
		wantErr bool
	}{
		{"dark", Dark, false},
		{"Light", Light, false},
		{"  DARK ", Dark, false},
		{"solarized", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownTheme)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_HydrateMissingFileKeepsFallback(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "theme.yaml"), "light")
	assert.False(t, s.Hydrated())

	require.NoError(t, s.Hydrate(context.Background()))

	assert.True(t, s.Hydrated())
	assert.Equal(t, Light, s.Name())
	assert.Equal(t, PaletteFor(Light), s.Palette())
}

func TestStore_InvalidFallback(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "theme.yaml"), "neon")
	assert.Equal(t, Dark, s.Name())
}

func TestStore_SetPersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")

	first := NewStore(path, "dark")
	require.NoError(t, first.Set(Light))
	assert.Equal(t, Light, first.Name())

	second := NewStore(path, "dark")
	require.NoError(t, second.Hydrate(context.Background()))
	assert.Equal(t, Light, second.Name())
}

func TestStore_SetRejectsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	s := NewStore(path, "dark")

	assert.ErrorIs(t, s.Set("neon"), ErrUnknownTheme)
	assert.Equal(t, Dark, s.Name())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Toggle(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "theme.yaml"), "dark")

	next, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, next)

	next, err = s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, next)
}

func TestStore_HydrateIgnoresInvalidSavedTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: neon\n"), 0644))

	s := NewStore(path, "light")
	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, Light, s.Name())
}

func TestStore_HydrateReportsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [dark"), 0644))

	s := NewStore(path, "dark")
	assert.Error(t, s.Hydrate(context.Background()))
	assert.Equal(t, Dark, s.Name())
}

func TestPalettesDiffer(t *testing.T) {
	assert.NotEqual(t, PaletteFor(Dark), PaletteFor(Light))
	assert.Equal(t, PaletteFor(Dark), PaletteFor("unknown"))
}
