package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout(t *testing.T) {
	assert.Equal(t, ConfigDir, NewLayout("").Root)

	l := NewLayout("/tmp/desk")
	assert.Equal(t, filepath.Join("/tmp/desk", "config.yaml"), l.ConfigPath())
	assert.Equal(t, filepath.Join("/tmp/desk", "theme.yaml"), l.ThemePath())
	assert.Equal(t, filepath.Join("/tmp/desk", "data"), l.DefaultDataDir())
}

func TestInitProjectStructure(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".memberdesk")
	l := NewLayout(root)
	assert.False(t, l.Exists())

	require.NoError(t, InitProjectStructure(l, l.DefaultDataDir()))

	assert.True(t, l.Exists())
	for _, dir := range []string{root, l.DefaultDataDir(), filepath.Join(l.DefaultDataDir(), MembersDir)} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}

	// Running it twice is harmless
	assert.NoError(t, InitProjectStructure(l, l.DefaultDataDir()))
}

func TestWriteAndReadYAML(t *testing.T) {
	type doc struct {
		Name  string `yaml:"name"`
		Count int    `yaml:"count"`
	}

	path := filepath.Join(t.TempDir(), "nested", "doc.yaml")
	require.NoError(t, WriteYAML(path, doc{Name: "a", Count: 2}))

	var got doc
	require.NoError(t, ReadYAML(path, &got))
	assert.Equal(t, doc{Name: "a", Count: 2}, got)

	// No temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadYAML_Errors(t *testing.T) {
	dir := t.TempDir()

	var v map[string]any
	err := ReadYAML(filepath.Join(dir, "missing.yaml"), &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("key: [unclosed"), 0644))
	err = ReadYAML(bad, &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestListYAML(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x: 1"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755))

	names, err := ListYAML(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	names, err = ListYAML(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
