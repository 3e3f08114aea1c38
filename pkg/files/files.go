package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigDir      = ".memberdesk"
	ConfigFile     = "config.yaml"
	ThemeFile      = "theme.yaml"
	DataDir        = "data"
	MembersDir     = "members"
	DebugLogFile   = "debug.log"
	SQLiteDatabase = "members.db"
)

// Layout resolves the paths used below a config directory
type Layout struct {
	Root string
}

// NewLayout returns the layout rooted at dir, or at ConfigDir when dir is empty
func NewLayout(dir string) Layout {
	if dir == "" {
		dir = ConfigDir
	}
	return Layout{Root: dir}
}

func (l Layout) ConfigPath() string   { return filepath.Join(l.Root, ConfigFile) }
func (l Layout) ThemePath() string    { return filepath.Join(l.Root, ThemeFile) }
func (l Layout) DebugLogPath() string { return filepath.Join(l.Root, DebugLogFile) }
func (l Layout) DefaultDataDir() string {
	return filepath.Join(l.Root, DataDir)
}

// Exists reports whether the config directory has been initialized
func (l Layout) Exists() bool {
	info, err := os.Stat(l.Root)
	return err == nil && info.IsDir()
}

// InitProjectStructure creates the config directory and the member data
// directory below dataDir
func InitProjectStructure(l Layout, dataDir string) error {
	dirs := []string{
		l.Root,
		dataDir,
		filepath.Join(dataDir, MembersDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ReadYAML decodes the YAML file at path into v
func ReadYAML(path string, v any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, v); err != nil {
		return fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}

	return nil
}

// WriteYAML encodes v and writes it to path, creating parent directories
func WriteYAML(path string, v any) error {
	content, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s to YAML: %w", filepath.Base(path), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	return WriteFileAtomic(path, content, 0644)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, so readers never see a partial file
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// ListYAML returns the base names (without extension) of the .yaml files in
// dir, sorted. A missing directory yields an empty list.
func ListYAML(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
		}
	}
	sort.Strings(names)

	return names, nil
}
