package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/pluqqy/memberdesk/pkg/client"
	"github.com/pluqqy/memberdesk/pkg/files"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/store"
	"github.com/pluqqy/memberdesk/pkg/theme"
)

// EnvPrefix prefixes environment overrides, e.g. MEMBERDESK_STORAGE_BACKEND
const EnvPrefix = "MEMBERDESK"

// ErrNotInitialized is returned when the config directory is missing
var ErrNotInitialized = errors.New("no .memberdesk directory found. Run 'memberdesk init' first")

// CommandContext manages project validation and common command context
type CommandContext struct {
	Layout   files.Layout
	Settings *models.Settings
	store    store.Store
}

// NewCommandContext creates a context rooted at configDir (".memberdesk"
// when empty)
func NewCommandContext(configDir string) *CommandContext {
	return &CommandContext{Layout: files.NewLayout(configDir)}
}

// ValidateProject ensures the project is initialized
func (c *CommandContext) ValidateProject() error {
	if !c.Layout.Exists() {
		if c.Layout.Root != files.ConfigDir {
			return fmt.Errorf("config directory %s not found. Run 'memberdesk init --config-dir %s' first", c.Layout.Root, c.Layout.Root)
		}
		return ErrNotInitialized
	}
	return nil
}

// LoadSettings reads config.yaml from the config directory, applies
// MEMBERDESK_* environment overrides and fills the rest from the defaults.
// A missing config file is not an error.
func (c *CommandContext) LoadSettings() (*models.Settings, error) {
	if c.Settings != nil {
		return c.Settings, nil
	}

	v := viper.New()
	setDefaults(v, c.defaults())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(c.Layout.Root)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	settings := &models.Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if _, err := theme.ParseName(settings.UI.Theme); err != nil {
		return nil, fmt.Errorf("invalid ui.theme: %w", err)
	}
	if settings.UI.PageSize <= 0 {
		settings.UI.PageSize = models.DefaultSettings().UI.PageSize
	}

	c.Settings = settings
	return settings, nil
}

// LoadSettingsWithDefault loads settings or returns defaults on error
func (c *CommandContext) LoadSettingsWithDefault() *models.Settings {
	settings, err := c.LoadSettings()
	if err != nil {
		settings = c.defaults()
		c.Settings = settings
	}
	return settings
}

// defaults are the built-in settings with the data directory placed below
// this context's config directory
func (c *CommandContext) defaults() *models.Settings {
	settings := models.DefaultSettings()
	settings.Storage.DataDir = c.Layout.DefaultDataDir()
	return settings
}

func setDefaults(v *viper.Viper, s *models.Settings) {
	v.SetDefault("storage.backend", s.Storage.Backend)
	v.SetDefault("storage.data_dir", s.Storage.DataDir)
	v.SetDefault("ui.page_size", s.UI.PageSize)
	v.SetDefault("ui.theme", s.UI.Theme)
	v.SetDefault("ui.show_preview", s.UI.ShowPreview)
	v.SetDefault("server.addr", s.Server.Addr)
	v.SetDefault("server.remote_url", s.Server.RemoteURL)
}

// Store opens the configured member store once. With server.remote_url set
// it talks to that server instead of a local backend.
func (c *CommandContext) Store() (store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}

	settings, err := c.LoadSettings()
	if err != nil {
		return nil, err
	}

	var s store.Store
	if settings.Server.RemoteURL != "" {
		s = client.New(settings.Server.RemoteURL)
	} else {
		if s, err = store.Open(settings); err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", settings.Storage.Backend, err)
		}
	}

	c.store = s
	return s, nil
}

// Close releases the store, if one was opened
func (c *CommandContext) Close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// ThemeStore builds the theme store for this project
func (c *CommandContext) ThemeStore() *theme.Store {
	settings := c.LoadSettingsWithDefault()
	return theme.NewStore(c.Layout.ThemePath(), settings.UI.Theme)
}

// InitProject creates the directory layout and writes a default config file
// unless one exists. It reports whether the config file was written.
func (c *CommandContext) InitProject() (bool, error) {
	settings := c.defaults()
	if err := files.InitProjectStructure(c.Layout, settings.Storage.DataDir); err != nil {
		return false, err
	}

	if _, err := os.Stat(c.Layout.ConfigPath()); err == nil {
		return false, nil
	}
	if err := files.WriteYAML(c.Layout.ConfigPath(), settings); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}
