package models

// Settings represents the application configuration
type Settings struct {
	Storage StorageSettings `yaml:"storage" mapstructure:"storage"`
	UI      UISettings      `yaml:"ui" mapstructure:"ui"`
	Server  ServerSettings  `yaml:"server" mapstructure:"server"`
}

// StorageSettings selects where members are kept
type StorageSettings struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // "yaml" or "sqlite"
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// UISettings controls UI preferences
type UISettings struct {
	PageSize    int    `yaml:"page_size" mapstructure:"page_size"`
	Theme       string `yaml:"theme" mapstructure:"theme"` // "dark" or "light"
	ShowPreview bool   `yaml:"show_preview" mapstructure:"show_preview"`
}

// ServerSettings controls the HTTP API
type ServerSettings struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	// RemoteURL, when set, makes the CLI and TUI work against a running
	// server instead of the local store
	RemoteURL string `yaml:"remote_url" mapstructure:"remote_url"`
}

const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Storage: StorageSettings{
			Backend: BackendYAML,
			DataDir: ".memberdesk/data",
		},
		UI: UISettings{
			PageSize:    20,
			Theme:       "dark",
			ShowPreview: true,
		},
		Server: ServerSettings{
			Addr:      "127.0.0.1:8787",
			RemoteURL: "",
		},
	}
}
