package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/edgelog/internal/chart"
	"github.com/starford/edgelog/internal/transcribe"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Storage drivers.
const (
	StorageFS     = "fs"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config represents the application configuration.
type Config struct {
	App           ApplicationConfig   `yaml:"app"`
	Storage       StorageConfig       `yaml:"storage"`
	Auth          AuthConfig          `yaml:"auth"`
	Archive       ArchiveConfig       `yaml:"archive"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Chart         ChartConfig         `yaml:"chart"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Archive.Validate(); err != nil {
		return err
	}
	return c.Chart.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StorageConfig selects the persistence backend.
//
// Path is the data directory for "fs" and the database file for "sqlite".
// Watch reloads collections edited on disk and only applies to "fs".
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	Watch  bool   `yaml:"watch"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(StorageFS, StorageSQLite, StorageMemory)),
		validation.Field(&c.Path, validation.When(c.Driver != StorageMemory, validation.Required)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// ArchiveConfig holds archive load behaviour.
type ArchiveConfig struct {
	// Retention drops records older than this at start. Zero keeps all.
	Retention   time.Duration `yaml:"retention"`
	SeedFolders bool          `yaml:"seed_folders"`
}

// Validate validates the archive configuration.
func (c *ArchiveConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Retention, validation.Min(time.Duration(0))),
	)
}

// TranscriptionConfig configures the Gemini transcriber. An empty APIKey
// disables transcription.
type TranscriptionConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Enabled reports whether a key is configured.
func (c *TranscriptionConfig) Enabled() bool {
	return c.APIKey != ""
}

// ChartConfig tunes the draft title debouncer.
type ChartConfig struct {
	Debounce      time.Duration `yaml:"debounce"`
	MinTitle      int           `yaml:"min_title"`
	DefaultSymbol string        `yaml:"default_symbol"`
}

// Validate validates the chart configuration.
func (c *ChartConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MinTitle, validation.Required, validation.Min(1)),
		validation.Field(&c.DefaultSymbol, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Storage: StorageConfig{
			Driver: StorageFS,
			Path:   "./data",
			Watch:  true,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Archive: ArchiveConfig{
			SeedFolders: true,
		},
		Transcription: TranscriptionConfig{
			Model: transcribe.DefaultModel,
		},
		Chart: ChartConfig{
			Debounce:      chart.DefaultDelay,
			MinTitle:      chart.DefaultMinTitle,
			DefaultSymbol: chart.DefaultSymbol,
		},
	}
}
