package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"mixdeck/internal/eventbus"
)

// Defaults
const (
	DefaultAPIBase        = "https://api.mixcloud.com"
	DefaultPageSize       = 6
	DefaultHistorySize    = 5
	DefaultRequestTimeout = 10 // seconds
	DefaultAnimationMS    = 800
	DefaultBaseTitle      = "Jukebox"
	DefaultViewMode       = "list"

	envPrefix = "MIXDECK"
	appDir    = "mixdeck"
)

// Config represents the application configuration
type Config struct {
	Version        int        `toml:"version" mapstructure:"version"`
	APIBase        string     `toml:"api_base" mapstructure:"api_base"`
	PageSize       int        `toml:"page_size" mapstructure:"page_size"`
	HistorySize    int        `toml:"history_size" mapstructure:"history_size"`
	RequestTimeout int        `toml:"request_timeout" mapstructure:"request_timeout"` // seconds
	DataDir        string     `toml:"data_dir" mapstructure:"data_dir"`
	LogFile        string     `toml:"log_file" mapstructure:"log_file"`
	PlayerCommand  string     `toml:"player_command" mapstructure:"player_command"`
	UISettings     UISettings `toml:"ui" mapstructure:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ViewModeDefault string `toml:"view_mode_default" mapstructure:"view_mode_default"`
	AnimationMS     int    `toml:"animation_ms" mapstructure:"animation_ms"`
	BaseTitle       string `toml:"base_title" mapstructure:"base_title"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Path() string
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultDir returns the per-user mixdeck directory
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, appDir)
}

// NewConfigService creates a config service for path, or the default location when path is empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = filepath.Join(DefaultDir(), "config.toml")
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, returning defaults (plus env overrides) when the file is missing
func (cs *configService) Load() (*Config, error) {
	cfg, err := load(cs.filePath, false)
	if err != nil {
		return nil, err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the service path
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path; the file must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	cfg, err := load(path, true)
	if err != nil {
		return nil, err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: path})
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func load(path string, mustExist bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// MIXDECK_API_BASE overrides api_base, MIXDECK_UI_BASE_TITLE overrides ui.base_title
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if mustExist {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	} else {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("api_base", d.APIBase)
	v.SetDefault("page_size", d.PageSize)
	v.SetDefault("history_size", d.HistorySize)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("player_command", d.PlayerCommand)
	v.SetDefault("ui.view_mode_default", d.UISettings.ViewModeDefault)
	v.SetDefault("ui.animation_ms", d.UISettings.AnimationMS)
	v.SetDefault("ui.base_title", d.UISettings.BaseTitle)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		Version:        1,
		APIBase:        DefaultAPIBase,
		PageSize:       DefaultPageSize,
		HistorySize:    DefaultHistorySize,
		RequestTimeout: DefaultRequestTimeout,
		DataDir:        dir,
		LogFile:        filepath.Join(dir, "mixdeck.log"),
		PlayerCommand:  defaultPlayerCommand(),
		UISettings: UISettings{
			ViewModeDefault: DefaultViewMode,
			AnimationMS:     DefaultAnimationMS,
			BaseTitle:       DefaultBaseTitle,
		},
	}
}

func defaultPlayerCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "rundll32 url.dll,FileProtocolHandler"
	default:
		return "xdg-open"
	}
}
