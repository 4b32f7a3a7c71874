// Package config provides configuration management for eclipse.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config holds all configuration for the eclipse application.
type Config struct {
	RefreshInterval Duration           `mapstructure:"refresh_interval"`
	AlwaysOnTop     bool               `mapstructure:"always_on_top"`
	Notifications   NotificationConfig `mapstructure:"notifications"`
	Storage         StorageConfig      `mapstructure:"storage"`
	Window          WindowConfig       `mapstructure:"window"`
	Theme           ThemeConfig        `mapstructure:"theme"`
}

// ThemeConfig holds the widget colors.
type ThemeConfig struct {
	Background      string `mapstructure:"background"`
	Button          string `mapstructure:"button"`
	ButtonHighlight string `mapstructure:"button_highlight"`
	Text            string `mapstructure:"text"`
	TextHighlight   string `mapstructure:"text_highlight"`
	Frame           string `mapstructure:"frame"`
}

// DefaultThemeConfig returns the default boss color theme.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		Background:      "#1F1C1C",
		Button:          "#A3640B",
		ButtonHighlight: "#DFA63D",
		Text:            "#DFA63D",
		TextHighlight:   "#FFFFFF",
		Frame:           "#412B18",
	}
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
	Journal bool   `mapstructure:"journal"`
}

// WindowConfig holds the window manager integration settings.
type WindowConfig struct {
	Command string `mapstructure:"command"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

const (
	defaultDataDir         = "~/.eclipse"
	defaultRefreshInterval = 50 * time.Millisecond
	minRefreshInterval     = 10 * time.Millisecond
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval: Duration(defaultRefreshInterval),
		AlwaysOnTop:     false,
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
			Journal: true,
		},
		Window: WindowConfig{
			Command: "wmctrl",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from the given file, creating it with
// defaults when it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes the configuration to configPath.
func SaveTo(configPath string, cfg *Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("refresh_interval", cfg.RefreshInterval.String())
	v.Set("always_on_top", cfg.AlwaysOnTop)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("storage.journal", cfg.Storage.Journal)
	v.Set("window.command", cfg.Window.Command)
	v.Set("theme.background", cfg.Theme.Background)
	v.Set("theme.button", cfg.Theme.Button)
	v.Set("theme.button_highlight", cfg.Theme.ButtonHighlight)
	v.Set("theme.text", cfg.Theme.Text)
	v.Set("theme.text_highlight", cfg.Theme.TextHighlight)
	v.Set("theme.frame", cfg.Theme.Frame)

	return v.WriteConfigAs(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".eclipse", "config.toml"), nil
}

// GetDBPath returns the path to the selection journal database.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "eclipse.db")
}

// Refresh returns the display refresh interval.
func (c *Config) Refresh() time.Duration {
	return time.Duration(c.RefreshInterval)
}

// normalize expands the data directory and clamps the refresh interval.
func (c *Config) normalize() error {
	if c.Storage.DataDir == defaultDataDir || c.Storage.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		c.Storage.DataDir = filepath.Join(homeDir, ".eclipse")
	}

	if c.Refresh() <= 0 {
		c.RefreshInterval = Duration(defaultRefreshInterval)
	} else if c.Refresh() < minRefreshInterval {
		c.RefreshInterval = Duration(minRefreshInterval)
	}
	return nil
}

// durationHook decodes "50ms"-style strings into Duration fields.
func durationHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("refresh_interval", defaults.RefreshInterval.String())
	v.SetDefault("always_on_top", defaults.AlwaysOnTop)
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("notifications.sound", defaults.Notifications.Sound)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("storage.journal", defaults.Storage.Journal)
	v.SetDefault("window.command", defaults.Window.Command)

	theme := defaults.Theme
	v.SetDefault("theme.background", theme.Background)
	v.SetDefault("theme.button", theme.Button)
	v.SetDefault("theme.button_highlight", theme.ButtonHighlight)
	v.SetDefault("theme.text", theme.Text)
	v.SetDefault("theme.text_highlight", theme.TextHighlight)
	v.SetDefault("theme.frame", theme.Frame)
}
