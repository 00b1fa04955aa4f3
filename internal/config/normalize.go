package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Normalize replaces zero or out-of-range values with defaults
func (c *Config) Normalize() {
	if c.Version == 0 {
		c.Version = 1
	}
	c.APIBase = strings.TrimRight(strings.TrimSpace(c.APIBase), "/")
	if c.APIBase == "" {
		c.APIBase = DefaultAPIBase
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.HistorySize <= 0 {
		c.HistorySize = DefaultHistorySize
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDir()
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "mixdeck.log")
	}
	if strings.TrimSpace(c.PlayerCommand) == "" {
		c.PlayerCommand = defaultPlayerCommand()
	}
	if c.UISettings.AnimationMS < 0 {
		c.UISettings.AnimationMS = 0
	}
	if c.UISettings.BaseTitle == "" {
		c.UISettings.BaseTitle = DefaultBaseTitle
	}
	switch strings.ToLower(c.UISettings.ViewModeDefault) {
	case "list", "tile":
		c.UISettings.ViewModeDefault = strings.ToLower(c.UISettings.ViewModeDefault)
	default:
		c.UISettings.ViewModeDefault = DefaultViewMode
	}
}

// Validate reports configuration values that cannot be repaired
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBase)
	if err != nil {
		return fmt.Errorf("invalid api_base %q: %w", c.APIBase, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api_base %q: scheme must be http or https", c.APIBase)
	}
	return nil
}

// Timeout returns the request timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// AnimationDuration returns the selection animation length
func (c *Config) AnimationDuration() time.Duration {
	return time.Duration(c.UISettings.AnimationMS) * time.Millisecond
}

// DatabasePath is where the key/value store lives
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "storage.db")
}
