package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixdeck/internal/eventbus"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(path)

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, DefaultAPIBase, cfg.APIBase)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, 5, cfg.HistorySize)
	assert.Equal(t, "list", cfg.UISettings.ViewModeDefault)
	assert.Equal(t, "Jukebox", cfg.UISettings.BaseTitle)
}

func TestLoadFromPathRequiresFile(t *testing.T) {
	svc := NewConfigService("")
	_, err := svc.LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	svc := NewConfigService(path)

	cfg := DefaultConfig()
	cfg.APIBase = "http://127.0.0.1:9999/"
	cfg.HistorySize = 8
	cfg.DataDir = dir
	cfg.UISettings.ViewModeDefault = "tile"
	require.NoError(t, svc.Save(cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "version = 1")
	assert.Contains(t, string(raw), "[ui]")

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999", loaded.APIBase, "trailing slash trimmed")
	assert.Equal(t, 8, loaded.HistorySize)
	assert.Equal(t, "tile", loaded.UISettings.ViewModeDefault)
	assert.Equal(t, filepath.Join(dir, "storage.db"), loaded.DatabasePath())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 1\npage_size = 4\n[ui]\nbase_title = \"File\"\n"), 0o644))

	t.Setenv("MIXDECK_PAGE_SIZE", "9")
	t.Setenv("MIXDECK_UI_BASE_TITLE", "Env")

	cfg, err := NewConfigService(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.PageSize)
	assert.Equal(t, "Env", cfg.UISettings.BaseTitle)
}

func TestNormalizeRepairsBadValues(t *testing.T) {
	cfg := &Config{
		PageSize:   -1,
		UISettings: UISettings{ViewModeDefault: "grid", AnimationMS: -5},
	}
	cfg.Normalize()

	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, DefaultHistorySize, cfg.HistorySize)
	assert.Equal(t, DefaultAPIBase, cfg.APIBase)
	assert.Equal(t, "list", cfg.UISettings.ViewModeDefault)
	assert.Equal(t, 0, cfg.UISettings.AnimationMS)
	assert.NotEmpty(t, cfg.PlayerCommand)
}

func TestValidateRejectsBadScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_base = \"ftp://example.com\"\n"), 0o644))

	_, err := NewConfigService(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme")
}

func TestLoadPublishesEvent(t *testing.T) {
	bus := eventbus.New()
	var loaded, saved string
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		loaded = e.(eventbus.ConfigLoadedEvent).Path
	})
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		saved = e.(eventbus.ConfigSavedEvent).Path
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigServiceWithBus(path, bus)
	cfg, err := svc.Load()
	require.NoError(t, err)
	require.NoError(t, svc.Save(cfg))

	assert.Equal(t, path, loaded)
	assert.Equal(t, path, saved)
}

func TestLoadFromPathPublishesLoaded(t *testing.T) {
	bus := eventbus.New()
	var loaded string
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		loaded = e.(eventbus.ConfigLoadedEvent).Path
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigServiceWithBus(path, bus)
	require.NoError(t, svc.SaveToPath(DefaultConfig(), path))
	assert.Empty(t, loaded)

	_, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded)
}
