package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mixdeck/internal/config"
	"mixdeck/internal/eventbus"
	"mixdeck/internal/history"
	"mixdeck/internal/mixcloud"
	"mixdeck/internal/search"
	"mixdeck/internal/storage"
)

type commandContext struct {
	configFlag *string
	verbose    *bool
	ephemeral  *bool

	bus eventbus.EventBus

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose, ephemeral *bool) *commandContext {
	bus := eventbus.New()
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ConfigLoadedEvent); ok {
			log.Printf("Config: loaded %s", event.Path)
		}
	})
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ConfigSavedEvent); ok {
			log.Printf("Config: saved %s", event.Path)
		}
	})
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		ephemeral:  ephemeral,
		bus:        bus,
	}
}

func (c *commandContext) configService() config.ConfigService {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	return config.NewConfigServiceWithBus(path, c.bus)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = loadOrCreateConfig(c.configService())
	})
	return c.config, c.configErr
}

// loadOrCreateConfig loads the config file, writing the defaults on first run
func loadOrCreateConfig(svc config.ConfigService) (*config.Config, error) {
	path := svc.Path()
	_, statErr := os.Stat(path)
	if statErr == nil {
		cfg, err := svc.LoadFromPath(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, nil
	}
	if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat config %s: %w", path, statErr)
	}

	cfg, err := svc.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	log.Printf("Creating new config at %s", path)
	if err := svc.Save(cfg); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
	return cfg, nil
}

func (c *commandContext) isVerbose() bool {
	return c.verbose != nil && *c.verbose
}

func (c *commandContext) isEphemeral() bool {
	return c.ephemeral != nil && *c.ephemeral
}

// setupCLILogging sends log output to w with --verbose and drops it otherwise
func (c *commandContext) setupCLILogging(w io.Writer) {
	if c.isVerbose() {
		log.SetOutput(w)
		return
	}
	log.SetOutput(io.Discard)
}

// redirectLog appends log output to path while the TUI owns the terminal
func redirectLog(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(logFile)
	return func() {
		log.SetOutput(io.Discard)
		_ = logFile.Close()
	}, nil
}

// services is everything below the UI, wired together
type services struct {
	cfg     *config.Config
	bus     eventbus.EventBus
	store   *storage.Store
	watcher *storage.Watcher
	history *history.Manager
	client  *mixcloud.Client
	engine  *search.Engine
}

// openServices opens the store and builds the search stack. With watch set,
// changes made by other mixdeck processes are picked up while running.
func (c *commandContext) openServices(watch bool) (*services, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	bus := c.bus

	var backend storage.Backend
	var dbPath string
	if c.isEphemeral() {
		backend = storage.NewMemoryBackend()
	} else {
		sqlite, err := storage.OpenSQLite(cfg.DatabasePath())
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		backend = sqlite
		dbPath = sqlite.Path()
	}

	store := storage.NewStore(backend, bus)
	svc := &services{
		cfg:     cfg,
		bus:     bus,
		store:   store,
		history: history.NewManager(store, bus, cfg.HistorySize),
	}

	if watch && dbPath != "" {
		svc.watcher = storage.NewWatcher(store, dbPath)
		if err := svc.watcher.Start(); err != nil {
			// Continue without cross-process updates
			log.Printf("Storage: watcher unavailable: %v", err)
			svc.watcher = nil
		}
	}

	client, err := mixcloud.New(mixcloud.Config{BaseURL: cfg.APIBase, Timeout: cfg.Timeout()})
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.client = client
	svc.engine = search.NewEngine(client, cfg.PageSize, bus)
	return svc, nil
}

// Close releases the store and stops watching
func (s *services) Close() {
	if s.watcher != nil {
		_ = s.watcher.Stop()
	}
	s.history.Close()
	if err := s.store.Close(); err != nil {
		log.Printf("Storage: close failed: %v", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
