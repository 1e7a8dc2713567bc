package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reel/internal/domain"
	reelerrors "reel/internal/errors"
	"reel/internal/eventbus"
)

// DeckConfigName is the per-deck config file looked up beside the deck
const DeckConfigName = ".reel.toml"

// MinAutoplayInterval is the shortest autoplay interval accepted
const MinAutoplayInterval = 1000

// Config represents the application configuration
type Config struct {
	Carousel CarouselSettings `toml:"carousel"`
	Autoplay AutoplaySettings `toml:"autoplay"`
	UI       UISettings       `toml:"ui"`
	History  HistorySettings  `toml:"history"`
}

// CarouselSettings configure the carousel itself
type CarouselSettings struct {
	Loop           bool   `toml:"loop"`
	VisibleCount   int    `toml:"visible_count"`
	Alignment      string `toml:"alignment"`
	Horizontal     bool   `toml:"horizontal"`
	Snap           bool   `toml:"snap"`
	SnapBy         int    `toml:"snap_by"`
	AdvanceCount   int    `toml:"advance_count"`
	Forwards       bool   `toml:"forwards"`
	MixedLength    bool   `toml:"mixed_length"`
	UserScrollable bool   `toml:"user_scrollable"`
}

// AutoplaySettings configure automatic advancing
type AutoplaySettings struct {
	Enabled    bool `toml:"enabled"`
	IntervalMS int  `toml:"interval_ms"`
	Count      int  `toml:"count"`
	Loops      int  `toml:"loops"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowStatus bool `toml:"show_status"`
	FrameMS    int  `toml:"frame_ms"`
}

// HistorySettings control remembered deck positions
type HistorySettings struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// ConfigService handles configuration management
type ConfigService interface {
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

// NewConfigService creates a config service for path, or for the user's
// config directory when path is empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultPath is $XDG_CONFIG_HOME/reel/config.toml or the platform equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "reel", "config.toml")
}

// DefaultHistoryPath is $XDG_DATA_HOME/reel/history.db, falling back to
// ~/.local/share
func DefaultHistoryPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "reel", "history.db")
}

// Load loads the configuration file. A missing file yields the defaults.
func (cs *configService) Load() (*Config, error) {
	cfg := DefaultConfig()
	if err := DecodeOnto(cfg, cs.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Publish ConfigLoaded event if bus is available
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	// Publish ConfigSaved event if bus is available
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path on top of the defaults
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := DecodeOnto(cfg, path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DecodeOnto reads the TOML file at path into cfg. Keys missing from the
// file keep their current values, so files can be layered.
func DecodeOnto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return reelerrors.NewInvalidConfig(path, strict.String())
		}
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// FindDeckConfig returns the .reel.toml beside deckPath, or "" if there is none
func FindDeckConfig(deckPath string) string {
	path := filepath.Join(filepath.Dir(deckPath), DeckConfigName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Validate clamps numeric settings into range and rejects values that
// cannot be clamped
func (c *Config) Validate() error {
	if _, err := domain.ParseAlignment(c.Carousel.Alignment); err != nil {
		return reelerrors.NewInvalidConfig("carousel.alignment", err.Error())
	}
	c.Carousel.VisibleCount = max(1, c.Carousel.VisibleCount)
	c.Carousel.SnapBy = max(1, c.Carousel.SnapBy)
	c.Carousel.AdvanceCount = max(1, c.Carousel.AdvanceCount)
	c.Autoplay.IntervalMS = max(MinAutoplayInterval, c.Autoplay.IntervalMS)
	if c.Autoplay.Count == 0 {
		c.Autoplay.Count = 1
	}
	c.Autoplay.Loops = max(0, c.Autoplay.Loops)
	if c.UI.FrameMS <= 0 {
		c.UI.FrameMS = 16
	}
	return nil
}

// Alignment returns the parsed carousel alignment
func (c *Config) Alignment() domain.Alignment {
	a, _ := domain.ParseAlignment(c.Carousel.Alignment)
	return a
}

// AutoplayInterval returns the autoplay interval as a duration
func (c *Config) AutoplayInterval() time.Duration {
	return time.Duration(c.Autoplay.IntervalMS) * time.Millisecond
}

// FrameInterval returns the animation frame interval
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.UI.FrameMS) * time.Millisecond
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Carousel: CarouselSettings{
			VisibleCount:   1,
			Alignment:      domain.AlignStart.String(),
			Horizontal:     true,
			Snap:           true,
			SnapBy:         1,
			AdvanceCount:   1,
			Forwards:       true,
			UserScrollable: true,
		},
		Autoplay: AutoplaySettings{
			IntervalMS: 5000,
			Count:      1,
		},
		UI: UISettings{
			ShowStatus: true,
			FrameMS:    16,
		},
		History: HistorySettings{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
	}
}
