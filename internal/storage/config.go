package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nikbrunner/gallery/internal/scatter"
	"github.com/nikbrunner/gallery/internal/viewport"
)

// EnvAPIURL overrides Config.APIURL when set.
const EnvAPIURL = "GALLERY_API_URL"

// Config holds application configuration.
type Config struct {
	APIURL              string       `toml:"api_url"`
	PageSize            int          `toml:"page_size"`
	CacheTTL            string       `toml:"cache_ttl"`
	DefaultMode         string       `toml:"default_mode"`
	CheckExcludeDomains []string     `toml:"check_exclude_domains"`
	LogFile             string       `toml:"log_file,omitempty"`
	Canvas              CanvasConfig `toml:"canvas"`

	unknown []string
}

// CanvasConfig is the scattered canvas geometry.
type CanvasConfig struct {
	Size           float64 `toml:"size"`
	CardWidth      float64 `toml:"card_width"`
	CardHeight     float64 `toml:"card_height"`
	MinDistance    float64 `toml:"min_distance"`
	InitialVisible int     `toml:"initial_visible"`
	Overscroll     float64 `toml:"overscroll"`
	AutoCenter     bool    `toml:"auto_center"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	p := scatter.DefaultParams()
	return Config{
		APIURL:              "http://localhost:8787/api",
		PageSize:            24,
		CacheTTL:            "5m",
		DefaultMode:         "grid",
		CheckExcludeDomains: []string{"res.cloudinary.com"},
		Canvas: CanvasConfig{
			Size:           p.Size,
			CardWidth:      p.CardWidth,
			CardHeight:     p.CardHeight,
			MinDistance:    p.MinDistance,
			InitialVisible: p.InitialVisible,
			Overscroll:     viewport.DefaultOverscroll,
			AutoCenter:     true,
		},
	}
}

// LoadConfig reads config from the TOML file. Keys missing from the file keep
// their defaults. Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config = DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, key := range md.Undecoded() {
		config.unknown = append(config.unknown, key.String())
	}

	// Apply defaults for fields that were set to zero values
	defaults := DefaultConfig()
	if config.APIURL == "" {
		config.APIURL = defaults.APIURL
	}
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}
	if _, err := time.ParseDuration(config.CacheTTL); err != nil {
		config.CacheTTL = defaults.CacheTTL
	}
	if config.DefaultMode != "grid" && config.DefaultMode != "scatter" {
		config.DefaultMode = defaults.DefaultMode
	}
	if config.CheckExcludeDomains == nil {
		config.CheckExcludeDomains = defaults.CheckExcludeDomains
	}
	config.Canvas.applyDefaults(defaults.Canvas)

	return &config, nil
}

func (c *CanvasConfig) applyDefaults(d CanvasConfig) {
	if c.Size <= 0 {
		c.Size = d.Size
	}
	if c.CardWidth <= 0 {
		c.CardWidth = d.CardWidth
	}
	if c.CardHeight <= 0 {
		c.CardHeight = d.CardHeight
	}
	if c.MinDistance < 0 {
		c.MinDistance = d.MinDistance
	}
	if c.InitialVisible < 0 {
		c.InitialVisible = d.InitialVisible
	}
	if c.Overscroll < 0 {
		c.Overscroll = d.Overscroll
	}
}

// UnknownKeys lists keys in the file that no field consumed.
func (c *Config) UnknownKeys() []string {
	return c.unknown
}

// ApplyEnv overrides fields from the environment via getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
}

// StaleTime returns the parsed cache TTL, or five minutes when unparsable.
func (c *Config) StaleTime() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d < 0 {
		return 5 * time.Minute
	}
	return d
}

// Params returns the layout engine geometry.
func (c *Config) Params() scatter.Params {
	return scatter.Params{
		Size:           c.Canvas.Size,
		CardWidth:      c.Canvas.CardWidth,
		CardHeight:     c.Canvas.CardHeight,
		MinDistance:    c.Canvas.MinDistance,
		InitialVisible: c.Canvas.InitialVisible,
	}
}

// SaveConfig writes config to the TOML file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return err
	}
	return f.Close()
}

// DefaultConfigFilePath returns the default config path: ~/.config/gallery/config.toml
func DefaultConfigFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
