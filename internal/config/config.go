// Package config loads thumbgo settings from TOML config files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pedroaraujo20/thumbgo/internal/device"
	"github.com/pedroaraujo20/thumbgo/internal/loader"
	"github.com/pedroaraujo20/thumbgo/internal/sizing"
	"github.com/pedroaraujo20/thumbgo/internal/thumburl"
)

// Config holds all thumbgo settings.
type Config struct {
	Service  ServiceConfig  `koanf:"service"`
	Defaults DefaultsConfig `koanf:"defaults"`
}

// ServiceConfig describes the thumbnail service endpoint.
type ServiceConfig struct {
	BaseURL   string `koanf:"base_url"`   // thumbnail service endpoint
	CDNPrefix string `koanf:"cdn_prefix"` // stripped from CDN-hosted sources
	DevMode   bool   `koanf:"dev_mode"`   // pass local assets through untouched
}

// DefaultsConfig holds resolution defaults applied when a request does
// not override them.
type DefaultsConfig struct {
	SizingStep    int     `koanf:"sizing_step"`
	LowResQuality int     `koanf:"low_res_quality"`
	Density       float64 `koanf:"density"`
	MobileDensity float64 `koanf:"mobile_density"`
	DebounceMS    int     `koanf:"debounce_ms"`
}

// Load reads config files in priority order (last wins):
// $XDG_CONFIG_HOME/thumbgo/config.toml, then ./thumbgo.toml.
// Missing files are fine; defaults cover everything.
func Load() (*Config, error) {
	return LoadPaths(configPaths())
}

// LoadPaths loads from the given files in order, skipping missing ones.
func LoadPaths(paths []string) (*Config, error) {
	k := koanf.New(".")
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, err
		}
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:   thumburl.DefaultBaseURL,
			CDNPrefix: thumburl.DefaultCDNPrefix,
		},
		Defaults: DefaultsConfig{
			SizingStep:    sizing.DefaultStep,
			LowResQuality: loader.DefaultLowResQuality,
			Density:       device.DesktopDensity,
			MobileDensity: device.MobileDensity,
			DebounceMS:    200,
		},
	}
}

func (c *Config) normalize() {
	if c.Service.BaseURL != "" && !strings.HasSuffix(c.Service.BaseURL, "/") {
		c.Service.BaseURL += "/"
	}
	if c.Defaults.SizingStep <= 0 {
		c.Defaults.SizingStep = sizing.DefaultStep
	}
	if c.Defaults.LowResQuality <= 0 {
		c.Defaults.LowResQuality = loader.DefaultLowResQuality
	}
	if c.Defaults.Density <= 0 {
		c.Defaults.Density = device.DesktopDensity
	}
	if c.Defaults.MobileDensity <= 0 {
		c.Defaults.MobileDensity = device.MobileDensity
	}
	if c.Defaults.DebounceMS <= 0 {
		c.Defaults.DebounceMS = 200
	}
}

// Resolver builds a thumburl.Resolver from the service settings.
func (c *Config) Resolver() *thumburl.Resolver {
	return &thumburl.Resolver{
		BaseURL:   c.Service.BaseURL,
		CDNPrefix: c.Service.CDNPrefix,
		DevMode:   c.Service.DevMode,
	}
}

func configPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "thumbgo", "config.toml"),
		"thumbgo.toml",
	}
}
