// Package config loads the system configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Display holds the logical frame settings shared by all drivers.
type Display struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Driver forces a specific display driver instead of priority
	// selection. Empty means automatic.
	Driver string `yaml:"driver"`

	// Brightness is the initial brightness percentage.
	Brightness int `yaml:"brightness"`
}

// Framebuffer holds the fbdev driver settings.
type Framebuffer struct {
	Device       string `yaml:"device"`
	BacklightDir string `yaml:"backlight_dir"`
}

// TFT holds the SPI panel settings.
type TFT struct {
	Port     string `yaml:"port"`
	Device   string `yaml:"device"`
	ResetPin string `yaml:"reset_pin"`
	DCPin    string `yaml:"dc_pin"`
}

// Canvas holds the network canvas settings.
type Canvas struct {
	Listen  string `yaml:"listen"`
	Enabled bool   `yaml:"enabled"`
}

// Terminal holds the terminal renderer settings.
type Terminal struct {
	Silent bool `yaml:"silent"`
}

type Config struct {
	Display     Display     `yaml:"display"`
	Framebuffer Framebuffer `yaml:"framebuffer"`
	TFT         TFT         `yaml:"tft"`
	Canvas      Canvas      `yaml:"canvas"`
	Terminal    Terminal    `yaml:"terminal"`
}

// Default returns the configuration used when no file is present. Driver
// defaults are left empty so each driver applies its own.
func Default() *Config {
	return &Config{
		Display: Display{
			Width:      256,
			Height:     192,
			Brightness: 100,
		},
		Canvas: Canvas{
			Listen: ":8462",
		},
	}
}

// Load reads the configuration at path on top of the defaults. A missing
// file is not an error, the defaults are returned as is.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	} else if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return config, nil
}
