// Package config loads application settings from a TOML file with sane
// defaults for every field, so a missing or partial file still yields a
// runnable configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/strata-gfx/strata-go/engine/core"
)

// Config holds the application settings the demo binary and the renderer
// consume.
type Config struct {
	// Window configures the native window the renderer presents into.
	Window WindowConfig `toml:"window"`

	// Renderer configures presentation behavior.
	Renderer RendererConfig `toml:"renderer"`
}

// WindowConfig configures the native window.
type WindowConfig struct {
	// Title is the window title displayed in the title bar.
	Title string `toml:"title"`

	// Width is the initial window width in pixels.
	Width uint32 `toml:"width"`

	// Height is the initial window height in pixels.
	Height uint32 `toml:"height"`
}

// RendererConfig configures presentation behavior.
type RendererConfig struct {
	// Vsync selects FIFO presentation when true and immediate presentation
	// when false.
	Vsync bool `toml:"vsync"`
}

// Default returns the configuration used when no file is present.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "strata",
			Width:  1024,
			Height: 600,
		},
		Renderer: RendererConfig{
			Vsync: true,
		},
	}
}

// Load reads a TOML configuration file, layering its values over the
// defaults. A missing file is not an error; the defaults are returned.
//
// Parameters:
//   - path: path to the TOML file
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file exists but cannot be read or parsed
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			core.LogDebug("config file %s not found, using defaults", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Window.Width == 0 || cfg.Window.Height == 0 {
		return cfg, fmt.Errorf("config file %s: window dimensions must be non-zero", path)
	}
	return cfg, nil
}
