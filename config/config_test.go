package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if config.Display.Width != 256 || config.Display.Height != 192 {
		t.Errorf("unexpected default frame size %dx%d", config.Display.Width, config.Display.Height)
	}
	if config.Display.Brightness != 100 {
		t.Errorf("unexpected default brightness %d", config.Display.Brightness)
	}
	if config.Canvas.Listen != ":8462" {
		t.Errorf("unexpected default canvas address %q", config.Canvas.Listen)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
display:
  brightness: 40
  driver: terminal
framebuffer:
  device: /dev/fb1
canvas:
  enabled: true
terminal:
  silent: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if config.Display.Brightness != 40 {
		t.Errorf("brightness = %d, expected 40", config.Display.Brightness)
	}
	if config.Display.Driver != "terminal" {
		t.Errorf("driver = %q, expected terminal", config.Display.Driver)
	}
	if config.Framebuffer.Device != "/dev/fb1" {
		t.Errorf("framebuffer device = %q", config.Framebuffer.Device)
	}
	if !config.Canvas.Enabled {
		t.Error("canvas should be enabled")
	}
	if !config.Terminal.Silent {
		t.Error("terminal should be silent")
	}
	// untouched keys keep their defaults
	if config.Display.Width != 256 {
		t.Errorf("width = %d, expected default 256", config.Display.Width)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("display: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
