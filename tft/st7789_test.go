package tft

import (
	"testing"

	"github.com/matrixos/display/pixel"
)

func TestGeometry(t *testing.T) {
	tests := []struct {
		w, h, pw, ph              int
		scale, offsetX, offsetY int
	}{
		{256, 192, 320, 240, 1, 32, 24},
		{256, 192, 240, 320, 1, 0, 64},
		{128, 96, 320, 240, 2, 32, 24},
		{256, 192, 200, 150, 1, 0, 0}, // panel smaller, cropped
	}
	for _, tt := range tests {
		scale := integerScale(tt.w, tt.h, tt.pw, tt.ph)
		if scale != tt.scale {
			t.Errorf("integerScale(%dx%d on %dx%d) = %d, expected %d",
				tt.w, tt.h, tt.pw, tt.ph, scale, tt.scale)
		}
		x, y := centerOffsets(tt.w, tt.h, tt.pw, tt.ph, scale)
		if x != tt.offsetX || y != tt.offsetY {
			t.Errorf("centerOffsets(%dx%d on %dx%d) = (%d,%d), expected (%d,%d)",
				tt.w, tt.h, tt.pw, tt.ph, x, y, tt.offsetX, tt.offsetY)
		}
	}
}

func TestPackFrameBigEndian(t *testing.T) {
	buf := pixel.NewBuffer(2, 2)
	buf.SetRGB(0, 0, pixel.RGB{R: 255}) // 0xF800
	buf.SetRGB(1, 1, pixel.RGB{B: 255}) // 0x001F

	const pw, ph = 4, 4
	phys := make([]byte, pw*ph*bytesPerPixel)
	packFrame(phys, buf, pw, ph, 1, 1, 1)

	// red at panel (1,1)
	i := (1*pw + 1) * bytesPerPixel
	if phys[i] != 0xF8 || phys[i+1] != 0x00 {
		t.Errorf("expected big-endian 0xF800, got %#02x %#02x", phys[i], phys[i+1])
	}
	// blue at panel (2,2)
	i = (2*pw + 2) * bytesPerPixel
	if phys[i] != 0x00 || phys[i+1] != 0x1F {
		t.Errorf("expected big-endian 0x001F, got %#02x %#02x", phys[i], phys[i+1])
	}
	// offset row stays black
	if phys[0] != 0 || phys[1] != 0 {
		t.Errorf("offset area modified: %#02x %#02x", phys[0], phys[1])
	}
}

func TestPackFrameScaled(t *testing.T) {
	buf := pixel.NewBuffer(2, 1)
	buf.SetRGB(1, 0, pixel.RGB{R: 255, G: 255, B: 255}) // 0xFFFF

	const pw, ph = 4, 2
	phys := make([]byte, pw*ph*bytesPerPixel)
	packFrame(phys, buf, pw, ph, 2, 0, 0)

	// pixel (1,0) covers panel columns 2..3, rows 0..1
	for _, p := range [][2]int{{2, 0}, {3, 0}, {2, 1}, {3, 1}} {
		i := (p[1]*pw + p[0]) * bytesPerPixel
		if phys[i] != 0xFF || phys[i+1] != 0xFF {
			t.Errorf("panel (%d,%d) = %#02x %#02x, expected white", p[0], p[1], phys[i], phys[i+1])
		}
	}
	i := (0*pw + 1) * bytesPerPixel
	if phys[i] != 0 || phys[i+1] != 0 {
		t.Errorf("panel (1,0) should be black, got %#02x %#02x", phys[i], phys[i+1])
	}
}

func TestBrightnessLevel(t *testing.T) {
	tests := []struct {
		percent int
		level   byte
	}{
		{0, 0x00},
		{1, 27},
		{50, 140},
		{100, 0xFF},
	}
	for _, tt := range tests {
		if level := brightnessLevel(tt.percent); level != tt.level {
			t.Errorf("brightnessLevel(%d) = %d, expected %d", tt.percent, level, tt.level)
		}
	}
}

func TestAvailableWithoutDevice(t *testing.T) {
	d := New(&Config{Device: "/nonexistent/spidev9.9"})
	if d.Available() {
		t.Error("expected driver to be unavailable without a device node")
	}
}

func TestNewLeavesCallerConfigUntouched(t *testing.T) {
	config := Config{Width: 128}
	d := New(&config)

	if config.Height != 0 || config.Port != "" || config.Device != "" || config.Speed != 0 {
		t.Errorf("caller config mutated: %+v", config)
	}
	if d.config.Width != 128 {
		t.Errorf("expected explicit width 128, got %d", d.config.Width)
	}
	if d.config.Height != pixel.DefaultHeight {
		t.Errorf("expected default height %d, got %d", pixel.DefaultHeight, d.config.Height)
	}
	if d.config.Port != "SPI0.0" {
		t.Errorf("expected default port, got %q", d.config.Port)
	}
}
