package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matrixos/display/pixel"
)

func TestShowHalfBlocks(t *testing.T) {
	var out bytes.Buffer
	d := New(&Config{Width: 2, Height: 2, Output: &out})
	d.Set(0, 0, pixel.RGB{R: 255})          // top left: red foreground
	d.Set(0, 1, pixel.RGB{B: 255})          // bottom left: blue background
	if err := d.Show(); err != nil {
		t.Fatal(err)
	}

	s := out.String()
	if !strings.HasPrefix(s, "\x1b[H") {
		t.Error("frame must start with a cursor home sequence")
	}
	// Top pixel drives the foreground, bottom pixel the background. Swapping
	// them inverts the image.
	if !strings.Contains(s, "\x1b[38;2;255;0;0m\x1b[48;2;0;0;255m▀") {
		t.Errorf("missing red-on-blue half block in %q", s)
	}
	// The second cell is black on black.
	if !strings.Contains(s, "\x1b[38;2;0;0;0m\x1b[48;2;0;0;0m▀") {
		t.Errorf("missing black cell in %q", s)
	}
	if got := strings.Count(s, "▀"); got != 2 {
		t.Errorf("expected 2 cells for a 2x2 buffer, got %d", got)
	}
	if got := strings.Count(s, "\x1b[0m"); got != 2 {
		t.Errorf("expected a reset per cell, got %d", got)
	}
}

func TestShowOddHeight(t *testing.T) {
	var out bytes.Buffer
	d := New(&Config{Width: 1, Height: 3, Output: &out})
	d.Set(0, 2, pixel.RGB{G: 200})
	if err := d.Show(); err != nil {
		t.Fatal(err)
	}
	// The dangling row has no bottom pixel; the background must be black.
	if !strings.Contains(out.String(), "\x1b[38;2;0;200;0m\x1b[48;2;0;0;0m▀") {
		t.Errorf("odd final row must render on a black background, got %q", out.String())
	}
}

func TestSilentMode(t *testing.T) {
	var out bytes.Buffer
	d := New(&Config{Width: 2, Height: 2, Silent: true, Output: &out})
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	d.Set(0, 0, pixel.White)
	if err := d.Show(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("silent driver wrote %q", out.String())
	}
}

func TestDriverDescriptor(t *testing.T) {
	d := New(nil)
	if !d.Available() {
		t.Error("terminal driver must always report available")
	}
	if d.Priority() != 50 {
		t.Errorf("expected priority 50, got %d", d.Priority())
	}
	if d.Bounds().Dx() != pixel.DefaultWidth || d.Bounds().Dy() != pixel.DefaultHeight {
		t.Errorf("unexpected default bounds %v", d.Bounds())
	}
}
