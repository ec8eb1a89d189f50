// Package term implements the ANSI terminal display driver.
//
// Two logical rows are packed into every terminal text row using the upper
// half-block glyph: the cell foreground carries the top pixel, the cell
// background the bottom pixel. Colors are emitted as 24-bit SGR sequences.
package term

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/matrixos/display/pixel"
)

// Priority of the terminal driver. It is the fallback output, below the
// framebuffer and network drivers.
const Priority = 50

const (
	halfBlock = "▀"
	reset     = "\x1b[0m"
	home      = "\x1b[H"
	clear     = "\x1b[2J"
	hideCur   = "\x1b[?25l"
	showCur   = "\x1b[?25h"
)

// Config is the terminal driver configuration.
type Config struct {
	// Width and Height of the logical display. Zero means the default
	// 256×192.
	Width  int
	Height int

	// Silent suppresses all terminal output while still accepting Show
	// calls. Used by the scheduler tests.
	Silent bool

	// Output defaults to os.Stdout.
	Output io.Writer
}

// Display is the terminal display driver.
type Display struct {
	buf    *pixel.Buffer
	out    io.Writer
	silent bool
}

func New(config *Config) *Display {
	if config == nil {
		config = new(Config)
	}
	w, h := config.Width, config.Height
	if w == 0 {
		w = pixel.DefaultWidth
	}
	if h == 0 {
		h = pixel.DefaultHeight
	}
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	return &Display{
		buf:    pixel.NewBuffer(w, h),
		out:    out,
		silent: config.Silent,
	}
}

func (d *Display) Name() string  { return "Terminal Display" }
func (d *Display) Priority() int { return Priority }

// Available is always true; a terminal is assumed wherever the process runs.
func (d *Display) Available() bool { return true }

func (d *Display) Init() error {
	if d.silent {
		return nil
	}
	_, err := io.WriteString(d.out, clear+home+hideCur)
	return err
}

func (d *Display) Close() error {
	if d.silent {
		return nil
	}
	_, err := io.WriteString(d.out, reset+clear+home+showCur)
	return err
}

func (d *Display) Bounds() image.Rectangle {
	return d.buf.Bounds()
}

func (d *Display) Set(x, y int, c pixel.RGB) {
	d.buf.SetRGB(x, y, c)
}

func (d *Display) Clear() {
	d.buf.Clear()
}

// Show renders the buffer. Every cell is a foreground escape for the top
// pixel, a background escape for the bottom pixel, the half-block glyph and
// a reset. An odd final row renders against a black background.
func (d *Display) Show() error {
	if d.silent {
		return nil
	}
	var b bytes.Buffer
	b.WriteString(home)
	w, h := d.buf.Width(), d.buf.Height()
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := d.buf.AtRGB(x, y)
			var bottom pixel.RGB
			if y+1 < h {
				bottom = d.buf.AtRGB(x, y+1)
			}
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s%s",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B, halfBlock, reset)
		}
		b.WriteString("\r\n")
	}
	_, err := d.out.Write(b.Bytes())
	return err
}
