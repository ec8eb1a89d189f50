// Package fbdev implements the Linux framebuffer display driver.
//
// The logical buffer is scaled by an integer factor, centered on the
// physical panel, converted to little-endian RGB565 and pushed to the
// device node in a single whole-buffer write.
package fbdev

import (
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/matrixos/display/pixel"
)

// Priority of the framebuffer driver. Direct hardware output wins over
// every other display driver.
const Priority = 90

// Defaults used when the display configuration is unreadable.
const (
	DefaultPhysicalWidth  = 800
	DefaultPhysicalHeight = 480
	DefaultBitsPerPixel   = 16
)

const bytesPerPixel = 2 // RGB565

// Config is the framebuffer driver configuration. The path fields exist so
// tests can point the driver at plain files; the zero value targets the
// first framebuffer.
type Config struct {
	// Width and Height of the logical display. Zero means 256×192.
	Width  int
	Height int

	// Device is the framebuffer device node, default /dev/fb0.
	Device string

	// VirtualSizePath and BitsPerPixelPath are the display configuration
	// interface, default /sys/class/graphics/fb0/{virtual_size,bits_per_pixel}.
	VirtualSizePath  string
	BitsPerPixelPath string

	// BacklightDir holds the brightness and max_brightness control files,
	// default /sys/class/backlight/backlight. Missing directory selects
	// software dimming.
	BacklightDir string
}

// Display is the framebuffer display driver.
type Display struct {
	config Config

	buf  *pixel.Buffer
	f    *os.File
	phys []byte

	physWidth  int
	physHeight int
	scale      int
	offsetX    int
	offsetY    int

	backlight *backlight // nil after Init means software dimming
	percent   int        // current brightness percentage
}

func New(config *Config) *Display {
	if config == nil {
		config = new(Config)
	}
	cfg := *config
	if cfg.Width == 0 {
		cfg.Width = pixel.DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = pixel.DefaultHeight
	}
	if cfg.Device == "" {
		cfg.Device = "/dev/fb0"
	}
	if cfg.VirtualSizePath == "" {
		cfg.VirtualSizePath = "/sys/class/graphics/fb0/virtual_size"
	}
	if cfg.BitsPerPixelPath == "" {
		cfg.BitsPerPixelPath = "/sys/class/graphics/fb0/bits_per_pixel"
	}
	if cfg.BacklightDir == "" {
		cfg.BacklightDir = "/sys/class/backlight/backlight"
	}
	return &Display{
		config:  cfg,
		buf:     pixel.NewBuffer(cfg.Width, cfg.Height),
		percent: 100,
	}
}

func (d *Display) Name() string  { return "Framebuffer Display" }
func (d *Display) Priority() int { return Priority }

// Available reports whether the framebuffer device node exists.
func (d *Display) Available() bool {
	_, err := os.Stat(d.config.Device)
	return err == nil
}

func (d *Display) Init() (err error) {
	if d.f, err = os.OpenFile(d.config.Device, os.O_RDWR, 0); err != nil {
		return fmt.Errorf("fbdev: opening %s: %w", d.config.Device, err)
	}

	d.physWidth, d.physHeight = d.readVirtualSize()
	if bpp := d.readBitsPerPixel(); bpp != DefaultBitsPerPixel {
		log.Printf("[fbdev] warning: %d bits per pixel reported, writing RGB565 regardless", bpp)
	}

	d.scale = integerScale(d.physWidth, d.physHeight, d.buf.Width(), d.buf.Height())
	d.offsetX, d.offsetY = centerOffsets(d.physWidth, d.physHeight, d.buf.Width(), d.buf.Height(), d.scale)
	d.phys = make([]byte, d.physWidth*d.physHeight*bytesPerPixel)

	// Backlight control is probed exactly once. A missing control file or a
	// failed write selects software dimming for the whole session.
	if bl, err := openBacklight(d.config.BacklightDir); err != nil {
		log.Printf("[fbdev] no hardware backlight, using software brightness: %v", err)
	} else {
		d.backlight = bl
	}
	return nil
}

func (d *Display) readVirtualSize() (w, h int) {
	data, err := os.ReadFile(d.config.VirtualSizePath)
	if err == nil {
		parts := strings.Split(strings.TrimSpace(string(data)), ",")
		if len(parts) == 2 {
			w, werr := strconv.Atoi(strings.TrimSpace(parts[0]))
			h, herr := strconv.Atoi(strings.TrimSpace(parts[1]))
			if werr == nil && herr == nil && w > 0 && h > 0 {
				return w, h
			}
		}
		err = fmt.Errorf("malformed contents %q", data)
	}
	log.Printf("[fbdev] warning: cannot read display resolution (%v), assuming %dx%d",
		err, DefaultPhysicalWidth, DefaultPhysicalHeight)
	return DefaultPhysicalWidth, DefaultPhysicalHeight
}

func (d *Display) readBitsPerPixel() int {
	data, err := os.ReadFile(d.config.BitsPerPixelPath)
	if err == nil {
		if bpp, aerr := strconv.Atoi(strings.TrimSpace(string(data))); aerr == nil && bpp > 0 {
			return bpp
		}
	}
	log.Printf("[fbdev] warning: cannot read bits per pixel, assuming %d", DefaultBitsPerPixel)
	return DefaultBitsPerPixel
}

// integerScale returns the largest square magnification that fits the
// logical display on the panel, never below 1.
func integerScale(pw, ph, lw, lh int) int {
	scale := min(pw/lw, ph/lh)
	if scale < 1 {
		scale = 1
	}
	return scale
}

// centerOffsets splits the slack evenly; integer truncation may bias the
// remainder to the left and top by one pixel.
func centerOffsets(pw, ph, lw, lh, scale int) (x, y int) {
	x = (pw - lw*scale) / 2
	y = (ph - lh*scale) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
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

// SetBrightness adjusts the display brightness, 0–100. With hardware
// backlight control the panel content is untouched; in software mode the
// factor is applied to every pixel on the next Show.
func (d *Display) SetBrightness(percent int) error {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	d.percent = percent
	if d.backlight != nil {
		return d.backlight.set(percent)
	}
	return nil
}

func (d *Display) dim(c pixel.RGB) pixel.RGB {
	if d.backlight != nil || d.percent >= 100 {
		return c
	}
	factor := float64(d.percent) / 100
	return pixel.RGB{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}

// Show converts the logical buffer to the device format and writes it in
// one bulk write at offset zero. Blocks that land outside the panel are
// skipped.
func (d *Display) Show() error {
	if d.f == nil {
		return fmt.Errorf("fbdev: %s: not initialized", d.config.Device)
	}
	var (
		lw = d.buf.Width()
		lh = d.buf.Height()
	)
	for y := 0; y < lh; y++ {
		for x := 0; x < lw; x++ {
			v := pixel.Pack(d.dim(d.buf.AtRGB(x, y)))
			for by := 0; by < d.scale; by++ {
				py := d.offsetY + y*d.scale + by
				if py >= d.physHeight {
					continue
				}
				for bx := 0; bx < d.scale; bx++ {
					px := d.offsetX + x*d.scale + bx
					if px >= d.physWidth {
						continue
					}
					pixel.PutLE(d.phys[(py*d.physWidth+px)*bytesPerPixel:], v)
				}
			}
		}
	}
	_, err := d.f.WriteAt(d.phys, 0)
	return err
}

// Close blanks the panel, restores the backlight and releases the device
// handle. Leaving stale pixels or a dark backlight behind is a visible
// hardware-state bug.
func (d *Display) Close() error {
	if d.f == nil {
		return nil
	}
	for i := range d.phys {
		d.phys[i] = 0
	}
	_, werr := d.f.WriteAt(d.phys, 0)
	if d.backlight != nil {
		if err := d.backlight.restore(); err != nil {
			log.Printf("[fbdev] warning: restoring backlight: %v", err)
		}
	}
	cerr := d.f.Close()
	d.f = nil
	if werr != nil {
		return werr
	}
	return cerr
}
