// Package tft drives an ST7789 TFT panel over SPI.
//
// The controller is run in 16-bit RGB565 mode with the panel rotated to
// landscape. Logical frames are integer scaled and centered on the panel,
// and brightness is set through the controller's display brightness
// register rather than a backlight GPIO.
package tft

import (
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/matrixos/display"
	"github.com/matrixos/display/pixel"
)

// Priority ranks the panel below the kernel framebuffer. When both are
// present the framebuffer console already owns the main display and the
// panel is the secondary output.
const Priority = 85

const (
	defaultPanelWidth  = 320
	defaultPanelHeight = 240

	bytesPerPixel = 2
	batchSize     = 4096
)

// Registers used during init and refresh (from st7789.pdf).
const (
	st7789SLPIN   = 0x10 // Sleep In
	st7789SLPOUT  = 0x11 // Sleep Out
	st7789INVON   = 0x21 // Display Inversion On
	st7789DISPOFF = 0x28 // Display Off
	st7789DISPON  = 0x29 // Display On
	st7789CASET   = 0x2A // Column Address Set
	st7789RASET   = 0x2B // Row Address Set
	st7789RAMWR   = 0x2C // Memory Write
	st7789MADCTL  = 0x36 // Memory Data Access Control
	st7789COLMOD  = 0x3A // Interface Pixel Format
	st7789WRDISBV = 0x51 // Write Display Brightness
	st7789WRCTRLD = 0x53 // Write CTRL Display
)

// MADCTL bit fields.
const (
	_                        byte = 1 << iota // D0: reserved
	_                                         // D1: reserved
	st7789DisplayDataLatch                    // D2: MH
	st7789RGBOrder                            // D3: RGB
	st7789LineAddressOrder                    // D4: ML
	st7789PageColumnOrder                     // D5: MV
	st7789ColumnAddressOrder                  // D6: MX
	st7789PageAddressOrder                    // D7: MY
)

// Config holds the SPI wiring of the panel. The zero value targets the
// first SPI device with the common Raspberry Pi HAT pinout.
type Config struct {
	// Width and Height are the logical frame dimensions.
	Width  int
	Height int

	// PanelWidth and PanelHeight are the panel dimensions after rotation
	// to landscape.
	PanelWidth  int
	PanelHeight int

	// Port is the SPI port name for spireg, Device the device node used
	// by the availability probe.
	Port   string
	Device string

	// ResetPin and DCPin are GPIO pin names for gpioreg.
	ResetPin string
	DCPin    string

	Speed physic.Frequency
}

// Display drives the panel. It implements DisplayDriver and Brightness.
type Display struct {
	config Config
	buf    *pixel.Buffer
	phys   []byte

	port  spi.PortCloser
	conn  spi.Conn
	reset gpio.PinOut
	dc    gpio.PinOut

	scale   int
	offsetX int
	offsetY int
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
	if cfg.PanelWidth == 0 {
		cfg.PanelWidth = defaultPanelWidth
	}
	if cfg.PanelHeight == 0 {
		cfg.PanelHeight = defaultPanelHeight
	}
	if cfg.Port == "" {
		cfg.Port = "SPI0.0"
	}
	if cfg.Device == "" {
		cfg.Device = "/dev/spidev0.0"
	}
	if cfg.ResetPin == "" {
		cfg.ResetPin = "GPIO25"
	}
	if cfg.DCPin == "" {
		cfg.DCPin = "GPIO24"
	}
	if cfg.Speed == 0 {
		cfg.Speed = 40 * physic.MegaHertz
	}
	return &Display{
		config: cfg,
		buf:    pixel.NewBuffer(cfg.Width, cfg.Height),
	}
}

func (d *Display) Name() string  { return "ST7789 Display" }
func (d *Display) Priority() int { return Priority }

func (d *Display) Available() bool {
	_, err := os.Stat(d.config.Device)
	return err == nil
}

func (d *Display) Init() error {
	port, err := spireg.Open(d.config.Port)
	if err != nil {
		return fmt.Errorf("tft: open %s: %w", d.config.Port, err)
	}

	c, err := port.Connect(d.config.Speed, spi.Mode3, 8)
	if err != nil {
		_ = port.Close()
		return fmt.Errorf("tft: connect: %w", err)
	}

	d.reset = gpioreg.ByName(d.config.ResetPin)
	d.dc = gpioreg.ByName(d.config.DCPin)
	if d.reset == nil || d.dc == nil {
		_ = port.Close()
		return fmt.Errorf("tft: GPIO pins %s/%s not found", d.config.ResetPin, d.config.DCPin)
	}

	d.port = port
	d.conn = c
	d.scale = integerScale(d.config.Width, d.config.Height, d.config.PanelWidth, d.config.PanelHeight)
	d.offsetX, d.offsetY = centerOffsets(d.config.Width, d.config.Height, d.config.PanelWidth, d.config.PanelHeight, d.scale)
	d.phys = make([]byte, d.config.PanelWidth*d.config.PanelHeight*bytesPerPixel)

	if err := d.initPanel(); err != nil {
		_ = port.Close()
		d.port = nil
		return err
	}

	log.Printf("[tft] %s on %s, panel %dx%d, scale %dx, offset (%d,%d)",
		d.Name(), d.config.Port, d.config.PanelWidth, d.config.PanelHeight,
		d.scale, d.offsetX, d.offsetY)
	return nil
}

func (d *Display) initPanel() error {
	for _, level := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := d.reset.Out(level); err != nil {
			return fmt.Errorf("tft: reset: %w", err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	if err := d.command(st7789SLPOUT); err != nil {
		return err
	}
	time.Sleep(150 * time.Millisecond)

	// Rotate to landscape so the panel's long edge matches the frame's.
	if err := d.commands([][]byte{
		{st7789MADCTL, st7789ColumnAddressOrder | st7789PageColumnOrder},
		{st7789COLMOD, 0x05}, // 16-bit/pixel RGB 5-6-5
		{st7789INVON},
		{st7789WRCTRLD, 0x2C}, // enable brightness control
		{st7789WRDISBV, 0xFF},
		{st7789DISPON},
	}); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	return nil
}

func (d *Display) command(cmnd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("tft: DC: %w", err)
	}
	if err := d.conn.Tx([]byte{cmnd}, nil); err != nil {
		return fmt.Errorf("tft: command %#02x: %w", cmnd, err)
	}
	if len(data) == 0 {
		return nil
	}
	return d.data(data)
}

func (d *Display) commands(commands [][]byte) error {
	for _, command := range commands {
		if err := d.command(command[0], command[1:]...); err != nil {
			return err
		}
	}
	return nil
}

func (d *Display) data(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("tft: DC: %w", err)
	}
	for len(data) > 0 {
		n := len(data)
		if n > batchSize {
			n = batchSize
		}
		if err := d.conn.Tx(data[:n], nil); err != nil {
			return fmt.Errorf("tft: data: %w", err)
		}
		data = data[n:]
	}
	return nil
}

func (d *Display) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.config.Width, d.config.Height)
}

func (d *Display) Set(x, y int, c pixel.RGB) {
	d.buf.SetRGB(x, y, c)
}

func (d *Display) Clear() {
	d.buf.Clear()
}

// Show packs the logical frame into the panel's native format and pushes
// it over a full-screen window.
func (d *Display) Show() error {
	if d.port == nil {
		return display.ErrClosed
	}

	packFrame(d.phys, d.buf, d.config.PanelWidth, d.config.PanelHeight, d.scale, d.offsetX, d.offsetY)

	x1, y1 := d.config.PanelWidth-1, d.config.PanelHeight-1
	if err := d.commands([][]byte{
		{st7789CASET, 0, 0, byte(x1 >> 8), byte(x1)},
		{st7789RASET, 0, 0, byte(y1 >> 8), byte(y1)},
		{st7789RAMWR},
	}); err != nil {
		return err
	}
	return d.data(d.phys)
}

// SetBrightness adjusts the controller's display brightness register.
// Zero blanks the panel, 1 through 100 map linearly between a minimum
// visible level and full brightness.
func (d *Display) SetBrightness(percent int) error {
	if d.port == nil {
		return display.ErrClosed
	}
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	return d.command(st7789WRDISBV, brightnessLevel(percent))
}

func (d *Display) Close() error {
	if d.port == nil {
		return nil
	}
	if err := d.commands([][]byte{{st7789DISPOFF}, {st7789SLPIN}}); err != nil {
		log.Printf("[tft] warning: sleep on close: %v", err)
	}
	err := d.port.Close()
	d.port = nil
	d.conn = nil
	return err
}

// integerScale is the largest whole multiple of the frame that fits the
// panel, never below 1.
func integerScale(w, h, pw, ph int) int {
	scale := pw / w
	if s := ph / h; s < scale {
		scale = s
	}
	if scale < 1 {
		scale = 1
	}
	return scale
}

// centerOffsets are the top-left panel coordinates of the scaled frame,
// clamped so a frame larger than the panel is cropped instead of placed
// at negative offsets.
func centerOffsets(w, h, pw, ph, scale int) (x, y int) {
	x = (pw - w*scale) / 2
	y = (ph - h*scale) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

const brightnessFloor = 25 // of the 8-bit register range

func brightnessLevel(percent int) byte {
	if percent == 0 {
		return 0
	}
	return byte(brightnessFloor + (0xFF-brightnessFloor)*percent/100)
}

// packFrame writes the logical frame into phys as big-endian RGB565,
// expanding each pixel to a scale by scale block at the given offset.
func packFrame(phys []byte, buf *pixel.Buffer, pw, ph, scale, offsetX, offsetY int) {
	w, h := buf.Width(), buf.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := pixel.Pack(buf.AtRGB(x, y))
			for dy := 0; dy < scale; dy++ {
				py := offsetY + y*scale + dy
				if py >= ph {
					break
				}
				for dx := 0; dx < scale; dx++ {
					px := offsetX + x*scale + dx
					if px >= pw {
						break
					}
					i := (py*pw + px) * bytesPerPixel
					phys[i] = byte(v >> 8)
					phys[i+1] = byte(v)
				}
			}
		}
	}
}
