// Command matrix-test runs a moving test pattern on the best available
// display, for checking wiring, scaling and input without a real UI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/host/v3"

	"github.com/matrixos/display"
	"github.com/matrixos/display/app"
	"github.com/matrixos/display/canvas"
	"github.com/matrixos/display/config"
	"github.com/matrixos/display/draw"
	"github.com/matrixos/display/fbdev"
	"github.com/matrixos/display/keyboard"
	"github.com/matrixos/display/pixel"
	"github.com/matrixos/display/term"
	"github.com/matrixos/display/tft"
)

func main() {
	configFlag := flag.String("config", "/etc/matrixos/display.yaml", "Configuration file")
	driverFlag := flag.String("driver", "", "Force a display driver (fbdev, tft, canvas, terminal)")
	canvasFlag := flag.Bool("canvas", false, "Enable the network canvas display")
	listFlag := flag.Bool("list-drivers", false, "List display drivers and exit")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}
	if *canvasFlag {
		cfg.Canvas.Enabled = true
	}
	if *driverFlag != "" {
		cfg.Display.Driver = *driverFlag
	}

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	canvasDisplay, canvasInput := canvas.New(&canvas.Config{
		Width:   cfg.Display.Width,
		Height:  cfg.Display.Height,
		Listen:  cfg.Canvas.Listen,
		Enabled: cfg.Canvas.Enabled,
	})

	displays := []struct {
		key    string
		driver display.DisplayDriver
	}{
		{"fbdev", fbdev.New(&fbdev.Config{
			Width:        cfg.Display.Width,
			Height:       cfg.Display.Height,
			Device:       cfg.Framebuffer.Device,
			BacklightDir: cfg.Framebuffer.BacklightDir,
		})},
		{"tft", tft.New(&tft.Config{
			Width:    cfg.Display.Width,
			Height:   cfg.Display.Height,
			Port:     cfg.TFT.Port,
			Device:   cfg.TFT.Device,
			ResetPin: cfg.TFT.ResetPin,
			DCPin:    cfg.TFT.DCPin,
		})},
		{"canvas", canvasDisplay},
		{"terminal", term.New(&term.Config{
			Width:  cfg.Display.Width,
			Height: cfg.Display.Height,
			Silent: cfg.Terminal.Silent,
		})},
	}

	if *listFlag {
		for _, d := range displays {
			fmt.Printf("%-8s  %-18s priority %3d available %v\n",
				d.key, d.driver.Name(), d.driver.Priority(), d.driver.Available())
		}
		return
	}

	manager := display.NewManager()
	for _, d := range displays {
		if cfg.Display.Driver != "" && d.key != cfg.Display.Driver {
			continue
		}
		driver := d.driver
		manager.RegisterDisplayDriver(func() display.DisplayDriver { return driver })
	}
	manager.RegisterInputDriver(func() display.InputDriver { return canvasInput })
	manager.RegisterInputDriver(func() display.InputDriver { return keyboard.New() })

	if err := manager.Init(); err != nil {
		fatal(err)
	}
	defer manager.Close()

	if b, ok := manager.Display().(display.Brightness); ok {
		if err := b.SetBrightness(cfg.Display.Brightness); err != nil {
			fmt.Fprintf(os.Stderr, "warning: set brightness: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := app.NewScheduler(&app.Config{Manager: manager})
	pattern := &patternApp{}
	scheduler.SetLauncher(pattern)
	if err := scheduler.SwitchTo(ctx, pattern); err != nil {
		fatal(err)
	}
	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}

// patternApp scrolls a gradient behind a border box and a label that the
// arrow keys move around.
type patternApp struct {
	offset int
	labelX int
	labelY int
	dirty  bool
}

func (a *patternApp) Name() string { return "pattern" }

func (a *patternApp) Activate(context.Context) error {
	a.labelX = 88
	a.labelY = 96
	a.dirty = true
	return nil
}

func (a *patternApp) Deactivate() {}

func (a *patternApp) Update(dt float64) {
	a.offset++
	a.dirty = true
}

func (a *patternApp) HandleEvent(ev display.Event) bool {
	if ev.Type != display.KeyDown {
		return false
	}
	switch ev.Key {
	case display.KeyArrowUp:
		a.labelY -= 4
	case display.KeyArrowDown:
		a.labelY += 4
	case display.KeyArrowLeft:
		a.labelX -= 4
	case display.KeyArrowRight:
		a.labelX += 4
	default:
		return false
	}
	a.dirty = true
	return true
}

func (a *patternApp) Dirty() bool { return a.dirty }

func (a *patternApp) Render(buf *pixel.Buffer) {
	w, h := buf.Width(), buf.Height()
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			buf.SetRGB(x, y, pixel.RGB{
				R: uint8(x + y + a.offset),
				G: uint8(x - y + a.offset),
				B: uint8(x + y - a.offset),
			})
		}
	}
	draw.Rect(buf, 0, 0, w, h, pixel.White)

	d := font.Drawer{
		Dst:  buf,
		Src:  image.NewUniform(pixel.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(a.labelX, a.labelY),
	}
	d.DrawString("MatrixOS")

	a.dirty = false
}
