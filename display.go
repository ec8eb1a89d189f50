// Package display contains the device driver contracts and the device
// manager for the matrix display pipeline.
package display

import (
	"errors"
	"image"
	"os"
	"time"

	"github.com/matrixos/display/pixel"
)

var debug bool

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""
}

// Errors
var (
	ErrNoDriver = errors.New("display: no driver available")
	ErrClosed   = errors.New("display: driver is closed")
)

// Driver is the capability shared by all device drivers.
//
// Lifecycle: construct, probe Available (read-only, may inspect the
// filesystem or environment), Init once on the selected driver, operate,
// Close. Close must release all resources even when Init only partially
// succeeded.
type Driver interface {
	// Name of the driver, for diagnostics.
	Name() string

	// Priority for automatic selection, 0–100. Higher wins.
	Priority() int

	// Available reports whether the driver can run here. Probe failures
	// count as unavailable.
	Available() bool

	// Init allocates operating system resources.
	Init() error

	// Close releases all resources.
	Close() error
}

// DisplayDriver is a Driver that owns a pixel buffer and can push it to an
// output device.
type DisplayDriver interface {
	Driver

	// Bounds is the logical display bounding box.
	Bounds() image.Rectangle

	// Set the pixel color at (x, y).
	Set(x, y int, c pixel.RGB)

	// Clear the display buffer.
	Clear()

	// Show pushes the buffer to the output device.
	Show() error
}

// InputDriver is a Driver that emits input events.
type InputDriver interface {
	Driver

	// Subscribe registers the single event callback. The callback may be
	// invoked from the driver's own goroutine; subscribers must not block.
	Subscribe(fn func(Event))
}

// Brightness is implemented by display drivers with a controllable
// brightness level.
type Brightness interface {
	// SetBrightness sets the display brightness in percent, 0–100.
	// Zero turns the output fully off.
	SetBrightness(percent int) error
}

// EventType distinguishes key presses from releases.
type EventType uint8

const (
	KeyDown EventType = iota
	KeyUp
)

func (t EventType) String() string {
	if t == KeyUp {
		return "keyup"
	}
	return "keydown"
}

// Logical key names. Printable keys are their own name, including " " for
// the space bar.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyEnter      = "Enter"
	KeyBackspace  = "Backspace"
	KeyEscape     = "Escape"
	KeyTab        = "Tab"
	KeySpace      = " "
)

// Event is a normalized input event.
type Event struct {
	Key    string
	Type   EventType
	Time   time.Time
	Source string
}
