package canvas

import (
	"log"
	"os"
	"time"

	"github.com/matrixos/display"
	"github.com/matrixos/display/keyboard"
)

func debugEnabled() bool {
	return os.Getenv("DISPLAY_DEBUG") != ""
}

// Input is the network input driver. It emits the keys forwarded by canvas
// clients, normalized through the same mapping as the keyboard driver.
type Input struct {
	hub     *Hub
	enabled bool
}

func (d *Input) Name() string  { return "Canvas Input" }
func (d *Input) Priority() int { return Priority }

// Available reports whether the canvas path was requested.
func (d *Input) Available() bool { return d.enabled }

// Init joins the shared hub, starting its endpoint if the display driver
// has not already done so.
func (d *Input) Init() error {
	return d.hub.start()
}

func (d *Input) Close() error {
	d.hub.mu.Lock()
	d.hub.onKey = nil
	d.hub.mu.Unlock()
	return d.hub.stop()
}

func (d *Input) Subscribe(fn func(display.Event)) {
	d.hub.mu.Lock()
	defer d.hub.mu.Unlock()
	d.hub.onKey = func(name, typ, id string) {
		key, ok := keyboard.MapName(name)
		if !ok {
			log.Printf("[canvas] dropping unrecognized key %q from client %s", name, id)
			return
		}
		eventType := display.KeyDown
		if typ == "keyup" {
			eventType = display.KeyUp
		}
		fn(display.Event{Key: key, Type: eventType, Time: time.Now(), Source: "canvas"})
	}
}
