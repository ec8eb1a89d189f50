// Package keyboard implements the stdin input driver.
//
// The terminal is switched to raw mode for the lifetime of the driver and
// escape sequences are normalized into the logical key alphabet. Network
// sources can inject additional keys through Inject; they pass through the
// same normalization as browser key names.
package keyboard

import (
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/matrixos/display"
)

// Priority of the keyboard driver.
const Priority = 50

// Input is the stdin input driver.
type Input struct {
	in     *os.File
	fd     int
	state  *term.State
	fn     atomic.Pointer[func(display.Event)]
	closed atomic.Bool
}

func New() *Input {
	return &Input{
		in: os.Stdin,
		fd: int(os.Stdin.Fd()),
	}
}

func (d *Input) Name() string  { return "Keyboard Input" }
func (d *Input) Priority() int { return Priority }

// Available reports whether stdin is an interactive terminal.
func (d *Input) Available() bool {
	return term.IsTerminal(d.fd)
}

func (d *Input) Init() error {
	state, err := term.MakeRaw(d.fd)
	if err != nil {
		return err
	}
	d.state = state
	go d.readLoop()
	return nil
}

// Close restores the terminal state and unblocks the reader goroutine by
// expiring its pending read. On inputs that do not support deadlines the
// reader lingers until one more byte arrives, then exits.
func (d *Input) Close() error {
	d.closed.Store(true)
	_ = d.in.SetReadDeadline(time.Now())
	if d.state != nil {
		err := term.Restore(d.fd, d.state)
		d.state = nil
		return err
	}
	return nil
}

func (d *Input) Subscribe(fn func(display.Event)) {
	d.fn.Store(&fn)
}

// Inject normalizes and emits a key delivered by an external source, such
// as a network client. Unrecognized names are dropped.
func (d *Input) Inject(name string, typ display.EventType, source string) {
	key, ok := MapName(name)
	if !ok {
		log.Printf("[keyboard] dropping unrecognized key %q from %s", name, source)
		return
	}
	d.emit(display.Event{Key: key, Type: typ, Time: time.Now(), Source: source})
}

func (d *Input) emit(ev display.Event) {
	if fn := d.fn.Load(); fn != nil {
		(*fn)(ev)
	}
}

func (d *Input) readLoop() {
	buf := make([]byte, 64)
	for !d.closed.Load() {
		n, err := d.in.Read(buf)
		if err != nil {
			if err != io.EOF && !d.closed.Load() {
				log.Printf("[keyboard] read error: %v", err)
			}
			return
		}
		d.scan(buf[:n])
	}
}

// scan parses a chunk of raw input. Terminals deliver multi-byte escape
// sequences in a single read, so sequences never straddle chunks in
// practice. Key releases are not reported by terminals; every key maps to a
// key-down event.
func (d *Input) scan(raw []byte) {
	for len(raw) > 0 {
		key, n, ok := Map(raw)
		if n == 0 {
			return
		}
		if !ok {
			log.Printf("[keyboard] dropping unrecognized sequence % x", raw[:n])
			raw = raw[n:]
			continue
		}
		d.emit(display.Event{Key: key, Type: display.KeyDown, Time: time.Now(), Source: "keyboard"})
		raw = raw[n:]
	}
}
