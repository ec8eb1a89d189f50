// Package app implements the application contract and the fixed-rate
// scheduler that drives the active application.
package app

import (
	"context"
	"time"

	"github.com/matrixos/display"
	"github.com/matrixos/display/pixel"
)

// App is the contract between an application and the scheduler. Exactly one
// app is active at a time; there is no stacking.
//
// The dirty flag belongs to the app: it reports pending visual changes
// through Dirty and clears its own flag when Render runs. The scheduler
// only ever reads it.
type App interface {
	// Name of the application.
	Name() string

	// Activate is called when the app becomes the foreground app. It may
	// block on I/O; the scheduler waits for it before rendering the first
	// frame, so a partially initialized app is never shown.
	Activate(ctx context.Context) error

	// Deactivate is called when the app leaves the foreground.
	Deactivate()

	// Update advances the app state. dt is the wall-clock time since the
	// previous tick in seconds.
	Update(dt float64)

	// HandleEvent processes an input event. Returning false hands the
	// event to the system-level fallback.
	HandleEvent(ev display.Event) bool

	// Render draws the app state into the buffer.
	Render(buf *pixel.Buffer)

	// Dirty reports whether the app wants a render this tick.
	Dirty() bool
}

// Clock abstracts the scheduler's time source so tests can simulate ticks
// without wall-clock delay.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time                         { return time.Now() }
func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
