package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/matrixos/display"
	"github.com/matrixos/display/pixel"
)

// DefaultPeriod is the nominal 60 Hz frame period.
const DefaultPeriod = time.Second / 60

// Config is the scheduler configuration.
type Config struct {
	// Manager supplies the selected display and input drivers. It must be
	// initialized before Run.
	Manager *display.Manager

	// Clock defaults to the wall clock.
	Clock Clock

	// Period defaults to DefaultPeriod.
	Period time.Duration
}

// Scheduler drives the active application at a fixed rate: queued input,
// update, render when dirty, push to the display driver.
//
// The loop is single-threaded: apps, the pixel buffer and the display
// driver are only touched from the Run goroutine. Driver callbacks enqueue
// events and nothing else. SwitchTo and SetLauncher must be called from the
// Run goroutine (an event or update hook) or before Run starts.
type Scheduler struct {
	manager *display.Manager
	clock   Clock
	period  time.Duration

	buf      *pixel.Buffer
	events   chan display.Event
	active   App
	launcher App

	stopOnce sync.Once
	stopc    chan struct{}
}

func NewScheduler(config *Config) *Scheduler {
	clock := config.Clock
	if clock == nil {
		clock = wallClock{}
	}
	period := config.Period
	if period == 0 {
		period = DefaultPeriod
	}
	return &Scheduler{
		manager: config.Manager,
		clock:   clock,
		period:  period,
		events:  make(chan display.Event, 64),
		stopc:   make(chan struct{}),
	}
}

// SetLauncher registers the app the Escape key falls back to.
func (s *Scheduler) SetLauncher(launcher App) {
	s.launcher = launcher
}

// Active returns the foreground app, nil when idle.
func (s *Scheduler) Active() App {
	return s.active
}

// SwitchTo makes app the sole active application. The previous app is
// deactivated synchronously before the new app's activation begins, and the
// frame loop does not resume until activation completes. Activation errors
// are returned without swallowing; the previous app stays deactivated.
func (s *Scheduler) SwitchTo(ctx context.Context, app App) error {
	if s.active == app {
		return nil
	}
	if s.active != nil {
		s.active.Deactivate()
	}
	s.active = nil
	if err := app.Activate(ctx); err != nil {
		return fmt.Errorf("app: activating %s: %w", app.Name(), err)
	}
	s.active = app
	return nil
}

// Run executes the frame loop until Stop is called or the context is
// canceled. The loop self-schedules: the wait for the next tick is the
// period minus the time the current tick took, clamped at zero. This
// resists drift but is not a real-time guarantee.
func (s *Scheduler) Run(ctx context.Context) error {
	driver := s.manager.Display()
	if driver == nil {
		return fmt.Errorf("app: %w", display.ErrNoDriver)
	}
	bounds := driver.Bounds()
	s.buf = pixel.NewBuffer(bounds.Dx(), bounds.Dy())
	s.manager.OnInput(s.enqueue)

	last := s.clock.Now()
	for {
		tickStart := s.clock.Now()
		dt := tickStart.Sub(last).Seconds()
		last = tickStart

		// Events queued since the previous tick are delivered before this
		// tick's update.
		if err := s.drainEvents(ctx); err != nil {
			return err
		}

		if s.active != nil {
			s.active.Update(dt)
			if s.active.Dirty() {
				s.buf.Clear()
				s.active.Render(s.buf)
				s.present(driver)
			}
		}

		// A stop requested during the tick takes effect before the timer.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopc:
			return nil
		default:
		}

		delay := s.period - s.clock.Now().Sub(tickStart)
		if delay < 0 {
			delay = 0
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopc:
			return nil
		case <-s.clock.After(delay):
		}
	}
}

// Stop cancels the next scheduled tick. A tick already in progress runs to
// completion. Stop is idempotent.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopc) })
}

func (s *Scheduler) enqueue(ev display.Event) {
	select {
	case s.events <- ev:
	default:
		log.Printf("[app] input queue full, dropping %s %s", ev.Key, ev.Type)
	}
}

func (s *Scheduler) drainEvents(ctx context.Context) error {
	for {
		select {
		case ev := <-s.events:
			if err := s.dispatch(ctx, ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// dispatch offers the event to the active app first. Unhandled Escape
// presses return to the launcher; when the launcher is already active the
// key is inert at this layer.
func (s *Scheduler) dispatch(ctx context.Context, ev display.Event) error {
	if s.active != nil && s.active.HandleEvent(ev) {
		return nil
	}
	if ev.Key == display.KeyEscape && ev.Type == display.KeyDown {
		if s.launcher != nil && s.active != s.launcher {
			return s.SwitchTo(ctx, s.launcher)
		}
	}
	return nil
}

// present copies the rendered buffer into the driver pixel by pixel and
// pushes it. A failed push is logged and the loop continues; one bad frame
// must not stop the system.
func (s *Scheduler) present(driver display.DisplayDriver) {
	bounds := driver.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			driver.Set(x, y, s.buf.AtRGB(x, y))
		}
	}
	if err := driver.Show(); err != nil {
		log.Printf("[app] warning: display show failed: %v", err)
	}
}
