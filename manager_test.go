package display

import (
	"errors"
	"image"
	"testing"

	"github.com/matrixos/display/pixel"
)

type fakeDisplay struct {
	name      string
	priority  int
	available bool
	initErr   error

	inited bool
	closed bool
}

func (d *fakeDisplay) Name() string            { return d.name }
func (d *fakeDisplay) Priority() int           { return d.priority }
func (d *fakeDisplay) Available() bool         { return d.available }
func (d *fakeDisplay) Init() error             { d.inited = true; return d.initErr }
func (d *fakeDisplay) Close() error            { d.closed = true; return nil }
func (d *fakeDisplay) Bounds() image.Rectangle { return image.Rect(0, 0, 4, 4) }
func (d *fakeDisplay) Set(x, y int, c pixel.RGB) {}
func (d *fakeDisplay) Clear()                  {}
func (d *fakeDisplay) Show() error             { return nil }

type fakeInput struct {
	fakeDisplay
	fn func(Event)
}

func (d *fakeInput) Subscribe(fn func(Event)) { d.fn = fn }

func newManager(displays []*fakeDisplay, inputs []*fakeInput) *Manager {
	m := NewManager()
	for _, d := range displays {
		d := d
		m.RegisterDisplayDriver(func() DisplayDriver { return d })
	}
	for _, d := range inputs {
		d := d
		m.RegisterInputDriver(func() InputDriver { return d })
	}
	return m
}

func TestManagerSelectsHighestAvailable(t *testing.T) {
	var (
		fb   = &fakeDisplay{name: "fb", priority: 90, available: false}
		net  = &fakeDisplay{name: "net", priority: 80, available: true}
		term = &fakeDisplay{name: "term", priority: 50, available: true}
		kbd  = &fakeInput{fakeDisplay: fakeDisplay{name: "kbd", priority: 50, available: true}}
	)
	m := newManager([]*fakeDisplay{fb, net, term}, []*fakeInput{kbd})
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if m.Display() != net {
		t.Errorf("expected net to be selected, got %s", m.Display().Name())
	}
	if !net.inited {
		t.Error("selected driver was not initialized")
	}
	if fb.inited || term.inited {
		t.Error("unselected drivers must not be initialized")
	}
}

func TestManagerTieBreaksByRegistrationOrder(t *testing.T) {
	var (
		first  = &fakeDisplay{name: "first", priority: 50, available: true}
		second = &fakeDisplay{name: "second", priority: 50, available: true}
		kbd    = &fakeInput{fakeDisplay: fakeDisplay{name: "kbd", available: true}}
	)
	m := newManager([]*fakeDisplay{first, second}, []*fakeInput{kbd})
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if m.Display() != first {
		t.Errorf("expected first registered driver on a priority tie, got %s", m.Display().Name())
	}
}

func TestManagerNoDriverIsFatal(t *testing.T) {
	m := newManager(
		[]*fakeDisplay{{name: "fb", priority: 90}},
		[]*fakeInput{{fakeDisplay: fakeDisplay{name: "kbd", available: true}}},
	)
	err := m.Init()
	if !errors.Is(err, ErrNoDriver) {
		t.Fatalf("expected ErrNoDriver, got %v", err)
	}
}

func TestManagerInputInitFailureClosesDisplay(t *testing.T) {
	var (
		term = &fakeDisplay{name: "term", priority: 50, available: true}
		kbd  = &fakeInput{fakeDisplay: fakeDisplay{name: "kbd", available: true, initErr: errors.New("no tty")}}
	)
	m := newManager([]*fakeDisplay{term}, []*fakeInput{kbd})
	if err := m.Init(); err == nil {
		t.Fatal("expected input init failure to surface")
	}
	if !term.closed {
		t.Error("display driver must be closed when input init fails")
	}
	if m.Display() != nil {
		t.Error("manager kept a display after failed Init")
	}
}

func TestManagerOnInputAndClose(t *testing.T) {
	var (
		term = &fakeDisplay{name: "term", priority: 50, available: true}
		kbd  = &fakeInput{fakeDisplay: fakeDisplay{name: "kbd", available: true}}
	)
	m := newManager([]*fakeDisplay{term}, []*fakeInput{kbd})
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	m.OnInput(func(Event) {})
	if kbd.fn == nil {
		t.Error("OnInput did not subscribe to the selected input driver")
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if !term.closed || !kbd.closed {
		t.Error("Close must shut down both selected drivers")
	}
	// Close is idempotent on a partially shut down manager.
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}
