package display

import (
	"fmt"
	"log"
)

// DisplayConstructor builds a display driver candidate.
type DisplayConstructor func() DisplayDriver

// InputConstructor builds an input driver candidate.
type InputConstructor func() InputDriver

// Manager registers driver constructors, probes the candidates, and owns the
// lifecycle of the selected display and input drivers.
type Manager struct {
	displays []DisplayConstructor
	inputs   []InputConstructor

	display DisplayDriver
	input   InputDriver
}

func NewManager() *Manager {
	return &Manager{}
}

// RegisterDisplayDriver appends a display driver candidate. Registration
// order breaks priority ties: the first registered wins.
func (m *Manager) RegisterDisplayDriver(ctor DisplayConstructor) {
	m.displays = append(m.displays, ctor)
}

// RegisterInputDriver appends an input driver candidate.
func (m *Manager) RegisterInputDriver(ctor InputConstructor) {
	m.inputs = append(m.inputs, ctor)
}

// Init instantiates every registered candidate, selects the available driver
// with the highest priority per capability, and initializes only the
// selected drivers. Missing a driver for either capability is fatal for the
// caller; Init does not retry.
func (m *Manager) Init() error {
	display, err := m.selectDisplay()
	if err != nil {
		return err
	}
	if err = display.Init(); err != nil {
		return fmt.Errorf("display: initializing %s: %w", display.Name(), err)
	}
	m.display = display

	input, err := m.selectInput()
	if err != nil {
		_ = display.Close()
		m.display = nil
		return err
	}
	if err = input.Init(); err != nil {
		_ = display.Close()
		m.display = nil
		return fmt.Errorf("display: initializing %s: %w", input.Name(), err)
	}
	m.input = input

	log.Printf("[display] selected display driver %s (priority %d)", display.Name(), display.Priority())
	log.Printf("[display] selected input driver %s (priority %d)", input.Name(), input.Priority())
	return nil
}

func (m *Manager) selectDisplay() (DisplayDriver, error) {
	var selected DisplayDriver
	for _, ctor := range m.displays {
		d := ctor()
		if !d.Available() {
			if debug {
				log.Printf("[display] %s is not available", d.Name())
			}
			continue
		}
		// Strictly greater keeps the first registered driver on a tie.
		if selected == nil || d.Priority() > selected.Priority() {
			selected = d
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("%w for display output", ErrNoDriver)
	}
	return selected, nil
}

func (m *Manager) selectInput() (InputDriver, error) {
	var selected InputDriver
	for _, ctor := range m.inputs {
		d := ctor()
		if !d.Available() {
			if debug {
				log.Printf("[display] %s is not available", d.Name())
			}
			continue
		}
		if selected == nil || d.Priority() > selected.Priority() {
			selected = d
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("%w for input", ErrNoDriver)
	}
	return selected, nil
}

// Display returns the selected display driver, or nil before Init.
func (m *Manager) Display() DisplayDriver {
	return m.display
}

// Input returns the selected input driver, or nil before Init.
func (m *Manager) Input() InputDriver {
	return m.input
}

// OnInput subscribes fn to the selected input driver's event stream. A
// single subscriber is supported, matching the single active application.
func (m *Manager) OnInput(fn func(Event)) {
	if m.input != nil {
		m.input.Subscribe(fn)
	}
}

// Close shuts down both selected drivers. It tolerates either being absent
// after a partial Init.
func (m *Manager) Close() error {
	var first error
	if m.input != nil {
		if err := m.input.Close(); err != nil && first == nil {
			first = err
		}
		m.input = nil
	}
	if m.display != nil {
		if err := m.display.Close(); err != nil && first == nil {
			first = err
		}
		m.display = nil
	}
	return first
}
