package fbdev

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// backlight drives a sysfs backlight device. A brightness of 0 extinguishes
// the panel; 1–100% maps linearly between a minimum-visible floor and the
// device maximum.
type backlight struct {
	path string // brightness control file
	max  int
}

// openBacklight probes the control files. The probe writes the current
// value back, leaving the panel level untouched: a backlight that cannot be
// written now will not become writable later, so the caller falls back to
// software dimming permanently.
func openBacklight(dir string) (*backlight, error) {
	data, err := os.ReadFile(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return nil, err
	}
	max, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || max <= 0 {
		return nil, fmt.Errorf("fbdev: malformed max_brightness %q", data)
	}

	b := &backlight{
		path: filepath.Join(dir, "brightness"),
		max:  max,
	}
	cur, err := b.read()
	if err != nil {
		return nil, err
	}
	if err := b.write(cur); err != nil {
		return nil, err
	}
	return b, nil
}

// floor is the lowest level that still produces visible output. Mapping
// percentages below it would render an apparently dead panel.
func (b *backlight) floor() int {
	f := b.max / 10
	if f < 1 {
		f = 1
	}
	return f
}

func (b *backlight) set(percent int) error {
	if percent <= 0 {
		return b.write(0)
	}
	floor := b.floor()
	return b.write(floor + (b.max-floor)*percent/100)
}

func (b *backlight) restore() error {
	return b.write(b.max)
}

func (b *backlight) read() (int, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return 0, err
	}
	cur, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || cur < 0 {
		return 0, fmt.Errorf("fbdev: malformed brightness %q", data)
	}
	return cur, nil
}

func (b *backlight) write(value int) error {
	return os.WriteFile(b.path, []byte(strconv.Itoa(value)), 0o644)
}
