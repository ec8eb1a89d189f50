package keyboard

import (
	"unicode"
	"unicode/utf8"

	"github.com/matrixos/display"
)

// csi sequences for the cursor keys.
var arrows = map[byte]string{
	'A': display.KeyArrowUp,
	'B': display.KeyArrowDown,
	'C': display.KeyArrowRight,
	'D': display.KeyArrowLeft,
}

// Map translates one raw terminal input sequence into a logical key name.
// It reports how many bytes were consumed; ok is false for sequences that
// have no logical equivalent, which callers drop.
func Map(seq []byte) (key string, n int, ok bool) {
	if len(seq) == 0 {
		return "", 0, false
	}
	switch c := seq[0]; {
	case c == 0x1b:
		if len(seq) >= 3 && seq[1] == '[' {
			if key, ok = arrows[seq[2]]; ok {
				return key, 3, true
			}
			return "", 3, false
		}
		// A lone escape byte is the Escape key.
		return display.KeyEscape, 1, true
	case c == '\r' || c == '\n':
		return display.KeyEnter, 1, true
	case c == '\t':
		return display.KeyTab, 1, true
	case c == 0x7f || c == 0x08:
		return display.KeyBackspace, 1, true
	case c == ' ':
		return display.KeySpace, 1, true
	case c < 0x20:
		// Other control bytes have no logical key.
		return "", 1, false
	default:
		r, size := utf8.DecodeRune(seq)
		if r == utf8.RuneError || !unicode.IsPrint(r) {
			return "", size, false
		}
		return string(r), size, true
	}
}

// MapName normalizes an externally injected key name, such as a browser
// KeyboardEvent.key value, into the logical alphabet. Names that are
// already logical pass through; single printable characters are their own
// key; everything else is rejected.
func MapName(name string) (string, bool) {
	switch name {
	case display.KeyArrowUp, display.KeyArrowDown, display.KeyArrowLeft, display.KeyArrowRight,
		display.KeyEnter, display.KeyBackspace, display.KeyEscape, display.KeyTab, display.KeySpace:
		return name, true
	case "Esc": // pre-standard browsers
		return display.KeyEscape, true
	case "Spacebar":
		return display.KeySpace, true
	}
	if r, size := utf8.DecodeRuneInString(name); size == len(name) && r != utf8.RuneError && unicode.IsPrint(r) {
		return name, true
	}
	return "", false
}
