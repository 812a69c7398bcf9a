package hid

import "fmt"

// Keyboard usage page modifiers and keycodes used by the encoder.
const (
	ModLeftShift = 0x02
	KeycodeA     = 0x04
	KeycodeSpace = 0x2c
)

// UnsupportedCharError reports a character the encoder has no keycode for.
// It is recoverable: the caller decides whether to stop or continue, the
// encoder itself never panics on unknown input.
type UnsupportedCharError struct {
	Char rune
}

func (e *UnsupportedCharError) Error() string {
	return fmt.Sprintf("unsupported character %q: only space and ASCII letters can be encoded", e.Char)
}

// EncodeKey maps a character to the key-down report and the matching all-zero
// key-up report. Supported input is space, 'a'..'z' and 'A'..'Z'; uppercase
// letters carry the left-shift modifier. Anything else returns
// *UnsupportedCharError.
func EncodeKey(c rune) (down, up KeyReport, err error) {
	switch {
	case c == ' ':
		down.Keycodes[0] = KeycodeSpace
	case c >= 'a' && c <= 'z':
		down.Keycodes[0] = KeycodeA + byte(c-'a')
	case c >= 'A' && c <= 'Z':
		down.Modifier = ModLeftShift
		down.Keycodes[0] = KeycodeA + byte(c-'A')
	default:
		return KeyReport{}, KeyReport{}, &UnsupportedCharError{Char: c}
	}
	return down, up, nil
}
