// Package hid holds the HID-level building blocks of the peripheral: the
// report descriptor (report map), the binary report formats it declares, and
// the character-to-keycode encoder. Everything here is plain bytes; nothing
// in this package talks to the radio.
package hid

import "encoding/binary"

// Report types used by the Report Reference descriptor (0x2908).
const (
	ReportTypeInput   = 0x01
	ReportTypeOutput  = 0x02
	ReportTypeFeature = 0x03
)

// Report IDs declared by the report map. Each logical report carries its own
// ID so a single Report characteristic per ID can be bound via a Report
// Reference descriptor.
const (
	ReportIDKeyboard = 1
	ReportIDMouse    = 2
	ReportIDConsumer = 3
)

// KeyboardReportLen is the wire size of a keyboard input report:
// 1 modifier byte, 1 reserved byte, 6 keycode slots.
const KeyboardReportLen = 8

// KeyReport is a keyboard input report. The reserved byte and unused keycode
// slots stay zero.
type KeyReport struct {
	Modifier byte
	Keycodes [6]byte
}

// Bytes encodes the report in the layout the report map declares for
// report ID 1.
func (r KeyReport) Bytes() []byte {
	b := make([]byte, KeyboardReportLen)
	b[0] = r.Modifier
	copy(b[2:], r.Keycodes[:])
	return b
}

// IsZero reports whether the report is the all-keys-released report.
func (r KeyReport) IsZero() bool {
	return r.Modifier == 0 && r.Keycodes == [6]byte{}
}

// MouseReport is a mouse input report: 5 button bits, relative X/Y movement
// and wheel delta (report ID 2).
type MouseReport struct {
	Buttons byte // bits 0..4, upper 3 bits must stay zero
	DX      int8
	DY      int8
	Wheel   int8
}

// Bytes encodes the report in the layout the report map declares for
// report ID 2.
func (r MouseReport) Bytes() []byte {
	return []byte{r.Buttons & 0x1f, byte(r.DX), byte(r.DY), byte(r.Wheel)}
}

// ConsumerReport is a consumer-control input report: one 16-bit usage code
// from the Consumer page, 0 meaning "released" (report ID 3).
type ConsumerReport struct {
	Usage uint16
}

// Bytes encodes the usage code little-endian, as declared for report ID 3.
func (r ConsumerReport) Bytes() []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, r.Usage)
	return b
}
