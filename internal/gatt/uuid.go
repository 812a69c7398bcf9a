package gatt

import "fmt"

// 16-bit Bluetooth SIG assigned numbers used by the HID service.
const (
	UUIDHIDService uint16 = 0x1812

	UUIDHIDInformation     uint16 = 0x2A4A
	UUIDReportMap          uint16 = 0x2A4B
	UUIDHIDControlPoint    uint16 = 0x2A4C
	UUIDReport             uint16 = 0x2A4D
	UUIDProtocolMode       uint16 = 0x2A4E
	UUIDBootKeyboardInput  uint16 = 0x2A22
	UUIDBootKeyboardOutput uint16 = 0x2A32

	UUIDReportReference uint16 = 0x2908
)

// Appearance value advertised by the peripheral (HID keyboard subtype).
const AppearanceKeyboard uint16 = 0x03C1

var uuidNames = map[uint16]string{
	UUIDHIDService:         "Human Interface Device",
	UUIDHIDInformation:     "HID Information",
	UUIDReportMap:          "Report Map",
	UUIDHIDControlPoint:    "HID Control Point",
	UUIDReport:             "Report",
	UUIDProtocolMode:       "Protocol Mode",
	UUIDBootKeyboardInput:  "Boot Keyboard Input Report",
	UUIDBootKeyboardOutput: "Boot Keyboard Output Report",
	UUIDReportReference:    "Report Reference",
}

// UUIDName returns the assigned name of a 16-bit UUID used by this service,
// or its hex form when unknown.
func UUIDName(u uint16) string {
	if name, ok := uuidNames[u]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", u)
}
