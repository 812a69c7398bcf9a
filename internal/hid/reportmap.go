package hid

// HIDInformation is the fixed value of the HID Information characteristic
// (0x2A4A): bcdHID 1.1, country code 0, normally-connectable flag set, no
// remote wake.
var HIDInformation = []byte{0x01, 0x01, 0x00, 0x02}

// ProtocolModeReport is the Protocol Mode characteristic value selecting
// report protocol (as opposed to boot protocol, 0x00).
var ProtocolModeReport = []byte{0x01}

// ReportMap is the HID report descriptor exposed through the Report Map
// characteristic (0x2A4B). It declares three top-level application
// collections: keyboard (report ID 1, with an LED output report), mouse
// (report ID 2) and consumer control (report ID 3). The Report Reference
// descriptors on the Report characteristics must bind exactly these IDs.
var ReportMap = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop Ctrls)
	0x09, 0x06, // Usage (Keyboard)
	0xa1, 0x01, // Collection (Application)
	0x85, 0x01, //   Report ID (1)
	0x05, 0x07, //   Usage Page (Kbrd/Keypad)
	0x19, 0xe0, //   Usage Minimum (0xE0)
	0x29, 0xe7, //   Usage Maximum (0xE7)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x08, //   Report Count (8)
	0x81, 0x02, //   Input (Data,Var,Abs) - modifier bits
	0x81, 0x01, //   Input (Const,Array,Abs) - reserved byte
	0x19, 0x00, //   Usage Minimum (0x00)
	0x29, 0x65, //   Usage Maximum (0x65)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x65, //   Logical Maximum (101)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x06, //   Report Count (6)
	0x81, 0x00, //   Input (Data,Array,Abs) - keycode slots
	0x05, 0x08, //   Usage Page (LEDs)
	0x19, 0x01, //   Usage Minimum (Num Lock)
	0x29, 0x05, //   Usage Maximum (Kana)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x05, //   Report Count (5)
	0x91, 0x02, //   Output (Data,Var,Abs) - LED bits
	0x95, 0x03, //   Report Count (3)
	0x91, 0x01, //   Output (Const,Array,Abs) - LED padding
	0xc0, // End Collection
	0x05, 0x01, // Usage Page (Generic Desktop Ctrls)
	0x09, 0x02, // Usage (Mouse)
	0xa1, 0x01, // Collection (Application)
	0x09, 0x01, //   Usage (Pointer)
	0xa1, 0x00, //   Collection (Physical)
	0x85, 0x02, //     Report ID (2)
	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (1)
	0x29, 0x05, //     Usage Maximum (5)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x05, //     Report Count (5)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data,Var,Abs) - button bits
	0x95, 0x01, //     Report Count (1)
	0x75, 0x03, //     Report Size (3)
	0x81, 0x01, //     Input (Const,Array,Abs) - button padding
	0x05, 0x01, //     Usage Page (Generic Desktop Ctrls)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7f, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x02, //     Report Count (2)
	0x81, 0x06, //     Input (Data,Var,Rel) - X/Y
	0x09, 0x38, //     Usage (Wheel)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7f, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x06, //     Input (Data,Var,Rel) - wheel
	0xc0, //   End Collection
	0xc0, // End Collection
	0x05, 0x0c, // Usage Page (Consumer)
	0x09, 0x01, // Usage (Consumer Control)
	0xa1, 0x01, // Collection (Application)
	0x85, 0x03, //   Report ID (3)
	0x75, 0x10, //   Report Size (16)
	0x95, 0x01, //   Report Count (1)
	0x15, 0x01, //   Logical Minimum (1)
	0x26, 0x8c, 0x02, //   Logical Maximum (652)
	0x19, 0x01, //   Usage Minimum (Consumer Control)
	0x2a, 0x8c, 0x02, //   Usage Maximum (AC Send)
	0x81, 0x00, //   Input (Data,Array,Abs) - usage code
	0xc0, // End Collection
	0x05, 0x01, // Usage Page (Generic Desktop Ctrls)
}
