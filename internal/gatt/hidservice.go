package gatt

import (
	"fmt"

	"github.com/srg/hogp/internal/hid"
)

// Roles of the attributes in the HID keyboard service, used as keys into the
// handle table built from the registration result.
const (
	RoleReportKeyboard    Role = "report_input_keyboard"
	RoleReportRefKeyboard Role = "report_ref_keyboard"
	RoleReportMouse       Role = "report_input_mouse"
	RoleReportRefMouse    Role = "report_ref_mouse"
	RoleReportConsumer    Role = "report_input_consumer"
	RoleReportRefConsumer Role = "report_ref_consumer"
	RoleReportLED         Role = "report_output_led"
	RoleReportRefLED      Role = "report_ref_led"
	RoleProtocolMode      Role = "protocol_mode"
	RoleBootKeyboardIn    Role = "boot_keyboard_input"
	RoleBootKeyboardOut   Role = "boot_keyboard_output"
	RoleReportMap         Role = "report_map"
	RoleHIDInformation    Role = "hid_information"
	RoleControlPoint      Role = "hid_control_point"
)

// ReportReference is the value of a Report Reference descriptor: it binds a
// Report characteristic to a (report ID, report type) pair.
type ReportReference struct {
	ID   byte
	Type byte // hid.ReportTypeInput, hid.ReportTypeOutput or hid.ReportTypeFeature
}

// Bytes encodes the descriptor value as it appears on the wire.
func (r ReportReference) Bytes() []byte {
	return []byte{r.ID, r.Type}
}

// HIDKeyboardDefinition returns the HID service layout of the peripheral:
// three Report characteristics for the keyboard/mouse/consumer input reports,
// one for the keyboard LED output report (each with a Report Reference
// descriptor), the boot-protocol pair, and the static Protocol Mode,
// Report Map, HID Information and HID Control Point characteristics.
//
// Declaration order is load-bearing: the handle table maps registration
// results back to roles by position.
func HIDKeyboardDefinition() ServiceDefinition {
	reportRef := func(role Role) []DescriptorDecl {
		return []DescriptorDecl{{Role: role, UUID: UUIDReportReference, Flags: FlagRead}}
	}

	return ServiceDefinition{
		UUID: UUIDHIDService,
		Characteristics: []CharacteristicDecl{
			{
				Role:        RoleReportKeyboard,
				UUID:        UUIDReport,
				Flags:       FlagRead | FlagNotify,
				Descriptors: reportRef(RoleReportRefKeyboard),
			},
			{
				Role:        RoleReportMouse,
				UUID:        UUIDReport,
				Flags:       FlagRead | FlagNotify,
				Descriptors: reportRef(RoleReportRefMouse),
			},
			{
				Role:        RoleReportConsumer,
				UUID:        UUIDReport,
				Flags:       FlagRead | FlagNotify,
				Descriptors: reportRef(RoleReportRefConsumer),
			},
			{
				Role:        RoleReportLED,
				UUID:        UUIDReport,
				Flags:       FlagRead | FlagWrite,
				Descriptors: reportRef(RoleReportRefLED),
			},
			{Role: RoleProtocolMode, UUID: UUIDProtocolMode, Flags: FlagRead | FlagWrite},
			{Role: RoleBootKeyboardIn, UUID: UUIDBootKeyboardInput, Flags: FlagRead | FlagNotify},
			{Role: RoleBootKeyboardOut, UUID: UUIDBootKeyboardOutput, Flags: FlagRead | FlagWrite},
			{Role: RoleReportMap, UUID: UUIDReportMap, Flags: FlagRead},
			{Role: RoleHIDInformation, UUID: UUIDHIDInformation, Flags: FlagRead},
			{Role: RoleControlPoint, UUID: UUIDHIDControlPoint, Flags: FlagWrite},
		},
	}
}

// HIDReportBindings returns the Report Reference value for each Report
// characteristic of the keyboard service, keyed by descriptor role.
func HIDReportBindings() map[Role]ReportReference {
	return map[Role]ReportReference{
		RoleReportRefKeyboard: {ID: hid.ReportIDKeyboard, Type: hid.ReportTypeInput},
		RoleReportRefMouse:    {ID: hid.ReportIDMouse, Type: hid.ReportTypeInput},
		RoleReportRefConsumer: {ID: hid.ReportIDConsumer, Type: hid.ReportTypeInput},
		RoleReportRefLED:      {ID: hid.ReportIDKeyboard, Type: hid.ReportTypeOutput},
	}
}

// ValidateReportBindings cross-checks the report map against the
// report-reference bindings: every bound (ID, type) pair must be declared by
// the descriptor, and every report ID the descriptor declares must be bound.
// Mismatches are *ConfigurationError and fatal to startup; a central that
// trusted the bindings would otherwise parse garbage.
func ValidateReportBindings(reportMap []byte, bindings map[Role]ReportReference) error {
	fields, err := hid.ParseReportMap(reportMap)
	if err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("report map does not parse: %s", err)}
	}

	bound := make(map[byte]bool)
	for role, ref := range bindings {
		var kind hid.FieldKind
		switch ref.Type {
		case hid.ReportTypeInput:
			kind = hid.FieldInput
		case hid.ReportTypeOutput:
			kind = hid.FieldOutput
		case hid.ReportTypeFeature:
			kind = hid.FieldFeature
		default:
			return &ConfigurationError{Reason: fmt.Sprintf("binding %q has unknown report type %d", role, ref.Type)}
		}
		if hid.FieldBits(fields, ref.ID, kind) == 0 {
			return &ConfigurationError{Reason: fmt.Sprintf(
				"binding %q references report (id=%d, type=%s) which the report map does not declare",
				role, ref.ID, kind)}
		}
		bound[ref.ID] = true
	}

	for _, id := range hid.ReportIDs(fields) {
		if !bound[id] {
			return &ConfigurationError{Reason: fmt.Sprintf("report map declares report ID %d but no characteristic is bound to it", id)}
		}
	}
	return nil
}
