package hid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportMapDeclaredReports(t *testing.T) {
	fields, err := ParseReportMap(ReportMap)
	require.NoError(t, err)

	assert.Equal(t, []byte{ReportIDKeyboard, ReportIDMouse, ReportIDConsumer}, ReportIDs(fields))

	tests := []struct {
		name     string
		reportID byte
		kind     FieldKind
		wantBits int
	}{
		{"keyboard input: modifiers + reserved + 6 keycodes", ReportIDKeyboard, FieldInput, 64},
		{"keyboard output: 5 LED bits + 3 padding bits", ReportIDKeyboard, FieldOutput, 8},
		{"mouse input: buttons + padding + X/Y + wheel", ReportIDMouse, FieldInput, 32},
		{"consumer input: one 16-bit usage", ReportIDConsumer, FieldInput, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantBits, FieldBits(fields, tt.reportID, tt.kind))
		})
	}

	// No feature reports and no output reports besides the keyboard LEDs.
	for _, f := range fields {
		assert.NotEqual(t, FieldFeature, f.Kind, "report %d", f.ReportID)
		if f.Kind == FieldOutput {
			assert.Equal(t, byte(ReportIDKeyboard), f.ReportID)
		}
	}
}

func TestParseReportMapRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr string
	}{
		{
			name:    "long item",
			data:    []byte{0xfe, 0x02, 0x00, 0x00, 0x00},
			wantErr: "long item",
		},
		{
			name:    "truncated two-byte item",
			data:    []byte{0x75},
			wantErr: "truncated item",
		},
		{
			name: "main item without report ID",
			// Report Size (8), Report Count (1), Input
			data:    []byte{0x75, 0x08, 0x95, 0x01, 0x81, 0x02},
			wantErr: "without a preceding report ID",
		},
		{
			name:    "reserved report ID zero",
			data:    []byte{0x85, 0x00},
			wantErr: "reserved",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReportMap(tt.data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseReportMapEmpty(t *testing.T) {
	fields, err := ParseReportMap(nil)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestFieldBitsUnknownReport(t *testing.T) {
	fields, err := ParseReportMap(ReportMap)
	require.NoError(t, err)
	assert.Zero(t, FieldBits(fields, 9, FieldInput))
}
