package hid

import "fmt"

// FieldKind distinguishes the main item that produced a report field.
type FieldKind int

const (
	FieldInput FieldKind = iota
	FieldOutput
	FieldFeature
)

func (k FieldKind) String() string {
	switch k {
	case FieldInput:
		return "input"
	case FieldOutput:
		return "output"
	case FieldFeature:
		return "feature"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ReportField is the accumulated payload of one report ID in one direction.
// Bits counts data and padding bits alike, so Bits/8 is the report's wire
// size excluding the report ID prefix.
type ReportField struct {
	ReportID byte
	Kind     FieldKind
	Bits     int
}

// Short item prefixes of the HID report descriptor grammar
// (Device Class Definition for HID 1.11, section 6.2.2).
const (
	itemTagMask   = 0xfc
	itemSizeMask  = 0x03
	itemLongItem  = 0xfe
	tagInput      = 0x80
	tagOutput     = 0x90
	tagFeature    = 0xb0
	tagReportSize = 0x74
	tagReportCnt  = 0x94
	tagReportID   = 0x84
)

// ParseReportMap walks the short items of a HID report descriptor and sums
// the field bits declared per (report ID, direction) pair, in order of first
// appearance. It understands exactly as much of the grammar as the validator
// and the inspect command need: report size/count/ID globals and the
// input/output/feature main items. Collections and usages are skipped.
//
// A descriptor using long items, a truncated item, or a main item before any
// report ID is rejected.
func ParseReportMap(d []byte) ([]ReportField, error) {
	var (
		fields     []ReportField
		reportSize int
		reportCnt  int
		reportID   = -1
	)

	addBits := func(kind FieldKind) error {
		if reportID < 0 {
			return fmt.Errorf("%s item without a preceding report ID", kind)
		}
		for i := range fields {
			if fields[i].ReportID == byte(reportID) && fields[i].Kind == kind {
				fields[i].Bits += reportSize * reportCnt
				return nil
			}
		}
		fields = append(fields, ReportField{
			ReportID: byte(reportID),
			Kind:     kind,
			Bits:     reportSize * reportCnt,
		})
		return nil
	}

	for i := 0; i < len(d); {
		prefix := d[i]
		if prefix == itemLongItem {
			return nil, fmt.Errorf("long item at offset %d not supported", i)
		}
		size := int(prefix & itemSizeMask)
		if size == 3 {
			size = 4
		}
		if i+1+size > len(d) {
			return nil, fmt.Errorf("truncated item at offset %d", i)
		}
		data := uint32(0)
		for j := 0; j < size; j++ {
			data |= uint32(d[i+1+j]) << (8 * j)
		}

		var err error
		switch prefix & itemTagMask {
		case tagReportSize:
			reportSize = int(data)
		case tagReportCnt:
			reportCnt = int(data)
		case tagReportID:
			if data == 0 {
				return nil, fmt.Errorf("report ID 0 at offset %d is reserved", i)
			}
			reportID = int(data)
		case tagInput:
			err = addBits(FieldInput)
		case tagOutput:
			err = addBits(FieldOutput)
		case tagFeature:
			err = addBits(FieldFeature)
		}
		if err != nil {
			return nil, err
		}
		i += 1 + size
	}
	return fields, nil
}

// ReportIDs returns the distinct report IDs among the fields, in order of
// first appearance.
func ReportIDs(fields []ReportField) []byte {
	var ids []byte
	for _, f := range fields {
		seen := false
		for _, id := range ids {
			if id == f.ReportID {
				seen = true
				break
			}
		}
		if !seen {
			ids = append(ids, f.ReportID)
		}
	}
	return ids
}

// FieldBits returns the total bits declared for the given report ID and
// direction, or 0 if the descriptor declares no such field.
func FieldBits(fields []ReportField, reportID byte, kind FieldKind) int {
	for _, f := range fields {
		if f.ReportID == reportID && f.Kind == kind {
			return f.Bits
		}
	}
	return 0
}
