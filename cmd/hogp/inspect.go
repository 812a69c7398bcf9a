package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/srg/hogp/internal/gatt"
	"github.com/srg/hogp/internal/hid"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the exposed GATT attribute layout and report map",
	Long: `Prints the HID service layout the peripheral registers - every
characteristic and descriptor with its UUID, properties, and report
binding - plus the decoded report map. No Bluetooth adapter is needed.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

var inspectHex bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectHex, "hex", false, "Also dump the raw report map bytes")
}

func runInspect(cmd *cobra.Command, args []string) error {
	def := gatt.HIDKeyboardDefinition()
	if err := def.Validate(); err != nil {
		return err
	}
	bindings := gatt.HIDReportBindings()

	heading := color.New(color.FgCyan, color.Bold)
	uuidCol := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	heading.Printf("Service 0x%04X (%s)\n", def.UUID, gatt.UUIDName(def.UUID))
	for _, ch := range def.Characteristics {
		fmt.Printf("  %s 0x%04X  %-24s %-22s %s\n",
			uuidCol.Sprint("char"), ch.UUID, gatt.UUIDName(ch.UUID), ch.Role, ch.Flags)
		for _, d := range ch.Descriptors {
			fmt.Printf("    %s 0x%04X  %-22s %-22s %s",
				uuidCol.Sprint("desc"), d.UUID, gatt.UUIDName(d.UUID), d.Role, d.Flags)
			if ref, ok := bindings[d.Role]; ok {
				dim.Printf("  [report %d, %s]", ref.ID, reportTypeName(ref.Type))
			}
			fmt.Println()
		}
	}

	fields, err := hid.ParseReportMap(hid.ReportMap)
	if err != nil {
		return fmt.Errorf("decoding report map: %w", err)
	}

	fmt.Println()
	heading.Printf("Report map (%d bytes)\n", len(hid.ReportMap))
	for _, id := range hid.ReportIDs(fields) {
		for _, f := range fields {
			if f.ReportID != id {
				continue
			}
			fmt.Printf("  report %d  %-7s %3d bits (%d bytes)\n",
				f.ReportID, f.Kind, f.Bits, (f.Bits+7)/8)
		}
	}

	if inspectHex {
		fmt.Println()
		dumpHex(os.Stdout, hid.ReportMap)
	}
	return nil
}

func reportTypeName(t byte) string {
	switch t {
	case hid.ReportTypeInput:
		return "input"
	case hid.ReportTypeOutput:
		return "output"
	case hid.ReportTypeFeature:
		return "feature"
	default:
		return fmt.Sprintf("type 0x%02x", t)
	}
}

func dumpHex(w *os.File, data []byte) {
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(w, "  %04x:", i)
		for _, b := range data[i:end] {
			fmt.Fprintf(w, " %02x", b)
		}
		fmt.Fprintln(w)
	}
}
