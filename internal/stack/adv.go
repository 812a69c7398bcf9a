package stack

import (
	"errors"
	"fmt"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux/adv"

	"github.com/srg/hogp/internal/gatt"
)

// appearanceField is the Appearance advertising structure (length, AD type
// 0x19, 16-bit value little-endian). adv.Raw appends it framed as-is; the
// builder has no first-class field for appearance.
func appearanceField() []byte {
	return []byte{
		3, 0x19,
		byte(gatt.AppearanceKeyboard & 0xff),
		byte(gatt.AppearanceKeyboard >> 8),
	}
}

// AdvertisingPayload builds the undirected advertising data of the
// peripheral: discoverability flags, the 16-bit HID service UUID, the
// keyboard appearance and the complete local name. When the whole packet
// would not fit the 31-byte advertising PDU the name is shortened on rune
// boundaries; the fixed fields are never sacrificed.
func AdvertisingPayload(name string) ([]byte, error) {
	for {
		pkt, err := adv.NewPacket(
			adv.Flags(adv.FlagGeneralDiscoverable|adv.FlagLEOnly),
			adv.AllUUID(ble.UUID16(gatt.UUIDHIDService)),
			adv.Raw(appearanceField()),
			adv.CompleteName(name),
		)
		if err == nil {
			return pkt.Bytes(), nil
		}
		if !errors.Is(err, adv.ErrNotFit) {
			return nil, fmt.Errorf("building advertising payload: %w", err)
		}

		runes := []rune(name)
		if len(runes) == 0 {
			return nil, fmt.Errorf("building advertising payload: %w", err)
		}
		name = string(runes[:len(runes)-1])
	}
}
