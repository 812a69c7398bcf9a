package main

import (
	"errors"

	"github.com/srg/hogp/internal/gatt"
	"github.com/srg/hogp/internal/hid"
	"github.com/srg/hogp/internal/stack"
)

// FormatUserError turns internal errors into messages a user can act on.
// Anything unrecognized passes through unchanged.
func FormatUserError(err error) string {
	if errors.Is(err, stack.ErrRadioUnavailable) {
		return "Bluetooth adapter unavailable - check that the adapter is present and not claimed by another process (e.g. bluetoothd)"
	}

	var cerr *gatt.ConfigurationError
	if errors.As(err, &cerr) {
		return "internal service configuration defect: " + cerr.Reason
	}

	var uerr *hid.UnsupportedCharError
	if errors.As(err, &uerr) {
		return uerr.Error() + " - only letters and spaces can be typed"
	}

	return err.Error()
}
