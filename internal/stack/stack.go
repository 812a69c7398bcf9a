// Package stack defines the contract between the peripheral core and the
// host BLE stack: service registration, attribute writes, per-connection
// notifications, advertising, and the asynchronous connection events. The
// core is written against the Stack interface; LinuxStack binds it to go-ble,
// and tests substitute a mock.
package stack

import (
	"errors"
	"time"

	"github.com/srg/hogp/internal/gatt"
)

// Attribute is an opaque handle to one registered attribute (characteristic
// or descriptor). Handles are assigned by RegisterService in declaration
// order and stay valid for the life of the process.
type Attribute uint16

// Conn is an opaque handle identifying one connected central.
type Conn string

// EventType discriminates stack events.
type EventType int

const (
	// EventConnected reports a central that can now receive notifications.
	EventConnected EventType = iota
	// EventDisconnected reports a central that dropped its link.
	EventDisconnected
	// EventAttributeWritten reports a central writing a characteristic value
	// (LED output report, protocol mode, control point).
	EventAttributeWritten
)

func (t EventType) String() string {
	switch t {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventAttributeWritten:
		return "attribute_written"
	default:
		return "unknown"
	}
}

// Event is a connect/disconnect/write notification from the host stack.
// Attribute and Value are only meaningful for EventAttributeWritten.
//
// Events are delivered on stack-owned goroutines, concurrently with
// application calls into the Stack; handlers must not block for long.
type Event struct {
	Type      EventType
	Conn      Conn
	Attribute Attribute
	Value     []byte
}

var (
	// ErrRadioUnavailable means the host stack or HCI device could not be
	// brought up. Fatal to startup.
	ErrRadioUnavailable = errors.New("radio unavailable")

	// ErrStaleConnection means a notification targeted a central that is no
	// longer connected. Recoverable; callers skip the handle.
	ErrStaleConnection = errors.New("stale connection")

	// ErrAlreadyRegistered means RegisterService was called twice. The
	// attribute table is built once per process.
	ErrAlreadyRegistered = errors.New("service already registered")

	// ErrNotRegistered means an operation needs the attribute table before
	// RegisterService has built it.
	ErrNotRegistered = errors.New("service not registered")

	// ErrUnknownAttribute means an attribute handle outside the registered
	// table was used.
	ErrUnknownAttribute = errors.New("unknown attribute handle")

	// ErrValuesFrozen means WriteAttribute was called after advertising
	// began; static values must be seeded before the service is visible.
	ErrValuesFrozen = errors.New("attribute values are frozen once advertising has started")
)

// Stack is the host-stack surface the peripheral consumes.
type Stack interface {
	// Enable powers up the radio and the host stack. Must be called first;
	// returns ErrRadioUnavailable (wrapped) on failure.
	Enable() error

	// SetEventHandler installs the handler for connection and write events.
	// Must be installed before Advertise so no event is lost.
	SetEventHandler(fn func(Event))

	// RegisterService submits the definition and returns one handle per
	// declared attribute, in declaration order. A second call returns
	// ErrAlreadyRegistered.
	RegisterService(def gatt.ServiceDefinition) ([]Attribute, error)

	// WriteAttribute sets the static value of an attribute. Only valid
	// between RegisterService and the first Advertise.
	WriteAttribute(attr Attribute, value []byte) error

	// Notify pushes value to one central as a notification on the given
	// characteristic. Returns ErrStaleConnection (wrapped) if the central is
	// gone. Notifications submitted in sequence for the same conn and
	// attribute are delivered in submission order; no ordering holds across
	// connections.
	Notify(conn Conn, attr Attribute, value []byte) error

	// Advertise starts (or restarts) undirected advertising with the given
	// payload and interval. The first call commits the registered service.
	Advertise(interval time.Duration, payload []byte) error

	// StopAdvertising stops undirected advertising. No-op when idle.
	StopAdvertising() error

	// Close tears the stack down.
	Close() error
}
