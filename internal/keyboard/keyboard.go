package keyboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"

	"github.com/srg/hogp/internal/gatt"
	"github.com/srg/hogp/internal/hid"
	"github.com/srg/hogp/internal/stack"
)

// Options configure a Keyboard.
type Options struct {
	// Name is the complete local name carried in the advertising payload.
	Name string `default:"hogp-kbd"`

	// AdvertiseInterval is the advertising interval used whenever the
	// peripheral is accepting connections.
	AdvertiseInterval time.Duration `default:"500ms"`

	// Logger receives structured progress and error logs. Nil means a
	// default logger.
	Logger *logrus.Logger
}

func (o *Options) applyDefaults() {
	defaults.SetDefaults(o)
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
}

// Keyboard is a composite HID-over-GATT peripheral exposing keyboard,
// mouse, and consumer-control reports. Construction brings the radio up,
// registers the HID service, seeds every static attribute value, arms the
// event handler, and starts advertising; a returned Keyboard is live.
type Keyboard struct {
	stack  stack.Stack
	logger *logrus.Logger

	handles *HandleTable
	conns   *connectionManager
	adv     *advertiser

	kbdAttr      stack.Attribute
	mouseAttr    stack.Attribute
	consumerAttr stack.Attribute
	ledAttr      stack.Attribute

	mu  sync.Mutex
	led byte
}

// New builds and starts a Keyboard on the given stack.
func New(st stack.Stack, opts Options) (*Keyboard, error) {
	opts.applyDefaults()
	logger := opts.Logger

	if err := st.Enable(); err != nil {
		return nil, fmt.Errorf("enabling stack: %w", err)
	}

	reg := newRegistrar(st, logger)
	table, err := reg.Register()
	if err != nil {
		return nil, err
	}

	k := &Keyboard{
		stack:   st,
		logger:  logger,
		handles: table,
	}
	for _, b := range []struct {
		role gatt.Role
		attr *stack.Attribute
	}{
		{gatt.RoleReportKeyboard, &k.kbdAttr},
		{gatt.RoleReportMouse, &k.mouseAttr},
		{gatt.RoleReportConsumer, &k.consumerAttr},
		{gatt.RoleReportLED, &k.ledAttr},
	} {
		if *b.attr, err = table.Lookup(b.role); err != nil {
			return nil, err
		}
	}

	if err := reg.SeedStaticValues(table); err != nil {
		return nil, err
	}

	k.adv, err = newAdvertiser(st, opts.Name, opts.AdvertiseInterval, logger)
	if err != nil {
		return nil, err
	}
	k.conns = newConnectionManager(logger, k.adv.RestartAsync)

	// The handler is armed before advertising so the very first central
	// cannot connect into a window with no listener.
	st.SetEventHandler(k.handleEvent)

	if err := k.adv.Start(); err != nil {
		return nil, err
	}

	logger.WithField("name", opts.Name).Info("HID peripheral up")
	return k, nil
}

func (k *Keyboard) handleEvent(ev stack.Event) {
	switch ev.Type {
	case stack.EventConnected:
		k.conns.OnConnect(ev.Conn)
	case stack.EventDisconnected:
		k.conns.OnDisconnect(ev.Conn)
	case stack.EventAttributeWritten:
		k.onWrite(ev)
	}
}

func (k *Keyboard) onWrite(ev stack.Event) {
	if ev.Attribute != k.ledAttr || len(ev.Value) == 0 {
		return
	}
	k.mu.Lock()
	k.led = ev.Value[0]
	k.mu.Unlock()
	k.logger.WithField("leds", fmt.Sprintf("0x%02x", ev.Value[0])).Debug("LED output report")
}

// IsConnected reports whether at least one central is connected.
func (k *Keyboard) IsConnected() bool {
	return k.conns.Any()
}

// LEDState returns the last LED output report written by any host: bit 0
// is Num Lock, bit 1 Caps Lock, bit 2 Scroll Lock.
func (k *Keyboard) LEDState() byte {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.led
}

// Send types text on every connected central. Each character becomes a
// key-down report followed by a key-up report, delivered in order. The
// first unsupported character aborts the send with an
// *hid.UnsupportedCharError; characters before it have already been typed.
func (k *Keyboard) Send(text string) error {
	for _, c := range text {
		down, up, err := hid.EncodeKey(c)
		if err != nil {
			return err
		}
		if err := k.broadcast(k.kbdAttr, down.Bytes()); err != nil {
			return err
		}
		if err := k.broadcast(k.kbdAttr, up.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// SendMouse delivers a single mouse report: a button state plus relative
// motion and wheel deltas.
func (k *Keyboard) SendMouse(r hid.MouseReport) error {
	return k.broadcast(k.mouseAttr, r.Bytes())
}

// SendConsumer taps a consumer-control usage: the usage report followed by
// a zero release so the control does not stick down.
func (k *Keyboard) SendConsumer(usage uint16) error {
	if err := k.broadcast(k.consumerAttr, hid.ConsumerReport{Usage: usage}.Bytes()); err != nil {
		return err
	}
	return k.broadcast(k.consumerAttr, hid.ConsumerReport{}.Bytes())
}

// broadcast notifies one report value to every connected central. A
// central whose subscription has gone stale is skipped; the report still
// reaches the rest.
func (k *Keyboard) broadcast(attr stack.Attribute, value []byte) error {
	for _, conn := range k.conns.Current() {
		err := k.stack.Notify(conn, attr, value)
		if err == nil {
			continue
		}
		if errors.Is(err, stack.ErrStaleConnection) {
			k.logger.WithField("conn", string(conn)).Debug("skipping stale connection")
			continue
		}
		return fmt.Errorf("notifying %s: %w", conn, err)
	}
	return nil
}

// Close stops advertising and shuts the stack down.
func (k *Keyboard) Close() error {
	if err := k.adv.Stop(); err != nil {
		k.logger.WithError(err).Warn("stopping advertising")
	}
	return k.stack.Close()
}
