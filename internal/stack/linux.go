package stack

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci/cmd"
	"github.com/sirupsen/logrus"

	"github.com/srg/hogp/internal/gatt"
)

// DeviceFactory creates the underlying go-ble device (overridable in tests).
var DeviceFactory = func() (*linux.Device, error) {
	return linux.NewDevice()
}

// notifyKey identifies one notification session: a central subscribed to one
// characteristic.
type notifyKey struct {
	conn Conn
	attr Attribute
}

// LinuxStack implements Stack on top of go-ble's Linux HCI transport.
//
// Integration contract: go-ble does not surface link-layer events to the
// peripheral role, so connection events are synthesized from the
// notification subscription lifecycle. A central counts as connected from its
// first subscription to any notifiable characteristic until its last
// subscription ends; a central that never subscribes is invisible to the
// connection set. The controller pauses undirected advertising while its
// single peripheral slot is taken and Advertise re-arms it after a drop.
type LinuxStack struct {
	logger *logrus.Logger

	mu          sync.Mutex
	dev         *linux.Device
	svc         *ble.Service
	chars       []*ble.Characteristic // per attribute index; nil for descriptors
	descs       []*ble.Descriptor     // per attribute index; nil for characteristics
	notifiers   map[notifyKey]ble.Notifier
	sessions    map[Conn]int // active notification sessions per central
	handler     func(Event)
	committed   bool // service added to the GATT database
	advertising bool
}

// NewLinuxStack returns an unstarted stack. Call Enable before anything else.
func NewLinuxStack(logger *logrus.Logger) *LinuxStack {
	if logger == nil {
		logger = logrus.New()
	}
	return &LinuxStack{
		logger:    logger,
		notifiers: make(map[notifyKey]ble.Notifier),
		sessions:  make(map[Conn]int),
	}
}

// Enable brings up the HCI device and the GATT server.
func (s *LinuxStack) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev != nil {
		return nil
	}
	dev, err := DeviceFactory()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRadioUnavailable, err)
	}
	s.dev = dev
	s.logger.Info("BLE host stack enabled")
	return nil
}

// SetEventHandler installs the event handler.
func (s *LinuxStack) SetEventHandler(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = fn
}

// RegisterService builds the go-ble service from the definition and returns
// one attribute handle per declaration, in declaration order. The service is
// not committed to the GATT database until the first Advertise, so static
// values seeded via WriteAttribute are in place before any central can
// discover them.
func (s *LinuxStack) RegisterService(def gatt.ServiceDefinition) ([]Attribute, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return nil, ErrRadioUnavailable
	}
	if s.svc != nil {
		return nil, ErrAlreadyRegistered
	}

	svc := ble.NewService(ble.UUID16(def.UUID))
	var handles []Attribute

	for _, decl := range def.Characteristics {
		// Not svc.NewCharacteristic: that helper panics on a duplicate UUID,
		// and the HID layout legitimately repeats 0x2A4D for every Report
		// characteristic. Report Reference descriptors disambiguate them.
		c := &ble.Characteristic{UUID: ble.UUID16(decl.UUID)}
		svc.Characteristics = append(svc.Characteristics, c)
		attr := Attribute(len(handles))
		s.configureCharacteristic(c, decl.Flags, attr)
		handles = append(handles, attr)
		s.chars = append(s.chars, c)
		s.descs = append(s.descs, nil)

		for _, dd := range decl.Descriptors {
			d := c.NewDescriptor(ble.UUID16(dd.UUID))
			handles = append(handles, Attribute(len(handles)))
			s.chars = append(s.chars, nil)
			s.descs = append(s.descs, d)
		}
	}

	s.svc = svc
	s.logger.WithFields(logrus.Fields{
		"service":    fmt.Sprintf("0x%04X", def.UUID),
		"attributes": len(handles),
	}).Info("GATT service registered")
	return handles, nil
}

// configureCharacteristic wires property bits and handlers for one
// characteristic. Caller holds s.mu.
func (s *LinuxStack) configureCharacteristic(c *ble.Characteristic, flags gatt.Flags, attr Attribute) {
	if flags&gatt.FlagRead != 0 {
		c.Property |= ble.CharRead
	}
	if flags&gatt.FlagWrite != 0 {
		c.HandleWrite(ble.WriteHandlerFunc(func(req ble.Request, rsp ble.ResponseWriter) {
			value := make([]byte, len(req.Data()))
			copy(value, req.Data())
			s.emit(Event{
				Type:      EventAttributeWritten,
				Conn:      connOf(req),
				Attribute: attr,
				Value:     value,
			})
		}))
	}
	if flags&gatt.FlagNotify != 0 {
		c.HandleNotify(ble.NotifyHandlerFunc(func(req ble.Request, n ble.Notifier) {
			conn := connOf(req)
			s.addSession(conn, attr, n)
			// HandleNotify runs for the life of the subscription; the
			// context ends on unsubscribe or link loss.
			<-n.Context().Done()
			s.removeSession(conn, attr)
		}))
	}
}

func connOf(req ble.Request) Conn {
	return Conn(req.Conn().RemoteAddr().String())
}

// addSession records a notification session and synthesizes the connect
// event for the central's first session.
func (s *LinuxStack) addSession(conn Conn, attr Attribute, n ble.Notifier) {
	s.mu.Lock()
	s.notifiers[notifyKey{conn, attr}] = n
	s.sessions[conn]++
	first := s.sessions[conn] == 1
	s.mu.Unlock()

	if first {
		s.logger.WithField("central", string(conn)).Info("central connected")
		s.emit(Event{Type: EventConnected, Conn: conn})
	}
}

// removeSession drops a notification session and synthesizes the disconnect
// event when the central's last session ends.
func (s *LinuxStack) removeSession(conn Conn, attr Attribute) {
	s.mu.Lock()
	delete(s.notifiers, notifyKey{conn, attr})
	s.sessions[conn]--
	last := s.sessions[conn] <= 0
	if last {
		delete(s.sessions, conn)
	}
	s.mu.Unlock()

	if last {
		s.logger.WithField("central", string(conn)).Info("central disconnected")
		s.emit(Event{Type: EventDisconnected, Conn: conn})
	}
}

func (s *LinuxStack) emit(ev Event) {
	s.mu.Lock()
	fn := s.handler
	s.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// WriteAttribute seeds a static attribute value. Values are frozen once the
// service has been committed by the first Advertise.
func (s *LinuxStack) WriteAttribute(attr Attribute, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.svc == nil {
		return ErrNotRegistered
	}
	if s.committed {
		return ErrValuesFrozen
	}
	if int(attr) >= len(s.chars) {
		return fmt.Errorf("%w: %d", ErrUnknownAttribute, attr)
	}
	if c := s.chars[attr]; c != nil {
		c.SetValue(value)
	} else {
		s.descs[attr].SetValue(value)
	}
	return nil
}

// Notify pushes a notification to one subscribed central.
func (s *LinuxStack) Notify(conn Conn, attr Attribute, value []byte) error {
	s.mu.Lock()
	n, ok := s.notifiers[notifyKey{conn, attr}]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: central %s has no session on attribute %d", ErrStaleConnection, conn, attr)
	}
	if _, err := n.Write(value); err != nil {
		return fmt.Errorf("%w: %v", ErrStaleConnection, err)
	}
	return nil
}

// Advertise commits the service on first use and (re)starts undirected
// advertising with the given payload and interval.
func (s *LinuxStack) Advertise(interval time.Duration, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return ErrRadioUnavailable
	}
	if s.svc == nil {
		return ErrNotRegistered
	}

	if !s.committed {
		if err := s.dev.AddService(s.svc); err != nil {
			return fmt.Errorf("adding service to GATT database: %w", err)
		}
		s.committed = true
	}

	if s.advertising {
		if err := s.dev.HCI.StopAdvertising(); err != nil {
			s.logger.WithError(err).Debug("stopping advertising before restart")
		}
		s.advertising = false
	}

	// Interval is in 0.625 ms units; parameters can only change while
	// advertising is disabled.
	units := uint16(interval / (625 * time.Microsecond))
	if units == 0 {
		units = 1
	}
	param := cmd.LESetAdvertisingParameters{
		AdvertisingIntervalMin:  units,
		AdvertisingIntervalMax:  units,
		AdvertisingType:         0x00, // ADV_IND, connectable undirected
		OwnAddressType:          0x00,
		AdvertisingChannelMap:   0x07,
		AdvertisingFilterPolicy: 0x00,
	}
	if err := s.dev.HCI.Send(&param, nil); err != nil {
		return fmt.Errorf("setting advertising parameters: %w", err)
	}
	if err := s.dev.HCI.SetAdvertisement(payload, nil); err != nil {
		return fmt.Errorf("setting advertising data: %w", err)
	}
	if err := s.dev.HCI.Advertise(); err != nil {
		return fmt.Errorf("enabling advertising: %w", err)
	}
	s.advertising = true
	s.logger.WithField("interval", interval).Debug("advertising started")
	return nil
}

// StopAdvertising disables undirected advertising.
func (s *LinuxStack) StopAdvertising() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil || !s.advertising {
		return nil
	}
	s.advertising = false
	return s.dev.HCI.StopAdvertising()
}

// Close stops the device and the GATT server.
func (s *LinuxStack) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return nil
	}
	err := s.dev.Stop()
	s.dev = nil
	return err
}

var _ Stack = (*LinuxStack)(nil)
