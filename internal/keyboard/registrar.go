package keyboard

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/srg/hogp/internal/gatt"
	"github.com/srg/hogp/internal/hid"
	"github.com/srg/hogp/internal/stack"
)

// registrar installs the HID service definition into a stack and seeds the
// attribute values a host reads during service discovery. Seeding happens
// before advertising starts so a fast central never observes an empty
// report map or a missing report reference.
type registrar struct {
	stack    stack.Stack
	def      gatt.ServiceDefinition
	bindings map[gatt.Role]gatt.ReportReference
	logger   *logrus.Logger
}

func newRegistrar(st stack.Stack, logger *logrus.Logger) *registrar {
	return &registrar{
		stack:    st,
		def:      gatt.HIDKeyboardDefinition(),
		bindings: gatt.HIDReportBindings(),
		logger:   logger,
	}
}

// Register validates the definition, cross-checks the report bindings
// against the report map, and registers the service with the stack.
func (r *registrar) Register() (*HandleTable, error) {
	if err := r.def.Validate(); err != nil {
		return nil, err
	}
	if err := gatt.ValidateReportBindings(hid.ReportMap, r.bindings); err != nil {
		return nil, err
	}

	handles, err := r.stack.RegisterService(r.def)
	if err != nil {
		return nil, fmt.Errorf("registering HID service: %w", err)
	}

	table, err := newHandleTable(r.def, handles)
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"service":    fmt.Sprintf("0x%04X", r.def.UUID),
		"attributes": table.Len(),
	}).Debug("HID service registered")
	return table, nil
}

// SeedStaticValues writes the constant attribute values: one report
// reference descriptor per report characteristic, the report map, the HID
// information block, and the initial protocol mode (report protocol).
func (r *registrar) SeedStaticValues(table *HandleTable) error {
	for _, refRole := range []gatt.Role{
		gatt.RoleReportRefKeyboard,
		gatt.RoleReportRefMouse,
		gatt.RoleReportRefConsumer,
		gatt.RoleReportRefLED,
	} {
		ref, ok := r.bindings[refRole]
		if !ok {
			return &gatt.ConfigurationError{Reason: fmt.Sprintf("descriptor role %q has no report binding", refRole)}
		}
		if err := r.seed(table, refRole, ref.Bytes()); err != nil {
			return err
		}
	}

	static := []struct {
		role  gatt.Role
		value []byte
	}{
		{gatt.RoleReportMap, hid.ReportMap},
		{gatt.RoleHIDInformation, hid.HIDInformation},
		{gatt.RoleProtocolMode, hid.ProtocolModeReport},
	}
	for _, s := range static {
		if err := r.seed(table, s.role, s.value); err != nil {
			return err
		}
	}
	return nil
}

func (r *registrar) seed(table *HandleTable, role gatt.Role, value []byte) error {
	attr, err := table.Lookup(role)
	if err != nil {
		return err
	}
	if err := r.stack.WriteAttribute(attr, value); err != nil {
		return fmt.Errorf("seeding %s: %w", role, err)
	}
	return nil
}
