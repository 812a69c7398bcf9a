// Package gatt models the declarative side of the peripheral's GATT surface:
// the service definition submitted to the host stack, the report-reference
// bindings written into its descriptors, and the advertising payload. The
// package knows nothing about any concrete BLE stack; internal/stack turns
// these declarations into real attributes.
package gatt

import (
	"fmt"
	"strings"
)

// Flags is the access mode bitmask of a characteristic or descriptor
// declaration.
type Flags uint8

const (
	FlagRead Flags = 1 << iota
	FlagWrite
	FlagNotify
)

func (f Flags) String() string {
	var parts []string
	if f&FlagRead != 0 {
		parts = append(parts, "read")
	}
	if f&FlagWrite != 0 {
		parts = append(parts, "write")
	}
	if f&FlagNotify != 0 {
		parts = append(parts, "notify")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Role names an attribute by its function in the service so registration
// results can be bound by meaning rather than by tuple position.
type Role string

// DescriptorDecl declares a descriptor owned by a characteristic.
type DescriptorDecl struct {
	Role  Role
	UUID  uint16
	Flags Flags
}

// CharacteristicDecl declares one characteristic and its descriptors.
type CharacteristicDecl struct {
	Role        Role
	UUID        uint16
	Flags       Flags
	Descriptors []DescriptorDecl
}

// ServiceDefinition is the ordered list of characteristic declarations
// composing one GATT service. Declaration order is stable and determines the
// order of the attribute handles the host stack returns: each characteristic
// is followed immediately by its descriptors.
type ServiceDefinition struct {
	UUID            uint16
	Characteristics []CharacteristicDecl
}

// AttributeCount returns the number of handles registration yields: one per
// characteristic plus one per descriptor.
func (d ServiceDefinition) AttributeCount() int {
	n := 0
	for _, c := range d.Characteristics {
		n += 1 + len(c.Descriptors)
	}
	return n
}

// Roles returns the role of every declared attribute in declaration order,
// parallel to the handle slice registration returns.
func (d ServiceDefinition) Roles() []Role {
	roles := make([]Role, 0, d.AttributeCount())
	for _, c := range d.Characteristics {
		roles = append(roles, c.Role)
		for _, desc := range c.Descriptors {
			roles = append(roles, desc.Role)
		}
	}
	return roles
}

// Validate checks the definition for structural defects before it is handed
// to the host stack. It returns *ConfigurationError describing the first
// problem found.
func (d ServiceDefinition) Validate() error {
	if d.UUID == 0 {
		return &ConfigurationError{Reason: "service UUID must not be zero"}
	}
	if len(d.Characteristics) == 0 {
		return &ConfigurationError{Reason: "service declares no characteristics"}
	}

	seen := make(map[Role]bool, d.AttributeCount())
	for i, c := range d.Characteristics {
		if c.UUID == 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("characteristic %d has a zero UUID", i)}
		}
		if c.Role == "" {
			return &ConfigurationError{Reason: fmt.Sprintf("characteristic %d (uuid 0x%04X) has no role", i, c.UUID)}
		}
		if c.Flags == 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("characteristic %q declares no access flags", c.Role)}
		}
		if seen[c.Role] {
			return &ConfigurationError{Reason: fmt.Sprintf("duplicate role %q", c.Role)}
		}
		seen[c.Role] = true

		for j, desc := range c.Descriptors {
			if desc.UUID == 0 {
				return &ConfigurationError{Reason: fmt.Sprintf("descriptor %d of characteristic %q has a zero UUID", j, c.Role)}
			}
			if desc.Role == "" {
				return &ConfigurationError{Reason: fmt.Sprintf("descriptor %d of characteristic %q has no role", j, c.Role)}
			}
			if seen[desc.Role] {
				return &ConfigurationError{Reason: fmt.Sprintf("duplicate role %q", desc.Role)}
			}
			seen[desc.Role] = true
		}
	}
	return nil
}
