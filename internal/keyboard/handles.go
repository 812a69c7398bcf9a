// Package keyboard implements the HID-over-GATT peripheral core: service
// registration with static value seeding, the connection set fed by stack
// events, the advertising lifecycle, and the Keyboard facade that injects
// reports to connected centrals.
package keyboard

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/hogp/internal/gatt"
	"github.com/srg/hogp/internal/stack"
)

// HandleTable maps attribute roles to the opaque handles registration
// returned, preserving declaration order. Binding by role instead of tuple
// position keeps a definition change from silently shifting every handle
// after it.
type HandleTable struct {
	m *orderedmap.OrderedMap[gatt.Role, stack.Attribute]
}

// newHandleTable zips the definition's declared roles with the handle slice
// the stack returned. A length mismatch means the stack and the definition
// disagree about the attribute count, which is a configuration defect.
func newHandleTable(def gatt.ServiceDefinition, handles []stack.Attribute) (*HandleTable, error) {
	roles := def.Roles()
	if len(roles) != len(handles) {
		return nil, &gatt.ConfigurationError{Reason: fmt.Sprintf(
			"registration returned %d handles for %d declared attributes", len(handles), len(roles))}
	}

	m := orderedmap.New[gatt.Role, stack.Attribute]()
	for i, role := range roles {
		m.Set(role, handles[i])
	}
	return &HandleTable{m: m}, nil
}

// Lookup returns the handle bound to a role.
func (t *HandleTable) Lookup(role gatt.Role) (stack.Attribute, error) {
	attr, ok := t.m.Get(role)
	if !ok {
		return 0, &gatt.ConfigurationError{Reason: fmt.Sprintf("no attribute with role %q", role)}
	}
	return attr, nil
}

// Each visits every (role, handle) pair in declaration order.
func (t *HandleTable) Each(fn func(role gatt.Role, attr stack.Attribute)) {
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Len returns the number of registered attributes.
func (t *HandleTable) Len() int {
	return t.m.Len()
}
