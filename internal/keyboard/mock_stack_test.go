package keyboard

import (
	"sync"
	"time"

	"github.com/srg/hogp/internal/gatt"
	"github.com/srg/hogp/internal/stack"
)

type record struct {
	conn  stack.Conn
	attr  stack.Attribute
	value []byte
}

// mockStack records every stack interaction and lets tests inject events
// as if the radio had delivered them.
type mockStack struct {
	mu sync.Mutex

	enableErr   error
	notifyErr   map[stack.Conn]error
	registerErr error

	def        gatt.ServiceDefinition
	registered bool
	handler    func(stack.Event)

	writes   []record
	notifies []record
	// ops is a coarse journal of mutating calls, used to assert ordering
	// such as "every seed write happens before the first advertise".
	ops []string

	advertises int
	stops      int
	closed     bool
}

func newMockStack() *mockStack {
	return &mockStack{notifyErr: make(map[stack.Conn]error)}
}

func (m *mockStack) Enable() error {
	return m.enableErr
}

func (m *mockStack) SetEventHandler(h func(stack.Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = h
}

func (m *mockStack) RegisterService(def gatt.ServiceDefinition) ([]stack.Attribute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	if m.registered {
		return nil, stack.ErrAlreadyRegistered
	}
	m.registered = true
	m.def = def
	handles := make([]stack.Attribute, def.AttributeCount())
	for i := range handles {
		handles[i] = stack.Attribute(i)
	}
	return handles, nil
}

func (m *mockStack) WriteAttribute(attr stack.Attribute, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, record{attr: attr, value: append([]byte(nil), value...)})
	m.ops = append(m.ops, "write")
	return nil
}

func (m *mockStack) Notify(conn stack.Conn, attr stack.Attribute, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.notifyErr[conn]; err != nil {
		return err
	}
	m.notifies = append(m.notifies, record{conn: conn, attr: attr, value: append([]byte(nil), value...)})
	return nil
}

func (m *mockStack) Advertise(interval time.Duration, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advertises++
	m.ops = append(m.ops, "advertise")
	return nil
}

func (m *mockStack) StopAdvertising() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return nil
}

func (m *mockStack) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// emit delivers an event through the armed handler, the way the stack's
// event goroutine would.
func (m *mockStack) emit(ev stack.Event) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

func (m *mockStack) notified() []record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]record(nil), m.notifies...)
}

func (m *mockStack) advertiseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advertises
}

var _ stack.Stack = (*mockStack)(nil)
