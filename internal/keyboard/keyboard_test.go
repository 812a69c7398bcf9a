package keyboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/hogp/internal/hid"
	"github.com/srg/hogp/internal/stack"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestKeyboard(t *testing.T) (*Keyboard, *mockStack) {
	t.Helper()
	m := newMockStack()
	k, err := New(m, Options{Logger: quietLogger()})
	require.NoError(t, err)
	return k, m
}

func TestNewSeedsBeforeAdvertising(t *testing.T) {
	_, m := newTestKeyboard(t)

	assert.Equal(t, uint16(0x1812), m.def.UUID)

	// 4 report references + report map + HID information + protocol mode.
	assert.Len(t, m.writes, 7)
	assert.Equal(t, 1, m.advertiseCount())

	sawAdvertise := false
	for _, op := range m.ops {
		switch op {
		case "advertise":
			sawAdvertise = true
		case "write":
			assert.False(t, sawAdvertise, "attribute seeded after advertising started")
		}
	}
	assert.True(t, sawAdvertise)
}

func TestNewEnableFailure(t *testing.T) {
	m := newMockStack()
	m.enableErr = fmt.Errorf("hci: %w", stack.ErrRadioUnavailable)

	_, err := New(m, Options{Logger: quietLogger()})
	require.ErrorIs(t, err, stack.ErrRadioUnavailable)
}

func TestSendTypesDownAndUpPerKey(t *testing.T) {
	k, m := newTestKeyboard(t)
	m.emit(stack.Event{Type: stack.EventConnected, Conn: "central-1"})

	require.NoError(t, k.Send("Hi"))

	got := m.notified()
	require.Len(t, got, 4)
	for _, r := range got {
		assert.Equal(t, k.kbdAttr, r.attr)
		assert.Equal(t, stack.Conn("central-1"), r.conn)
	}
	assert.Equal(t, []byte{0x02, 0, 0x0b, 0, 0, 0, 0, 0}, got[0].value, "shifted H down")
	assert.Equal(t, make([]byte, 8), got[1].value, "release")
	assert.Equal(t, []byte{0, 0, 0x0c, 0, 0, 0, 0, 0}, got[2].value, "i down")
	assert.Equal(t, make([]byte, 8), got[3].value, "release")
}

func TestSendStopsAtUnsupportedChar(t *testing.T) {
	k, m := newTestKeyboard(t)
	m.emit(stack.Event{Type: stack.EventConnected, Conn: "central-1"})

	err := k.Send("a7b")
	var uerr *hid.UnsupportedCharError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, '7', uerr.Char)

	// 'a' was fully typed before the failure, 'b' never was.
	assert.Len(t, m.notified(), 2)
}

func TestSendNoCentralsIsHarmless(t *testing.T) {
	k, m := newTestKeyboard(t)

	require.NoError(t, k.Send("abc"))
	assert.Empty(t, m.notified())
}

func TestSendSkipsStaleConnection(t *testing.T) {
	k, m := newTestKeyboard(t)
	m.emit(stack.Event{Type: stack.EventConnected, Conn: "healthy"})
	m.emit(stack.Event{Type: stack.EventConnected, Conn: "stale"})
	m.notifyErr["stale"] = fmt.Errorf("notify: %w", stack.ErrStaleConnection)

	require.NoError(t, k.Send("a"))

	got := m.notified()
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, stack.Conn("healthy"), r.conn)
	}
}

func TestIsConnectedTracksEvents(t *testing.T) {
	k, m := newTestKeyboard(t)
	assert.False(t, k.IsConnected())

	m.emit(stack.Event{Type: stack.EventConnected, Conn: "a"})
	assert.True(t, k.IsConnected())

	// A repeated connect for the same handle must not double-count.
	m.emit(stack.Event{Type: stack.EventConnected, Conn: "a"})
	m.emit(stack.Event{Type: stack.EventConnected, Conn: "b"})
	assert.True(t, k.IsConnected())

	m.emit(stack.Event{Type: stack.EventDisconnected, Conn: "a"})
	assert.True(t, k.IsConnected())

	m.emit(stack.Event{Type: stack.EventDisconnected, Conn: "b"})
	assert.False(t, k.IsConnected())
}

func TestDisconnectResumesAdvertising(t *testing.T) {
	k, m := newTestKeyboard(t)
	require.Equal(t, 1, m.advertiseCount())

	m.emit(stack.Event{Type: stack.EventConnected, Conn: "a"})
	m.emit(stack.Event{Type: stack.EventDisconnected, Conn: "a"})

	assert.Eventually(t, func() bool {
		return m.advertiseCount() == 2
	}, time.Second, 5*time.Millisecond)
	assert.False(t, k.IsConnected())
}

func TestLEDStateFollowsOutputReport(t *testing.T) {
	k, m := newTestKeyboard(t)
	assert.Zero(t, k.LEDState())

	m.emit(stack.Event{Type: stack.EventAttributeWritten, Attribute: k.ledAttr, Value: []byte{0x05}})
	assert.Equal(t, byte(0x05), k.LEDState())

	// Writes to other attributes and empty writes leave the state alone.
	m.emit(stack.Event{Type: stack.EventAttributeWritten, Attribute: k.kbdAttr, Value: []byte{0xff}})
	m.emit(stack.Event{Type: stack.EventAttributeWritten, Attribute: k.ledAttr, Value: nil})
	assert.Equal(t, byte(0x05), k.LEDState())
}

func TestSendMouse(t *testing.T) {
	k, m := newTestKeyboard(t)
	m.emit(stack.Event{Type: stack.EventConnected, Conn: "central-1"})

	require.NoError(t, k.SendMouse(hid.MouseReport{Buttons: 0x01, DX: 10, DY: -3, Wheel: 1}))

	got := m.notified()
	require.Len(t, got, 1)
	assert.Equal(t, k.mouseAttr, got[0].attr)
	assert.Equal(t, []byte{0x01, 10, 0xfd, 1}, got[0].value)
}

func TestSendConsumerTapsAndReleases(t *testing.T) {
	k, m := newTestKeyboard(t)
	m.emit(stack.Event{Type: stack.EventConnected, Conn: "central-1"})

	require.NoError(t, k.SendConsumer(0x00e9)) // volume up

	got := m.notified()
	require.Len(t, got, 2)
	assert.Equal(t, k.consumerAttr, got[0].attr)
	assert.Equal(t, []byte{0xe9, 0x00}, got[0].value)
	assert.Equal(t, []byte{0x00, 0x00}, got[1].value)
}

func TestCloseStopsAdvertisingAndStack(t *testing.T) {
	k, m := newTestKeyboard(t)

	require.NoError(t, k.Close())
	assert.Equal(t, 1, m.stops)
	assert.True(t, m.closed)
}
