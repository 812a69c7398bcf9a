package keyboard

import (
	"github.com/cornelk/hashmap"
	"github.com/sirupsen/logrus"

	"github.com/srg/hogp/internal/stack"
)

// connectionManager tracks the set of connected centrals. Stack events
// arrive on the stack's delivery goroutine while Send iterates the set from
// the caller's goroutine, so the set is a lock-free concurrent map.
//
// onVacated fires after every disconnect that actually removed a handle; it
// is how the peripheral resumes advertising so the freed slot can be
// reclaimed by another central.
type connectionManager struct {
	conns     *hashmap.Map[stack.Conn, struct{}]
	onVacated func()
	logger    *logrus.Logger
}

func newConnectionManager(logger *logrus.Logger, onVacated func()) *connectionManager {
	return &connectionManager{
		conns:     hashmap.New[stack.Conn, struct{}](),
		onVacated: onVacated,
		logger:    logger,
	}
}

// OnConnect records a central. Repeated connect events for the same handle
// collapse into a single membership.
func (cm *connectionManager) OnConnect(conn stack.Conn) {
	cm.conns.Set(conn, struct{}{})
	cm.logger.WithFields(logrus.Fields{
		"conn":  string(conn),
		"total": cm.conns.Len(),
	}).Info("central connected")
}

// OnDisconnect removes a central and triggers the vacated hook. A handle
// that was never tracked is ignored: centrals that connect and drop before
// subscribing produce disconnect events with no matching connect. The
// atomic delete also guarantees one hook invocation per removal when
// duplicate disconnect events race on the delivery goroutines.
func (cm *connectionManager) OnDisconnect(conn stack.Conn) {
	if !cm.conns.Del(conn) {
		cm.logger.WithField("conn", string(conn)).Debug("disconnect for untracked central ignored")
		return
	}
	cm.logger.WithFields(logrus.Fields{
		"conn":  string(conn),
		"total": cm.conns.Len(),
	}).Info("central disconnected")

	if cm.onVacated != nil {
		cm.onVacated()
	}
}

// Current returns a snapshot of the connected handles. Report injection
// iterates the snapshot so a central dropping mid-send does not disturb the
// iteration.
func (cm *connectionManager) Current() []stack.Conn {
	out := make([]stack.Conn, 0, cm.conns.Len())
	cm.conns.Range(func(conn stack.Conn, _ struct{}) bool {
		out = append(out, conn)
		return true
	})
	return out
}

// Any reports whether at least one central is connected.
func (cm *connectionManager) Any() bool {
	return cm.conns.Len() > 0
}
