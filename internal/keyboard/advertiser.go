package keyboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/srg/hogp/internal/groutine"
	"github.com/srg/hogp/internal/stack"
)

// advertiser owns the advertising payload and interval. The payload is
// built once from the device name and never mutated afterwards; restarting
// always re-announces the same identity.
type advertiser struct {
	stack    stack.Stack
	payload  []byte
	interval time.Duration
	logger   *logrus.Logger

	mu sync.Mutex
}

func newAdvertiser(st stack.Stack, name string, interval time.Duration, logger *logrus.Logger) (*advertiser, error) {
	payload, err := stack.AdvertisingPayload(name)
	if err != nil {
		return nil, err
	}
	return &advertiser{
		stack:    st,
		payload:  payload,
		interval: interval,
		logger:   logger,
	}, nil
}

// Start begins (or resumes) advertising.
func (a *advertiser) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.stack.Advertise(a.interval, a.payload); err != nil {
		return fmt.Errorf("starting advertising: %w", err)
	}
	a.logger.WithField("interval", a.interval).Debug("advertising")
	return nil
}

// RestartAsync resumes advertising from a new goroutine. Disconnect events
// are delivered on the stack's event goroutine and restarting there would
// stall event dispatch behind HCI commands.
func (a *advertiser) RestartAsync() {
	groutine.Go(nil, "adv-restart", func(context.Context) {
		if err := a.Start(); err != nil {
			a.logger.WithError(err).Error("failed to resume advertising")
		}
	})
}

// Stop halts advertising.
func (a *advertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stack.StopAdvertising()
}
