// Package connection implements the Connection Manager (spec.md §4.6): per-
// fixture connect retry with back-off, a semaphore bounding concurrent
// connect/write operations across all fixtures, and idempotent disconnect.
// Only this package creates or clears a fixture.Descriptor's session.
package connection

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/neewerctl/neewerctl/pkg/fixture"
	"github.com/neewerctl/neewerctl/pkg/model"
	"github.com/neewerctl/neewerctl/pkg/protocol"
	"github.com/neewerctl/neewerctl/pkg/transport"
	"github.com/neewerctl/neewerctl/pkg/util"
)

// Manager owns the fan-out semaphore and connect-retry policy shared by
// every fixture.
type Manager struct {
	dialer         transport.Dialer
	sem            chan struct{}
	connectRetries int
}

// NewManager builds a Manager. parallel bounds concurrent connect/write
// operations across all fixtures; connectRetries bounds per-fixture connect
// attempts.
func NewManager(dialer transport.Dialer, parallel, connectRetries int) *Manager {
	if parallel < 1 {
		parallel = 1
	}
	if connectRetries < 1 {
		connectRetries = 1
	}
	return &Manager{
		dialer:         dialer,
		sem:            make(chan struct{}, parallel),
		connectRetries: connectRetries,
	}
}

// Acquire blocks until a fan-out slot is free or ctx is done. Callers
// (including the Delivery Engine, for write operations) must pair every
// Acquire with a Release.
func (m *Manager) Acquire(ctx context.Context) error {
	select {
	case m.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a fan-out slot acquired with Acquire.
func (m *Manager) Release() { <-m.sem }

// Connect ensures d has a live session, acquiring a fan-out slot for the
// duration of the attempt sequence. A fixture that is already connected is a
// no-op success.
func (m *Manager) Connect(ctx context.Context, d *fixture.Descriptor) error {
	if d.HasSession() {
		return nil
	}

	if err := m.Acquire(ctx); err != nil {
		return err
	}
	defer m.Release()

	var lastErr error
	for attempt := 1; attempt <= m.connectRetries; attempt++ {
		conn, err := m.dialer.Dial(ctx, d.Address)
		switch {
		case err == nil && conn.Connected():
			m.onConnected(d, conn)
			return nil
		case err == nil:
			conn.Close()
			lastErr = errors.New("transport dialed but reports not connected")
		default:
			lastErr = err
		}

		util.WithFixture(d.Address).WithField("attempt", attempt).Warnf("connect failed: %v", lastErr)

		if attempt == m.connectRetries {
			break
		}
		if err := sleepOrDone(ctx, connectBackoff(attempt)); err != nil {
			return err
		}
	}

	return util.NewTransportError(d.Address, "connect", lastErr)
}

func (m *Manager) onConnected(d *fixture.Descriptor, conn transport.Conn) {
	d.SetSession(&Session{conn: conn})
	if d.Dialect == model.Infinity && d.HWMac == "" {
		if _, err := protocol.SplitMAC(d.Address); err == nil {
			d.HWMac = d.Address
		}
	}
	util.WithFixture(d.Address).Info("connected")
}

// Disconnect releases d's session. Idempotent and never returns an error to
// the caller; any teardown failure is logged, matching spec.md §4.6's
// "disconnect is idempotent and never raises."
func (m *Manager) Disconnect(d *fixture.Descriptor) {
	if err := d.ClearSession(); err != nil {
		util.WithFixture(d.Address).Warnf("disconnect: %v", err)
	}
}

// DisconnectAll tears down every fixture's session concurrently, matching
// the teacher's shell exit path (one device there; N fixtures here) and
// spec.md §4.9's "on exit, all sessions are drained concurrently."
func (m *Manager) DisconnectAll(fixtures []*fixture.Descriptor) {
	var wg sync.WaitGroup
	for _, d := range fixtures {
		wg.Add(1)
		go func(d *fixture.Descriptor) {
			defer wg.Done()
			m.Disconnect(d)
		}(d)
	}
	wg.Wait()
}

// connectBackoff implements min(0.2*attempt, 1.0) seconds.
func connectBackoff(attempt int) time.Duration {
	seconds := 0.2 * float64(attempt)
	if seconds > 1.0 {
		seconds = 1.0
	}
	return time.Duration(seconds * float64(time.Second))
}

func sleepOrDone(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
