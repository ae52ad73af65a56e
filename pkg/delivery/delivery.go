// Package delivery implements the Adaptive Delivery Engine (spec.md §4.7):
// a multi-pass connect-then-write loop over a set of fixtures that retries
// only recoverable failures and never lets one fixture's trouble abort the
// batch.
package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/neewerctl/neewerctl/pkg/connection"
	"github.com/neewerctl/neewerctl/pkg/fixture"
	"github.com/neewerctl/neewerctl/pkg/protocol"
	"github.com/neewerctl/neewerctl/pkg/transport"
	"github.com/neewerctl/neewerctl/pkg/util"
)

// Engine runs delivery passes against a Connection Manager.
type Engine struct {
	conn             *connection.Manager
	passes           int
	writeRetries     int
	settleDelay      time.Duration
	powerRequiresAck bool
}

// NewEngine builds an Engine. passes bounds the number of connect-then-write
// rounds; writeRetries bounds per-frame write attempts; settleDelay is the
// floor for the inter-frame gap within one fixture's Delivery Plan.
func NewEngine(conn *connection.Manager, passes, writeRetries int, settleDelay time.Duration, powerRequiresAck bool) *Engine {
	if passes < 1 {
		passes = 1
	}
	if writeRetries < 1 {
		writeRetries = 1
	}
	return &Engine{
		conn:             conn,
		passes:           passes,
		writeRetries:     writeRetries,
		settleDelay:      settleDelay,
		powerRequiresAck: powerRequiresAck,
	}
}

// Deliver runs defaultCmd (or, per address, its override) against every
// fixture, retrying recoverable failures across up to Engine.passes rounds.
// It returns a per-address error string map; an empty map means every
// fixture succeeded.
func (e *Engine) Deliver(
	ctx context.Context,
	fixtures []*fixture.Descriptor,
	defaultCmd protocol.BaseCommand,
	overrides map[string]protocol.BaseCommand,
) map[string]string {
	pending := make(map[string]*fixture.Descriptor, len(fixtures))
	for _, f := range fixtures {
		pending[f.Address] = f
	}

	errs := make(map[string]string)

	for pass := 0; pass < e.passes && len(pending) > 0; pass++ {
		next := make(map[string]*fixture.Descriptor)

		for addr, f := range pending {
			if ctx.Err() != nil {
				errs[addr] = ctx.Err().Error()
				next[addr] = f
				continue
			}

			if err := e.conn.Connect(ctx, f); err != nil {
				errs[addr] = err.Error()
				next[addr] = f
				continue
			}

			cmd := defaultCmd
			if override, ok := overrides[addr]; ok {
				cmd = override
			}

			if err := e.deliverOne(ctx, f, cmd); err != nil {
				errs[addr] = err.Error()
				if !isUnrecoverable(err) {
					next[addr] = f
				}
				continue
			}
			delete(errs, addr)
		}

		pending = next
	}

	return errs
}

func (e *Engine) deliverOne(ctx context.Context, f *fixture.Descriptor, cmd protocol.BaseCommand) error {
	target := protocol.Target{
		Address:               f.Address,
		Dialect:               f.Dialect,
		CCTOnly:               f.CCTOnly,
		HWMac:                 f.HWMac,
		SupportsExtendedScene: f.SupportsExtendedScene,
		CCTMinKelvin:          f.CCTMinKelvin,
		CCTMaxKelvin:          f.CCTMaxKelvin,
	}

	plan, err := protocol.BuildDeliveryPlan(target, cmd, protocol.Options{PowerRequiresAck: e.powerRequiresAck})
	if err != nil {
		return err
	}

	session, ok := f.Session().(*connection.Session)
	if !ok || session == nil {
		return util.NewTransportError(f.Address, "write", util.ErrNotConnected)
	}

	if err := e.conn.Acquire(ctx); err != nil {
		return err
	}
	defer e.conn.Release()

	for i, fr := range plan {
		if err := e.writeFrameWithRetry(ctx, f.Address, session.Conn(), fr); err != nil {
			return err
		}
		if i == len(plan)-1 {
			break
		}
		delay := e.settleDelay
		if fr.PostDelay > delay {
			delay = fr.PostDelay
		}
		if err := sleepOrDone(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) writeFrameWithRetry(ctx context.Context, address string, conn transport.Conn, fr protocol.Frame) error {
	var lastErr error
	for attempt := 1; attempt <= e.writeRetries; attempt++ {
		if err := conn.WriteCharacteristic(transport.WriteCharUUID, fr.Bytes, !fr.RequiresAck); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == e.writeRetries {
			break
		}
		if err := sleepOrDone(ctx, writeBackoff(attempt)); err != nil {
			return err
		}
	}
	return util.NewTransportError(address, "write", lastErr)
}

// isUnrecoverable reports whether err is a terminal, per-fixture failure
// that must not be retried across passes (spec.md §4.7 step 5).
func isUnrecoverable(err error) bool {
	return errors.Is(err, util.ErrUnsupportedMode) || errors.Is(err, util.ErrValidationFailed)
}

// writeBackoff implements min(0.1*attempt, 0.5) seconds.
func writeBackoff(attempt int) time.Duration {
	seconds := 0.1 * float64(attempt)
	if seconds > 0.5 {
		seconds = 0.5
	}
	return time.Duration(seconds * float64(time.Second))
}

func sleepOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
