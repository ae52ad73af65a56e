// Package statusquery implements the notify-based Status Querier
// (spec.md §4.8): subscribe to the notify characteristic, write the
// power-query and channel-query commands in turn, and decode the matching
// notify payloads.
package statusquery

import (
	"context"
	"fmt"
	"time"

	"github.com/neewerctl/neewerctl/pkg/transport"
	"github.com/neewerctl/neewerctl/pkg/util"
)

// Power is the decoded on/standby state of a fixture.
type Power int

const (
	PowerUnknown Power = iota
	PowerOn
	PowerStandby
)

func (p Power) String() string {
	switch p {
	case PowerOn:
		return "ON"
	case PowerStandby:
		return "STBY"
	default:
		return "UNKNOWN"
	}
}

// Status is the decoded result of one query round.
type Status struct {
	Power   Power
	Channel int // -1 when the channel byte never decoded to an integer (reported as "---")
}

// ChannelString renders Channel the way the CLI status table does: the
// integer, or "---" when it never resolved.
func (s Status) ChannelString() string {
	if s.Channel < 0 {
		return "---"
	}
	return fmt.Sprintf("%d", s.Channel)
}

var (
	powerQueryFrame   = []byte{120, 133, 0, 253}
	channelQueryFrame = []byte{120, 132, 0, 252}
)

// Options tunes the per-write notify-wait timeout and retry budget.
type Options struct {
	Timeout time.Duration
	Retries int
}

func (o Options) normalized() Options {
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Second
	}
	if o.Retries < 1 {
		o.Retries = 1
	}
	return o
}

// Query runs the full power+channel round over conn. It subscribes to the
// notify characteristic once, writes the power-query frame and waits for a
// payload with byte-index 1 == 2 (retrying on timeout up to opts.Retries),
// then writes the channel-query frame and waits for byte-index 1 == 1, and
// finally unsubscribes best-effort regardless of outcome.
func Query(ctx context.Context, conn transport.Conn, opts Options) (Status, error) {
	opts = opts.normalized()

	payloads := make(chan []byte, 8)
	if err := conn.Subscribe(transport.NotifyCharUUID, func(data []byte) {
		cp := make([]byte, len(data))
		copy(cp, data)
		select {
		case payloads <- cp:
		default:
		}
	}); err != nil {
		return Status{}, util.NewTransportError("", "subscribe", err)
	}
	defer func() {
		if err := conn.Unsubscribe(transport.NotifyCharUUID); err != nil {
			util.WithOperation("statusquery").Warnf("unsubscribe: %v", err)
		}
	}()

	powerPayload, err := queryFor(ctx, conn, payloads, powerQueryFrame, 2, opts)
	if err != nil {
		return Status{}, err
	}
	channelPayload, err := queryFor(ctx, conn, payloads, channelQueryFrame, 1, opts)
	if err != nil {
		return Status{}, err
	}

	return Status{
		Power:   decodePower(powerPayload),
		Channel: decodeChannel(channelPayload),
	}, nil
}

// queryFor writes frame and waits for a notify payload whose byte-index 1
// equals discriminator, retrying the write on timeout up to opts.Retries
// times. Payloads that don't match the discriminator are discarded; they
// belong to a stale or out-of-order notify.
func queryFor(ctx context.Context, conn transport.Conn, payloads <-chan []byte, frame []byte, discriminator byte, opts Options) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= opts.Retries; attempt++ {
		if err := conn.WriteCharacteristic(transport.WriteCharUUID, frame, false); err != nil {
			lastErr = err
		} else if payload, err := waitForDiscriminator(ctx, payloads, discriminator, opts.Timeout); err == nil {
			return payload, nil
		} else {
			lastErr = err
		}
		util.WithField("attempt", attempt).Warnf("statusquery: round failed: %v", lastErr)
	}
	return nil, util.NewTransportError("", "status-query", lastErr)
}

func waitForDiscriminator(ctx context.Context, payloads <-chan []byte, discriminator byte, timeout time.Duration) ([]byte, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case p := <-payloads:
			if len(p) > 1 && p[1] == discriminator {
				return p, nil
			}
		case <-deadline.C:
			return nil, util.ErrTimeout
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func decodePower(payload []byte) Power {
	if len(payload) <= 3 {
		return PowerUnknown
	}
	switch payload[3] {
	case 1:
		return PowerOn
	case 2:
		return PowerStandby
	default:
		return PowerUnknown
	}
}

func decodeChannel(payload []byte) int {
	if len(payload) <= 3 {
		return -1
	}
	return int(payload[3])
}
