// Package fake provides an in-memory transport.Transport double for tests
// of pkg/discovery, pkg/connection, and pkg/delivery that need a BLE
// transport without real hardware.
package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neewerctl/neewerctl/pkg/transport"
)

// Write records one characteristic write a Conn received.
type Write struct {
	UUID  string
	Data  []byte
	NoRsp bool
}

// Transport is a scriptable fake: Advertisements are replayed on Scan, and
// DialFailures/ConnectedFixtures control Dial's outcome per address.
type Transport struct {
	mu sync.Mutex

	Advertisements []transport.Advertisement
	DialFailures   map[string]error

	conns map[string]*Conn
}

// NewTransport returns an empty fake transport.
func NewTransport() *Transport {
	return &Transport{
		DialFailures: make(map[string]error),
		conns:        make(map[string]*Conn),
	}
}

// Scan replays the scripted Advertisements, honoring ctx cancellation.
func (t *Transport) Scan(ctx context.Context, window time.Duration, handler transport.AdvertisementHandler) error {
	t.mu.Lock()
	advs := append([]transport.Advertisement(nil), t.Advertisements...)
	t.mu.Unlock()

	for _, adv := range advs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			handler(adv)
		}
	}
	return nil
}

// Dial returns the scripted failure for address, if any, else a fresh fake
// Conn recorded for inspection via Conn(address).
func (t *Transport) Dial(ctx context.Context, address string) (transport.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err, ok := t.DialFailures[address]; ok && err != nil {
		return nil, err
	}
	c := &Conn{address: address, connected: true, subs: make(map[string]transport.NotifyHandler)}
	t.conns[address] = c
	return c, nil
}

// Conn returns the fake Conn last dialed for address, or nil if none.
func (t *Transport) Conn(address string) *Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conns[address]
}

// Conn is a fake GATT connection: writes are recorded, subscriptions are
// tracked, and Deliver lets a test inject a notify payload.
type Conn struct {
	mu sync.Mutex

	address   string
	connected bool
	Writes    []Write
	subs      map[string]transport.NotifyHandler
	WriteErr  error
	// FailWrites, when positive, fails that many WriteCharacteristic calls
	// (returning WriteErr, or a generic error if unset) before succeeding,
	// letting tests exercise the delivery engine's write-retry path.
	FailWrites int
}

func (c *Conn) WriteCharacteristic(uuid string, data []byte, noRsp bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailWrites > 0 {
		c.FailWrites--
		if c.WriteErr != nil {
			return c.WriteErr
		}
		return fmt.Errorf("fake: scripted write failure on %s", c.address)
	}
	if c.WriteErr != nil {
		return c.WriteErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.Writes = append(c.Writes, Write{UUID: uuid, Data: cp, NoRsp: noRsp})
	return nil
}

func (c *Conn) Subscribe(uuid string, handler transport.NotifyHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[uuid] = handler
	return nil
}

func (c *Conn) Unsubscribe(uuid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, uuid)
	return nil
}

// Deliver invokes the handler subscribed to uuid, if any, simulating a
// notify payload arriving from the fixture.
func (c *Conn) Deliver(uuid string, payload []byte) error {
	c.mu.Lock()
	h, ok := c.subs[uuid]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("fake: no subscription for %s on %s", uuid, c.address)
	}
	h(payload)
	return nil
}

func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	return nil
}
