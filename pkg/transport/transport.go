// Package transport defines the BLE transport boundary neewerctl's core is
// built against: scanning for advertisements, dialing a GATT connection, and
// writing/subscribing to the Neewer service's characteristics. Per spec.md
// §1 the transport itself is an external collaborator — this package only
// names the interface. The concrete adapter lives in pkg/transport/blegatt;
// pkg/transport/fake provides an in-memory double for tests.
package transport

import (
	"context"
	"time"
)

// GATT service and characteristic UUIDs (spec.md §6, bit-exact).
const (
	ServiceUUID    = "69400001-B5A3-F393-E0A9-E50E24DCCA99"
	WriteCharUUID  = "69400002-B5A3-F393-E0A9-E50E24DCCA99"
	NotifyCharUUID = "69400003-B5A3-F393-E0A9-E50E24DCCA99"
)

// Advertisement is one BLE scan sighting.
type Advertisement struct {
	Address string
	Name    string
	RSSI    int
}

// AdvertisementHandler is invoked once per sighting during a Scan.
type AdvertisementHandler func(Advertisement)

// Scanner discovers nearby BLE peripherals for the configured window.
// Implementations must honor ctx cancellation as a suspension point.
type Scanner interface {
	Scan(ctx context.Context, window time.Duration, handler AdvertisementHandler) error
}

// NotifyHandler receives raw bytes from a notify subscription.
type NotifyHandler func([]byte)

// Conn is a live GATT connection to one fixture, scoped to the Neewer
// service's write and notify characteristics.
type Conn interface {
	WriteCharacteristic(uuid string, data []byte, noRsp bool) error
	Subscribe(uuid string, handler NotifyHandler) error
	Unsubscribe(uuid string) error
	Connected() bool
	Close() error
}

// Dialer opens GATT connections by address.
type Dialer interface {
	Dial(ctx context.Context, address string) (Conn, error)
}

// Transport bundles scanning and dialing: the full surface the Connection
// Manager and Discovery components consume.
type Transport interface {
	Scanner
	Dialer
}
