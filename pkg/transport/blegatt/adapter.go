// Package blegatt adapts github.com/go-ble/ble's HCI-backed central role to
// the pkg/transport.Transport interface, grounded on the GATT client surface
// (WriteCharacteristic/Subscribe/Unsubscribe/CancelConnection) shown in the
// leso-kn/ble fork's linux gatt client.
package blegatt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"

	"github.com/neewerctl/neewerctl/pkg/transport"
)

// Adapter opens the host's HCI device and implements transport.Transport
// over it.
type Adapter struct {
	device ble.Device
}

// NewAdapter opens the default Linux HCI device and installs it as the
// package-level default ble.Device, as required by ble.Scan/ble.Dial.
func NewAdapter() (*Adapter, error) {
	d, err := linux.NewDevice()
	if err != nil {
		return nil, fmt.Errorf("blegatt: open HCI device: %w", err)
	}
	ble.SetDefaultDevice(d)
	return &Adapter{device: d}, nil
}

// Close releases the underlying HCI device.
func (a *Adapter) Close() error {
	return a.device.Stop()
}

// Scan implements transport.Scanner, running an active scan for window and
// reporting every advertisement seen to handler.
func (a *Adapter) Scan(ctx context.Context, window time.Duration, handler transport.AdvertisementHandler) error {
	scanCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	err := ble.Scan(scanCtx, true, func(adv ble.Advertisement) {
		handler(transport.Advertisement{
			Address: adv.Addr().String(),
			Name:    adv.LocalName(),
			RSSI:    adv.RSSI(),
		})
	}, nil)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("blegatt: scan: %w", err)
	}
	return nil
}

// Dial implements transport.Dialer: connects, discovers the GATT profile,
// and returns a Conn scoped to that profile.
func (a *Adapter) Dial(ctx context.Context, address string) (transport.Conn, error) {
	client, err := ble.Dial(ctx, ble.NewAddr(address))
	if err != nil {
		return nil, fmt.Errorf("blegatt: dial %s: %w", address, err)
	}
	profile, err := client.DiscoverProfile(true)
	if err != nil {
		client.CancelConnection()
		return nil, fmt.Errorf("blegatt: discover profile on %s: %w", address, err)
	}
	return &conn{client: client, profile: profile}, nil
}

type conn struct {
	client  ble.Client
	profile *ble.Profile
}

func (c *conn) characteristic(uuid string) (*ble.Characteristic, error) {
	want, err := ble.Parse(uuid)
	if err != nil {
		return nil, fmt.Errorf("blegatt: parse uuid %s: %w", uuid, err)
	}
	for _, s := range c.profile.Services {
		for _, ch := range s.Characteristics {
			if ch.UUID.Equal(want) {
				return ch, nil
			}
		}
	}
	return nil, fmt.Errorf("blegatt: characteristic %s not found on this fixture", uuid)
}

func (c *conn) WriteCharacteristic(uuid string, data []byte, noRsp bool) error {
	ch, err := c.characteristic(uuid)
	if err != nil {
		return err
	}
	return c.client.WriteCharacteristic(ch, data, noRsp)
}

func (c *conn) Subscribe(uuid string, handler transport.NotifyHandler) error {
	ch, err := c.characteristic(uuid)
	if err != nil {
		return err
	}
	return c.client.Subscribe(ch, false, func(data []byte) { handler(data) })
}

func (c *conn) Unsubscribe(uuid string) error {
	ch, err := c.characteristic(uuid)
	if err != nil {
		return err
	}
	return c.client.Unsubscribe(ch, false)
}

func (c *conn) Connected() bool {
	select {
	case <-c.client.Disconnected():
		return false
	default:
		return true
	}
}

func (c *conn) Close() error {
	return c.client.CancelConnection()
}
