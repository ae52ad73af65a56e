// Package fixture holds the Fixture Descriptor: the in-memory record of one
// Neewer light, resolved from a discovery scan or a configuration document,
// plus the selector syntax used to address one, many, or all fixtures from
// the command line.
package fixture

import (
	"strings"
	"sync"

	"github.com/neewerctl/neewerctl/pkg/model"
)

// Session is the minimal surface a live BLE connection exposes to a
// Descriptor. The concrete type lives in pkg/connection; Descriptor only
// needs to tear one down or check it's alive, never how to build one, so it
// never imports pkg/connection and a Session never back-references its
// Descriptor.
type Session interface {
	Close() error
	IsConnected() bool
}

// Descriptor describes one Neewer fixture: its address, the name it
// advertises over BLE (and the human-readable name corrected from it), the
// protocol dialect and CCT capability inferred from that name, and an
// optional live Session slot.
type Descriptor struct {
	Address        string
	DisplayName    string
	AdvertisedName string
	SignalStrength int

	CCTMinKelvin int
	CCTMaxKelvin int
	CCTOnly      bool
	Dialect      model.Dialect

	// HWMac is the six-octet MAC used to build Infinity-dialect envelopes.
	// Populated from Address during connection if the fixture's dialect is
	// Infinity and the address is itself a MAC (see pkg/connection).
	HWMac string

	SupportsStatusQuery   bool
	SupportsExtendedScene bool

	mu      sync.RWMutex
	session Session
}

// NewDescriptor builds a Descriptor from a discovery advertisement: a BLE
// address and the name and signal strength it was seen with.
func NewDescriptor(address, advertisedName string, rssi int) *Descriptor {
	corrected := model.CorrectName(advertisedName)
	cctMin, cctMax, cctOnly, dialect := model.Lookup(corrected)

	return &Descriptor{
		Address:               strings.ToUpper(address),
		DisplayName:           corrected,
		AdvertisedName:        advertisedName,
		SignalStrength:        rssi,
		CCTMinKelvin:          cctMin,
		CCTMaxKelvin:          cctMax,
		CCTOnly:               cctOnly,
		Dialect:               dialect,
		SupportsStatusQuery:   model.SupportsStatusQuery(corrected),
		SupportsExtendedScene: model.SupportsExtendedScene(dialect, cctOnly),
	}
}

// Session returns the fixture's current live session, or nil if none.
func (d *Descriptor) Session() Session {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.session
}

// SetSession installs a live session, replacing (without closing) any
// previous one. Callers that need the previous session closed should call
// ClearSession first.
func (d *Descriptor) SetSession(s Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session = s
}

// HasSession reports whether the fixture has a live, connected session.
func (d *Descriptor) HasSession() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.session != nil && d.session.IsConnected()
}

// ClearSession closes and releases the fixture's session, if any. Idempotent:
// calling it with no session installed is a no-op.
func (d *Descriptor) ClearSession() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return nil
	}
	err := d.session.Close()
	d.session = nil
	return err
}
