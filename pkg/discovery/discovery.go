// Package discovery scans for Neewer fixtures over BLE and classifies
// sightings into Fixture Descriptors, per spec.md §4.5.
package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/neewerctl/neewerctl/pkg/fixture"
	"github.com/neewerctl/neewerctl/pkg/model"
	"github.com/neewerctl/neewerctl/pkg/transport"
	"github.com/neewerctl/neewerctl/pkg/util"
)

// Options configures a discovery run.
type Options struct {
	// Window is the scan duration per attempt.
	Window time.Duration
	// Retries is the number of additional scan attempts after the first.
	Retries int
	// Targets, when non-empty, restricts admissible sightings to these
	// canonical addresses; discovery stops early once all are found.
	Targets []string
	// Exhaustive, for open discovery (Targets empty), scans the full retry
	// budget instead of stopping as soon as any device is found.
	Exhaustive bool
}

// Discover runs the scan-and-classify loop described in spec.md §4.5,
// returning the strongest-RSSI sighting of each admissible address.
func Discover(ctx context.Context, scanner transport.Scanner, opts Options) (map[string]*fixture.Descriptor, error) {
	targets := canonicalSet(opts.Targets)
	found := make(map[string]*fixture.Descriptor)

	attempts := opts.Retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		select {
		case <-ctx.Done():
			return found, ctx.Err()
		default:
		}

		err := scanner.Scan(ctx, opts.Window, func(adv transport.Advertisement) {
			admitSighting(found, targets, adv)
		})
		if err != nil {
			util.WithField("attempt", attempt).Warnf("discovery: scan attempt failed: %v", err)
		}

		if len(targets) > 0 {
			if allTargetsFound(found, targets) {
				break
			}
			continue
		}
		if !opts.Exhaustive && len(found) > 0 {
			break
		}
	}

	return found, nil
}

func admitSighting(found map[string]*fixture.Descriptor, targets map[string]bool, adv transport.Advertisement) {
	address := strings.ToUpper(adv.Address)

	if len(targets) > 0 {
		if !targets[address] {
			return
		}
	} else if !model.IsNeewerDevice(adv.Name) {
		return
	}

	existing, seen := found[address]
	if !seen || adv.RSSI > existing.SignalStrength {
		found[address] = fixture.NewDescriptor(address, adv.Name, adv.RSSI)
	}
}

func allTargetsFound(found map[string]*fixture.Descriptor, targets map[string]bool) bool {
	for t := range targets {
		if _, ok := found[t]; !ok {
			return false
		}
	}
	return true
}

func canonicalSet(addrs []string) map[string]bool {
	if len(addrs) == 0 {
		return nil
	}
	out := make(map[string]bool, len(addrs))
	for _, a := range addrs {
		out[strings.ToUpper(strings.TrimSpace(a))] = true
	}
	return out
}

// Resolve performs a single opportunistic scan against already-known
// descriptors (spec.md §4.5 static mode), refreshing signal strength and
// advertised name for any that are seen. Descriptors never seen during the
// scan are left untouched, falling back to an address-based connect.
func Resolve(ctx context.Context, scanner transport.Scanner, window time.Duration, known map[string]*fixture.Descriptor) error {
	return scanner.Scan(ctx, window, func(adv transport.Advertisement) {
		address := strings.ToUpper(adv.Address)
		d, ok := known[address]
		if !ok {
			return
		}
		d.SignalStrength = adv.RSSI
		d.AdvertisedName = adv.Name
	})
}
