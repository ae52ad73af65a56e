package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/neewerctl/neewerctl/pkg/transport"
	"github.com/neewerctl/neewerctl/pkg/transport/fake"
)

func TestDiscoverOpenStopsAtFirstFind(t *testing.T) {
	tr := fake.NewTransport()
	tr.Advertisements = []transport.Advertisement{
		{Address: "AA:AA:AA:AA:AA:AA", Name: "NEEWER-SL90", RSSI: -40},
		{Address: "ZZ:ZZ:ZZ:ZZ:ZZ:ZZ", Name: "NOT-NEEWER", RSSI: -30},
	}

	found, err := Discover(context.Background(), tr, Options{Window: time.Millisecond, Retries: 2})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found = %v, want 1 admissible fixture", found)
	}
	if _, ok := found["AA:AA:AA:AA:AA:AA"]; !ok {
		t.Error("expected AA:AA:AA:AA:AA:AA to be admitted")
	}
}

func TestDiscoverExhaustiveKeepsGoing(t *testing.T) {
	tr := fake.NewTransport()
	tr.Advertisements = []transport.Advertisement{
		{Address: "AA:AA:AA:AA:AA:AA", Name: "NEEWER-SL90", RSSI: -40},
	}

	found, err := Discover(context.Background(), tr, Options{
		Window: time.Millisecond, Retries: 1, Exhaustive: true,
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found = %v, want 1", found)
	}
}

func TestDiscoverTargetedMembership(t *testing.T) {
	tr := fake.NewTransport()
	tr.Advertisements = []transport.Advertisement{
		{Address: "AA:AA:AA:AA:AA:AA", Name: "anything", RSSI: -40},
		{Address: "BB:BB:BB:BB:BB:BB", Name: "anything", RSSI: -40},
	}

	found, err := Discover(context.Background(), tr, Options{
		Window:  time.Millisecond,
		Retries: 0,
		Targets: []string{"aa:aa:aa:aa:aa:aa"},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found = %v, want only the targeted address", found)
	}
}

func TestDiscoverKeepsStrongestRSSI(t *testing.T) {
	tr := fake.NewTransport()
	tr.Advertisements = []transport.Advertisement{
		{Address: "AA:AA:AA:AA:AA:AA", Name: "NEEWER-SL90", RSSI: -70},
		{Address: "AA:AA:AA:AA:AA:AA", Name: "NEEWER-SL90", RSSI: -40},
	}

	found, err := Discover(context.Background(), tr, Options{
		Window: time.Millisecond, Retries: 0, Exhaustive: true,
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if found["AA:AA:AA:AA:AA:AA"].SignalStrength != -40 {
		t.Errorf("SignalStrength = %d, want -40 (strongest)", found["AA:AA:AA:AA:AA:AA"].SignalStrength)
	}
}

func TestResolveUpdatesKnownDescriptors(t *testing.T) {
	tr := fake.NewTransport()
	tr.Advertisements = []transport.Advertisement{
		{Address: "AA:AA:AA:AA:AA:AA", Name: "NEEWER-SL90-v2", RSSI: -33},
	}

	known, err := Discover(context.Background(), tr, Options{Window: time.Millisecond, Retries: 0})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	tr.Advertisements[0].RSSI = -20
	if err := Resolve(context.Background(), tr, time.Millisecond, known); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if known["AA:AA:AA:AA:AA:AA"].SignalStrength != -20 {
		t.Errorf("SignalStrength after Resolve = %d, want -20", known["AA:AA:AA:AA:AA:AA"].SignalStrength)
	}
}
