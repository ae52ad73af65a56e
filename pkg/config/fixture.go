package config

import (
	"github.com/neewerctl/neewerctl/pkg/fixture"
	"github.com/neewerctl/neewerctl/pkg/model"
)

// Fixture synthesizes a fixture.Descriptor for a statically-configured
// light, the "or from static config" half of the Fixture Descriptor
// lifecycle in spec.md §3. Capability inference (dialect, CCT range,
// status-query/extended-scene support) runs exactly as it would for a
// discovered advertisement, then any explicit config overrides win.
func (d *Document) Fixture(address string) (*fixture.Descriptor, error) {
	addr := normalizeAddress(address)
	entry, ok := d.Lights[addr]
	if !ok {
		return nil, newError(address, "not present in the 'lights' block")
	}

	rssi := -127
	if entry.RSSI != nil {
		rssi = *entry.RSSI
	}

	desc := fixture.NewDescriptor(addr, entry.Name, rssi)

	if entry.CCTOnly != nil {
		desc.CCTOnly = *entry.CCTOnly
	}
	if entry.InfinityMode != nil {
		desc.Dialect = model.Dialect(*entry.InfinityMode)
	}
	if entry.HWMac != "" {
		desc.HWMac = entry.HWMac
	}
	if entry.SupportsStatusQuery != nil {
		desc.SupportsStatusQuery = *entry.SupportsStatusQuery
	}
	if entry.SupportsExtendedScene != nil {
		desc.SupportsExtendedScene = *entry.SupportsExtendedScene
	}

	return desc, nil
}

// Fixtures synthesizes every statically-configured light in the document.
func (d *Document) Fixtures() []*fixture.Descriptor {
	out := make([]*fixture.Descriptor, 0, len(d.Lights))
	for addr := range d.Lights {
		f, err := d.Fixture(addr)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}
