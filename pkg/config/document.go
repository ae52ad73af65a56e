// Package config loads the lights/groups/presets/defaults document
// described in spec.md §6, normalizes its lights and groups blocks the way
// the original CLI's `_normalize_lights_block`/`_normalize_groups_block` do,
// and resolves presets (including per-light overrides and the field alias
// table) onto a command.Intent.
package config

import (
	"fmt"
	"strings"
)

// LightEntry is one statically-configured fixture: the per-address
// overrides a discovery scan cannot infer (an explicit hw_mac, a forced
// dialect) plus metadata the scan would otherwise supply (name, rssi).
type LightEntry struct {
	Name                  string
	CCTOnly               *bool
	InfinityMode          *int // 0=Classic, 1=Infinity, 2=InfinityLite
	HWMac                 string
	RSSI                  *int
	SupportsStatusQuery   *bool
	SupportsExtendedScene *bool
}

// Document is one parsed, normalized configuration document.
type Document struct {
	Lights   map[string]LightEntry
	Groups   map[string][]string
	Presets  map[string]Preset
	Defaults map[string]interface{}
}

func newDocument() *Document {
	return &Document{
		Lights:   make(map[string]LightEntry),
		Groups:   make(map[string][]string),
		Presets:  make(map[string]Preset),
		Defaults: make(map[string]interface{}),
	}
}

// normalizeAddress upper-cases and trims an address for use as a map key.
// Addresses are not required to be a parseable MAC here: spec.md §3 allows
// an "opaque transport handle on platforms that do not expose MACs."
func normalizeAddress(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func normalizeLights(raw interface{}) (map[string]LightEntry, error) {
	out := make(map[string]LightEntry)
	if raw == nil {
		return out, nil
	}

	switch v := raw.(type) {
	case map[string]interface{}:
		for addr, entry := range v {
			m, _ := entry.(map[string]interface{})
			le, err := lightEntryFromMap(m)
			if err != nil {
				return nil, newError("lights."+addr, "%v", err)
			}
			out[normalizeAddress(addr)] = le
		}
		return out, nil

	case []interface{}:
		for i, row := range v {
			m, ok := row.(map[string]interface{})
			if !ok {
				continue
			}
			addrRaw, ok := m["address"]
			if !ok {
				continue
			}
			addr, _ := addrRaw.(string)
			if addr == "" {
				continue
			}
			le, err := lightEntryFromMap(m)
			if err != nil {
				return nil, newError(addr, "lights[%d]: %v", i, err)
			}
			out[normalizeAddress(addr)] = le
		}
		return out, nil

	default:
		return nil, newError("lights", "'lights' must be an object or array")
	}
}

func lightEntryFromMap(m map[string]interface{}) (LightEntry, error) {
	le := LightEntry{}
	if name, ok := m["name"].(string); ok {
		le.Name = name
	}
	if hw, ok := m["hw_mac"].(string); ok {
		le.HWMac = normalizeAddress(hw)
	}
	if b, ok := asBool(m["cct_only"]); ok {
		le.CCTOnly = &b
	}
	if b, ok := asBool(m["supports_status_query"]); ok {
		le.SupportsStatusQuery = &b
	}
	if b, ok := asBool(m["supports_extended_scene"]); ok {
		le.SupportsExtendedScene = &b
	}
	if n, ok := asInt(m["rssi"]); ok {
		le.RSSI = &n
	}
	if n, ok := asInt(m["infinity_mode"]); ok {
		if n < 0 || n > 2 {
			return le, newError("", "infinity_mode must be 0, 1, or 2, got %d", n)
		}
		le.InfinityMode = &n
	}
	return le, nil
}

func normalizeGroups(raw interface{}) (map[string][]string, error) {
	out := make(map[string][]string)
	if raw == nil {
		return out, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, newError("groups", "'groups' must be an object")
	}
	for name, members := range m {
		switch mv := members.(type) {
		case string:
			out[name] = splitCSV(mv)
		case []interface{}:
			addrs := make([]string, 0, len(mv))
			for _, a := range mv {
				if s, ok := a.(string); ok && strings.TrimSpace(s) != "" {
					addrs = append(addrs, normalizeAddress(s))
				}
			}
			out[name] = addrs
		}
	}
	return out, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, normalizeAddress(p))
		}
	}
	return out
}

func asBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToUpper(strings.TrimSpace(t)) {
		case "TRUE", "1", "ON", "YES":
			return true, true
		case "FALSE", "0", "OFF", "NO":
			return false, true
		}
	}
	return false, false
}

func asInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n := 0
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}
