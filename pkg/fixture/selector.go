package fixture

import (
	"fmt"
	"sort"
	"strings"
)

// Selector is a parsed target expression: ALL (or *), a literal
// comma-separated address list, or a group reference (group:<name>).
type Selector struct {
	All       bool
	Addresses []string
	Group     string
}

// ParseSelector parses a raw selector expression as described in spec.md §3:
// "ALL", "*", a comma-separated address list, or "group:<name>".
func ParseSelector(raw string) (Selector, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Selector{}, fmt.Errorf("fixture: empty selector")
	}

	if trimmed == "*" || strings.EqualFold(trimmed, "ALL") {
		return Selector{All: true}, nil
	}

	if rest, ok := cutPrefixFold(trimmed, "group:"); ok {
		if rest == "" {
			return Selector{}, fmt.Errorf("fixture: empty group name in selector %q", raw)
		}
		return Selector{Group: rest}, nil
	}

	parts := strings.Split(trimmed, ",")
	addrs := make([]string, 0, len(parts))
	for _, p := range parts {
		a := strings.ToUpper(strings.TrimSpace(p))
		if a == "" {
			continue
		}
		addrs = append(addrs, a)
	}
	if len(addrs) == 0 {
		return Selector{}, fmt.Errorf("fixture: no addresses in selector %q", raw)
	}
	return Selector{Addresses: addrs}, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

// Resolve expands a Selector against the known fixture set (address ->
// Descriptor) and the configured groups (group name -> member addresses),
// returning matching Descriptors sorted by address for deterministic output.
func Resolve(sel Selector, known map[string]*Descriptor, groups map[string][]string) ([]*Descriptor, error) {
	switch {
	case sel.All:
		out := make([]*Descriptor, 0, len(known))
		for _, d := range known {
			out = append(out, d)
		}
		sortByAddress(out)
		return out, nil

	case sel.Group != "":
		members, ok := groups[sel.Group]
		if !ok {
			return nil, fmt.Errorf("fixture: unknown group %q", sel.Group)
		}
		out, err := resolveAddresses(members, known)
		if err != nil {
			return nil, err
		}
		sortByAddress(out)
		return out, nil

	default:
		out, err := resolveAddresses(sel.Addresses, known)
		if err != nil {
			return nil, err
		}
		sortByAddress(out)
		return out, nil
	}
}

func resolveAddresses(addrs []string, known map[string]*Descriptor) ([]*Descriptor, error) {
	out := make([]*Descriptor, 0, len(addrs))
	for _, a := range addrs {
		a = strings.ToUpper(strings.TrimSpace(a))
		d, ok := known[a]
		if !ok {
			return nil, fmt.Errorf("fixture: unknown address %q", a)
		}
		out = append(out, d)
	}
	return out, nil
}

func sortByAddress(ds []*Descriptor) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].Address < ds[j].Address })
}
