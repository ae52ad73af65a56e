package config

import "strings"

// ResolvePreset looks up name, returning a config.Error wrapping ErrInvalid
// (spec.md §7, "unknown preset" is a fatal configuration error) if it isn't
// defined.
func (d *Document) ResolvePreset(name string) (Preset, error) {
	p, ok := d.Presets[name]
	if !ok {
		return Preset{}, newError("", "preset %q not found in config", name)
	}
	return p, nil
}

// DefaultsIntent resolves the `defaults` block's Intent-shaped keys (bri,
// temp, gm, hue, sat, scene, on, mode, and the scene_* knobs) into a
// command.Intent, for use as the base layer beneath any preset or explicit
// CLI flag (spec.md §6: "applied only when the caller did not supply
// them"). Of the non-Intent keys, the CLI layer reads scan_attempts,
// connect_retries, write_retries, passes, and parallel via Int below.
func (d *Document) DefaultsIntent() (Preset, error) {
	intent, err := intentFromMap(d.Defaults)
	if err != nil {
		return Preset{}, err
	}
	return Preset{Intent: intent}, nil
}

// Int reads an engine-tuning default (e.g. "passes", "parallel",
// "write_retries") from the defaults block, duck-typed the way the original
// CLI's `_to_int` coerces bools/strings/floats, falling back to fallback
// when the key is absent or doesn't coerce.
func (d *Document) Int(key string, fallback int) int {
	v, ok := d.Defaults[normalizeKey(key)]
	if !ok {
		return fallback
	}
	n, ok := asInt(v)
	if !ok {
		return fallback
	}
	return n
}

// Bool reads a boolean engine-tuning default, falling back to fallback when
// the key is absent or doesn't coerce.
func (d *Document) Bool(key string, fallback bool) bool {
	v, ok := d.Defaults[normalizeKey(key)]
	if !ok {
		return fallback
	}
	b, ok := asBool(v)
	if !ok {
		return fallback
	}
	return b
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}
