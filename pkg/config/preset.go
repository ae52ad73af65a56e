package config

import (
	"strings"

	"github.com/neewerctl/neewerctl/pkg/command"
)

// Preset is one named preset: a base command.Intent plus optional per-light
// overrides keyed by canonical address, exactly as spec.md §6 describes.
type Preset struct {
	Intent   command.Intent
	PerLight map[string]command.Intent
}

// presetAliases is the full field-alias table from spec.md §6, shared by
// preset overlay and per-light override resolution.
var presetAliases = map[string]string{
	"brightness":      "bri",
	"saturation":      "sat",
	"temperature":     "temp",
	"effect":          "scene",
	"power":           "on",
	"bright_min":      "scene_bright_min",
	"bright_max":      "scene_bright_max",
	"temp_min":        "scene_temp_min",
	"temp_max":        "scene_temp_max",
	"hue_min":         "scene_hue_min",
	"hue_max":         "scene_hue_max",
	"speed":           "scene_speed",
	"sparks":          "scene_sparks",
	"special_options": "scene_special",
}

func normalizePresets(raw interface{}) (map[string]Preset, error) {
	out := make(map[string]Preset)
	if raw == nil {
		return out, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, newError("presets", "'presets' must be an object")
	}
	for name, body := range m {
		pm, ok := body.(map[string]interface{})
		if !ok {
			return nil, newError("presets."+name, "preset must be an object")
		}
		preset, err := presetFromMap(pm)
		if err != nil {
			return nil, newError("presets."+name, "%v", err)
		}
		out[name] = preset
	}
	return out, nil
}

func presetFromMap(m map[string]interface{}) (Preset, error) {
	p := Preset{PerLight: make(map[string]command.Intent)}

	if rawPerLight, ok := m["per_light"]; ok {
		plm, ok := rawPerLight.(map[string]interface{})
		if !ok {
			return p, newError("", "per_light must be an object")
		}
		for addr, body := range plm {
			bm, ok := body.(map[string]interface{})
			if !ok {
				return p, newError("", "per_light[%s] must be an object", addr)
			}
			intent, err := intentFromMap(bm)
			if err != nil {
				return p, newError("", "per_light[%s]: %v", addr, err)
			}
			p.PerLight[normalizeAddress(addr)] = intent
		}
	}

	intent, err := intentFromMap(withoutKey(m, "per_light"))
	if err != nil {
		return p, err
	}
	p.Intent = intent
	return p, nil
}

func withoutKey(m map[string]interface{}, key string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if k == key {
			continue
		}
		out[k] = v
	}
	return out
}

// intentFromMap resolves a raw preset (or per-light override) body through
// presetAliases into a command.Intent. Unknown keys are ignored, matching
// the original's `if not hasattr(args, key): continue`.
func intentFromMap(m map[string]interface{}) (command.Intent, error) {
	intent := command.Intent{}

	for rawKey, value := range m {
		key := presetAliases[rawKey]
		if key == "" {
			key = rawKey
		}
		key = strings.ReplaceAll(key, "-", "_")

		switch key {
		case "on":
			b, _ := asBool(value)
			intent.On = boolPtr(b)
		case "mode":
			if s, ok := value.(string); ok {
				intent.Mode = strPtrC(strings.ToUpper(s))
			}
		case "bri":
			setIntField(&intent.Bri, value)
		case "temp":
			setIntField(&intent.Temp, value)
		case "gm":
			setIntField(&intent.GM, value)
		case "hue":
			setIntField(&intent.Hue, value)
		case "sat":
			setIntField(&intent.Sat, value)
		case "scene":
			setIntField(&intent.Scene, value)
		case "scene_bright_min":
			setIntField(&intent.SceneBriMin, value)
		case "scene_bright_max":
			setIntField(&intent.SceneBriMax, value)
		case "scene_temp_min":
			setIntField(&intent.SceneTempMin, value)
		case "scene_temp_max":
			setIntField(&intent.SceneTempMax, value)
		case "scene_hue_min":
			setIntField(&intent.SceneHueMin, value)
		case "scene_hue_max":
			setIntField(&intent.SceneHueMax, value)
		case "scene_speed":
			setIntField(&intent.SceneSpeed, value)
		case "scene_sparks":
			setIntField(&intent.SceneSparks, value)
		case "scene_special":
			setIntField(&intent.SceneSpecial, value)
		default:
			// Unrecognized key (e.g. "lights", a group selector override):
			// ignored; it does not appear in the resulting Intent.
		}
	}

	return intent, nil
}

func setIntField(dst **int, value interface{}) {
	if n, ok := asInt(value); ok {
		*dst = &n
	}
}

func boolPtr(b bool) *bool      { return &b }
func strPtrC(s string) *string { return &s }
