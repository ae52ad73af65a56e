// Package command holds the Intent namespace: the set of user-facing
// parameters collected from CLI flags, a preset overlay, or a parsed
// interactive-shell line before being handed to the Encoder. Every field is
// a pointer so "the caller did not supply this" is representable distinctly
// from "the caller supplied the zero value" (spec.md §6's preset-overlay
// rule depends on that distinction).
package command

// Mode names accepted in Intent.Mode and in the config document's preset
// `mode` field.
const (
	ModeCCT   = "CCT"
	ModeHSI   = "HSI"
	ModeScene = "SCENE"
)

// Intent is the parsed, not-yet-encoded command namespace.
type Intent struct {
	On   *bool
	Mode *string

	Bri  *int
	Temp *int
	GM   *int
	Hue  *int
	Sat  *int

	Scene *int

	SceneBriMin  *int
	SceneBriMax  *int
	SceneTempMin *int
	SceneTempMax *int
	SceneHueMin  *int
	SceneHueMax  *int
	SceneSpeed   *int
	SceneSparks  *int
	SceneSpecial *int
}

// Default returns the Intent populated with the original CLI's defaults
// (temp=56, hue=240, sat=100, bri=100, gm=0, scene=1, mode=CCT), used as the
// base every override layer (config defaults, preset, per-light override,
// explicit CLI flags) is overlaid onto.
func Default() Intent {
	return Intent{
		Mode:  strPtr(ModeCCT),
		Bri:   intPtr(100),
		Temp:  intPtr(56),
		GM:    intPtr(0),
		Hue:   intPtr(240),
		Sat:   intPtr(100),
		Scene: intPtr(1),
	}
}

// Overlay returns a copy of base with every non-nil field of patch applied
// on top. This is the overlay rule from spec.md §6/§9: "applied only when
// the caller did not supply them" — patch always wins because the caller of
// Overlay decides ordering (defaults, then config defaults, then preset,
// then per-light override, then explicit flags, each call's patch argument
// being the next, more specific, layer).
func Overlay(base, patch Intent) Intent {
	out := base

	if patch.On != nil {
		out.On = patch.On
	}
	if patch.Mode != nil {
		out.Mode = patch.Mode
	}
	if patch.Bri != nil {
		out.Bri = patch.Bri
	}
	if patch.Temp != nil {
		out.Temp = patch.Temp
	}
	if patch.GM != nil {
		out.GM = patch.GM
	}
	if patch.Hue != nil {
		out.Hue = patch.Hue
	}
	if patch.Sat != nil {
		out.Sat = patch.Sat
	}
	if patch.Scene != nil {
		out.Scene = patch.Scene
	}
	if patch.SceneBriMin != nil {
		out.SceneBriMin = patch.SceneBriMin
	}
	if patch.SceneBriMax != nil {
		out.SceneBriMax = patch.SceneBriMax
	}
	if patch.SceneTempMin != nil {
		out.SceneTempMin = patch.SceneTempMin
	}
	if patch.SceneTempMax != nil {
		out.SceneTempMax = patch.SceneTempMax
	}
	if patch.SceneHueMin != nil {
		out.SceneHueMin = patch.SceneHueMin
	}
	if patch.SceneHueMax != nil {
		out.SceneHueMax = patch.SceneHueMax
	}
	if patch.SceneSpeed != nil {
		out.SceneSpeed = patch.SceneSpeed
	}
	if patch.SceneSparks != nil {
		out.SceneSparks = patch.SceneSparks
	}
	if patch.SceneSpecial != nil {
		out.SceneSpecial = patch.SceneSpecial
	}
	return out
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
