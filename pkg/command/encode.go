package command

import (
	"github.com/neewerctl/neewerctl/pkg/protocol"
	"github.com/neewerctl/neewerctl/pkg/util"
)

// ToBaseCommand encodes intent into a protocol.BaseCommand. A power verb
// (On set) always wins over the mode body, matching the CLI's
// `--on/--off/--mode=...` mutual exclusivity. supportsExtendedScene selects
// between protocol.EncodeSceneExtended and protocol.EncodeSceneShort for
// ModeScene; every other mode is capability-independent at encode time
// (dialect branching, not the encoder, rejects what a fixture can't do).
func ToBaseCommand(intent Intent, supportsExtendedScene bool) (protocol.BaseCommand, error) {
	if intent.On != nil {
		return protocol.EncodePower(*intent.On), nil
	}

	mode := ModeCCT
	if intent.Mode != nil {
		mode = *intent.Mode
	}

	switch mode {
	case ModeCCT:
		v := util.ValidationBuilder{}
		v.Add(intent.Bri != nil, "cct mode requires bri").
			Add(intent.Temp != nil, "cct mode requires temp")
		if v.HasErrors() {
			return protocol.BaseCommand{}, v.Build()
		}
		gm := 0
		if intent.GM != nil {
			gm = *intent.GM
		}
		return protocol.EncodeCCT(*intent.Bri, *intent.Temp, gm), nil

	case ModeHSI:
		v := util.ValidationBuilder{}
		v.Add(intent.Hue != nil, "hsi mode requires hue").
			Add(intent.Sat != nil, "hsi mode requires sat").
			Add(intent.Bri != nil, "hsi mode requires bri")
		if v.HasErrors() {
			return protocol.BaseCommand{}, v.Build()
		}
		return protocol.EncodeHSI(*intent.Hue, *intent.Sat, *intent.Bri), nil

	case ModeScene:
		v := util.ValidationBuilder{}
		v.Add(intent.Scene != nil, "scene mode requires scene").
			Add(intent.Bri != nil, "scene mode requires bri")
		if v.HasErrors() {
			return protocol.BaseCommand{}, v.Build()
		}
		if !supportsExtendedScene {
			return protocol.EncodeSceneShort(*intent.Scene, *intent.Bri), nil
		}
		return protocol.EncodeSceneExtended(*intent.Scene, sceneParams(intent)), nil

	default:
		return protocol.BaseCommand{}, util.NewValidationError("unknown mode " + mode)
	}
}

func sceneParams(intent Intent) protocol.SceneParams {
	p := protocol.SceneParams{}
	if intent.Bri != nil {
		p.Bri = *intent.Bri
	}
	if intent.SceneBriMin != nil {
		p.BriMin = *intent.SceneBriMin
	}
	if intent.SceneBriMax != nil {
		p.BriMax = *intent.SceneBriMax
	}
	if intent.Temp != nil {
		p.Temp = *intent.Temp
	}
	if intent.SceneTempMin != nil {
		p.TempMin = *intent.SceneTempMin
	}
	if intent.SceneTempMax != nil {
		p.TempMax = *intent.SceneTempMax
	}
	if intent.GM != nil {
		p.GM = *intent.GM
	}
	if intent.Hue != nil {
		p.Hue = *intent.Hue
	}
	if intent.SceneHueMin != nil {
		p.HueMin = *intent.SceneHueMin
	}
	if intent.SceneHueMax != nil {
		p.HueMax = *intent.SceneHueMax
	}
	if intent.Sat != nil {
		p.Sat = *intent.Sat
	}
	if intent.SceneSpeed != nil {
		p.Speed = *intent.SceneSpeed
	}
	if intent.SceneSparks != nil {
		p.Sparks = *intent.SceneSparks
	}
	if intent.SceneSpecial != nil {
		p.Special = *intent.SceneSpecial
	}
	return p
}
