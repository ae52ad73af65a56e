package protocol

// SceneParams carries every field any extended-scene effect schema might
// draw from (spec §4.2). Callers set only the fields their chosen effect
// uses; unused fields are ignored.
type SceneParams struct {
	Bri           int
	BriMin        int
	BriMax        int
	Temp          int
	TempMin       int
	TempMax       int
	GM            int
	Hue           int
	HueMin        int
	HueMax        int
	Sat           int
	Speed         int
	Sparks        int
	Special       int
}

func splitHue(hue int) (lo, hi byte) {
	h := clamp(hue, 0, 360)
	return byte(h & 0xFF), byte((h & 0xFF00) >> 8)
}

// EncodeSceneExtended builds the extended-form Scene Base Command for effect,
// dispatching to the per-effect schema named in spec §4.2. Only effects 1, 5,
// 12, and 14 have a schema given there; every other index falls back to the
// short (effect, brightness) form, recorded as a documented gap in
// DESIGN.md rather than guessed at.
func EncodeSceneExtended(effect int, p SceneParams) BaseCommand {
	e := clamp(effect, 1, 29)
	var params []byte

	switch e {
	case 1:
		params = []byte{byte(clamp(p.Bri, 0, 100)), byte(NormalizeTemp(p.Temp)), byte(clamp(p.Speed, 0, 100))}
	case 5:
		params = []byte{
			byte(clamp(p.BriMin, 0, 100)),
			byte(clamp(p.BriMax, 0, 100)),
			byte(NormalizeTemp(p.Temp)),
			byte(NormalizeGM(p.GM)),
			byte(clamp(p.Speed, 0, 100)),
		}
	case 12:
		minLo, minHi := splitHue(p.HueMin)
		maxLo, maxHi := splitHue(p.HueMax)
		params = []byte{byte(clamp(p.Bri, 0, 100)), minLo, minHi, maxLo, maxHi, byte(clamp(p.Speed, 0, 100))}
	case 14:
		// The effect index itself leads the payload in place of the usual
		// bri byte; see spec §4.2.
		params = []byte{
			14, 0,
			byte(clamp(p.BriMin, 0, 100)),
			byte(clamp(p.BriMax, 0, 100)),
			0, 0,
			byte(NormalizeTemp(p.Temp)),
			byte(clamp(p.Speed, 0, 100)),
		}
	default:
		params = []byte{byte(e), byte(clamp(p.Bri, 0, 100))}
	}

	return BaseCommand{Mode: ModeScene, Effect: e, Extended: true, Params: params}
}
