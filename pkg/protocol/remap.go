package protocol

// remapClassicTable and remapInfinityTable implement remap_fx (spec §4.4).
var remapClassicTable = map[int]int{1: 7, 2: 8, 10: 1, 11: 6, 15: 9, 16: 4, 17: 5}

var remapInfinityTable = map[int]int{
	21: 10, 22: 8, 23: 12, 24: 12, 25: 17, 26: 11, 27: 1, 28: 2, 29: 15,
}

// remapFx translates a Base Command's effect index through the dialect's
// scene translation table. dialect selects the table: 0 = Classic, 1 =
// Infinity.
func remapFx(dialect int, effect int) int {
	if dialect == 0 {
		if v, ok := remapClassicTable[effect]; ok {
			return v
		}
		if effect >= 20 {
			return effect - 20
		}
		return 10
	}

	if effect <= 20 {
		return effect
	}
	if v, ok := remapInfinityTable[effect]; ok {
		return v
	}
	return effect
}
