// Package model holds the process-wide, read-only Neewer fixture registry:
// the name-correction table and the per-model protocol specification table
// used to infer a fixture's dialect and color-temperature capability from
// its advertised BLE name.
package model

import "strings"

// Dialect identifies the byte-envelope family a fixture speaks.
type Dialect int

const (
	// Classic fixtures use the base command unmodified, dropping the GM
	// byte on CCT writes and remapping scene effect indices through the
	// classic table.
	Classic Dialect = iota
	// Infinity fixtures wrap every base command into a MAC-addressed
	// envelope and require a synthetic power-off/power-on pair before a
	// scene write.
	Infinity
	// InfinityLite fixtures use Infinity's framing bytes without the
	// MAC-addressed envelope.
	InfinityLite
)

func (d Dialect) String() string {
	switch d {
	case Classic:
		return "classic"
	case Infinity:
		return "infinity"
	case InfinityLite:
		return "infinity-lite"
	default:
		return "unknown"
	}
}

// NameNeedle is one (substring, corrected name) rewrite rule. The first
// needle contained in an advertised name wins.
type NameNeedle struct {
	Needle    string
	Corrected string
}

// NameNeedles rewrites noisy factory advertised names (serial-number-like
// prefixes) into their human model names, in priority order. Sourced from
// the Neewer firmware's published serial-prefix table.
var NameNeedles = []NameNeedle{
	{"20200015", "RGB1"},
	{"20200037", "SL90"},
	{"20200049", "RGB1200"},
	{"20210006", "Apollo 150D"},
	{"20210007", "RGB C80"},
	{"20210012", "CB60 RGB"},
	{"20210018", "BH-30S RGB"},
	{"20210034", "MS60B"},
	{"20210035", "MS60C"},
	{"20210036", "TL60 RGB"},
	{"20210037", "CB200B"},
	{"20220014", "CB60B"},
	{"20220016", "PL60C"},
	{"20220035", "MS150B"},
	{"20220041", "AS600B"},
	{"20220043", "FS150B"},
	{"20220046", "RP19C"},
	{"20220051", "CB100C"},
	{"20220055", "CB300B"},
	{"20220057", "SL90 Pro"},
	{"20230021", "BH-30S RGB"},
	{"20230022", "HS60B"},
	{"20230025", "RGB1200"},
	{"20230031", "TL120C"},
	{"20230050", "FS230 5600K"},
	{"20230051", "FS230B"},
	{"20230052", "FS150 5600K"},
	{"20230064", "TL60 RGB"},
	{"20230080", "MS60C"},
	{"20230092", "RGB1200"},
	{"20230108", "HB80C"},
}

// ModelSpec describes one family of fixtures: its CCT range in Kelvin,
// whether it only supports CCT (no HSI/scene), and which dialect it speaks.
type ModelSpec struct {
	NameSubstring string
	CCTMinKelvin  int
	CCTMaxKelvin  int
	CCTOnly       bool
	Dialect       Dialect
}

// ModelSpecs is scanned in reverse so that more specific entries appearing
// later in the table (e.g. "RGB176") win over shorter prefixes that would
// otherwise match first (e.g. "RGB1").
var ModelSpecs = []ModelSpec{
	{"Apollo", 5600, 5600, true, Classic},
	{"BH-30S RGB", 2500, 10000, false, Infinity},
	{"CB60 RGB", 2500, 6500, false, Infinity},
	{"CL124", 2500, 10000, false, InfinityLite},
	{"GL1", 2900, 7000, true, Classic},
	{"GL1C", 2900, 7000, false, Infinity},
	{"HB80C", 2500, 7500, false, Infinity},
	{"MS60B", 2700, 6500, true, Infinity},
	{"NL140", 3200, 5600, true, Classic},
	{"RGB C80", 2500, 10000, false, Infinity},
	{"RGB CB60", 2500, 10000, false, Infinity},
	{"RGB1", 3200, 5600, false, Infinity},
	{"RGB1000", 2500, 10000, false, Infinity},
	{"RGB1200", 2500, 10000, false, Infinity},
	{"RGB140", 2500, 10000, false, Infinity},
	{"RGB168", 2500, 8500, false, InfinityLite},
	{"RGB176", 3200, 5600, false, Classic},
	{"RGB176 A1", 2500, 10000, false, Classic},
	{"RGB18", 3200, 5600, false, Classic},
	{"RGB190", 3200, 5600, false, Classic},
	{"RGB450", 3200, 5600, false, Classic},
	{"RGB480", 3200, 5600, false, Classic},
	{"RGB512", 2500, 10000, false, Infinity},
	{"RGB530", 3200, 5600, false, Classic},
	{"RGB530PRO", 3200, 5600, false, Classic},
	{"RGB650", 3200, 5600, false, Classic},
	{"RGB660", 3200, 5600, false, Classic},
	{"RGB660PRO", 3200, 5600, false, Classic},
	{"RGB800", 2500, 10000, false, Infinity},
	{"RGB960", 3200, 5600, false, Classic},
	{"RGB-P200", 3200, 5600, false, Classic},
	{"RGB-P280", 3200, 5600, false, Classic},
	{"SL70", 3200, 8500, false, Classic},
	{"SL80", 3200, 8500, false, Classic},
	{"SL90", 2500, 10000, false, Infinity},
	{"SL90 Pro", 2500, 10000, false, Infinity},
	{"SNL1320", 3200, 5600, true, Classic},
	{"SNL1920", 3200, 5600, true, Classic},
	{"SNL480", 3200, 5600, true, Classic},
	{"SNL530", 3200, 5600, true, Classic},
	{"SNL660", 3200, 5600, true, Classic},
	{"SNL960", 3200, 5600, true, Classic},
	{"SRP16", 3200, 5600, true, Classic},
	{"SRP18", 3200, 5600, true, Classic},
	{"TL60", 2500, 10000, false, Infinity},
	{"WRP18", 3200, 5600, true, Classic},
	{"ZK-RY", 5600, 5600, false, Classic},
	{"ZRP16", 3200, 5600, true, Classic},
}

// AcceptedNamePrefixes are the advertised-name prefixes that mark a BLE
// peripheral as a candidate Neewer fixture during open discovery.
var AcceptedNamePrefixes = []string{"NEEWER", "NW-", "SL", "NWR"}

// statusQuerySupportedPrefixes and statusQueryUnsupportedPrefixes drive the
// status-query capability heuristic; names matching neither default to
// unsupported, erring towards not sending a query the fixture will ignore.
var statusQuerySupportedPrefixes = []string{
	"SL", "SNL", "RGB", "GL", "NL", "SRP", "WRP", "ZRP", "CL124", "ZK-RY", "TL60",
}

var statusQueryUnsupportedPrefixes = []string{
	"FS", "CB", "MS", "AS", "APOLLO", "HB", "HS", "TL120", "PL",
}

// CorrectName rewrites an advertised name against NameNeedles, returning
// the original name unchanged when no needle matches.
func CorrectName(advertisedName string) string {
	for _, n := range NameNeedles {
		if strings.Contains(advertisedName, n.Needle) {
			return n.Corrected
		}
	}
	return advertisedName
}

// Lookup resolves a (corrected) fixture name to its CCT range, CCT-only
// flag, and dialect, scanning ModelSpecs in reverse order. Unmatched names
// default to a 3200-5600K, non-CCT-only, Classic fixture.
func Lookup(correctedName string) (cctMinKelvin, cctMaxKelvin int, cctOnly bool, dialect Dialect) {
	for i := len(ModelSpecs) - 1; i >= 0; i-- {
		spec := ModelSpecs[i]
		if strings.Contains(correctedName, spec.NameSubstring) {
			return spec.CCTMinKelvin, spec.CCTMaxKelvin, spec.CCTOnly, spec.Dialect
		}
	}
	return 3200, 5600, false, Classic
}

// IsNeewerDevice reports whether an advertised name begins with one of the
// accepted Neewer name prefixes, case-insensitively.
func IsNeewerDevice(advertisedName string) bool {
	upper := strings.ToUpper(advertisedName)
	for _, prefix := range AcceptedNamePrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// SupportsStatusQuery infers, from the corrected name, whether a fixture
// answers the notify-based status-query protocol.
func SupportsStatusQuery(correctedName string) bool {
	upper := strings.ToUpper(correctedName)
	for _, prefix := range statusQuerySupportedPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	for _, prefix := range statusQueryUnsupportedPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return false
		}
	}
	return false
}

// SupportsExtendedScene infers, from dialect and CCT-only status, whether a
// fixture accepts the per-effect extended-scene payload schema instead of
// the short (effect, brightness) form.
func SupportsExtendedScene(dialect Dialect, cctOnly bool) bool {
	return (dialect == Infinity || dialect == InfinityLite) && !cctOnly
}
