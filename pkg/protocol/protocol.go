// Package protocol implements the Neewer BLE wire format: the Base Command
// encoder, the checksum framer, and dialect branching that turns a Base
// Command plus a fixture's capabilities into an ordered Delivery Plan of
// frames ready to write to the GATT characteristic.
package protocol

import "fmt"

// Sentinel is the constant first byte of every Base Command.
const Sentinel = 120

// Mode identifies the byte-1 discriminator of a Base Command.
type Mode byte

const (
	ModePower Mode = 129
	ModeCCT   Mode = 135
	ModeHSI   Mode = 134
	ModeScene Mode = 136
)

func (m Mode) String() string {
	switch m {
	case ModePower:
		return "power"
	case ModeCCT:
		return "cct"
	case ModeHSI:
		return "hsi"
	case ModeScene:
		return "scene"
	default:
		return fmt.Sprintf("mode(%d)", byte(m))
	}
}

// BaseCommand is the pre-dialect byte vector described in spec §3: sentinel,
// mode, length, and mode-specific parameters. Effect carries the requested
// scene index as metadata for dialect branching's remap_fx lookups; it is
// meaningless outside ModeScene.
type BaseCommand struct {
	Mode     Mode
	Params   []byte
	Effect   int
	Extended bool
}

// Bytes renders the command's unframed byte vector: sentinel, mode, length,
// then params.
func (c BaseCommand) Bytes() []byte {
	out := make([]byte, 0, 3+len(c.Params))
	out = append(out, Sentinel, byte(c.Mode), byte(len(c.Params)))
	out = append(out, c.Params...)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
