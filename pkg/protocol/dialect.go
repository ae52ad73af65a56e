package protocol

import (
	"fmt"
	"time"

	"github.com/neewerctl/neewerctl/pkg/model"
	"github.com/neewerctl/neewerctl/pkg/util"
)

// Target carries the subset of a fixture's identity and capabilities dialect
// branching needs, decoupling this package from pkg/fixture so the two can be
// tested independently.
type Target struct {
	Address               string
	Dialect               model.Dialect
	CCTOnly               bool
	HWMac                 string
	SupportsExtendedScene bool
	CCTMinKelvin          int
	CCTMaxKelvin          int
}

// Options tunes the caller-controlled knobs that are not part of the Base
// Command itself.
type Options struct {
	// PowerRequiresAck controls ack-ness for mode-129 writes; every other
	// mode's ack discipline is fixed by its dialect branch.
	PowerRequiresAck bool
}

const settleGap = 50 * time.Millisecond

// infinityScenePreambleLength is the fixed length byte the legacy encoder
// emits on the Infinity scene-effect envelope, independent of the trailing
// parameter bytes actually written. Preserved as a protocol quirk analogous
// to Open Question (b); see DESIGN.md.
const infinityScenePreambleLength = 6

// BuildDeliveryPlan runs dialect branching (spec §4.4): given a fixture
// target and a Base Command, it produces the ordered frames to write, or an
// UnsupportedMode error if the fixture's dialect or capabilities cannot
// express the command.
func BuildDeliveryPlan(t Target, cmd BaseCommand, opts Options) ([]Frame, error) {
	if t.CCTOnly && (cmd.Mode == ModeHSI || cmd.Mode == ModeScene) {
		return nil, unsupportedMode(t, cmd.Mode, "fixture is CCT-only")
	}

	switch cmd.Mode {
	case ModePower:
		return buildPowerPlan(t, cmd, opts)
	case ModeCCT:
		if err := validateCCTRange(t, cmd); err != nil {
			return nil, err
		}
		return buildCCTPlan(t, cmd)
	case ModeHSI:
		return buildHSIPlan(t, cmd)
	case ModeScene:
		return buildScenePlan(t, cmd)
	default:
		return nil, fmt.Errorf("protocol: unknown mode %d", byte(cmd.Mode))
	}
}

func unsupportedMode(t Target, mode Mode, reason string) error {
	return util.NewUnsupportedModeError(t.Address, mode.String(), t.Dialect.String(), reason)
}

func validateCCTRange(t Target, cmd BaseCommand) error {
	if len(cmd.Params) < 2 {
		return nil
	}
	temp := int(cmd.Params[1])
	lo := NormalizeTemp(t.CCTMinKelvin)
	hi := NormalizeTemp(t.CCTMaxKelvin)
	if temp < lo || temp > hi {
		reason := fmt.Sprintf("temp_code %d outside fixture range [%d,%d]", temp, lo, hi)
		return unsupportedMode(t, cmd.Mode, reason)
	}
	return nil
}

func buildPowerPlan(t Target, cmd BaseCommand, opts Options) ([]Frame, error) {
	if t.Dialect == model.Infinity {
		mac, err := SplitMAC(t.HWMac)
		if err != nil {
			return nil, err
		}
		on := len(cmd.Params) > 0 && cmd.Params[0] == 1
		return []Frame{frame(infinityPowerEnvelope(mac, on), opts.PowerRequiresAck, 0)}, nil
	}
	return []Frame{frame(cmd.Bytes(), opts.PowerRequiresAck, 0)}, nil
}

func buildCCTPlan(t Target, cmd BaseCommand) ([]Frame, error) {
	bri, temp, gm := cmd.Params[0], cmd.Params[1], cmd.Params[2]

	if t.CCTOnly {
		briFrame := frame([]byte{Sentinel, 130, 1, bri}, false, settleGap)
		tempFrame := frame([]byte{Sentinel, 131, 1, temp}, false, 0)
		return []Frame{briFrame, tempFrame}, nil
	}

	switch t.Dialect {
	case model.Classic:
		payload := []byte{Sentinel, byte(ModeCCT), 2, bri, temp}
		return []Frame{frame(payload, false, 0)}, nil

	case model.Infinity:
		mac, err := SplitMAC(t.HWMac)
		if err != nil {
			return nil, err
		}
		payload := append([]byte{Sentinel, 144, 11}, mac[:]...)
		payload = append(payload, byte(ModeCCT), bri, temp, gm, 4)
		return []Frame{frame(payload, true, 0)}, nil

	case model.InfinityLite:
		payload := []byte{Sentinel, byte(ModeCCT), 3, bri, temp, gm}
		return []Frame{frame(payload, false, 0)}, nil

	default:
		return []Frame{frame(cmd.Bytes(), false, 0)}, nil
	}
}

func buildHSIPlan(t Target, cmd BaseCommand) ([]Frame, error) {
	if t.Dialect == model.Infinity {
		mac, err := SplitMAC(t.HWMac)
		if err != nil {
			return nil, err
		}
		payload := append([]byte{Sentinel, 143, 11}, mac[:]...)
		payload = append(payload, byte(ModeHSI))
		payload = append(payload, cmd.Params...)
		return []Frame{frame(payload, true, 0)}, nil
	}
	return []Frame{frame(cmd.Bytes(), false, 0)}, nil
}

func buildScenePlan(t Target, cmd BaseCommand) ([]Frame, error) {
	if cmd.Extended && !t.SupportsExtendedScene {
		return nil, unsupportedMode(t, cmd.Mode, "fixture does not support extended scene payloads")
	}

	switch t.Dialect {
	case model.Classic:
		bri := cmd.Params[len(cmd.Params)-1]
		remapped := byte(remapFx(0, cmd.Effect))
		// Open Question (b): the legacy encoder overwrites payload[3] with
		// payload[4] (bri) before remapping the original payload[3] (effect);
		// preserved exactly.
		payload := []byte{Sentinel, byte(ModeScene), 2, bri, remapped}
		return []Frame{frame(payload, false, 0)}, nil

	case model.InfinityLite:
		payload := append([]byte{Sentinel, 139, byte(len(cmd.Params))}, cmd.Params...)
		return []Frame{frame(payload, false, 0)}, nil

	case model.Infinity:
		mac, err := SplitMAC(t.HWMac)
		if err != nil {
			return nil, err
		}
		off := infinityPowerEnvelope(mac, false)
		on := infinityPowerEnvelope(mac, true)

		rest := sceneRest(cmd)
		remapped := byte(remapFx(1, cmd.Effect))
		payload := append([]byte{Sentinel, 145, infinityScenePreambleLength}, mac[:]...)
		payload = append(payload, 139, remapped)
		payload = append(payload, rest...)

		return []Frame{
			frame(off, true, settleGap),
			frame(on, true, settleGap),
			frame(payload, true, 0),
		}, nil

	default:
		return []Frame{frame(cmd.Bytes(), false, 0)}, nil
	}
}

// sceneRest returns the Base Command's parameter bytes that follow the
// effect index, which the Infinity scene envelope carries unchanged after
// its own remapped effect byte. The extended schemas of effects 1, 5 and 12
// carry no effect index, so all of their bytes are returned.
func sceneRest(cmd BaseCommand) []byte {
	if len(cmd.Params) == 0 {
		return nil
	}
	if cmd.Extended {
		switch cmd.Effect {
		case 1, 5, 12:
			return cmd.Params
		}
	}
	return cmd.Params[1:]
}

func infinityPowerEnvelope(mac [6]byte, on bool) []byte {
	v := byte(2)
	if on {
		v = 1
	}
	payload := append([]byte{Sentinel, 141, 8}, mac[:]...)
	payload = append(payload, byte(ModePower), v)
	return payload
}
