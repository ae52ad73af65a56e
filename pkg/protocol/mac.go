package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitMAC parses a canonical six-octet, colon-separated MAC into
// transmission-order bytes (spec §4.3).
func SplitMAC(mac string) ([6]byte, error) {
	var out [6]byte
	parts := strings.Split(mac, ":")
	if len(parts) != 6 {
		return out, fmt.Errorf("protocol: MAC %q does not have six octets", mac)
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return out, fmt.Errorf("protocol: MAC %q octet %d: %w", mac, i, err)
		}
		out[i] = byte(v)
	}
	return out, nil
}
