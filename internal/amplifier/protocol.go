package amplifier

import (
	"fmt"
	"strconv"
	"strings"

	"hegel_amplifier/internal/models"
)

// Wire commands.
const (
	cmdPowerQuery  = "-p.?"
	cmdVolumeQuery = "-v.?"
	cmdMuteQuery   = "-m.?"
	cmdSourceQuery = "?F"

	cmdPowerOn    = "PO"
	cmdPowerOff   = "PF"
	cmdVolumeUp   = "VU"
	cmdVolumeDown = "VD"
	cmdMuteOn     = "MO"
	cmdMuteOff    = "MF"

	cmdVolumeSetPrefix    = "-v."
	cmdSelectSourceSuffix = "FN"
	cmdSourceNamePrefix   = "?RGB"
)

// Reply tokens. The power tokens read backwards on purpose: PWR1 is the
// device reporting standby, PWR0 reporting on.
const (
	tokenPowerOff = "PWR1"
	tokenPowerOn  = "PWR0"
	tokenMuted    = "MUT0"

	powerReplyPrefix   = "PWR"
	volumeReplyPrefix  = cmdVolumeSetPrefix
	muteReplyPrefix    = "MUT"
	inputReplyPrefix   = "-i"
	sourceReplyPrefix  = "RGB"
	sourceNameOffset   = 6
	sourceNumberOffset = 2
)

const (
	// MaxVolume is the top of the device volume scale.
	MaxVolume = 100

	// DefaultMaxSources bounds the source discovery probe (indices 0..59).
	DefaultMaxSources = 60

	// DefaultName is the display name used when none is configured.
	DefaultName = "Hegel Integrated Amplifier"
)

// powerStateFor maps a raw power token to a power state.
func powerStateFor(token string) models.PowerState {
	switch token {
	case tokenPowerOff:
		return models.PowerOff
	case tokenPowerOn:
		return models.PowerOn
	default:
		return models.PowerUnknown
	}
}

// parseVolume extracts the level from a "<prefix>.<level>" reply.
func parseVolume(reply string) (int, bool) {
	parts := strings.Split(reply, ".")
	if len(parts) < 2 {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || v < 0 || v > MaxVolume {
		return 0, false
	}
	return v, true
}

// parseMuted reports muted=true only for the exact mute-confirmed token;
// anything else leaves the flag unknown.
func parseMuted(reply string) (bool, bool) {
	if reply == tokenMuted {
		return true, true
	}
	return false, false
}

// volumeCommand converts a 0..1 fraction to the absolute volume command.
// The level is truncated, not rounded.
func volumeCommand(fraction float64) string {
	return cmdVolumeSetPrefix + strconv.Itoa(int(fraction*MaxVolume))
}

// sourceNumber formats a probe index as the two-digit source number.
func sourceNumber(index int) string {
	return fmt.Sprintf("%02d", index)
}

// parseSourceName extracts the input name from a "?RGBnn" reply.
func parseSourceName(reply string) (string, bool) {
	if !strings.HasPrefix(reply, sourceReplyPrefix) || len(reply) <= sourceNameOffset {
		return "", false
	}
	name := strings.TrimSpace(reply[sourceNameOffset:])
	return name, name != ""
}

// parseSourceNumber extracts the selected source number from a "?F" reply.
func parseSourceNumber(reply string) (string, bool) {
	if len(reply) <= sourceNumberOffset {
		return "", false
	}
	return strings.TrimSpace(reply[sourceNumberOffset:]), true
}
