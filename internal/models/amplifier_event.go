package models

import "time"

// Event types recorded in the amplifier history.
const (
	EventPowerOn      = "POWER_ON"
	EventPowerOff     = "POWER_OFF"
	EventVolumeUp     = "VOLUME_UP"
	EventVolumeDown   = "VOLUME_DOWN"
	EventVolumeSet    = "VOLUME_SET"
	EventMute         = "MUTE"
	EventUnmute       = "UNMUTE"
	EventSourceSelect = "SOURCE_SELECT"
	EventDiscovery    = "DISCOVERY"
	EventRefresh      = "REFRESH"
	EventUnavailable  = "UNAVAILABLE"
)

// EventTypes lists every recorded type in declaration order.
var EventTypes = []string{
	EventPowerOn, EventPowerOff,
	EventVolumeUp, EventVolumeDown, EventVolumeSet,
	EventMute, EventUnmute,
	EventSourceSelect, EventDiscovery,
	EventRefresh, EventUnavailable,
}

// IsEventType reports whether t is one of the Event* constants.
func IsEventType(t string) bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AmplifierEvent is a single history entry.
type AmplifierEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`             // one of the Event* constants
	Status      string    `json:"status,omitempty"` // transport outcome of a command: ok, timeout, unavailable
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
