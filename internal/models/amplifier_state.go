package models

import "time"

// PowerState is the amplifier power state as reported by the device.
type PowerState string

const (
	PowerOn      PowerState = "on"
	PowerOff     PowerState = "off"
	PowerUnknown PowerState = "unknown"
)

// AmplifierState is a point-in-time snapshot of the cached device state.
// Nil Volume or Muted means the field is unknown.
type AmplifierState struct {
	Name      string     `json:"name" yaml:"name"`
	Available bool       `json:"available" yaml:"available"`
	Power     PowerState `json:"power" yaml:"power"`
	Volume    *int       `json:"volume" yaml:"volume"` // 0..100
	Muted     *bool      `json:"muted" yaml:"muted"`
	Source    string     `json:"source,omitempty" yaml:"source,omitempty"`
	Sources   []string   `json:"sources,omitempty" yaml:"sources,omitempty"` // probe order
	UpdatedAt time.Time  `json:"updated_at" yaml:"updated_at"`
}
