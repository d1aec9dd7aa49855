package service

import "time"

type VolumeParams struct {
	Level float64 // 0..1
}

type MuteParams struct {
	Muted bool
}

type SourceParams struct {
	Name string // a name returned by DiscoverSources
}

// LogFilter selects amplifier history entries.
type LogFilter struct {
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Types  []string  // event types or groups (power, volume, muting, source, device)
	Status string    // command outcome: ok, timeout or unavailable
	Limit  int       // newest N entries; 0 means all, capped at MaxLogLimit
}
