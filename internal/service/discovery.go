package service

import (
	"context"
	"errors"

	"hegel_amplifier/internal/amplifier"
	"hegel_amplifier/internal/models"
)

// DiscoverSources probes the device for its input names. It can hold the
// device lock for the whole discovery budget. A partial result comes back
// together with the error that cut the probe short.
func (s *AmplifierService) DiscoverSources(ctx context.Context) ([]string, error) {
	var (
		names []string
		err   error
	)
	if lockErr := s.withDevice(ctx, func(dev Device) { names, err = dev.DiscoverSources(ctx) }); lockErr != nil {
		return nil, lockErr
	}

	switch {
	case err == nil:
		s.log.Infow("sources_discovered", "count", len(names))
	case len(names) > 0:
		s.log.Warnw("sources_discovery_incomplete", "err", err, "count", len(names))
	case errors.Is(err, amplifier.ErrNoSources):
		s.log.Warnw("sources_discovery_empty")
	default:
		s.log.Errorw("sources_discovery_failed", "err", err)
	}

	meta := map[string]any{"count": len(names), "sources": names, "complete": err == nil}
	if err != nil {
		meta["error"] = err.Error()
	}
	s.appendEvent(ctx, models.AmplifierEvent{Type: models.EventDiscovery, Description: "Source discovery", Metadata: meta})
	return names, err
}
