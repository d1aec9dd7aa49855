package service

import (
	"context"

	"hegel_amplifier/internal/models"
)

// GetState returns the cached snapshot without touching the network. It
// still waits for the device lock so it never observes a half-applied refresh.
func (s *AmplifierService) GetState(ctx context.Context) (models.AmplifierState, error) {
	var st models.AmplifierState
	if err := s.withDevice(ctx, func(dev Device) { st = dev.Snapshot() }); err != nil {
		return models.AmplifierState{}, err
	}
	return st, nil
}

// Refresh queries the device and returns the updated snapshot. An unreachable
// device is not an error: the snapshot reports Available=false.
func (s *AmplifierService) Refresh(ctx context.Context) (models.AmplifierState, error) {
	st, err := s.refresh(ctx)
	if err != nil {
		return models.AmplifierState{}, err
	}
	s.appendEvent(ctx, models.AmplifierEvent{
		Type:        models.EventRefresh,
		Description: "State refreshed",
		Metadata:    map[string]any{"available": st.Available},
	})
	return st, nil
}

func (s *AmplifierService) refresh(ctx context.Context) (models.AmplifierState, error) {
	var st models.AmplifierState
	err := s.withDevice(ctx, func(dev Device) {
		dev.Refresh(ctx)
		st = dev.Snapshot()
	})
	return st, err
}
