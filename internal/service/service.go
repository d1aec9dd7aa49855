package service

import (
	"context"
	"time"

	"hegel_amplifier/internal/logger"
	"hegel_amplifier/internal/models"
	"hegel_amplifier/internal/repository"
	"hegel_amplifier/internal/transport"
)

// Control sends commands to the amplifier. Transport outcomes are reported
// in the returned Result; the error is reserved for rejected input and for a
// context that ended while waiting for the device.
type Control interface {
	TurnOn(ctx context.Context) (transport.Result, error)
	TurnOff(ctx context.Context) (transport.Result, error)
	VolumeUp(ctx context.Context) (transport.Result, error)
	VolumeDown(ctx context.Context) (transport.Result, error)
	SetVolume(ctx context.Context, p VolumeParams) (transport.Result, error)
	SetMute(ctx context.Context, p MuteParams) (transport.Result, error)
	SelectSource(ctx context.Context, p SourceParams) (transport.Result, error)
}

// Monitoring exposes the cached device state and on-demand refresh.
type Monitoring interface {
	GetState(ctx context.Context) (models.AmplifierState, error)
	Refresh(ctx context.Context) (models.AmplifierState, error)
}

// Discovery rebuilds the source name mapping.
type Discovery interface {
	DiscoverSources(ctx context.Context) ([]string, error)
}

// EventLog exposes append-only history with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AmplifierEvent, error)
}

// Poller runs the background refresh loop. Stop it by cancelling ctx.
type Poller interface {
	Run(ctx context.Context, interval time.Duration)
}

type Service struct {
	Control
	Monitoring
	Discovery
	EventLog
	Poller
}

// NewService wires one amplifier and the event repository into the
// concrete services. All of them share a single device lock.
func NewService(repos *repository.Repository, dev Device, log *logger.Logger) *Service {
	amp := NewAmplifierService(dev, repos.EventRepo, log)
	return &Service{
		Control:    amp,
		Monitoring: amp,
		Discovery:  amp,
		EventLog:   NewEventLogService(repos.EventRepo),
		Poller:     NewPollerService(amp, log),
	}
}
