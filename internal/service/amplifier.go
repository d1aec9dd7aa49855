package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hegel_amplifier/internal/logger"
	"hegel_amplifier/internal/models"
	"hegel_amplifier/internal/repository"
	"hegel_amplifier/internal/transport"
)

// Device is the amplifier driver surface the services use.
// *amplifier.Controller implements it.
type Device interface {
	Refresh(ctx context.Context) bool
	TurnOn(ctx context.Context) transport.Result
	TurnOff(ctx context.Context) transport.Result
	VolumeUp(ctx context.Context) transport.Result
	VolumeDown(ctx context.Context) transport.Result
	SetVolumeLevel(ctx context.Context, level float64) (transport.Result, error)
	MuteVolume(ctx context.Context, mute bool) transport.Result
	SelectSource(ctx context.Context, name string) (transport.Result, error)
	DiscoverSources(ctx context.Context) ([]string, error)
	Snapshot() models.AmplifierState
}

// deviceLock is a one-slot semaphore. Unlike sync.Mutex, waiting for it
// gives up when the caller's context ends.
type deviceLock chan struct{}

func newDeviceLock() deviceLock { return make(deviceLock, 1) }

func (l deviceLock) acquire(ctx context.Context) error {
	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for amplifier: %w", ctx.Err())
	}
}

func (l deviceLock) release() { <-l }

// AmplifierService owns one Device. Every operation holds the device lock
// for its whole wire exchange, so callers never interleave traffic.
type AmplifierService struct {
	dev       Device
	eventRepo repository.EventRepo
	log       *logger.Logger
	lock      deviceLock
	now       func() time.Time
}

func NewAmplifierService(dev Device, eventRepo repository.EventRepo, log *logger.Logger) *AmplifierService {
	if log == nil {
		log = logger.Nop()
	}
	return &AmplifierService{
		dev:       dev,
		eventRepo: eventRepo,
		log:       log,
		lock:      newDeviceLock(),
		now:       time.Now,
	}
}

// withDevice runs fn while holding the device lock.
func (s *AmplifierService) withDevice(ctx context.Context, fn func(dev Device)) error {
	if err := s.lock.acquire(ctx); err != nil {
		return err
	}
	defer s.lock.release()
	fn(s.dev)
	return nil
}

// command runs a fire-and-forget device command and records it.
func (s *AmplifierService) command(ctx context.Context, typ, desc string, meta map[string]any, send func(Device) transport.Result) (transport.Result, error) {
	var res transport.Result
	if err := s.withDevice(ctx, func(dev Device) { res = send(dev) }); err != nil {
		return transport.Result{}, err
	}
	s.record(ctx, typ, desc, res, meta)
	return res, nil
}

func (s *AmplifierService) TurnOn(ctx context.Context) (transport.Result, error) {
	return s.command(ctx, models.EventPowerOn, "Power on", nil, func(dev Device) transport.Result {
		return dev.TurnOn(ctx)
	})
}

func (s *AmplifierService) TurnOff(ctx context.Context) (transport.Result, error) {
	return s.command(ctx, models.EventPowerOff, "Power off", nil, func(dev Device) transport.Result {
		return dev.TurnOff(ctx)
	})
}

func (s *AmplifierService) VolumeUp(ctx context.Context) (transport.Result, error) {
	return s.command(ctx, models.EventVolumeUp, "Volume up", nil, func(dev Device) transport.Result {
		return dev.VolumeUp(ctx)
	})
}

func (s *AmplifierService) VolumeDown(ctx context.Context) (transport.Result, error) {
	return s.command(ctx, models.EventVolumeDown, "Volume down", nil, func(dev Device) transport.Result {
		return dev.VolumeDown(ctx)
	})
}

// SetVolume rejects levels outside [0, 1] with amplifier.ErrVolumeOutOfRange.
func (s *AmplifierService) SetVolume(ctx context.Context, p VolumeParams) (transport.Result, error) {
	var (
		res    transport.Result
		badArg error
	)
	if err := s.withDevice(ctx, func(dev Device) { res, badArg = dev.SetVolumeLevel(ctx, p.Level) }); err != nil {
		return transport.Result{}, err
	}
	if badArg != nil {
		return transport.Result{}, badArg
	}
	s.record(ctx, models.EventVolumeSet, fmt.Sprintf("Volume set to %.2f", p.Level), res, map[string]any{"level": p.Level})
	return res, nil
}

func (s *AmplifierService) SetMute(ctx context.Context, p MuteParams) (transport.Result, error) {
	typ, desc := models.EventUnmute, "Unmute"
	if p.Muted {
		typ, desc = models.EventMute, "Mute"
	}
	return s.command(ctx, typ, desc, nil, func(dev Device) transport.Result {
		return dev.MuteVolume(ctx, p.Muted)
	})
}

// SelectSource rejects names unknown to the last discovery with
// amplifier.ErrUnknownSource; nothing is sent in that case.
func (s *AmplifierService) SelectSource(ctx context.Context, p SourceParams) (transport.Result, error) {
	var (
		res    transport.Result
		badArg error
	)
	if err := s.withDevice(ctx, func(dev Device) { res, badArg = dev.SelectSource(ctx, p.Name) }); err != nil {
		return transport.Result{}, err
	}
	if badArg != nil {
		return transport.Result{}, badArg
	}
	s.record(ctx, models.EventSourceSelect, "Source selected: "+p.Name, res, map[string]any{"source": p.Name})
	return res, nil
}

// record appends a command event carrying its transport outcome. A failed
// append is logged, not returned: the command already reached (or missed)
// the device.
func (s *AmplifierService) record(ctx context.Context, typ, desc string, res transport.Result, meta map[string]any) {
	e := models.AmplifierEvent{Type: typ, Status: res.Status.String(), Description: desc}
	if meta != nil {
		e.Metadata = meta
	}
	s.appendEvent(ctx, e)
}

func (s *AmplifierService) appendEvent(ctx context.Context, e models.AmplifierEvent) {
	if s.eventRepo == nil {
		return
	}
	e.EventID = uuid.NewString()
	e.OccurredAt = s.now().UTC()
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Warnw("event_append_failed", "err", err, "type", e.Type)
	}
}
