package service

import (
	"context"
	"time"

	"hegel_amplifier/internal/logger"
	"hegel_amplifier/internal/models"
)

// PollerService refreshes the amplifier on a fixed cadence.
type PollerService struct {
	amp *AmplifierService
	log *logger.Logger

	// reachable tracks the last poll outcome; UNAVAILABLE is recorded only
	// when it flips from true to false.
	reachable bool
}

func NewPollerService(amp *AmplifierService, log *logger.Logger) *PollerService {
	if log == nil {
		log = logger.Nop()
	}
	return &PollerService{amp: amp, log: log, reachable: true}
}

// Run refreshes once immediately, then every interval until ctx is
// cancelled. A non-positive interval disables polling.
func (p *PollerService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		p.log.Infow("poller_disabled")
		return
	}
	p.poll(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.poll(ctx)
		}
	}
}

func (p *PollerService) poll(ctx context.Context) {
	st, err := p.amp.refresh(ctx)
	if err != nil {
		// ctx ended while waiting for the device
		return
	}

	switch {
	case !st.Available && p.reachable:
		p.log.Warnw("amplifier_unavailable", "device", st.Name)
		p.amp.appendEvent(ctx, models.AmplifierEvent{
			Type:        models.EventUnavailable,
			Description: "Amplifier unreachable",
			Metadata:    map[string]any{"device": st.Name},
		})
	case st.Available && !p.reachable:
		p.log.Infow("amplifier_available", "device", st.Name)
	}
	p.reachable = st.Available
}
