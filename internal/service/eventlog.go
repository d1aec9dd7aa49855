package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hegel_amplifier/internal/models"
	"hegel_amplifier/internal/repository"
	"hegel_amplifier/internal/transport"
)

// MaxLogLimit caps how many history entries one List call returns.
const MaxLogLimit = 1000

// Filter errors. Handlers report them as bad requests.
var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrUnknownStatus    = errors.New("unknown command status")
	ErrInvalidLimit     = errors.New("limit must not be negative")
)

// eventGroups lets a filter name a family of events instead of spelling
// out each type.
var eventGroups = map[string][]string{
	"POWER":  {models.EventPowerOn, models.EventPowerOff},
	"VOLUME": {models.EventVolumeUp, models.EventVolumeDown, models.EventVolumeSet},
	"MUTING": {models.EventMute, models.EventUnmute},
	"SOURCE": {models.EventSourceSelect, models.EventDiscovery},
	"DEVICE": {models.EventRefresh, models.EventUnavailable},
}

var commandStatuses = []transport.Status{transport.StatusOK, transport.StatusTimeout, transport.StatusUnavailable}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List validates f and returns the matching history, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.AmplifierEvent, error) {
	q, err := f.query()
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, q)
}

func (f LogFilter) query() (repository.EventQuery, error) {
	var q repository.EventQuery

	if !f.From.IsZero() {
		q.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		q.To = f.To.UTC()
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return q, ErrInvalidTimeRange
	}

	types, err := expandEventTypes(f.Types)
	if err != nil {
		return q, err
	}
	q.Types = types

	if q.Status, err = parseCommandStatus(f.Status); err != nil {
		return q, err
	}

	switch {
	case f.Limit < 0:
		return q, ErrInvalidLimit
	case f.Limit > MaxLogLimit:
		q.Limit = MaxLogLimit
	default:
		q.Limit = f.Limit
	}
	return q, nil
}

// expandEventTypes resolves event types and group names, case-insensitively,
// into a de-duplicated type list in first-seen order.
func expandEventTypes(names []string) ([]string, error) {
	var (
		out  []string
		seen = map[string]bool{}
	)
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, raw := range names {
		name := strings.ToUpper(strings.TrimSpace(raw))
		switch {
		case name == "":
		case models.IsEventType(name):
			add(name)
		case eventGroups[name] != nil:
			for _, t := range eventGroups[name] {
				add(t)
			}
		default:
			return nil, fmt.Errorf("%w %q", ErrUnknownEventType, raw)
		}
	}
	return out, nil
}

func parseCommandStatus(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", nil
	}
	for _, st := range commandStatuses {
		if s == st.String() {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStatus, raw)
}
