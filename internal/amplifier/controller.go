// Package amplifier translates high-level amplifier intents into wire
// commands and parses replies back into cached device state.
//
// A Controller performs no locking. Each method is a self-contained,
// blocking sequence of socket operations; callers that share a Controller
// between goroutines must serialize access themselves.
package amplifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"hegel_amplifier/internal/logger"
	"hegel_amplifier/internal/models"
	"hegel_amplifier/internal/transport"
)

// Caller errors. Transport failures are never reported through these.
var (
	ErrUnknownSource    = errors.New("unknown source")
	ErrVolumeOutOfRange = errors.New("volume level must be within [0, 1]")
	ErrNoSources        = errors.New("no sources discovered")
	ErrUnavailable      = errors.New("amplifier unavailable")
)

// Feature flags advertised to host integrations.
type Feature uint

const (
	FeatureVolumeSet Feature = 1 << iota
	FeatureVolumeMute
	FeatureTurnOn
	FeatureTurnOff
	FeatureSelectSource
)

const supportedFeatures = FeatureVolumeSet | FeatureVolumeMute | FeatureTurnOn | FeatureTurnOff | FeatureSelectSource

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatureVolumeSet, "volume_set"},
	{FeatureVolumeMute, "volume_mute"},
	{FeatureTurnOn, "turn_on"},
	{FeatureTurnOff, "turn_off"},
	{FeatureSelectSource, "select_source"},
}

// Names lists the set flags in declaration order.
func (f Feature) Names() []string {
	var out []string
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			out = append(out, fn.name)
		}
	}
	return out
}

// DefaultDiscoveryTimeout is the budget for one DiscoverSources run.
const DefaultDiscoveryTimeout = 45 * time.Second

// Transport is what the controller needs from the session layer.
// *transport.Client implements it.
type Transport interface {
	Open(ctx context.Context) (*transport.Session, error)
	Fire(ctx context.Context, command string) transport.Result
}

// Controller owns the cached state of one amplifier.
type Controller struct {
	name             string
	tr               Transport
	log              *logger.Logger
	maxSources       int
	discoveryTimeout time.Duration
	now              func() time.Time

	available bool
	updatedAt time.Time

	powerToken  string
	volume      int
	volumeKnown bool
	muted       bool
	mutedKnown  bool
	source      string

	sourceNames    []string // probe order
	sourceToNumber map[string]string
	numberToSource map[string]string
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMaxSources sets how many source indices DiscoverSources probes.
func WithMaxSources(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxSources = n
		}
	}
}

// WithDiscoveryTimeout sets the time budget of DiscoverSources.
func WithDiscoveryTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.discoveryTimeout = d
		}
	}
}

// New builds a controller for the device at p, talking through a
// transport.Client configured with topts.
func New(name string, p transport.Params, log *logger.Logger, topts []transport.Option, opts ...Option) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	if name == "" {
		name = DefaultName
	}
	log = log.With("device", name)
	topts = append([]transport.Option{transport.WithLogger(log)}, topts...)
	return NewWithTransport(name, transport.NewClient(p, topts...), append([]Option{WithLogger(log)}, opts...)...)
}

// NewWithTransport builds a controller over an existing transport.
func NewWithTransport(name string, tr Transport, opts ...Option) *Controller {
	if name == "" {
		name = DefaultName
	}
	c := &Controller{
		name:             name,
		tr:               tr,
		log:              logger.Nop(),
		maxSources:       DefaultMaxSources,
		discoveryTimeout: DefaultDiscoveryTimeout,
		now:              time.Now,

		powerToken:  tokenPowerOff,
		volumeKnown: true,
		mutedKnown:  true,

		sourceToNumber: map[string]string{},
		numberToSource: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh queries power, volume and mute over one session and updates the
// cached state. It returns false only when the session could not be opened,
// in which case the cached fields are left as they were. A missed query
// degrades just that field to unknown.
func (c *Controller) Refresh(ctx context.Context) bool {
	s, err := c.tr.Open(ctx)
	if err != nil {
		c.available = false
		return false
	}
	defer s.Close()

	// Each reply is picked out of the broadcast stream by its prefix.
	power := s.QueryMatch(cmdPowerQuery, transport.HasPrefix(powerReplyPrefix))
	volume := s.QueryMatch(cmdVolumeQuery, transport.HasPrefix(volumeReplyPrefix))
	mute := s.QueryMatch(cmdMuteQuery, transport.HasPrefix(muteReplyPrefix))

	c.powerToken, _ = power.Value()

	if line, ok := volume.Value(); ok {
		c.volume, c.volumeKnown = parseVolume(line)
	} else {
		c.volume, c.volumeKnown = 0, false
	}

	if line, ok := mute.Value(); ok {
		c.muted, c.mutedKnown = parseMuted(line)
	} else {
		c.muted, c.mutedKnown = false, false
	}

	if len(c.numberToSource) > 0 {
		c.source = c.sourceFromReply(s.QueryMatch(cmdSourceQuery, transport.HasPrefix(inputReplyPrefix)))
	}

	c.log.Debugw("amplifier_refreshed",
		"power", power.Line, "power_status", power.Status.String(),
		"volume", volume.Line, "volume_status", volume.Status.String(),
		"mute", mute.Line, "mute_status", mute.Status.String(),
	)

	c.available = true
	c.updatedAt = c.now().UTC()
	return true
}

func (c *Controller) sourceFromReply(res transport.Result) string {
	line, ok := res.Value()
	if !ok {
		return ""
	}
	number, ok := parseSourceNumber(line)
	if !ok {
		return ""
	}
	return c.numberToSource[number]
}

// TurnOn powers the amplifier on. Cached state changes on the next refresh.
func (c *Controller) TurnOn(ctx context.Context) transport.Result {
	return c.tr.Fire(ctx, cmdPowerOn)
}

// TurnOff puts the amplifier in standby.
func (c *Controller) TurnOff(ctx context.Context) transport.Result {
	return c.tr.Fire(ctx, cmdPowerOff)
}

// VolumeUp steps the volume up by the firmware-defined increment.
func (c *Controller) VolumeUp(ctx context.Context) transport.Result {
	return c.tr.Fire(ctx, cmdVolumeUp)
}

// VolumeDown steps the volume down by the firmware-defined increment.
func (c *Controller) VolumeDown(ctx context.Context) transport.Result {
	return c.tr.Fire(ctx, cmdVolumeDown)
}

// SetVolumeLevel sets the absolute volume from a fraction in [0, 1].
func (c *Controller) SetVolumeLevel(ctx context.Context, level float64) (transport.Result, error) {
	if math.IsNaN(level) || level < 0 || level > 1 {
		return transport.Result{}, fmt.Errorf("%w: %v", ErrVolumeOutOfRange, level)
	}
	res := c.tr.Fire(ctx, volumeCommand(level))
	c.log.Infow("amplifier_volume_set", "level", level, "percent", int(level*MaxVolume), "status", res.Status.String())
	return res, nil
}

// MuteVolume mutes (true) or unmutes (false) the amplifier.
func (c *Controller) MuteVolume(ctx context.Context, mute bool) transport.Result {
	if mute {
		return c.tr.Fire(ctx, cmdMuteOn)
	}
	return c.tr.Fire(ctx, cmdMuteOff)
}

// SelectSource switches to the named input. The name must be one found by
// DiscoverSources; anything else is rejected before a command is sent.
func (c *Controller) SelectSource(ctx context.Context, name string) (transport.Result, error) {
	number, ok := c.sourceToNumber[name]
	if !ok {
		return transport.Result{}, fmt.Errorf("%w %q", ErrUnknownSource, name)
	}
	return c.tr.Fire(ctx, number+cmdSelectSourceSuffix), nil
}

// DiscoverSources probes source indices 0..max-1 over one session and
// rebuilds the source name/number mapping. Probing stops when the discovery
// budget runs out; sources found until then are kept and the deadline error
// is returned alongside them. Duplicate names keep their first index.
func (c *Controller) DiscoverSources(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.discoveryTimeout)
	defer cancel()

	s, err := c.tr.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer s.Close()

	var (
		names    []string
		toNumber = map[string]string{}
		toName   = map[string]string{}
		probeErr error
	)
	for i := 0; i < c.maxSources; i++ {
		if err := ctx.Err(); err != nil {
			probeErr = fmt.Errorf("source discovery stopped at index %d: %w", i, err)
			break
		}
		number := sourceNumber(i)
		res := s.QueryMatch(cmdSourceNamePrefix+number, transport.HasPrefix(sourceReplyPrefix))
		if res.Status == transport.StatusUnavailable {
			probeErr = fmt.Errorf("source discovery stopped at index %d: %w", i, ErrUnavailable)
			break
		}
		line, ok := res.Value()
		if !ok {
			continue
		}
		name, ok := parseSourceName(line)
		if !ok {
			continue
		}
		if _, dup := toNumber[name]; dup {
			continue
		}
		names = append(names, name)
		toNumber[name] = number
		toName[number] = name
	}

	if len(names) == 0 {
		if probeErr != nil {
			return nil, probeErr
		}
		return nil, ErrNoSources
	}

	c.sourceNames = names
	c.sourceToNumber = toNumber
	c.numberToSource = toName
	c.log.Infow("amplifier_sources_discovered", "count", len(names), "sources", names, "complete", probeErr == nil)

	return c.SourceList(), probeErr
}

// Name returns the display name.
func (c *Controller) Name() string { return c.name }

// Available reports whether the last refresh reached the device.
func (c *Controller) Available() bool { return c.available }

// PowerState returns the cached power state.
func (c *Controller) PowerState() models.PowerState { return powerStateFor(c.powerToken) }

// Volume returns the cached 0..100 volume and whether it is known.
func (c *Controller) Volume() (int, bool) { return c.volume, c.volumeKnown }

// VolumeLevel returns the cached volume as a 0..1 fraction.
func (c *Controller) VolumeLevel() (float64, bool) {
	if !c.volumeKnown {
		return 0, false
	}
	return float64(c.volume) / MaxVolume, true
}

// IsMuted returns the cached mute flag and whether it is known.
func (c *Controller) IsMuted() (bool, bool) { return c.muted, c.mutedKnown }

// Source returns the selected source name, empty when unknown.
func (c *Controller) Source() string { return c.source }

// SourceList returns discovered source names in probe order.
func (c *Controller) SourceList() []string {
	out := make([]string, len(c.sourceNames))
	copy(out, c.sourceNames)
	return out
}

// SupportedFeatures returns the operations this driver implements.
func (c *Controller) SupportedFeatures() Feature { return supportedFeatures }

// Snapshot copies the cached state into a serializable value.
func (c *Controller) Snapshot() models.AmplifierState {
	st := models.AmplifierState{
		Name:      c.name,
		Available: c.available,
		Power:     c.PowerState(),
		Source:    c.source,
		Sources:   c.SourceList(),
		UpdatedAt: c.updatedAt,
	}
	if v, ok := c.Volume(); ok {
		st.Volume = &v
	}
	if m, ok := c.IsMuted(); ok {
		st.Muted = &m
	}
	return st
}
