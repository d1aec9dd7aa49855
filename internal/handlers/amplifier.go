package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hegel_amplifier/internal/amplifier"
	"hegel_amplifier/internal/service"
	"hegel_amplifier/internal/transport"
)

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
	statusPartial     = "partial"

	commandPowerOn      = "power_on"
	commandPowerOff     = "power_off"
	commandVolumeUp     = "volume_up"
	commandVolumeDown   = "volume_down"
	commandVolumeSet    = "volume_set"
	commandMute         = "mute"
	commandUnmute       = "unmute"
	commandSourceSelect = "source_select"

	errGetState        = "failed to load state"
	errRefresh         = "failed to refresh state"
	errCommand         = "failed to send command"
	errDeviceBusy      = "amplifier busy, try again"
	errDiscovery       = "source discovery failed"
	errNoSources       = "no sources discovered"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// httpStatusFor maps a transport outcome to a response code.
func httpStatusFor(res transport.Result) int {
	switch res.Status {
	case transport.StatusOK:
		return http.StatusOK
	case transport.StatusTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusServiceUnavailable
	}
}

// respondWithResult reports a command outcome and includes the cached state
// when it can be read.
func (h *Handler) respondWithResult(c *gin.Context, command string, res transport.Result) {
	resp := gin.H{"command": command, "status": res.Status.String()}
	if st, err := h.services.Monitoring.GetState(c.Request.Context()); err == nil {
		resp["state"] = st
	}
	c.JSON(httpStatusFor(res), resp)
}

// respondCommandError maps service errors: rejected input is the caller's
// fault, a context that ended while queued behind another operation means busy.
func (h *Handler) respondCommandError(c *gin.Context, command string, err error) {
	switch {
	case errors.Is(err, amplifier.ErrVolumeOutOfRange), errors.Is(err, amplifier.ErrUnknownSource):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.logAndJSONError(c, http.StatusServiceUnavailable, errDeviceBusy, "amplifier_command_busy", err, "command", command)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errCommand, "amplifier_command_failed", err, "command", command)
	}
}

func (h *Handler) runCommand(c *gin.Context, command string, send func(ctx context.Context) (transport.Result, error)) {
	res, err := send(c.Request.Context())
	if err != nil {
		h.respondCommandError(c, command, err)
		return
	}
	if !res.IsOK() && h.log != nil {
		h.log.Warnw("amplifier_command_not_delivered", "command", command, "status", res.Status.String())
	}
	h.respondWithResult(c, command, res)
}

type volumeRequest struct {
	Level *float64 `json:"level" binding:"required"`
}

type muteRequest struct {
	Muted *bool `json:"muted" binding:"required"`
}

type sourceRequest struct {
	Source string `json:"source" binding:"required"`
}

// SetVolumeRequest is an exported model for Swagger docs of the setVolume payload.
type SetVolumeRequest struct {
	// Absolute volume as a fraction, 0 to 1. Truncated to whole percent.
	Level float64 `json:"level" example:"0.42"`
}

// SetMuteRequest is an exported model for Swagger docs of the setMute payload.
type SetMuteRequest struct {
	Muted bool `json:"muted" example:"true"`
}

// SelectSourceRequest is an exported model for Swagger docs of the selectSource payload.
type SelectSourceRequest struct {
	// A name returned by source discovery.
	Source string `json:"source" example:"CD"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get cached amplifier state
// @Description  Returns the state captured by the last refresh. Does not contact the device.
// @Tags         amplifier
// @Produce      json
// @Success      200  {object}  models.AmplifierState
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/amplifier/state [get]
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusServiceUnavailable, errGetState, "amplifier_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Refresh amplifier state
// @Description  Queries power, volume and mute. 503 with the stale state when the device is unreachable.
// @Tags         amplifier
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      503  {object}  map[string]interface{}
// @Router       /api/v1/amplifier/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	st, err := h.services.Monitoring.Refresh(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusServiceUnavailable, errRefresh, "amplifier_refresh_failed", err)
		return
	}
	if !st.Available {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": statusUnavailable, "state": st})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "state": st})
}

// @Summary      Power on
// @Tags         amplifier
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "command, status, state"
// @Failure      503  {object}  map[string]interface{}
// @Failure      504  {object}  map[string]interface{}
// @Router       /api/v1/amplifier/power/on [post]
func (h *Handler) powerOn(c *gin.Context) {
	h.runCommand(c, commandPowerOn, h.services.Control.TurnOn)
}

// @Summary      Power off (standby)
// @Tags         amplifier
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "command, status, state"
// @Failure      503  {object}  map[string]interface{}
// @Failure      504  {object}  map[string]interface{}
// @Router       /api/v1/amplifier/power/off [post]
func (h *Handler) powerOff(c *gin.Context) {
	h.runCommand(c, commandPowerOff, h.services.Control.TurnOff)
}

// @Summary      Step volume up
// @Tags         amplifier
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "command, status, state"
// @Failure      503  {object}  map[string]interface{}
// @Router       /api/v1/amplifier/volume/up [post]
func (h *Handler) volumeUp(c *gin.Context) {
	h.runCommand(c, commandVolumeUp, h.services.Control.VolumeUp)
}

// @Summary      Step volume down
// @Tags         amplifier
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "command, status, state"
// @Failure      503  {object}  map[string]interface{}
// @Router       /api/v1/amplifier/volume/down [post]
func (h *Handler) volumeDown(c *gin.Context) {
	h.runCommand(c, commandVolumeDown, h.services.Control.VolumeDown)
}

// @Summary      Set absolute volume
// @Tags         amplifier
// @Accept       json
// @Produce      json
// @Param        body  body      SetVolumeRequest  true  "Volume payload"
// @Success      200   {object}  map[string]interface{}  "command, status, state"
// @Failure      400   {object}  map[string]string
// @Failure      503   {object}  map[string]interface{}
// @Router       /api/v1/amplifier/volume [put]
func (h *Handler) setVolume(c *gin.Context) {
	var req volumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	h.runCommand(c, commandVolumeSet, func(ctx context.Context) (transport.Result, error) {
		return h.services.Control.SetVolume(ctx, service.VolumeParams{Level: *req.Level})
	})
}

// @Summary      Mute or unmute
// @Tags         amplifier
// @Accept       json
// @Produce      json
// @Param        body  body      SetMuteRequest  true  "Mute payload"
// @Success      200   {object}  map[string]interface{}  "command, status, state"
// @Failure      400   {object}  map[string]string
// @Failure      503   {object}  map[string]interface{}
// @Router       /api/v1/amplifier/mute [put]
func (h *Handler) setMute(c *gin.Context) {
	var req muteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	command := commandUnmute
	if *req.Muted {
		command = commandMute
	}
	h.runCommand(c, command, func(ctx context.Context) (transport.Result, error) {
		return h.services.Control.SetMute(ctx, service.MuteParams{Muted: *req.Muted})
	})
}

// @Summary      Select input source
// @Description  The name must come from a previous source discovery.
// @Tags         amplifier
// @Accept       json
// @Produce      json
// @Param        body  body      SelectSourceRequest  true  "Source payload"
// @Success      200   {object}  map[string]interface{}  "command, status, state"
// @Failure      400   {object}  map[string]string
// @Failure      503   {object}  map[string]interface{}
// @Router       /api/v1/amplifier/source [put]
func (h *Handler) selectSource(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	h.runCommand(c, commandSourceSelect, func(ctx context.Context) (transport.Result, error) {
		return h.services.Control.SelectSource(ctx, service.SourceParams{Name: req.Source})
	})
}

// @Summary      Discover input sources
// @Description  Probes the device for input names. Slow: may take the whole discovery budget.
// @Tags         amplifier
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, complete, sources"
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/amplifier/sources/discover [post]
func (h *Handler) discoverSources(c *gin.Context) {
	names, err := h.services.Discovery.DiscoverSources(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": statusOK, "complete": true, "sources": names})
	case len(names) > 0:
		c.JSON(http.StatusOK, gin.H{"status": statusPartial, "complete": false, "sources": names, "error": err.Error()})
	case errors.Is(err, amplifier.ErrNoSources):
		c.JSON(http.StatusNotFound, gin.H{"error": errNoSources})
	case errors.Is(err, amplifier.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.logAndJSONError(c, http.StatusServiceUnavailable, errDiscovery, "amplifier_discovery_failed", err)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errDiscovery, "amplifier_discovery_failed", err)
	}
}
