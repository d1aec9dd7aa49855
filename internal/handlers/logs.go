package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hegel_amplifier/internal/service"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	errLogs = "failed to load history"
)

// historyQuery is the query string of GET /api/v1/logs.
type historyQuery struct {
	From   string   `form:"from"`
	To     string   `form:"to"`
	Types  []string `form:"type"`
	Status string   `form:"status"`
	Limit  int      `form:"limit"`
}

// filter converts the raw query into a service filter. A date-only "to"
// covers the whole day.
func (q historyQuery) filter() (service.LogFilter, error) {
	f := service.LogFilter{Status: q.Status, Limit: q.Limit}

	var err error
	if q.From != "" {
		if f.From, err = parseQueryTime(q.From); err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
	}
	if q.To != "" {
		if f.To, err = parseQueryTime(q.To); err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		if !strings.ContainsAny(q.To, "T ") {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	// ?type=power,volume_set&type=mute
	for _, t := range q.Types {
		f.Types = append(f.Types, strings.Split(t, ",")...)
	}
	return f, nil
}

// @Summary      Amplifier history
// @Description  Commands, refreshes, discoveries and outages recorded since the daemon started, oldest first. Times accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers that whole day.
// @Tags         logs
// @Produce      json
// @Param        from    query  string    false  "Start of range"  example(2025-08-01)
// @Param        to      query  string    false  "End of range"    example(2025-08-31)
// @Param        type    query  []string  false  "Event types or groups (power, volume, muting, source, device); repeat or comma-separate"  collectionFormat(multi)
// @Param        status  query  string    false  "Command outcome"  Enums(ok,timeout,unavailable)
// @Param        limit   query  int       false  "Newest N entries (max 1000)"
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	var q historyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
		return
	}
	f, err := q.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	switch {
	case isFilterError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errLogs, "history_list_failed", err,
			"types", f.Types, "status", f.Status)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func isFilterError(err error) bool {
	return errors.Is(err, service.ErrInvalidTimeRange) ||
		errors.Is(err, service.ErrUnknownEventType) ||
		errors.Is(err, service.ErrUnknownStatus) ||
		errors.Is(err, service.ErrInvalidLimit)
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}
