package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hegel_amplifier/internal/models"
)

// sqliteTimestamp is the TIMESTAMP text layout the driver parses back.
const sqliteTimestamp = "2006-01-02 15:04:05.000"

const eventColumns = "id, occurred_at, type, status, message, meta"

// EventSQLite stores amplifier history in the amplifier_events table.
type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts one history entry. An empty EventID or zero OccurredAt is
// filled in; type and status are stored in their canonical case.
func (r *EventSQLite) Append(ctx context.Context, e models.AmplifierEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	meta, err := encodeMetadata(e.Metadata)
	if err != nil {
		return fmt.Errorf("encoding %s metadata: %w", e.Type, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO amplifier_events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.EventID,
		e.OccurredAt.UTC().Format(sqliteTimestamp),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		strings.ToLower(strings.TrimSpace(e.Status)),
		e.Description,
		meta,
	)
	return err
}

// List returns the entries selected by q, oldest first. With a Limit the
// newest Limit entries are kept.
func (r *EventSQLite) List(ctx context.Context, q EventQuery) ([]models.AmplifierEvent, error) {
	where, args := q.where()
	stmt := `SELECT ` + eventColumns + ` FROM amplifier_events` + where + ` ORDER BY occurred_at DESC, rowid DESC`
	if q.Limit > 0 {
		stmt += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AmplifierEvent
	for rows.Next() {
		var (
			ev   models.AmplifierEvent
			meta sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Status, &ev.Description, &meta); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		ev.Metadata = decodeMetadata(meta)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (q EventQuery) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !q.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, q.From.UTC().Format(sqliteTimestamp))
	}
	if !q.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, q.To.UTC().Format(sqliteTimestamp))
	}
	if len(q.Types) > 0 {
		conds = append(conds, "type IN (?"+strings.Repeat(", ?", len(q.Types)-1)+")")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	if q.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, q.Status)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func encodeMetadata(meta any) (*string, error) {
	if meta == nil {
		return nil, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// decodeMetadata returns the stored object, or the raw text when it is not
// valid JSON.
func decodeMetadata(meta sql.NullString) any {
	if !meta.Valid || meta.String == "" {
		return nil
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(meta.String), &v); err != nil {
		return meta.String
	}
	return v
}
