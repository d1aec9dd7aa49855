package repository

import (
	"context"
	"database/sql"
	"time"

	"hegel_amplifier/internal/models"
)

// EventQuery selects history entries. Zero fields do not filter.
type EventQuery struct {
	From   time.Time // inclusive
	To     time.Time // inclusive
	Types  []string  // any of
	Status string
	Limit  int // keep only the newest Limit entries
}

type EventRepo interface {
	Append(ctx context.Context, e models.AmplifierEvent) error
	List(ctx context.Context, q EventQuery) ([]models.AmplifierEvent, error)
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}
