package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pokemon_portal/internal/models"

	"github.com/google/uuid"
)

// EventStore persists sprite events. occurred_at is stored as Unix milliseconds.
type EventStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewEventStore(db *sql.DB, dialect Dialect) *EventStore {
	return &EventStore{db: db, dialect: dialect}
}

var _ EventRepo = (*EventStore)(nil)

const insertEventSQL = `INSERT INTO sprite_events (id, occurred_at, type, message, meta) VALUES (?, ?, ?, ?, ?)`

const selectEventsSQL = `SELECT id, occurred_at, type, message, meta FROM sprite_events`

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventStore) Append(ctx context.Context, e models.SpriteEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	// marshal metadata if present
	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(insertEventSQL),
		e.EventID,
		e.OccurredAt.UTC().UnixMilli(),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert sprite event: %w", err)
	}
	return nil
}

// List returns events filtered by [from, to] (inclusive) and/or type, ordered ASC.
func (r *EventStore) List(ctx context.Context, from, to time.Time, typ string) ([]models.SpriteEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().UnixMilli())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().UnixMilli())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := selectEventsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("query sprite events: %w", err)
	}
	defer rows.Close()

	out := make([]models.SpriteEvent, 0, 64)
	for rows.Next() {
		var (
			ev      models.SpriteEvent
			ms      int64
			metaStr sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &ms, &ev.Type, &ev.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan sprite event: %w", err)
		}
		ev.OccurredAt = time.UnixMilli(ms).UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sprite events: %w", err)
	}
	return out, nil
}
