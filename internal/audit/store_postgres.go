package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE audit_events (
//	    id         BIGSERIAL PRIMARY KEY,
//	    timestamp  TIMESTAMPTZ NOT NULL,
//	    actor_id   TEXT NOT NULL,
//	    role       TEXT NOT NULL DEFAULT '',
//	    action     TEXT NOT NULL,
//	    entity     TEXT NOT NULL DEFAULT '',
//	    entity_id  TEXT NOT NULL DEFAULT '',
//	    detail     TEXT NOT NULL DEFAULT '',
//	    request_id TEXT NOT NULL DEFAULT ''
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (timestamp, actor_id, role, action, entity, entity_id, detail, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.Timestamp, event.ActorID, event.Role, string(event.Action),
		event.Entity, event.EntityID, event.Detail, event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT timestamp, actor_id, role, action, entity, entity_id, detail, request_id
		FROM audit_events
		ORDER BY timestamp DESC, id DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var action string
		if err := rows.Scan(&e.Timestamp, &e.ActorID, &e.Role, &action, &e.Entity, &e.EntityID, &e.Detail, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = Action(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return out, nil
}
