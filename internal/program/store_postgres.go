package program

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "sajag/pkg/domain"
	"sajag/pkg/platform/sentinel"
)

// PostgresStore persists training programs in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE training_programs (
//	    id             TEXT PRIMARY KEY,
//	    title          TEXT NOT NULL,
//	    theme          TEXT NOT NULL,
//	    status         TEXT NOT NULL,
//	    state          TEXT NOT NULL,
//	    district       TEXT NOT NULL,
//	    start_date     TIMESTAMPTZ NOT NULL,
//	    end_date       TIMESTAMPTZ NOT NULL,
//	    participants   INTEGER NOT NULL DEFAULT 0,
//	    feedback_score DOUBLE PRECISION,
//	    description    TEXT NOT NULL DEFAULT '',
//	    address        TEXT NOT NULL DEFAULT '',
//	    partner_id     TEXT REFERENCES training_partners(id),
//	    latitude       DOUBLE PRECISION,
//	    longitude      DOUBLE PRECISION,
//	    created_by_id  UUID NOT NULL REFERENCES users(id),
//	    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const programColumns = `
	p.id, p.title, p.theme, p.status, p.state, p.district,
	p.start_date, p.end_date, p.participants, p.feedback_score,
	p.description, p.address, p.partner_id, COALESCE(pt.name, ''),
	p.latitude, p.longitude, p.created_by_id, p.created_at, p.updated_at`

func (s *PostgresStore) List(ctx context.Context) ([]TrainingProgram, error) {
	query := `
		SELECT ` + programColumns + `
		FROM training_programs p
		LEFT JOIN training_partners pt ON pt.id = p.partner_id
		ORDER BY p.created_at, p.id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var out []TrainingProgram
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, programID id.ProgramID) (*TrainingProgram, error) {
	query := `
		SELECT ` + programColumns + `
		FROM training_programs p
		LEFT JOIN training_partners pt ON pt.id = p.partner_id
		WHERE p.id = $1
	`
	p, err := scanProgram(s.db.QueryRowContext(ctx, query, programID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get program: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *TrainingProgram) error {
	query := `
		INSERT INTO training_programs (
			id, title, theme, status, state, district, start_date, end_date,
			participants, feedback_score, description, address, partner_id,
			latitude, longitude, created_by_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`
	var lat, lon *float64
	if p.Location != nil {
		lat, lon = &p.Location.Lat, &p.Location.Lon
	}
	_, err := s.db.ExecContext(ctx, query,
		p.ID.String(), p.Title, p.Theme, string(p.Status), p.State, p.District,
		p.StartDate, p.EndDate, p.Participants, p.FeedbackScore,
		p.Description, p.Address, nullablePartner(p.PartnerID),
		lat, lon, uuid.UUID(p.CreatedByID), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *TrainingProgram) error {
	query := `
		UPDATE training_programs SET
			title = $2, theme = $3, status = $4, state = $5, district = $6,
			start_date = $7, end_date = $8, participants = $9,
			feedback_score = $10, description = $11, address = $12,
			partner_id = $13, latitude = $14, longitude = $15, updated_at = $16
		WHERE id = $1
	`
	var lat, lon *float64
	if p.Location != nil {
		lat, lon = &p.Location.Lat, &p.Location.Lon
	}
	res, err := s.db.ExecContext(ctx, query,
		p.ID.String(), p.Title, p.Theme, string(p.Status), p.State, p.District,
		p.StartDate, p.EndDate, p.Participants, p.FeedbackScore,
		p.Description, p.Address, nullablePartner(p.PartnerID),
		lat, lon, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, programID id.ProgramID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM training_programs WHERE id = $1`, programID.String())
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteMany(ctx context.Context, programIDs []id.ProgramID) (int, error) {
	if len(programIDs) == 0 {
		return 0, nil
	}
	raw := make([]string, len(programIDs))
	for i, pid := range programIDs {
		raw[i] = pid.String()
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM training_programs WHERE id = ANY($1::text[])`, pq.Array(raw))
	if err != nil {
		return 0, fmt.Errorf("bulk delete programs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk delete programs: %w", err)
	}
	return int(affected), nil
}

func nullablePartner(partnerID id.PartnerID) any {
	if partnerID == "" {
		return nil
	}
	return partnerID.String()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgram(row rowScanner) (*TrainingProgram, error) {
	var (
		p         TrainingProgram
		status    string
		partnerID sql.NullString
		lat, lon  sql.NullFloat64
		createdBy uuid.UUID
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Theme, &status, &p.State, &p.District,
		&p.StartDate, &p.EndDate, &p.Participants, &p.FeedbackScore,
		&p.Description, &p.Address, &partnerID, &p.PartnerName,
		&lat, &lon, &createdBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = Status(status)
	if partnerID.Valid {
		p.PartnerID = id.PartnerID(partnerID.String)
	}
	if lat.Valid && lon.Valid {
		p.Location = &Location{Lat: lat.Float64, Lon: lon.Float64}
	}
	p.CreatedByID = id.UserID(createdBy)
	return &p, nil
}
