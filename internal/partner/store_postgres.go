package partner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "sajag/pkg/domain"
	"sajag/pkg/platform/sentinel"
)

// PostgresStore persists training partners in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE training_partners (
//	    id             TEXT PRIMARY KEY,
//	    name           TEXT NOT NULL UNIQUE,
//	    type           TEXT NOT NULL,
//	    contact_person TEXT NOT NULL DEFAULT '',
//	    contact_email  TEXT NOT NULL DEFAULT '',
//	    contact_phone  TEXT NOT NULL DEFAULT '',
//	    address        TEXT NOT NULL DEFAULT '',
//	    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const partnerColumns = `
	pt.id, pt.name, pt.type, pt.contact_person, pt.contact_email,
	pt.contact_phone, pt.address,
	(SELECT COUNT(*) FROM training_programs p WHERE p.partner_id = pt.id),
	pt.created_at, pt.updated_at`

func (s *PostgresStore) List(ctx context.Context, partnerType Type) ([]TrainingPartner, error) {
	query := `
		SELECT ` + partnerColumns + `
		FROM training_partners pt
		WHERE ($1 = '' OR pt.type = $1)
		ORDER BY pt.name
	`
	rows, err := s.db.QueryContext(ctx, query, string(partnerType))
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var out []TrainingPartner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, partnerID id.PartnerID) (*TrainingPartner, error) {
	query := `SELECT ` + partnerColumns + ` FROM training_partners pt WHERE pt.id = $1`
	p, err := scanPartner(s.db.QueryRowContext(ctx, query, partnerID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *TrainingPartner) error {
	query := `
		INSERT INTO training_partners (id, name, type, contact_person, contact_email, contact_phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID.String(), p.Name, string(p.Type), p.ContactPerson,
		p.ContactEmail, p.ContactPhone, p.Address, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create partner: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *TrainingPartner) error {
	query := `
		UPDATE training_partners SET
			name = $2, type = $3, contact_person = $4, contact_email = $5,
			contact_phone = $6, address = $7, updated_at = $8
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		p.ID.String(), p.Name, string(p.Type), p.ContactPerson,
		p.ContactEmail, p.ContactPhone, p.Address, p.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update partner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, partnerID id.PartnerID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM training_partners WHERE id = $1`, partnerID.String())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return sentinel.ErrInvalidState
		}
		return fmt.Errorf("delete partner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete partner: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanPartner(row interface{ Scan(dest ...any) error }) (*TrainingPartner, error) {
	var (
		p     TrainingPartner
		ptype string
	)
	err := row.Scan(
		&p.ID, &p.Name, &ptype, &p.ContactPerson, &p.ContactEmail,
		&p.ContactPhone, &p.Address, &p.ProgramsCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Type = Type(ptype)
	return &p, nil
}
