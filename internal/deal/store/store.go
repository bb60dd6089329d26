package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanDeal reads a deal row from the scanner and returns a populated Deal.
// Expected column order: id, contact_id, title, value, stage, probability, expected_close, notes, created_at, updated_at
func scanDeal(s scanner) (*deal.Deal, error) {
	var d deal.Deal

	var stageStr string

	if err := s.Scan(
		&d.ID, &d.ContactID, &d.Title, &d.Value, &stageStr, &d.Probability,
		&d.ExpectedClose, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.Stage = deal.Stage(stageStr)

	return &d, nil
}

const selectDealColumns = `
	d.id, d.contact_id, d.title, d.value, d.stage, d.probability,
	d.expected_close, d.notes, d.created_at, d.updated_at
`

func (s *Store) CreateDeal(ctx context.Context, d *deal.Deal) error {
	query := `
		INSERT INTO deals (contact_id, title, value, stage, probability, expected_close, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		d.ContactID,
		d.Title,
		d.Value,
		d.Stage,
		d.Probability,
		d.ExpectedClose,
		d.Notes,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating deal: %w", err)
	}

	return nil
}

func (s *Store) GetDeal(ctx context.Context, id uuid.UUID) (*deal.Deal, error) {
	query := `SELECT ` + selectDealColumns + `
		FROM deals d
		WHERE d.id = $1`

	d, err := scanDeal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, deal.ErrNotFound
		}

		return nil, fmt.Errorf("getting deal: %w", err)
	}

	return d, nil
}

func (s *Store) ListDeals(ctx context.Context, filter deal.ListFilter) ([]*deal.Deal, error) {
	query := `SELECT ` + selectDealColumns + `
		FROM deals d
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.ContactID != nil {
		query += fmt.Sprintf(" AND d.contact_id = $%d", argIdx)

		args = append(args, *filter.ContactID)
		argIdx++
	}

	if filter.Stage != nil {
		query += fmt.Sprintf(" AND d.stage = $%d", argIdx)

		args = append(args, *filter.Stage)
		argIdx++
	}

	if filter.Open != nil {
		if *filter.Open {
			query += " AND d.stage NOT IN ('won', 'lost')"
		} else {
			query += " AND d.stage IN ('won', 'lost')"
		}
	}

	query += " ORDER BY d.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	defer rows.Close()

	var deals []*deal.Deal

	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deal: %w", err)
		}

		deals = append(deals, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deal rows: %w", err)
	}

	return deals, nil
}

func (s *Store) UpdateDeal(ctx context.Context, d *deal.Deal) error {
	query := `
		UPDATE deals
		SET title = $1, value = $2, expected_close = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
	`

	_, err := s.db.ExecContext(ctx, query,
		d.Title,
		d.Value,
		d.ExpectedClose,
		d.Notes,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating deal: %w", err)
	}

	return nil
}

// UpdateStage writes the stage and probability pair in a single statement
// so the two can never drift apart.
func (s *Store) UpdateStage(ctx context.Context, id uuid.UUID, stage deal.Stage, probability float64) error {
	query := `
		UPDATE deals
		SET stage = $1, probability = $2, updated_at = NOW()
		WHERE id = $3
	`

	_, err := s.db.ExecContext(ctx, query, stage, probability, id)
	if err != nil {
		return fmt.Errorf("updating stage: %w", err)
	}

	return nil
}

// CountOpenDeals reports how many non-terminal deals reference a contact.
func (s *Store) CountOpenDeals(ctx context.Context, contactID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM deals
		WHERE contact_id = $1 AND stage NOT IN ('won', 'lost')
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, contactID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting open deals: %w", err)
	}

	return count, nil
}
