package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/interaction"
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

// scanInteraction reads an interaction row from the scanner.
// Expected column order: id, contact_id, deal_id, type, notes, outcome, occurred_at
func scanInteraction(s scanner) (*interaction.Interaction, error) {
	var ix interaction.Interaction

	var typeStr string

	if err := s.Scan(
		&ix.ID, &ix.ContactID, &ix.DealID, &typeStr, &ix.Notes, &ix.Outcome,
		&ix.OccurredAt,
	); err != nil {
		return nil, err
	}

	ix.Type = interaction.Type(typeStr)

	return &ix, nil
}

const selectInteractionColumns = `
	i.id, i.contact_id, i.deal_id, i.type, i.notes, i.outcome, i.occurred_at
`

// CreateInteraction inserts the interaction and bumps the contact's
// last_contact timestamp. Both writes run in one database transaction so
// the last_contact invariant cannot be observed half-applied.
func (s *Store) CreateInteraction(ctx context.Context, ix *interaction.Interaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertQuery := `
		INSERT INTO interactions (contact_id, deal_id, type, notes, outcome, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err = dbTx.QueryRowContext(ctx, insertQuery,
		ix.ContactID,
		ix.DealID,
		ix.Type,
		ix.Notes,
		ix.Outcome,
		ix.OccurredAt,
	).Scan(&ix.ID)
	if err != nil {
		return fmt.Errorf("creating interaction: %w", err)
	}

	// last_contact only ever moves forward.
	touchQuery := `
		UPDATE contacts
		SET last_contact = $1
		WHERE id = $2 AND (last_contact IS NULL OR last_contact < $1)
	`
	if _, err := dbTx.ExecContext(ctx, touchQuery, ix.OccurredAt, ix.ContactID); err != nil {
		return fmt.Errorf("updating last contact: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) ListInteractions(ctx context.Context, filter interaction.ListFilter) ([]*interaction.Interaction, error) {
	query := `SELECT ` + selectInteractionColumns + `
		FROM interactions i
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.ContactID != nil {
		query += fmt.Sprintf(" AND i.contact_id = $%d", argIdx)

		args = append(args, *filter.ContactID)
		argIdx++
	}

	if filter.DealID != nil {
		query += fmt.Sprintf(" AND i.deal_id = $%d", argIdx)

		args = append(args, *filter.DealID)
		argIdx++
	}

	query += " ORDER BY i.occurred_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
		argIdx++
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}
	defer rows.Close()

	var interactions []*interaction.Interaction

	for rows.Next() {
		ix, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}

		interactions = append(interactions, ix)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interaction rows: %w", err)
	}

	return interactions, nil
}
