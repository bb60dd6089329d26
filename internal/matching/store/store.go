package store

import (
	"context"
	"database/sql"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCanonical(ctx context.Context, rawCompany string) (string, error) {
	query := `
		SELECT canonical_name
		FROM company_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var canonical string

	err := s.db.QueryRowContext(ctx, query, rawCompany).Scan(&canonical)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}

		return "", fmt.Errorf("finding canonical company: %w", err)
	}

	return canonical, nil
}

func (s *Store) CreateMapping(ctx context.Context, rawPattern, canonicalName string) error {
	query := `
		INSERT INTO company_mappings (raw_pattern, canonical_name, created_at)
		VALUES ($1, $2, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, rawPattern, canonicalName)
	if err != nil {
		return fmt.Errorf("creating company mapping: %w", err)
	}

	return nil
}
