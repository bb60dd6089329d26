package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
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

// scanContact reads a contact row from the scanner and returns a populated Contact.
// Expected column order: id, name, email, phone, company, tags, notes, created_at, last_contact
func scanContact(s scanner) (*contact.Contact, error) {
	var c contact.Contact

	var tags string

	if err := s.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &tags, &c.Notes,
		&c.CreatedAt, &c.LastContact,
	); err != nil {
		return nil, err
	}

	c.Tags = splitTags(tags)

	return &c, nil
}

const selectContactColumns = `
	c.id, c.name, c.email, c.phone, c.company, c.tags, c.notes,
	c.created_at, c.last_contact
`

func (s *Store) CreateContact(ctx context.Context, c *contact.Contact) error {
	query := `
		INSERT INTO contacts (name, email, phone, company, tags, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		joinTags(c.Tags),
		c.Notes,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating contact: %w", err)
	}

	return nil
}

func (s *Store) GetContact(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	query := `SELECT ` + selectContactColumns + `
		FROM contacts c
		WHERE c.id = $1`

	c, err := scanContact(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, contact.ErrNotFound
		}

		return nil, fmt.Errorf("getting contact: %w", err)
	}

	return c, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*contact.Contact, error) {
	query := `SELECT ` + selectContactColumns + `
		FROM contacts c
		WHERE LOWER(c.email) = LOWER($1)`

	c, err := scanContact(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, contact.ErrNotFound
		}

		return nil, fmt.Errorf("finding contact by email: %w", err)
	}

	return c, nil
}

func (s *Store) ListContacts(ctx context.Context, filter contact.ListFilter) ([]*contact.Contact, error) {
	query := `SELECT ` + selectContactColumns + `
		FROM contacts c
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Company != nil {
		query += fmt.Sprintf(" AND c.company = $%d", argIdx)

		args = append(args, *filter.Company)
		argIdx++
	}

	if filter.Tag != nil {
		query += fmt.Sprintf(" AND c.tags ILIKE '%%' || $%d || '%%'", argIdx)

		args = append(args, *filter.Tag)
		argIdx++
	}

	query += " ORDER BY c.name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*contact.Contact

	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}

		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact rows: %w", err)
	}

	return contacts, nil
}

func (s *Store) UpdateContact(ctx context.Context, c *contact.Contact) error {
	query := `
		UPDATE contacts
		SET name = $1, email = $2, phone = $3, company = $4, tags = $5, notes = $6
		WHERE id = $7
	`

	_, err := s.db.ExecContext(ctx, query,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		joinTags(c.Tags),
		c.Notes,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating contact: %w", err)
	}

	return nil
}

func (s *Store) DeleteContact(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM contacts WHERE id = $1`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}

	return nil
}

// Tags are stored as a comma-joined string, matching the narrow filter
// surface they need (substring match on list).
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}

	var tags []string

	for _, t := range strings.Split(raw, ",") {
		if t != "" {
			tags = append(tags, t)
		}
	}

	return tags
}
