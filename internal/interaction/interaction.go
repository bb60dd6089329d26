package interaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalid wraps interaction validation failures.
	ErrInvalid = errors.New("invalid interaction")

	// ErrDealMismatch is returned when the referenced deal belongs to a
	// different contact.
	ErrDealMismatch = errors.New("deal does not belong to contact")
)

// Type describes how the contact was reached. The set is open; these are
// the conventional values.
type Type string

const (
	TypeCall    Type = "call"
	TypeEmail   Type = "email"
	TypeMeeting Type = "meeting"
	TypeDemo    Type = "demo"
	TypeNote    Type = "note"
)

// Interaction is one logged touchpoint with a contact. Interactions are
// append-only: created once, never edited or deleted.
type Interaction struct {
	ID         uuid.UUID
	ContactID  uuid.UUID
	DealID     *uuid.UUID
	Type       Type
	Notes      string
	Outcome    string
	OccurredAt time.Time
}
