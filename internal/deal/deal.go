package deal

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a deal id does not resolve.
	ErrNotFound = errors.New("deal not found")

	// ErrInvalid wraps deal validation failures (negative value,
	// out-of-range probability, edits to a closed deal).
	ErrInvalid = errors.New("invalid deal")

	// ErrUnknownStage is returned for a stage outside the pipeline.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrInvalidTransition is returned for an illegal stage change,
	// including any transition out of a terminal stage.
	ErrInvalidTransition = errors.New("invalid stage transition")
)

// Deal represents a sales opportunity attached to a contact.
type Deal struct {
	ID            uuid.UUID
	ContactID     uuid.UUID
	Title         string
	Value         int64 // Value in cents
	Stage         Stage
	Probability   float64 // 0.0 - 1.0
	ExpectedClose *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// WeightedValue returns value x probability in cents, rounded to the
// nearest cent.
func (d *Deal) WeightedValue() int64 {
	return decimal.NewFromInt(d.Value).
		Mul(decimal.NewFromFloat(d.Probability)).
		Round(0).
		IntPart()
}

// IsOpen reports whether the deal is still in play.
func (d *Deal) IsOpen() bool {
	return !IsTerminal(d.Stage)
}
