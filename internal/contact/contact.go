package contact

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a contact id or email does not resolve.
	ErrNotFound = errors.New("contact not found")

	// ErrInvalid wraps all contact validation failures.
	ErrInvalid = errors.New("invalid contact")

	// ErrHasOpenDeals is returned when deleting a contact that still has
	// open deals referencing it.
	ErrHasOpenDeals = errors.New("contact has open deals")
)

// Contact represents a person or lead tracked in the CRM.
type Contact struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Phone       string
	Company     string
	Tags        []string
	Notes       string
	CreatedAt   time.Time
	LastContact *time.Time
}

// ReferenceTime is the timestamp staleness is measured from: the most
// recent interaction, or creation time if the contact was never contacted.
func (c *Contact) ReferenceTime() time.Time {
	if c.LastContact != nil {
		return *c.LastContact
	}

	return c.CreatedAt
}

// HasTag reports whether the contact carries the given tag.
func (c *Contact) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}

	return false
}
