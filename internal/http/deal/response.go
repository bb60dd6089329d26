package deal

import (
	"time"

	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

type dealResponse struct {
	ID            uuid.UUID  `json:"id"`
	ContactID     uuid.UUID  `json:"contact_id"`
	Title         string     `json:"title"`
	Value         int64      `json:"value"`
	Stage         deal.Stage `json:"stage"`
	Probability   float64    `json:"probability"`
	WeightedValue int64      `json:"weighted_value"`
	ExpectedClose *string    `json:"expected_close,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func toResponse(d *deal.Deal) dealResponse {
	resp := dealResponse{
		ID:            d.ID,
		ContactID:     d.ContactID,
		Title:         d.Title,
		Value:         d.Value,
		Stage:         d.Stage,
		Probability:   d.Probability,
		WeightedValue: d.WeightedValue(),
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}

	if d.ExpectedClose != nil {
		resp.ExpectedClose = new(d.ExpectedClose.Format(time.DateOnly))
	}

	return resp
}

func toResponseList(deals []*deal.Deal) []dealResponse {
	resp := make([]dealResponse, len(deals))
	for i, d := range deals {
		resp[i] = toResponse(d)
	}

	return resp
}
