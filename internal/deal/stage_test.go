package deal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

func TestDefaultProbability(t *testing.T) {
	want := map[deal.Stage]float64{
		deal.StageLead:        0.1,
		deal.StageQualified:   0.25,
		deal.StageProposal:    0.4,
		deal.StageNegotiation: 0.6,
		deal.StageWon:         1.0,
		deal.StageLost:        0.0,
	}

	for _, s := range deal.Stages() {
		p, err := deal.DefaultProbability(s)
		require.NoError(t, err)
		assert.Equal(t, want[s], p)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}

	_, err := deal.DefaultProbability("discovery")
	assert.ErrorIs(t, err, deal.ErrUnknownStage)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, deal.IsTerminal(deal.StageWon))
	assert.True(t, deal.IsTerminal(deal.StageLost))

	for _, s := range []deal.Stage{deal.StageLead, deal.StageQualified, deal.StageProposal, deal.StageNegotiation} {
		assert.False(t, deal.IsTerminal(s), "stage %s", s)
	}
}

func TestIsValidTransition(t *testing.T) {
	type testCase struct {
		name string
		from deal.Stage
		to   deal.Stage
		want bool
	}

	tests := []testCase{
		{name: "ForwardOneStep", from: deal.StageLead, to: deal.StageQualified, want: true},
		{name: "ForwardSkippingStages", from: deal.StageLead, to: deal.StageNegotiation, want: true},
		{name: "Backward", from: deal.StageProposal, to: deal.StageQualified, want: false},
		{name: "SameStage", from: deal.StageProposal, to: deal.StageProposal, want: false},
		{name: "WonFromAnywhere", from: deal.StageLead, to: deal.StageWon, want: true},
		{name: "LostFromAnywhere", from: deal.StageNegotiation, to: deal.StageLost, want: true},
		{name: "OutOfWon", from: deal.StageWon, to: deal.StageLead, want: false},
		{name: "OutOfLost", from: deal.StageLost, to: deal.StageQualified, want: false},
		{name: "WonToLost", from: deal.StageWon, to: deal.StageLost, want: false},
		{name: "UnknownFrom", from: "discovery", to: deal.StageQualified, want: false},
		{name: "UnknownTo", from: deal.StageLead, to: "discovery", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deal.IsValidTransition(tt.from, tt.to))
		})
	}
}

func TestDeal_WeightedValue(t *testing.T) {
	d := &deal.Deal{Value: 5000000, Probability: 0.4} // 50000.00 at 40%
	assert.Equal(t, int64(2000000), d.WeightedValue())

	d.Probability = 0.6
	assert.Equal(t, int64(3000000), d.WeightedValue())

	// Rounds to the nearest cent instead of truncating.
	d = &deal.Deal{Value: 333, Probability: 0.5}
	assert.Equal(t, int64(167), d.WeightedValue())
}
