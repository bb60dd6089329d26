package report_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/report"
)

func newDeal(stage deal.Stage, value int64, probability float64) *deal.Deal {
	return &deal.Deal{
		ID:          uuid.New(),
		ContactID:   uuid.New(),
		Title:       string(stage),
		Value:       value,
		Stage:       stage,
		Probability: probability,
	}
}

func dealServiceReturning(t *testing.T, deals []*deal.Deal) *deal.Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := deal.NewMockRepository(ctrl)
	repo.EXPECT().ListDeals(gomock.Any(), deal.ListFilter{}).Return(deals, nil).AnyTimes()

	return deal.NewService(repo, deal.NewMockContacts(ctrl))
}

func TestService_Pipeline(t *testing.T) {
	deals := []*deal.Deal{
		newDeal(deal.StageLead, 100000, 0.1),
		newDeal(deal.StageLead, 100000, 0.1),
		newDeal(deal.StageProposal, 5000000, 0.4),
		newDeal(deal.StageNegotiation, 800000, 0.6),
		newDeal(deal.StageWon, 200000, 1.0),
		newDeal(deal.StageLost, 300000, 0.0),
	}

	svc := report.NewService(dealServiceReturning(t, deals))

	p, err := svc.Pipeline(context.Background())
	require.NoError(t, err)
	require.Len(t, p.Stages, 6)

	byStage := make(map[deal.Stage]report.StageReport)
	for _, sr := range p.Stages {
		byStage[sr.Stage] = sr
	}

	assert.Equal(t, 2, byStage[deal.StageLead].Count)
	assert.Equal(t, int64(200000), byStage[deal.StageLead].TotalValue)
	assert.Equal(t, int64(20000), byStage[deal.StageLead].WeightedValue)

	assert.Equal(t, 1, byStage[deal.StageProposal].Count)
	assert.Equal(t, int64(2000000), byStage[deal.StageProposal].WeightedValue)

	assert.Equal(t, 0, byStage[deal.StageQualified].Count)
	assert.Equal(t, int64(0), byStage[deal.StageQualified].TotalValue)

	assert.Equal(t, 1, byStage[deal.StageWon].Count)
	assert.Equal(t, int64(200000), byStage[deal.StageWon].WeightedValue)
	assert.Equal(t, int64(0), byStage[deal.StageLost].WeightedValue)

	// Open-pipeline totals exclude won and lost.
	assert.Equal(t, int64(100000+100000+5000000+800000), p.PipelineValue)
	assert.Equal(t, int64(20000+2000000+480000), p.PipelineWeighted)
}

func TestService_Pipeline_TotalsConsistency(t *testing.T) {
	deals := []*deal.Deal{
		newDeal(deal.StageLead, 123456, 0.1),
		newDeal(deal.StageQualified, 654321, 0.25),
		newDeal(deal.StageNegotiation, 999999, 0.6),
		newDeal(deal.StageWon, 500000, 1.0),
	}

	svc := report.NewService(dealServiceReturning(t, deals))

	p, err := svc.Pipeline(context.Background())
	require.NoError(t, err)

	var wantValue, wantWeighted, gotValue, gotWeighted int64

	for _, d := range deals {
		wantValue += d.Value
		wantWeighted += d.WeightedValue()
	}

	for _, sr := range p.Stages {
		gotValue += sr.TotalValue
		gotWeighted += sr.WeightedValue
	}

	assert.Equal(t, wantValue, gotValue)
	assert.Equal(t, wantWeighted, gotWeighted)
}

func TestService_Pipeline_ConversionRates(t *testing.T) {
	deals := []*deal.Deal{
		newDeal(deal.StageLead, 0, 0.1),
		newDeal(deal.StageLead, 0, 0.1),
		newDeal(deal.StageProposal, 0, 0.4),
		newDeal(deal.StageNegotiation, 0, 0.6),
		newDeal(deal.StageWon, 0, 1.0),
		newDeal(deal.StageLost, 0, 0.0),
	}

	svc := report.NewService(dealServiceReturning(t, deals))

	p, err := svc.Pipeline(context.Background())
	require.NoError(t, err)

	byStage := make(map[deal.Stage]report.StageReport)
	for _, sr := range p.Stages {
		byStage[sr.Stage] = sr
	}

	// Snapshot counts: lead 2, qualified 0, proposal 1, negotiation 1,
	// won 1, lost 1.
	require.NotNil(t, byStage[deal.StageLead].ConversionRate)
	assert.InDelta(t, 5.0/6.0, *byStage[deal.StageLead].ConversionRate, 1e-9)

	require.NotNil(t, byStage[deal.StageQualified].ConversionRate)
	assert.InDelta(t, 0.75, *byStage[deal.StageQualified].ConversionRate, 1e-9)

	require.NotNil(t, byStage[deal.StageProposal].ConversionRate)
	assert.InDelta(t, 0.75, *byStage[deal.StageProposal].ConversionRate, 1e-9)

	require.NotNil(t, byStage[deal.StageNegotiation].ConversionRate)
	assert.InDelta(t, 2.0/3.0, *byStage[deal.StageNegotiation].ConversionRate, 1e-9)

	// Terminal stages carry no conversion rate.
	assert.Nil(t, byStage[deal.StageWon].ConversionRate)
	assert.Nil(t, byStage[deal.StageLost].ConversionRate)
}

func TestService_Pipeline_Empty(t *testing.T) {
	svc := report.NewService(dealServiceReturning(t, nil))

	p, err := svc.Pipeline(context.Background())
	require.NoError(t, err)
	require.Len(t, p.Stages, 6)

	for _, sr := range p.Stages {
		assert.Zero(t, sr.Count)
		assert.Zero(t, sr.TotalValue)

		if sr.ConversionRate != nil {
			assert.Zero(t, *sr.ConversionRate)
		}
	}

	assert.Zero(t, p.PipelineValue)
	assert.Zero(t, p.PipelineWeighted)
}
