package deal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

func TestService_Create(t *testing.T) {
	contactID := uuid.New()

	type args struct {
		params deal.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(repo *deal.MockRepository, contacts *deal.MockContacts)
		wantProb  float64
		wantErr   error
	}

	tests := []testCase{
		{
			name: "DefaultProbabilityFromStage",
			args: args{
				params: deal.CreateParams{
					ContactID: contactID,
					Title:     "Big Deal",
					Value:     5000000,
					Stage:     deal.StageProposal,
				},
			},
			setupMock: func(repo *deal.MockRepository, contacts *deal.MockContacts) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(&contact.Contact{ID: contactID}, nil)
				repo.EXPECT().
					CreateDeal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d *deal.Deal) error {
						d.ID = uuid.New()
						d.CreatedAt = time.Now()
						return nil
					})
			},
			wantProb: 0.4,
		},
		{
			name: "ExplicitProbabilityOverride",
			args: args{
				params: deal.CreateParams{
					ContactID:   contactID,
					Title:       "Custom",
					Value:       100000,
					Stage:       deal.StageLead,
					Probability: new(0.33),
				},
			},
			setupMock: func(repo *deal.MockRepository, contacts *deal.MockContacts) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(&contact.Contact{ID: contactID}, nil)
				repo.EXPECT().CreateDeal(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantProb: 0.33,
		},
		{
			name: "StageDefaultsToLead",
			args: args{
				params: deal.CreateParams{
					ContactID: contactID,
					Title:     "Fresh",
					Value:     100,
				},
			},
			setupMock: func(repo *deal.MockRepository, contacts *deal.MockContacts) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(&contact.Contact{ID: contactID}, nil)
				repo.EXPECT().CreateDeal(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantProb: 0.1,
		},
		{
			name: "NegativeValue",
			args: args{
				params: deal.CreateParams{
					ContactID: contactID,
					Title:     "Bad",
					Value:     -1,
				},
			},
			wantErr: deal.ErrInvalid,
		},
		{
			name: "EmptyTitle",
			args: args{
				params: deal.CreateParams{ContactID: contactID, Title: "  "},
			},
			wantErr: deal.ErrInvalid,
		},
		{
			name: "UnknownStage",
			args: args{
				params: deal.CreateParams{
					ContactID: contactID,
					Title:     "Bad Stage",
					Stage:     "discovery",
				},
			},
			wantErr: deal.ErrUnknownStage,
		},
		{
			name: "UnknownStageWithOverride",
			args: args{
				params: deal.CreateParams{
					ContactID:   contactID,
					Title:       "Bad Stage",
					Stage:       "discovery",
					Probability: new(0.5),
				},
			},
			wantErr: deal.ErrUnknownStage,
		},
		{
			name: "ContactMissing",
			args: args{
				params: deal.CreateParams{
					ContactID: contactID,
					Title:     "Orphan",
					Stage:     deal.StageLead,
				},
			},
			setupMock: func(repo *deal.MockRepository, contacts *deal.MockContacts) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(nil, contact.ErrNotFound)
			},
			wantErr: contact.ErrNotFound,
		},
		{
			name: "OverrideOutOfRange",
			args: args{
				params: deal.CreateParams{
					ContactID:   contactID,
					Title:       "Too sure",
					Stage:       deal.StageLead,
					Probability: new(1.5),
				},
			},
			wantErr: deal.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := deal.NewMockRepository(ctrl)
			contacts := deal.NewMockContacts(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, contacts)
			}

			svc := deal.NewService(repo, contacts)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.InDelta(t, tt.wantProb, got.Probability, 1e-9)
		})
	}
}

func TestService_AdvanceStage(t *testing.T) {
	dealID := uuid.New()

	current := func(stage deal.Stage, prob float64) *deal.Deal {
		return &deal.Deal{
			ID:          dealID,
			ContactID:   uuid.New(),
			Title:       "Pipeline Deal",
			Value:       5000000,
			Stage:       stage,
			Probability: prob,
		}
	}

	type testCase struct {
		name      string
		newStage  deal.Stage
		override  *float64
		setupMock func(repo *deal.MockRepository)
		wantProb  float64
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "ForwardDefaultProbability",
			newStage: deal.StageNegotiation,
			setupMock: func(repo *deal.MockRepository) {
				repo.EXPECT().GetDeal(gomock.Any(), dealID).Return(current(deal.StageProposal, 0.4), nil)
				repo.EXPECT().UpdateStage(gomock.Any(), dealID, deal.StageNegotiation, 0.6).Return(nil)
			},
			wantProb: 0.6,
		},
		{
			name:     "ForwardWithOverride",
			newStage: deal.StageNegotiation,
			override: new(0.75),
			setupMock: func(repo *deal.MockRepository) {
				repo.EXPECT().GetDeal(gomock.Any(), dealID).Return(current(deal.StageProposal, 0.4), nil)
				repo.EXPECT().UpdateStage(gomock.Any(), dealID, deal.StageNegotiation, 0.75).Return(nil)
			},
			wantProb: 0.75,
		},
		{
			name:     "WonForcesProbabilityDespiteOverride",
			newStage: deal.StageWon,
			override: new(0.5),
			setupMock: func(repo *deal.MockRepository) {
				repo.EXPECT().GetDeal(gomock.Any(), dealID).Return(current(deal.StageNegotiation, 0.6), nil)
				repo.EXPECT().UpdateStage(gomock.Any(), dealID, deal.StageWon, 1.0).Return(nil)
			},
			wantProb: 1.0,
		},
		{
			name:     "LostForcesZeroProbability",
			newStage: deal.StageLost,
			setupMock: func(repo *deal.MockRepository) {
				repo.EXPECT().GetDeal(gomock.Any(), dealID).Return(current(deal.StageNegotiation, 0.6), nil)
				repo.EXPECT().UpdateStage(gomock.Any(), dealID, deal.StageLost, 0.0).Return(nil)
			},
			wantProb: 0.0,
		},
		{
			name:     "BackwardRejected",
			newStage: deal.StageLead,
			setupMock: func(repo *deal.MockRepository) {
				repo.EXPECT().GetDeal(gomock.Any(), dealID).Return(current(deal.StageProposal, 0.4), nil)
			},
			wantErr: deal.ErrInvalidTransition,
		},
		{
			name:     "TerminalDealRejected",
			newStage: deal.StageNegotiation,
			setupMock: func(repo *deal.MockRepository) {
				repo.EXPECT().GetDeal(gomock.Any(), dealID).Return(current(deal.StageWon, 1.0), nil)
			},
			wantErr: deal.ErrInvalidTransition,
		},
		{
			name:     "UnknownStage",
			newStage: "discovery",
			wantErr:  deal.ErrUnknownStage,
		},
		{
			name:     "NotFound",
			newStage: deal.StageQualified,
			setupMock: func(repo *deal.MockRepository) {
				repo.EXPECT().GetDeal(gomock.Any(), dealID).Return(nil, deal.ErrNotFound)
			},
			wantErr: deal.ErrNotFound,
		},
		{
			name:     "OverrideOutOfRange",
			newStage: deal.StageQualified,
			override: new(-0.2),
			setupMock: func(repo *deal.MockRepository) {
				repo.EXPECT().GetDeal(gomock.Any(), dealID).Return(current(deal.StageLead, 0.1), nil)
			},
			wantErr: deal.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := deal.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := deal.NewService(repo, deal.NewMockContacts(ctrl))
			got, err := svc.AdvanceStage(context.Background(), dealID, tt.newStage, tt.override)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.newStage, got.Stage)
			assert.InDelta(t, tt.wantProb, got.Probability, 1e-9)
		})
	}
}

func TestService_Update_ClosedDealImmutable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := deal.NewMockRepository(ctrl)
	svc := deal.NewService(repo, deal.NewMockContacts(ctrl))

	id := uuid.New()
	repo.EXPECT().GetDeal(gomock.Any(), id).Return(&deal.Deal{ID: id, Title: "Done", Stage: deal.StageWon, Probability: 1.0}, nil)

	err := svc.Update(context.Background(), &deal.Deal{ID: id, Title: "Renamed", Value: 100})
	assert.ErrorIs(t, err, deal.ErrInvalid)
}

func TestService_ListOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := deal.NewMockRepository(ctrl)
	svc := deal.NewService(repo, deal.NewMockContacts(ctrl))

	repo.EXPECT().
		ListDeals(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter deal.ListFilter) ([]*deal.Deal, error) {
			require.NotNil(t, filter.Open)
			assert.True(t, *filter.Open)
			return []*deal.Deal{{ID: uuid.New()}}, nil
		})

	got, err := svc.ListOpen(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
