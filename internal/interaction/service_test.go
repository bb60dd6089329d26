package interaction_test

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
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/interaction"
)

func TestService_Log(t *testing.T) {
	contactID := uuid.New()
	dealID := uuid.New()
	otherContact := uuid.New()

	type testCase struct {
		name      string
		params    interaction.LogParams
		setupMock func(repo *interaction.MockRepository, contacts *interaction.MockContacts, deals *interaction.MockDeals)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: interaction.LogParams{
				ContactID: contactID,
				Type:      interaction.TypeCall,
				Notes:     "Discussed pricing",
				Outcome:   "positive",
			},
			setupMock: func(repo *interaction.MockRepository, contacts *interaction.MockContacts, deals *interaction.MockDeals) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(&contact.Contact{ID: contactID}, nil)
				repo.EXPECT().
					CreateInteraction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, ix *interaction.Interaction) error {
						ix.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "SuccessWithDeal",
			params: interaction.LogParams{
				ContactID: contactID,
				DealID:    &dealID,
				Type:      interaction.TypeMeeting,
			},
			setupMock: func(repo *interaction.MockRepository, contacts *interaction.MockContacts, deals *interaction.MockDeals) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(&contact.Contact{ID: contactID}, nil)
				deals.EXPECT().GetDeal(gomock.Any(), dealID).Return(&deal.Deal{ID: dealID, ContactID: contactID}, nil)
				repo.EXPECT().CreateInteraction(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "MissingType",
			params: interaction.LogParams{
				ContactID: contactID,
			},
			wantErr: interaction.ErrInvalid,
		},
		{
			name: "ContactMissing",
			params: interaction.LogParams{
				ContactID: contactID,
				Type:      interaction.TypeEmail,
			},
			setupMock: func(repo *interaction.MockRepository, contacts *interaction.MockContacts, deals *interaction.MockDeals) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(nil, contact.ErrNotFound)
			},
			wantErr: contact.ErrNotFound,
		},
		{
			name: "DealOwnedByOtherContact",
			params: interaction.LogParams{
				ContactID: contactID,
				DealID:    &dealID,
				Type:      interaction.TypeCall,
			},
			setupMock: func(repo *interaction.MockRepository, contacts *interaction.MockContacts, deals *interaction.MockDeals) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(&contact.Contact{ID: contactID}, nil)
				deals.EXPECT().GetDeal(gomock.Any(), dealID).Return(&deal.Deal{ID: dealID, ContactID: otherContact}, nil)
			},
			wantErr: interaction.ErrDealMismatch,
		},
		{
			name: "DealMissing",
			params: interaction.LogParams{
				ContactID: contactID,
				DealID:    &dealID,
				Type:      interaction.TypeCall,
			},
			setupMock: func(repo *interaction.MockRepository, contacts *interaction.MockContacts, deals *interaction.MockDeals) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(&contact.Contact{ID: contactID}, nil)
				deals.EXPECT().GetDeal(gomock.Any(), dealID).Return(nil, deal.ErrNotFound)
			},
			wantErr: deal.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := interaction.NewMockRepository(ctrl)
			contacts := interaction.NewMockContacts(ctrl)
			deals := interaction.NewMockDeals(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, contacts, deals)
			}

			svc := interaction.NewService(repo, contacts, deals)
			got, err := svc.Log(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.False(t, got.OccurredAt.IsZero())
		})
	}
}

func TestService_Log_ExplicitOccurredAt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := interaction.NewMockRepository(ctrl)
	contacts := interaction.NewMockContacts(ctrl)
	contactID := uuid.New()
	when := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(&contact.Contact{ID: contactID}, nil)
	repo.EXPECT().CreateInteraction(gomock.Any(), gomock.Any()).Return(nil)

	svc := interaction.NewService(repo, contacts, interaction.NewMockDeals(ctrl))
	got, err := svc.Log(context.Background(), interaction.LogParams{
		ContactID:  contactID,
		Type:       interaction.TypeNote,
		OccurredAt: &when,
	})
	require.NoError(t, err)
	assert.Equal(t, when, got.OccurredAt)
}

func TestService_History_DefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := interaction.NewMockRepository(ctrl)
	contactID := uuid.New()

	repo.EXPECT().
		ListInteractions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter interaction.ListFilter) ([]*interaction.Interaction, error) {
			require.NotNil(t, filter.ContactID)
			assert.Equal(t, contactID, *filter.ContactID)
			assert.Equal(t, 50, filter.Limit)
			return nil, nil
		})

	svc := interaction.NewService(repo, interaction.NewMockContacts(ctrl), interaction.NewMockDeals(ctrl))
	_, err := svc.History(context.Background(), contactID, 0)
	require.NoError(t, err)
}
