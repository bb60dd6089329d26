package followup_test

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
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/followup"
)

func daysAgo(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}

func newServices(t *testing.T, contacts []*contact.Contact, openDeals []*deal.Deal) *followup.Service {
	t.Helper()

	ctrl := gomock.NewController(t)

	contactRepo := contact.NewMockRepository(ctrl)
	contactRepo.EXPECT().
		ListContacts(gomock.Any(), contact.ListFilter{}).
		Return(contacts, nil).
		AnyTimes()

	dealRepo := deal.NewMockRepository(ctrl)
	dealRepo.EXPECT().
		ListDeals(gomock.Any(), gomock.Any()).
		Return(openDeals, nil).
		AnyTimes()

	contactSvc := contact.NewService(contactRepo, contact.NewMockOpenDealCounter(ctrl))
	dealSvc := deal.NewService(dealRepo, deal.NewMockContacts(ctrl))

	return followup.NewService(contactSvc, dealSvc)
}

func TestService_Queue(t *testing.T) {
	alice := &contact.Contact{
		ID:          uuid.New(),
		Name:        "Alice Ng",
		Email:       "alice@example.com",
		Company:     "Acme Corp",
		CreatedAt:   daysAgo(60),
		LastContact: new(daysAgo(10)),
	}
	// Bob was never contacted; staleness falls back to creation time.
	bob := &contact.Contact{
		ID:        uuid.New(),
		Name:      "Bob Smith",
		Email:     "bob@example.com",
		CreatedAt: daysAgo(20),
	}
	carol := &contact.Contact{
		ID:          uuid.New(),
		Name:        "Carol Diaz",
		Email:       "carol@example.com",
		CreatedAt:   daysAgo(30),
		LastContact: new(daysAgo(1)),
	}
	// Dave is stale but has no open deals.
	dave := &contact.Contact{
		ID:        uuid.New(),
		Name:      "Dave Fox",
		Email:     "dave@example.com",
		CreatedAt: daysAgo(90),
	}

	openDeals := []*deal.Deal{
		{ID: uuid.New(), ContactID: alice.ID, Stage: deal.StageProposal, Value: 300000, Probability: 0.4},
		{ID: uuid.New(), ContactID: alice.ID, Stage: deal.StageLead, Value: 100000, Probability: 0.1},
		{ID: uuid.New(), ContactID: bob.ID, Stage: deal.StageQualified, Value: 100000, Probability: 0.25},
		{ID: uuid.New(), ContactID: carol.ID, Stage: deal.StageNegotiation, Value: 500000, Probability: 0.6},
	}

	svc := newServices(t, []*contact.Contact{alice, bob, carol, dave}, openDeals)

	queue, err := svc.Queue(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, queue, 2)

	// Most overdue first: Bob (20 days) before Alice (10 days).
	assert.Equal(t, bob.ID, queue[0].ContactID)
	assert.Equal(t, alice.ID, queue[1].ContactID)

	assert.Equal(t, 20, queue[0].StaleDays)
	assert.Equal(t, 10, queue[1].StaleDays)

	assert.Equal(t, 1, queue[0].OpenDeals)
	assert.Equal(t, int64(25000), queue[0].OpenDealWeighted)
	assert.Equal(t, 2, queue[1].OpenDeals)
	assert.Equal(t, int64(120000+10000), queue[1].OpenDealWeighted)
}

func TestService_Queue_ThresholdExcludes(t *testing.T) {
	alice := &contact.Contact{
		ID:          uuid.New(),
		Name:        "Alice Ng",
		Email:       "alice@example.com",
		CreatedAt:   daysAgo(60),
		LastContact: new(daysAgo(10)),
	}

	openDeals := []*deal.Deal{
		{ID: uuid.New(), ContactID: alice.ID, Stage: deal.StageProposal, Value: 300000, Probability: 0.4},
	}

	svc := newServices(t, []*contact.Contact{alice}, openDeals)

	queue, err := svc.Queue(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, queue, 1)

	queue, err = svc.Queue(context.Background(), 15)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestService_Queue_TieBrokenByContactID(t *testing.T) {
	created := daysAgo(30)

	a := &contact.Contact{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Name: "Same A", Email: "a@x.co", CreatedAt: created}
	b := &contact.Contact{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Name: "Same B", Email: "b@x.co", CreatedAt: created}

	openDeals := []*deal.Deal{
		{ID: uuid.New(), ContactID: b.ID, Stage: deal.StageLead, Value: 100, Probability: 0.1},
		{ID: uuid.New(), ContactID: a.ID, Stage: deal.StageLead, Value: 100, Probability: 0.1},
	}

	svc := newServices(t, []*contact.Contact{b, a}, openDeals)

	queue, err := svc.Queue(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, a.ID, queue[0].ContactID)
	assert.Equal(t, b.ID, queue[1].ContactID)
}

func TestService_Queue_NoOpenDeals(t *testing.T) {
	svc := newServices(t, nil, nil)

	queue, err := svc.Queue(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, queue)
}
