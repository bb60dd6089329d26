package export_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/export"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	return rows
}

func TestService_Export(t *testing.T) {
	ctrl := gomock.NewController(t)

	contacts := []*contact.Contact{
		{
			ID:      uuid.New(),
			Name:    "Alice Johnson",
			Email:   "alice@example.com",
			Phone:   "555-0100",
			Company: "Acme Corp",
			Tags:    []string{"vip", "enterprise"},
			Notes:   "Met at conference",
		},
		{
			ID:    uuid.New(),
			Name:  "Bob Smith",
			Email: "bob@example.com",
		},
	}

	closeDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	deals := []*deal.Deal{
		{
			ID:            uuid.New(),
			ContactID:     contacts[0].ID,
			Title:         "Enterprise license",
			Value:         5000050,
			Stage:         deal.StageNegotiation,
			Probability:   0.6,
			ExpectedClose: &closeDate,
		},
	}

	contactRepo := contact.NewMockRepository(ctrl)
	contactRepo.EXPECT().ListContacts(gomock.Any(), contact.ListFilter{}).Return(contacts, nil)

	dealRepo := deal.NewMockRepository(ctrl)
	dealRepo.EXPECT().ListDeals(gomock.Any(), deal.ListFilter{}).Return(deals, nil)

	svc := export.NewService(
		contact.NewService(contactRepo, contact.NewMockOpenDealCounter(ctrl)),
		deal.NewService(dealRepo, deal.NewMockContacts(ctrl)),
	)

	outputDir := filepath.Join(t.TempDir(), "exports")

	result, err := svc.Export(context.Background(), outputDir)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ContactCount)
	assert.Equal(t, 1, result.DealCount)

	contactRows := readCSV(t, result.ContactsPath)
	require.Len(t, contactRows, 3)
	assert.Equal(t, []string{"Name", "Email", "Phone", "Company", "Tags", "Notes"}, contactRows[0])
	assert.Equal(t, []string{"Alice Johnson", "alice@example.com", "555-0100", "Acme Corp", "vip;enterprise", "Met at conference"}, contactRows[1])
	assert.Equal(t, "Bob Smith", contactRows[2][0])

	dealRows := readCSV(t, result.DealsPath)
	require.Len(t, dealRows, 2)
	assert.Equal(t, contacts[0].ID.String(), dealRows[1][0])
	assert.Equal(t, "Enterprise license", dealRows[1][1])
	assert.Equal(t, "50000.50", dealRows[1][2])
	assert.Equal(t, "negotiation", dealRows[1][3])
	assert.Equal(t, "0.6", dealRows[1][4])
	assert.Equal(t, "2026-09-15", dealRows[1][5])
}

func TestService_Export_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)

	contactRepo := contact.NewMockRepository(ctrl)
	contactRepo.EXPECT().ListContacts(gomock.Any(), contact.ListFilter{}).Return(nil, nil)

	dealRepo := deal.NewMockRepository(ctrl)
	dealRepo.EXPECT().ListDeals(gomock.Any(), deal.ListFilter{}).Return(nil, nil)

	svc := export.NewService(
		contact.NewService(contactRepo, contact.NewMockOpenDealCounter(ctrl)),
		deal.NewService(dealRepo, deal.NewMockContacts(ctrl)),
	)

	result, err := svc.Export(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, result.ContactCount)
	assert.Zero(t, result.DealCount)

	// Header rows are still written.
	assert.Len(t, readCSV(t, result.ContactsPath), 1)
	assert.Len(t, readCSV(t, result.DealsPath), 1)
}
