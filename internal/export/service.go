// Package export writes the CRM's records out as CSV files, the format
// the importer accepts back.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

// Result reports what an export produced.
type Result struct {
	ContactsPath string
	DealsPath    string
	ContactCount int
	DealCount    int
}

// Service handles exporting contacts and deals to CSV.
type Service struct {
	contacts *contact.Service
	deals    *deal.Service
}

func NewService(contacts *contact.Service, deals *deal.Service) *Service {
	return &Service{contacts: contacts, deals: deals}
}

// Export writes contacts.csv and deals.csv into the output directory,
// creating it if needed.
func (s *Service) Export(ctx context.Context, outputDir string) (*Result, error) {
	contacts, err := s.contacts.List(ctx, contact.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	deals, err := s.deals.List(ctx, deal.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{
		ContactsPath: filepath.Join(outputDir, "contacts.csv"),
		DealsPath:    filepath.Join(outputDir, "deals.csv"),
		ContactCount: len(contacts),
		DealCount:    len(deals),
	}

	if err := writeCSV(result.ContactsPath, contactRows(contacts)); err != nil {
		return nil, fmt.Errorf("writing contacts: %w", err)
	}

	if err := writeCSV(result.DealsPath, dealRows(deals)); err != nil {
		return nil, fmt.Errorf("writing deals: %w", err)
	}

	return result, nil
}

func contactRows(contacts []*contact.Contact) [][]string {
	rows := make([][]string, 0, len(contacts)+1)
	rows = append(rows, []string{"Name", "Email", "Phone", "Company", "Tags", "Notes"})

	for _, c := range contacts {
		rows = append(rows, []string{
			c.Name,
			c.Email,
			c.Phone,
			c.Company,
			strings.Join(c.Tags, ";"),
			c.Notes,
		})
	}

	return rows
}

func dealRows(deals []*deal.Deal) [][]string {
	rows := make([][]string, 0, len(deals)+1)
	rows = append(rows, []string{"Contact ID", "Title", "Value", "Stage", "Probability", "Expected Close", "Notes"})

	for _, d := range deals {
		expectedClose := ""
		if d.ExpectedClose != nil {
			expectedClose = d.ExpectedClose.Format(time.DateOnly)
		}

		rows = append(rows, []string{
			d.ContactID.String(),
			d.Title,
			formatCents(d.Value),
			string(d.Stage),
			strconv.FormatFloat(d.Probability, 'f', -1, 64),
			expectedClose,
			d.Notes,
		})
	}

	return rows
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing rows: %w", err)
	}

	return f.Close()
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
