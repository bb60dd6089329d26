package contactcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
)

// Parser reads contact CSV exports and produces contact params. It
// auto-detects the source format (generic, Outlook, HubSpot) by matching
// column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func (p *Parser) Parse(r io.Reader) ([]contact.CreateParams, error) {
	utf8r, err := decodeUTF8(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true    // Allow sloppy quotes if necessary

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching contact CSV format found: expected columns for generic, outlook, or hubspot exports")
	}

	return parseRows(profile, cols, rows[headerIdx+1:]), nil
}

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts contacts from data rows using the matched profile.
// Rows without a parseable name and email are skipped rather than
// failing the whole file; exports routinely carry footer or blank rows.
func parseRows(p *Profile, cols colIndex, rows [][]string) []contact.CreateParams {
	var params []contact.CreateParams

	for _, row := range rows {
		email := cellValue(row, colIdx(cols, p.EmailCol))
		if email == "" {
			continue
		}

		if _, err := mail.ParseAddress(email); err != nil {
			continue
		}

		name := parseName(p, cols, row)
		if name == "" {
			continue
		}

		params = append(params, contact.CreateParams{
			Name:    name,
			Email:   email,
			Phone:   cellValue(row, colIdx(cols, p.PhoneCol)),
			Company: cellValue(row, colIdx(cols, p.CompanyCol)),
			Tags:    parseTags(cellValue(row, colIdx(cols, p.TagsCol))),
			Notes:   cellValue(row, colIdx(cols, p.NotesCol)),
		})
	}

	return params
}

func parseName(p *Profile, cols colIndex, row []string) string {
	switch p.NameMode {
	case nameSingle:
		return cellValue(row, colIdx(cols, p.NameCol))
	case nameSplit:
		first := cellValue(row, colIdx(cols, p.FirstNameCol))
		last := cellValue(row, colIdx(cols, p.LastNameCol))

		return strings.TrimSpace(first + " " + last)
	}

	return ""
}

// parseTags splits a tag cell on semicolons and commas.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}

	var tags []string

	for _, t := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}

	return tags
}

// colIdx resolves an optional column name; -1 when the profile does not
// define it or the header lacks it.
func colIdx(cols colIndex, name string) int {
	if name == "" {
		return -1
	}

	i, ok := cols[name]
	if !ok {
		return -1
	}

	return i
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
