package contactcsv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/importer/contactcsv"
)

func TestParser_Generic(t *testing.T) {
	csv := `Name,Email,Phone,Company,Tags,Notes
Alice Johnson,alice@example.com,555-0100,Acme Corp,vip;enterprise,Met at conference
Bob Smith,bob@example.com,,,,,
`

	p := contactcsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "Alice Johnson", params[0].Name)
	assert.Equal(t, "alice@example.com", params[0].Email)
	assert.Equal(t, "555-0100", params[0].Phone)
	assert.Equal(t, "Acme Corp", params[0].Company)
	assert.Equal(t, []string{"vip", "enterprise"}, params[0].Tags)
	assert.Equal(t, "Met at conference", params[0].Notes)

	assert.Equal(t, "Bob Smith", params[1].Name)
	assert.Empty(t, params[1].Tags)
}

func TestParser_Outlook(t *testing.T) {
	csv := `First Name,Last Name,E-mail Address,Business Phone,Company,Notes
Alice,Johnson,alice@example.com,555-0100,Acme Corp,Key account
`

	p := contactcsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Alice Johnson", params[0].Name)
	assert.Equal(t, "alice@example.com", params[0].Email)
	assert.Equal(t, "555-0100", params[0].Phone)
	assert.Equal(t, "Acme Corp", params[0].Company)
	assert.Equal(t, "Key account", params[0].Notes)
}

func TestParser_Hubspot(t *testing.T) {
	csv := `First Name,Last Name,Email,Phone Number,Company Name
Bob,Smith,bob@example.com,555-0101,Globex
`

	p := contactcsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Bob Smith", params[0].Name)
	assert.Equal(t, "bob@example.com", params[0].Email)
	assert.Equal(t, "Globex", params[0].Company)
}

func TestParser_SkipsBadRows(t *testing.T) {
	csv := `Name,Email,Phone,Company,Tags,Notes
Alice Johnson,alice@example.com,,,,
,carol@example.com,,,,
Dave,not-an-email,,,,
Erin,,,,,

Total contacts: 5,,,,,
`

	p := contactcsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Alice Johnson", params[0].Name)
}

func TestParser_HeaderNotOnFirstLine(t *testing.T) {
	// Exports sometimes carry a preamble before the column header.
	csv := `Exported 2026-08-31,,,,,
,,,,,
Name,Email,Phone,Company,Tags,Notes
Alice Johnson,alice@example.com,,,,
`

	p := contactcsv.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "alice@example.com", params[0].Email)
}

func TestParser_UnknownFormat(t *testing.T) {
	csv := `Foo,Bar
1,2
`

	p := contactcsv.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.ErrorContains(t, err, "no matching contact CSV format")
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Name,Email,Phone,Company,Tags,Notes\nJosé García,jose@example.com,,,,\n"

	encoder := charmap.Windows1252.NewEncoder()
	latin1Bytes, err := encoder.Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := contactcsv.NewParser()
	params, err := p.Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "José García", params[0].Name)
}
