package importer

import (
	"io"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
)

type Source string

const (
	SourceCSV Source = "csv"
)

type Importer interface {
	Parse(r io.Reader) ([]contact.CreateParams, error)
}
