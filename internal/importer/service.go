package importer

import (
	"fmt"
	"io"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/importer/contactcsv"
)

type Service struct {
	csvImporter Importer
}

func NewService() *Service {
	return &Service{
		csvImporter: contactcsv.NewParser(),
	}
}

func (s *Service) Import(source Source, r io.Reader) ([]contact.CreateParams, error) {
	var importer Importer

	switch source {
	case SourceCSV:
		importer = s.csvImporter
	default:
		return nil, fmt.Errorf("unknown import source: %s", source)
	}

	return importer.Parse(r)
}
