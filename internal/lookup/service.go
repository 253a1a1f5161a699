package lookup

import (
	"log/slog"

	"github.com/frahmantamala/order-admin/internal"
)

var ErrUnknownLookup = internal.NewNotFoundError("Liste bulunamadı", "LOOKUP_NOT_FOUND")

type Service struct {
	catalog Catalog
	logger  *slog.Logger
}

func NewService(catalog Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog: catalog,
		logger:  logger,
	}
}

func (s *Service) Catalog() Catalog {
	return s.catalog
}

func (s *Service) Values(kind string) ([]string, error) {
	values, ok := s.catalog.Values(kind)
	if !ok {
		s.logger.Debug("unknown lookup requested", "kind", kind)
		return nil, ErrUnknownLookup
	}
	return values, nil
}

// CompanyNo returns the number registered for a company name.
func (s *Service) CompanyNo(name string) (string, bool) {
	for _, c := range s.catalog.Companies {
		if c.Name == name {
			return c.No, true
		}
	}
	return "", false
}
