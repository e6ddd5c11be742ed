package category

import (
	"log/slog"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

func (s *Service) GetAllCategories() []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, c.ToResponse())
	}

	s.logger.Debug("listed categories", "count", len(responses))
	return responses
}

func (s *Service) GetCategoryByName(name string) (*CategoryResponse, bool) {
	for _, c := range categories {
		if c.Name == name {
			response := c.ToResponse()
			return &response, true
		}
	}
	return nil, false
}

func (s *Service) IsValidCategory(name string) bool {
	return IsValid(name)
}
