package application

import (
	"context"

	"bazaar/internal/service/catalog/domain"
)

// Service is thin CRUD over the catalog store; the interesting consumer is
// the order orchestrator's price lookup.
type Service struct {
	repo domain.ItemRepository
}

func NewService(repo domain.ItemRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	if err := item.Validate(); err != nil {
		return domain.Item{}, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Item, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, item domain.Item) (domain.Item, error) {
	if err := item.Validate(); err != nil {
		return domain.Item{}, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
