package services

import (
	"context"

	"go.uber.org/zap"

	"studioworks/internal/backend"
	"studioworks/internal/domain"
	"studioworks/internal/listing"
)

// PortfolioService manages showcased engagements.
type PortfolioService struct {
	*Collection[domain.PortfolioItem]
}

func NewPortfolioService(client *backend.Client, log *zap.Logger) *PortfolioService {
	return &PortfolioService{
		Collection: NewCollection[domain.PortfolioItem](client, domain.TablePortfolio, "portfolio",
			backend.Query{OrderBy: "id", Desc: true}, log),
	}
}

func (s *PortfolioService) Create(ctx context.Context, item *domain.PortfolioItem, upload *Upload) error {
	item.Technologies = listing.AppendUnique(nil, item.Technologies...)
	return s.Collection.Create(ctx, item, upload)
}

func (s *PortfolioService) Update(ctx context.Context, id uint, mutate func(*domain.PortfolioItem) error, upload *Upload) (*domain.PortfolioItem, error) {
	return s.Collection.Update(ctx, id, func(item *domain.PortfolioItem) error {
		if mutate != nil {
			if err := mutate(item); err != nil {
				return err
			}
		}
		item.Technologies = listing.AppendUnique(nil, item.Technologies...)
		return nil
	}, upload)
}

// ByCategory lists items for the public portfolio page. An empty category lists everything.
func (s *PortfolioService) ByCategory(ctx context.Context, category string) (items []domain.PortfolioItem, categories []string, err error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	categories = Categories(all, func(p domain.PortfolioItem) string { return p.Category })
	items = listing.Filter(all, listing.MatchEqual(category, func(p domain.PortfolioItem) string { return p.Category }))
	return items, categories, nil
}
