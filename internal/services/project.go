package services

import (
	"context"

	"go.uber.org/zap"

	"studioworks/internal/backend"
	"studioworks/internal/domain"
	"studioworks/internal/listing"
)

// ProjectService manages case studies.
type ProjectService struct {
	*Collection[domain.Project]
}

func NewProjectService(client *backend.Client, log *zap.Logger) *ProjectService {
	return &ProjectService{
		Collection: NewCollection[domain.Project](client, domain.TableProjects, "projects",
			backend.Query{OrderBy: "id", Desc: true}, log),
	}
}

func (s *ProjectService) Create(ctx context.Context, p *domain.Project, upload *Upload) error {
	p.Results = listing.AppendUnique(nil, p.Results...)
	return s.Collection.Create(ctx, p, upload)
}

func (s *ProjectService) Update(ctx context.Context, id uint, mutate func(*domain.Project) error, upload *Upload) (*domain.Project, error) {
	return s.Collection.Update(ctx, id, func(p *domain.Project) error {
		if mutate != nil {
			if err := mutate(p); err != nil {
				return err
			}
		}
		p.Results = listing.AppendUnique(nil, p.Results...)
		return nil
	}, upload)
}

// Featured returns the newest projects for the home page.
func (s *ProjectService) Featured(ctx context.Context, limit int) ([]domain.Project, error) {
	return s.Select(ctx, backend.Query{OrderBy: "id", Desc: true, Limit: limit})
}
