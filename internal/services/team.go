package services

import (
	"context"

	"go.uber.org/zap"

	"studioworks/internal/backend"
	"studioworks/internal/domain"
)

// TeamGroup is one about-page section.
type TeamGroup struct {
	Category domain.TeamCategory
	Members  []domain.TeamMember
}

// TeamService manages team members.
type TeamService struct {
	*Collection[domain.TeamMember]
}

func NewTeamService(client *backend.Client, log *zap.Logger) *TeamService {
	return &TeamService{
		Collection: NewCollection[domain.TeamMember](client, domain.TableTeamMembers, "team",
			backend.Query{OrderBy: "display_order"}, log),
	}
}

// ToggleActive shows or hides a member on the about page.
func (s *TeamService) ToggleActive(ctx context.Context, id uint) (*domain.TeamMember, error) {
	return s.Toggle(ctx, id, func(m *domain.TeamMember) { m.Active = !m.Active })
}

// Active lists visible members in display order.
func (s *TeamService) Active(ctx context.Context) ([]domain.TeamMember, error) {
	return s.Select(ctx, backend.Query{OrderBy: "display_order", Where: map[string]any{"active": true}})
}

// Grouped returns active members grouped by category. Empty groups are omitted.
func (s *TeamService) Grouped(ctx context.Context) ([]TeamGroup, error) {
	members, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	groups := make([]TeamGroup, 0, len(domain.TeamCategories))
	for _, category := range domain.TeamCategories {
		group := TeamGroup{Category: category}
		for _, m := range members {
			if m.Category == category {
				group.Members = append(group.Members, m)
			}
		}
		if len(group.Members) > 0 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}
