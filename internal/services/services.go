// Package services implements the screens' operations on top of the backend client.
package services

import (
	"context"

	"go.uber.org/zap"

	"studioworks/internal/backend"
	"studioworks/internal/config"
	"studioworks/internal/domain"
	"studioworks/internal/logging"
)

// Services bundles every screen service.
type Services struct {
	Auth      *AuthService
	Blog      *BlogService
	Portfolio *PortfolioService
	Projects  *ProjectService
	Team      *TeamService
	Contact   *ContactService
	Email     *EmailService
	Health    *HealthService
}

// New wires the services over client.
func New(client *backend.Client, cfg *config.Config, log *zap.Logger) *Services {
	log = logging.OrNop(log)
	email := NewEmailService(&cfg.Email, cfg.Site.Name, log.Named("email"))
	return &Services{
		Auth:      NewAuthService(client, log.Named("auth")),
		Blog:      NewBlogService(client, NewMarkdown(), log.Named("blog")),
		Portfolio: NewPortfolioService(client, log.Named("portfolio")),
		Projects:  NewProjectService(client, log.Named("projects")),
		Team:      NewTeamService(client, log.Named("team")),
		Contact:   NewContactService(client, email, log.Named("contact")),
		Email:     email,
		Health:    NewHealthService(client, cfg.App.Name, cfg.App.Version),
	}
}

// Overview is the dashboard landing summary.
type Overview struct {
	Projects       int64
	Portfolio      int64
	Team           int64
	BlogPosts      int64
	NewContacts    int64
	LatestContacts []domain.ContactSubmission
}

// Overview gathers record counts and the latest contact submissions.
func (s *Services) Overview(ctx context.Context) (*Overview, error) {
	var (
		o   Overview
		err error
	)
	if o.Projects, err = s.Projects.Count(ctx); err != nil {
		return nil, err
	}
	if o.Portfolio, err = s.Portfolio.Count(ctx); err != nil {
		return nil, err
	}
	if o.Team, err = s.Team.Count(ctx); err != nil {
		return nil, err
	}
	if o.BlogPosts, err = s.Blog.Count(ctx); err != nil {
		return nil, err
	}
	if o.NewContacts, err = s.Contact.CountByStatus(ctx, domain.ContactNew); err != nil {
		return nil, err
	}
	if o.LatestContacts, err = s.Contact.Latest(ctx, 5); err != nil {
		return nil, err
	}
	return &o, nil
}
