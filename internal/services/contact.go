package services

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"studioworks/internal/backend"
	"studioworks/internal/content"
	"studioworks/internal/domain"
	"studioworks/internal/listing"
	"studioworks/internal/metrics"
	apperrors "studioworks/pkg/errors"
)

// ContactFilter narrows the admin contact list. Empty fields match everything.
type ContactFilter struct {
	Category string
	Type     string
	Status   string
	Query    string
}

// ContactService handles public contact submissions and their follow-up.
type ContactService struct {
	table        *backend.Table[domain.ContactSubmission]
	emailService *EmailService
	log          *zap.Logger
	wg           sync.WaitGroup
}

// NewContactService creates a new contact service
func NewContactService(client *backend.Client, emailService *EmailService, log *zap.Logger) *ContactService {
	return &ContactService{
		table:        backend.From[domain.ContactSubmission](client, domain.TableContactSubmissions),
		emailService: emailService,
		log:          log,
	}
}

// Submit validates and stores a public submission, then notifies the inbox in the background.
func (s *ContactService) Submit(ctx context.Context, sub *domain.ContactSubmission) error {
	normalizeSubmission(sub)
	s.log.Info("contact submission received",
		zap.String("name", sub.Name),
		zap.String("email", sub.Email),
		zap.String("type", string(sub.SubmissionType)))

	if err := sub.Validate(); err != nil {
		s.log.Info("contact submission rejected", zap.Error(err))
		return err
	}
	if sub.ServiceCategory != "" && !knownService(sub.ServiceCategory) {
		return apperrors.Validation(map[string]string{"service_category": "must be one of the listed services"})
	}

	if err := s.table.Insert(ctx, sub); err != nil {
		s.log.Error("failed to save contact submission", zap.Error(err))
		return err
	}

	s.log.Info("contact submission saved", zap.Uint("id", sub.ID))
	metrics.RecordContactSubmission(string(sub.SubmissionType))

	saved := *sub
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.emailService.NotifyContact(&saved); err != nil {
			s.log.Warn("failed to send notification email", zap.Uint("id", saved.ID), zap.Error(err))
			return
		}
		s.log.Debug("notification email sent", zap.Uint("id", saved.ID))
	}()
	return nil
}

// Wait blocks until pending notifications have been sent.
func (s *ContactService) Wait() {
	s.wg.Wait()
}

// List returns submissions matching f, newest first.
func (s *ContactService) List(ctx context.Context, f ContactFilter) ([]domain.ContactSubmission, error) {
	all, err := s.table.Select(ctx, backend.Query{OrderBy: "id", Desc: true})
	if err != nil {
		return nil, err
	}
	return FilterContacts(all, f), nil
}

// Latest returns the newest submissions for the dashboard overview.
func (s *ContactService) Latest(ctx context.Context, limit int) ([]domain.ContactSubmission, error) {
	return s.table.Select(ctx, backend.Query{OrderBy: "id", Desc: true, Limit: limit})
}

// CountByStatus returns the number of submissions with status.
func (s *ContactService) CountByStatus(ctx context.Context, status domain.ContactStatus) (int64, error) {
	return s.table.Count(ctx, map[string]any{"status": string(status)})
}

// UpdateStatus moves a submission through the follow-up workflow.
func (s *ContactService) UpdateStatus(ctx context.Context, id uint, status domain.ContactStatus) (*domain.ContactSubmission, error) {
	if !domain.ValidContactStatus(status) {
		return nil, apperrors.Validation(map[string]string{"status": "must be a valid value"})
	}
	sub, err := s.table.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Status = status
	if err := s.table.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Info("contact status updated", zap.Uint("id", id), zap.String("status", string(status)))
	return sub, nil
}

// Delete removes one submission.
func (s *ContactService) Delete(ctx context.Context, id uint) error {
	if err := s.table.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("contact submission deleted", zap.Uint("id", id))
	return nil
}

// FilterContacts applies the category, type, status and text filters together.
func FilterContacts(items []domain.ContactSubmission, f ContactFilter) []domain.ContactSubmission {
	return listing.Filter(items,
		listing.MatchEqual(f.Category, func(c domain.ContactSubmission) string { return c.ServiceCategory }),
		listing.MatchEqual(f.Type, func(c domain.ContactSubmission) string { return string(c.SubmissionType) }),
		listing.MatchEqual(f.Status, func(c domain.ContactSubmission) string { return string(c.Status) }),
		listing.MatchQuery(f.Query, func(c domain.ContactSubmission) []string {
			return []string{c.Name, c.Email, c.Company, c.Message}
		}),
	)
}

func normalizeSubmission(sub *domain.ContactSubmission) {
	sub.ID = 0
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = domain.NormalizeEmail(sub.Email)
	sub.Company = strings.TrimSpace(sub.Company)
	sub.Message = strings.TrimSpace(sub.Message)
	sub.ServiceCategory = strings.TrimSpace(sub.ServiceCategory)
	sub.BudgetRange = strings.TrimSpace(sub.BudgetRange)
	sub.Status = domain.ContactNew
	if sub.Phone != nil {
		phone := strings.TrimSpace(*sub.Phone)
		if phone == "" {
			sub.Phone = nil
		} else {
			sub.Phone = &phone
		}
	}
	if sub.SubmissionType == domain.SubmissionConsultation {
		sub.ServiceCategory = ""
		sub.BudgetRange = ""
	}
}

func knownService(slug string) bool {
	for _, known := range content.ServiceCategories() {
		if slug == known {
			return true
		}
	}
	return false
}
