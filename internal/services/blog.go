package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-slug"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studioworks/internal/backend"
	"studioworks/internal/domain"
	"studioworks/internal/listing"
	apperrors "studioworks/pkg/errors"
)

// BlogFilter narrows the public blog listing.
type BlogFilter struct {
	Category string
	Query    string
}

// BlogService manages blog posts.
type BlogService struct {
	*Collection[domain.BlogPost]
	db       *gorm.DB
	markdown *Markdown
	log      *zap.Logger
}

func NewBlogService(client *backend.Client, markdown *Markdown, log *zap.Logger) *BlogService {
	return &BlogService{
		Collection: NewCollection[domain.BlogPost](client, domain.TableBlogPosts, "blog",
			backend.Query{OrderBy: "id", Desc: true}, log),
		db:       client.DB(),
		markdown: markdown,
		log:      log,
	}
}

// Create derives a unique slug from the title and de-duplicates tags before inserting.
func (s *BlogService) Create(ctx context.Context, post *domain.BlogPost, upload *Upload) error {
	post.Tags = listing.AppendUnique(nil, post.Tags...)
	if err := post.Validate(); err != nil {
		return err
	}
	base := post.Slug
	if base == "" {
		base = post.Title
	}
	slugValue, err := s.uniqueSlug(ctx, base, 0)
	if err != nil {
		return err
	}
	post.Slug = slugValue
	return s.Collection.Create(ctx, post, upload)
}

// Update applies mutate and keeps the slug unique when it changes.
func (s *BlogService) Update(ctx context.Context, id uint, mutate func(*domain.BlogPost) error, upload *Upload) (*domain.BlogPost, error) {
	return s.Collection.Update(ctx, id, func(post *domain.BlogPost) error {
		if mutate != nil {
			if err := mutate(post); err != nil {
				return err
			}
		}
		post.Tags = listing.AppendUnique(nil, post.Tags...)
		base := post.Slug
		if base == "" {
			base = post.Title
		}
		slugValue, err := s.uniqueSlug(ctx, base, id)
		if err != nil {
			return err
		}
		post.Slug = slugValue
		return nil
	}, upload)
}

// TogglePublished flips a post between draft and published.
func (s *BlogService) TogglePublished(ctx context.Context, id uint) (*domain.BlogPost, error) {
	return s.Toggle(ctx, id, func(p *domain.BlogPost) {
		if p.IsPublished() {
			p.Status = domain.PostDraft
		} else {
			p.Status = domain.PostPublished
		}
	})
}

// ToggleBreaking flips the breaking-news flag.
func (s *BlogService) ToggleBreaking(ctx context.Context, id uint) (*domain.BlogPost, error) {
	return s.Toggle(ctx, id, func(p *domain.BlogPost) { p.Breaking = !p.Breaking })
}

// Published lists published posts matching f, newest first.
func (s *BlogService) Published(ctx context.Context, f BlogFilter) ([]domain.BlogPost, error) {
	posts, err := s.Select(ctx, backend.Query{
		OrderBy: "published_at",
		Desc:    true,
		Where:   map[string]any{"status": string(domain.PostPublished)},
	})
	if err != nil {
		return nil, err
	}
	return listing.Filter(posts,
		listing.MatchEqual(f.Category, func(p domain.BlogPost) string { return p.Category }),
		listing.MatchQuery(f.Query, func(p domain.BlogPost) []string {
			return append([]string{p.Title, p.Excerpt, p.AuthorName}, p.Tags...)
		}),
	), nil
}

// Latest returns up to limit published posts.
func (s *BlogService) Latest(ctx context.Context, limit int) ([]domain.BlogPost, error) {
	return s.Select(ctx, backend.Query{
		OrderBy: "published_at",
		Desc:    true,
		Where:   map[string]any{"status": string(domain.PostPublished)},
		Limit:   limit,
	})
}

// Breaking returns published posts flagged as breaking news.
func (s *BlogService) Breaking(ctx context.Context) ([]domain.BlogPost, error) {
	return s.Select(ctx, backend.Query{
		OrderBy: "published_at",
		Desc:    true,
		Where:   map[string]any{"status": string(domain.PostPublished), "breaking": true},
	})
}

// BySlug returns a published post.
func (s *BlogService) BySlug(ctx context.Context, slugValue string) (*domain.BlogPost, error) {
	posts, err := s.Select(ctx, backend.Query{
		Where: map[string]any{"slug": slugValue, "status": string(domain.PostPublished)},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}
	return &posts[0], nil
}

// Render converts the post body to HTML.
func (s *BlogService) Render(post *domain.BlogPost) (template.HTML, error) {
	return s.markdown.Render(post.Content)
}

// Categories lists the distinct category values of items in first-seen order.
func Categories[T any](items []T, category func(T) string) []string {
	out := make([]string, 0)
	for _, item := range items {
		out = listing.AppendUnique(out, category(item))
	}
	return out
}

func (s *BlogService) uniqueSlug(ctx context.Context, value string, selfID uint) (string, error) {
	base, err := slug.Normalize(value)
	if err != nil || base == "" {
		base = "post"
	}
	base = strings.Trim(base, "-")
	if base == "" {
		base = "post"
	}

	candidate := base
	for n := 2; ; n++ {
		var existing domain.BlogPost
		err := s.db.WithContext(ctx).Select("id").Where("slug = ?", candidate).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to check slug", err)
		}
		if existing.ID == selfID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
