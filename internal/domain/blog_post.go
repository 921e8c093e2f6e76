package domain

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

const wordsPerMinute = 200

// BlogPost is an article shown on the blog.
type BlogPost struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Slug        string                      `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string                      `gorm:"not null" json:"title"`
	Excerpt     string                      `gorm:"type:text" json:"excerpt"`
	Content     string                      `gorm:"type:text;not null" json:"content"`
	Category    string                      `gorm:"index" json:"category"`
	AuthorName  string                      `json:"author_name"`
	AuthorRole  string                      `json:"author_role"`
	AuthorImage string                      `json:"author_image"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Status      PostStatus                  `gorm:"index;default:'draft'" json:"status"`
	Breaking    bool                        `gorm:"default:false" json:"breaking"`
	ImageURL    string                      `json:"image_url"`
	ReadMinutes int                         `json:"read_minutes"`
	PublishedAt *time.Time                  `json:"published_at"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   *time.Time                  `json:"updated_at"`
}

// TableName specifies the table name for BlogPost
func (BlogPost) TableName() string {
	return TableBlogPosts
}

func (p BlogPost) PrimaryKey() uint { return p.ID }

func (p *BlogPost) SetImageURL(url string) { p.ImageURL = url }

// IsPublished reports whether the post is visible on the public blog.
func (p BlogPost) IsPublished() bool { return p.Status == PostPublished }

// Validate checks the required fields of the admin form.
func (p BlogPost) Validate() error {
	return FieldErrors(validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Excerpt, validation.Required, validation.Length(1, 500)),
		validation.Field(&p.Content, validation.Required),
		validation.Field(&p.Category, validation.Required),
		validation.Field(&p.AuthorName, validation.Required),
		validation.Field(&p.Status, validation.In(PostDraft, PostPublished)),
	))
}

// Touch recomputes derived fields before a save: read time and the first publish stamp.
func (p *BlogPost) Touch(now time.Time) {
	words := len(strings.Fields(p.Content))
	p.ReadMinutes = max(1, (words+wordsPerMinute-1)/wordsPerMinute)
	if p.Status == "" {
		p.Status = PostDraft
	}
	if p.Status == PostPublished && p.PublishedAt == nil {
		published := now
		p.PublishedAt = &published
	}
}

// BeforeCreate hook
func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	p.CreatedAt = time.Now()
	p.Touch(p.CreatedAt)
	return nil
}

// BeforeUpdate hook
func (p *BlogPost) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	p.UpdatedAt = &now
	p.Touch(now)
	return nil
}
