package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PortfolioItem is a showcased client engagement.
type PortfolioItem struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Title        string                      `gorm:"not null" json:"title"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Category     string                      `gorm:"index" json:"category"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	Results      string                      `gorm:"type:text" json:"results"`
	ImageURL     string                      `json:"image_url"`
	Link         string                      `json:"link"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    *time.Time                  `json:"updated_at"`
}

// TableName specifies the table name for PortfolioItem
func (PortfolioItem) TableName() string {
	return TablePortfolio
}

func (p PortfolioItem) PrimaryKey() uint { return p.ID }

func (p *PortfolioItem) SetImageURL(url string) { p.ImageURL = url }

func (p PortfolioItem) Validate() error {
	return FieldErrors(validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.Category, validation.Required),
		validation.Field(&p.Link, is.URL),
	))
}

// BeforeCreate hook
func (p *PortfolioItem) BeforeCreate(tx *gorm.DB) error {
	p.CreatedAt = time.Now()
	return nil
}

// BeforeUpdate hook
func (p *PortfolioItem) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	p.UpdatedAt = &now
	return nil
}
