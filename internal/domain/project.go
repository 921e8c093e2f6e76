package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a case study listed on the home page and in the admin projects screen.
type Project struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Title       string                      `gorm:"not null" json:"title"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Category    string                      `gorm:"index" json:"category"`
	Results     datatypes.JSONSlice[string] `json:"results"`
	ImageURL    string                      `json:"image_url"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   *time.Time                  `json:"updated_at"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return TableProjects
}

func (p Project) PrimaryKey() uint { return p.ID }

func (p *Project) SetImageURL(url string) { p.ImageURL = url }

func (p Project) Validate() error {
	return FieldErrors(validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.Category, validation.Required),
	))
}

// BeforeCreate hook
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	p.CreatedAt = time.Now()
	return nil
}

// BeforeUpdate hook
func (p *Project) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	p.UpdatedAt = &now
	return nil
}
