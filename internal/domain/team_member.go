package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"
)

// TeamCategory groups members on the about page.
type TeamCategory string

const (
	TeamLeadership       TeamCategory = "leadership"
	TeamJuniorManagement TeamCategory = "junior-management"
	TeamStaff            TeamCategory = "staff"
)

// TeamCategories lists categories in display order.
var TeamCategories = []TeamCategory{TeamLeadership, TeamJuniorManagement, TeamStaff}

// TeamMember is a person shown on the about page.
type TeamMember struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	Role         string       `gorm:"not null" json:"role"`
	Description  string       `gorm:"type:text" json:"description"`
	Category     TeamCategory `gorm:"index;not null" json:"category"`
	ProfileURL   string       `json:"profile_url"`
	ImageURL     string       `json:"image_url"`
	Active       bool         `gorm:"not null" json:"active"`
	DisplayOrder int          `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    *time.Time   `json:"updated_at"`
}

// TableName specifies the table name for TeamMember
func (TeamMember) TableName() string {
	return TableTeamMembers
}

func (m TeamMember) PrimaryKey() uint { return m.ID }

func (m *TeamMember) SetImageURL(url string) { m.ImageURL = url }

func (m TeamMember) Validate() error {
	return FieldErrors(validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&m.Role, validation.Required, validation.Length(1, 120)),
		validation.Field(&m.Category, validation.Required, validation.In(TeamLeadership, TeamJuniorManagement, TeamStaff)),
		validation.Field(&m.ProfileURL, is.URL),
		validation.Field(&m.DisplayOrder, validation.Min(0)),
	))
}

// BeforeCreate hook
func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	m.CreatedAt = time.Now()
	return nil
}

// BeforeUpdate hook
func (m *TeamMember) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	m.UpdatedAt = &now
	return nil
}
