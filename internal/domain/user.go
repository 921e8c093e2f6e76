package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User holds sign-in credentials.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string     `gorm:"not null" json:"-"`
	FullName       *string    `json:"full_name"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return TableUsers
}

// DisplayName prefers the full name and falls back to the email.
func (u User) DisplayName() string {
	if u.FullName != nil && strings.TrimSpace(*u.FullName) != "" {
		return *u.FullName
	}
	return u.Email
}

// BeforeCreate hook
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// AdminUser is an entry in the admin allow-list. Only allow-listed users may sign in to the dashboard.
type AdminUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AdminUser
func (AdminUser) TableName() string {
	return TableAdminUsers
}

// BeforeCreate hook
func (a *AdminUser) BeforeCreate(tx *gorm.DB) error {
	a.Email = NormalizeEmail(a.Email)
	a.CreatedAt = time.Now()
	return nil
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Models lists every table for migration.
func Models() []any {
	return []any{
		&User{},
		&AdminUser{},
		&BlogPost{},
		&PortfolioItem{},
		&Project{},
		&TeamMember{},
		&ContactSubmission{},
	}
}
