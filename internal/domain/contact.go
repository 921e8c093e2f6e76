package domain

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"
)

// SubmissionType distinguishes the two public contact forms.
type SubmissionType string

const (
	SubmissionServiceRequest SubmissionType = "service-request"
	SubmissionConsultation   SubmissionType = "consultation"
)

// ContactStatus tracks follow-up of a submission.
type ContactStatus string

const (
	ContactNew        ContactStatus = "new"
	ContactContacted  ContactStatus = "contacted"
	ContactInProgress ContactStatus = "in-progress"
	ContactCompleted  ContactStatus = "completed"
	ContactCancelled  ContactStatus = "cancelled"
)

// ContactStatuses lists statuses in workflow order.
var ContactStatuses = []ContactStatus{ContactNew, ContactContacted, ContactInProgress, ContactCompleted, ContactCancelled}

var phonePattern = regexp.MustCompile(`^[\d\s\+\-\(\)]+$`)

// BudgetRanges offered by the service-request form.
var BudgetRanges = []string{"< $5k", "$5k - $15k", "$15k - $50k", "$50k+", "not sure"}

// ContactSubmission represents a contact form submission
type ContactSubmission struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"not null;index" json:"email"`
	Phone           *string        `json:"phone"`
	Company         string         `json:"company"`
	Message         string         `gorm:"type:text;not null" json:"message"`
	SubmissionType  SubmissionType `gorm:"index;not null" json:"submission_type"`
	ServiceCategory string         `gorm:"index" json:"service_category"`
	BudgetRange     string         `json:"budget_range"`
	Status          ContactStatus  `gorm:"index;default:'new'" json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       *time.Time     `json:"updated_at"`
}

// TableName specifies the table name for ContactSubmission
func (ContactSubmission) TableName() string {
	return TableContactSubmissions
}

func (c ContactSubmission) PrimaryKey() uint { return c.ID }

// Validate checks a public submission.
func (c ContactSubmission) Validate() error {
	return FieldErrors(validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
		validation.Field(&c.Phone, validation.NilOrNotEmpty, validation.Length(7, 20), validation.Match(phonePattern).Error("must be a valid phone number")),
		validation.Field(&c.Message, validation.Required, validation.Length(1, 5000)),
		validation.Field(&c.SubmissionType, validation.Required, validation.In(SubmissionServiceRequest, SubmissionConsultation)),
		validation.Field(&c.ServiceCategory, validation.When(c.SubmissionType == SubmissionServiceRequest, validation.Required)),
		validation.Field(&c.Status, validation.In(ContactNew, ContactContacted, ContactInProgress, ContactCompleted, ContactCancelled)),
	))
}

// ValidContactStatus reports whether s is a known status.
func ValidContactStatus(s ContactStatus) bool {
	for _, known := range ContactStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// BeforeCreate hook
func (c *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = ContactNew
	}
	return nil
}

// BeforeUpdate hook
func (c *ContactSubmission) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	c.UpdatedAt = &now
	return nil
}
