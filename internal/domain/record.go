package domain

import (
	stderrors "errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	apperrors "studioworks/pkg/errors"
)

// Table names in the hosted store.
const (
	TableBlogPosts          = "blog_posts"
	TablePortfolio          = "portfolio"
	TableProjects           = "projects"
	TableTeamMembers        = "team_members"
	TableContactSubmissions = "contact_submissions"
	TableUsers              = "users"
	TableAdminUsers         = "admin_users"
)

// Record is a row managed by an admin screen.
type Record interface {
	PrimaryKey() uint
	Validate() error
}

// ImageHolder is implemented by records that carry an uploaded image reference.
type ImageHolder interface {
	SetImageURL(url string)
}

// FieldErrors converts an ozzo-validation result into a VALIDATION_ERROR.
// A nil input yields nil.
func FieldErrors(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !stderrors.As(err, &errs) {
		return apperrors.Wrap(apperrors.ErrCodeBadRequest, err.Error(), err)
	}
	fields := make(map[string]string, len(errs))
	for name, fieldErr := range errs {
		if fieldErr != nil {
			fields[name] = fieldErr.Error()
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperrors.Validation(fields)
}
