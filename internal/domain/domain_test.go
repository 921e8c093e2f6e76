package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "studioworks/pkg/errors"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	return appErr.Fields
}

func TestBlogPostValidateRequiredFields(t *testing.T) {
	fields := fieldsOf(t, BlogPost{}.Validate())

	for _, name := range []string{"title", "excerpt", "content", "category", "author_name"} {
		assert.Contains(t, fields, name)
	}
	assert.NotContains(t, fields, "status")
}

func TestBlogPostValidateStatus(t *testing.T) {
	post := BlogPost{Title: "t", Excerpt: "e", Content: "c", Category: "news", AuthorName: "a", Status: "archived"}
	fields := fieldsOf(t, post.Validate())
	assert.Equal(t, []string{"status"}, keys(fields))

	post.Status = PostPublished
	assert.NoError(t, post.Validate())
}

func TestBlogPostTouch(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	post := BlogPost{Content: strings.Repeat("word ", 450)}

	post.Touch(now)
	assert.Equal(t, 3, post.ReadMinutes)
	assert.Equal(t, PostDraft, post.Status)
	assert.Nil(t, post.PublishedAt)

	post.Status = PostPublished
	post.Touch(now)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, now, *post.PublishedAt)

	post.Touch(now.Add(time.Hour))
	assert.Equal(t, now, *post.PublishedAt, "first publish time is kept")
}

func TestTeamMemberValidateCategory(t *testing.T) {
	member := TeamMember{Name: "Ada", Role: "CTO", Category: "interns"}
	fields := fieldsOf(t, member.Validate())
	assert.Contains(t, fields, "category")

	member.Category = TeamLeadership
	assert.NoError(t, member.Validate())
}

func TestContactSubmissionValidate(t *testing.T) {
	phone := "not-a-phone!"
	c := ContactSubmission{
		Name:           "Jo",
		Email:          "jo@example",
		Phone:          &phone,
		Message:        "hi",
		SubmissionType: SubmissionServiceRequest,
	}
	fields := fieldsOf(t, c.Validate())
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "service_category")

	phone = "+1 (555) 123-4567"
	c.Email = "jo@example.com"
	c.ServiceCategory = "web-development"
	assert.NoError(t, c.Validate())

	c.SubmissionType = SubmissionConsultation
	c.ServiceCategory = ""
	assert.NoError(t, c.Validate(), "consultations do not need a service category")
}

func TestProjectAndPortfolioValidate(t *testing.T) {
	fields := fieldsOf(t, Project{}.Validate())
	assert.ElementsMatch(t, []string{"title", "description", "category"}, keys(fields))

	item := PortfolioItem{Title: "Shop", Description: "d", Category: "ecommerce", Link: "not a url"}
	fields = fieldsOf(t, item.Validate())
	assert.Equal(t, []string{"link"}, keys(fields))
}

func TestValidContactStatus(t *testing.T) {
	assert.True(t, ValidContactStatus(ContactInProgress))
	assert.False(t, ValidContactStatus("archived"))
}

func TestUserDisplayName(t *testing.T) {
	name := "Grace Hopper"
	assert.Equal(t, "Grace Hopper", User{Email: "g@x.dev", FullName: &name}.DisplayName())
	assert.Equal(t, "g@x.dev", User{Email: "g@x.dev"}.DisplayName())
	assert.Equal(t, "g@x.dev", NormalizeEmail("  G@X.dev "))
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
