package web

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"studioworks/internal/content"
	"studioworks/internal/domain"
	"studioworks/internal/services"
	apperrors "studioworks/pkg/errors"
)

const featuredProjects = 3

type homeData struct {
	Stats         []content.Stat
	Services      []content.Service
	ActiveTab     int
	ActiveService *content.Service
	Projects      []domain.Project
	Testimonial   *content.Testimonial
	Posts         []domain.BlogPost
}

// home renders the landing page. ?tab=N shows a service tab for this render only;
// otherwise the rotating tab is shown.
func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := homeData{
		Stats:     content.Stats(),
		Services:  content.Services(),
		ActiveTab: s.tabs.Current(),
	}
	if raw := r.URL.Query().Get("tab"); raw != "" {
		if i, err := strconv.Atoi(raw); err == nil && i >= 0 && i < len(data.Services) {
			data.ActiveTab = i
		}
	}
	if data.ActiveTab < len(data.Services) {
		data.ActiveService = &data.Services[data.ActiveTab]
	}
	if quotes := content.Testimonials(); len(quotes) > 0 {
		data.Testimonial = &quotes[s.quotes.Current()%len(quotes)]
	}

	var err error
	if data.Projects, err = s.svc.Projects.Featured(ctx, featuredProjects); err != nil {
		s.log.Warn("failed to load featured projects", zap.Error(err))
	}
	if data.Posts, err = s.svc.Blog.Latest(ctx, s.cfg.Site.HomeBlogLimit); err != nil {
		s.log.Warn("failed to load latest posts", zap.Error(err))
	}

	p := s.page(w, r, "")
	p.Data = data
	s.views.Render(w, http.StatusOK, "home", p)
}

func (s *Server) servicePage(w http.ResponseWriter, r *http.Request) {
	svc, ok := content.ServiceBySlug(chi.URLParam(r, "slug"))
	if !ok {
		s.notFound(w, r)
		return
	}
	p := s.page(w, r, svc.Title)
	p.Data = svc
	s.views.Render(w, http.StatusOK, "service", p)
}

type portfolioData struct {
	Category   string
	Categories []string
	Items      []domain.PortfolioItem
}

func (s *Server) portfolio(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	items, categories, err := s.svc.Portfolio.ByCategory(r.Context(), category)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	p := s.page(w, r, "Portfolio")
	p.Data = portfolioData{Category: category, Categories: categories, Items: items}
	s.views.Render(w, http.StatusOK, "portfolio", p)
}

type blogsData struct {
	Query      string
	Category   string
	Categories []string
	Breaking   []domain.BlogPost
	Posts      []domain.BlogPost
}

func (s *Server) blogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := services.BlogFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
	}

	all, err := s.svc.Blog.Published(ctx, services.BlogFilter{})
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	posts, err := s.svc.Blog.Published(ctx, filter)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	breaking, err := s.svc.Blog.Breaking(ctx)
	if err != nil {
		s.log.Warn("failed to load breaking news", zap.Error(err))
	}

	p := s.page(w, r, "Blog")
	p.Data = blogsData{
		Query:      filter.Query,
		Category:   filter.Category,
		Categories: services.Categories(all, func(b domain.BlogPost) string { return b.Category }),
		Breaking:   breaking,
		Posts:      posts,
	}
	s.views.Render(w, http.StatusOK, "blogs", p)
}

func (s *Server) blogPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.svc.Blog.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if apperrors.IsNotFound(err) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	body, err := s.svc.Blog.Render(post)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	p := s.page(w, r, post.Title)
	p.Data = struct {
		Post *domain.BlogPost
		Body template.HTML
	}{post, body}
	s.views.Render(w, http.StatusOK, "blog_post", p)
}

func (s *Server) about(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.Team.Grouped(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	p := s.page(w, r, "About")
	p.Data = struct {
		Values []content.Value
		Groups []services.TeamGroup
	}{content.Values(), groups}
	s.views.Render(w, http.StatusOK, "about", p)
}

type contactData struct {
	Services []content.Service
	Budgets  []string
}

func (s *Server) contactPage(w http.ResponseWriter, r *http.Request) {
	p := s.page(w, r, "Contact")
	p.Data = contactData{Services: content.Services(), Budgets: domain.BudgetRanges}
	if slug := r.URL.Query().Get("service"); slug != "" {
		p.Form = map[string]string{"service_category": slug}
	}
	s.views.Render(w, http.StatusOK, "contact", p)
}

// contactSubmit stores a public submission. Rejected input re-renders the form with
// field errors; success redirects back with a banner.
func (s *Server) contactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, "error", "We could not read your message. Please try again.")
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	sub := contactFromForm(r.PostForm)
	err := s.svc.Contact.Submit(r.Context(), &sub)
	if err == nil {
		s.flash(w, r, "success", "Thanks! We received your message and will be in touch shortly.")
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	p := s.page(w, r, "Contact")
	p.Data = contactData{Services: content.Services(), Budgets: domain.BudgetRanges}
	p.Form = formValues(r.PostForm)
	if appErr, ok := apperrors.As(err); ok {
		p.Errors = appErr.Fields
	}
	p.Flashes = append(p.Flashes, Flash{Kind: "error", Message: apperrors.PublicMessage(err)})
	s.views.Render(w, apperrors.HTTPStatus(err), "contact", p)
}

func contactFromForm(form url.Values) domain.ContactSubmission {
	sub := domain.ContactSubmission{
		Name:            form.Get("name"),
		Email:           form.Get("email"),
		Company:         form.Get("company"),
		Message:         form.Get("message"),
		SubmissionType:  domain.SubmissionType(form.Get("submission_type")),
		ServiceCategory: form.Get("service_category"),
		BudgetRange:     form.Get("budget_range"),
	}
	if phone := form.Get("phone"); phone != "" {
		sub.Phone = &phone
	}
	return sub
}

// formValues keeps the first value of every submitted field so a rejected form
// can be shown again with the visitor's input.
func formValues(form url.Values) map[string]string {
	out := make(map[string]string, len(form))
	for k, v := range form {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
