package web

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"studioworks/internal/content"
	"studioworks/internal/domain"
	"studioworks/internal/listing"
	"studioworks/internal/services"
	apperrors "studioworks/pkg/errors"
)

const multipartOverhead = 1 << 20

// crud is the part of a screen service the generic admin handlers need.
type crud[T domain.Record] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec *T, upload *services.Upload) error
	Update(ctx context.Context, id uint, mutate func(*T) error, upload *services.Upload) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// adminResource serves one record screen: list, create, update and confirmed delete.
// path is the absolute screen URL; routes are registered relative to the /admin mount.
type adminResource[T domain.Record] struct {
	s     *Server
	path  string
	title string
	noun  string
	page  string
	store crud[T]
	bind  func(form url.Values, rec *T) error
	decor func(items []T) any
}

func (a *adminResource[T]) mount(r chi.Router) {
	rel := strings.TrimPrefix(a.path, "/admin")
	r.Get(rel, a.list)
	r.Post(rel, a.create)
	r.Post(rel+"/{id}", a.update)
	r.Post(rel+"/{id}/delete", a.delete)
}

func (a *adminResource[T]) render(w http.ResponseWriter, r *http.Request, status int, p Page) {
	items, err := a.store.List(r.Context())
	if err != nil {
		a.s.serverError(w, r, err)
		return
	}
	if a.decor != nil {
		p.Data = a.decor(items)
	} else {
		p.Data = items
	}
	a.s.views.Render(w, status, a.page, p)
}

func (a *adminResource[T]) list(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, a.s.page(w, r, a.title))
}

// create re-renders the screen with field errors when validation fails; nothing is stored then.
func (a *adminResource[T]) create(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := a.s.parseRecordForm(r)
	if err != nil {
		a.s.flash(w, r, "error", apperrors.PublicMessage(err))
		http.Redirect(w, r, a.path, http.StatusSeeOther)
		return
	}
	defer cleanup()

	var rec T
	err = a.bind(r.PostForm, &rec)
	if err == nil {
		err = a.store.Create(r.Context(), &rec, upload)
	}
	if err != nil {
		if !apperrors.IsValidation(err) && apperrors.CodeOf(err) != apperrors.ErrCodeBadRequest {
			a.s.log.Error("admin create failed", zap.String("screen", a.path), zap.Error(err))
		}
		p := a.s.page(w, r, a.title)
		p.Form = formValues(r.PostForm)
		if appErr, ok := apperrors.As(err); ok {
			p.Errors = appErr.Fields
		}
		p.Flashes = append(p.Flashes, Flash{Kind: "error", Message: apperrors.PublicMessage(err)})
		a.render(w, r, apperrors.HTTPStatus(err), p)
		return
	}

	a.s.flash(w, r, "success", fmt.Sprintf("%s created.", a.noun))
	http.Redirect(w, r, a.path, http.StatusSeeOther)
}

func (a *adminResource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := a.s.recordID(w, r, a.path)
	if !ok {
		return
	}
	upload, cleanup, err := a.s.parseRecordForm(r)
	if err != nil {
		a.s.flash(w, r, "error", apperrors.PublicMessage(err))
		http.Redirect(w, r, a.path, http.StatusSeeOther)
		return
	}
	defer cleanup()

	_, err = a.store.Update(r.Context(), id, func(rec *T) error {
		return a.bind(r.PostForm, rec)
	}, upload)
	if err != nil {
		a.s.flash(w, r, "error", describe(err))
	} else {
		a.s.flash(w, r, "success", fmt.Sprintf("%s saved.", a.noun))
	}
	http.Redirect(w, r, a.path, http.StatusSeeOther)
}

func (a *adminResource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.s.recordID(w, r, a.path)
	if !ok {
		return
	}
	if !a.s.confirmed(w, r, a.path) {
		return
	}
	if err := a.store.Delete(r.Context(), id); err != nil {
		a.s.flash(w, r, "error", describe(err))
	} else {
		a.s.flash(w, r, "success", fmt.Sprintf("%s deleted.", a.noun))
	}
	http.Redirect(w, r, a.path, http.StatusSeeOther)
}

// toggle flips one flag on one record and returns to the list.
func (s *Server) toggle(back string, flip func(ctx context.Context, id uint) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.recordID(w, r, back)
		if !ok {
			return
		}
		if err := flip(r.Context(), id); err != nil {
			s.flash(w, r, "error", describe(err))
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

func (s *Server) adminRoutes(r chi.Router) {
	r.Use(s.requireSession)

	r.Get("/", s.overview)
	r.Post("/logout", s.logout)

	projects := &adminResource[domain.Project]{
		s: s, path: "/admin/projects", title: "Projects", noun: "Project", page: "admin_projects",
		store: s.svc.Projects, bind: bindProject,
	}
	portfolio := &adminResource[domain.PortfolioItem]{
		s: s, path: "/admin/portfolio", title: "Portfolio", noun: "Portfolio item", page: "admin_portfolio",
		store: s.svc.Portfolio, bind: bindPortfolio,
	}
	team := &adminResource[domain.TeamMember]{
		s: s, path: "/admin/team", title: "Team", noun: "Team member", page: "admin_team",
		store: s.svc.Team, bind: bindTeamMember,
		decor: func(items []domain.TeamMember) any {
			return struct {
				Categories []domain.TeamCategory
				Members    []domain.TeamMember
			}{domain.TeamCategories, items}
		},
	}
	blogs := &adminResource[domain.BlogPost]{
		s: s, path: "/admin/blogs", title: "Blog posts", noun: "Post", page: "admin_blogs",
		store: s.svc.Blog, bind: bindBlogPost,
	}

	projects.mount(r)
	portfolio.mount(r)
	team.mount(r)
	blogs.mount(r)

	r.Post("/blogs/{id}/publish", s.toggle("/admin/blogs", func(ctx context.Context, id uint) error {
		_, err := s.svc.Blog.TogglePublished(ctx, id)
		return err
	}))
	r.Post("/blogs/{id}/breaking", s.toggle("/admin/blogs", func(ctx context.Context, id uint) error {
		_, err := s.svc.Blog.ToggleBreaking(ctx, id)
		return err
	}))
	r.Post("/team/{id}/active", s.toggle("/admin/team", func(ctx context.Context, id uint) error {
		_, err := s.svc.Team.ToggleActive(ctx, id)
		return err
	}))

	r.Get("/contacts", s.contacts)
	r.Post("/contacts/{id}/status", s.contactStatus)
	r.Post("/contacts/{id}/delete", s.contactDelete)

	r.NotFound(s.notFound)
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.svc.Overview(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	p := s.page(w, r, "Overview")
	p.Data = overview
	s.views.Render(w, http.StatusOK, "admin_overview", p)
}

type contactsData struct {
	Filter      services.ContactFilter
	Services    []content.Service
	Statuses    []domain.ContactStatus
	Submissions []domain.ContactSubmission
}

func (s *Server) contacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.ContactFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Type:     strings.TrimSpace(q.Get("type")),
		Status:   strings.TrimSpace(q.Get("status")),
		Query:    strings.TrimSpace(q.Get("q")),
	}
	subs, err := s.svc.Contact.List(r.Context(), filter)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	p := s.page(w, r, "Contacts")
	p.Data = contactsData{
		Filter:      filter,
		Services:    content.Services(),
		Statuses:    domain.ContactStatuses,
		Submissions: subs,
	}
	s.views.Render(w, http.StatusOK, "admin_contacts", p)
}

func (s *Server) contactStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordID(w, r, "/admin/contacts")
	if !ok {
		return
	}
	status := domain.ContactStatus(r.PostFormValue("status"))
	if _, err := s.svc.Contact.UpdateStatus(r.Context(), id, status); err != nil {
		s.flash(w, r, "error", describe(err))
	} else {
		s.flash(w, r, "success", fmt.Sprintf("Marked as %s.", status))
	}
	http.Redirect(w, r, "/admin/contacts", http.StatusSeeOther)
}

func (s *Server) contactDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordID(w, r, "/admin/contacts")
	if !ok {
		return
	}
	if !s.confirmed(w, r, "/admin/contacts") {
		return
	}
	if err := s.svc.Contact.Delete(r.Context(), id); err != nil {
		s.flash(w, r, "error", describe(err))
	} else {
		s.flash(w, r, "success", "Submission deleted.")
	}
	http.Redirect(w, r, "/admin/contacts", http.StatusSeeOther)
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	if token := s.sessions.Token(r); token != "" {
		if _, err := s.svc.Auth.Session(r.Context(), token); err == nil {
			http.Redirect(w, r, "/admin", http.StatusFound)
			return
		}
	}
	s.views.Render(w, http.StatusOK, "admin_login", s.page(w, r, "Sign in"))
}

// login keeps the visitor on the form with an inline message when sign-in fails.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		p := s.page(w, r, "Sign in")
		p.Data = "We could not read the form. Please try again."
		s.views.Render(w, http.StatusBadRequest, "admin_login", p)
		return
	}
	session, err := s.svc.Auth.Login(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		p := s.page(w, r, "Sign in")
		p.Data = apperrors.PublicMessage(err)
		p.Form = map[string]string{"email": r.PostForm.Get("email")}
		s.views.Render(w, apperrors.HTTPStatus(err), "admin_login", p)
		return
	}
	if err := s.sessions.SetToken(w, r, session.Token); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.flash(w, r, "success", "Signed in as "+session.User.DisplayName()+".")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Auth.Logout(r.Context(), SessionFromContext(r.Context())); err != nil {
		s.log.Warn("logout failed", zap.Error(err))
	}
	if err := s.sessions.ClearToken(w, r); err != nil {
		s.log.Warn("failed to clear session cookie", zap.Error(err))
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// parseRecordForm reads an admin form, multipart or not. The returned cleanup
// closes the uploaded file and removes spooled parts.
func (s *Server) parseRecordForm(r *http.Request) (*services.Upload, func(), error) {
	noop := func() {}
	err := r.ParseMultipartForm(s.cfg.Storage.MaxUploadBytes + multipartOverhead)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, noop, apperrors.Wrap(apperrors.ErrCodeBadRequest, "the form could not be read", err)
	}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	file, header, err := r.FormFile("image")
	if err != nil || header.Filename == "" || header.Size == 0 {
		if file != nil {
			_ = file.Close()
		}
		return nil, cleanup, nil
	}
	return &services.Upload{Filename: header.Filename, Body: file}, closeBoth(file, cleanup), nil
}

func closeBoth(file multipart.File, cleanup func()) func() {
	return func() {
		_ = file.Close()
		cleanup()
	}
}

func (s *Server) recordID(w http.ResponseWriter, r *http.Request, back string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		s.flash(w, r, "error", "Unknown record.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return 0, false
	}
	return uint(id), true
}

// confirmed reports whether a destructive action carried confirm=yes. Otherwise
// it queues an error banner and redirects to back.
func (s *Server) confirmed(w http.ResponseWriter, r *http.Request, back string) bool {
	if r.PostFormValue("confirm") == "yes" {
		return true
	}
	s.flash(w, r, "error", "Tick the confirmation box to delete.")
	http.Redirect(w, r, back, http.StatusSeeOther)
	return false
}

// describe turns a failed mutation into a banner line naming each rejected field.
func describe(err error) string {
	appErr, ok := apperrors.As(err)
	if !ok || len(appErr.Fields) == 0 {
		return apperrors.PublicMessage(err)
	}
	names := make([]string, 0, len(appErr.Fields))
	for name := range appErr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %s", strings.ReplaceAll(name, "_", " "), appErr.Fields[name])
	}
	return "Not saved: " + strings.Join(parts, "; ")
}

func bindProject(form url.Values, p *domain.Project) error {
	p.Title = strings.TrimSpace(form.Get("title"))
	p.Category = strings.TrimSpace(form.Get("category"))
	p.Description = strings.TrimSpace(form.Get("description"))
	p.Results = listing.SplitList(form.Get("results"))
	return nil
}

func bindPortfolio(form url.Values, p *domain.PortfolioItem) error {
	p.Title = strings.TrimSpace(form.Get("title"))
	p.Category = strings.TrimSpace(form.Get("category"))
	p.Description = strings.TrimSpace(form.Get("description"))
	p.Technologies = listing.SplitList(form.Get("technologies"))
	p.Results = strings.TrimSpace(form.Get("results"))
	p.Link = strings.TrimSpace(form.Get("link"))
	return nil
}

func bindTeamMember(form url.Values, m *domain.TeamMember) error {
	m.Name = strings.TrimSpace(form.Get("name"))
	m.Role = strings.TrimSpace(form.Get("role"))
	m.Category = domain.TeamCategory(strings.TrimSpace(form.Get("category")))
	m.Description = strings.TrimSpace(form.Get("description"))
	m.ProfileURL = strings.TrimSpace(form.Get("profile_url"))
	m.Active = form.Get("active") == "on"
	m.DisplayOrder = 0
	if raw := strings.TrimSpace(form.Get("display_order")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.Validation(map[string]string{"display_order": "must be a whole number"})
		}
		m.DisplayOrder = n
	}
	return nil
}

func bindBlogPost(form url.Values, p *domain.BlogPost) error {
	p.Title = strings.TrimSpace(form.Get("title"))
	p.Slug = strings.TrimSpace(form.Get("slug"))
	p.Category = strings.TrimSpace(form.Get("category"))
	p.Excerpt = strings.TrimSpace(form.Get("excerpt"))
	p.Content = form.Get("content")
	p.AuthorName = strings.TrimSpace(form.Get("author_name"))
	p.AuthorRole = strings.TrimSpace(form.Get("author_role"))
	p.AuthorImage = strings.TrimSpace(form.Get("author_image"))
	p.Tags = listing.SplitList(form.Get("tags"))
	p.Status = domain.PostStatus(strings.TrimSpace(form.Get("status")))
	if p.Status == "" {
		p.Status = domain.PostDraft
	}
	p.Breaking = form.Get("breaking") == "on"
	return nil
}
