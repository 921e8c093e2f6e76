package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"studioworks/internal/domain"
	"studioworks/internal/services"
	apperrors "studioworks/pkg/errors"
)

const maxJSONBody = 1 << 20

// apiResource exposes a record collection as JSON for bearer-authenticated clients.
type apiResource[T domain.Record] struct {
	store crud[T]
}

func (a apiResource[T]) mount(r chi.Router, path string) {
	r.Get(path, a.list)
	r.Post(path, a.create)
	r.Put(path+"/{id}", a.update)
	r.Delete(path+"/{id}", a.delete)
}

func (a apiResource[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.List(r.Context())
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (a apiResource[T]) create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if err := decodeJSON(r, &rec); err != nil {
		writeJSONError(w, err)
		return
	}
	if rec.PrimaryKey() != 0 {
		writeJSONError(w, apperrors.New(apperrors.ErrCodeBadRequest, "id is assigned by the server"))
		return
	}
	if err := a.store.Create(r.Context(), &rec, nil); err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// update applies the JSON body over the stored record, so omitted fields keep their values.
func (a apiResource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	rec, err := a.store.Update(r.Context(), id, func(rec *T) error {
		if err := json.Unmarshal(body, rec); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeBadRequest, "invalid JSON body", err)
		}
		if (*rec).PrimaryKey() != id {
			return apperrors.New(apperrors.ErrCodeBadRequest, "id in body does not match the path")
		}
		return nil
	}, nil)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a apiResource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	if err := a.store.Delete(r.Context(), id); err != nil {
		writeJSONError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiRoutes(r chi.Router) {
	r.Post("/auth/login", s.apiLogin)
	r.With(s.requireBearer).Get("/auth/me", s.apiMe)
	r.With(s.requireBearer).Post("/auth/logout", s.apiLogout)

	r.Get("/blog-posts", s.apiBlogPosts)
	r.Get("/blog-posts/{slug}", s.apiBlogPost)
	r.Get("/portfolio", s.apiPortfolio)
	r.Get("/projects", s.apiProjects)
	r.Get("/team", s.apiTeam)
	r.Post("/contact", s.apiContact)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireBearer)

		apiResource[domain.BlogPost]{store: s.svc.Blog}.mount(r, "/blog-posts")
		apiResource[domain.PortfolioItem]{store: s.svc.Portfolio}.mount(r, "/portfolio")
		apiResource[domain.Project]{store: s.svc.Projects}.mount(r, "/projects")
		apiResource[domain.TeamMember]{store: s.svc.Team}.mount(r, "/team")

		r.Get("/contacts", s.apiContacts)
		r.Patch("/contacts/{id}", s.apiContactStatus)
		r.Delete("/contacts/{id}", s.apiContactDelete)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) apiLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, err)
		return
	}
	session, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) apiMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SessionFromContext(r.Context()))
}

func (s *Server) apiLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Auth.Logout(r.Context(), SessionFromContext(r.Context())); err != nil {
		writeJSONError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.svc.Blog.Published(r.Context(), services.BlogFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
	})
	respond(w, posts, err)
}

func (s *Server) apiBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.svc.Blog.BySlug(r.Context(), chi.URLParam(r, "slug"))
	respond(w, post, err)
}

func (s *Server) apiPortfolio(w http.ResponseWriter, r *http.Request) {
	items, _, err := s.svc.Portfolio.ByCategory(r.Context(), strings.TrimSpace(r.URL.Query().Get("category")))
	respond(w, items, err)
}

func (s *Server) apiProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.Projects.List(r.Context())
	respond(w, projects, err)
}

func (s *Server) apiTeam(w http.ResponseWriter, r *http.Request) {
	members, err := s.svc.Team.Active(r.Context())
	respond(w, members, err)
}

func (s *Server) apiContact(w http.ResponseWriter, r *http.Request) {
	var sub domain.ContactSubmission
	if err := decodeJSON(r, &sub); err != nil {
		writeJSONError(w, err)
		return
	}
	if err := s.svc.Contact.Submit(r.Context(), &sub); err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) apiContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	subs, err := s.svc.Contact.List(r.Context(), services.ContactFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Type:     strings.TrimSpace(q.Get("type")),
		Status:   strings.TrimSpace(q.Get("status")),
		Query:    strings.TrimSpace(q.Get("q")),
	})
	respond(w, subs, err)
}

func (s *Server) apiContactStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	var req struct {
		Status domain.ContactStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, err)
		return
	}
	sub, err := s.svc.Contact.UpdateStatus(r.Context(), id, req.Status)
	respond(w, sub, err)
}

func (s *Server) apiContactDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	if err := s.svc.Contact.Delete(r.Context(), id); err != nil {
		writeJSONError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func urlID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.New(apperrors.ErrCodeBadRequest, "invalid id")
	}
	return uint(id), nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeBadRequest, "failed to read request body", err)
	}
	return body, nil
}

func decodeJSON(r *http.Request, v any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeBadRequest, "invalid JSON body", err)
	}
	return nil
}
