// Package web serves the marketing site, the admin dashboard and the JSON API.
package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"studioworks/internal/config"
	"studioworks/internal/content"
	"studioworks/internal/logging"
	"studioworks/internal/metrics"
	"studioworks/internal/rotation"
	"studioworks/internal/services"
	apperrors "studioworks/pkg/errors"
)

const requestTimeout = 30 * time.Second

// Server holds the HTTP handlers and the home page rotators.
type Server struct {
	cfg      *config.Config
	svc      *services.Services
	sessions *SessionStore
	views    *Views
	log      *zap.Logger

	tabs   *rotation.Rotator
	quotes *rotation.Rotator

	uploadsRoot string
}

// NewServer parses the templates and prepares the rotators. uploadsRoot is the
// directory behind the storage public URL; empty disables local file serving.
func NewServer(cfg *config.Config, svc *services.Services, uploadsRoot string, log *zap.Logger) (*Server, error) {
	log = logging.OrNop(log)
	views, err := NewViews(log.Named("views"))
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:         cfg,
		svc:         svc,
		sessions:    NewSessionStore(&cfg.Auth),
		views:       views,
		log:         log,
		tabs:        rotation.New(len(content.Services()), cfg.Site.RotationInterval),
		quotes:      rotation.New(len(content.Testimonials()), cfg.Site.RotationInterval),
		uploadsRoot: uploadsRoot,
	}, nil
}

// Start runs the home page rotators until ctx ends or Stop is called.
func (s *Server) Start(ctx context.Context) {
	s.tabs.Start(ctx)
	s.quotes.Start(ctx)
}

// Stop halts the rotators.
func (s *Server) Stop() {
	s.tabs.Stop()
	s.quotes.Stop()
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(securityHeaders(s.cfg))
	r.Use(cors(s.cfg))
	r.Use(requestLogging(s.log.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(metrics.PrometheusMiddleware)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())
	s.mountUploads(r)

	r.Get("/", s.home)
	r.Get("/services/{slug}", s.servicePage)
	r.Get("/portfolio", s.portfolio)
	r.Get("/blogs", s.blogs)
	r.Get("/blogs/{slug}", s.blogPost)
	r.Get("/about", s.about)
	r.Get("/contact", s.contactPage)
	r.Post("/contact", s.contactSubmit)

	r.Get("/admin/login", s.loginPage)
	r.Post("/admin/login", s.login)
	r.Route("/admin", s.adminRoutes)

	r.Route("/api/v1", s.apiRoutes)

	r.NotFound(s.notFound)
	return r
}

func (s *Server) mountUploads(r chi.Router) {
	prefix := strings.TrimSuffix(s.cfg.Storage.PublicBaseURL, "/")
	if s.uploadsRoot == "" || !strings.HasPrefix(prefix, "/") {
		return
	}
	fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(s.uploadsRoot)))
	r.Handle(prefix+"/*", fs)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	result := s.svc.Health.Check(r.Context())
	status := http.StatusOK
	if !result.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, result)
}

// page builds the common template data and pops pending banners.
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string) Page {
	return Page{
		Title:   title,
		Site:    s.cfg.Site.Name,
		Path:    r.URL.Path,
		Session: SessionFromContext(r.Context()),
		Flashes: s.sessions.Flashes(w, r),
	}
}

func (s *Server) flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if err := s.sessions.AddFlash(w, r, kind, message); err != nil {
		s.log.Warn("failed to save flash", zap.Error(err))
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSONError(w, apperrors.New(apperrors.ErrCodeNotFound, "resource not found"))
		return
	}
	p := s.page(w, r, "Page not found")
	p.Data = "The page you are looking for does not exist."
	s.views.Render(w, http.StatusNotFound, "error", p)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	p := s.page(w, r, "Something went wrong")
	p.Data = "We could not load this page. Please try again shortly."
	s.views.Render(w, http.StatusInternalServerError, "error", p)
}
