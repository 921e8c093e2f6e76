package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studioworks/internal/backend"
	"studioworks/internal/config"
	"studioworks/internal/content"
	"studioworks/internal/database"
	"studioworks/internal/domain"
	"studioworks/internal/services"
	"studioworks/internal/util"
)

const (
	testSecret   = "web-test-secret-0123456789abcdef"
	testEmail    = "admin@studioworks.dev"
	testPassword = "correct-horse-battery"
)

type harness struct {
	t      *testing.T
	server *Server
	ts     *httptest.Server
	svc    *services.Services
	client *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := database.OpenTest(t)
	root := t.TempDir()
	bucket, err := backend.NewDiskBucket("images", root, "/uploads", 1<<20, zap.NewNop())
	require.NoError(t, err)
	client := backend.NewClient(db, util.NewTokenIssuer(testSecret, time.Hour), bucket, zap.NewNop())

	cfg := &config.Config{
		App:  config.AppConfig{Name: "Studioworks", Version: "test", Debug: true},
		Auth: config.AuthConfig{SecretKey: testSecret, TokenExpiryMinutes: 60, SessionSecret: "web-test-session-secret"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         60,
		},
		Storage: config.StorageConfig{Bucket: "images", Root: root, PublicBaseURL: "/uploads", MaxUploadBytes: 1 << 20},
		Site:    config.SiteConfig{Name: "Studioworks", RotationInterval: time.Hour, HomeBlogLimit: 3},
	}
	svc := services.New(client, cfg, zap.NewNop())
	t.Cleanup(svc.Contact.Wait)

	server, err := NewServer(cfg, svc, root, zap.NewNop())
	require.NoError(t, err)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{
		t:      t,
		server: server,
		ts:     ts,
		svc:    svc,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *harness) do(req *http.Request) (*http.Response, string) {
	h.t.Helper()
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp, string(body)
}

func (h *harness) get(path string) (*http.Response, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.ts.URL+path, nil)
	require.NoError(h.t, err)
	return h.do(req)
}

func (h *harness) postForm(path string, form url.Values) (*http.Response, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.ts.URL+path, strings.NewReader(form.Encode()))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

func (h *harness) jsonRequest(method, path, token string, body any) (*http.Response, string) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, h.ts.URL+path, r)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return h.do(req)
}

func (h *harness) seedAdmin() {
	h.t.Helper()
	_, err := h.svc.Auth.CreateAdmin(context.Background(), services.AdminInput{Email: testEmail, Password: testPassword})
	require.NoError(h.t, err)
}

func (h *harness) login() {
	h.t.Helper()
	h.seedAdmin()
	resp, _ := h.postForm("/admin/login", url.Values{"email": {testEmail}, "password": {testPassword}})
	require.Equal(h.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(h.t, "/admin", resp.Header.Get("Location"))
}

func TestAdminRequiresSession(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/admin", "/admin/projects", "/admin/contacts", "/admin/no-such-screen"} {
		resp, _ := h.get(path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/admin/login", resp.Header.Get("Location"), path)
	}

	resp, body := h.get("/admin/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="/admin/login"`)
}

func TestAdminScreensRenderWithSession(t *testing.T) {
	h := newHarness(t)
	h.login()

	resp, body := h.get("/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Signed in as "+testEmail)
	assert.Contains(t, body, "Overview")

	for _, path := range []string{"/admin/projects", "/admin/portfolio", "/admin/team", "/admin/blogs", "/admin/contacts"} {
		resp, body := h.get(path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, body, "Sign out", path)
	}

	resp, _ = h.get("/admin/login")
	assert.Equal(t, http.StatusFound, resp.StatusCode, "signed-in visitors skip the login form")
}

func TestLoginFailureStaysOnForm(t *testing.T) {
	h := newHarness(t)
	h.seedAdmin()

	resp, body := h.postForm("/admin/login", url.Values{"email": {testEmail}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
	assert.Contains(t, body, "incorrect email or password")
	assert.Contains(t, body, `value="`+testEmail+`"`)

	resp, _ = h.get("/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLogoutEndsSession(t *testing.T) {
	h := newHarness(t)
	h.login()

	resp, _ := h.postForm("/admin/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))

	resp, _ = h.get("/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestAdminCreateRejectsMissingFields(t *testing.T) {
	h := newHarness(t)
	h.login()

	resp, body := h.postForm("/admin/projects", url.Values{
		"description": {"Rebuilt checkout"},
		"category":    {"ecommerce"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "cannot be blank")
	assert.Contains(t, body, "Rebuilt checkout", "submitted values are kept")

	n, err := h.svc.Projects.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAdminCreateListsNewestFirstAndDeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()

	for _, title := range []string{"Alpha Site", "Beta App"} {
		resp, _ := h.postForm("/admin/projects", url.Values{
			"title":       {title},
			"description": {"A project"},
			"category":    {"web"},
			"results":     {"Faster\nfaster, Cheaper"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}

	_, body := h.get("/admin/projects")
	assert.Contains(t, body, "Project created.")
	require.Contains(t, body, "Alpha Site")
	require.Contains(t, body, "Beta App")
	assert.Less(t, strings.Index(body, "Beta App"), strings.Index(body, "Alpha Site"))

	projects, err := h.svc.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, []string{"Faster", "Cheaper"}, []string(projects[0].Results))
	target := projects[1].ID

	resp, _ := h.postForm(fmt.Sprintf("/admin/projects/%d/delete", target), nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	n, err := h.svc.Projects.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "unconfirmed delete is a no-op")
	_, body = h.get("/admin/projects")
	assert.Contains(t, body, "Tick the confirmation box")

	resp, _ = h.postForm(fmt.Sprintf("/admin/projects/%d/delete", target), url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	remaining, err := h.svc.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Beta App", remaining[0].Title)
}

func TestAdminUpdateKeepsRecordOnValidationError(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()

	p := &domain.Project{Title: "Original", Description: "d", Category: "web"}
	require.NoError(t, h.svc.Projects.Create(ctx, p, nil))

	resp, _ := h.postForm(fmt.Sprintf("/admin/projects/%d", p.ID), url.Values{"title": {""}, "description": {"d"}, "category": {"web"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body := h.get("/admin/projects")
	assert.Contains(t, body, "Not saved: title cannot be blank")

	resp, _ = h.postForm(fmt.Sprintf("/admin/projects/%d", p.ID), url.Values{"title": {"Renamed"}, "description": {"d"}, "category": {"web"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	got, err := h.svc.Projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestAdminMultipartCreateStoresImage(t *testing.T) {
	h := newHarness(t)
	h.login()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Shop redesign"))
	require.NoError(t, mw.WriteField("description", "New storefront"))
	require.NoError(t, mw.WriteField("category", "ecommerce"))
	fw, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, h.ts.URL+"/admin/portfolio", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, _ := h.do(req)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	items, err := h.svc.Portfolio.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, strings.HasPrefix(items[0].ImageURL, "/uploads/portfolio/"), items[0].ImageURL)

	resp, body := h.get(items[0].ImageURL)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "\x89PNG fake image bytes", body)
}

func TestAdminTogglesFlipOnlyTarget(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()

	var ids []uint
	for _, title := range []string{"First post", "Second post"} {
		post := &domain.BlogPost{Title: title, Excerpt: "e", Content: "body", Category: "news", AuthorName: "Ada"}
		require.NoError(t, h.svc.Blog.Create(ctx, post, nil))
		ids = append(ids, post.ID)
	}

	resp, _ := h.postForm(fmt.Sprintf("/admin/blogs/%d/publish", ids[0]), nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	first, err := h.svc.Blog.Get(ctx, ids[0])
	require.NoError(t, err)
	second, err := h.svc.Blog.Get(ctx, ids[1])
	require.NoError(t, err)
	assert.True(t, first.IsPublished())
	assert.False(t, second.IsPublished())

	member := &domain.TeamMember{Name: "Grace", Role: "CTO", Category: domain.TeamLeadership, Active: true}
	other := &domain.TeamMember{Name: "Linus", Role: "Engineer", Category: domain.TeamStaff, Active: true}
	require.NoError(t, h.svc.Team.Create(ctx, member, nil))
	require.NoError(t, h.svc.Team.Create(ctx, other, nil))

	h.postForm(fmt.Sprintf("/admin/team/%d/active", member.ID), nil)
	gotMember, err := h.svc.Team.Get(ctx, member.ID)
	require.NoError(t, err)
	gotOther, err := h.svc.Team.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, gotMember.Active)
	assert.True(t, gotOther.Active)
}

func TestAdminContactFiltersIntersect(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()

	submit := func(name, kind, category, message string) {
		sub := &domain.ContactSubmission{
			Name:            name,
			Email:           strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
			Message:         message,
			SubmissionType:  domain.SubmissionType(kind),
			ServiceCategory: category,
		}
		require.NoError(t, h.svc.Contact.Submit(ctx, sub))
	}
	submit("Ann Acme", "service-request", "web-development", "Acme needs a new site")
	submit("Bob Acme", "service-request", "mobile-apps", "Acme needs an app")
	submit("Cid Other", "service-request", "web-development", "A shop please")
	submit("Dee Acme", "consultation", "", "Acme wants advice")

	_, body := h.get("/admin/contacts?category=web-development&type=service-request&q=acme")
	assert.Contains(t, body, "Ann Acme")
	assert.NotContains(t, body, "Bob Acme")
	assert.NotContains(t, body, "Cid Other")
	assert.NotContains(t, body, "Dee Acme")
	assert.Contains(t, body, "1 result(s)")

	subs, err := h.svc.Contact.List(ctx, services.ContactFilter{Query: "Ann"})
	require.NoError(t, err)
	require.Len(t, subs, 1)

	resp, _ := h.postForm(fmt.Sprintf("/admin/contacts/%d/status", subs[0].ID), url.Values{"status": {"contacted"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body = h.get("/admin/contacts?status=contacted")
	assert.Contains(t, body, "Ann Acme")
	assert.NotContains(t, body, "Cid Other")
}

func TestPublicPagesRender(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	post := &domain.BlogPost{
		Title: "Shipping fast", Excerpt: "How we ship", Content: "# Hello\n\nWorld",
		Category: "engineering", AuthorName: "Ada", Status: domain.PostPublished, Breaking: true,
	}
	require.NoError(t, h.svc.Blog.Create(ctx, post, nil))
	draft := &domain.BlogPost{Title: "Secret draft", Excerpt: "e", Content: "c", Category: "news", AuthorName: "Ada"}
	require.NoError(t, h.svc.Blog.Create(ctx, draft, nil))

	for _, path := range []string{"/", "/portfolio", "/blogs", "/about", "/contact", "/services/web-development", "/blogs/" + post.Slug} {
		resp, _ := h.get(path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	_, body := h.get("/blogs")
	assert.Contains(t, body, "Shipping fast")
	assert.Contains(t, body, "Breaking:")
	assert.NotContains(t, body, "Secret draft")

	_, body = h.get("/blogs/" + post.Slug)
	assert.Contains(t, body, "<h1 id=\"hello\">Hello</h1>")

	for _, path := range []string{"/services/nope", "/blogs/" + draft.Slug, "/no/such/page"} {
		resp, _ := h.get(path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestHomeTabSelection(t *testing.T) {
	h := newHarness(t)
	offered := content.Services()
	require.Greater(t, len(offered), 2)

	_, body := h.get("/")
	assert.Contains(t, body, `class="active"><a href="/?tab=0"`)

	_, body = h.get("/?tab=2")
	assert.Contains(t, body, `class="active"><a href="/?tab=2"`)
	assert.Contains(t, body, offered[2].Description)

	_, body = h.get("/?tab=99")
	assert.Contains(t, body, `class="active"><a href="/?tab=0"`, "out-of-range tabs fall back to the rotating tab")
}

func TestPublicContactSubmission(t *testing.T) {
	h := newHarness(t)

	resp, body := h.postForm("/contact", url.Values{
		"submission_type": {"service-request"},
		"name":            {"Jo"},
		"email":           {"not-an-email"},
		"message":         {"Hello"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `value="not-an-email"`)
	assert.Contains(t, body, "please fix the highlighted fields")

	resp, _ = h.postForm("/contact", url.Values{
		"submission_type":  {"service-request"},
		"name":             {"Jo Doe"},
		"email":            {"jo@example.com"},
		"message":          {"We need a site"},
		"service_category": {"web-development"},
		"budget_range":     {"$5k - $15k"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/contact", resp.Header.Get("Location"))

	_, body = h.get("/contact")
	assert.Contains(t, body, "Thanks! We received your message")

	subs, err := h.svc.Contact.List(context.Background(), services.ContactFilter{})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, domain.ContactNew, subs[0].Status)
}

func TestHealthAndHeaders(t *testing.T) {
	h := newHarness(t)

	resp, body := h.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var result services.HealthResult
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "ok", result.Database)

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))

	resp, body = h.get("/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "http_requests_total")
}

func TestAPIAuthAndAdminCRUD(t *testing.T) {
	h := newHarness(t)
	h.seedAdmin()

	resp, _ := h.jsonRequest(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": testEmail, "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := h.jsonRequest(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": testEmail, "password": testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session backend.Session
	require.NoError(t, json.Unmarshal([]byte(body), &session))
	require.NotEmpty(t, session.Token)
	token := session.Token

	resp, body = h.jsonRequest(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, testEmail)

	resp, body = h.jsonRequest(http.MethodGet, "/api/v1/admin/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, `"UNAUTHORIZED"`)

	resp, _ = h.jsonRequest(http.MethodPost, "/api/v1/admin/projects", token, map[string]any{"id": 7, "title": "x", "description": "d", "category": "c"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = h.jsonRequest(http.MethodPost, "/api/v1/admin/projects", token, map[string]any{"title": "API project"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `"description"`)

	resp, body = h.jsonRequest(http.MethodPost, "/api/v1/admin/projects", token, map[string]any{
		"title": "API project", "description": "d", "category": "web", "results": []string{"a", "a", "b"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created domain.Project
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, []string{"a", "b"}, []string(created.Results))

	path := fmt.Sprintf("/api/v1/admin/projects/%d", created.ID)
	resp, body = h.jsonRequest(http.MethodPut, path, token, map[string]any{"title": "Renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"title":"Renamed"`)
	assert.Contains(t, body, `"category":"web"`, "omitted fields are kept")

	resp, _ = h.jsonRequest(http.MethodGet, "/api/v1/projects", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.jsonRequest(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = h.jsonRequest(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = h.jsonRequest(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = h.jsonRequest(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPIContactWorkflow(t *testing.T) {
	h := newHarness(t)
	h.seedAdmin()

	resp, body := h.jsonRequest(http.MethodPost, "/api/v1/contact", "", map[string]any{
		"name": "Jo Doe", "email": "jo@example.com", "message": "Advice please", "submission_type": "consultation",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sub domain.ContactSubmission
	require.NoError(t, json.Unmarshal([]byte(body), &sub))

	session, err := h.svc.Auth.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	path := fmt.Sprintf("/api/v1/admin/contacts/%d", sub.ID)
	resp, _ = h.jsonRequest(http.MethodPatch, path, session.Token, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = h.jsonRequest(http.MethodPatch, path, session.Token, map[string]string{"status": "in-progress"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"in-progress"`)

	resp, body = h.jsonRequest(http.MethodGet, "/api/v1/admin/contacts?type=consultation", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Jo Doe")
}

func TestServerStartStop(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.server.Start(ctx)
	h.server.Start(ctx)
	h.server.Stop()
	h.server.Stop()
}
