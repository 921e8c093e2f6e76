package web

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"

	"studioworks/internal/config"
)

const (
	sessionName = "studioworks_admin"
	tokenKey    = "access_token"

	flashError   = "_flash_error"
	flashSuccess = "_flash_success"
)

// Flash is a one-shot banner shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// SessionStore keeps the admin access token and pending banners in an encrypted cookie.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore derives signing and encryption keys from the configured secret.
func NewSessionStore(cfg *config.AuthConfig) *SessionStore {
	secret := cfg.SessionSecret
	if secret == "" {
		secret = cfg.SecretKey
	}
	h := sha256.Sum256([]byte("auth:" + secret))
	e := sha256.Sum256([]byte("enc:" + secret))

	store := sessions.NewCookieStore(h[:], e[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.SecureCookies,
	}
	return &SessionStore{store: store}
}

func (s *SessionStore) get(r *http.Request) *sessions.Session {
	// A cookie that fails to decode yields a fresh session; the error only reports that.
	sess, _ := s.store.Get(r, sessionName)
	return sess
}

// Token returns the stored access token, if any.
func (s *SessionStore) Token(r *http.Request) string {
	token, _ := s.get(r).Values[tokenKey].(string)
	return token
}

// SetToken stores the access token.
func (s *SessionStore) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	sess := s.get(r)
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// ClearToken forgets the access token and keeps pending banners.
func (s *SessionStore) ClearToken(w http.ResponseWriter, r *http.Request) error {
	sess := s.get(r)
	delete(sess.Values, tokenKey)
	return sess.Save(r, w)
}

// AddFlash queues a banner for the next page.
func (s *SessionStore) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) error {
	sess := s.get(r)
	key := flashSuccess
	if kind == "error" {
		key = flashError
	}
	sess.AddFlash(message, key)
	return sess.Save(r, w)
}

// Flashes pops pending banners.
func (s *SessionStore) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := s.get(r)
	var out []Flash
	for _, kind := range []struct{ key, name string }{{flashError, "error"}, {flashSuccess, "success"}} {
		for _, v := range sess.Flashes(kind.key) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind.name, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		_ = sess.Save(r, w)
	}
	return out
}
