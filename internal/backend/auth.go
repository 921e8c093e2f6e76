package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studioworks/internal/domain"
	"studioworks/internal/metrics"
	"studioworks/internal/util"
	apperrors "studioworks/pkg/errors"
)

// SessionEventKind names a session transition.
type SessionEventKind string

const (
	SignedIn  SessionEventKind = "signed_in"
	SignedOut SessionEventKind = "signed_out"
)

// Session is an authenticated admin.
type Session struct {
	Token     string      `json:"access_token"`
	TokenType string      `json:"token_type"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

// SessionEvent is delivered to OnSessionChange subscribers.
type SessionEvent struct {
	Kind    SessionEventKind
	Session *Session
}

// Auth signs admins in and resolves their sessions.
type Auth struct {
	db     *gorm.DB
	tokens *util.TokenIssuer
	log    *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	nextSub int
	subs    map[int]func(SessionEvent)
	revoked map[string]time.Time
}

// NewAuth creates the auth component.
func NewAuth(db *gorm.DB, tokens *util.TokenIssuer, log *zap.Logger) *Auth {
	return &Auth{
		db:      db,
		tokens:  tokens,
		log:     log,
		now:     time.Now,
		subs:    make(map[int]func(SessionEvent)),
		revoked: make(map[string]time.Time),
	}
}

// SignIn checks credentials and the admin allow-list, then issues a session.
func (a *Auth) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = domain.NormalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "email and password are required")
	}

	var user domain.User
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		metrics.RecordAuthAttempt(false)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a.log.Info("sign-in failed: unknown email", zap.String("email", email))
			return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "incorrect email or password")
		}
		a.log.Error("sign-in failed: database error", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to load user", err)
	}

	if !util.CheckPasswordHash(password, user.HashedPassword) {
		a.log.Info("sign-in failed: invalid password", zap.String("email", email))
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "incorrect email or password")
	}

	if err := a.authorize(ctx, &user); err != nil {
		a.log.Info("sign-in refused", zap.String("email", email), zap.Error(err))
		metrics.RecordAuthAttempt(false)
		return nil, err
	}

	now := a.now()
	user.LastLogin = &now
	if err := a.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		a.log.Warn("failed to stamp last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	token, expiresAt, err := a.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		a.log.Error("sign-in failed: token generation", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to issue session", err)
	}

	session := &Session{Token: token, TokenType: "bearer", ExpiresAt: expiresAt, User: user}
	a.log.Info("sign-in successful", zap.String("email", email), zap.Uint("user_id", user.ID))
	metrics.RecordAuthAttempt(true)
	a.emit(SessionEvent{Kind: SignedIn, Session: session})
	return session, nil
}

// GetSession resolves a token to a live session. The user must still be active and allow-listed.
func (a *Auth) GetSession(ctx context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "not signed in")
	}
	if a.isRevoked(token) {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "session has ended")
	}

	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, apperrors.Wrap(apperrors.ErrCodeUnauthorized, "session has expired", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeUnauthorized, "invalid session", err)
	}

	var user domain.User
	if err := a.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to load user", err)
	}
	if err := a.authorize(ctx, &user); err != nil {
		return nil, err
	}

	session := &Session{Token: token, TokenType: "bearer", User: user}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// SignOut ends a session. The token is refused until it would have expired anyway.
func (a *Auth) SignOut(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return nil
	}
	a.mu.Lock()
	a.revoked[session.Token] = session.ExpiresAt
	a.mu.Unlock()

	a.log.Info("signed out", zap.String("email", session.User.Email))
	a.emit(SessionEvent{Kind: SignedOut, Session: session})
	return nil
}

// OnSessionChange subscribes fn to sign-in and sign-out events. Call the returned func to unsubscribe.
func (a *Auth) OnSessionChange(fn func(SessionEvent)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subs, id)
			a.mu.Unlock()
		})
	}
}

// IsAdmin reports whether email is on the allow-list.
func (a *Auth) IsAdmin(ctx context.Context, email string) (bool, error) {
	var n int64
	err := a.db.WithContext(ctx).Model(&domain.AdminUser{}).
		Where("email = ?", domain.NormalizeEmail(email)).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check admin allow-list: %w", err)
	}
	return n > 0, nil
}

func (a *Auth) authorize(ctx context.Context, user *domain.User) error {
	if !user.IsActive {
		return apperrors.New(apperrors.ErrCodeUnauthorized, "user account is inactive")
	}
	ok, err := a.IsAdmin(ctx, user.Email)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to check access", err)
	}
	if !ok {
		return apperrors.New(apperrors.ErrCodeForbidden, "this account does not have dashboard access")
	}
	return nil
}

func (a *Auth) isRevoked(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	for t, exp := range a.revoked {
		if !exp.IsZero() && now.After(exp) {
			delete(a.revoked, t)
		}
	}
	_, ok := a.revoked[token]
	return ok
}

func (a *Auth) emit(event SessionEvent) {
	metrics.RecordSessionEvent(string(event.Kind))

	a.mu.Lock()
	subs := make([]func(SessionEvent), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}
