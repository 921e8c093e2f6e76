package services

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studioworks/internal/backend"
	"studioworks/internal/domain"
	"studioworks/internal/util"
	apperrors "studioworks/pkg/errors"
)

// AuthService fronts the backend auth for the dashboard and API, and manages admin accounts.
type AuthService struct {
	auth *backend.Auth
	db   *gorm.DB
	log  *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(client *backend.Client, log *zap.Logger) *AuthService {
	return &AuthService{auth: client.Auth, db: client.DB(), log: log}
}

// Login implements the login method
func (s *AuthService) Login(ctx context.Context, email, password string) (*backend.Session, error) {
	return s.auth.SignIn(ctx, email, password)
}

// Session resolves an access token.
func (s *AuthService) Session(ctx context.Context, token string) (*backend.Session, error) {
	return s.auth.GetSession(ctx, token)
}

// Logout implements the logout method
func (s *AuthService) Logout(ctx context.Context, session *backend.Session) error {
	return s.auth.SignOut(ctx, session)
}

// OnSessionChange forwards to the backend subscription.
func (s *AuthService) OnSessionChange(fn func(backend.SessionEvent)) func() {
	return s.auth.OnSessionChange(fn)
}

// AdminInput describes a dashboard account to create.
type AdminInput struct {
	Email    string
	Password string
	FullName string
}

func (in AdminInput) validate() error {
	return domain.FieldErrors(validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, validation.Required, validation.Length(8, 128)),
	))
}

// CreateAdmin creates an active user and adds it to the allow-list in one transaction.
// An existing user with the same email gets a new password and is allow-listed.
func (s *AuthService) CreateAdmin(ctx context.Context, in AdminInput) (*domain.User, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	in.Password = strings.TrimSpace(in.Password)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := in.validate(); err != nil {
		return nil, err
	}

	hashed, err := util.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to hash password", err)
	}

	var user domain.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", in.Email).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = domain.User{Email: in.Email}
		case err != nil:
			return err
		}
		user.HashedPassword = hashed
		user.IsActive = true
		if in.FullName != "" {
			name := in.FullName
			user.FullName = &name
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&domain.AdminUser{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return tx.Create(&domain.AdminUser{Email: in.Email}).Error
		}
		return nil
	})
	if err != nil {
		s.log.Error("create admin failed", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to create admin", err)
	}

	s.log.Info("admin ready", zap.String("email", user.Email), zap.Uint("id", user.ID))
	return &user, nil
}
