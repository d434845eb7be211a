package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"random-coffee/internal/pkg/jwt"
	ucauth "random-coffee/internal/usecase/auth"
)

type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

type AuthUsecase interface {
	Login(ctx context.Context, in ucauth.LoginInput) (AccessToken, error)
	Authorize(token string) (int64, error)
}

type Auth struct {
	authSvc *ucauth.Service
	jwt     jwt.Service
	logger  *log.Logger
}

func NewAuthUsecase(authSvc *ucauth.Service, jwtSvc jwt.Service, logger *log.Logger) *Auth {
	if logger == nil {
		logger = log.Default()
	}
	return &Auth{authSvc: authSvc, jwt: jwtSvc, logger: logger}
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (AccessToken, error) {
	adminID, err := u.authSvc.Login(ctx, in)
	if err != nil {
		if errors.Is(err, ucauth.ErrNotConfigured) {
			u.logger.Printf("admin_login status=error err=%v", err)
		}
		return AccessToken{}, ErrUnauthorized
	}

	token, exp, err := u.jwt.GenerateAccessToken(adminID)
	if err != nil {
		u.logger.Printf("admin_login admin_id=%d step=sign status=error err=%v", adminID, err)
		return AccessToken{}, ErrInternal
	}
	u.logger.Printf("admin_login admin_id=%d status=ok", adminID)
	return AccessToken{Token: token, ExpiresAt: exp}, nil
}

// Authorize validates a bearer token and returns the admin id it was issued
// to. Admins removed from the allowlist lose access immediately.
func (u *Auth) Authorize(token string) (int64, error) {
	if token == "" {
		return 0, ErrUnauthorized
	}
	claims, err := u.jwt.ValidateToken(token)
	if err != nil {
		return 0, ErrUnauthorized
	}
	if !u.authSvc.IsAdmin(claims.AdminID) {
		return 0, ErrUnauthorized
	}
	return claims.AdminID, nil
}
