// Package services contains server-side business logic. This file implements
// SessionService, which orchestrates credential verification, registration,
// and the access/refresh token lifecycle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/avolkov/roomly/internal/common"
	"github.com/avolkov/roomly/internal/logging"
	"github.com/avolkov/roomly/internal/server/auth"
	"github.com/avolkov/roomly/internal/server/config"
	"github.com/avolkov/roomly/internal/server/models"
	"github.com/avolkov/roomly/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// Both are stateless JWTs; nothing about them is persisted server-side.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterParams are the fields accepted at registration. Avatar is an
// optional object-storage key set by the transport layer after upload.
type RegisterParams struct {
	Email    string
	Phone    string
	FullName string
	Password string
	Avatar   string
}

// SessionService provides the authentication flows:
//   - Login: verify credentials and mint a token pair
//   - Register: create an identity, then behave exactly like Login
//   - Refresh: exchange a valid refresh token for a new access token
//   - Authenticate: resolve an access token into claims (used by the guard)
//
// The service is stateless; concurrent logins for one account each mint
// independent, equally valid pairs.
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewSessionService constructs a SessionService using repositories and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login verifies the email/password pair and, on success, returns the user
// and a fresh TokenPair. Unknown email and wrong password are both
// common.ErrorUnauthorized; the client cannot tell them apart.
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Register creates a new identity and logs it in.
//
// The email is lowercased and trimmed before the uniqueness check; the two
// uniqueness checks run sequentially and short-circuit, so a duplicate email
// never costs a phone lookup. No identity row is written unless both pass.
func (s *SessionService) Register(ctx context.Context, params RegisterParams) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	email := strings.ToLower(strings.TrimSpace(params.Email))
	phone := strings.TrimSpace(params.Phone)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "register email check failed", "error", err)
		return nil, nil, common.ErrorInternal
	}

	if _, err := repo.GetByPhone(ctx, phone); err == nil {
		return nil, nil, common.ErrDuplicatePhone
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "register phone check failed", "error", err)
		return nil, nil, common.ErrorInternal
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, nil, common.ErrorInternal
	}

	// email_verified_at is stamped at creation, matching the existing data:
	// the verification step is effectively skipped.
	now := time.Now()
	user := &models.User{
		Email:           email,
		Phone:           phone,
		FullName:        params.FullName,
		Avatar:          params.Avatar,
		PasswordHash:    hash,
		Role:            models.RoleUser,
		Status:          models.StatusInactive,
		EmailVerifiedAt: &now,
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		s.logger.Error(ctx, "user creation failed", "error", err)
		return nil, nil, common.ErrorInternal
	}

	pair, err := s.generateTokenPair(created)
	if err != nil {
		return nil, nil, err
	}
	return created, pair, nil
}

// Refresh validates a refresh token and mints a new access token for its
// subject. The refresh token itself is left untouched: it stays valid until
// its embedded expiry. Every failure mode (missing subject, expired, forged,
// wrong class) is reported as common.ErrorUnauthorized.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := auth.ParseToken(refreshToken, auth.ClassRefresh, s.jwtSecret)
	if err != nil {
		s.logger.Info(ctx, "refresh token rejected", "reason", err.Error())
		return "", common.ErrorUnauthorized
	}

	// Re-fetch the identity: a token for a deleted account must not refresh.
	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "refresh lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	access, err := auth.GenerateToken(user.ID, user.Email, auth.ClassAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "access token generation failed", "error", err)
		return "", common.ErrorInternal
	}
	return access, nil
}

// Authenticate resolves an access token into its claims. Any verification
// failure collapses to common.ErrorUnauthorized; the internal reason is
// logged and never surfaced.
func (s *SessionService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(accessToken, auth.ClassAccess, s.jwtSecret)
	if err != nil {
		s.logger.Debug(ctx, "access token rejected", "reason", err.Error())
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

func (s *SessionService) generateTokenPair(user *models.User) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, auth.ClassAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := auth.GenerateToken(user.ID, user.Email, auth.ClassRefresh, s.jwtSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
