package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avolkov/roomly/internal/common"
	"github.com/avolkov/roomly/internal/logging"
	"github.com/avolkov/roomly/internal/server/models"
	"github.com/avolkov/roomly/internal/server/repositories/repomanager"
)

// UpdateProfileParams carries the editable profile fields. A nil Avatar means
// "keep the current picture"; a non-nil one replaces it with the uploaded file.
type UpdateProfileParams struct {
	FullName string
	Phone    string
	Avatar   *Upload
}

// UserService covers the profile surface: phone availability checks, profile
// reads for the authenticated principal, and profile updates.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       MediaStore
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, media MediaStore, logger logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, media: media, logger: logger}
}

// GetByID loads a user by ID, resolving a stored avatar key into a
// presigned download URL for the response.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.resolveAvatar(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CheckPhoneExists reports whether a phone number is already registered.
func (s *UserService) CheckPhoneExists(ctx context.Context, phone string) (bool, error) {
	_, err := s.repomanager.Users(s.db).GetByPhone(ctx, phone)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	s.logger.Error(ctx, "phone check failed", "error", err)
	return false, common.ErrorInternal
}

// UpdateProfile updates the caller's editable fields. A changed phone must not
// collide with another account. When a new avatar is supplied it is stored
// first and the user row points at the new key.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if params.Phone != "" && params.Phone != user.Phone {
		if _, err := repo.GetByPhone(ctx, params.Phone); err == nil {
			return nil, common.ErrDuplicatePhone
		} else if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "phone check failed", "error", err)
			return nil, common.ErrorInternal
		}
		user.Phone = params.Phone
	}

	if params.FullName != "" {
		user.FullName = params.FullName
	}

	if params.Avatar != nil {
		key, err := s.media.PutAvatar(ctx, *params.Avatar)
		if err != nil {
			if errors.Is(err, common.ErrUnsupportedMedia) || errors.Is(err, common.ErrFileTooLarge) {
				return nil, err
			}
			s.logger.Error(ctx, "avatar upload failed", "error", err)
			return nil, common.ErrorInternal
		}
		user.Avatar = key
	}

	updated, err := repo.Update(ctx, user)
	if err != nil {
		s.logger.Error(ctx, "user update failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.resolveAvatar(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *UserService) resolveAvatar(ctx context.Context, user *models.User) error {
	if user.Avatar == "" {
		return nil
	}
	url, err := s.media.PresignGet(ctx, user.Avatar)
	if err != nil {
		s.logger.Error(ctx, "avatar presign failed", "error", err)
		return common.ErrorInternal
	}
	user.Avatar = url
	return nil
}
