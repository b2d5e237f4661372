// Package users provides a PostgreSQL-backed repository for identity records.
package users

import (
	"context"

	"github.com/avolkov/roomly/internal/server/models"
)

// Repository is the persistence surface the auth and profile flows consume.
// Lookups return common.ErrorNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}
