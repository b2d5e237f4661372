// Package posts provides a PostgreSQL-backed repository for rental listings
// and their attached media rows.
package posts

import (
	"context"

	"github.com/avolkov/roomly/internal/server/models"
)

// Repository is the persistence surface of the listings domain. Create and
// AddMedia are designed to run inside one transaction (dbx.WithTx) so a post
// and its media land atomically.
type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	AddMedia(ctx context.Context, media []models.PostMedia) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Post, error)
}
