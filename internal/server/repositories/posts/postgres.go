package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkov/roomly/internal/common"
	"github.com/avolkov/roomly/internal/dbx"
	"github.com/avolkov/roomly/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const postColumns = `id, user_id, type, title, description, price, price_type, area, address,
	room_type, gender_requirement, max_occupants, available_from, contact_name, contact_phone,
	status, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	query :=
		`INSERT INTO posts (user_id, type, title, description, price, price_type, area, address,
		     room_type, gender_requirement, max_occupants, available_from, contact_name, contact_phone, status)
	     VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		post.UserID, post.Type, post.Title, post.Description, post.Price, post.PriceType,
		post.Area, post.Address, post.RoomType, post.GenderRequirement, post.MaxOccupants,
		post.AvailableFrom, post.ContactName, post.ContactPhone, post.Status).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) AddMedia(ctx context.Context, media []models.PostMedia) error {
	query := `
		INSERT INTO post_media (post_id, media_url, media_type, sort_order, alt_text)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, m := range media {
		if _, err := r.db.ExecContext(ctx, query, m.PostID, m.MediaURL, m.MediaType, m.SortOrder, m.AltText); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.UserID, &post.Type, &post.Title, &post.Description, &post.Price,
		&post.PriceType, &post.Area, &post.Address, &post.RoomType, &post.GenderRequirement,
		&post.MaxOccupants, &post.AvailableFrom, &post.ContactName, &post.ContactPhone,
		&post.Status, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	media, err := r.listMedia(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Media = media

	return post, nil
}

// ListByUser returns the user's posts, newest first, each with its media rows
// in ascending sort order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		post := &models.Post{}
		err := rows.Scan(
			&post.ID, &post.UserID, &post.Type, &post.Title, &post.Description, &post.Price,
			&post.PriceType, &post.Area, &post.Address, &post.RoomType, &post.GenderRequirement,
			&post.MaxOccupants, &post.AvailableFrom, &post.ContactName, &post.ContactPhone,
			&post.Status, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, post := range result {
		media, err := r.listMedia(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		post.Media = media
	}

	return result, nil
}

func (r *PostgresRepository) listMedia(ctx context.Context, postID string) ([]models.PostMedia, error) {
	query := `
		SELECT id, post_id, media_url, media_type, sort_order, alt_text, created_at
		FROM post_media
		WHERE post_id = $1
		ORDER BY sort_order ASC
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var media []models.PostMedia
	for rows.Next() {
		var m models.PostMedia
		if err := rows.Scan(&m.ID, &m.PostID, &m.MediaURL, &m.MediaType, &m.SortOrder, &m.AltText, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return media, nil
}
