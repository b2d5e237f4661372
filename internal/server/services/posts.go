package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avolkov/roomly/internal/common"
	"github.com/avolkov/roomly/internal/dbx"
	"github.com/avolkov/roomly/internal/logging"
	"github.com/avolkov/roomly/internal/server/models"
	"github.com/avolkov/roomly/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// CreatePostParams describes a new listing together with its attachments.
type CreatePostParams struct {
	Type              models.PostType
	Title             string
	Description       string
	Price             decimal.Decimal
	PriceType         models.PriceType
	Area              float64
	Address           string
	RoomType          models.RoomType
	GenderRequirement models.GenderRequirement
	MaxOccupants      int
	AvailableFrom     *time.Time
	ContactName       string
	ContactPhone      string
	Media             []Upload
}

// PostService covers the listings surface: creation with media attachments
// and per-user listing retrieval.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       MediaStore
	logger      logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, media MediaStore, logger logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, media: media, logger: logger}
}

// CreatePost stores a listing and its media atomically. The post row and the
// media rows share one transaction; an upload failure rolls the whole listing
// back. New listings start in PostPending.
func (s *PostService) CreatePost(ctx context.Context, userID string, params CreatePostParams) (*models.Post, error) {
	if len(params.Media) > MaxPostMediaCount {
		return nil, common.ErrorBadRequest
	}

	post := &models.Post{
		UserID:            userID,
		Type:              params.Type,
		Title:             params.Title,
		Description:       params.Description,
		Price:             params.Price,
		PriceType:         params.PriceType,
		Area:              params.Area,
		Address:           params.Address,
		RoomType:          params.RoomType,
		GenderRequirement: params.GenderRequirement,
		MaxOccupants:      params.MaxOccupants,
		AvailableFrom:     params.AvailableFrom,
		ContactName:       params.ContactName,
		ContactPhone:      params.ContactPhone,
		Status:            models.PostPending,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		created, err := repo.Create(ctx, post)
		if err != nil {
			return err
		}
		post = created

		var media []models.PostMedia
		for i, upload := range params.Media {
			key, err := s.media.PutPostMedia(ctx, post.ID, upload)
			if err != nil {
				return err
			}
			mediaType := mediaTypeOf(upload.ContentType)
			media = append(media, models.PostMedia{
				PostID:    post.ID,
				MediaURL:  key,
				MediaType: mediaType,
				SortOrder: i,
				AltText:   fmt.Sprintf("%s %d", mediaType, i+1),
			})
		}

		if len(media) > 0 {
			if err := repo.AddMedia(ctx, media); err != nil {
				return err
			}
		}
		post.Media = media
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedMedia) || errors.Is(err, common.ErrFileTooLarge) {
			return nil, err
		}
		s.logger.Error(ctx, "post creation failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.resolveMedia(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListByUser returns a user's listings, newest first, with presigned media
// URLs and the author projection attached to each.
func (s *PostService) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	result, err := s.repomanager.Posts(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "post listing failed", "error", err)
		return nil, common.ErrorInternal
	}

	author := user.Public()
	for _, post := range result {
		post.Author = author
		if err := s.resolveMedia(ctx, post); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *PostService) resolveMedia(ctx context.Context, post *models.Post) error {
	for i := range post.Media {
		url, err := s.media.PresignGet(ctx, post.Media[i].MediaURL)
		if err != nil {
			s.logger.Error(ctx, "media presign failed", "error", err)
			return common.ErrorInternal
		}
		post.Media[i].MediaURL = url
	}
	return nil
}

func mediaTypeOf(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return "video"
	}
	return "image"
}
