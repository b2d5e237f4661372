package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/avolkov/roomly/internal/common"
	sc "github.com/avolkov/roomly/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Upload limits. Listing media allows images and short clips, avatars images only.
const (
	MaxPostMediaSize  = 8 << 20
	MaxPostMediaCount = 5
	MaxAvatarSize     = 5 << 20
)

var postMediaExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"video/mp4":       "mp4",
	"video/quicktime": "mov",
}

var avatarExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
}

// Upload is a file received from a client, held in memory until stored.
type Upload struct {
	Data        []byte
	ContentType string
}

// MediaStore is the object-storage surface used by the profile and listing
// services. Put stores a blob under a key; PresignGet returns a time-limited
// download URL for one.
type MediaStore interface {
	PutPostMedia(ctx context.Context, postID string, upload Upload) (string, error)
	PutAvatar(ctx context.Context, upload Upload) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// MediaService implements MediaStore over an S3-compatible endpoint
// (MinIO in development). Clients are built per call from static credentials.
type MediaService struct {
	config *sc.Config
}

func NewMediaService(config *sc.Config) *MediaService {
	return &MediaService{config: config}
}

func (s *MediaService) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	}), nil
}

// PutPostMedia validates and stores one listing attachment and returns its
// storage key. Keys are namespaced by post so a listing's files live together.
func (s *MediaService) PutPostMedia(ctx context.Context, postID string, upload Upload) (string, error) {
	ext, ok := postMediaExtensions[upload.ContentType]
	if !ok {
		return "", common.ErrUnsupportedMedia
	}
	if len(upload.Data) > MaxPostMediaSize {
		return "", common.ErrFileTooLarge
	}

	key := fmt.Sprintf("posts/%s/%v.%s", postID, uuid.New(), ext)
	if err := s.put(ctx, key, upload); err != nil {
		return "", err
	}
	return key, nil
}

// PutAvatar validates and stores a profile picture and returns its storage key.
func (s *MediaService) PutAvatar(ctx context.Context, upload Upload) (string, error) {
	ext, ok := avatarExtensions[upload.ContentType]
	if !ok {
		return "", common.ErrUnsupportedMedia
	}
	if len(upload.Data) > MaxAvatarSize {
		return "", common.ErrFileTooLarge
	}

	key := fmt.Sprintf("avatars/%v.%s", uuid.New(), ext)
	if err := s.put(ctx, key, upload); err != nil {
		return "", err
	}
	return key, nil
}

func (s *MediaService) put(ctx context.Context, key string, upload Upload) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(upload.Data),
		ContentType: aws.String(upload.ContentType),
	})
	return err
}

// PresignGet returns a time-limited download URL for a stored object.
func (s *MediaService) PresignGet(ctx context.Context, key string) (string, error) {
	client, err := s.getClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	// Presigned GET
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
