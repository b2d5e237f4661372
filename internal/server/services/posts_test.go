package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avolkov/roomly/internal/common"
	"github.com/avolkov/roomly/internal/server/models"
	"github.com/shopspring/decimal"
)

func TestCreatePost_WithMedia(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakePostsRepo{}
	media := &fakeMediaStore{}
	rm := &fakeRepoManager{p: repo, u: &fakeUsersRepo{}}
	s := NewPostService(db, rm, media, nopLogger{})

	post, err := s.CreatePost(context.Background(), "u1", CreatePostParams{
		Type:      models.PostForRent,
		Title:     "Bright room near the station",
		Price:     decimal.NewFromInt(550),
		PriceType: models.PriceMonthly,
		RoomType:  models.RoomSingle,
		Media: []Upload{
			{Data: []byte("a"), ContentType: "image/jpeg"},
			{Data: []byte("b"), ContentType: "video/mp4"},
		},
	})
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}

	if post.Status != models.PostPending {
		t.Errorf("status = %v, want pending", post.Status)
	}
	if len(repo.added) != 2 {
		t.Fatalf("media rows = %d, want 2", len(repo.added))
	}
	if repo.added[0].SortOrder != 0 || repo.added[1].SortOrder != 1 {
		t.Errorf("sort orders = %d,%d, want 0,1", repo.added[0].SortOrder, repo.added[1].SortOrder)
	}
	if repo.added[0].MediaType != "image" || repo.added[1].MediaType != "video" {
		t.Errorf("media types = %q,%q", repo.added[0].MediaType, repo.added[1].MediaType)
	}
	if repo.added[0].AltText != "image 1" || repo.added[1].AltText != "video 2" {
		t.Errorf("alt texts = %q,%q", repo.added[0].AltText, repo.added[1].AltText)
	}
	for _, m := range post.Media {
		if !strings.HasPrefix(m.MediaURL, "https://") {
			t.Errorf("media url = %q, want presigned URL", m.MediaURL)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreatePost_TooManyFiles(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewPostService(db, &fakeRepoManager{p: &fakePostsRepo{}}, &fakeMediaStore{}, nopLogger{})

	uploads := make([]Upload, MaxPostMediaCount+1)
	for i := range uploads {
		uploads[i] = Upload{Data: []byte("x"), ContentType: "image/png"}
	}

	_, err := s.CreatePost(context.Background(), "u1", CreatePostParams{Media: uploads})
	if !errors.Is(err, common.ErrorBadRequest) {
		t.Fatalf("err = %v, want ErrorBadRequest", err)
	}
}

func TestCreatePost_UploadFailureRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakePostsRepo{}
	media := &fakeMediaStore{putPostErr: common.ErrUnsupportedMedia}
	s := NewPostService(db, &fakeRepoManager{p: repo}, media, nopLogger{})

	_, err := s.CreatePost(context.Background(), "u1", CreatePostParams{
		Media: []Upload{{Data: []byte("x"), ContentType: "image/gif"}},
	})
	if !errors.Is(err, common.ErrUnsupportedMedia) {
		t.Fatalf("err = %v, want ErrUnsupportedMedia", err)
	}
	if len(repo.added) != 0 {
		t.Errorf("media rows persisted despite failed upload")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestListByUser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byID: map[string]*models.User{
			"u1": {ID: "u1", Email: "ann@example.com", FullName: "Ann"},
		}},
		p: &fakePostsRepo{listOut: []*models.Post{
			{ID: "p1", UserID: "u1", Media: []models.PostMedia{{MediaURL: "posts/p1/a.jpg"}}},
			{ID: "p2", UserID: "u1"},
		}},
	}
	s := NewPostService(db, rm, &fakeMediaStore{}, nopLogger{})

	result, err := s.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("posts = %d, want 2", len(result))
	}
	for _, p := range result {
		if p.Author.FullName != "Ann" {
			t.Errorf("author = %+v, want Ann", p.Author)
		}
	}
	if got := result[0].Media[0].MediaURL; !strings.HasPrefix(got, "https://") {
		t.Errorf("media url = %q, want presigned URL", got)
	}
}

func TestListByUser_UnknownUser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewPostService(db, &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakePostsRepo{}}, &fakeMediaStore{}, nopLogger{})

	_, err := s.ListByUser(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("err = %v, want ErrorNotFound", err)
	}
}
