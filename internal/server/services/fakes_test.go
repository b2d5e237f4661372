package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avolkov/roomly/internal/common"
	"github.com/avolkov/roomly/internal/dbx"
	"github.com/avolkov/roomly/internal/logging"
	"github.com/avolkov/roomly/internal/server/models"
	postsrepo "github.com/avolkov/roomly/internal/server/repositories/posts"
	"github.com/avolkov/roomly/internal/server/repositories/repomanager"
	usersrepo "github.com/avolkov/roomly/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byPhone map[string]*models.User
	byID    map[string]*models.User

	createOut *models.User
	createErr error
	updateErr error

	emailCalls int
	phoneCalls int
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *u
	out.ID = "created-id"
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.emailCalls++
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	f.phoneCalls++
	if u, ok := f.byPhone[phone]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	out := *u
	return &out, nil
}

type fakePostsRepo struct {
	createErr error
	addErr    error

	listOut []*models.Post
	listErr error

	added []models.PostMedia
}

func (f *fakePostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *p
	out.ID = "post-id"
	return &out, nil
}

func (f *fakePostsRepo) AddMedia(ctx context.Context, media []models.PostMedia) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, media...)
	return nil
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return nil, common.ErrorNotFound
}

func (f *fakePostsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakePostsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Posts(db dbx.DBTX) postsrepo.Repository      { return m.p }

type fakeMediaStore struct {
	putPostErr   error
	putAvatarErr error
	presignErr   error

	putPostKeys   []string
	putAvatarKeys []string
}

func (f *fakeMediaStore) PutPostMedia(ctx context.Context, postID string, upload Upload) (string, error) {
	if f.putPostErr != nil {
		return "", f.putPostErr
	}
	key := "posts/" + postID + "/obj"
	f.putPostKeys = append(f.putPostKeys, key)
	return key, nil
}

func (f *fakeMediaStore) PutAvatar(ctx context.Context, upload Upload) (string, error) {
	if f.putAvatarErr != nil {
		return "", f.putAvatarErr
	}
	key := "avatars/obj"
	f.putAvatarKeys = append(f.putAvatarKeys, key)
	return key, nil
}

func (f *fakeMediaStore) PresignGet(ctx context.Context, key string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://s3.local/" + key, nil
}

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
var _ MediaStore = (*fakeMediaStore)(nil)
