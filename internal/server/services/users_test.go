package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avolkov/roomly/internal/common"
	"github.com/avolkov/roomly/internal/server/models"
)

func TestCheckPhoneExists(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byPhone: map[string]*models.User{"+491511": {ID: "u1"}},
	}}
	s := NewUserService(db, rm, &fakeMediaStore{}, nopLogger{})

	exists, err := s.CheckPhoneExists(context.Background(), "+491511")
	if err != nil {
		t.Fatalf("CheckPhoneExists error: %v", err)
	}
	if !exists {
		t.Error("want exists=true for registered phone")
	}

	exists, err = s.CheckPhoneExists(context.Background(), "+490000")
	if err != nil {
		t.Fatalf("CheckPhoneExists error: %v", err)
	}
	if exists {
		t.Error("want exists=false for unknown phone")
	}
}

func TestGetByID_ResolvesAvatar(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byID: map[string]*models.User{"u1": {ID: "u1", Avatar: "avatars/a.jpg"}},
	}}
	s := NewUserService(db, rm, &fakeMediaStore{}, nopLogger{})

	user, err := s.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if !strings.HasPrefix(user.Avatar, "https://") {
		t.Errorf("avatar = %q, want presigned URL", user.Avatar)
	}
}

func TestUpdateProfile_PhoneConflict(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byID:    map[string]*models.User{"u1": {ID: "u1", Phone: "+491511"}},
		byPhone: map[string]*models.User{"+492222": {ID: "u2"}},
	}}
	s := NewUserService(db, rm, &fakeMediaStore{}, nopLogger{})

	_, err := s.UpdateProfile(context.Background(), "u1", UpdateProfileParams{Phone: "+492222"})
	if !errors.Is(err, common.ErrDuplicatePhone) {
		t.Fatalf("err = %v, want ErrDuplicatePhone", err)
	}
}

func TestUpdateProfile_KeepOwnPhone(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeUsersRepo{
		byID:    map[string]*models.User{"u1": {ID: "u1", Phone: "+491511"}},
		byPhone: map[string]*models.User{"+491511": {ID: "u1"}},
	}
	rm := &fakeRepoManager{u: repo}
	s := NewUserService(db, rm, &fakeMediaStore{}, nopLogger{})

	user, err := s.UpdateProfile(context.Background(), "u1", UpdateProfileParams{Phone: "+491511", FullName: "Ann"})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if user.FullName != "Ann" {
		t.Errorf("full name = %q, want Ann", user.FullName)
	}
	if repo.phoneCalls != 0 {
		t.Errorf("phone lookup ran %d times for unchanged phone, want 0", repo.phoneCalls)
	}
}

func TestUpdateProfile_Avatar(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	media := &fakeMediaStore{}
	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byID: map[string]*models.User{"u1": {ID: "u1"}},
	}}
	s := NewUserService(db, rm, media, nopLogger{})

	user, err := s.UpdateProfile(context.Background(), "u1", UpdateProfileParams{
		Avatar: &Upload{Data: []byte("img"), ContentType: "image/png"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if len(media.putAvatarKeys) != 1 {
		t.Fatalf("avatar uploads = %d, want 1", len(media.putAvatarKeys))
	}
	if !strings.HasPrefix(user.Avatar, "https://") {
		t.Errorf("avatar = %q, want presigned URL", user.Avatar)
	}
}

func TestUpdateProfile_AvatarRejected(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	media := &fakeMediaStore{putAvatarErr: common.ErrUnsupportedMedia}
	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byID: map[string]*models.User{"u1": {ID: "u1"}},
	}}
	s := NewUserService(db, rm, media, nopLogger{})

	_, err := s.UpdateProfile(context.Background(), "u1", UpdateProfileParams{
		Avatar: &Upload{Data: []byte("x"), ContentType: "image/gif"},
	})
	if !errors.Is(err, common.ErrUnsupportedMedia) {
		t.Fatalf("err = %v, want ErrUnsupportedMedia", err)
	}
}
