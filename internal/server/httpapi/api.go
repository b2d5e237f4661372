// Package httpapi exposes the service layer over HTTP. Authentication rides
// in HttpOnly cookies; request and response bodies are JSON except for the
// multipart upload endpoints.
package httpapi

import (
	"context"

	"github.com/avolkov/roomly/internal/logging"
	"github.com/avolkov/roomly/internal/server/auth"
	"github.com/avolkov/roomly/internal/server/config"
	"github.com/avolkov/roomly/internal/server/models"
	"github.com/avolkov/roomly/internal/server/services"
	"github.com/gorilla/mux"
)

// SessionManager is the authentication surface the transport depends on.
type SessionManager interface {
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	Register(ctx context.Context, params services.RegisterParams) (*models.User, *services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// UserManager is the profile surface the transport depends on.
type UserManager interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	CheckPhoneExists(ctx context.Context, phone string) (bool, error)
	UpdateProfile(ctx context.Context, userID string, params services.UpdateProfileParams) (*models.User, error)
}

// PostManager is the listings surface the transport depends on.
type PostManager interface {
	CreatePost(ctx context.Context, userID string, params services.CreatePostParams) (*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Post, error)
}

// API wires the HTTP routes to the services.
type API struct {
	sessions SessionManager
	users    UserManager
	posts    PostManager
	logger   logging.Logger
	config   *config.Config
}

func NewAPI(sessions SessionManager, users UserManager, posts PostManager, logger logging.Logger, cfg *config.Config) *API {
	return &API{
		sessions: sessions,
		users:    users,
		posts:    posts,
		logger:   logger,
		config:   cfg,
	}
}

// Router builds the route table. The session middleware runs on every request
// and attaches the principal when a valid access token cookie is present;
// protected handlers additionally go through requireAuth.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.sessionMiddleware)

	r.HandleFunc("/auth/login", a.handleLogin).Methods("POST")
	r.HandleFunc("/auth/register", a.handleRegister).Methods("POST")
	r.HandleFunc("/auth/refresh", a.handleRefresh).Methods("POST")
	r.HandleFunc("/auth/logout", a.handleLogout).Methods("POST")
	r.HandleFunc("/auth/me", a.requireAuth(a.handleMe)).Methods("GET")

	r.HandleFunc("/users/check-exists-phone", a.requireAuth(a.handleCheckPhone)).Methods("POST")
	r.HandleFunc("/users/update-user-info", a.requireAuth(a.handleUpdateProfile)).Methods("POST")

	r.HandleFunc("/posts/create", a.requireAuth(a.handleCreatePost)).Methods("POST")
	r.HandleFunc("/posts/user", a.requireAuth(a.handleListOwnPosts)).Methods("POST")

	return r
}
