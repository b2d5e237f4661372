package httpapi

import (
	"context"
	"net/http"

	"github.com/avolkov/roomly/internal/common"
	"github.com/avolkov/roomly/internal/server/auth"
)

type contextKey string

const principalKey contextKey = "principal"

// sessionMiddleware reads the access token cookie and, when it verifies,
// stores the claims in the request context. Requests without a cookie or with
// a bad token pass through anonymously; only requireAuth turns the absence of
// a principal into a 401. The Authorization header is deliberately ignored.
func (a *API) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(accessTokenCookie); err == nil {
			if claims, err := a.sessions.Authenticate(r.Context(), c.Value); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), principalKey, claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests that carry no authenticated principal.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := principalFrom(r.Context()); !ok {
			a.writeError(w, r, common.ErrorUnauthorized)
			return
		}
		next(w, r)
	}
}

func principalFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(principalKey).(*auth.Claims)
	return claims, ok
}
