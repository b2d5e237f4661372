package httpapi

import (
	"net/http"
	"time"

	"github.com/avolkov/roomly/internal/server/services"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

func (a *API) newAuthCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	}
}

// setTokenPair attaches both auth cookies. Cookie lifetimes mirror the
// embedded token expiries so the browser drops them at the same time the
// server would start rejecting them.
func (a *API) setTokenPair(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, a.newAuthCookie(accessTokenCookie, pair.AccessToken, a.config.AccessTokenValidityDuration))
	http.SetCookie(w, a.newAuthCookie(refreshTokenCookie, pair.RefreshToken, a.config.RefreshTokenValidityDuration))
}

func (a *API) setAccessToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, a.newAuthCookie(accessTokenCookie, token, a.config.AccessTokenValidityDuration))
}

// clearTokenPair expires both auth cookies. Logout is idempotent: clearing
// cookies that were never set is fine.
func (a *API) clearTokenPair(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c := a.newAuthCookie(name, "", 0)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}
